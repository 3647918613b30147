package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/quantbed/lobwin/pkg/augment"
	"github.com/quantbed/lobwin/pkg/config"
	"github.com/quantbed/lobwin/pkg/dataset"
	"github.com/quantbed/lobwin/pkg/feature"
	"github.com/quantbed/lobwin/pkg/model"
	"github.com/quantbed/lobwin/pkg/queue/nats"
	"github.com/quantbed/lobwin/pkg/store/duckdb"
	"github.com/quantbed/lobwin/pkg/store/milvus"
)

const writeBatchSize = 500

func main() {
	configPath := flag.String("config", "config.yaml", "Config file path")
	split := flag.String("split", config.SplitTrain, "Split to build: train, validation or test")
	publish := flag.Bool("publish", false, "Publish batches to NATS instead of writing storage directly")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.App.LogLevel)
	defer logger.Sync()

	ctx := context.Background()

	files, err := cfg.SplitFiles(*split)
	if err != nil {
		logger.Fatal("split selection failed", zap.Error(err))
	}

	logger.Info("loading split",
		zap.String("split", *split),
		zap.Strings("files", files),
	)
	raw, err := dataset.LoadFiles(files...)
	if err != nil {
		logger.Fatal("failed to load split files", zap.Error(err))
	}
	logger.Info("split loaded", zap.Int("time_steps", raw.Cols()))

	features, err := dataset.ExtractFeatures(raw)
	if err != nil {
		logger.Fatal("failed to extract features", zap.Error(err))
	}
	labels, err := dataset.ExtractLabels(raw)
	if err != nil {
		logger.Fatal("failed to extract labels", zap.Error(err))
	}

	horizon := cfg.Dataset.Horizon()
	ds, err := dataset.BuildWindows(features, labels, horizon, cfg.Dataset.WindowLength)
	if err != nil {
		logger.Fatal("failed to build windows", zap.Error(err))
	}

	dist := dataset.ClassDistribution(ds)
	logger.Info("windows built",
		zap.Int("count", ds.Len()),
		zap.Int("window_length", ds.WindowLength),
		zap.Int("horizon", horizon),
		zap.String("distribution", dist.String()),
	)

	if cfg.Augment.Enabled && *split == config.SplitTrain {
		ds = augment.New(augment.Config{
			Seed:         cfg.Augment.Seed,
			NoiseStd:     cfg.Augment.NoiseStd,
			LevelDropout: cfg.Augment.LevelDropout,
		}).Apply(ds)
		logger.Info("augmentation applied",
			zap.Int64("seed", cfg.Augment.Seed),
			zap.Float64("noise_std", cfg.Augment.NoiseStd),
			zap.Float64("level_dropout", cfg.Augment.LevelDropout),
		)
	}

	windows := ds.Windows(*split, cfg.Dataset.DataVersion)

	extractor := feature.NewExtractor(cfg.Dataset.DataVersion, cfg.Vector.Dim)
	extractor.ClipStd = cfg.Vector.ClipStd

	featureRows := make([]*model.FeatureRow, 0, len(windows))
	vectors := make([]nats.VectorMsg, 0, len(windows))
	for _, w := range windows {
		row, vec, err := extractor.Extract(w)
		if err != nil {
			logger.Fatal("feature extraction failed", zap.String("window_id", w.WindowID), zap.Error(err))
		}
		featureRows = append(featureRows, row)
		vectors = append(vectors, nats.VectorMsg{
			WindowID:        w.WindowID,
			Embedding:       vec,
			Split:           w.Split,
			EndIndex:        int64(w.EndIndex),
			Horizon:         int32(w.Horizon),
			Direction:       int32(w.Direction),
			TrendBucket:     int32(row.TrendBucket),
			ImbalanceBucket: int32(row.ImbalanceBucket),
			DataVersion:     int32(row.DataVersion),
		})
	}

	if *publish {
		if err := publishBatches(ctx, cfg, windows, featureRows, vectors); err != nil {
			logger.Fatal("publish failed", zap.Error(err))
		}
		logger.Info("batches published", zap.Int("windows", len(windows)))
		return
	}

	if err := writeStorage(ctx, cfg, *split, files, dist, windows, featureRows, vectors); err != nil {
		logger.Fatal("storage write failed", zap.Error(err))
	}
	logger.Info("build stored", zap.Int("windows", len(windows)))
}

// publishBatches hands the build to the writer workers over JetStream.
func publishBatches(ctx context.Context, cfg *config.Config, windows []*model.Window, featureRows []*model.FeatureRow, vectors []nats.VectorMsg) error {
	client, err := nats.NewClient(nats.Config{
		URL:        cfg.NATS.URL,
		StreamName: cfg.NATS.Stream,
	})
	if err != nil {
		return err
	}
	defer client.Close()

	subjects := []string{nats.SubjectWindowWrite, nats.SubjectVectorWrite}
	if err := client.CreateStream(ctx, subjects); err != nil {
		return err
	}

	for start := 0; start < len(windows); start += writeBatchSize {
		end := start + writeBatchSize
		if end > len(windows) {
			end = len(windows)
		}

		data, err := nats.Encode(&nats.WindowBatchMsg{
			Windows:  windows[start:end],
			Features: featureRows[start:end],
		})
		if err != nil {
			return err
		}
		if err := client.Publish(ctx, nats.SubjectWindowWrite, data); err != nil {
			return err
		}

		data, err = nats.Encode(&nats.VectorBatchMsg{Vectors: vectors[start:end]})
		if err != nil {
			return err
		}
		if err := client.Publish(ctx, nats.SubjectVectorWrite, data); err != nil {
			return err
		}
	}
	return nil
}

// writeStorage persists the build directly to DuckDB and Milvus.
func writeStorage(ctx context.Context, cfg *config.Config, split string, files []string, dist dataset.Distribution, windows []*model.Window, featureRows []*model.FeatureRow, vectors []nats.VectorMsg) error {
	duckClient, err := duckdb.NewClient(cfg.DuckDB.Path)
	if err != nil {
		return err
	}
	defer duckClient.Close()

	if err := duckdb.InitializeSchema(ctx, duckClient); err != nil {
		return err
	}

	windowRepo := duckdb.NewWindowRepo(duckClient)
	featureRepo := duckdb.NewFeatureRepo(duckClient)
	runRepo := duckdb.NewRunRepo(duckClient)

	for start := 0; start < len(windows); start += writeBatchSize {
		end := start + writeBatchSize
		if end > len(windows) {
			end = len(windows)
		}
		if err := windowRepo.InsertBatch(ctx, windows[start:end]); err != nil {
			return err
		}
		if err := featureRepo.InsertBatch(ctx, featureRows[start:end]); err != nil {
			return err
		}
	}

	milvusClient, err := milvus.NewClient(ctx, milvus.Config{Address: cfg.Milvus.Address})
	if err != nil {
		return err
	}
	defer milvusClient.Close()

	collectionCfg := milvus.CollectionConfig{
		Name:      cfg.Milvus.Collection,
		Dimension: cfg.Vector.Dim,
		Shards:    2,
	}
	if err := milvusClient.CreateCollection(ctx, collectionCfg); err != nil {
		return err
	}
	if err := milvusClient.CreateIndex(ctx, cfg.Milvus.Collection, "embedding"); err != nil {
		return err
	}

	for start := 0; start < len(vectors); start += writeBatchSize {
		end := start + writeBatchSize
		if end > len(vectors) {
			end = len(vectors)
		}
		batch := make([]*milvus.WindowData, 0, end-start)
		for _, v := range vectors[start:end] {
			batch = append(batch, &milvus.WindowData{
				WindowID:        v.WindowID,
				Embedding:       v.Embedding,
				Split:           v.Split,
				EndIndex:        v.EndIndex,
				Horizon:         v.Horizon,
				Direction:       v.Direction,
				TrendBucket:     v.TrendBucket,
				ImbalanceBucket: v.ImbalanceBucket,
				DataVersion:     v.DataVersion,
			})
		}
		if err := milvusClient.InsertBatch(ctx, cfg.Milvus.Collection, batch); err != nil {
			return err
		}
	}
	if err := milvusClient.Flush(ctx, cfg.Milvus.Collection); err != nil {
		return err
	}

	run := duckdb.NewBuildRun(split, files, cfg.Dataset.WindowLength, cfg.Dataset.Horizon(), cfg.Dataset.DataVersion, cfg.Augment.Seed)
	run.SetCounts(dist.Total, dist.Counts)
	return runRepo.Insert(ctx, run)
}

func newLogger(level string) *zap.Logger {
	lvl := zapcore.InfoLevel
	if err := lvl.Set(level); err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
