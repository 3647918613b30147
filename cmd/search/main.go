package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/quantbed/lobwin/pkg/config"
	"github.com/quantbed/lobwin/pkg/dataset"
	"github.com/quantbed/lobwin/pkg/feature"
	"github.com/quantbed/lobwin/pkg/model"
	"github.com/quantbed/lobwin/pkg/rerank"
	"github.com/quantbed/lobwin/pkg/store/milvus"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Config file path")
	split := flag.String("split", config.SplitTrain, "Split the query window belongs to")
	endIndex := flag.Int("end-index", -1, "Time-step index of the query window's last snapshot")
	topK := flag.Int("topk", 10, "Number of similar windows to return")
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

	raw, err := dataset.LoadFiles(files...)
	if err != nil {
		logger.Fatal("failed to load split files", zap.Error(err))
	}

	features, err := dataset.ExtractFeatures(raw)
	if err != nil {
		logger.Fatal("failed to extract features", zap.Error(err))
	}
	labels, err := dataset.ExtractLabels(raw)
	if err != nil {
		logger.Fatal("failed to extract labels", zap.Error(err))
	}

	t := cfg.Dataset.WindowLength
	horizon := cfg.Dataset.Horizon()
	n := len(features)
	if *endIndex < t-1 || *endIndex >= n {
		logger.Fatal("end index out of range",
			zap.Int("end_index", *endIndex),
			zap.Int("min", t-1),
			zap.Int("max", n-1),
		)
	}

	dir, err := model.DirectionFromRaw(labels[*endIndex][horizon], *endIndex)
	if err != nil {
		logger.Fatal("query window has an invalid label", zap.Error(err))
	}

	window := model.NewWindow(*split, *endIndex, t, horizon, cfg.Dataset.DataVersion, dir, features[*endIndex-t+1:*endIndex+1])

	extractor := feature.NewExtractor(cfg.Dataset.DataVersion, cfg.Vector.Dim)
	extractor.ClipStd = cfg.Vector.ClipStd
	row, vec, err := extractor.Extract(window)
	if err != nil {
		logger.Fatal("feature extraction failed", zap.Error(err))
	}

	logger.Info("query window",
		zap.String("window_id", window.WindowID),
		zap.String("direction", dir.String()),
		zap.Float64("trend_slope", row.TrendSlope),
		zap.Float64("depth_imbalance", row.DepthImbalance),
	)

	milvusClient, err := milvus.NewClient(ctx, milvus.Config{Address: cfg.Milvus.Address})
	if err != nil {
		logger.Fatal("failed to connect to Milvus", zap.Error(err))
	}
	defer milvusClient.Close()

	if err := milvusClient.LoadCollection(ctx, cfg.Milvus.Collection); err != nil {
		logger.Fatal("failed to load collection", zap.Error(err))
	}

	// Over-fetch so reranking has candidates to demote, and skip the
	// query window itself.
	filter := fmt.Sprintf(`data_version == %d && window_id != "%s"`, cfg.Dataset.DataVersion, window.WindowID)
	results, err := milvusClient.Search(ctx, cfg.Milvus.Collection, vec, filter, *topK*3)
	if err != nil {
		logger.Fatal("search failed", zap.Error(err))
	}

	reranker := rerank.NewReranker(rerank.DefaultConfig())
	ranked := reranker.TopN(results, rerank.Query{
		Split:     *split,
		EndIndex:  *endIndex,
		Direction: dir,
	}, *topK)

	fmt.Printf("top %d similar windows for %s end_index=%d (%s):\n", len(ranked), *split, *endIndex, dir)
	for i, r := range ranked {
		fmt.Printf("%2d. %s split=%s end_index=%d direction=%s score=%.4f (cosine=%.4f, weight=%.3f)\n",
			i+1, r.WindowID, r.Split, r.EndIndex,
			model.Direction(r.Direction), r.FinalScore, r.OriginalScore, r.TemporalWeight,
		)
	}
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
