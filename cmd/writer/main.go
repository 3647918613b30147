package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/quantbed/lobwin/pkg/config"
	"github.com/quantbed/lobwin/pkg/queue/nats"
	"github.com/quantbed/lobwin/pkg/store/duckdb"
	"github.com/quantbed/lobwin/pkg/store/milvus"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Config file path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.App.LogLevel)
	defer logger.Sync()

	logger.Info("starting writer worker",
		zap.String("nats", cfg.NATS.URL),
		zap.String("duckdb", cfg.DuckDB.Path),
		zap.String("milvus", cfg.Milvus.Address),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	duckClient, err := duckdb.NewClient(cfg.DuckDB.Path)
	if err != nil {
		logger.Fatal("failed to connect to DuckDB", zap.Error(err))
	}
	defer duckClient.Close()

	if err := duckdb.InitializeSchema(ctx, duckClient); err != nil {
		logger.Fatal("failed to initialize schema", zap.Error(err))
	}

	windowRepo := duckdb.NewWindowRepo(duckClient)
	featureRepo := duckdb.NewFeatureRepo(duckClient)

	milvusClient, err := milvus.NewClient(ctx, milvus.Config{Address: cfg.Milvus.Address})
	if err != nil {
		logger.Fatal("failed to connect to Milvus", zap.Error(err))
	}
	defer milvusClient.Close()

	if err := milvusClient.CreateCollection(ctx, milvus.CollectionConfig{
		Name:      cfg.Milvus.Collection,
		Dimension: cfg.Vector.Dim,
		Shards:    2,
	}); err != nil {
		logger.Fatal("failed to create Milvus collection", zap.Error(err))
	}

	natsClient, err := nats.NewClient(nats.Config{
		URL:        cfg.NATS.URL,
		StreamName: cfg.NATS.Stream,
	})
	if err != nil {
		logger.Fatal("failed to connect to NATS", zap.Error(err))
	}
	defer natsClient.Close()

	subjects := []string{nats.SubjectWindowWrite, nats.SubjectVectorWrite}
	if err := natsClient.CreateStream(ctx, subjects); err != nil {
		logger.Fatal("failed to create stream", zap.Error(err))
	}

	windowConsumer, err := natsClient.Subscribe(ctx, nats.SubjectWindowWrite, "window-writer", func(msg jetstream.Msg) error {
		batch, err := nats.DecodeWindowBatch(msg.Data())
		if err != nil {
			logger.Error("failed to decode window batch", zap.Error(err))
			return err
		}
		if len(batch.Windows) == 0 {
			return nil
		}

		if err := windowRepo.InsertBatch(ctx, batch.Windows); err != nil {
			logger.Error("failed to insert windows", zap.Error(err))
			return err
		}
		if len(batch.Features) > 0 {
			if err := featureRepo.InsertBatch(ctx, batch.Features); err != nil {
				logger.Error("failed to insert features", zap.Error(err))
				return err
			}
		}

		logger.Info("inserted window batch", zap.Int("windows", len(batch.Windows)))
		return nil
	})
	if err != nil {
		logger.Fatal("failed to subscribe to window writes", zap.Error(err))
	}
	defer windowConsumer.Stop()

	vectorConsumer, err := natsClient.Subscribe(ctx, nats.SubjectVectorWrite, "vector-writer", func(msg jetstream.Msg) error {
		batch, err := nats.DecodeVectorBatch(msg.Data())
		if err != nil {
			logger.Error("failed to decode vector batch", zap.Error(err))
			return err
		}
		if len(batch.Vectors) == 0 {
			return nil
		}

		data := make([]*milvus.WindowData, len(batch.Vectors))
		for i, v := range batch.Vectors {
			data[i] = &milvus.WindowData{
				WindowID:        v.WindowID,
				Embedding:       v.Embedding,
				Split:           v.Split,
				EndIndex:        v.EndIndex,
				Horizon:         v.Horizon,
				Direction:       v.Direction,
				TrendBucket:     v.TrendBucket,
				ImbalanceBucket: v.ImbalanceBucket,
				DataVersion:     v.DataVersion,
			}
		}

		if err := milvusClient.InsertBatch(ctx, cfg.Milvus.Collection, data); err != nil {
			logger.Error("failed to insert vectors", zap.Error(err))
			return err
		}

		logger.Info("inserted vector batch", zap.Int("vectors", len(batch.Vectors)))
		return nil
	})
	if err != nil {
		logger.Fatal("failed to subscribe to vector writes", zap.Error(err))
	}
	defer vectorConsumer.Stop()

	logger.Info("writer worker started, waiting for messages")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down writer worker")
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
