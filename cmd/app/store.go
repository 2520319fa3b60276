package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/shuliakovsky/peer-scoring/pkg/metrics"
	"github.com/shuliakovsky/peer-scoring/pkg/peers"
	"github.com/shuliakovsky/peer-scoring/pkg/settings"
)

func initStore(cfg config, st settings.Settings, logger *zap.Logger) *peers.Store {
	store := peers.NewStore(st.Store.Shards)
	if cfg.SnapshotPath == "" {
		logger.Info("snapshot disabled, peer state is in-memory only")
		return store
	}
	n, err := store.LoadFile(cfg.SnapshotPath)
	if err != nil {
		logger.Fatal("snapshot_load_error", zap.String("path", cfg.SnapshotPath), zap.Error(err))
	}
	metrics.PeersTracked.Set(float64(store.Len()))
	logger.Info("snapshot_loaded", zap.String("path", cfg.SnapshotPath), zap.Int("peers", n))
	return store
}

func startSnapshotLoop(ctx context.Context, store *peers.Store, path string, every time.Duration, logger *zap.Logger) {
	if path == "" || every <= 0 {
		return
	}
	go func() {
		t := time.NewTicker(every)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				saveSnapshot(store, path, logger)
			}
		}
	}()
}

func saveSnapshot(store *peers.Store, path string, logger *zap.Logger) {
	if path == "" {
		return
	}
	start := time.Now()
	if err := store.SaveFile(path); err != nil {
		logger.Error("snapshot_save_error", zap.String("path", path), zap.Error(err))
		return
	}
	logger.Info("snapshot_saved",
		zap.String("path", path),
		zap.Int("peers", store.Len()),
		zap.Int64("latency_ms", time.Since(start).Milliseconds()),
	)
}
