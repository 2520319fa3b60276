package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shuliakovsky/peer-scoring/pkg/accounting"
	"github.com/shuliakovsky/peer-scoring/pkg/metrics"
	"github.com/shuliakovsky/peer-scoring/pkg/settings"
	"github.com/shuliakovsky/peer-scoring/pkg/tracker"
)

func main() {
	PrintVersion()

	cfg := loadConfig()
	logger := initLogger(cfg.LogLevel)
	defer logger.Sync()

	nodeID := uuid.NewString()
	logger.Info("Node started", zap.String("nodeID", nodeID), zap.String("version", Version))

	st, err := settings.Load(cfg.ScoringConfig, logger)
	if err != nil {
		logger.Fatal("scoring_config_error", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics.Init()
	store := initStore(cfg, st, logger)
	engine := accounting.New(store, st.Accounting, logger)
	dispatcher := tracker.NewDispatcher(engine, logger)

	udp := startUDP(cfg, dispatcher, time.Duration(st.Tracker.IntervalSec)*time.Second, logger)
	startSnapshotLoop(ctx, store, cfg.SnapshotPath, time.Duration(st.Snapshot.IntervalSec)*time.Second, logger)

	mux := registerRoutes(store, dispatcher, st, cfg, logger)
	runServer(ctx, cfg, mux, nodeID, logger)

	if udp != nil {
		_ = udp.Close()
	}
	saveSnapshot(store, cfg.SnapshotPath, logger)
	logger.Info("Node stopped", zap.String("nodeID", nodeID))
}
