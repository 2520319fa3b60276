package main

import (
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	"github.com/shuliakovsky/peer-scoring/pkg/api"
	"github.com/shuliakovsky/peer-scoring/pkg/docs"
	"github.com/shuliakovsky/peer-scoring/pkg/metrics"
	"github.com/shuliakovsky/peer-scoring/pkg/peers"
	"github.com/shuliakovsky/peer-scoring/pkg/settings"
	"github.com/shuliakovsky/peer-scoring/pkg/tracker"
)

func registerRoutes(
	store *peers.Store,
	dispatcher *tracker.Dispatcher,
	st settings.Settings,
	cfg config,
	logger *zap.Logger,
) *http.ServeMux {
	mux := http.NewServeMux()
	public := api.NewPublic(store, logger)
	adminAPI := api.NewAdmin(store, cfg.SnapshotPath, cfg.AdminKey, logger)

	interval := time.Duration(st.Tracker.IntervalSec) * time.Second
	minInterval := time.Duration(st.Tracker.MinIntervalSec) * time.Second

	// Tracker announce transports
	mux.Handle("/announce", tracker.NewHTTPHandler(dispatcher, interval, minInterval, logger))
	mux.Handle("/ws/announce", tracker.NewWS(dispatcher, interval, logger))

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	// Query API
	peersHandler := api.WithAccessLog(logger, "api", http.HandlerFunc(public.Peers))
	mux.Handle("/api/peers", peersHandler)
	mux.Handle("/api/peers/", peersHandler)
	mux.Handle("/api/stats", api.WithAccessLog(logger, "api", http.HandlerFunc(public.Stats)))

	// Admin
	mux.HandleFunc("/admin/snapshot", adminAPI.Snapshot)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/swagger.json"),
		httpSwagger.InstanceName(docs.SwaggerInfo.InstanceName()),
	))
	mux.HandleFunc("/swagger/swagger.json", docs.JSONHandler)

	// Metrics
	mux.Handle("/metrics", metrics.Handler())
	return mux
}
