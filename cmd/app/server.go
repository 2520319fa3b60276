package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/netutil"

	"github.com/shuliakovsky/peer-scoring/pkg/tracker"
)

func runServer(ctx context.Context, cfg config, handler http.Handler, nodeID string, logger *zap.Logger) {
	addr := net.JoinHostPort(cfg.Host, cfg.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Fatal("Listen failed", zap.String("addr", addr), zap.Error(err))
	}
	if cfg.MaxConns > 0 {
		ln = netutil.LimitListener(ln, cfg.MaxConns)
	}

	srv := &http.Server{
		Handler:           withNodeID(nodeID, withCORS(handler)),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Server shutdown", zap.Error(err))
		}
	}()

	logger.Info("Listening", zap.String("addr", addr), zap.Int("maxConns", cfg.MaxConns))
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Server down", zap.Error(err))
	}
}

func startUDP(cfg config, d *tracker.Dispatcher, interval time.Duration, logger *zap.Logger) *tracker.UDPServer {
	if cfg.UDPAddr == "" {
		return nil
	}
	srv, err := tracker.ListenUDP(cfg.UDPAddr, d, interval, logger)
	if err != nil {
		logger.Fatal("udp_listen_error", zap.String("addr", cfg.UDPAddr), zap.Error(err))
	}
	go func() {
		if err := srv.Serve(); err != nil {
			logger.Error("udp_serve_error", zap.Error(err))
		}
	}()
	return srv
}

func withNodeID(nodeID string, h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Node-ID", nodeID)
		h.ServeHTTP(w, r)
	})
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, x-admin-key")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		h.ServeHTTP(w, r)
	})
}
