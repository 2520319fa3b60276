package api

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/shuliakovsky/peer-scoring/pkg/peers"
)

type Admin struct {
	Store        *peers.Store
	SnapshotPath string
	AdminKey     string
	Logger       *zap.Logger
}

func NewAdmin(store *peers.Store, snapshotPath, key string, logger *zap.Logger) *Admin {
	return &Admin{Store: store, SnapshotPath: snapshotPath, AdminKey: key, Logger: logger}
}

func (a *Admin) auth(w http.ResponseWriter, r *http.Request) bool {
	if a.AdminKey == "" || r.Header.Get("x-admin-key") != a.AdminKey {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return false
	}
	return true
}

// POST /admin/snapshot
func (a *Admin) Snapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !a.auth(w, r) {
		return
	}
	if a.SnapshotPath == "" {
		http.Error(w, "snapshots disabled", http.StatusConflict)
		return
	}
	start := time.Now()
	if err := a.Store.SaveFile(a.SnapshotPath); err != nil {
		a.Logger.Error("admin_snapshot_failed", zap.String("path", a.SnapshotPath), zap.Error(err))
		http.Error(w, "snapshot failed", http.StatusInternalServerError)
		return
	}
	peersCount := a.Store.Len()
	a.Logger.Info("admin_snapshot_saved",
		zap.String("path", a.SnapshotPath),
		zap.Int("peers", peersCount),
		zap.Int64("latency_ms", time.Since(start).Milliseconds()),
	)
	writeJSON(w, http.StatusOK, map[string]any{"status": "saved", "peers": peersCount})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
