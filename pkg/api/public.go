package api

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/shuliakovsky/peer-scoring/pkg/accounting"
	"github.com/shuliakovsky/peer-scoring/pkg/peers"
)

// PeerView is the public projection of a peer record.
type PeerView struct {
	PeerID       string `json:"peerId"`
	Points       int64  `json:"points"`
	Uploaded     int64  `json:"uploaded"`
	Downloaded   int64  `json:"downloaded"`
	SeedingBonus bool   `json:"seedingBonus"`
}

type PeerList struct {
	Peers []PeerView `json:"peers"`
	Total int        `json:"total"`
}

type Stats struct {
	Peers       int   `json:"peers"`
	Seeders     int   `json:"seeders"`
	TotalPoints int64 `json:"totalPoints"`
}

func Project(r peers.Record) PeerView {
	return PeerView{
		PeerID:       r.PeerID,
		Points:       accounting.RoundPoints(r.Points),
		Uploaded:     r.Uploaded,
		Downloaded:   r.Downloaded,
		SeedingBonus: r.SeedingBonus,
	}
}

type Public struct {
	Store  *peers.Store
	Logger *zap.Logger
}

func NewPublic(store *peers.Store, logger *zap.Logger) *Public {
	return &Public{Store: store, Logger: logger}
}

// Peers routes /api/peers and /api/peers/{peerId}.
func (p *Public) Peers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/peers"), "/")
	if id == "" {
		p.ListPeers(w, r)
		return
	}
	writeJSON(w, http.StatusOK, Project(p.Store.Get(id)))
}

// GET /api/peers
func (p *Public) ListPeers(w http.ResponseWriter, _ *http.Request) {
	records := p.Store.List()
	out := PeerList{Peers: make([]PeerView, 0, len(records)), Total: len(records)}
	for _, rec := range records {
		out.Peers = append(out.Peers, Project(rec))
	}
	writeJSON(w, http.StatusOK, out)
}

// GET /api/stats
func (p *Public) Stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var (
		st    Stats
		total float64
	)
	for _, rec := range p.Store.List() {
		st.Peers++
		if rec.SeedingBonus {
			st.Seeders++
		}
		total += rec.Points
	}
	st.TotalPoints = accounting.RoundPoints(total)
	writeJSON(w, http.StatusOK, st)
}
