package peers

import (
	"sync"
	"time"
)

// Record is the accounting state kept for a single peer.
type Record struct {
	PeerID         string    `json:"peerId"`
	Uploaded       int64     `json:"uploaded"`
	Downloaded     int64     `json:"downloaded"`
	Points         float64   `json:"points"` // unrounded
	SeedingBonus   bool      `json:"seedingBonus"`
	LastAnnounceAt time.Time `json:"lastAnnounceAt"`
}

type shard struct {
	mu    sync.RWMutex
	peers map[string]*Record
}

type Store struct {
	shards []*shard
	mask   uint64
}
