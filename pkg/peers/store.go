package peers

import (
	"sort"

	"github.com/cespare/xxhash/v2"
)

const DefaultShards = 64

// NewStore builds a store with n shards, rounded up to a power of two.
func NewStore(n int) *Store {
	if n <= 0 {
		n = DefaultShards
	}
	size := 1
	for size < n {
		size <<= 1
	}
	s := &Store{
		shards: make([]*shard, size),
		mask:   uint64(size - 1),
	}
	for i := range s.shards {
		s.shards[i] = &shard{peers: make(map[string]*Record)}
	}
	return s
}

func (s *Store) shardFor(id string) *shard {
	return s.shards[xxhash.Sum64String(id)&s.mask]
}

// Get returns a copy of the record. Unknown peers yield a zero record.
func (s *Store) Get(id string) Record {
	sh := s.shardFor(id)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	if r, ok := sh.peers[id]; ok {
		return *r
	}
	return Record{PeerID: id}
}

// Mutate runs fn on the record for id while holding its shard lock and returns
// the resulting copy. The record is created on first use. fn must not block.
func (s *Store) Mutate(id string, fn func(r *Record)) Record {
	sh := s.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	r, ok := sh.peers[id]
	if !ok {
		r = &Record{PeerID: id}
		sh.peers[id] = r
	}
	fn(r)
	r.PeerID = id
	return *r
}

// List returns copies of every record, ordered by peer id.
func (s *Store) List() []Record {
	out := make([]Record, 0, s.Len())
	for _, sh := range s.shards {
		sh.mu.RLock()
		for _, r := range sh.peers {
			out = append(out, *r)
		}
		sh.mu.RUnlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PeerID < out[j].PeerID })
	return out
}

func (s *Store) Len() int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		n += len(sh.peers)
		sh.mu.RUnlock()
	}
	return n
}

func (s *Store) Exists(id string) bool {
	sh := s.shardFor(id)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	_, ok := sh.peers[id]
	return ok
}
