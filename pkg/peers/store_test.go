package peers

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGet_UnknownPeerIsZero(t *testing.T) {
	s := NewStore(4)
	r := s.Get("nobody")
	require.Equal(t, Record{PeerID: "nobody"}, r)
	require.False(t, s.Exists("nobody"))
	require.Equal(t, 0, s.Len())
}

func TestMutate_CreatesLazily(t *testing.T) {
	s := NewStore(4)
	out := s.Mutate("a", func(r *Record) { r.Uploaded = 10 })
	require.Equal(t, int64(10), out.Uploaded)
	require.Equal(t, "a", out.PeerID)
	require.True(t, s.Exists("a"))
	require.Equal(t, int64(10), s.Get("a").Uploaded)
}

func TestGet_ReturnsCopy(t *testing.T) {
	s := NewStore(1)
	s.Mutate("a", func(r *Record) { r.Points = 1 })
	r := s.Get("a")
	r.Points = 100
	require.Equal(t, 1.0, s.Get("a").Points)
}

func TestNewStore_RoundsShardsToPowerOfTwo(t *testing.T) {
	require.Len(t, NewStore(5).shards, 8)
	require.Len(t, NewStore(0).shards, DefaultShards)
}

func TestMutate_ConcurrentSameKey(t *testing.T) {
	s := NewStore(8)
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Mutate("hot", func(r *Record) { r.Points++ })
		}()
	}
	wg.Wait()
	require.Equal(t, 200.0, s.Get("hot").Points)
}

func TestMutate_DistinctKeysDoNotBlock(t *testing.T) {
	s := NewStore(64)
	var a, b string
	for i := 0; ; i++ {
		a, b = "x", fmt.Sprintf("peer-%d", i)
		if s.shardFor(a) != s.shardFor(b) {
			break
		}
	}

	entered := make(chan struct{})
	release := make(chan struct{})
	go s.Mutate(a, func(r *Record) {
		close(entered)
		<-release
	})
	<-entered

	done := make(chan struct{})
	go func() {
		s.Mutate(b, func(r *Record) { r.Uploaded = 1 })
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("mutation on another shard was blocked")
	}
	close(release)
}

func TestList_SortedCopies(t *testing.T) {
	s := NewStore(4)
	for _, id := range []string{"c", "a", "b"} {
		s.Mutate(id, func(r *Record) {})
	}
	list := s.List()
	require.Len(t, list, 3)
	require.Equal(t, "a", list[0].PeerID)
	require.Equal(t, "c", list[2].PeerID)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s := NewStore(4)
	s.Mutate("a", func(r *Record) {
		r.Uploaded = 4096
		r.Downloaded = 7
		r.Points = 14
		r.SeedingBonus = true
		r.LastAnnounceAt = ts
	})

	var buf bytes.Buffer
	require.NoError(t, s.Save(&buf))

	restored := NewStore(4)
	n, err := restored.Load(&buf)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, s.Get("a"), restored.Get("a"))
}

func TestLoad_NeverLowersPoints(t *testing.T) {
	s := NewStore(4)
	s.Mutate("a", func(r *Record) { r.Points = 50; r.Uploaded = 9000 })

	old := NewStore(4)
	old.Mutate("a", func(r *Record) { r.Points = 5; r.Uploaded = 100; r.SeedingBonus = true })
	var buf bytes.Buffer
	require.NoError(t, old.Save(&buf))

	_, err := s.Load(&buf)
	require.NoError(t, err)
	got := s.Get("a")
	require.Equal(t, 50.0, got.Points)
	require.Equal(t, int64(9000), got.Uploaded)
	require.True(t, got.SeedingBonus)
}

func TestLoad_RejectsUnknownVersion(t *testing.T) {
	_, err := NewStore(1).Load(bytes.NewBufferString(`{"version":99,"peers":[]}`))
	require.Error(t, err)
}

func TestSaveFile_LoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "peers.json")

	n, err := NewStore(1).LoadFile(path)
	require.NoError(t, err, "missing snapshot is not an error")
	require.Zero(t, n)

	s := NewStore(2)
	s.Mutate("a", func(r *Record) { r.Points = 3 })
	require.NoError(t, s.SaveFile(path))

	_, err = os.Stat(path)
	require.NoError(t, err)

	restored := NewStore(2)
	n, err = restored.LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, 3.0, restored.Get("a").Points)
}
