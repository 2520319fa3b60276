package peers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

type snapshot struct {
	Version int      `json:"version"`
	Peers   []Record `json:"peers"`
}

const snapshotVersion = 1

// Save writes every record as JSON. Records are copied before encoding so no
// shard lock is held during the write.
func (s *Store) Save(w io.Writer) error {
	snap := snapshot{Version: snapshotVersion, Peers: s.List()}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

// Load merges records from a snapshot. Existing records keep whichever side
// has the higher counters so loading never lowers accrued points.
func (s *Store) Load(r io.Reader) (int, error) {
	var snap snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return 0, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return 0, fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}
	n := 0
	for _, in := range snap.Peers {
		if in.PeerID == "" {
			continue
		}
		s.Mutate(in.PeerID, func(cur *Record) {
			if in.Points > cur.Points {
				cur.Points = in.Points
			}
			if in.Uploaded > cur.Uploaded {
				cur.Uploaded = in.Uploaded
			}
			if cur.LastAnnounceAt.Before(in.LastAnnounceAt) {
				cur.Downloaded = in.Downloaded
				cur.LastAnnounceAt = in.LastAnnounceAt
			}
			cur.SeedingBonus = cur.SeedingBonus || in.SeedingBonus
		})
		n++
	}
	return n, nil
}

// SaveFile writes the snapshot to a temp file next to path and renames it.
func (s *Store) SaveFile(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())
	if err := s.Save(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// LoadFile loads a snapshot from path. A missing file is not an error.
func (s *Store) LoadFile(path string) (int, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return s.Load(f)
}
