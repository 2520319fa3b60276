package tracker

import (
	"encoding/hex"
	"fmt"

	"github.com/shuliakovsky/peer-scoring/pkg/accounting"
)

// Parse validates identifiers and coerces counters. Malformed counters become
// zero; malformed identifiers fail with ErrDecode.
func Parse(raw RawAnnounce) (Announce, error) {
	peerID, err := DecodeID("peer_id", raw.PeerID)
	if err != nil {
		return Announce{}, err
	}
	infoHash, err := DecodeID("info_hash", raw.InfoHash)
	if err != nil {
		return Announce{}, err
	}
	return Announce{
		InfoHash:   infoHash,
		PeerID:     peerID,
		Uploaded:   accounting.Coerce(raw.Uploaded),
		Downloaded: accounting.Coerce(raw.Downloaded),
		Left:       accounting.Coerce(raw.Left),
		Event:      raw.Event,
	}, nil
}

// DecodeID turns a 20-byte wire identifier into its canonical lowercase hex key.
func DecodeID(field string, b []byte) (string, error) {
	if len(b) != IDLen {
		return "", fmt.Errorf("%w: %s has %d bytes, want %d", ErrDecode, field, len(b), IDLen)
	}
	return hex.EncodeToString(b), nil
}

// DecodeBinaryString converts a JSON "binary string", one code point per byte,
// back to bytes.
func DecodeBinaryString(field, s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xFF {
			return nil, fmt.Errorf("%w: %s contains non-byte code point %U", ErrDecode, field, r)
		}
		out = append(out, byte(r))
	}
	return out, nil
}
