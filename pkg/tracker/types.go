package tracker

import (
	"errors"

	"github.com/shuliakovsky/peer-scoring/pkg/peers"
)

const (
	TransportHTTP = "http"
	TransportUDP  = "udp"
	TransportWS   = "ws"
)

// IDLen is the wire length of info_hash and peer_id.
const IDLen = 20

var (
	ErrDecode   = errors.New("announce decode failed")
	ErrInternal = errors.New("announce internal error")
)

// RawAnnounce is an announce as read off the wire, before validation.
type RawAnnounce struct {
	InfoHash   []byte
	PeerID     []byte
	Uploaded   any
	Downloaded any
	Left       any
	Event      string
}

// Announce is the canonical event handed to the accounting engine.
type Announce struct {
	InfoHash   string
	PeerID     string
	Uploaded   int64
	Downloaded int64
	Left       int64
	Event      string
}

// Applier is the accounting entry point used by the transports.
type Applier interface {
	ApplyAnnounce(peerID string, uploaded, downloaded, left int64) peers.Record
}
