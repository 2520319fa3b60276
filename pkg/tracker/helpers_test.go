package tracker

import (
	"bytes"
	"encoding/hex"
	"testing"

	"go.uber.org/zap"

	"github.com/shuliakovsky/peer-scoring/pkg/accounting"
	"github.com/shuliakovsky/peer-scoring/pkg/peers"
)

var (
	testInfoHash = bytes.Repeat([]byte{0xAB}, IDLen)
	testPeerID   = []byte("-qB4500-abcdefghijkl")
)

func testKey() string { return hex.EncodeToString(testPeerID) }

func newTestDispatcher(t *testing.T) (*Dispatcher, *peers.Store) {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	store := peers.NewStore(8)
	engine := accounting.New(store, accounting.DefaultPolicy(), logger)
	return NewDispatcher(engine, logger), store
}

type panicApplier struct{}

func (panicApplier) ApplyAnnounce(string, int64, int64, int64) peers.Record {
	panic("boom")
}
