package tracker

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func binaryString(b []byte) string {
	var sb strings.Builder
	for _, c := range b {
		sb.WriteRune(rune(c))
	}
	return sb.String()
}

func dialWS(t *testing.T, h *WS) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	return conn
}

func TestWS_Announce(t *testing.T) {
	d, store := newTestDispatcher(t)
	conn := dialWS(t, NewWS(d, 2*time.Minute, zap.NewNop()))

	require.NoError(t, conn.WriteJSON(map[string]any{
		"action":     "announce",
		"info_hash":  binaryString(testInfoHash),
		"peer_id":    binaryString(testPeerID),
		"uploaded":   3072,
		"downloaded": "12",
		"left":       0,
	}))
	var resp wsResponse
	require.NoError(t, conn.ReadJSON(&resp))
	require.Equal(t, "announce", resp.Action)
	require.Equal(t, 120, resp.Interval)
	require.Empty(t, resp.FailureReason)

	got := store.Get(testKey())
	require.Equal(t, 13.0, got.Points)
	require.True(t, got.SeedingBonus)
	require.Equal(t, int64(12), got.Downloaded)
}

func TestWS_MalformedMessagesDoNotCloseSocket(t *testing.T) {
	d, store := newTestDispatcher(t)
	conn := dialWS(t, NewWS(d, time.Minute, zap.NewNop()))

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	var resp wsResponse
	require.NoError(t, conn.ReadJSON(&resp))
	require.Equal(t, "invalid json", resp.FailureReason)

	require.NoError(t, conn.WriteJSON(map[string]any{
		"action":    "announce",
		"info_hash": binaryString(testInfoHash),
		"peer_id":   "Āvery-wide-peer-id!!",
		"uploaded":  1024,
	}))
	require.NoError(t, conn.ReadJSON(&resp))
	require.Equal(t, "invalid peer_id", resp.FailureReason)

	require.NoError(t, conn.WriteJSON(map[string]any{"action": "scrape"}))
	require.NoError(t, conn.ReadJSON(&resp))
	require.Equal(t, "unsupported action", resp.FailureReason)

	require.Zero(t, store.Len())
}
