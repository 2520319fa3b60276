package tracker

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/anacrolix/torrent/bencode"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func announceURL(v url.Values) string { return "/announce?" + v.Encode() }

func TestHTTPHandler_Announce(t *testing.T) {
	d, store := newTestDispatcher(t)
	h := NewHTTPHandler(d, 30*time.Minute, 15*time.Minute, zap.NewNop())

	q := url.Values{
		"info_hash":  {string(testInfoHash)},
		"peer_id":    {string(testPeerID)},
		"uploaded":   {"2048"},
		"downloaded": {"10"},
		"left":       {"100"},
		"port":       {"6881"},
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, announceURL(q), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp announceResponse
	require.NoError(t, bencode.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1800, resp.Interval)
	require.Equal(t, 900, resp.MinInterval)
	require.Equal(t, "", resp.Peers)

	got := store.Get(testKey())
	require.Equal(t, 2.0, got.Points)
	require.Equal(t, int64(10), got.Downloaded)
}

func TestHTTPHandler_BadPeerIDIsDropped(t *testing.T) {
	d, store := newTestDispatcher(t)
	h := NewHTTPHandler(d, time.Minute, time.Minute, zap.NewNop())

	q := url.Values{
		"info_hash": {string(testInfoHash)},
		"peer_id":   {"too-short"},
		"uploaded":  {"4096"},
		"passkey":   {"secret-passkey"},
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, announceURL(q), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp failureResponse
	require.NoError(t, bencode.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "invalid announce", resp.FailureReason)
	require.Zero(t, store.Len())
}

func TestHTTPHandler_InternalErrorIsContained(t *testing.T) {
	d := NewDispatcher(panicApplier{}, zap.NewNop())
	h := NewHTTPHandler(d, time.Minute, time.Minute, zap.NewNop())

	q := url.Values{"info_hash": {string(testInfoHash)}, "peer_id": {string(testPeerID)}}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, announceURL(q), nil))

	var resp failureResponse
	require.NoError(t, bencode.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "internal error", resp.FailureReason)
}

func TestHTTPHandler_MethodNotAllowed(t *testing.T) {
	d, _ := newTestDispatcher(t)
	h := NewHTTPHandler(d, time.Minute, time.Minute, zap.NewNop())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/announce", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
