package tracker

import (
	"net/http"
	"time"

	"github.com/anacrolix/torrent/bencode"
	"go.uber.org/zap"

	"github.com/shuliakovsky/peer-scoring/pkg/secrets"
)

type announceResponse struct {
	Interval    int    `bencode:"interval"`
	MinInterval int    `bencode:"min interval"`
	Complete    int    `bencode:"complete"`
	Incomplete  int    `bencode:"incomplete"`
	Peers       string `bencode:"peers"`
}

type failureResponse struct {
	FailureReason string `bencode:"failure reason"`
}

// HTTPHandler serves GET /announce. Peer lists are not served; the response
// only tells the client when to announce again.
type HTTPHandler struct {
	dispatcher  *Dispatcher
	interval    time.Duration
	minInterval time.Duration
	logger      *zap.Logger
}

func NewHTTPHandler(d *Dispatcher, interval, minInterval time.Duration, logger *zap.Logger) *HTTPHandler {
	return &HTTPHandler{dispatcher: d, interval: interval, minInterval: minInterval, logger: logger}
}

func (h *HTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	raw := RawAnnounce{
		InfoHash:   []byte(q.Get("info_hash")),
		PeerID:     []byte(q.Get("peer_id")),
		Uploaded:   q.Get("uploaded"),
		Downloaded: q.Get("downloaded"),
		Left:       q.Get("left"),
		Event:      q.Get("event"),
	}

	a, err := Parse(raw)
	if err != nil {
		h.dispatcher.Drop(TransportHTTP, err,
			zap.String("remote", r.RemoteAddr),
			zap.String("query", secrets.RedactQuery(q)),
		)
		h.write(w, failureResponse{FailureReason: "invalid announce"})
		return
	}
	if err := h.dispatcher.Dispatch(TransportHTTP, a); err != nil {
		h.write(w, failureResponse{FailureReason: "internal error"})
		return
	}

	h.write(w, announceResponse{
		Interval:    int(h.interval / time.Second),
		MinInterval: int(h.minInterval / time.Second),
	})
}

func (h *HTTPHandler) write(w http.ResponseWriter, v any) {
	b, err := bencode.Marshal(v)
	if err != nil {
		h.logger.Error("bencode_encode_error", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write(b)
}
