package tracker

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/shuliakovsky/peer-scoring/pkg/metrics"
)

const wsReadLimit = 64 << 10

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type wsRequest struct {
	Action     string `json:"action"`
	InfoHash   string `json:"info_hash"`
	PeerID     string `json:"peer_id"`
	Uploaded   any    `json:"uploaded"`
	Downloaded any    `json:"downloaded"`
	Left       any    `json:"left"`
	Event      string `json:"event"`
}

type wsResponse struct {
	Action        string `json:"action"`
	InfoHash      string `json:"info_hash,omitempty"`
	Interval      int    `json:"interval,omitempty"`
	FailureReason string `json:"failure reason,omitempty"`
}

// WS accepts WebTorrent-style announces over a persistent socket.
type WS struct {
	dispatcher *Dispatcher
	interval   time.Duration
	logger     *zap.Logger
}

func NewWS(d *Dispatcher, interval time.Duration, logger *zap.Logger) *WS {
	return &WS{dispatcher: d, interval: interval, logger: logger}
}

func (w *WS) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(rw, r, nil)
	if err != nil {
		w.logger.Warn("ws_upgrade_failed", zap.Error(err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(wsReadLimit)

	metrics.WSConnected.Inc()
	w.logger.Debug("ws_tracker_connected", zap.String("remote", r.RemoteAddr))

	for {
		mt, msg, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				w.logger.Debug("ws_read_error", zap.Error(err))
			}
			return
		}
		if mt != websocket.TextMessage {
			continue
		}
		if err := conn.WriteJSON(w.handle(msg, r.RemoteAddr)); err != nil {
			w.logger.Debug("ws_write_error", zap.Error(err))
			return
		}
	}
}

func (w *WS) handle(msg []byte, remote string) wsResponse {
	var req wsRequest
	dec := json.NewDecoder(bytes.NewReader(msg))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		w.dispatcher.Drop(TransportWS, err, zap.String("remote", remote))
		return wsResponse{Action: "announce", FailureReason: "invalid json"}
	}
	if req.Action != "announce" {
		return wsResponse{Action: req.Action, FailureReason: "unsupported action"}
	}

	peerID, err := DecodeBinaryString("peer_id", req.PeerID)
	if err != nil {
		w.dispatcher.Drop(TransportWS, err, zap.String("remote", remote))
		return wsResponse{Action: req.Action, FailureReason: "invalid peer_id"}
	}
	infoHash, err := DecodeBinaryString("info_hash", req.InfoHash)
	if err != nil {
		w.dispatcher.Drop(TransportWS, err, zap.String("remote", remote))
		return wsResponse{Action: req.Action, FailureReason: "invalid info_hash"}
	}

	_, err = w.dispatcher.Handle(TransportWS, RawAnnounce{
		InfoHash:   infoHash,
		PeerID:     peerID,
		Uploaded:   req.Uploaded,
		Downloaded: req.Downloaded,
		Left:       req.Left,
		Event:      req.Event,
	})
	if err != nil {
		return wsResponse{Action: req.Action, InfoHash: req.InfoHash, FailureReason: "announce rejected"}
	}
	return wsResponse{
		Action:   req.Action,
		InfoHash: req.InfoHash,
		Interval: int(w.interval / time.Second),
	}
}
