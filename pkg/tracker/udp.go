package tracker

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"net"
	"time"

	"go.uber.org/zap"
)

const (
	udpProtocolID = 0x41727101980

	actionConnect  = 0
	actionAnnounce = 1
	actionError    = 3

	connectRequestLen  = 16
	announceRequestLen = 98

	connIDWindow = time.Minute
)

var udpEvents = map[uint32]string{0: "", 1: "completed", 2: "started", 3: "stopped"}

// UDPServer speaks the UDP tracker protocol. Connection ids are derived from
// the client address and a rotating time window, so no per-client state is kept.
type UDPServer struct {
	conn       *net.UDPConn
	dispatcher *Dispatcher
	interval   time.Duration
	secret     []byte
	logger     *zap.Logger
	now        func() time.Time
}

func ListenUDP(addr string, d *Dispatcher, interval time.Duration, logger *zap.Logger) (*UDPServer, error) {
	ua, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}
	conn, err := net.ListenUDP("udp", ua)
	if err != nil {
		return nil, err
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		conn.Close()
		return nil, err
	}
	return &UDPServer{
		conn:       conn,
		dispatcher: d,
		interval:   interval,
		secret:     secret,
		logger:     logger,
		now:        time.Now,
	}, nil
}

func (s *UDPServer) Addr() net.Addr { return s.conn.LocalAddr() }

func (s *UDPServer) Close() error { return s.conn.Close() }

// Serve reads datagrams until the socket is closed.
func (s *UDPServer) Serve() error {
	s.logger.Info("udp_tracker_listening", zap.String("addr", s.Addr().String()))
	buf := make([]byte, 2048)
	for {
		n, remote, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.logger.Warn("udp_read_error", zap.Error(err))
			continue
		}
		resp := s.handle(buf[:n], remote.IP)
		if resp == nil {
			continue
		}
		if _, err := s.conn.WriteToUDP(resp, remote); err != nil {
			s.logger.Debug("udp_write_error", zap.String("remote", remote.String()), zap.Error(err))
		}
	}
}

func (s *UDPServer) handle(pkt []byte, ip net.IP) []byte {
	if len(pkt) < connectRequestLen {
		return nil
	}
	connID := binary.BigEndian.Uint64(pkt[0:8])
	action := binary.BigEndian.Uint32(pkt[8:12])
	txID := binary.BigEndian.Uint32(pkt[12:16])

	switch action {
	case actionConnect:
		if connID != udpProtocolID {
			return errorPacket(txID, "bad protocol id")
		}
		out := make([]byte, 16)
		binary.BigEndian.PutUint32(out[0:4], actionConnect)
		binary.BigEndian.PutUint32(out[4:8], txID)
		binary.BigEndian.PutUint64(out[8:16], s.connectionID(ip, s.now()))
		return out

	case actionAnnounce:
		if !s.validConnectionID(connID, ip) {
			s.dispatcher.Drop(TransportUDP, ErrDecode, zap.String("remote", ip.String()), zap.String("reason", "connection id"))
			return errorPacket(txID, "connection id expired")
		}
		if len(pkt) < announceRequestLen {
			s.dispatcher.Drop(TransportUDP, ErrDecode, zap.String("remote", ip.String()), zap.Int("len", len(pkt)))
			return errorPacket(txID, "short announce")
		}
		raw := RawAnnounce{
			InfoHash:   pkt[16:36],
			PeerID:     pkt[36:56],
			Downloaded: int64(binary.BigEndian.Uint64(pkt[56:64])),
			Left:       int64(binary.BigEndian.Uint64(pkt[64:72])),
			Uploaded:   int64(binary.BigEndian.Uint64(pkt[72:80])),
			Event:      udpEvents[binary.BigEndian.Uint32(pkt[80:84])],
		}
		if _, err := s.dispatcher.Handle(TransportUDP, raw); err != nil {
			return errorPacket(txID, "announce rejected")
		}
		out := make([]byte, 20)
		binary.BigEndian.PutUint32(out[0:4], actionAnnounce)
		binary.BigEndian.PutUint32(out[4:8], txID)
		binary.BigEndian.PutUint32(out[8:12], uint32(s.interval/time.Second))
		return out

	default:
		return errorPacket(txID, "unsupported action")
	}
}

func (s *UDPServer) connectionID(ip net.IP, at time.Time) uint64 {
	var window [8]byte
	binary.BigEndian.PutUint64(window[:], uint64(at.Unix()/int64(connIDWindow/time.Second)))
	mac := hmac.New(sha256.New, s.secret)
	mac.Write(window[:])
	mac.Write(ip.To16())
	return binary.BigEndian.Uint64(mac.Sum(nil)[:8])
}

// validConnectionID accepts ids from the current and the previous window.
func (s *UDPServer) validConnectionID(id uint64, ip net.IP) bool {
	now := s.now()
	return id == s.connectionID(ip, now) || id == s.connectionID(ip, now.Add(-connIDWindow))
}

func errorPacket(txID uint32, msg string) []byte {
	out := make([]byte, 8+len(msg))
	binary.BigEndian.PutUint32(out[0:4], actionError)
	binary.BigEndian.PutUint32(out[4:8], txID)
	copy(out[8:], msg)
	return out
}
