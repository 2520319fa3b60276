package tracker

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/shuliakovsky/peer-scoring/pkg/metrics"
)

// Dispatcher is the boundary between transports and the accounting engine.
// Faults never escape it.
type Dispatcher struct {
	engine Applier
	logger *zap.Logger
}

func NewDispatcher(engine Applier, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{engine: engine, logger: logger}
}

// Handle parses raw and applies it. Decode failures are logged and dropped.
func (d *Dispatcher) Handle(transport string, raw RawAnnounce) (Announce, error) {
	a, err := Parse(raw)
	if err != nil {
		d.Drop(transport, err)
		return Announce{}, err
	}
	return a, d.Dispatch(transport, a)
}

// Dispatch applies a decoded announce, recovering from panics in the accounting path.
func (d *Dispatcher) Dispatch(transport string, a Announce) (err error) {
	defer func() {
		if r := recover(); r != nil {
			metrics.InternalErrors.WithLabelValues(transport).Inc()
			metrics.Announces.WithLabelValues(transport, "error").Inc()
			d.logger.Error("announce_internal_error",
				zap.String("transport", transport),
				zap.String("peer", a.PeerID),
				zap.Any("panic", r),
			)
			err = fmt.Errorf("%w: %v", ErrInternal, r)
		}
	}()

	d.engine.ApplyAnnounce(a.PeerID, a.Uploaded, a.Downloaded, a.Left)
	metrics.Announces.WithLabelValues(transport, "accepted").Inc()
	return nil
}

func (d *Dispatcher) Drop(transport string, err error, fields ...zap.Field) {
	metrics.Announces.WithLabelValues(transport, "dropped").Inc()
	fields = append(fields, zap.String("transport", transport), zap.Error(err))
	d.logger.Warn("announce_dropped", fields...)
}
