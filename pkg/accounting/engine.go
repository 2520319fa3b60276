package accounting

import (
	"time"

	"go.uber.org/zap"

	"github.com/shuliakovsky/peer-scoring/pkg/metrics"
	"github.com/shuliakovsky/peer-scoring/pkg/peers"
)

// Engine converts announce counters into points. All state lives in the store.
type Engine struct {
	store  *peers.Store
	policy Policy
	logger *zap.Logger
	now    func() time.Time
}

func New(store *peers.Store, policy Policy, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		store:  store,
		policy: policy.normalized(),
		logger: logger,
		now:    time.Now,
	}
}

func (e *Engine) Policy() Policy { return e.policy }

type award struct {
	points float64
	bonus  bool
}

// ApplyAnnounce folds one announce into the peer's record and returns the
// updated copy. Negative counters count as zero.
func (e *Engine) ApplyAnnounce(peerID string, uploaded, downloaded, left int64) peers.Record {
	uploaded, downloaded, left = clamp(uploaded), clamp(downloaded), clamp(left)
	now := e.now()

	var (
		got     award
		created bool
	)
	rec := e.store.Mutate(peerID, func(r *peers.Record) {
		created = r.LastAnnounceAt.IsZero()
		got = settle(r, uploaded, downloaded, left, e.policy, now)
	})

	if created {
		metrics.PeersTracked.Inc()
	}
	if got.points > 0 {
		metrics.PointsAwarded.Add(got.points)
		e.logger.Debug("points_awarded",
			zap.String("peer", peerID),
			zap.Float64("points", got.points),
			zap.Bool("seeding_bonus", got.bonus),
			zap.Float64("total", rec.Points),
		)
	}
	if got.bonus {
		metrics.SeedingBonuses.Inc()
	}
	return rec
}

// settle applies the accounting rules to r in place.
func settle(r *peers.Record, uploaded, downloaded, left int64, p Policy, now time.Time) award {
	var a award

	// A lower counter keeps the high-water mark: late or duplicate announces
	// cannot rewind credit. A client that reset its counter earns nothing
	// until it passes the old mark again.
	if delta := uploaded - r.Uploaded; delta > 0 {
		a.points += float64(delta) / p.BytesPerPoint
		r.Uploaded = uploaded
	}
	r.Downloaded = downloaded

	if left == 0 && !r.SeedingBonus {
		a.points += p.SeedingBonus
		a.bonus = true
		r.SeedingBonus = true
	}

	r.Points += a.points
	r.LastAnnounceAt = now
	return a
}
