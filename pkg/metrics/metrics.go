package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Announces = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "scoring_announces_total", Help: "Announce events by transport and outcome"},
		[]string{"transport", "outcome"},
	)
	PointsAwarded = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "scoring_points_awarded_total", Help: "Unrounded points awarded for upload growth and seeding"},
	)
	SeedingBonuses = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "scoring_seeding_bonus_total", Help: "One-shot seeding bonuses granted"},
	)
	PeersTracked = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "scoring_peers_tracked", Help: "Distinct peers held in memory"},
	)
	WSConnected = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "scoring_ws_connections_total", Help: "Total WebSocket tracker connections"},
	)
	InternalErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "scoring_internal_errors_total", Help: "Recovered faults in the accounting path"},
		[]string{"transport"},
	)
)

func Init() {
	prometheus.MustRegister(Announces, PointsAwarded, SeedingBonuses, PeersTracked)
	prometheus.MustRegister(WSConnected, InternalErrors)
}

func Handler() http.Handler {
	return promhttp.Handler()
}
