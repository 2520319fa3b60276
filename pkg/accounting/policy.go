package accounting

import "math"

const (
	DefaultBytesPerPoint = 1024
	DefaultSeedingBonus  = 10
)

// Policy holds the point rates.
type Policy struct {
	BytesPerPoint float64 `yaml:"bytesPerPoint" json:"bytesPerPoint"`
	SeedingBonus  float64 `yaml:"seedingBonus" json:"seedingBonus"`
}

func DefaultPolicy() Policy {
	return Policy{BytesPerPoint: DefaultBytesPerPoint, SeedingBonus: DefaultSeedingBonus}
}

func (p Policy) normalized() Policy {
	if p.BytesPerPoint <= 0 || math.IsNaN(p.BytesPerPoint) || math.IsInf(p.BytesPerPoint, 0) {
		p.BytesPerPoint = DefaultBytesPerPoint
	}
	if p.SeedingBonus < 0 || math.IsNaN(p.SeedingBonus) || math.IsInf(p.SeedingBonus, 0) {
		p.SeedingBonus = DefaultSeedingBonus
	}
	return p
}

// RoundPoints rounds half up. Stored points are never negative.
func RoundPoints(points float64) int64 {
	return int64(math.Floor(points + 0.5))
}
