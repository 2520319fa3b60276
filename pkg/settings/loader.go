package settings

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/shuliakovsky/peer-scoring/pkg/accounting"
	"github.com/shuliakovsky/peer-scoring/pkg/peers"
)

var envRef = regexp.MustCompile(`\$\{([A-Z0-9_]+)\}`)

func Defaults() Settings {
	return Settings{
		Accounting: accounting.DefaultPolicy(),
		Tracker:    Tracker{IntervalSec: 1800, MinIntervalSec: 900},
		Store:      Store{Shards: peers.DefaultShards},
		Snapshot:   Snapshot{IntervalSec: 300},
	}
}

// Load reads scoring settings from a YAML file. Keys missing from the file
// keep their defaults; a missing file yields the defaults.
func Load(path string, logger *zap.Logger) (Settings, error) {
	out := Defaults()
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Warn("scoring config not found, using defaults", zap.String("file", path))
		return out, nil
	}
	if err != nil {
		return out, err
	}

	b = envRef.ReplaceAllFunc(b, func(m []byte) []byte {
		k := string(envRef.FindSubmatch(m)[1])
		val := os.Getenv(k)
		if val == "" {
			logger.Warn("env variable is empty during config expansion",
				zap.String("file", path),
				zap.String("var", k))
		}
		return []byte(val)
	})

	if err := yaml.Unmarshal(b, &out); err != nil {
		return out, fmt.Errorf("%s: %w", path, err)
	}
	if err := out.validate(); err != nil {
		return out, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

func (s Settings) validate() error {
	if s.Accounting.BytesPerPoint <= 0 {
		return fmt.Errorf("accounting.bytesPerPoint must be positive")
	}
	if s.Accounting.SeedingBonus < 0 {
		return fmt.Errorf("accounting.seedingBonus must not be negative")
	}
	if s.Tracker.IntervalSec <= 0 {
		return fmt.Errorf("tracker.intervalSec must be positive")
	}
	if s.Tracker.MinIntervalSec <= 0 || s.Tracker.MinIntervalSec > s.Tracker.IntervalSec {
		return fmt.Errorf("tracker.minIntervalSec must be in (0, intervalSec]")
	}
	if s.Store.Shards <= 0 {
		return fmt.Errorf("store.shards must be positive")
	}
	if s.Snapshot.IntervalSec < 0 {
		return fmt.Errorf("snapshot.intervalSec must not be negative")
	}
	return nil
}
