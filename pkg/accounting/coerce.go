package accounting

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Coerce turns an untrusted counter into a non-negative int64. Anything that
// is not a finite number in [0, MaxInt64] becomes zero.
func Coerce(v any) int64 {
	switch t := v.(type) {
	case nil:
		return 0
	case string:
		return coerceString(t)
	case []byte:
		return coerceString(string(t))
	case json.Number:
		return coerceString(t.String())
	case float64:
		return coerceFloat(t)
	case float32:
		return coerceFloat(float64(t))
	case int:
		return clamp(int64(t))
	case int32:
		return clamp(int64(t))
	case int64:
		return clamp(t)
	case uint32:
		return int64(t)
	case uint64:
		if t > math.MaxInt64 {
			return 0
		}
		return int64(t)
	default:
		return 0
	}
}

func coerceString(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return clamp(n)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return coerceFloat(f)
}

func coerceFloat(f float64) int64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f >= math.MaxInt64 {
		return 0
	}
	return int64(f)
}

func clamp(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}
