package secrets

import (
	"net/url"
	"os"
	"strings"
	"sync"
)

var (
	once          sync.Once
	sensitiveEnvs []string

	queryKeySet = map[string]struct{}{
		"passkey": {},
		"key":     {},
		"token":   {},
		"authkey": {},
	}

	envNameSensitivePatterns = []string{
		"API_KEY", "TOKEN", "SECRET", "PASSWORD",
	}
)

func initSensitiveEnvs() {
	for _, kv := range os.Environ() {
		name, val, ok := strings.Cut(kv, "=")
		if !ok || len(val) < 8 {
			continue
		}
		up := strings.ToUpper(name)
		for _, pat := range envNameSensitivePatterns {
			if strings.Contains(up, pat) {
				sensitiveEnvs = append(sensitiveEnvs, val)
				break
			}
		}
	}
}

// RedactQuery encodes q with credential-like parameters masked. Binary
// parameters are left percent-encoded.
func RedactQuery(q url.Values) string {
	if len(q) == 0 {
		return ""
	}
	out := make(url.Values, len(q))
	for k, vv := range q {
		if _, ok := queryKeySet[strings.ToLower(k)]; ok {
			out[k] = []string{"***"}
			continue
		}
		out[k] = vv
	}
	return RedactString(out.Encode())
}

// RedactString replaces values of sensitive env variables with [HIDDEN].
func RedactString(s string) string {
	once.Do(initSensitiveEnvs)
	for _, val := range sensitiveEnvs {
		s = strings.ReplaceAll(s, val, "[HIDDEN]")
	}
	return s
}
