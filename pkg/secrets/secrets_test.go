package secrets

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRedactQuery_MasksCredentials(t *testing.T) {
	q := url.Values{
		"passkey":  {"abcdef"},
		"uploaded": {"10"},
	}
	out := RedactQuery(q)
	require.Contains(t, out, "passkey=%2A%2A%2A")
	require.Contains(t, out, "uploaded=10")
	require.NotContains(t, out, "abcdef")
}

func TestRedactQuery_Empty(t *testing.T) {
	require.Equal(t, "", RedactQuery(nil))
}
