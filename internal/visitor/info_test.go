package visitor

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("User-Agent", "test-agent")
	r.RemoteAddr = "192.0.2.10:34567"

	info, err := FromRequest(r)
	require.NoError(t, err)
	assert.Equal(t, "test-agent", info.UserAgent)
	assert.Equal(t, "192.0.2.10", info.SourceIP)
}

func TestFromRequestForwardedFor(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"single hop", "203.0.113.7", "203.0.113.7"},
		{"proxy chain keeps first", "203.0.113.7, 10.0.0.1, 10.0.0.2", "203.0.113.7"},
		{"spaces trimmed", "  203.0.113.7 , 10.0.0.1", "203.0.113.7"},
		{"ipv6", "2001:db8::1", "2001:db8::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.Header.Set("User-Agent", "test-agent")
			r.Header.Set("X-Forwarded-For", tt.header)
			r.RemoteAddr = "10.0.0.9:1234"

			info, err := FromRequest(r)
			require.NoError(t, err)
			assert.Equal(t, tt.want, info.SourceIP)
		})
	}
}

func TestFromRequestMissingUserAgent(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "192.0.2.10:34567"

	_, err := FromRequest(r)
	assert.ErrorIs(t, err, ErrMissingUserAgent)
}

func TestFromRequestMissingSourceIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("User-Agent", "test-agent")
	r.RemoteAddr = ""

	_, err := FromRequest(r)
	assert.ErrorIs(t, err, ErrMissingSourceIP)
}

func TestFromRequestRemoteAddrWithoutPort(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("User-Agent", "test-agent")
	r.RemoteAddr = "192.0.2.10"

	info, err := FromRequest(r)
	require.NoError(t, err)
	assert.Equal(t, "192.0.2.10", info.SourceIP)
}
