// Package visitor extracts visit identity from incoming requests: the
// user agent and source IP, a bot classification, and the fingerprint used
// for deduplication.
package visitor

import (
	"errors"
	"net"
	"net/http"
	"strings"
)

var (
	// ErrMissingUserAgent is returned for requests without a user agent
	ErrMissingUserAgent = errors.New("request has no user agent")
	// ErrMissingSourceIP is returned when no source IP can be determined
	ErrMissingSourceIP = errors.New("request has no source IP")
)

// Info is the request information needed to semi-uniquely identify a
// visitor without storing anything directly identifying.
type Info struct {
	UserAgent string
	SourceIP  string
}

// FromRequest extracts visitor information from an HTTP request.
// The source IP prefers the X-Forwarded-For header (first hop) so the
// service works behind the usual proxy or load balancer.
func FromRequest(r *http.Request) (Info, error) {
	ua := r.UserAgent()
	if ua == "" {
		return Info{}, ErrMissingUserAgent
	}

	ip := sourceIP(r)
	if ip == "" {
		return Info{}, ErrMissingSourceIP
	}

	return Info{UserAgent: ua, SourceIP: ip}, nil
}

// sourceIP resolves the client address, preferring X-Forwarded-For
func sourceIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		// The first entry is the original client; later hops are proxies.
		first := fwd
		if idx := strings.Index(fwd, ","); idx != -1 {
			first = fwd[:idx]
		}
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr without a port, e.g. from a test request.
		return strings.TrimSpace(r.RemoteAddr)
	}
	return host
}
