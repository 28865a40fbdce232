package api

import (
	"net"
	"strings"
)

// clientIP reduces a remote address to the host used as the rate limit key.
// chi's RealIP middleware has already replaced RemoteAddr with the proxied
// client address when X-Real-IP or X-Forwarded-For is present.
func clientIP(remoteAddr string) string {
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return strings.TrimSpace(remoteAddr)
}
