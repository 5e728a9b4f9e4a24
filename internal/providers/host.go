// internal/providers/host.go
package providers

import "strings"

// BaseURL turns a bare host or host:port into a URL using scheme. A host that
// already carries a scheme is used as is.
func BaseURL(host, scheme string) string {
	h := strings.TrimRight(strings.TrimSpace(host), "/")
	if strings.Contains(h, "://") {
		return h
	}
	return scheme + "://" + h
}

// HostIdentifier returns a short label for a host in log lines.
func HostIdentifier(host string) string {
	h := strings.TrimSpace(host)
	if i := strings.Index(h, "://"); i >= 0 {
		h = h[i+3:]
	}
	if h == "" {
		return "unknown"
	}
	return h
}
