package api

import (
	"net"
	"net/http"
	"strings"
)

// hostValidationMiddleware rejects requests whose Host header does not match
// the allowed-host list, before any handler runs. This is the defense against
// forged host headers; the list comes from the ALLOWED_HOSTS setting.
func hostValidationMiddleware(allowed []string, next http.Handler) http.Handler {
	if len(allowed) == 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !hostAllowed(r.Host, allowed) {
			writeError(w, http.StatusBadRequest, "Invalid host header", "host "+r.Host+" is not in the allowed host list")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// hostAllowed reports whether the request host matches an allowed entry.
// Entries match exactly (case-insensitive), or any host when the entry is
// "*", or the domain and all its subdomains when the entry starts with a dot.
func hostAllowed(requestHost string, allowed []string) bool {
	host := normalizeHost(requestHost)
	if host == "" {
		return false
	}

	for _, entry := range allowed {
		entry = strings.ToLower(entry)
		switch {
		case entry == "*":
			return true
		case strings.HasPrefix(entry, "."):
			if host == entry[1:] || strings.HasSuffix(host, entry) {
				return true
			}
		case host == entry:
			return true
		}
	}
	return false
}

// normalizeHost strips an optional port and lowercases the host name.
func normalizeHost(requestHost string) string {
	host := requestHost
	if h, _, err := net.SplitHostPort(requestHost); err == nil {
		host = h
	}
	return strings.ToLower(strings.TrimSuffix(host, "."))
}
