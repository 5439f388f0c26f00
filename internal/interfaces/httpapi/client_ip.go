package httpapi

import (
	"net"
	"net/http"
	"strings"
)

// clientIPHeaders are read in order; X-Forwarded-For contributes its first
// hop only.
var clientIPHeaders = []string{"CF-Connecting-IP", "X-Forwarded-For", "X-Real-IP"}

func resolveClientIP(r *http.Request) string {
	for _, name := range clientIPHeaders {
		first, _, _ := strings.Cut(r.Header.Get(name), ",")
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip.String()
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if ip := net.ParseIP(host); ip != nil {
		return ip.String()
	}
	return ""
}
