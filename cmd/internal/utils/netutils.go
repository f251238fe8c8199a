package utils

import (
	"net"
	"net/netip"
	"strings"

	"github.com/labstack/echo/v4"
)

const HeaderClientIP = "X-Client-IP"

// ClientIP returns the first public address found in X-Client-IP, then
// X-Forwarded-For, then the connection's remote address. When none of them
// holds a public address the remote address is returned as long as it
// parses, otherwise fallback.
func ClientIP(c echo.Context, fallback string) string {
	req := c.Request()

	candidates := make([]string, 0, 4)
	candidates = append(candidates, req.Header.Get(HeaderClientIP))
	candidates = append(candidates, strings.Split(req.Header.Get(echo.HeaderXForwardedFor), ",")...)

	for _, raw := range candidates {
		if addr, ok := parseAddr(raw); ok && isPublic(addr) {
			return addr.String()
		}
	}

	remote := req.RemoteAddr
	if host, _, err := net.SplitHostPort(remote); err == nil {
		remote = host
	}
	if addr, ok := parseAddr(remote); ok {
		return addr.String()
	}
	return fallback
}

func parseAddr(raw string) (netip.Addr, bool) {
	addr, err := netip.ParseAddr(strings.TrimSpace(raw))
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}

func isPublic(addr netip.Addr) bool {
	return addr.IsValid() &&
		!addr.IsPrivate() &&
		!addr.IsLoopback() &&
		!addr.IsUnspecified() &&
		!addr.IsLinkLocalUnicast() &&
		!addr.IsMulticast()
}
