package ratelimit

import (
	"context"
	"net/http"
	"net/netip"
	"strings"
)

type peerKey struct{}

// KeepPeer records the socket peer before middleware.RealIP rewrites
// RemoteAddr from client supplied headers. It must run ahead of RealIP.
func KeepPeer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), peerKey{}, r.RemoteAddr)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClientAddr resolves the address a request is limited under. Forwarding
// headers count only when the socket peer is one of the trusted proxies.
type ClientAddr struct {
	trusted []netip.Prefix
}

func NewClientAddr(trusted []netip.Prefix) *ClientAddr {
	return &ClientAddr{trusted: trusted}
}

func (c *ClientAddr) Resolve(r *http.Request) string {
	peer, ok := r.Context().Value(peerKey{}).(string)
	if !ok {
		peer = r.RemoteAddr
	}
	addr, ok := parseHost(peer)
	if !ok {
		return peer
	}
	if !c.isTrusted(addr) {
		return addr.String()
	}

	// Right to left, the first hop not added by one of our proxies is the
	// client. Everything further left is client controlled.
	hops := strings.Split(strings.Join(r.Header.Values("X-Forwarded-For"), ","), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
		if err != nil {
			break
		}
		hop = hop.Unmap()
		if !c.isTrusted(hop) {
			return hop.String()
		}
		addr = hop
	}
	return addr.String()
}

func (c *ClientAddr) isTrusted(addr netip.Addr) bool {
	for _, p := range c.trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

func parseHost(hostport string) (netip.Addr, bool) {
	if ap, err := netip.ParseAddrPort(hostport); err == nil {
		return ap.Addr().Unmap(), true
	}
	if addr, err := netip.ParseAddr(hostport); err == nil {
		return addr.Unmap(), true
	}
	return netip.Addr{}, false
}
