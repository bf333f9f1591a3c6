package middleware

import (
	"errors"
	"log"
	"net"
	"net/http"
	"net/netip"
	"strings"

	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/audit"
	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/server/store"
)

// ProxyTrust reports whether an address belongs to a trusted proxy
type ProxyTrust interface {
	IsTrustedProxy(ip string) bool
}

// DenyCounter counts rejected requests
type DenyCounter interface {
	AccessDenied()
}

// AccessIPChecker is middleware that rejects clients whose address is not
// in the IP allow-list
type AccessIPChecker struct {
	Store   store.AccessIPStore
	Proxies ProxyTrust
	Denied  DenyCounter
	// Audit receives an AccessIPEvent per rejection; defaults to audit.Log
	Audit func(audit.Event)
	// Exempt paths skip the check
	Exempt map[string]bool
}

// NewAccessIPChecker creates a new AccessIPChecker
func NewAccessIPChecker(st store.AccessIPStore, proxies ProxyTrust, denied DenyCounter) *AccessIPChecker {
	return &AccessIPChecker{
		Store:   st,
		Proxies: proxies,
		Denied:  denied,
		Audit:   audit.Log,
		Exempt:  map[string]bool{},
	}
}

// Middleware returns an HTTP middleware enforcing the allow-list
func (c *AccessIPChecker) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c.Exempt[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}

		clientIP := ClientIP(r, c.Proxies)
		_, err := c.Store.FindAccessIPByAddress(r.Context(), clientIP)
		switch {
		case err == nil:
			next.ServeHTTP(w, r)
		case errors.Is(err, store.ErrNotFound):
			if c.Denied != nil {
				c.Denied.AccessDenied()
			}
			if c.Audit != nil {
				c.Audit(audit.AccessIPEvent{ClientIP: clientIP, Method: r.Method, Path: r.URL.Path})
			}
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte("Invalid IP address"))
		default:
			log.Printf("access ip lookup for %s: %v", clientIP, err)
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("Access check unavailable"))
		}
	})
}

// ClientIP resolves the client address. X-Forwarded-For is only honoured
// when the direct peer is a trusted proxy; hops are read right to left and
// the first untrusted one wins.
func ClientIP(r *http.Request, proxies ProxyTrust) string {
	peer := canonical(r.RemoteAddr)
	if proxies == nil || !proxies.IsTrustedProxy(peer) {
		return peer
	}

	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded == "" {
		return peer
	}

	hops := strings.Split(forwarded, ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := canonical(strings.TrimSpace(hops[i]))
		if hop == "" {
			continue
		}
		if !proxies.IsTrustedProxy(hop) || i == 0 {
			return hop
		}
	}
	return peer
}

// canonical strips any port and normalises the address form
func canonical(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}
	if ip, err := netip.ParseAddr(addr); err == nil {
		return ip.Unmap().String()
	}
	return addr
}
