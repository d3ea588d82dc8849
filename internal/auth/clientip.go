package auth

import (
	"log/slog"
	"net/http"
	"net/netip"
	"strings"
)

// IPResolver picks the client address from proxy headers in priority order.
// Headers are only believed when the connection comes from a trusted proxy;
// anyone else gets their socket address.
type IPResolver struct {
	headers  []string
	trusted  []netip.Prefix
	disabled bool
}

// NewIPResolver parses trusted proxies as CIDR prefixes or bare addresses.
// Unparsable entries are logged and skipped.
func NewIPResolver(headers, trustedProxies []string, disabled bool) *IPResolver {
	r := &IPResolver{headers: headers, disabled: disabled}
	for _, entry := range trustedProxies {
		prefix, err := parsePrefix(entry)
		if err != nil {
			slog.Warn("ignoring invalid trusted proxy", "value", entry, "error", err)
			continue
		}
		r.trusted = append(r.trusted, prefix)
	}
	return r
}

func parsePrefix(s string) (netip.Prefix, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "/") {
		prefix, err := netip.ParsePrefix(s)
		if err != nil {
			return netip.Prefix{}, err
		}
		return prefix.Masked(), nil
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Prefix{}, err
	}
	addr = addr.Unmap()
	return netip.PrefixFrom(addr, addr.BitLen()), nil
}

// ClientIP returns "" when tracking is disabled.
func (r *IPResolver) ClientIP(req *http.Request) string {
	if r.disabled {
		return ""
	}

	peer, ok := peerAddr(req.RemoteAddr)
	if !ok {
		return ""
	}
	if !r.trustedPeer(peer) {
		return peer.String()
	}

	for _, name := range r.headers {
		value := req.Header.Get(name)
		if value == "" {
			continue
		}
		// X-Forwarded-For: client, proxy1, proxy2
		first, _, _ := strings.Cut(value, ",")
		addr, err := netip.ParseAddr(strings.TrimSpace(first))
		if err != nil {
			continue
		}
		return addr.Unmap().String()
	}
	return peer.String()
}

func (r *IPResolver) trustedPeer(peer netip.Addr) bool {
	for _, prefix := range r.trusted {
		if prefix.Contains(peer) {
			return true
		}
	}
	return false
}

func peerAddr(remoteAddr string) (netip.Addr, bool) {
	if ap, err := netip.ParseAddrPort(remoteAddr); err == nil {
		return ap.Addr().Unmap(), true
	}
	addr, err := netip.ParseAddr(remoteAddr)
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}

// MetaFromRequest collects the session metadata of a request.
func (r *IPResolver) MetaFromRequest(req *http.Request) Meta {
	return Meta{
		IPAddress: r.ClientIP(req),
		UserAgent: req.UserAgent(),
	}
}
