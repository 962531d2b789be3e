// Package normalize canonicalizes incoming page URLs before a load cycle.
package normalize

import (
	"net/url"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Options toggles individual rules. The zero value only strips a leading
// "www." from the host.
type Options struct {
	ForceHTTPS     bool
	ForceWWW       bool
	ForceSlash     bool
	ForceLowercase bool
}

// Normalizer applies Options to navigation URLs.
type Normalizer struct {
	opts Options
}

// New returns a Normalizer for opts.
func New(opts Options) *Normalizer {
	return &Normalizer{opts: opts}
}

// Options returns the active rule set.
func (n *Normalizer) Options() Options { return n.opts }

// Normalize returns the canonical form of u and whether it differs from u,
// in which case the caller should redirect instead of rendering. All rules
// are folded into a single target. Hosts without a dot (localhost, bare
// names) are left alone by the www rules.
func (n *Normalizer) Normalize(u *url.URL) (*url.URL, bool) {
	if u == nil {
		return nil, false
	}
	out := *u

	if n.opts.ForceHTTPS && out.Scheme == "http" {
		out.Scheme = "https"
	}

	host, port := splitHostPort(out.Host)
	hasWWW := strings.HasPrefix(host, "www.")
	switch {
	case n.opts.ForceWWW && !hasWWW && strings.Contains(host, "."):
		host = "www." + host
	case !n.opts.ForceWWW && hasWWW:
		host = strings.TrimPrefix(host, "www.")
	}
	out.Host = host + port

	p := out.Path
	if n.opts.ForceSlash && !strings.HasSuffix(p, "/") {
		p += "/"
	}
	if n.opts.ForceLowercase {
		// Casers are stateful and must not be shared across goroutines.
		p = cases.Lower(language.Und).String(p)
	}
	if p != out.Path {
		out.Path = p
		out.RawPath = ""
	}

	changed := out.Scheme != u.Scheme || out.Host != u.Host || out.Path != u.Path
	return &out, changed
}

func splitHostPort(hostport string) (host, port string) {
	if strings.HasPrefix(hostport, "[") {
		return hostport, ""
	}
	if i := strings.LastIndexByte(hostport, ':'); i >= 0 {
		return hostport[:i], hostport[i:]
	}
	return hostport, ""
}
