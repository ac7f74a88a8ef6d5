// Package uri decomposes shared links into scheme, host, path, query and
// fragment, and puts them back together.
//
// Unlike net/url it accepts opaque schemes such as geo:, keeps the path
// exactly as it was shared and treats duplicate query keys as last-wins.
package uri

import (
	"errors"
	"net"
	"regexp"
	"strings"

	"github.com/weppos/publicsuffix-go/publicsuffix"
)

// ErrMalformed is returned when a string cannot be decomposed at all.
var ErrMalformed = errors.New("malformed uri")

var (
	schemeRegex = regexp.MustCompile(`^([a-zA-Z][a-zA-Z0-9+.\-]*):`)
	hostRegex   = regexp.MustCompile(`^[a-zA-Z0-9\-]+(\.[a-zA-Z0-9\-]+)+(:\d+)?$`)
)

// Param is a single decoded query parameter.
type Param struct {
	Key   string
	Value string
}

// Query keeps parameters in the order they were shared.
type Query []Param

// Get returns the value of the last parameter named key.
func (q Query) Get(key string) string {
	v, _ := q.Lookup(key)
	return v
}

// Lookup is like Get but also reports whether the key was present.
func (q Query) Lookup(key string) (string, bool) {
	for i := len(q) - 1; i >= 0; i-- {
		if q[i].Key == key {
			return q[i].Value, true
		}
	}
	return "", false
}

// With returns a copy of q where key is set to value.
func (q Query) With(key, value string) Query {
	out := make(Query, 0, len(q)+1)
	replaced := false
	for _, p := range q {
		if p.Key == key {
			if !replaced {
				out = append(out, Param{Key: key, Value: value})
				replaced = true
			}
			continue
		}
		out = append(out, p)
	}
	if !replaced {
		out = append(out, Param{Key: key, Value: value})
	}
	return out
}

// URI is an immutable decomposed link. Query values are decoded, Path and
// Fragment are kept as shared.
type URI struct {
	Scheme   string
	Host     string
	Path     string
	Query    Query
	Fragment string
}

// Parse decomposes text without guessing a scheme. References such as
// "//host/path", "/path" or "path" keep an empty scheme so they can be
// resolved with ToAbsolute.
func Parse(text string, codec Codec) (URI, error) {
	if codec == nil {
		codec = DefaultCodec
	}
	s := strings.TrimSpace(text)
	if s == "" || strings.ContainsAny(s, "\n\r\t") {
		return URI{}, ErrMalformed
	}

	var u URI
	if i := strings.IndexByte(s, '#'); i >= 0 {
		u.Fragment = s[i+1:]
		s = s[:i]
	}
	if i := strings.IndexByte(s, '?'); i >= 0 {
		u.Query = parseQuery(s[i+1:], codec)
		s = s[:i]
	}
	if m := schemeRegex.FindStringSubmatch(s); m != nil && !isHostPort(s) {
		u.Scheme = strings.ToLower(m[1])
		s = s[len(m[0]):]
	}
	if strings.HasPrefix(s, "//") {
		s = s[2:]
		if i := strings.IndexByte(s, '/'); i >= 0 {
			u.Host = s[:i]
			u.Path = s[i:]
		} else {
			u.Host = s
		}
	} else {
		u.Path = s
	}
	if u.Scheme == "" && u.Host == "" && u.Path == "" && len(u.Query) == 0 && u.Fragment == "" {
		return URI{}, ErrMalformed
	}
	return u, nil
}

// ParseLink is Parse for text the user shared: a schemeless link whose first
// segment looks like a host name ("maps.apple.com/?q=x") becomes https.
func ParseLink(text string, codec Codec) (URI, error) {
	u, err := Parse(text, codec)
	if err != nil {
		return u, err
	}
	if u.Scheme == "" && u.Host == "" && !strings.HasPrefix(u.Path, "/") {
		first, rest, _ := strings.Cut(u.Path, "/")
		if hostRegex.MatchString(first) {
			u.Scheme = "https"
			u.Host = first
			if rest != "" || strings.HasSuffix(u.Path, "/") {
				u.Path = "/" + rest
			} else {
				u.Path = ""
			}
		}
	}
	return u, nil
}

// isHostPort reports whether s starts with "host:port", which the scheme
// regex would otherwise take for a scheme.
func isHostPort(s string) bool {
	first, _, _ := strings.Cut(s, "/")
	return hostRegex.MatchString(first) && strings.Contains(first, ":")
}

func parseQuery(raw string, codec Codec) Query {
	if raw == "" {
		return nil
	}
	var q Query
	for _, part := range strings.Split(raw, "&") {
		if part == "" {
			continue
		}
		k, v, _ := strings.Cut(part, "=")
		q = append(q, Param{Key: codec.Decode(k), Value: codec.Decode(v)})
	}
	return q
}

// String serialises u, encoding query keys and values with codec.
func (u URI) String(codec Codec) string {
	if codec == nil {
		codec = DefaultCodec
	}
	var b strings.Builder
	if u.Scheme != "" {
		b.WriteString(u.Scheme)
		b.WriteByte(':')
	}
	if u.Host != "" {
		b.WriteString("//")
		b.WriteString(u.Host)
	}
	b.WriteString(u.Path)
	if len(u.Query) > 0 {
		b.WriteByte('?')
		for i, p := range u.Query {
			if i > 0 {
				b.WriteByte('&')
			}
			b.WriteString(codec.Encode(p.Key))
			if p.Value != "" {
				b.WriteByte('=')
				b.WriteString(codec.Encode(p.Value))
			}
		}
	}
	if u.Fragment != "" {
		b.WriteByte('#')
		b.WriteString(u.Fragment)
	}
	return b.String()
}

// ToAbsolute resolves u against base. A protocol-relative reference inherits
// only the scheme, an absolute path inherits scheme and host, and a relative
// path is additionally appended to the base path.
func (u URI) ToAbsolute(base URI) URI {
	switch {
	case u.Scheme != "":
		return u
	case u.Host != "":
		u.Scheme = base.Scheme
		return u
	case strings.HasPrefix(u.Path, "/"):
		u.Scheme = base.Scheme
		u.Host = base.Host
		return u
	default:
		u.Scheme = base.Scheme
		u.Host = base.Host
		u.Path = strings.TrimSuffix(base.Path, "/") + "/" + u.Path
		return u
	}
}

// Hostname returns the lower-cased host without port.
func (u URI) Hostname() string {
	h := u.Host
	if host, _, err := net.SplitHostPort(h); err == nil {
		h = host
	}
	return strings.ToLower(h)
}

// Domain returns the registrable domain of the host (e.g. "google.co.uk" for
// "maps.google.co.uk"), or the bare host if it has none.
func (u URI) Domain() string {
	h := u.Hostname()
	if h == "" {
		return ""
	}
	if net.ParseIP(h) != nil {
		return h
	}
	d, err := publicsuffix.Domain(h)
	if err != nil {
		return h
	}
	return d
}

// PathSegments splits the path on slashes, dropping empty segments.
func (u URI) PathSegments() []string {
	var out []string
	for _, s := range strings.Split(u.Path, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
