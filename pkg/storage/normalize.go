package storage

import (
	"strings"

	"github.com/sw33tLie/geoshare/pkg/uri"
)

// trackingParams are dropped from stored links; they identify the sharer, not
// the place.
var trackingParams = []string{"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content", "g_st", "g_ep", "entry", "shorturl", "si"}

// NormalizeLink canonicalises a link before it is stored: lower-case host
// without default port, no trailing slash and no tracking parameters.
func NormalizeLink(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	u, err := uri.Parse(s, uri.ReadableCodec)
	if err != nil || u.Host == "" {
		return s
	}
	u.Host = strings.ToLower(u.Host)
	if u.Scheme == "http" {
		u.Host = strings.TrimSuffix(u.Host, ":80")
	}
	if u.Scheme == "https" {
		u.Host = strings.TrimSuffix(u.Host, ":443")
	}
	if strings.HasSuffix(u.Path, "/") && len(u.Path) > 1 {
		u.Path = strings.TrimRight(u.Path, "/")
	}
	var q uri.Query
	for _, p := range u.Query {
		if !isTracking(p.Key) {
			q = append(q, p)
		}
	}
	u.Query = q
	return u.String(uri.ReadableCodec)
}

func isTracking(key string) bool {
	for _, t := range trackingParams {
		if strings.EqualFold(key, t) {
			return true
		}
	}
	return false
}

// LinkDomain returns the registrable domain of a stored link, or "" for
// links without a host such as geo: URIs.
func LinkDomain(s string) string {
	u, err := uri.Parse(s, uri.ReadableCodec)
	if err != nil {
		return ""
	}
	return u.Domain()
}
