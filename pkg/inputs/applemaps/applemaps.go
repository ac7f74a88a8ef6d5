// Package applemaps recognises maps.apple.com links and the maps.apple/p
// short links. Place links that only name an Apple place id are resolved
// from the place page.
//
// Apple shows AutoNavi data in mainland China and its links carry GCJ02
// coordinates there, so points are tagged GCJ02 like Google's.
package applemaps

import (
	"io"
	"net/http"
	"regexp"

	"github.com/sw33tLie/geoshare/pkg/geo"
	"github.com/sw33tLie/geoshare/pkg/inputs"
	"github.com/sw33tLie/geoshare/pkg/inputs/htmlscan"
	"github.com/sw33tLie/geoshare/pkg/pattern"
	"github.com/sw33tLie/geoshare/pkg/uri"
)

const srs = geo.GCJ02

var (
	recognizer = inputs.NewRecognizer(`(?i)(?:https?://)?(?:maps\.apple\.com|maps\.apple/p|collections\.apple\.com)[/?]\S*`)

	shortLinks = inputs.NewShortLinks(`maps\.apple/p/[A-Za-z0-9_\-.~]+`, http.MethodHead)

	host = pattern.Host(`maps\.apple\.com|maps\.apple|collections\.apple\.com`)

	// A pin: the place itself or the destination of a route.
	pin = pattern.First(
		pattern.Query("coordinate", pattern.LatLon),
		pattern.Query("ll", pattern.LatLon),
		pattern.Query("daddr", pattern.LatLon),
		pattern.Query("q", pattern.LatLon),
	)

	// The map view, used only when there is no pin.
	view = pattern.First(
		pattern.Query("sll", pattern.LatLon),
		pattern.Query("center", pattern.LatLon),
	)

	zoom = pattern.Query("z", pattern.Zoom)

	name = pattern.First(
		pattern.Query("name", pattern.Name),
		pattern.Query("q", pattern.Q),
		pattern.Query("address", pattern.Q),
		pattern.Query("daddr", pattern.Q),
	)

	placeID = pattern.First(
		pattern.Query("auid", `\d+`),
		pattern.Query("place-id", `[A-Za-z0-9_\-]+`),
		pattern.Path(`/p/.+`),
	)

	coords = regexp.MustCompile(`^` + pattern.LatLon + `$`)
)

// Input handles Apple Maps links.
type Input struct{}

// Name implements inputs.Input.
func (Input) Name() string { return "applemaps" }

// Documentation implements inputs.Input.
func (Input) Documentation() inputs.Documentation {
	return inputs.Documentation{
		Title: "Apple Maps",
		Examples: []string{
			"https://maps.apple.com/?ll=52.5163,13.3777&q=Brandenburger%20Tor&z=16",
			"https://maps.apple.com/place?coordinate=52.5163,13.3777&name=Brandenburger%20Tor",
			"https://maps.apple.com/?daddr=52.5163,13.3777",
			"https://maps.apple.com/?auid=1234567890",
		},
		ShortLinks: []string{"https://maps.apple/p/..."},
		HTML:       true,
	}
}

// Recognize implements inputs.Input.
func (Input) Recognize(text string) (string, bool) { return recognizer.Recognize(text) }

// IsShortLink implements inputs.ShortLinker.
func (Input) IsShortLink(u uri.URI) bool { return shortLinks.IsShortLink(u) }

// ShortLinkMethod implements inputs.ShortLinker.
func (Input) ShortLinkMethod() string { return shortLinks.ShortLinkMethod() }

// ParseURI implements inputs.Input.
func (Input) ParseURI(u uri.URI) (inputs.ParseURIResult, bool) {
	if _, ok := host.Match(u); !ok {
		return inputs.ParseURIResult{}, false
	}

	var pos geo.Position
	if caps, ok := zoom.Match(u); ok {
		pos.Zoom = caps.Zoom()
	}

	label := ""
	if caps, ok := name.Match(u); ok {
		label = caps.Name()
		if label == "" {
			label = caps.Query()
		}
		if coords.MatchString(label) {
			label = ""
		}
	}

	p, found := geo.Point{}, false
	if caps, ok := pin.Match(u); ok {
		p, found = caps.Point(srs)
	}
	if !found {
		if caps, ok := view.Match(u); ok {
			p, found = caps.Point(srs)
		}
	}
	if found {
		return inputs.Succeeded(geo.Position{Zoom: pos.Zoom, Points: []geo.Point{p.WithName(label)}})
	}

	pos.Q = label
	if _, ok := placeID.Match(u); ok {
		return inputs.SucceededRequiresHTML(pos, u.String(nil))
	}
	if label != "" {
		return inputs.Succeeded(pos)
	}
	return inputs.ParseURIResult{}, false
}

var (
	latMeta = regexp.MustCompile(`<meta[^>]+property="place:location:latitude"[^>]+content="(?P<lat>-?\d{1,2}(?:\.\d+)?)"`)
	lonMeta = regexp.MustCompile(`<meta[^>]+property="place:location:longitude"[^>]+content="(?P<lon>-?\d{1,3}(?:\.\d+)?)"`)
)

// ParseHTML implements inputs.HTMLParser. The place page carries the
// coordinates in two meta tags that may be on different lines.
func (Input) ParseHTML(r io.Reader, fromURI geo.Position, log inputs.Logger) (inputs.ParseHTMLResult, bool) {
	var lat, lon, title string
	_, err := htmlscan.Lines(r, func(line string) bool {
		if m := latMeta.FindStringSubmatch(line); m != nil {
			lat = m[1]
		}
		if m := lonMeta.FindStringSubmatch(line); m != nil {
			lon = m[1]
		}
		if title == "" {
			title, _ = htmlscan.Title(line)
		}
		return lat != "" && lon != ""
	})
	if err != nil {
		log.Warnf("applemaps: reading page: %v", err)
	}
	p, ok, perr := geo.PointFromStrings(srs, lat, lon)
	if perr != nil || !ok {
		return inputs.ParseHTMLResult{}, false
	}
	p.Name = fromURI.Q
	if p.Name == "" {
		p.Name = title
	}
	log.Debugf("applemaps: found %v in page", p)
	return inputs.HTMLSucceeded(geo.Position{Q: fromURI.Q, Zoom: fromURI.Zoom}.Merge(geo.NewPosition(p)))
}
