// Package amap recognises Amap (Gaode) links. Amap works in GCJ02 and
// mostly writes "lon,lat".
package amap

import (
	"net/http"

	"github.com/sw33tLie/geoshare/pkg/geo"
	"github.com/sw33tLie/geoshare/pkg/inputs"
	"github.com/sw33tLie/geoshare/pkg/pattern"
	"github.com/sw33tLie/geoshare/pkg/uri"
)

const srs = geo.GCJ02

var (
	recognizer = inputs.NewRecognizer(`(?i)(?:https?://)?(?:[a-z]+\.)?(?:amap|gaode)\.com/\S*`)

	// surl.amap.com only redirects a GET.
	shortLinks = inputs.NewShortLinks(`surl\.amap\.com/[A-Za-z0-9]+`, http.MethodGet)

	host = pattern.Host(`(?:[a-z]+\.)?(?:amap|gaode)\.com`)

	pin = pattern.First(
		pattern.Query("position", pattern.LonLat),
		pattern.Query("dest", pattern.LonLat),
		pattern.All(pattern.Query("lng", pattern.Lon), pattern.Query("lat", pattern.Lat)),
		pattern.Query("p", `[^,]*,`+pattern.LatLon+`(?:,(?P<name>[^,]*))?(?:,.*)?`),
		pattern.Query("q", pattern.LatLon+`(?:,(?P<name>[^,]*))?(?:,.*)?`),
	)

	zoom = pattern.Query("zoom", pattern.Zoom)

	name = pattern.First(
		pattern.Query("name", pattern.Name),
		pattern.Query("destName", pattern.Name),
		pattern.Query("keywords", pattern.Q),
	)
)

// Input handles Amap links.
type Input struct{}

// Name implements inputs.Input.
func (Input) Name() string { return "amap" }

// Documentation implements inputs.Input.
func (Input) Documentation() inputs.Documentation {
	return inputs.Documentation{
		Title: "Amap",
		Examples: []string{
			"https://uri.amap.com/marker?position=116.397428,39.90923&name=天安门",
			"https://www.amap.com/?p=B000A60DA1,39.908722,116.397496,天安门",
			"https://ditu.amap.com/regeo?lng=116.397428&lat=39.90923",
		},
		ShortLinks: []string{"https://surl.amap.com/..."},
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
	caps, _ := pattern.Optional(pin, zoom, name).Match(u)
	pos := caps.Position(srs)
	if pos.Empty() {
		return inputs.ParseURIResult{}, false
	}
	if pos.HasPoints() {
		pos.Points[0].Zoom = 0
	}
	return inputs.Succeeded(pos)
}
