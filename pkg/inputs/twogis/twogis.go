// Package twogis recognises 2GIS links. 2GIS writes "lon,lat".
package twogis

import (
	"net/http"

	"github.com/sw33tLie/geoshare/pkg/geo"
	"github.com/sw33tLie/geoshare/pkg/inputs"
	"github.com/sw33tLie/geoshare/pkg/pattern"
	"github.com/sw33tLie/geoshare/pkg/uri"
)

var (
	recognizer = inputs.NewRecognizer(`(?i)(?:https?://)?(?:go\.)?2gis\.[a-z]{2,3}/\S*`)

	shortLinks = inputs.NewShortLinks(`go\.2gis\.com/[A-Za-z0-9]+`, http.MethodHead)

	host = pattern.Host(`(?:www\.)?2gis\.[a-z]{2,3}`)

	// "m=lon,lat/zoom" is the map view.
	view = pattern.Query("m", pattern.LonLat+`(?:/`+pattern.Zoom+`)?(?:/.*)?`)

	// A geo object or a coordinate pin ends the path with "lon,lat".
	pin = pattern.Path(`(?:/[^/]+)*/(?:geo|firm|center)(?:/[^/]+)?/` + pattern.LonLat + `/?.*`)

	search = pattern.Path(`(?:/[^/]+)?/search/(?P<q>[^/]+)(?:/.*)?`)
)

// Input handles 2GIS links.
type Input struct{}

// Name implements inputs.Input.
func (Input) Name() string { return "twogis" }

// Documentation implements inputs.Input.
func (Input) Documentation() inputs.Documentation {
	return inputs.Documentation{
		Title: "2GIS",
		Examples: []string{
			"https://2gis.ru/moscow/geo/4504235282638430/37.617698,55.752004",
			"https://2gis.ru/moscow?m=37.617698%2C55.752004%2F16",
		},
		ShortLinks: []string{"https://go.2gis.com/..."},
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
	if caps, ok := view.Match(u); ok {
		if p, ok := caps.Point(geo.WGS84); ok {
			pos.Points = append(pos.Points, p)
			pos.Zoom = p.Zoom
		}
	}
	if caps, ok := pin.Match(u); ok {
		if p, ok := caps.Point(geo.WGS84); ok {
			pos.Points = append(pos.Points, p)
		}
	}
	if pos.HasPoints() {
		return inputs.Succeeded(pos)
	}
	if caps, ok := search.Match(u); ok {
		pos.Q = caps.Query()
		return inputs.Succeeded(pos)
	}
	return inputs.ParseURIResult{}, false
}
