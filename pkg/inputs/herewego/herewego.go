// Package herewego recognises HERE WeGo links.
package herewego

import (
	"github.com/sw33tLie/geoshare/pkg/geo"
	"github.com/sw33tLie/geoshare/pkg/inputs"
	"github.com/sw33tLie/geoshare/pkg/pattern"
	"github.com/sw33tLie/geoshare/pkg/uri"
)

var (
	recognizer = inputs.NewRecognizer(`(?i)(?:https?://)?(?:wego\.here\.com|share\.here\.com|here\.com)/\S*`)

	host = pattern.Host(`(?:wego\.|share\.)?here\.com`)

	// "?map=lat,lon,zoom,normal" is the map view.
	view = pattern.Query("map", pattern.LatLon+`(?:,`+pattern.Zoom+`)?(?:,.*)?`)

	pin = pattern.First(
		// share.here.com/l/lat,lon,Name
		pattern.Path(`/l/`+pattern.LatLon+`(?:,(?P<name>[^/?]*))?/?`),
		// Route stops are "name:lat,lon" segments; the last one is the
		// destination.
		pattern.Path(`/directions/[^/]+(?:/[^/]*)*/(?P<name>[^/:]*):`+pattern.LatLon+`(?:,.*)?`),
		// Places: /p/<id>?map=... carries no point, a "ll" parameter does.
		pattern.Query("ll", pattern.LatLon),
	)

	zoom = pattern.Query("z", pattern.Zoom)

	search = pattern.First(
		pattern.Path(`/search/(?P<q>[^/]+)/?`),
		pattern.Query("q", pattern.Q),
	)
)

// Input handles HERE WeGo links.
type Input struct{}

// Name implements inputs.Input.
func (Input) Name() string { return "herewego" }

// Documentation implements inputs.Input.
func (Input) Documentation() inputs.Documentation {
	return inputs.Documentation{
		Title: "HERE WeGo",
		Examples: []string{
			"https://wego.here.com/?map=52.5163,13.3777,16,normal",
			"https://share.here.com/l/52.5163,13.3777,Brandenburger%20Tor?z=16",
			"https://wego.here.com/directions/drive/start:52.5,13.4/Tor:52.5163,13.3777",
		},
	}
}

// Recognize implements inputs.Input.
func (Input) Recognize(text string) (string, bool) { return recognizer.Recognize(text) }

// ParseURI implements inputs.Input.
func (Input) ParseURI(u uri.URI) (inputs.ParseURIResult, bool) {
	if _, ok := host.Match(u); !ok {
		return inputs.ParseURIResult{}, false
	}

	var pos geo.Position
	if caps, ok := zoom.Match(u); ok {
		pos.Zoom = caps.Zoom()
	}
	if caps, ok := view.Match(u); ok {
		if p, ok := caps.Point(geo.WGS84); ok {
			pos.Points = append(pos.Points, p)
			if p.Zoom != 0 {
				pos.Zoom = p.Zoom
			}
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
		if q := caps.Query(); q != "" {
			pos.Q = q
			return inputs.Succeeded(pos)
		}
	}
	return inputs.ParseURIResult{}, false
}
