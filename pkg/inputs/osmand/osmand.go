// Package osmand recognises osmand.net links.
package osmand

import (
	"github.com/sw33tLie/geoshare/pkg/geo"
	"github.com/sw33tLie/geoshare/pkg/inputs"
	"github.com/sw33tLie/geoshare/pkg/pattern"
	"github.com/sw33tLie/geoshare/pkg/uri"
)

var (
	recognizer = inputs.NewRecognizer(`(?i)(?:https?://)?(?:www\.)?osmand\.net/(?:go|map)\S*`)

	host = pattern.All(pattern.Host(`(?:www\.)?osmand\.net`), pattern.Path(`/(?:go|map)(?:\.html)?/?`))

	// "#16/52.5163/13.3777" is the map view.
	view = pattern.Fragment(pattern.Zoom + `/` + pattern.Lat + `/` + pattern.Lon)

	pin = pattern.First(
		pattern.Query("pin", pattern.LatLon),
		pattern.All(pattern.Query("lat", pattern.Lat), pattern.Query("lon", pattern.Lon)),
	)

	zoom = pattern.Query("z", pattern.Zoom)

	name = pattern.Query("name", pattern.Name)
)

// Input handles OsmAnd links.
type Input struct{}

// Name implements inputs.Input.
func (Input) Name() string { return "osmand" }

// Documentation implements inputs.Input.
func (Input) Documentation() inputs.Documentation {
	return inputs.Documentation{
		Title: "OsmAnd",
		Examples: []string{
			"https://osmand.net/go?lat=52.5163&lon=13.3777&z=16",
			"https://osmand.net/map?pin=52.5163,13.3777#16/52.5163/13.3777",
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
			pos.Zoom = p.Zoom
		}
	}
	if caps, ok := pin.Match(u); ok {
		if p, ok := caps.Point(geo.WGS84); ok {
			pos.Points = append(pos.Points, p)
		}
	}
	if !pos.HasPoints() {
		return inputs.ParseURIResult{}, false
	}
	if caps, ok := name.Match(u); ok {
		last := len(pos.Points) - 1
		pos.Points[last] = pos.Points[last].WithName(caps.Name())
	}
	return inputs.Succeeded(pos)
}
