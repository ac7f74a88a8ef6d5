// Package magicearth recognises Magic Earth share links and the
// magicearth:// app scheme.
package magicearth

import (
	"github.com/sw33tLie/geoshare/pkg/geo"
	"github.com/sw33tLie/geoshare/pkg/inputs"
	"github.com/sw33tLie/geoshare/pkg/pattern"
	"github.com/sw33tLie/geoshare/pkg/uri"
)

var (
	recognizer = inputs.NewRecognizer(`(?i)(?:(?:https?://)?(?:www\.)?magicearth\.com/|magicearth://)\S*`)

	origin = pattern.First(
		pattern.Host(`(?:www\.)?magicearth\.com`),
		pattern.Scheme(`magicearth`),
	)

	pin = pattern.All(pattern.Query("lat", pattern.Lat), pattern.Query("lon", pattern.Lon))

	zoom = pattern.Query("zoom", pattern.Zoom)

	name = pattern.First(
		pattern.Query("name", pattern.Name),
		pattern.Query("q", pattern.Q),
	)
)

// Input handles Magic Earth links.
type Input struct{}

// Name implements inputs.Input.
func (Input) Name() string { return "magicearth" }

// Documentation implements inputs.Input.
func (Input) Documentation() inputs.Documentation {
	return inputs.Documentation{
		Title: "Magic Earth",
		Examples: []string{
			"https://magicearth.com/?show_on_map&lat=48.85649&lon=2.35216&name=Notre-Dame&img_id=12345",
			"magicearth://?drive_to&lat=48.85649&lon=2.35216",
			"https://magicearth.com/?q=Notre-Dame",
		},
	}
}

// Recognize implements inputs.Input.
func (Input) Recognize(text string) (string, bool) { return recognizer.Recognize(text) }

// ParseURI implements inputs.Input.
func (Input) ParseURI(u uri.URI) (inputs.ParseURIResult, bool) {
	if _, ok := origin.Match(u); !ok {
		return inputs.ParseURIResult{}, false
	}
	caps, _ := pattern.Optional(pin, zoom, name).Match(u)
	pos := caps.Position(geo.WGS84)
	if pos.HasPoints() {
		// The zoom belongs to the view, not the pin.
		pos.Points[0].Zoom = 0
	}
	if pos.Empty() {
		return inputs.ParseURIResult{}, false
	}
	return inputs.Succeeded(pos)
}
