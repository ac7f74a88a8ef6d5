// Package mapycz recognises Mapy.cz (Mapy.com) links and their /s/ short
// links.
package mapycz

import (
	"net/http"

	"github.com/sw33tLie/geoshare/pkg/geo"
	"github.com/sw33tLie/geoshare/pkg/inputs"
	"github.com/sw33tLie/geoshare/pkg/pattern"
	"github.com/sw33tLie/geoshare/pkg/uri"
)

var (
	recognizer = inputs.NewRecognizer(`(?i)(?:https?://)?(?:[a-z]{2}\.)?(?:www\.)?mapy\.(?:cz|com)/\S*`)

	shortLinks = inputs.NewShortLinks(`(?:www\.)?mapy\.(?:cz|com)/s/[A-Za-z0-9]+`, http.MethodHead)

	host = pattern.Host(`(?:[a-z]{2}\.)?(?:www\.)?mapy\.(?:cz|com)`)

	view = pattern.All(pattern.Query("x", pattern.Lon), pattern.Query("y", pattern.Lat))

	pin = pattern.First(
		pattern.All(pattern.Query("source", `coor`), pattern.Query("id", pattern.LonLat)),
		pattern.All(pattern.Query("ma_x", pattern.Lon), pattern.Query("ma_y", pattern.Lat)),
	)

	zoom = pattern.Query("z", pattern.Zoom)

	search = pattern.Query("q", pattern.Q)
)

// Input handles Mapy.cz links.
type Input struct{}

// Name implements inputs.Input.
func (Input) Name() string { return "mapycz" }

// Documentation implements inputs.Input.
func (Input) Documentation() inputs.Documentation {
	return inputs.Documentation{
		Title: "Mapy.cz",
		Examples: []string{
			"https://mapy.cz/zakladni?x=14.4212535&y=50.0874654&z=16",
			"https://mapy.com/en/zakladni?source=coor&id=14.4212535%2C50.0874654&x=14.42&y=50.08&z=16",
		},
		ShortLinks: []string{"https://mapy.cz/s/..."},
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
	for _, m := range []pattern.Matcher{view, pin} {
		if caps, ok := m.Match(u); ok {
			if p, ok := caps.Point(geo.WGS84); ok {
				pos.Points = append(pos.Points, p)
			}
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
