// Package waze recognises waze.com links, including the geohash links of the
// form waze.com/ul/h<geohash> and venue links resolved from the live map.
package waze

import (
	"io"
	"strings"

	"github.com/mmcloughlin/geohash"
	"github.com/sw33tLie/geoshare/pkg/geo"
	"github.com/sw33tLie/geoshare/pkg/inputs"
	"github.com/sw33tLie/geoshare/pkg/inputs/htmlscan"
	"github.com/sw33tLie/geoshare/pkg/pattern"
	"github.com/sw33tLie/geoshare/pkg/uri"
)

const geohashAlphabet = "0123456789bcdefghjkmnpqrstuvwxyz"

var (
	recognizer = inputs.NewRecognizer(`(?i)(?:https?://)?(?:www\.|ul\.)?waze\.com/\S*`)

	host = pattern.Host(`(?:www\.|ul\.)?waze\.com`)

	pin = pattern.First(
		pattern.Query("ll", pattern.LatLon),
		pattern.Query("to", `ll\.`+pattern.LatLon),
		pattern.Query("latlng", pattern.LatLon),
	)

	geohashLink = pattern.Path(`(?:/[a-z]{2})?/ul/h(?P<hash>[` + geohashAlphabet + `]{1,12})/?`)

	zoom = pattern.Query("zoom", pattern.Zoom)

	search = pattern.Query("q", pattern.Q)

	venue = pattern.First(
		pattern.Query("venue_id", `[\w.\-]+`),
		pattern.Query("place", `[\w.\-]+`),
		pattern.Query("to", `place\..+`),
	)
)

// Input handles Waze links.
type Input struct{}

// Name implements inputs.Input.
func (Input) Name() string { return "waze" }

// Documentation implements inputs.Input.
func (Input) Documentation() inputs.Documentation {
	return inputs.Documentation{
		Title: "Waze",
		Examples: []string{
			"https://waze.com/ul?ll=52.5163,13.3777&navigate=yes&zoom=17",
			"https://waze.com/ul/hu33db2m3e",
			"https://www.waze.com/live-map/directions?to=ll.52.5163%2C13.3777",
			"https://ul.waze.com/ul?venue_id=123.456.789",
		},
		HTML: true,
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
	if caps, ok := geohashLink.Match(u); ok {
		if p, ok := DecodeGeohash(caps["hash"]); ok {
			pos.Points = append(pos.Points, p)
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
	}
	if _, ok := venue.Match(u); ok {
		return inputs.SucceededRequiresHTML(pos, u.String(nil))
	}
	if pos.Q != "" {
		return inputs.Succeeded(pos)
	}
	return inputs.ParseURIResult{}, false
}

// ParseHTML implements inputs.HTMLParser. The live map embeds the venue as
// JSON with a latLng object.
func (Input) ParseHTML(r io.Reader, fromURI geo.Position, log inputs.Logger) (inputs.ParseHTMLResult, bool) {
	var (
		p     geo.Point
		found bool
	)
	_, err := htmlscan.Lines(r, func(line string) bool {
		if strings.Contains(line, `"latLng"`) {
			p, found = htmlscan.JSONPoint(line, `"latLng":`, "lat", "lng", geo.WGS84)
		}
		if !found {
			p, found = htmlscan.JSONLDPoint(line)
		}
		return found
	})
	if err != nil {
		log.Warnf("waze: reading page: %v", err)
	}
	if !found {
		return inputs.ParseHTMLResult{}, false
	}
	if p.Name == "" {
		p.Name = fromURI.Q
	}
	log.Debugf("waze: found %v in page", p)
	return inputs.HTMLSucceeded(geo.Position{Q: fromURI.Q, Zoom: fromURI.Zoom}.Merge(geo.NewPosition(p)))
}

// DecodeGeohash returns the center of the geohash cell.
func DecodeGeohash(hash string) (geo.Point, bool) {
	if hash == "" || geohash.Validate(hash) != nil {
		return geo.Point{}, false
	}
	lat, lon := geohash.DecodeCenter(hash)
	return geo.NewPoint(geo.WGS84, lat, lon), true
}
