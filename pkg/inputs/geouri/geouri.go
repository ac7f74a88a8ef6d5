// Package geouri handles RFC 5870 geo: URIs and the Android variant with a
// q parameter.
package geouri

import (
	"regexp"
	"strconv"

	"github.com/sw33tLie/geoshare/pkg/geo"
	"github.com/sw33tLie/geoshare/pkg/inputs"
	"github.com/sw33tLie/geoshare/pkg/pattern"
	"github.com/sw33tLie/geoshare/pkg/uri"
)

var (
	recognizer = inputs.NewRecognizer(`(?i)geo:[^\s]+`)

	scheme = pattern.Scheme(`geo`)

	// "lat,lon", optionally followed by an altitude and ";crs=..;u=.."
	// parameters, which are ignored.
	pathPoint = pattern.Path(pattern.LatLon + `(?:,[\-+]?[\d.]+)?(?:;.*)?`)

	queryPoint = pattern.Query("q", pattern.LatLon+`\s*(?:\((?P<name>.*)\))?`)
	queryText  = pattern.Query("q", pattern.Q)
	queryZoom  = pattern.Query("z", pattern.Zoom)

	coords = regexp.MustCompile(`^` + pattern.LatLon + `$`)
)

// Input handles geo: URIs.
type Input struct{}

// Name implements inputs.Input.
func (Input) Name() string { return "geouri" }

// Documentation implements inputs.Input.
func (Input) Documentation() inputs.Documentation {
	return inputs.Documentation{
		Title:       "geo: URI",
		Description: "Links in the geo: scheme, as used by Android apps and RFC 5870.",
		Examples: []string{
			"geo:52.47254,13.4345",
			"geo:52.47254,13.4345?z=11",
			"geo:0,0?q=52.47254,13.4345(Tempelhofer Feld)",
			"geo:0,0?q=Tempelhofer+Feld",
		},
	}
}

// Recognize implements inputs.Input.
func (Input) Recognize(text string) (string, bool) { return recognizer.Recognize(text) }

// ParseURI implements inputs.Input. Coordinates in q replace those in the
// path, and "0,0" in the path means no point at all. With a point, q holds
// either the point's label or a search text, z applies to both the point and
// the position, and the query and zoom parameters written by geoshare carry
// the position's own search text and zoom when they differ.
func (Input) ParseURI(u uri.URI) (inputs.ParseURIResult, bool) {
	if _, ok := scheme.Match(u); !ok {
		return inputs.ParseURIResult{}, false
	}

	var zoom float64
	if caps, ok := queryZoom.Match(u); ok {
		zoom = caps.Zoom()
	}

	var (
		p     geo.Point
		found bool
	)
	if caps, ok := queryPoint.Match(u); ok {
		p, found = caps.Point(geo.WGS84)
	}
	if !found {
		if caps, ok := pathPoint.Match(u); ok {
			p, found = caps.Point(geo.WGS84)
			if found && p.Lat == 0 && p.Lon == 0 {
				found = false
			}
		}
	}

	text := ""
	if caps, ok := queryText.Match(u); ok {
		if q := caps.Query(); !coords.MatchString(q) && !labelled.MatchString(q) {
			text = q
		}
	}

	if !found {
		if text == "" {
			return inputs.ParseURIResult{}, false
		}
		return inputs.Succeeded(geo.Position{Q: text, Zoom: zoom})
	}

	p.Zoom = zoom
	pos := geo.Position{Points: []geo.Point{p}, Q: text, Zoom: zoom}
	if q, ok := u.Query.Lookup(paramQuery); ok {
		pos.Q = q
	}
	if z, ok := u.Query.Lookup(paramZoom); ok {
		pos.Zoom = parseZoom(z)
		if zoom == pos.Zoom {
			pos.Points[0].Zoom = 0
		}
	}
	return inputs.Succeeded(pos)
}

// Parameters other apps ignore. They are only written when q and z cannot
// tell the position's search text and zoom apart from the point's.
const (
	paramQuery = "query"
	paramZoom  = "zoom"
)

var labelled = regexp.MustCompile(`^` + pattern.LatLon + `\s*\(.*\)$`)

// parseZoom reads an explicit default zoom, where 0 means none.
func parseZoom(s string) float64 {
	z, err := strconv.ParseFloat(s, 64)
	if err != nil || z <= 0 {
		return 0
	}
	return pattern.ClampZoom(z)
}
