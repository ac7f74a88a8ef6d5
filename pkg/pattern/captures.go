package pattern

import (
	"math"
	"strconv"
	"strings"

	"github.com/sw33tLie/geoshare/pkg/geo"
	"github.com/sw33tLie/geoshare/pkg/uri"
)

// Group names the numeric fragments below capture into.
const (
	GroupLat  = "lat"
	GroupLon  = "lon"
	GroupZoom = "z"
	GroupQ    = "q"
	GroupName = "name"
)

// Regular expression fragments shared by the inputs. Latitudes allow one or
// two integer digits and longitudes up to three, both with at most 17
// fractional digits, so that other numbers in a link are not taken for
// coordinates.
const (
	Sign    = `[\-+−]?`
	LatNum  = Sign + `\d{1,2}(?:\.\d{1,17})?`
	LonNum  = Sign + `\d{1,3}(?:\.\d{1,17})?`
	ZoomNum = `\d{1,2}(?:\.\d{1,16})?`

	Lat  = `(?P<lat>` + LatNum + `)`
	Lon  = `(?P<lon>` + LonNum + `)`
	Zoom = `(?P<z>` + ZoomNum + `)`

	// LatLon is "lat,lon" with optional whitespace after the comma.
	LatLon = Lat + `,\s*` + Lon
	// LonLat is "lon,lat", the order Yandex, 2GIS and Amap use.
	LonLat = Lon + `,\s*` + Lat

	Q    = `(?P<q>.+)`
	Name = `(?P<name>[^/]+)`
	// Any matches anything including nothing.
	Any = `.*`
)

// Captures maps group names to the text they matched.
type Captures map[string]string

// Merge returns a new map with the entries of c overridden by the non-empty
// entries of other.
func (c Captures) Merge(other Captures) Captures {
	out := make(Captures, len(c)+len(other))
	for k, v := range c {
		out[k] = v
	}
	for k, v := range other {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// Point builds a point from the lat and lon groups. The second result is
// false when neither was captured or only one of them was.
func (c Captures) Point(srs geo.SRS) (geo.Point, bool) {
	p, ok, err := geo.PointFromStrings(srs, c[GroupLat], c[GroupLon])
	if err != nil || !ok {
		return geo.Point{}, false
	}
	p.Zoom = c.Zoom()
	if name := c.Name(); name != "" {
		p.Name = name
	}
	return p, true
}

// Zoom returns the clamped z group, or 0 if there is none.
func (c Captures) Zoom() float64 {
	s := c[GroupZoom]
	if s == "" {
		return 0
	}
	z, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return ClampZoom(z)
}

// Query returns the decoded and trimmed q group.
func (c Captures) Query() string {
	return cleanText(c[GroupQ])
}

// Name returns the decoded and trimmed name group.
func (c Captures) Name() string {
	return cleanText(c[GroupName])
}

// Position turns the captures into a position. Without a point the q group,
// or failing that the name group, becomes the search text.
func (c Captures) Position(srs geo.SRS) geo.Position {
	pos := geo.Position{Zoom: c.Zoom()}
	if p, ok := c.Point(srs); ok {
		pos.Points = []geo.Point{p}
		return pos
	}
	if q := c.Query(); q != "" {
		pos.Q = q
	} else {
		pos.Q = c.Name()
	}
	return pos
}

// cleanText decodes text captured from a path, where names are still
// percent-encoded and use '+' for spaces.
func cleanText(s string) string {
	return strings.TrimSpace(uri.DefaultCodec.Decode(s))
}

// ClampZoom rounds z to the nearest integer and clamps it to [1, 21].
func ClampZoom(z float64) float64 {
	z = math.Round(z)
	return math.Max(1, math.Min(21, z))
}
