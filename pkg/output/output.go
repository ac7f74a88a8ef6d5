// Package output renders a converted position as links for other map
// services, a geo: URI, GPX, JSON or plain text.
package output

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sw33tLie/geoshare/pkg/geo"
	"github.com/sw33tLie/geoshare/pkg/uri"
)

// Format names an output.
type Format string

const (
	FormatGeoURI     Format = "geo"
	FormatGoogle     Format = "google"
	FormatApple      Format = "apple"
	FormatMagicEarth Format = "magicearth"
	FormatOSM        Format = "osm"
	FormatGPX        Format = "gpx"
	FormatJSON       Format = "json"
	FormatText       Format = "text"
)

// Formats lists every format in the order they are offered.
var Formats = []Format{FormatGeoURI, FormatGoogle, FormatApple, FormatMagicEarth, FormatOSM, FormatGPX, FormatJSON, FormatText}

var (
	// ErrUnknownFormat is returned for a format not in Formats.
	ErrUnknownFormat = errors.New("unknown output format")
	// ErrEmptyPosition is returned when there is nothing to render.
	ErrEmptyPosition = errors.New("position has neither points nor a name")
)

// ParseFormat accepts a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Render renders pos in format f.
func Render(f Format, pos geo.Position) (string, error) {
	if pos.Empty() {
		return "", ErrEmptyPosition
	}
	switch f {
	case FormatGeoURI:
		return GeoURI(pos), nil
	case FormatGoogle:
		return GoogleMaps(pos), nil
	case FormatApple:
		return AppleMaps(pos), nil
	case FormatMagicEarth:
		return MagicEarth(pos), nil
	case FormatOSM:
		return OpenStreetMap(pos), nil
	case FormatGPX:
		return GPX(pos)
	case FormatJSON:
		return JSON(pos)
	case FormatText:
		return Text(pos), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}

// mainPoint returns the main point converted with conv, the name to show and
// the zoom rounded to an integer.
func mainPoint(pos geo.Position, conv func(geo.Point) geo.Point) (geo.Point, bool, string, int) {
	zoom := int(pos.EffectiveZoom() + 0.5)
	p, ok := pos.MainPoint()
	if !ok {
		return geo.Point{}, false, pos.Q, zoom
	}
	p = conv(p)
	name := p.Name
	if name == "" {
		name = pos.Q
	}
	return p, true, name, zoom
}

func link(base string, q uri.Query, fragment string) string {
	u, err := uri.Parse(base, uri.ReadableCodec)
	if err != nil {
		return base
	}
	u.Query = q
	u.Fragment = fragment
	return u.String(uri.ReadableCodec)
}

func param(q uri.Query, key, value string) uri.Query {
	if value == "" {
		return q
	}
	return append(q, uri.Param{Key: key, Value: value})
}

func zoomParam(q uri.Query, key string, zoom int) uri.Query {
	if zoom <= 0 {
		return q
	}
	return param(q, key, fmt.Sprint(zoom))
}

// Text returns the main point as "lat, lon", followed by its name.
func Text(pos geo.Position) string {
	p, ok, name, _ := mainPoint(pos, geo.Point.AsWGS84)
	if !ok {
		return name
	}
	s := geo.FormatCoord(p.Lat) + ", " + geo.FormatCoord(p.Lon)
	if name != "" {
		s += " (" + name + ")"
	}
	return s
}
