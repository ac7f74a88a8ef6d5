// Package geo holds the geographic value types shared by every input and the
// transforms between the spatial reference systems mapping services use.
package geo

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// SRS tags a coordinate pair with the spatial reference system it is in.
type SRS int

const (
	// WGS84 is the system GPS receivers and most map services use.
	WGS84 SRS = iota
	// GCJ02 is the offset system required for map data in mainland China.
	GCJ02
	// BD09MC is Baidu's further offset, Mercator-projected system.
	BD09MC
)

func (s SRS) String() string {
	switch s {
	case WGS84:
		return "WGS84"
	case GCJ02:
		return "GCJ02"
	case BD09MC:
		return "BD09MC"
	default:
		return fmt.Sprintf("SRS(%d)", int(s))
	}
}

// ErrIncompletePoint is returned when only one of latitude and longitude is
// known.
var ErrIncompletePoint = errors.New("point needs both latitude and longitude")

// Point is a single location. Zoom is 0 when unknown. For BD09MC points Lat
// and Lon hold the projected y and x in meters.
type Point struct {
	SRS  SRS
	Lat  float64
	Lon  float64
	Name string
	Zoom float64
}

// NewPoint returns a point without name or zoom.
func NewPoint(srs SRS, lat, lon float64) Point {
	return Point{SRS: srs, Lat: lat, Lon: lon}
}

// PointFromStrings builds a point from captured text. Both strings empty
// yields (Point{}, false, nil); exactly one empty yields ErrIncompletePoint.
func PointFromStrings(srs SRS, lat, lon string) (Point, bool, error) {
	lat = normalizeNumber(lat)
	lon = normalizeNumber(lon)
	if lat == "" && lon == "" {
		return Point{}, false, nil
	}
	if lat == "" || lon == "" {
		return Point{}, false, ErrIncompletePoint
	}
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return Point{}, false, fmt.Errorf("latitude %q: %w", lat, err)
	}
	lo, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return Point{}, false, fmt.Errorf("longitude %q: %w", lon, err)
	}
	return NewPoint(srs, la, lo), true, nil
}

// normalizeNumber accepts the unicode minus and a leading plus sign, both of
// which show up in copied coordinates.
func normalizeNumber(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "−", "-")
	return strings.TrimPrefix(s, "+")
}

// WithName returns a copy of p with the given name.
func (p Point) WithName(name string) Point {
	p.Name = name
	return p
}

// WithZoom returns a copy of p with the given zoom.
func (p Point) WithZoom(z float64) Point {
	p.Zoom = z
	return p
}

// AsWGS84 converts p to WGS84. Name and zoom are kept.
func (p Point) AsWGS84() Point {
	switch p.SRS {
	case GCJ02:
		p.Lat, p.Lon = gcj02ToWGS84(p.Lat, p.Lon)
	case BD09MC:
		p.Lat, p.Lon = bd09mcToGCJ02(p.Lat, p.Lon)
		p.Lat, p.Lon = gcj02ToWGS84(p.Lat, p.Lon)
	}
	p.SRS = WGS84
	return p
}

// AsGCJ02 converts p to GCJ02. Points outside mainland China keep their
// coordinates.
func (p Point) AsGCJ02() Point {
	switch p.SRS {
	case WGS84:
		p.Lat, p.Lon = wgs84ToGCJ02(p.Lat, p.Lon)
	case BD09MC:
		p.Lat, p.Lon = bd09mcToGCJ02(p.Lat, p.Lon)
	}
	p.SRS = GCJ02
	return p
}

// AsBD09MC converts p to Baidu Mercator coordinates.
func (p Point) AsBD09MC() Point {
	switch p.SRS {
	case WGS84:
		p.Lat, p.Lon = wgs84ToGCJ02(p.Lat, p.Lon)
		p.Lat, p.Lon = gcj02ToBD09MC(p.Lat, p.Lon)
	case GCJ02:
		p.Lat, p.Lon = gcj02ToBD09MC(p.Lat, p.Lon)
	}
	p.SRS = BD09MC
	return p
}

// String formats the coordinates the way they are usually shared.
func (p Point) String() string {
	return FormatCoord(p.Lat) + "," + FormatCoord(p.Lon)
}

// FormatCoord prints a coordinate with up to seven decimals and no
// trailing zeros.
func FormatCoord(f float64) string {
	s := strconv.FormatFloat(f, 'f', 7, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}

// NewBD09Point projects Baidu's BD09 latitude and longitude into a BD09MC
// point, the only Baidu system points are kept in.
func NewBD09Point(lat, lon float64) Point {
	y, x := bd09ToBD09MC(lat, lon)
	return NewPoint(BD09MC, y, x)
}
