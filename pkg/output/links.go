package output

import (
	"fmt"
	"strconv"

	"github.com/sw33tLie/geoshare/pkg/geo"
	"github.com/sw33tLie/geoshare/pkg/uri"
)

// GeoURI builds "geo:lat,lon?q=lat,lon(name)&z=zoom" for the main point, or
// "geo:0,0?q=name" when there is only a name. Coordinates keep their full
// precision. An unnamed point carries the search text in q instead. When the
// position's own search text or zoom differ from the point's they are added
// as query and zoom parameters, so the geouri input parses the link back to
// the same position.
func GeoURI(pos geo.Position) string {
	p, ok := pos.MainPoint()
	if !ok {
		q := param(nil, "q", pos.Q)
		q = zoomParam(q, "z", int(pos.Zoom+0.5))
		return uri.URI{Scheme: "geo", Path: "0,0", Query: q}.String(uri.ReadableCodec)
	}
	p = p.AsWGS84()
	path := exactCoord(p.Lat) + "," + exactCoord(p.Lon)

	var q uri.Query
	switch {
	case p.Name != "":
		q = param(q, "q", path+"("+p.Name+")")
	case pos.Q != "":
		q = param(q, "q", pos.Q)
	default:
		q = param(q, "q", path)
	}
	zoom := p.Zoom
	if zoom == 0 {
		zoom = pos.Zoom
	}
	q = zoomParam(q, "z", int(zoom+0.5))
	if p.Name != "" {
		q = param(q, "query", pos.Q)
	}
	if pos.Zoom != p.Zoom {
		q = append(q, uri.Param{Key: "zoom", Value: strconv.Itoa(int(pos.Zoom + 0.5))})
	}
	return uri.URI{Scheme: "geo", Path: path, Query: q}.String(uri.ReadableCodec)
}

// exactCoord prints the shortest text that parses back to f.
func exactCoord(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if s == "-0" {
		return "0"
	}
	return s
}

// GoogleMaps links to Google Maps, which expects GCJ02 in mainland China.
func GoogleMaps(pos geo.Position) string {
	p, ok, name, zoom := mainPoint(pos, geo.Point.AsGCJ02)
	if !ok {
		return link("https://www.google.com/maps/search/", param(param(nil, "api", "1"), "query", name), "")
	}
	q := param(nil, "q", p.String())
	q = zoomParam(q, "z", zoom)
	return link("https://www.google.com/maps", q, "")
}

// AppleMaps links to Apple Maps, which also uses GCJ02 in mainland China.
func AppleMaps(pos geo.Position) string {
	p, ok, name, zoom := mainPoint(pos, geo.Point.AsGCJ02)
	if !ok {
		return link("https://maps.apple.com/", param(nil, "q", name), "")
	}
	q := param(nil, "ll", p.String())
	q = param(q, "q", name)
	q = zoomParam(q, "z", zoom)
	return link("https://maps.apple.com/", q, "")
}

// MagicEarth links to Magic Earth, which shows the point on its map.
func MagicEarth(pos geo.Position) string {
	p, ok, name, zoom := mainPoint(pos, geo.Point.AsWGS84)
	q := uri.Query{{Key: "show_on_map"}}
	if !ok {
		q = param(q, "q", name)
		return link("https://magicearth.com/", q, "")
	}
	q = param(q, "lat", geo.FormatCoord(p.Lat))
	q = param(q, "lon", geo.FormatCoord(p.Lon))
	q = param(q, "name", name)
	q = zoomParam(q, "zoom", zoom)
	return link("https://magicearth.com/", q, "")
}

// OpenStreetMap links to openstreetmap.org with a marker on the main point.
func OpenStreetMap(pos geo.Position) string {
	p, ok, name, zoom := mainPoint(pos, geo.Point.AsWGS84)
	if !ok {
		return link("https://www.openstreetmap.org/search", param(nil, "query", name), "")
	}
	if zoom <= 0 {
		zoom = 16
	}
	lat, lon := geo.FormatCoord(p.Lat), geo.FormatCoord(p.Lon)
	q := param(param(nil, "mlat", lat), "mlon", lon)
	return link("https://www.openstreetmap.org/", q, fmt.Sprintf("map=%d/%s/%s", zoom, lat, lon))
}
