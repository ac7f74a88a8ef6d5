// Package openstreetmap recognises openstreetmap.org links, osm.org/go
// short links, which are decoded locally, and node links, which are looked
// up through the OSM API.
package openstreetmap

import (
	"io"
	"regexp"
	"strings"

	"github.com/sw33tLie/geoshare/pkg/geo"
	"github.com/sw33tLie/geoshare/pkg/inputs"
	"github.com/sw33tLie/geoshare/pkg/inputs/htmlscan"
	"github.com/sw33tLie/geoshare/pkg/pattern"
	"github.com/sw33tLie/geoshare/pkg/uri"
)

// APIBase is where node coordinates are fetched from.
var APIBase = "https://www.openstreetmap.org/api/0.6"

var (
	recognizer = inputs.NewRecognizer(`(?i)(?:https?://)?(?:www\.)?(?:openstreetmap\.org|osm\.org)[/?#]\S*`)

	host = pattern.Host(`(?:www\.)?(?:openstreetmap\.org|osm\.org)`)

	// "#map=16/52.5163/13.3777", optionally followed by more parameters.
	view = pattern.Fragment(`map=` + pattern.Zoom + `/` + pattern.Lat + `/` + pattern.Lon + `(?:&.*)?`)

	marker = pattern.First(
		pattern.All(pattern.Query("mlat", pattern.Lat), pattern.Query("mlon", pattern.Lon)),
		pattern.Query("route", `(?:.*;)?`+pattern.LatLon),
		pattern.All(pattern.Query("lat", pattern.Lat), pattern.Query("lon", pattern.Lon)),
	)

	zoom = pattern.Query("zoom", pattern.Zoom)

	search = pattern.Query("query", pattern.Q)

	shortCode = pattern.Path(`/go/(?P<code>[A-Za-z0-9_~@]+-{0,2})`)

	node = pattern.Path(`/node/(?P<id>\d+)/?`)
)

// Input handles OpenStreetMap links.
type Input struct{}

// Name implements inputs.Input.
func (Input) Name() string { return "openstreetmap" }

// Documentation implements inputs.Input.
func (Input) Documentation() inputs.Documentation {
	return inputs.Documentation{
		Title: "OpenStreetMap",
		Examples: []string{
			"https://www.openstreetmap.org/#map=16/52.5163/13.3777",
			"https://www.openstreetmap.org/?mlat=52.5163&mlon=13.3777#map=16/52.5163/13.3777",
			"https://osm.org/go/0MbFCmNp",
			"https://www.openstreetmap.org/node/240109189",
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
	if caps, ok := view.Match(u); ok {
		if p, ok := caps.Point(geo.WGS84); ok {
			pos.Points = append(pos.Points, p)
			pos.Zoom = p.Zoom
		}
	}
	if caps, ok := shortCode.Match(u); ok {
		if p, ok := DecodeShortCode(caps["code"]); ok {
			pos.Points = append(pos.Points, p)
			pos.Zoom = p.Zoom
		}
	}
	if caps, ok := marker.Match(u); ok {
		if p, ok := caps.Point(geo.WGS84); ok {
			pos.Points = append(pos.Points, p)
		}
	}
	if pos.HasPoints() {
		return inputs.Succeeded(pos)
	}

	if caps, ok := node.Match(u); ok {
		return inputs.SucceededRequiresHTML(pos, APIBase+"/node/"+caps["id"])
	}
	if caps, ok := search.Match(u); ok {
		pos.Q = caps.Query()
		return inputs.Succeeded(pos)
	}
	return inputs.ParseURIResult{}, false
}

var (
	nodeLine = regexp.MustCompile(`<node\s[^>]*\blat="(?P<lat>-?\d{1,2}(?:\.\d+)?)"[^>]*\blon="(?P<lon>-?\d{1,3}(?:\.\d+)?)"`)
	nameTag  = regexp.MustCompile(`<tag\s+k="name"\s+v="([^"]*)"`)
)

// ParseHTML implements inputs.HTMLParser. The body is the API's XML, which
// puts the node attributes on one line and its tags on the following ones.
func (Input) ParseHTML(r io.Reader, fromURI geo.Position, log inputs.Logger) (inputs.ParseHTMLResult, bool) {
	var (
		p     geo.Point
		found bool
	)
	_, err := htmlscan.Lines(r, func(line string) bool {
		if !found {
			p, found = htmlscan.FindPoint(nodeLine, line, geo.WGS84)
			return false
		}
		if m := nameTag.FindStringSubmatch(line); m != nil {
			p.Name = htmlscan.Unescape(m[1])
			return true
		}
		return strings.Contains(line, "</node>")
	})
	if err != nil {
		log.Warnf("openstreetmap: reading node: %v", err)
	}
	if !found {
		return inputs.ParseHTMLResult{}, false
	}
	if p.Name == "" {
		p.Name = fromURI.Q
	}
	return inputs.HTMLSucceeded(geo.Position{Zoom: fromURI.Zoom}.Merge(geo.NewPosition(p)))
}

const shortCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_~"

// DecodeShortCode decodes the code of an osm.org/go/ link. Each character
// carries three interleaved bits of longitude and latitude; every trailing
// '-' lowers the zoom by one step of a third.
func DecodeShortCode(code string) (geo.Point, bool) {
	var x, y uint64
	z, offset := 0, 0
	for _, c := range code {
		if c == '@' {
			c = '~'
		}
		t := strings.IndexRune(shortCodeAlphabet, c)
		if t < 0 {
			offset--
			continue
		}
		if z >= 30 {
			return geo.Point{}, false
		}
		for i := 0; i < 3; i++ {
			x <<= 1
			if t&32 != 0 {
				x |= 1
			}
			t <<= 1
			y <<= 1
			if t&32 != 0 {
				y |= 1
			}
			t <<= 1
		}
		z += 3
	}
	if z == 0 {
		return geo.Point{}, false
	}
	x <<= uint(32 - z)
	y <<= uint(32 - z)
	lon := float64(x)*360/(1<<32) - 180
	lat := float64(y)*180/(1<<32) - 90
	zoom := z - 8 - ((offset%3)+3)%3
	p := geo.NewPoint(geo.WGS84, lat, lon)
	p.Zoom = pattern.ClampZoom(float64(zoom))
	return p, true
}
