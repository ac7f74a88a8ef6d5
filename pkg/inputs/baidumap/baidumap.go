// Package baidumap recognises Baidu Maps links. The web map writes BD09MC,
// Baidu's projected system, as "@x,y,zoomz"; the API links carry BD09,
// GCJ02 or WGS84 latitude and longitude depending on coord_type.
package baidumap

import (
	"net/http"
	"strconv"

	"github.com/sw33tLie/geoshare/pkg/geo"
	"github.com/sw33tLie/geoshare/pkg/inputs"
	"github.com/sw33tLie/geoshare/pkg/pattern"
	"github.com/sw33tLie/geoshare/pkg/uri"
)

var (
	recognizer = inputs.NewRecognizer(`(?i)(?:https?://)?(?:map|api\.map|j\.map|ditu)\.baidu\.com/\S*`)

	shortLinks = inputs.NewShortLinks(`j\.map\.baidu\.com/[A-Za-z0-9/_\-]+`, http.MethodHead)

	host = pattern.Host(`(?:map|api\.map|j\.map|ditu)\.baidu\.com`)

	// Mercator meters: up to nine integer digits.
	mercator = `(?P<x>-?\d{1,9}(?:\.\d+)?),(?P<y>-?\d{1,9}(?:\.\d+)?)(?:,` + pattern.Zoom + `z)?`

	view = pattern.Path(`(?:/.*)?/@` + mercator + `.*`)

	name = pattern.First(
		pattern.Path(`/(?:poi|search)/(?P<name>[^/@]+)/.*`),
		pattern.Query("title", pattern.Name),
		pattern.Query("name", pattern.Name),
	)

	// BD09 unless coord_type says otherwise.
	latLng = pattern.First(
		pattern.Query("latlng", pattern.LatLon),
		pattern.Query("location", pattern.LatLon),
	)

	coordType = pattern.Query("coord_type", `(?P<type>[a-z0-9]+)`)

	search = pattern.First(
		pattern.Query("wd", pattern.Q),
		pattern.Query("query", pattern.Q),
	)
)

// Input handles Baidu Maps links.
type Input struct{}

// Name implements inputs.Input.
func (Input) Name() string { return "baidumap" }

// Documentation implements inputs.Input.
func (Input) Documentation() inputs.Documentation {
	return inputs.Documentation{
		Title: "Baidu Map",
		Examples: []string{
			"https://map.baidu.com/@12959238.56,4825347.47,17z",
			"https://map.baidu.com/poi/天安门/@12959238.56,4825347.47,17z",
			"https://api.map.baidu.com/marker?location=39.915,116.404&title=天安门&coord_type=bd09ll",
		},
		ShortLinks: []string{"https://j.map.baidu.com/..."},
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
	if caps, ok := view.Match(u); ok {
		x, errX := strconv.ParseFloat(caps["x"], 64)
		y, errY := strconv.ParseFloat(caps["y"], 64)
		if errX == nil && errY == nil {
			p := geo.NewPoint(geo.BD09MC, y, x)
			p.Zoom = caps.Zoom()
			pos.Points = append(pos.Points, p)
			pos.Zoom = p.Zoom
		}
	}
	if caps, ok := latLng.Match(u); ok {
		if p, ok := caps.Point(geo.WGS84); ok {
			ct := ""
			if c, ok := coordType.Match(u); ok {
				ct = c["type"]
			}
			switch ct {
			case "wgs84":
			case "gcj02":
				p.SRS = geo.GCJ02
			default:
				p = geo.NewBD09Point(p.Lat, p.Lon)
			}
			pos.Points = append(pos.Points, p)
		}
	}

	label := ""
	if caps, ok := name.Match(u); ok {
		label = caps.Name()
	}
	if pos.HasPoints() {
		if label != "" {
			last := len(pos.Points) - 1
			pos.Points[last] = pos.Points[last].WithName(label)
		}
		return inputs.Succeeded(pos)
	}
	if caps, ok := search.Match(u); ok {
		label = caps.Query()
	}
	if label == "" {
		return inputs.ParseURIResult{}, false
	}
	pos.Q = label
	return inputs.Succeeded(pos)
}
