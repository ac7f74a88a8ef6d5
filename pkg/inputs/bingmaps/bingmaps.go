// Package bingmaps recognises bing.com/maps links.
package bingmaps

import (
	"github.com/sw33tLie/geoshare/pkg/geo"
	"github.com/sw33tLie/geoshare/pkg/inputs"
	"github.com/sw33tLie/geoshare/pkg/pattern"
	"github.com/sw33tLie/geoshare/pkg/uri"
)

var (
	recognizer = inputs.NewRecognizer(`(?i)(?:https?://)?(?:www\.)?bing\.com/maps\S*`)

	host = pattern.All(pattern.Host(`(?:www\.)?bing\.com`), pattern.Path(`/maps/?.*`))

	// "cp=lat~lon" is the map view.
	center = pattern.Query("cp", pattern.Lat+`~`+pattern.Lon)

	// "sp=point.lat_lon_name" is a pin. Routes list their stops in rtp
	// separated by '~'; the last one is the destination.
	pin = pattern.First(
		pattern.Query("sp", `(?:.*~)?point\.`+pattern.Lat+`_`+pattern.Lon+`(?:_(?P<name>[^_~]*))?(?:_[^~]*)?`),
		pattern.Query("rtp", `.*~pos\.`+pattern.Lat+`_`+pattern.Lon+`(?:_(?P<name>[^_~]*))?(?:_[^~]*)?`),
		pattern.Query("q", pattern.LatLon),
		pattern.Query("where1", pattern.LatLon),
	)

	zoom = pattern.Query("lvl", pattern.Zoom)

	text = pattern.First(
		pattern.Query("q", pattern.Q),
		pattern.Query("where1", pattern.Q),
	)
)

// Input handles Bing Maps links.
type Input struct{}

// Name implements inputs.Input.
func (Input) Name() string { return "bingmaps" }

// Documentation implements inputs.Input.
func (Input) Documentation() inputs.Documentation {
	return inputs.Documentation{
		Title: "Bing Maps",
		Examples: []string{
			"https://www.bing.com/maps?cp=52.5163~13.3777&lvl=16",
			"https://www.bing.com/maps?sp=point.52.5163_13.3777_Brandenburger%20Tor",
			"https://www.bing.com/maps?q=Brandenburger+Tor",
		},
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
	if caps, ok := center.Match(u); ok {
		if p, ok := caps.Point(geo.WGS84); ok {
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

	if caps, ok := text.Match(u); ok {
		if q := caps.Query(); q != "" {
			pos.Q = q
			return inputs.Succeeded(pos)
		}
	}
	return inputs.ParseURIResult{}, false
}
