// Package yandexmaps recognises Yandex Maps links. Yandex writes
// coordinates as "lon,lat".
package yandexmaps

import (
	"io"
	"net/http"
	"regexp"

	"github.com/sw33tLie/geoshare/pkg/geo"
	"github.com/sw33tLie/geoshare/pkg/inputs"
	"github.com/sw33tLie/geoshare/pkg/inputs/htmlscan"
	"github.com/sw33tLie/geoshare/pkg/pattern"
	"github.com/sw33tLie/geoshare/pkg/uri"
)

const hosts = `(?:www\.)?yandex\.(?:ru|com|com\.tr|by|kz|ua|uz|az|fr)|(?:www\.)?ya\.ru`

var (
	recognizer = inputs.NewRecognizer(`(?i)(?:https?://)?(?:` + hosts + `)/(?:maps|web-maps)\S*`)

	shortLinks = inputs.NewShortLinks(`(?:`+hosts+`)/maps/-/[A-Za-z0-9_\-~]+/?`, http.MethodHead)

	host = pattern.All(pattern.Host(hosts), pattern.Path(`/(?:maps|web-maps)(?:/.*)?`))

	view = pattern.Query("ll", pattern.LonLat)

	pin = pattern.First(
		pattern.Query("pt", `(?:.*~)?`+pattern.LonLat+`(?:,[a-z0-9_]+)?`),
		pattern.Query("whatshere[point]", pattern.LonLat),
		pattern.Query("rtext", `.*~`+pattern.Lat+`,\s*`+pattern.Lon),
	)

	zoom = pattern.First(
		pattern.Query("whatshere[zoom]", pattern.Zoom),
		pattern.Query("z", pattern.Zoom),
	)

	search = pattern.Query("text", pattern.Q)

	org = pattern.Path(`/maps/(?:\d+/[^/]+/)?org/(?:(?P<name>[^/]+)/)?\d+/?.*`)
)

// Input handles Yandex Maps links.
type Input struct{}

// Name implements inputs.Input.
func (Input) Name() string { return "yandexmaps" }

// Documentation implements inputs.Input.
func (Input) Documentation() inputs.Documentation {
	return inputs.Documentation{
		Title: "Yandex Maps",
		Examples: []string{
			"https://yandex.ru/maps/?ll=37.6173,55.7558&z=12",
			"https://yandex.com/maps/?pt=37.6173,55.7558&z=16&l=map",
			"https://yandex.ru/maps/213/moscow/org/kreml/1023322799/",
		},
		ShortLinks: []string{"https://yandex.ru/maps/-/..."},
		HTML:       true,
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
	if caps, ok := view.Match(u); ok {
		if p, ok := caps.Point(geo.WGS84); ok {
			pos.Points = append(pos.Points, p)
		}
	}
	pinned := false
	if caps, ok := pin.Match(u); ok {
		if p, ok := caps.Point(geo.WGS84); ok {
			pos.Points = append(pos.Points, p)
			pinned = true
		}
	}

	// An organisation page knows the exact point; ll is only the view.
	if caps, ok := org.Match(u); ok {
		name := caps.Name()
		if !pinned {
			pos.Q = name
			return inputs.SucceededRequiresHTML(pos, u.String(nil))
		}
		last := len(pos.Points) - 1
		pos.Points[last] = pos.Points[last].WithName(name)
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

var htmlPatterns = []*regexp.Regexp{
	regexp.MustCompile(`"coordinates":\[(?P<lon>-?\d{1,3}\.\d+),(?P<lat>-?\d{1,2}\.\d+)\]`),
	regexp.MustCompile(`data-coordinates="(?P<lon>-?\d{1,3}\.\d+),(?P<lat>-?\d{1,2}\.\d+)"`),
}

// ParseHTML implements inputs.HTMLParser.
func (Input) ParseHTML(r io.Reader, fromURI geo.Position, log inputs.Logger) (inputs.ParseHTMLResult, bool) {
	var (
		p     geo.Point
		found bool
	)
	_, err := htmlscan.Lines(r, func(line string) bool {
		for _, re := range htmlPatterns {
			if p, found = htmlscan.FindPoint(re, line, geo.WGS84); found {
				return true
			}
		}
		return false
	})
	if err != nil {
		log.Warnf("yandexmaps: reading page: %v", err)
	}
	if !found {
		return inputs.ParseHTMLResult{}, false
	}
	p.Name = fromURI.Q
	return inputs.HTMLSucceeded(fromURI.Merge(geo.NewPosition(p)))
}
