// Package googlemaps recognises Google Maps links, including maps.app.goo.gl
// short links and place links that only carry a name.
//
// Google serves GCJ02 coordinates for mainland China, so every point is
// tagged GCJ02; outside China the tag makes no difference.
package googlemaps

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

const srs = geo.GCJ02

var (
	recognizer = inputs.NewRecognizer(`(?i)(?:https?://)?(?:` +
		`(?:www\.|maps\.)?google(?:\.[a-z]{2,3}){1,2}/maps\S*|` +
		`maps\.google(?:\.[a-z]{2,3}){1,2}\S*|` +
		`(?:maps\.app\.goo\.gl|app\.goo\.gl|goo\.gl/maps|g\.co/kgs)/\S+)`)

	shortLinks = inputs.NewShortLinks(`(?:maps\.app\.goo\.gl|app\.goo\.gl)/[A-Za-z0-9_\-?=&]+|goo\.gl/maps/[A-Za-z0-9_\-]+|g\.co/kgs/[A-Za-z0-9_\-]+`, http.MethodHead)

	host = pattern.Host(`(?:www\.|maps\.)?google(?:\.[a-z]{2,3}){1,2}`)

	// Map view: "@lat,lon,11z" anywhere in the path. The zoom is kept as the
	// position default even when a place point wins.
	center = pattern.Path(`.*/@` + pattern.LatLon + `(?:,` + pattern.Zoom + `z)?` + pattern.Any)

	// Coordinates given as a path segment.
	pathPoint = pattern.First(
		pattern.Path(`/maps/(?:place|search)/` + pattern.LatLon + `(?:/.*)?`),
		pattern.Path(`/maps/dir/(?:[^/]*/)*` + pattern.LatLon + `(?:/.*)?`),
	)

	// Query parameters, most specific first.
	queryPoint = pattern.First(
		pattern.Query("destination", pattern.LatLon),
		pattern.Query("daddr", pattern.LatLon),
		pattern.Query("q", `(?:loc:)?`+pattern.LatLon+`(?:\s*\(.*\))?`),
		pattern.Query("query", pattern.LatLon),
		pattern.Query("ll", pattern.LatLon),
		pattern.Query("sll", pattern.LatLon),
		pattern.Query("center", pattern.LatLon),
		pattern.Query("viewpoint", pattern.LatLon),
	)

	// The place pin encoded in the data segment: "!3d52.5!4d13.4".
	dataPoint = pattern.Path(`.*/data=.*!3d` + pattern.Lat + `!4d` + pattern.Lon + pattern.Any)

	queryZoom = pattern.Query("z", pattern.Zoom)

	queryText = pattern.First(
		pattern.Query("q", pattern.Q),
		pattern.Query("query", pattern.Q),
		pattern.Query("destination", pattern.Q),
		pattern.Query("daddr", pattern.Q),
	)

	pathName = pattern.First(
		pattern.Path(`/maps/place/` + pattern.Name + `(?:/.*)?`),
		pattern.Path(`/maps/search/` + pattern.Name + `(?:/.*)?`),
		pattern.Path(`/maps/dir/(?:[^/]*/)*` + pattern.Name + `/@.*`),
	)

	// Coordinates and place ids are not names.
	notAName = regexp.MustCompile(`^(?:(?:loc:)?` + pattern.LatLon + `(?:\s*\(.*\))?|place_id:.*)$`)

	// Links without coordinates that only the page can resolve.
	placeID = pattern.First(pattern.Query("cid", `\d+`), pattern.Query("ftid", pattern.Any), pattern.Query("q", `place_id:.+`))
)

// Input handles Google Maps links.
type Input struct{}

// Name implements inputs.Input.
func (Input) Name() string { return "googlemaps" }

// Documentation implements inputs.Input.
func (Input) Documentation() inputs.Documentation {
	return inputs.Documentation{
		Title: "Google Maps",
		Examples: []string{
			"https://www.google.com/maps/@52.5067296,13.2599309,11z",
			"https://www.google.com/maps/place/Berlin/@52.5,13.4,11z/data=!3d52.52!4d13.405",
			"https://maps.google.com/?q=52.5,13.4",
			"https://www.google.com/maps/dir/?api=1&destination=52.5,13.4",
			"https://www.google.com/maps/search/Brandenburger+Tor",
		},
		ShortLinks: []string{"https://maps.app.goo.gl/...", "https://goo.gl/maps/...", "https://g.co/kgs/..."},
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
	if caps, ok := center.Match(u); ok {
		if p, ok := caps.Point(srs); ok {
			pos.Points = append(pos.Points, p)
		}
		pos.Zoom = caps.Zoom()
	}
	if caps, ok := queryZoom.Match(u); ok && pos.Zoom == 0 {
		pos.Zoom = caps.Zoom()
	}
	if caps, ok := pathPoint.Match(u); ok {
		if p, ok := caps.Point(srs); ok {
			pos.Points = append(pos.Points, p)
		}
	}
	if caps, ok := queryPoint.Match(u); ok {
		if p, ok := caps.Point(srs); ok {
			pos.Points = append(pos.Points, p)
		}
	}
	if caps, ok := dataPoint.Match(u); ok {
		if p, ok := caps.Point(srs); ok {
			pos.Points = append(pos.Points, p)
		}
	}

	name := ""
	if caps, ok := pathName.Match(u); ok {
		name = caps.Name()
	}
	if caps, ok := queryText.Match(u); ok && name == "" {
		name = caps.Query()
	}
	if notAName.MatchString(name) {
		name = ""
	}

	if len(pos.Points) > 0 {
		if name != "" {
			last := len(pos.Points) - 1
			pos.Points[last] = pos.Points[last].WithName(name)
		}
		return inputs.Succeeded(pos)
	}

	link := u.String(nil)
	if name != "" {
		pos.Q = name
		return inputs.SucceededRequiresHTML(pos, link)
	}
	if _, ok := placeID.Match(u); ok {
		return inputs.SucceededRequiresHTML(pos, link)
	}
	return inputs.ParseURIResult{}, false
}

var (
	htmlPatterns = []*regexp.Regexp{
		regexp.MustCompile(`APP_INITIALIZATION_STATE=\[\[\[[\d.]+,(?P<lon>-?\d{1,3}\.\d+),(?P<lat>-?\d{1,2}\.\d+)\]`),
		regexp.MustCompile(`staticmap\?center=(?P<lat>-?\d{1,2}\.\d+)(?:%2C|,)(?P<lon>-?\d{1,3}\.\d+)(?:&|&amp;)zoom=(?P<z>\d{1,2})`),
		regexp.MustCompile(`/@(?P<lat>-?\d{1,2}\.\d+),(?P<lon>-?\d{1,3}\.\d+),(?P<z>\d{1,2}(?:\.\d+)?)z`),
		regexp.MustCompile(`\[null,null,(?P<lat>-?\d{1,2}\.\d{4,}),(?P<lon>-?\d{1,3}\.\d{4,})\]`),
	}
	htmlRedirect = regexp.MustCompile(`href="((?:https?://(?:www\.|maps\.)?google\.[a-z.]+)?/maps(?:/place/|\?)[^"]+)"`)
)

// ParseHTML implements inputs.HTMLParser.
func (Input) ParseHTML(r io.Reader, fromURI geo.Position, log inputs.Logger) (inputs.ParseHTMLResult, bool) {
	var (
		found    geo.Point
		redirect string
	)
	stopped, err := htmlscan.Lines(r, func(line string) bool {
		for _, re := range htmlPatterns {
			if p, ok := htmlscan.FindPoint(re, line, srs); ok {
				found = p
				return true
			}
		}
		if redirect == "" {
			if m := htmlRedirect.FindStringSubmatch(line); m != nil {
				redirect = htmlscan.Unescape(m[1])
			}
		}
		return false
	})
	if err != nil {
		log.Warnf("googlemaps: reading page: %v", err)
	}
	if stopped {
		log.Debugf("googlemaps: found %v in page", found)
		if found.Name == "" {
			found.Name = fromURI.Q
		}
		return inputs.HTMLSucceeded(geo.Position{Q: fromURI.Q, Zoom: fromURI.Zoom}.Merge(geo.NewPosition(found)))
	}
	if redirect != "" {
		log.Debugf("googlemaps: following link %s found in page", redirect)
		return inputs.HTMLRequiresRedirect(redirect)
	}
	return inputs.ParseHTMLResult{}, false
}
