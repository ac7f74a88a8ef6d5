// Package organicmaps recognises Organic Maps and Maps.me links. Their
// coordinates are packed into a short "ge0" code that is decoded locally.
package organicmaps

import (
	"regexp"
	"strings"

	"github.com/sw33tLie/geoshare/pkg/geo"
	"github.com/sw33tLie/geoshare/pkg/inputs"
	"github.com/sw33tLie/geoshare/pkg/pattern"
	"github.com/sw33tLie/geoshare/pkg/uri"
)

const (
	ge0Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	// Each character of the code holds three bits of latitude and three of
	// longitude; a full code has ten of them.
	ge0MaxPointBytes = 10
	ge0MaxCoordBits  = ge0MaxPointBytes * 3
)

var (
	recognizer = inputs.NewRecognizer(`(?i)(?:(?:https?://)?(?:omaps\.app|ge0\.me|comaps\.at)/|ge0://|om://)\S+`)

	code = `(?P<code>[A-Za-z0-9_\-]{2,10})`

	web = pattern.All(
		pattern.Host(`omaps\.app|ge0\.me|comaps\.at`),
		pattern.Path(`/`+code+`(?:/(?P<name>[^/]*))?/?`),
	)

	// In ge0://CODE/Name the code sits where the host would be, and host
	// names are compared in lower case, so it is read from u.Host.
	app = pattern.All(
		pattern.Scheme(`ge0|om`),
		pattern.Path(`(?:/(?P<name>[^/]*))?/?`),
	)

	appCode = regexp.MustCompile(`^` + code + `$`)
)

// Input handles Organic Maps links.
type Input struct{}

// Name implements inputs.Input.
func (Input) Name() string { return "organicmaps" }

// Documentation implements inputs.Input.
func (Input) Documentation() inputs.Documentation {
	return inputs.Documentation{
		Title: "Organic Maps",
		Examples: []string{
			"https://omaps.app/w4MnKBZOWq/Brandenburger_Tor",
			"ge0://w4MnKBZOWq/Brandenburger_Tor",
		},
	}
}

// Recognize implements inputs.Input.
func (Input) Recognize(text string) (string, bool) { return recognizer.Recognize(text) }

// ParseURI implements inputs.Input.
func (Input) ParseURI(u uri.URI) (inputs.ParseURIResult, bool) {
	caps, ok := web.Match(u)
	if !ok {
		if caps, ok = app.Match(u); !ok || !appCode.MatchString(u.Host) {
			return inputs.ParseURIResult{}, false
		}
		caps["code"] = u.Host
	}
	p, ok := DecodeGe0(caps["code"])
	if !ok {
		return inputs.ParseURIResult{}, false
	}
	if name := strings.ReplaceAll(caps.Name(), "_", " "); name != "" {
		p.Name = name
	}
	return inputs.Succeeded(geo.Position{Points: []geo.Point{p}, Zoom: p.Zoom})
}

// DecodeGe0 decodes a ge0 code: one character of zoom followed by up to nine
// characters of interleaved latitude and longitude bits. A shorter code
// stands for the middle of a larger square.
func DecodeGe0(code string) (geo.Point, bool) {
	if len(code) < 2 || len(code) > ge0MaxPointBytes {
		return geo.Point{}, false
	}
	z := strings.IndexByte(ge0Alphabet, code[0])
	if z < 0 {
		return geo.Point{}, false
	}
	var lat, lon int64
	shift := ge0MaxCoordBits - 3
	digits := code[1:]
	for i := 0; i < len(digits); i++ {
		a := int64(strings.IndexByte(ge0Alphabet, digits[i]))
		if a < 0 {
			return geo.Point{}, false
		}
		lat |= ((a>>5)&1<<2 | (a>>3)&1<<1 | (a>>1)&1) << shift
		lon |= ((a>>4)&1<<2 | (a>>2)&1<<1 | a&1) << shift
		shift -= 3
	}
	middle := int64(1) << (3*(ge0MaxPointBytes-len(digits)) - 1)
	lat += middle
	lon += middle

	const maxValue = 1<<ge0MaxCoordBits - 1
	p := geo.NewPoint(geo.WGS84, float64(lat)/maxValue*180-90, float64(lon)/maxValue*360-180)
	p.Zoom = pattern.ClampZoom(float64(z)/4 + 4)
	return p, true
}
