// Package coordinates recognises bare coordinates in shared text: decimal
// degrees, degrees and decimal minutes, and degrees, minutes and seconds,
// each with optional hemisphere letters.
package coordinates

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sw33tLie/geoshare/pkg/geo"
	"github.com/sw33tLie/geoshare/pkg/inputs"
	"github.com/sw33tLie/geoshare/pkg/uri"
)

const (
	sign = `[\-+−]?`
	deg  = `°|º|˚|\s*deg\b`
	min  = `'|′|’`
	sec  = `"|″|”|''|′′`
)

// One expression per notation. Both coordinates carry their own group names
// so a single match yields both. "O" (Ost, Ouest) is accepted for east.
var (
	decimalExpr = `(?:\b(?P<lath>[NSns]))?\s*(?P<latd>` + sign + `\d{1,2}\.\d{1,17})\s*(?:` + deg + `)?\s*(?P<lath2>[NSns]\b)?` +
		`\s*[,;\s]\s*` +
		`(?:\b(?P<lonh>[EWOewo]))?\s*(?P<lond>` + sign + `\d{1,3}\.\d{1,17})\s*(?:` + deg + `)?\s*(?P<lonh2>[EWOewo]\b)?`

	sexagesimalExpr = `(?:\b(?P<lath>[NSns]))?\s*(?P<latd>` + sign + `\d{1,2}(?:\.\d+)?)\s*(?:` + deg + `)\s*` +
		`(?:(?P<latm>\d{1,2}(?:\.\d+)?)\s*(?:` + min + `)\s*` +
		`(?:(?P<lats>\d{1,2}(?:\.\d+)?)\s*(?:` + sec + `)\s*)?)?(?P<lath2>[NSns]\b)?` +
		`\s*[,;]?\s*` +
		`(?:\b(?P<lonh>[EWOewo]))?\s*(?P<lond>` + sign + `\d{1,3}(?:\.\d+)?)\s*(?:` + deg + `)\s*` +
		`(?:(?P<lonm>\d{1,2}(?:\.\d+)?)\s*(?:` + min + `)\s*` +
		`(?:(?P<lons>\d{1,2}(?:\.\d+)?)\s*(?:` + sec + `)\s*)?)?(?P<lonh2>[EWOewo]\b)?`

	notations = []*regexp.Regexp{
		regexp.MustCompile(`^\s*(?:` + sexagesimalExpr + `)\s*$`),
		regexp.MustCompile(`^\s*(?:` + decimalExpr + `)\s*$`),
	}

	recognizers = []inputs.Recognizer{
		inputs.NewRecognizer(sexagesimalExpr),
		inputs.NewRecognizer(decimalExpr),
	}
)

// Input handles coordinates typed or copied as plain text.
type Input struct{}

// Name implements inputs.Input.
func (Input) Name() string { return "coordinates" }

// Documentation implements inputs.Input.
func (Input) Documentation() inputs.Documentation {
	return inputs.Documentation{
		Title:       "Coordinates",
		Description: "Plain coordinates in decimal degrees or degrees, minutes and seconds.",
		Examples: []string{
			"52.5200, 13.4050",
			"-33.8688 151.2093",
			"52.52°N, 13.405°E",
			`52°31'12.0"N 13°24'18.0"E`,
			"N 52° 31.200' E 13° 24.300'",
		},
	}
}

// Recognize implements inputs.Input. The leftmost match of any notation
// wins.
func (Input) Recognize(text string) (string, bool) {
	var s string
	for _, r := range recognizers {
		if m, ok := r.Recognize(text); ok && (s == "" || strings.Index(text, m) < strings.Index(text, s)) {
			s = m
		}
	}
	s = strings.Join(strings.Fields(s), " ")
	return s, s != ""
}

// ParseURI implements inputs.Input. Coordinates have no structure beyond
// the path, so the link is put back together and matched as a whole.
func (Input) ParseURI(u uri.URI) (inputs.ParseURIResult, bool) {
	if u.Scheme != "" || u.Host != "" {
		return inputs.ParseURIResult{}, false
	}
	p, ok := Parse(u.String(uri.ReadableCodec))
	if !ok {
		return inputs.ParseURIResult{}, false
	}
	return inputs.Succeeded(geo.NewPosition(p))
}

// Parse reads a WGS84 point from text in any of the supported notations.
func Parse(text string) (geo.Point, bool) {
	for _, re := range notations {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		groups := map[string]string{}
		for i, name := range re.SubexpNames() {
			if name != "" && m[i] != "" {
				groups[name] = m[i]
			}
		}
		lat, ok := value(groups["latd"], groups["latm"], groups["lats"], 90)
		if !ok {
			continue
		}
		lon, ok := value(groups["lond"], groups["lonm"], groups["lons"], 180)
		if !ok {
			continue
		}
		if south(groups["lath"] + groups["lath2"]) {
			lat = -abs(lat)
		}
		if west(groups["lonh"] + groups["lonh2"]) {
			lon = -abs(lon)
		}
		return geo.NewPoint(geo.WGS84, lat, lon), true
	}
	return geo.Point{}, false
}

func value(d, m, s string, limit float64) (float64, bool) {
	neg := strings.HasPrefix(d, "-") || strings.HasPrefix(d, "−")
	d = strings.TrimLeft(d, "+-−")
	deg, err := strconv.ParseFloat(d, 64)
	if err != nil {
		return 0, false
	}
	v := deg
	for i, part := range []string{m, s} {
		if part == "" {
			continue
		}
		f, err := strconv.ParseFloat(part, 64)
		if err != nil || f >= 60 {
			return 0, false
		}
		if i == 0 {
			v += f / 60
		} else {
			v += f / 3600
		}
	}
	if v > limit {
		return 0, false
	}
	if neg {
		v = -v
	}
	return v, true
}

func south(h string) bool { return strings.ContainsAny(h, "Ss") }

func west(h string) bool { return strings.ContainsAny(h, "Ww") }

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
