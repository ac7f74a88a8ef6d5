// Package htmlscan streams a web page line by line looking for a few literal
// patterns. It is deliberately not an HTML parser.
package htmlscan

import (
	"bufio"
	"errors"
	"io"
	"regexp"
	"strings"

	strip "github.com/grokify/html-strip-tags-go"
	"github.com/tidwall/gjson"
	"golang.org/x/net/html"

	"github.com/sw33tLie/geoshare/pkg/geo"
	"github.com/sw33tLie/geoshare/pkg/pattern"
)

const (
	initialBufSize = 64 * 1024
	// Some map pages inline several megabytes of JSON on one line.
	maxLineSize = 16 * 1024 * 1024
)

// ErrLineTooLong is returned when a single line exceeds the scanner limit.
var ErrLineTooLong = errors.New("html line too long")

// Lines calls fn for every line of r until fn returns true or r ends. It
// reports whether fn stopped the scan. The caller closes r, which ends the
// download early when the scan stopped.
func Lines(r io.Reader, fn func(line string) bool) (bool, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, initialBufSize), maxLineSize)
	for sc.Scan() {
		if fn(sc.Text()) {
			return true, nil
		}
	}
	if err := sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return false, ErrLineTooLong
		}
		return false, err
	}
	return false, nil
}

// FindPoint returns the first point re captures in line, using the lat, lon
// and z group names of package pattern.
func FindPoint(re *regexp.Regexp, line string, srs geo.SRS) (geo.Point, bool) {
	m := re.FindStringSubmatch(line)
	if m == nil {
		return geo.Point{}, false
	}
	caps := pattern.Captures{}
	for i, name := range re.SubexpNames() {
		if name != "" && m[i] != "" {
			caps[name] = m[i]
		}
	}
	return caps.Point(srs)
}

// Unescape decodes HTML entities and the \u0026-style escapes pages use in
// inline scripts.
func Unescape(s string) string {
	s = html.UnescapeString(s)
	s = strings.NewReplacer(`\u0026`, "&", `\u003d`, "=", `\u003c`, "<", `\u003e`, ">", `\/`, "/").Replace(s)
	return s
}

// Text strips tags from a fragment of markup and decodes entities.
func Text(s string) string {
	return strings.TrimSpace(html.UnescapeString(strip.StripTags(s)))
}

var (
	titleRegex   = regexp.MustCompile(`(?i)<title[^>]*>(.*?)</title>`)
	ogTitleRegex = regexp.MustCompile(`(?i)<meta[^>]+property="og:title"[^>]+content="([^"]*)"`)
)

// Title returns the page title found in line, if any.
func Title(line string) (string, bool) {
	for _, re := range []*regexp.Regexp{ogTitleRegex, titleRegex} {
		if m := re.FindStringSubmatch(line); m != nil {
			if t := Text(m[1]); t != "" {
				return t, true
			}
		}
	}
	return "", false
}

var jsonLDRegex = regexp.MustCompile(`(?i)<script[^>]+type="application/ld\+json"[^>]*>(.*?)</script>`)

// JSONLDPoint reads schema.org GeoCoordinates from a JSON-LD script on line.
func JSONLDPoint(line string) (geo.Point, bool) {
	m := jsonLDRegex.FindStringSubmatch(line)
	if m == nil || !gjson.Valid(m[1]) {
		return geo.Point{}, false
	}
	var found geo.Point
	var ok bool
	forEachNode(gjson.Parse(m[1]), func(node gjson.Result) bool {
		found, ok = geoCoordinates(node)
		return !ok
	})
	return found, ok
}

// forEachNode visits a JSON-LD document, the items of a top-level array and
// the items of an @graph, until fn returns false.
func forEachNode(doc gjson.Result, fn func(gjson.Result) bool) {
	if doc.IsArray() {
		doc.ForEach(func(_, v gjson.Result) bool { return fn(v) })
		return
	}
	if !fn(doc) {
		return
	}
	doc.ForEach(func(k, v gjson.Result) bool {
		if k.String() == "@graph" && v.IsArray() {
			v.ForEach(func(_, item gjson.Result) bool { return fn(item) })
			return false
		}
		return true
	})
}

func geoCoordinates(node gjson.Result) (geo.Point, bool) {
	for _, path := range []string{"geo", "location.geo"} {
		g := node.Get(path)
		lat, lon := g.Get("latitude"), g.Get("longitude")
		if !lat.Exists() || !lon.Exists() {
			continue
		}
		p, ok, err := geo.PointFromStrings(geo.WGS84, lat.String(), lon.String())
		if err != nil || !ok {
			continue
		}
		p.Name = node.Get("name").String()
		return p, true
	}
	return geo.Point{}, false
}

// JSONPoint reads a latitude/longitude pair from a JSON object embedded in
// line, starting at the first '{' after marker. latKey and lonKey are gjson
// paths inside that object.
func JSONPoint(line, marker, latKey, lonKey string, srs geo.SRS) (geo.Point, bool) {
	i := strings.Index(line, marker)
	if i < 0 {
		return geo.Point{}, false
	}
	obj := balancedObject(line[i+len(marker):])
	if obj == "" || !gjson.Valid(obj) {
		return geo.Point{}, false
	}
	res := gjson.GetMany(obj, latKey, lonKey)
	if !res[0].Exists() || !res[1].Exists() {
		return geo.Point{}, false
	}
	p, ok, err := geo.PointFromStrings(srs, res[0].String(), res[1].String())
	if err != nil || !ok {
		return geo.Point{}, false
	}
	return p, true
}

// balancedObject returns the JSON object starting at the first '{' in s.
func balancedObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		if c == '\\' && inString {
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}
		switch c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
