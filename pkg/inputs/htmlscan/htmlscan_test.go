package htmlscan

import (
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/sw33tLie/geoshare/pkg/geo"
)

// countingReader records how many bytes were consumed.
type countingReader struct {
	r io.Reader
	n int
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += n
	return n, err
}

func TestLinesStopsEarly(t *testing.T) {
	body := "first\nneedle\n" + strings.Repeat("x", 1<<20) + "\nlast\n"
	cr := &countingReader{r: strings.NewReader(body)}
	var seen []string
	stopped, err := Lines(cr, func(line string) bool {
		seen = append(seen, line)
		return line == "needle"
	})
	if err != nil || !stopped {
		t.Fatalf("stopped=%v err=%v", stopped, err)
	}
	if len(seen) != 2 {
		t.Fatalf("expected scan to stop after 2 lines, saw %d", len(seen))
	}
	if cr.n >= len(body) {
		t.Fatalf("whole body was read (%d bytes)", cr.n)
	}
}

func TestLinesExhausted(t *testing.T) {
	stopped, err := Lines(strings.NewReader("a\nb\n"), func(string) bool { return false })
	if err != nil || stopped {
		t.Fatalf("stopped=%v err=%v", stopped, err)
	}
}

func TestFindPoint(t *testing.T) {
	re := regexp.MustCompile(`/@(?P<lat>-?\d+\.\d+),(?P<lon>-?\d+\.\d+),(?P<z>\d+)z`)
	p, ok := FindPoint(re, `<a href="https://www.google.com/maps/@52.5,13.4,11z">`, geo.GCJ02)
	if !ok || p.Lat != 52.5 || p.Lon != 13.4 || p.Zoom != 11 || p.SRS != geo.GCJ02 {
		t.Fatalf("got %+v ok=%v", p, ok)
	}
}

func TestUnescape(t *testing.T) {
	in := `https:\/\/maps.google.com\/maps?q=1\u0026z=2&amp;hl=de`
	want := "https://maps.google.com/maps?q=1&z=2&hl=de"
	if got := Unescape(in); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestTitle(t *testing.T) {
	tests := map[string]string{
		`<title>Caf&eacute; <b>Einstein</b></title>`:                       "Café Einstein",
		`<meta property="og:title" content="Brandenburger Tor &amp; Co">`: "Brandenburger Tor & Co",
	}
	for in, want := range tests {
		got, ok := Title(in)
		if !ok || got != want {
			t.Errorf("Title(%q) = %q, %v; want %q", in, got, ok, want)
		}
	}
}

func TestJSONLDPoint(t *testing.T) {
	lines := []string{
		`<script type="application/ld+json">{"@type":"Place","name":"Tor","geo":{"@type":"GeoCoordinates","latitude":52.5163,"longitude":13.3777}}</script>`,
		`<script type="application/ld+json">{"@context":"https://schema.org","@graph":[{"@type":"WebPage"},{"@type":"Place","name":"Tor","geo":{"latitude":"52.5163","longitude":"13.3777"}}]}</script>`,
		`<script type="application/ld+json">[{"@type":"Place","name":"Tor","geo":{"latitude":52.5163,"longitude":13.3777}}]</script>`,
	}
	for _, line := range lines {
		p, ok := JSONLDPoint(line)
		if !ok || p.Lat != 52.5163 || p.Lon != 13.3777 || p.Name != "Tor" {
			t.Errorf("JSONLDPoint(%q) = %+v, %v", line, p, ok)
		}
	}
	if _, ok := JSONLDPoint(`<script type="application/ld+json">{"@type":"Organization"}</script>`); ok {
		t.Error("expected no point")
	}
}

func TestJSONPoint(t *testing.T) {
	line := `window.state = {"venue":{"name":"x {y}","latLng":{"lat":52.5,"lng":13.4}}};`
	p, ok := JSONPoint(line, `"venue":`, "latLng.lat", "latLng.lng", geo.WGS84)
	if !ok || p.Lat != 52.5 || p.Lon != 13.4 {
		t.Fatalf("got %+v ok=%v", p, ok)
	}
}
