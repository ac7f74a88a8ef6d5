package googlemaps

import (
	"math"
	"strings"
	"testing"

	"github.com/sw33tLie/geoshare/pkg/geo"
	"github.com/sw33tLie/geoshare/pkg/inputs"
	"github.com/sw33tLie/geoshare/pkg/uri"
)

func parse(t *testing.T, link string) (inputs.ParseURIResult, bool) {
	t.Helper()
	u, err := uri.ParseLink(link, nil)
	if err != nil {
		t.Fatalf("ParseLink(%q): %v", link, err)
	}
	return Input{}.ParseURI(u)
}

func TestParseURI(t *testing.T) {
	tests := []struct {
		link     string
		lat, lon float64
		zoom     float64
		name     string
		points   int
	}{
		{"https://www.google.com/maps/@52.5067296,13.2599309,11z", 52.5067296, 13.2599309, 11, "", 1},
		{"https://www.google.com/maps/place/Berlin/@52.5,13.4,11z/data=!3m1!4b1!4m5!3m4!1s0x0:0x0!8m2!3d52.52!4d13.405", 52.52, 13.405, 11, "Berlin", 2},
		{"https://maps.google.com/?q=52.5,13.4", 52.5, 13.4, 0, "", 1},
		{"https://maps.google.com/maps?q=loc:52.5,13.4&z=7", 52.5, 13.4, 7, "", 1},
		{"https://www.google.com/maps/dir/?api=1&destination=52.5,13.4", 52.5, 13.4, 0, "", 1},
		{"https://www.google.com/maps/place/52.1,13.1?q=52.5,13.4", 52.5, 13.4, 0, "", 2},
		{"https://www.google.de/maps/dir/52.1,13.1/52.2,13.2/@52.15,13.15,12z", 52.2, 13.2, 12, "", 2},
		{"google.com/maps/@-33.8688,151.2093,10.6z", -33.8688, 151.2093, 11, "", 1},
	}
	for _, tt := range tests {
		res, ok := parse(t, tt.link)
		if !ok {
			t.Errorf("%s: not parsed", tt.link)
			continue
		}
		if res.RequiresHTML() {
			t.Errorf("%s: unexpectedly requires HTML", tt.link)
		}
		pos := res.Position
		if len(pos.Points) != tt.points {
			t.Errorf("%s: got %d points, want %d", tt.link, len(pos.Points), tt.points)
		}
		p, _ := pos.MainPoint()
		if p.Lat != tt.lat || p.Lon != tt.lon || p.SRS != geo.GCJ02 {
			t.Errorf("%s: main point %v", tt.link, p)
		}
		if pos.EffectiveZoom() != tt.zoom && pos.Zoom != tt.zoom {
			t.Errorf("%s: zoom %v/%v, want %v", tt.link, p.Zoom, pos.Zoom, tt.zoom)
		}
		if p.Name != tt.name {
			t.Errorf("%s: name %q, want %q", tt.link, p.Name, tt.name)
		}
	}
}

func TestParseURIMapViewIsWGS84OutsideChina(t *testing.T) {
	res, ok := parse(t, "https://www.google.com/maps/@52.5067296,13.2599309,11z")
	if !ok {
		t.Fatal("not parsed")
	}
	p, _ := res.Position.AsWGS84().MainPoint()
	want := geo.Point{SRS: geo.WGS84, Lat: 52.5067296, Lon: 13.2599309, Zoom: 11}
	if p != want {
		t.Fatalf("got %+v, want %+v", p, want)
	}
}

func TestParseURIChinaIsCorrected(t *testing.T) {
	res, ok := parse(t, "https://www.google.com/maps/@31.22850685422705,121.47552456472106,15z")
	if !ok {
		t.Fatal("not parsed")
	}
	p, _ := res.Position.AsWGS84().MainPoint()
	if math.Abs(p.Lat-31.23044166868017) > 1e-5 || math.Abs(p.Lon-121.47099209401793) > 1e-5 {
		t.Fatalf("got %v", p)
	}
}

func TestParseURIRequiresHTML(t *testing.T) {
	res, ok := parse(t, "https://www.google.com/maps/search/Brandenburger+Tor")
	if !ok || !res.RequiresHTML() {
		t.Fatalf("ok=%v res=%+v", ok, res)
	}
	if res.Position.Q != "Brandenburger Tor" || res.Position.HasPoints() {
		t.Fatalf("position %+v", res.Position)
	}
	if res.HTMLURL != "https://www.google.com/maps/search/Brandenburger+Tor" {
		t.Fatalf("html url %q", res.HTMLURL)
	}

	res, ok = parse(t, "https://www.google.com/maps?cid=1234567890")
	if !ok || !res.RequiresHTML() {
		t.Fatalf("cid link: ok=%v res=%+v", ok, res)
	}

	res, ok = parse(t, "https://www.google.com/maps?q=place_id:ChIJAVkDPzdOqEcRcDteW0YgIQQ")
	if !ok || !res.RequiresHTML() {
		t.Fatalf("bare place_id link: ok=%v res=%+v", ok, res)
	}
	if res.Position.Q != "" || res.Position.HasPoints() {
		t.Fatalf("bare place_id link: position %+v", res.Position)
	}
}

func TestParseURIPlaceIDWithPoint(t *testing.T) {
	res, ok := parse(t, "https://www.google.com/maps/@52.5067296,13.2599309,11z?q=place_id:ChIJAVkDPzdOqEcRcDteW0YgIQQ")
	if !ok || res.RequiresHTML() {
		t.Fatalf("ok=%v res=%+v", ok, res)
	}
	p, _ := res.Position.MainPoint()
	if p.Name != "" {
		t.Fatalf("name = %q", p.Name)
	}
}

func TestParseURIRejects(t *testing.T) {
	for _, link := range []string{
		"https://example.com/maps/@52.5,13.4,11z",
		"https://www.google.com/maps",
		"https://www.google.com/maps/@152.5,13.4,11z",
	} {
		if res, ok := parse(t, link); ok {
			t.Errorf("%s: unexpectedly parsed as %+v", link, res)
		}
	}
}

func TestRecognize(t *testing.T) {
	got, ok := Input{}.Recognize("Look at this: https://maps.app.goo.gl/TmbeHMiLEfTBws9EA see you")
	if !ok || got != "https://maps.app.goo.gl/TmbeHMiLEfTBws9EA" {
		t.Fatalf("got %q, %v", got, ok)
	}
	if _, ok := (Input{}).Recognize("geo:52.5,13.4"); ok {
		t.Fatal("geo uri recognised as google maps")
	}
}

func TestIsShortLink(t *testing.T) {
	tests := map[string]bool{
		"https://maps.app.goo.gl/TmbeHMiLEfTBws9EA":   true,
		"https://goo.gl/maps/abc123":                  true,
		"https://g.co/kgs/abc":                        true,
		"https://www.google.com/maps/@52.5,13.4,11z": false,
	}
	for link, want := range tests {
		u, err := uri.ParseLink(link, nil)
		if err != nil {
			t.Fatal(err)
		}
		if got := (Input{}).IsShortLink(u); got != want {
			t.Errorf("IsShortLink(%s) = %v, want %v", link, got, want)
		}
	}
}

func TestParseHTML(t *testing.T) {
	page := strings.Join([]string{
		`<!DOCTYPE html><html><head>`,
		`<meta content="https://maps.google.com/maps/api/staticmap?center=52.5163%2C13.3777&amp;zoom=15&amp;size=900x900" itemprop="image">`,
		`<title>never reached</title>`,
	}, "\n")
	res, ok := Input{}.ParseHTML(strings.NewReader(page), geo.Position{Q: "Brandenburger Tor"}, inputs.NopLogger{})
	if !ok || res.RedirectURL != "" {
		t.Fatalf("ok=%v res=%+v", ok, res)
	}
	p, _ := res.Position.MainPoint()
	if p.Lat != 52.5163 || p.Lon != 13.3777 || p.Zoom != 15 || p.Name != "Brandenburger Tor" {
		t.Fatalf("got %+v", p)
	}
}

func TestParseHTMLRedirect(t *testing.T) {
	page := `<html><body><a href="https://www.google.com/maps?cid=42&amp;hl=en">Open</a></body></html>`
	res, ok := Input{}.ParseHTML(strings.NewReader(page), geo.Position{}, inputs.NopLogger{})
	if !ok || res.RedirectURL != "https://www.google.com/maps?cid=42&hl=en" {
		t.Fatalf("ok=%v res=%+v", ok, res)
	}

	if _, ok := (Input{}).ParseHTML(strings.NewReader("<html></html>"), geo.Position{}, inputs.NopLogger{}); ok {
		t.Fatal("empty page parsed")
	}
}
