package applemaps

import (
	"math"
	"strings"
	"testing"

	"github.com/sw33tLie/geoshare/pkg/geo"
	"github.com/sw33tLie/geoshare/pkg/inputs"
	"github.com/sw33tLie/geoshare/pkg/output"
	"github.com/sw33tLie/geoshare/pkg/uri"
)

func TestParseURI(t *testing.T) {
	tests := []struct {
		link     string
		lat, lon float64
		zoom     float64
		name     string
	}{
		{"https://maps.apple.com/?ll=52.5163,13.3777&q=Brandenburger%20Tor&z=16", 52.5163, 13.3777, 16, "Brandenburger Tor"},
		{"https://maps.apple.com/place?coordinate=52.5163,13.3777&name=Brandenburger%20Tor", 52.5163, 13.3777, 0, "Brandenburger Tor"},
		{"https://maps.apple.com/?daddr=52.5163,13.3777&sll=52.5,13.4", 52.5163, 13.3777, 0, ""},
		{"https://maps.apple.com/?q=52.5163,13.3777", 52.5163, 13.3777, 0, ""},
		{"https://maps.apple.com/?sll=52.5,13.4&z=10&t=m", 52.5, 13.4, 10, ""},
		{"maps.apple.com/?ll=-33.8688,151.2093", -33.8688, 151.2093, 0, ""},
	}
	for _, tt := range tests {
		u, err := uri.ParseLink(tt.link, nil)
		if err != nil {
			t.Fatal(err)
		}
		res, ok := Input{}.ParseURI(u)
		if !ok || res.RequiresHTML() {
			t.Errorf("%s: ok=%v res=%+v", tt.link, ok, res)
			continue
		}
		p, _ := res.Position.MainPoint()
		if p.Lat != tt.lat || p.Lon != tt.lon || p.Name != tt.name || res.Position.Zoom != tt.zoom {
			t.Errorf("%s: got %+v zoom %v", tt.link, p, res.Position.Zoom)
		}
	}
}

func TestParseURIWithoutCoordinates(t *testing.T) {
	u, _ := uri.Parse("https://maps.apple.com/?auid=1234567890&q=Caf%C3%A9", nil)
	res, ok := Input{}.ParseURI(u)
	if !ok || !res.RequiresHTML() || res.Position.Q != "Café" {
		t.Fatalf("ok=%v res=%+v", ok, res)
	}

	u, _ = uri.Parse("https://maps.apple.com/?q=Berlin", nil)
	res, ok = Input{}.ParseURI(u)
	if !ok || res.RequiresHTML() || res.Position.Q != "Berlin" || res.Position.HasPoints() {
		t.Fatalf("name only: ok=%v res=%+v", ok, res)
	}

	u, _ = uri.Parse("https://maps.apple.com/", nil)
	if _, ok := (Input{}).ParseURI(u); ok {
		t.Fatal("bare link parsed")
	}
}

func TestIsShortLink(t *testing.T) {
	u, _ := uri.Parse("https://maps.apple/p/Xw1.kS0a9sYw", nil)
	if !(Input{}).IsShortLink(u) {
		t.Fatal("short link not detected")
	}
	u, _ = uri.Parse("https://maps.apple.com/?ll=1,2", nil)
	if (Input{}).IsShortLink(u) {
		t.Fatal("full link taken for short link")
	}
}

func TestParseHTML(t *testing.T) {
	page := strings.Join([]string{
		`<html><head><title>Brandenburger Tor &ndash; Apple Maps</title>`,
		`<meta property="place:location:latitude" content="52.516276">`,
		`<meta property="place:location:longitude" content="13.377702">`,
		`</head>`,
	}, "\n")
	res, ok := Input{}.ParseHTML(strings.NewReader(page), geo.Position{}, inputs.NopLogger{})
	if !ok {
		t.Fatal("no point found")
	}
	p, _ := res.Position.MainPoint()
	if p.Lat != 52.516276 || p.Lon != 13.377702 || p.Name != "Brandenburger Tor – Apple Maps" {
		t.Fatalf("got %+v", p)
	}

	if _, ok := (Input{}).ParseHTML(strings.NewReader(`<meta property="place:location:latitude" content="52.5">`), geo.Position{}, inputs.NopLogger{}); ok {
		t.Fatal("half a point accepted")
	}
}

func TestChinaRoundTrip(t *testing.T) {
	shanghai := geo.NewPoint(geo.WGS84, 31.23044166868017, 121.47099209401793)
	link := output.AppleMaps(geo.NewPosition(shanghai))
	u, err := uri.Parse(link, nil)
	if err != nil {
		t.Fatal(err)
	}
	res, ok := Input{}.ParseURI(u)
	if !ok {
		t.Fatalf("%s: not parsed", link)
	}
	p, _ := res.Position.MainPoint()
	if p.SRS != geo.GCJ02 {
		t.Fatalf("%s: point tagged %v", link, p.SRS)
	}
	back := p.AsWGS84()
	if math.Abs(back.Lat-shanghai.Lat) > 1e-6 || math.Abs(back.Lon-shanghai.Lon) > 1e-6 {
		t.Fatalf("%s: got %+v, want %+v", link, back, shanghai)
	}
}
