package output

import (
	"errors"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/sw33tLie/geoshare/pkg/geo"
	"github.com/sw33tLie/geoshare/pkg/inputs/geouri"
	"github.com/sw33tLie/geoshare/pkg/inputs/magicearth"
	"github.com/sw33tLie/geoshare/pkg/uri"
)

func equalPositions(a, b geo.Position) bool {
	if a.Q != b.Q || a.Zoom != b.Zoom || len(a.Points) != len(b.Points) {
		return false
	}
	for i := range a.Points {
		if a.Points[i] != b.Points[i] {
			return false
		}
	}
	return true
}

func TestGeoURIRoundTrip(t *testing.T) {
	positions := []geo.Position{
		geo.NewPosition(geo.NewPoint(geo.WGS84, 52.47254, 13.4345)),
		geo.NewPosition(geo.Point{SRS: geo.WGS84, Lat: 52.47254, Lon: 13.4345, Zoom: 11}),
		geo.NewPosition(geo.Point{SRS: geo.WGS84, Lat: -33.8688, Lon: 151.2093, Name: "Sydney Opera House", Zoom: 17}),
		geo.NewPosition(geo.Point{SRS: geo.WGS84, Lat: 48.8583701, Lon: 2.2944813, Name: "Tour Eiffel"}),
		{Q: "Tempelhofer Feld"},
		{Q: "Tempelhofer Feld", Zoom: 14},
		// Full float64 precision.
		geo.NewPosition(geo.NewPoint(geo.WGS84, 31.23044166868017, 121.47099209401793)),
		geo.NewPosition(geo.NewPoint(geo.WGS84, -0.00012345678901, -179.99999999999997)),
		// Zoom on the position only, on both, and different on each.
		{Points: []geo.Point{geo.NewPoint(geo.WGS84, 52.5, 13.4)}, Zoom: 11},
		{Points: []geo.Point{{SRS: geo.WGS84, Lat: 52.5067296, Lon: 13.2599309, Zoom: 11}}, Zoom: 11},
		{Points: []geo.Point{{SRS: geo.WGS84, Lat: 52.5, Lon: 13.4, Zoom: 16}}, Zoom: 11},
		// Search text next to a point, with and without a point name.
		{Points: []geo.Point{geo.NewPoint(geo.WGS84, 52.5, 13.4)}, Q: "Berlin"},
		{Points: []geo.Point{{SRS: geo.WGS84, Lat: 52.5, Lon: 13.4, Name: "Berlin"}}, Q: "Berlin", Zoom: 12},
		{Points: []geo.Point{{SRS: geo.WGS84, Lat: 52.5163, Lon: 13.3777, Name: "Brandenburger Tor", Zoom: 17}}, Q: "Pariser Platz"},
	}
	for _, pos := range positions {
		link := GeoURI(pos)
		u, err := uri.Parse(link, nil)
		if err != nil {
			t.Fatalf("%s: %v", link, err)
		}
		res, ok := geouri.Input{}.ParseURI(u)
		if !ok {
			t.Errorf("%s: not parsed", link)
			continue
		}
		if !equalPositions(res.Position, pos) {
			t.Errorf("%s: got %+v, want %+v", link, res.Position, pos)
		}
	}
}

func TestGeoURI(t *testing.T) {
	tests := []struct {
		pos  geo.Position
		want string
	}{
		{
			geo.Position{Points: []geo.Point{{SRS: geo.WGS84, Lat: 52.47254, Lon: 13.4345, Name: "Tempelhofer Feld", Zoom: 11}}, Zoom: 11},
			"geo:52.47254,13.4345?q=52.47254,13.4345(Tempelhofer+Feld)&z=11",
		},
		{
			geo.NewPosition(geo.NewPoint(geo.WGS84, 31.23044166868017, 121.47099209401793)),
			"geo:31.23044166868017,121.47099209401793?q=31.23044166868017,121.47099209401793",
		},
		{
			geo.Position{Points: []geo.Point{geo.NewPoint(geo.WGS84, 52.5, 13.4)}, Q: "Berlin"},
			"geo:52.5,13.4?q=Berlin",
		},
		{
			geo.Position{Points: []geo.Point{geo.NewPoint(geo.WGS84, 52.5, 13.4)}, Zoom: 11},
			"geo:52.5,13.4?q=52.5,13.4&z=11&zoom=11",
		},
	}
	for _, tt := range tests {
		if got := GeoURI(tt.pos); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}
}

func TestLinks(t *testing.T) {
	pos := geo.NewPosition(geo.Point{SRS: geo.WGS84, Lat: 52.5163, Lon: 13.3777, Name: "Brandenburger Tor", Zoom: 16})
	tests := map[Format]string{
		FormatGoogle:     "https://www.google.com/maps?q=52.5163,13.3777&z=16",
		FormatApple:      "https://maps.apple.com/?ll=52.5163,13.3777&q=Brandenburger+Tor&z=16",
		FormatMagicEarth: "https://magicearth.com/?show_on_map&lat=52.5163&lon=13.3777&name=Brandenburger+Tor&zoom=16",
		FormatOSM:        "https://www.openstreetmap.org/?mlat=52.5163&mlon=13.3777#map=16/52.5163/13.3777",
		FormatText:       "52.5163, 13.3777 (Brandenburger Tor)",
	}
	for f, want := range tests {
		got, err := Render(f, pos)
		if err != nil || got != want {
			t.Errorf("%s: got %q, %v; want %q", f, got, err, want)
		}
	}
}

func TestNameOnlyLinks(t *testing.T) {
	pos := geo.Position{Q: "Brandenburger Tor"}
	tests := map[Format]string{
		FormatGeoURI: "geo:0,0?q=Brandenburger+Tor",
		FormatGoogle: "https://www.google.com/maps/search/?api=1&query=Brandenburger+Tor",
		FormatApple:  "https://maps.apple.com/?q=Brandenburger+Tor",
		FormatOSM:    "https://www.openstreetmap.org/search?query=Brandenburger+Tor",
		FormatText:   "Brandenburger Tor",
	}
	for f, want := range tests {
		got, err := Render(f, pos)
		if err != nil || got != want {
			t.Errorf("%s: got %q, %v; want %q", f, got, err, want)
		}
	}
}

func TestGoogleUsesGCJ02InChina(t *testing.T) {
	wgs := geo.NewPoint(geo.WGS84, 31.23044166868017, 121.47099209401793)
	link := GoogleMaps(geo.NewPosition(wgs))
	if link == "https://www.google.com/maps?q="+wgs.String() {
		t.Fatalf("coordinates were not offset: %s", link)
	}
	if !strings.HasPrefix(link, "https://www.google.com/maps?q=31.228") {
		t.Fatalf("got %s", link)
	}
}

func TestMagicEarthRoundTrip(t *testing.T) {
	pos := geo.NewPosition(geo.Point{SRS: geo.WGS84, Lat: 48.85649, Lon: 2.35216, Name: "Notre-Dame"})
	u, err := uri.Parse(MagicEarth(pos), nil)
	if err != nil {
		t.Fatal(err)
	}
	res, ok := magicearth.Input{}.ParseURI(u)
	if !ok || !equalPositions(res.Position, pos) {
		t.Fatalf("got %+v, %v", res.Position, ok)
	}
}

func TestGPX(t *testing.T) {
	pos := geo.NewPosition(
		geo.NewPoint(geo.WGS84, 52.5, 13.4),
		geo.Point{SRS: geo.WGS84, Lat: 52.5163, Lon: 13.3777, Name: "Tor & Platz"},
	)
	got, err := GPX(pos)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		`<gpx version="1.1" creator="geoshare" xmlns="http://www.topografix.com/GPX/1/1">`,
		`<wpt lat="52.5" lon="13.4"></wpt>`,
		`<wpt lat="52.5163" lon="13.3777">`,
		`<name>Tor &amp; Platz</name>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("GPX missing %q:\n%s", want, got)
		}
	}
}

func TestJSON(t *testing.T) {
	pos := geo.Position{
		Points: []geo.Point{{SRS: geo.WGS84, Lat: 52.47254, Lon: 13.4345, Name: "Feld", Zoom: 11}},
		Zoom:   11,
	}
	got, err := JSON(pos)
	if err != nil {
		t.Fatal(err)
	}
	if !gjson.Valid(got) {
		t.Fatalf("invalid JSON %s", got)
	}
	checks := map[string]string{
		"points.0.lat":  "52.47254",
		"points.0.lon":  "13.4345",
		"points.0.name": "Feld",
		"points.0.zoom": "11",
		"zoom":          "11",
		"geo_uri":       "geo:52.47254,13.4345?q=52.47254,13.4345(Feld)&z=11",
	}
	for path, want := range checks {
		if v := gjson.Get(got, path).String(); v != want {
			t.Errorf("%s = %q, want %q", path, v, want)
		}
	}
	if gjson.Get(got, "q").Exists() {
		t.Error("empty q was rendered")
	}

	nested, err := JSONInto(`{"input":"geouri"}`, "position", pos)
	if err != nil {
		t.Fatal(err)
	}
	if gjson.Get(nested, "input").String() != "geouri" || gjson.Get(nested, "position.points.#").Int() != 1 {
		t.Fatalf("nested = %s", nested)
	}
}

func TestRenderErrors(t *testing.T) {
	if _, err := Render(FormatText, geo.Position{}); !errors.Is(err, ErrEmptyPosition) {
		t.Fatalf("got %v", err)
	}
	if _, err := ParseFormat("kml"); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("got %v", err)
	}
	if f, err := ParseFormat("GPX"); err != nil || f != FormatGPX {
		t.Fatalf("got %q, %v", f, err)
	}
}
