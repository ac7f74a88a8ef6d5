package registry

import (
	"strings"
	"testing"

	"github.com/sw33tLie/geoshare/pkg/inputs"
)

func TestDefaultOrder(t *testing.T) {
	in := Default().Inputs()
	if len(in) < 3 {
		t.Fatalf("only %d inputs", len(in))
	}
	if in[len(in)-2].Name() != "geouri" || in[len(in)-1].Name() != "coordinates" {
		t.Fatalf("catch-all inputs are not last: %s, %s", in[len(in)-2].Name(), in[len(in)-1].Name())
	}
	seen := map[string]bool{}
	for _, i := range in {
		if seen[i.Name()] {
			t.Fatalf("duplicate input %s", i.Name())
		}
		seen[i.Name()] = true
	}
}

func TestSelect(t *testing.T) {
	tests := map[string]string{
		"https://www.google.com/maps/@52.5067296,13.2599309,11z":          "googlemaps",
		"Check this out https://maps.app.goo.gl/TmbeHMiLEfTBws9EA":        "googlemaps",
		"https://maps.apple.com/?ll=52.5163,13.3777":                      "applemaps",
		"https://www.bing.com/maps?cp=52.5163~13.3777":                    "bingmaps",
		"https://www.openstreetmap.org/#map=16/52.5163/13.3777":           "openstreetmap",
		"https://osm.org/go/0MbFCmNp":                                     "openstreetmap",
		"https://wego.here.com/?map=52.5163,13.3777,16,normal":            "herewego",
		"https://waze.com/ul?ll=52.5163,13.3777":                          "waze",
		"https://yandex.ru/maps/?ll=37.6173,55.7558&z=12":                 "yandexmaps",
		"https://mapy.cz/zakladni?x=14.4212535&y=50.0874654&z=16":         "mapycz",
		"https://magicearth.com/?lat=48.85649&lon=2.35216":                "magicearth",
		"https://omaps.app/w4MnKBZOWq/Brandenburger_Tor":                  "organicmaps",
		"https://osmand.net/go?lat=52.5163&lon=13.3777&z=16":              "osmand",
		"https://uri.amap.com/marker?position=116.397428,39.90923":        "amap",
		"https://map.baidu.com/@12959238.56,4825347.47,17z":               "baidumap",
		"https://2gis.ru/moscow/geo/4504235282638430/37.617698,55.752004": "twogis",
		"geo:52.47254,13.4345":                                            "geouri",
		"geo:0,0?q=52.47254,13.4345":                                      "geouri",
		"52.47254, 13.4345":                                               "coordinates",
		`52°31'12.0"N 13°24'18.0"E`:                                       "coordinates",
	}
	r := Default()
	for text, want := range tests {
		in, _, ok := r.Select(text)
		if !ok {
			t.Errorf("%q: nothing selected", text)
			continue
		}
		if in.Name() != want {
			t.Errorf("%q: selected %s, want %s", text, in.Name(), want)
		}
	}
}

func TestSelectUnsupported(t *testing.T) {
	for _, text := range []string{"", "hello", "https://example.com/some/place"} {
		if in, _, ok := Default().Select(text); ok {
			t.Errorf("%q: selected %s", text, in.Name())
		}
	}
}

type fakeInput struct {
	inputs.Input
	name string
}

func (f fakeInput) Name() string                        { return f.name }
func (f fakeInput) Recognize(text string) (string, bool) { return text, true }

func TestSelectStopsAtFirstMatch(t *testing.T) {
	r := New(fakeInput{name: "first"}, fakeInput{name: "second"})
	in, link, ok := r.Select("anything")
	if !ok || in.Name() != "first" || link != "anything" {
		t.Fatalf("got %v %q %v", in, link, ok)
	}
	if _, ok := r.ByName("second"); !ok {
		t.Fatal("ByName did not find second")
	}
}

func TestMarkdown(t *testing.T) {
	md := Default().Markdown()
	if !strings.HasPrefix(md, "# Supported links\n") {
		t.Fatalf("unexpected heading: %q", md[:40])
	}
	for _, title := range []string{"## Google Maps", "## Apple Maps"} {
		if !strings.Contains(md, title) {
			t.Errorf("missing %q", title)
		}
	}
}
