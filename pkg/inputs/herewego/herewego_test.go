package herewego

import (
	"testing"

	"github.com/sw33tLie/geoshare/pkg/uri"
)

func TestParseURI(t *testing.T) {
	tests := []struct {
		link     string
		lat, lon float64
		zoom     float64
		name     string
		points   int
	}{
		{"https://wego.here.com/?map=52.5163,13.3777,16,normal", 52.5163, 13.3777, 16, "", 1},
		{"https://share.here.com/l/52.5163,13.3777,Brandenburger%20Tor?z=16", 52.5163, 13.3777, 16, "Brandenburger Tor", 1},
		{"https://wego.here.com/directions/drive/start:52.5,13.4/Tor:52.5163,13.3777?map=52.51,13.39,14,normal", 52.5163, 13.3777, 14, "Tor", 2},
		{"https://wego.here.com/p/s-abc?map=48.8584,2.2945,17,normal", 48.8584, 2.2945, 17, "", 1},
	}
	for _, tt := range tests {
		u, err := uri.Parse(tt.link, nil)
		if err != nil {
			t.Fatal(err)
		}
		res, ok := Input{}.ParseURI(u)
		if !ok {
			t.Errorf("%s: not parsed", tt.link)
			continue
		}
		p, _ := res.Position.MainPoint()
		if len(res.Position.Points) != tt.points || p.Lat != tt.lat || p.Lon != tt.lon || p.Name != tt.name || res.Position.Zoom != tt.zoom {
			t.Errorf("%s: got %+v", tt.link, res.Position)
		}
	}
}

func TestParseURISearch(t *testing.T) {
	u, _ := uri.Parse("https://wego.here.com/search/Brandenburger%20Tor", nil)
	res, ok := Input{}.ParseURI(u)
	if !ok || res.Position.Q != "Brandenburger Tor" {
		t.Fatalf("ok=%v res=%+v", ok, res)
	}
	u, _ = uri.Parse("https://www.here.com/", nil)
	if _, ok := (Input{}).ParseURI(u); ok {
		t.Fatal("home page parsed")
	}
}
