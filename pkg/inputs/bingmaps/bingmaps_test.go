package bingmaps

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
		{"https://www.bing.com/maps?cp=52.5163~13.3777&lvl=16", 52.5163, 13.3777, 16, "", 1},
		{"https://www.bing.com/maps?cp=52.5~13.4&lvl=11&sp=point.52.5163_13.3777_Brandenburger%20Tor", 52.5163, 13.3777, 11, "Brandenburger Tor", 2},
		{"https://bing.com/maps/?rtp=pos.52.5_13.4~pos.48.8584_2.2945_Eiffel%20Tower", 48.8584, 2.2945, 0, "Eiffel Tower", 1},
		{"https://www.bing.com/maps?q=-33.8688,151.2093", -33.8688, 151.2093, 0, "", 1},
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

func TestParseURIText(t *testing.T) {
	u, _ := uri.Parse("https://www.bing.com/maps?q=Brandenburger+Tor&lvl=15", nil)
	res, ok := Input{}.ParseURI(u)
	if !ok || res.Position.Q != "Brandenburger Tor" || res.Position.Zoom != 15 || res.RequiresHTML() {
		t.Fatalf("ok=%v res=%+v", ok, res)
	}

	u, _ = uri.Parse("https://www.bing.com/search?q=52.5,13.4", nil)
	if _, ok := (Input{}).ParseURI(u); ok {
		t.Fatal("web search parsed")
	}
}
