package osmand

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
		{"https://osmand.net/go?lat=52.5163&lon=13.3777&z=16", 52.5163, 13.3777, 16, "", 1},
		{"https://osmand.net/go.html?lat=52.5163&lon=13.3777&z=16&name=Tor", 52.5163, 13.3777, 16, "Tor", 1},
		{"https://osmand.net/map?pin=52.5163,13.3777#15/52.51/13.37", 52.5163, 13.3777, 15, "", 2},
		{"https://osmand.net/map/#12/-33.8688/151.2093", -33.8688, 151.2093, 12, "", 1},
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

	u, _ := uri.Parse("https://osmand.net/docs/", nil)
	if _, ok := (Input{}).ParseURI(u); ok {
		t.Fatal("docs page parsed")
	}
}
