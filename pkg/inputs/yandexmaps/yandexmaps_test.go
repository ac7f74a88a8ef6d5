package yandexmaps

import (
	"strings"
	"testing"

	"github.com/sw33tLie/geoshare/pkg/geo"
	"github.com/sw33tLie/geoshare/pkg/inputs"
	"github.com/sw33tLie/geoshare/pkg/uri"
)

func TestParseURI(t *testing.T) {
	tests := []struct {
		link     string
		lat, lon float64
		zoom     float64
		points   int
	}{
		{"https://yandex.ru/maps/?ll=37.6173,55.7558&z=12", 55.7558, 37.6173, 12, 1},
		{"https://yandex.com/maps/?ll=37.6,55.7&pt=37.6173,55.7558&z=16&l=map", 55.7558, 37.6173, 16, 2},
		{"https://yandex.ru/maps/?whatshere%5Bpoint%5D=37.6173%2C55.7558&whatshere%5Bzoom%5D=17", 55.7558, 37.6173, 17, 1},
		{"https://yandex.ru/maps/?pt=30.3,59.9~37.6173,55.7558,pm2rdm", 55.7558, 37.6173, 0, 1},
		{"https://yandex.ru/maps/?rtext=55.75,37.61~55.7558,37.6173&rtt=auto", 55.7558, 37.6173, 0, 1},
	}
	for _, tt := range tests {
		u, err := uri.Parse(tt.link, nil)
		if err != nil {
			t.Fatal(err)
		}
		res, ok := Input{}.ParseURI(u)
		if !ok || res.RequiresHTML() {
			t.Errorf("%s: ok=%v res=%+v", tt.link, ok, res)
			continue
		}
		p, _ := res.Position.MainPoint()
		if len(res.Position.Points) != tt.points || p.Lat != tt.lat || p.Lon != tt.lon || res.Position.Zoom != tt.zoom {
			t.Errorf("%s: got %+v", tt.link, res.Position)
		}
	}
}

func TestParseURIOrganization(t *testing.T) {
	u, _ := uri.Parse("https://yandex.ru/maps/213/moscow/org/kreml/1023322799/?ll=37.61,55.75&z=15", nil)
	res, ok := Input{}.ParseURI(u)
	if !ok || !res.RequiresHTML() {
		t.Fatalf("ok=%v res=%+v", ok, res)
	}
	if res.Position.Q != "kreml" || len(res.Position.Points) != 1 {
		t.Fatalf("partial position %+v", res.Position)
	}

	page := `<div class="card" data-coordinates="37.617698,55.752004"></div>`
	html, ok := Input{}.ParseHTML(strings.NewReader(page), res.Position, inputs.NopLogger{})
	if !ok {
		t.Fatal("no point in page")
	}
	p, _ := html.Position.MainPoint()
	if p.Lat != 55.752004 || p.Lon != 37.617698 || p.Name != "kreml" || len(html.Position.Points) != 2 {
		t.Fatalf("got %+v", html.Position)
	}
}

func TestParseURISearch(t *testing.T) {
	u, _ := uri.Parse("https://yandex.ru/maps/?text=%D0%9A%D1%80%D0%B5%D0%BC%D0%BB%D1%8C", nil)
	res, ok := Input{}.ParseURI(u)
	if !ok || res.Position.Q != "Кремль" {
		t.Fatalf("ok=%v res=%+v", ok, res)
	}
	u, _ = uri.Parse("https://yandex.ru/search/?text=x", nil)
	if _, ok := (Input{}).ParseURI(u); ok {
		t.Fatal("web search parsed")
	}
}

func TestIsShortLink(t *testing.T) {
	u, _ := uri.Parse("https://yandex.ru/maps/-/CCUqEXB7tA", nil)
	if !(Input{}).IsShortLink(u) {
		t.Fatal("short link not detected")
	}
	if (Input{}).ShortLinkMethod() != "HEAD" {
		t.Fatal("wrong method")
	}
}

func TestParseHTMLJSON(t *testing.T) {
	page := `{"type":"Point","coordinates":[37.617698,55.752004]}`
	res, ok := Input{}.ParseHTML(strings.NewReader(page), geo.Position{}, inputs.NopLogger{})
	p, _ := res.Position.MainPoint()
	if !ok || p.Lat != 55.752004 || p.Lon != 37.617698 {
		t.Fatalf("ok=%v res=%+v", ok, res)
	}
}
