package coordinates

import (
	"math"
	"testing"

	"github.com/sw33tLie/geoshare/pkg/uri"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in       string
		lat, lon float64
	}{
		{"52.5200, 13.4050", 52.52, 13.405},
		{"52.5200,13.4050", 52.52, 13.405},
		{"-33.8688 151.2093", -33.8688, 151.2093},
		{"−33.8688, +151.2093", -33.8688, 151.2093},
		{"52.52°N, 13.405°E", 52.52, 13.405},
		{"33.8688° S 151.2093° E", -33.8688, 151.2093},
		{"S 33.8688, W 70.5", -33.8688, -70.5},
		{`52°31'12.0"N 13°24'18.0"E`, 52.52, 13.405},
		{`40° 26′ 46″ N 79° 58′ 56″ W`, 40.446111, -79.982222},
		{"N 52° 31.200' E 13° 24.300'", 52.52, 13.405},
		{"52° 31.2' N, 13° 24.3' O", 52.52, 13.405},
	}
	for _, tt := range tests {
		p, ok := Parse(tt.in)
		if !ok {
			t.Errorf("Parse(%q) failed", tt.in)
			continue
		}
		if math.Abs(p.Lat-tt.lat) > 1e-6 || math.Abs(p.Lon-tt.lon) > 1e-6 {
			t.Errorf("Parse(%q) = %v, want %v,%v", tt.in, p, tt.lat, tt.lon)
		}
	}
}

func TestParseRejects(t *testing.T) {
	for _, in := range []string{
		"hello world",
		"52, 13",
		"95.5, 13.4",
		"52.5, 190.1",
		`52°61'0"N 13°0'0"E`,
		"1234.5, 13.4",
	} {
		if p, ok := Parse(in); ok {
			t.Errorf("Parse(%q) = %v, want failure", in, p)
		}
	}
}

func TestRecognize(t *testing.T) {
	tests := map[string]string{
		"Meet me at 52.5200, 13.4050 tomorrow":   "52.5200, 13.4050",
		"Bus stop 52.52 13.405":                  "52.52 13.405",
		"coords:\n52°31'12.0\"N\n13°24'18.0\"E": `52°31'12.0"N 13°24'18.0"E`,
	}
	for in, want := range tests {
		got, ok := Input{}.Recognize(in)
		if !ok || got != want {
			t.Errorf("Recognize(%q) = %q, %v; want %q", in, got, ok, want)
		}
	}
	if _, ok := (Input{}).Recognize("no numbers here"); ok {
		t.Error("recognised plain text")
	}
}

func TestParseURI(t *testing.T) {
	text, ok := Input{}.Recognize("Meet me at 52.5200, 13.4050")
	if !ok {
		t.Fatal("not recognised")
	}
	u, err := uri.ParseLink(text, nil)
	if err != nil {
		t.Fatal(err)
	}
	res, ok := Input{}.ParseURI(u)
	if !ok {
		t.Fatalf("ParseURI(%+v) failed", u)
	}
	p, _ := res.Position.MainPoint()
	if p.Lat != 52.52 || p.Lon != 13.405 {
		t.Fatalf("got %v", p)
	}

	u, _ = uri.Parse("https://example.com/52.5,13.4", nil)
	if _, ok := (Input{}).ParseURI(u); ok {
		t.Fatal("parsed a link")
	}
}
