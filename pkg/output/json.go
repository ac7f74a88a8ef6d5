package output

import (
	"github.com/tidwall/sjson"

	"github.com/sw33tLie/geoshare/pkg/geo"
)

// JSON renders pos, converted to WGS84, as
// {"points":[{"lat":..,"lon":..,"name":..,"zoom":..}],"q":..,"zoom":..,"geo_uri":..}.
// Empty names, zooms and q are left out.
func JSON(pos geo.Position) (string, error) {
	return JSONInto(`{}`, "", pos)
}

// JSONInto sets the rendering of pos at path inside doc, or at its root when
// path is empty.
func JSONInto(doc, path string, pos geo.Position) (string, error) {
	prefix := ""
	if path != "" {
		prefix = path + "."
	}
	wgs := pos.AsWGS84()
	var err error
	set := func(key string, value interface{}) {
		if err != nil {
			return
		}
		doc, err = sjson.Set(doc, prefix+key, value)
	}
	setRaw := func(key, raw string) {
		if err != nil {
			return
		}
		doc, err = sjson.SetRaw(doc, prefix+key, raw)
	}

	setRaw("points", `[]`)
	for _, p := range wgs.Points {
		pt := `{}`
		pt, err = sjson.SetRaw(pt, "lat", geo.FormatCoord(p.Lat))
		if err != nil {
			return "", err
		}
		pt, err = sjson.SetRaw(pt, "lon", geo.FormatCoord(p.Lon))
		if err != nil {
			return "", err
		}
		if p.Name != "" {
			if pt, err = sjson.Set(pt, "name", p.Name); err != nil {
				return "", err
			}
		}
		if p.Zoom != 0 {
			if pt, err = sjson.Set(pt, "zoom", p.Zoom); err != nil {
				return "", err
			}
		}
		setRaw("points.-1", pt)
	}
	if wgs.Q != "" {
		set("q", wgs.Q)
	}
	if wgs.Zoom != 0 {
		set("zoom", wgs.Zoom)
	}
	if !wgs.Empty() {
		set("geo_uri", GeoURI(wgs))
	}
	if err != nil {
		return "", err
	}
	return doc, nil
}
