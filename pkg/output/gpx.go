package output

import (
	"encoding/xml"

	"github.com/sw33tLie/geoshare/pkg/geo"
)

type gpxDoc struct {
	XMLName   xml.Name      `xml:"gpx"`
	Version   string        `xml:"version,attr"`
	Creator   string        `xml:"creator,attr"`
	Xmlns     string        `xml:"xmlns,attr"`
	Waypoints []gpxWaypoint `xml:"wpt"`
}

type gpxWaypoint struct {
	Lat  string `xml:"lat,attr"`
	Lon  string `xml:"lon,attr"`
	Name string `xml:"name,omitempty"`
}

// GPX returns a GPX 1.1 document with one waypoint per point, in WGS84. A
// position without points yields a document without waypoints.
func GPX(pos geo.Position) (string, error) {
	doc := gpxDoc{
		Version: "1.1",
		Creator: "geoshare",
		Xmlns:   "http://www.topografix.com/GPX/1/1",
	}
	for _, p := range pos.AsWGS84().Points {
		doc.Waypoints = append(doc.Waypoints, gpxWaypoint{
			Lat:  geo.FormatCoord(p.Lat),
			Lon:  geo.FormatCoord(p.Lon),
			Name: p.Name,
		})
	}
	b, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	return xml.Header + string(b) + "\n", nil
}
