package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// mainlandChina is a coarse outline of mainland China as (lon, lat) pairs.
// Hong Kong, Macau and Taiwan lie outside it, Hainan inside.
var mainlandChina = orb.Polygon{closeRing(orb.Ring{
	{134.8, 48.3}, {133.1, 45.1}, {131.9, 45.3}, {131.1, 44.7}, {131.3, 43.0},
	{130.6, 42.4}, {128.9, 42.0}, {128.0, 41.6}, {126.5, 41.6}, {124.3, 39.9},
	{121.6, 38.7}, {119.0, 37.3}, {120.7, 37.8}, {122.7, 37.4}, {120.4, 35.9},
	{119.3, 34.8}, {120.3, 33.7}, {120.9, 32.6}, {121.9, 31.8}, {122.0, 30.9},
	{122.3, 29.9}, {121.9, 28.5}, {120.7, 27.2}, {119.8, 25.6}, {118.6, 24.5},
	{117.3, 23.6}, {116.5, 22.9}, {114.9, 22.6}, {114.5, 22.55}, {113.9, 22.51},
	{113.55, 22.23}, {113.0, 21.9}, {111.6, 21.5}, {110.4, 20.3}, {111.2, 19.9},
	{110.3, 18.3}, {109.6, 18.1}, {108.5, 18.6}, {108.6, 19.8}, {109.2, 21.4},
	{108.5, 21.6}, {107.9, 21.5}, {106.5, 22.4}, {105.8, 23.1}, {103.9, 22.5},
	{102.4, 22.6}, {101.7, 21.2}, {101.1, 21.6}, {100.2, 21.5}, {99.2, 22.1},
	{99.5, 22.9}, {98.5, 24.1}, {97.6, 24.0}, {97.7, 25.0}, {98.6, 27.5},
	{97.4, 28.3}, {95.5, 28.9}, {93.8, 28.1}, {92.0, 27.8}, {89.6, 28.2},
	{88.9, 27.4}, {88.2, 27.9}, {86.9, 28.0}, {85.0, 28.6}, {82.0, 30.2},
	{81.2, 30.0}, {79.0, 31.3}, {78.7, 32.6}, {78.0, 35.5}, {76.5, 35.8},
	{75.0, 37.2}, {73.6, 39.4}, {75.9, 40.4}, {77.8, 41.0}, {80.2, 42.2},
	{80.4, 44.1}, {80.6, 45.2}, {82.5, 45.4}, {82.9, 47.2}, {85.6, 47.1},
	{87.8, 49.2}, {90.9, 45.9}, {95.3, 44.2}, {96.4, 42.8}, {100.8, 42.6},
	{105.0, 41.6}, {107.5, 42.4}, {110.4, 42.8}, {111.9, 43.7}, {113.6, 44.7},
	{116.6, 46.3}, {119.8, 46.6}, {118.2, 47.6}, {115.6, 47.9}, {116.7, 49.8},
	{117.9, 49.6}, {119.2, 50.3}, {120.1, 51.7}, {121.5, 53.3}, {123.6, 53.5},
	{125.6, 53.1}, {127.5, 50.2}, {130.6, 48.9}, {132.5, 47.7},
})}

func closeRing(r orb.Ring) orb.Ring {
	if !r.Closed() {
		r = append(r, r[0])
	}
	return r
}

// InMainlandChina reports whether a WGS84 or GCJ02 coordinate falls inside
// the region where the GCJ02 offset applies.
func InMainlandChina(lat, lon float64) bool {
	return planar.PolygonContains(mainlandChina, orb.Point{lon, lat})
}
