package geo

import "math"

// Krasovsky 1940 ellipsoid, which the GCJ02 offset is defined on.
const (
	krasovskyA  = 6378245.0
	krasovskyEE = 0.00669342162296594323
	bdXPi       = math.Pi * 3000.0 / 180.0
)

func wgs84ToGCJ02(lat, lon float64) (float64, float64) {
	if !InMainlandChina(lat, lon) {
		return lat, lon
	}
	dLat, dLon := gcj02Offset(lat, lon)
	return lat + dLat, lon + dLon
}

// gcj02ToWGS84 inverts the offset iteratively; the forward formula has no
// closed-form inverse.
func gcj02ToWGS84(lat, lon float64) (float64, float64) {
	if !InMainlandChina(lat, lon) {
		return lat, lon
	}
	wLat, wLon := lat, lon
	for i := 0; i < 30; i++ {
		gLat, gLon := wgs84ToGCJ02(wLat, wLon)
		dLat, dLon := gLat-lat, gLon-lon
		wLat -= dLat
		wLon -= dLon
		if math.Abs(dLat) < 1e-12 && math.Abs(dLon) < 1e-12 {
			break
		}
	}
	return wLat, wLon
}

func gcj02Offset(lat, lon float64) (float64, float64) {
	x, y := lon-105.0, lat-35.0
	dLat := transformLat(x, y)
	dLon := transformLon(x, y)
	radLat := lat / 180.0 * math.Pi
	magic := math.Sin(radLat)
	magic = 1 - krasovskyEE*magic*magic
	sqrtMagic := math.Sqrt(magic)
	dLat = (dLat * 180.0) / ((krasovskyA * (1 - krasovskyEE)) / (magic * sqrtMagic) * math.Pi)
	dLon = (dLon * 180.0) / (krasovskyA / sqrtMagic * math.Cos(radLat) * math.Pi)
	return dLat, dLon
}

func transformLat(x, y float64) float64 {
	r := -100.0 + 2.0*x + 3.0*y + 0.2*y*y + 0.1*x*y + 0.2*math.Sqrt(math.Abs(x))
	r += (20.0*math.Sin(6.0*x*math.Pi) + 20.0*math.Sin(2.0*x*math.Pi)) * 2.0 / 3.0
	r += (20.0*math.Sin(y*math.Pi) + 40.0*math.Sin(y/3.0*math.Pi)) * 2.0 / 3.0
	r += (160.0*math.Sin(y/12.0*math.Pi) + 320*math.Sin(y*math.Pi/30.0)) * 2.0 / 3.0
	return r
}

func transformLon(x, y float64) float64 {
	r := 300.0 + x + 2.0*y + 0.1*x*x + 0.1*x*y + 0.1*math.Sqrt(math.Abs(x))
	r += (20.0*math.Sin(6.0*x*math.Pi) + 20.0*math.Sin(2.0*x*math.Pi)) * 2.0 / 3.0
	r += (20.0*math.Sin(x*math.Pi) + 40.0*math.Sin(x/3.0*math.Pi)) * 2.0 / 3.0
	r += (150.0*math.Sin(x/12.0*math.Pi) + 300.0*math.Sin(x/30.0*math.Pi)) * 2.0 / 3.0
	return r
}

func gcj02ToBD09(lat, lon float64) (float64, float64) {
	x, y := lon, lat
	z := math.Sqrt(x*x+y*y) + 0.00002*math.Sin(y*bdXPi)
	theta := math.Atan2(y, x) + 0.000003*math.Cos(x*bdXPi)
	return z*math.Sin(theta) + 0.006, z*math.Cos(theta) + 0.0065
}

func bd09ToGCJ02(lat, lon float64) (float64, float64) {
	x, y := lon-0.0065, lat-0.006
	z := math.Sqrt(x*x+y*y) - 0.00002*math.Sin(y*bdXPi)
	theta := math.Atan2(y, x) - 0.000003*math.Cos(x*bdXPi)
	return z * math.Sin(theta), z * math.Cos(theta)
}

// Baidu Mercator bands and polynomial coefficients.
var (
	mcBand = []float64{12890594.86, 8362377.87, 5591021, 3481989.83, 1678043.12, 0}
	llBand = []float64{75, 60, 45, 30, 15, 0}

	mc2ll = [][10]float64{
		{1.410526172116255e-8, 0.00000898305509648872, -1.9939833816331, 200.9824383106796, -187.2403703815547, 91.6087516669843, -23.38765649603339, 2.57121317296198, -0.03801003308653, 17337981.2},
		{-7.435856389565537e-9, 0.000008983055097726239, -0.78625201886289, 96.32687599759846, -1.85204757529826, -59.36935905485877, 47.40033549296737, -16.50741931063887, 2.28786674699375, 10260144.86},
		{-3.030883460898826e-8, 0.00000898305509983578, 0.30071316287616, 59.74293618442277, 7.357984074871, -25.38371002664745, 13.45380521110908, -3.29883767235584, 0.32710905363475, 6856817.37},
		{-1.981981304930552e-8, 0.000008983055099779535, 0.03278182852591, 40.31678527705744, 0.65659298677277, -4.44255534477492, 0.85341911805263, 0.12923347998204, -0.04625736007561, 4482777.06},
		{3.09191371068437e-9, 0.000008983055096812155, 0.00006995724062, 23.10934304144901, -0.00023663490511, -0.6321817810242, -0.00663494467273, 0.03430082397953, -0.00466043876332, 2555164.4},
		{2.890871144776878e-9, 0.000008983055095805407, -3.068298e-8, 7.47137025468032, -0.00000353937994, -0.02145144861037, -0.00001234426596, 0.00010322952773, -0.00000323890364, 826088.5},
	}
	ll2mc = [][10]float64{
		{-0.0015702102444, 111320.7020616939, 1704480524535203, -10338987376042340, 26112667856603880, -35149669176653700, 26595700718403920, -10725012454188240, 1800819912950474, 82.5},
		{0.0008277824516172526, 111320.7020463578, 647795574.6671607, -4082003173.641316, 10774905663.51142, -15171875531.51559, 12053065338.62167, -5124939663.577472, 913311935.9512032, 67.5},
		{0.00337398766765, 111320.7020202162, 4481351.045890365, -23393751.19931662, 79682215.47186455, -115964993.2797253, 97236711.15602145, -43661946.33752821, 8477230.501135234, 52.5},
		{0.00220636496208, 111320.7020209128, 51751.86112841131, 3796837.749470245, 992013.7397791013, -1221952.21711287, 1340652.697009075, -620943.6990984312, 144416.9293806241, 37.5},
		{-0.0003441963504368392, 111320.7020576856, 278.2353980772752, 2485758.690035394, 6070.750963243378, 54821.18345352118, 9540.606633304236, -2710.55326746645, 1405.483844121726, 22.5},
		{-0.0003218135878613132, 111320.7020701615, 0.00369383431289, 823725.6402795718, 0.46104986909093, 2351.343141331292, 1.58060784298199, 8.77738589078284, 0.37238884252424, 7.45},
	}
)

func bd09ToBD09MC(lat, lon float64) (float64, float64) {
	lon = math.Max(-180, math.Min(180, lon))
	lat = math.Max(-74, math.Min(74, lat))
	c := ll2mc[len(ll2mc)-1]
	for i, band := range llBand {
		if math.Abs(lat) >= band {
			c = ll2mc[i]
			break
		}
	}
	x, y := mercatorConvert(lon, lat, c)
	return y, x
}

func bd09mcToBD09(y, x float64) (float64, float64) {
	c := mc2ll[len(mc2ll)-1]
	for i, band := range mcBand {
		if math.Abs(y) >= band {
			c = mc2ll[i]
			break
		}
	}
	lon, lat := mercatorConvert(x, y, c)
	return lat, lon
}

func mercatorConvert(x, y float64, c [10]float64) (float64, float64) {
	outX := c[0] + c[1]*math.Abs(x)
	cc := math.Abs(y) / c[9]
	outY := c[2] + c[3]*cc + c[4]*cc*cc + c[5]*math.Pow(cc, 3) + c[6]*math.Pow(cc, 4) + c[7]*math.Pow(cc, 5) + c[8]*math.Pow(cc, 6)
	if x < 0 {
		outX = -outX
	}
	if y < 0 {
		outY = -outY
	}
	return outX, outY
}

func gcj02ToBD09MC(lat, lon float64) (float64, float64) {
	return bd09ToBD09MC(gcj02ToBD09(lat, lon))
}

func bd09mcToGCJ02(y, x float64) (float64, float64) {
	return bd09ToGCJ02(bd09mcToBD09(y, x))
}
