package geo

// Position is the result of parsing one shared link. The last point is the
// primary one; points found later during parsing are appended and therefore
// take precedence. Q holds a place name or search text when no point could
// be found, and Zoom is the default zoom (0 when unknown).
type Position struct {
	Points []Point
	Q      string
	Zoom   float64
}

// NewPosition returns a position holding the given points.
func NewPosition(points ...Point) Position {
	return Position{Points: points}
}

// MainPoint returns the last point.
func (p Position) MainPoint() (Point, bool) {
	if len(p.Points) == 0 {
		return Point{}, false
	}
	return p.Points[len(p.Points)-1], true
}

// HasPoints reports whether at least one point was found.
func (p Position) HasPoints() bool { return len(p.Points) > 0 }

// Empty reports whether the position carries nothing useful.
func (p Position) Empty() bool { return len(p.Points) == 0 && p.Q == "" }

// EffectiveZoom returns the main point's zoom, falling back to the default.
func (p Position) EffectiveZoom() float64 {
	if pt, ok := p.MainPoint(); ok && pt.Zoom != 0 {
		return pt.Zoom
	}
	return p.Zoom
}

// Merge appends the points of other and fills in the name and zoom defaults
// p does not have yet.
func (p Position) Merge(other Position) Position {
	out := Position{Q: p.Q, Zoom: p.Zoom}
	out.Points = append(append([]Point(nil), p.Points...), other.Points...)
	if out.Q == "" {
		out.Q = other.Q
	}
	if out.Zoom == 0 {
		out.Zoom = other.Zoom
	}
	return out
}

// AsWGS84 converts every point to WGS84.
func (p Position) AsWGS84() Position {
	return p.mapPoints(Point.AsWGS84)
}

// AsGCJ02 converts every point to GCJ02.
func (p Position) AsGCJ02() Position {
	return p.mapPoints(Point.AsGCJ02)
}

// AsBD09MC converts every point to BD09MC.
func (p Position) AsBD09MC() Position {
	return p.mapPoints(Point.AsBD09MC)
}

func (p Position) mapPoints(f func(Point) Point) Position {
	if len(p.Points) == 0 {
		return p
	}
	out := p
	out.Points = make([]Point, len(p.Points))
	for i, pt := range p.Points {
		out.Points[i] = f(pt)
	}
	return out
}
