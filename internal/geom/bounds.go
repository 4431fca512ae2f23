package geom

// Bounds is an axis-aligned box owned by ID.
type Bounds struct {
	ID      string  `json:"id,omitempty"`
	TopLeft Vec     `json:"topLeft"`
	W       float64 `json:"w"`
	H       float64 `json:"h"`
}

func (b Bounds) Min() Vec { return b.TopLeft }
func (b Bounds) Max() Vec { return Vec{b.TopLeft.X + b.W, b.TopLeft.Y + b.H} }

func (b Bounds) Center() Vec {
	return Vec{b.TopLeft.X + b.W/2, b.TopLeft.Y + b.H/2}
}

// Contains reports whether p lies inside b, edges included.
func (b Bounds) Contains(p Vec) bool {
	m := b.Max()
	return p.X >= b.TopLeft.X && p.X <= m.X && p.Y >= b.TopLeft.Y && p.Y <= m.Y
}

// Overlaps reports whether b and o share any area, edges included.
func (b Bounds) Overlaps(o Bounds) bool {
	bm, om := b.Max(), o.Max()
	return b.TopLeft.X <= om.X && o.TopLeft.X <= bm.X && b.TopLeft.Y <= om.Y && o.TopLeft.Y <= bm.Y
}

// Ray is a directed segment from Start to End.
type Ray struct {
	Start Vec
	End   Vec
}

func (r Ray) Delta() Vec   { return r.End.Sub(r.Start) }
func (r Ray) Len() float64 { return r.Start.Dist(r.End) }

// SegmentIntersection solves a.Start + t·da = b.Start + u·db for t,u in [0,1].
// Parallel segments never intersect.
func SegmentIntersection(a, b Ray) (Vec, bool) {
	da := a.Delta()
	db := b.Delta()

	denom := da.Cross(db)
	if denom == 0 {
		return Vec{}, false
	}

	ds := b.Start.Sub(a.Start)
	t := ds.Cross(db) / denom
	if t < 0 || t > 1 {
		return Vec{}, false
	}
	u := ds.Cross(da) / denom
	if u < 0 || u > 1 {
		return Vec{}, false
	}

	return Vec{X: da.X*t + a.Start.X, Y: da.Y*t + a.Start.Y}, true
}
