package geom

// Edge names the side of a box a ray entered through.
type Edge uint8

const (
	EdgeNone Edge = iota
	EdgeTop
	EdgeRight
	EdgeBottom
	EdgeLeft
)

var edgeNames = [...]string{"none", "top", "right", "bottom", "left"}

func (e Edge) String() string {
	if int(e) < len(edgeNames) {
		return edgeNames[e]
	}
	return "invalid"
}

// Normal returns the outward unit normal of the edge.
func (e Edge) Normal() Vec {
	switch e {
	case EdgeTop:
		return Vec{0, -1}
	case EdgeRight:
		return Vec{1, 0}
	case EdgeBottom:
		return Vec{0, 1}
	case EdgeLeft:
		return Vec{-1, 0}
	}
	return Vec{}
}

// Intersection is the result of clipping a ray against a box.
// Point and ID are meaningful only when Edge != EdgeNone.
type Intersection struct {
	Edge  Edge
	Point Vec
	ID    string
}

func (i Intersection) Hit() bool { return i.Edge != EdgeNone }

// Outcode bits, Cohen-Sutherland style.
const (
	outInside = 0
	outLeft   = 1 << 0
	outRight  = 1 << 1
	outBottom = 1 << 2
	outTop    = 1 << 3
)

func outcode(p Vec, xmin, xmax, ymin, ymax float64) int {
	code := outInside
	if p.X < xmin {
		code |= outLeft
	} else if p.X > xmax {
		code |= outRight
	}
	if p.Y < ymin {
		code |= outTop
	} else if p.Y > ymax {
		code |= outBottom
	}
	return code
}

// IntersectBounds clips r against b. Outcodes are computed against b shrunk
// by wiggle on every side so a ray resting exactly on an edge it just hit
// does not hit it again.
func IntersectBounds(r Ray, b Bounds, wiggle float64) Intersection {
	xmin, ymin := b.TopLeft.X, b.TopLeft.Y
	xmax, ymax := xmin+b.W, ymin+b.H

	startCode := outcode(r.Start, xmin+wiggle, xmax-wiggle, ymin+wiggle, ymax-wiggle)
	endCode := outcode(r.End, xmin+wiggle, xmax-wiggle, ymin+wiggle, ymax-wiggle)

	if startCode&endCode != 0 {
		return Intersection{}
	}
	if startCode == outInside {
		return snapToNearestEdge(r, b)
	}

	topLeft := Vec{xmin, ymin}
	topRight := Vec{xmax, ymin}
	bottomLeft := Vec{xmin, ymax}
	bottomRight := Vec{xmax, ymax}

	edges := [...]struct {
		bit  int
		edge Edge
		seg  Ray
	}{
		{outTop, EdgeTop, Ray{topLeft, topRight}},
		{outRight, EdgeRight, Ray{topRight, bottomRight}},
		{outBottom, EdgeBottom, Ray{bottomLeft, bottomRight}},
		{outLeft, EdgeLeft, Ray{topLeft, bottomLeft}},
	}
	for _, e := range edges {
		if startCode&e.bit == 0 {
			continue
		}
		if p, ok := SegmentIntersection(r, e.seg); ok {
			return Intersection{Edge: e.edge, Point: p, ID: b.ID}
		}
	}
	return Intersection{}
}

// snapToNearestEdge handles a ray that starts inside the box, which only
// happens through floating point drift. The start is pushed to the closest
// edge by axis distance; ties go to the edge the ray is heading towards.
func snapToNearestEdge(r Ray, b Bounds) Intersection {
	xmin, ymin := b.TopLeft.X, b.TopLeft.Y
	xmax, ymax := xmin+b.W, ymin+b.H
	s := r.Start
	dir := r.Delta()

	candidates := [...]struct {
		edge  Edge
		dist  float64
		point Vec
	}{
		{EdgeLeft, s.X - xmin, Vec{xmin, s.Y}},
		{EdgeRight, xmax - s.X, Vec{xmax, s.Y}},
		{EdgeTop, s.Y - ymin, Vec{s.X, ymin}},
		{EdgeBottom, ymax - s.Y, Vec{s.X, ymax}},
	}

	best := 0
	for i := 1; i < len(candidates); i++ {
		c, cur := candidates[i], candidates[best]
		if c.dist < cur.dist || (c.dist == cur.dist && dir.Dot(c.edge.Normal()) > dir.Dot(cur.edge.Normal())) {
			best = i
		}
	}
	c := candidates[best]
	return Intersection{Edge: c.edge, Point: c.point, ID: b.ID}
}
