package geom

import "math"

// Vec is a 2D vector in world space. Y grows downward.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func V(x, y float64) Vec { return Vec{X: x, Y: y} }

func (a Vec) Add(b Vec) Vec        { return Vec{a.X + b.X, a.Y + b.Y} }
func (a Vec) Sub(b Vec) Vec        { return Vec{a.X - b.X, a.Y - b.Y} }
func (a Vec) Scale(s float64) Vec  { return Vec{a.X * s, a.Y * s} }
func (a Vec) Dot(b Vec) float64    { return a.X*b.X + a.Y*b.Y }
func (a Vec) Cross(b Vec) float64  { return a.X*b.Y - a.Y*b.X }
func (a Vec) LenSq() float64       { return a.X*a.X + a.Y*a.Y }
func (a Vec) Len() float64         { return math.Sqrt(a.LenSq()) }
func (a Vec) DistSq(b Vec) float64 { return b.Sub(a).LenSq() }
func (a Vec) Dist(b Vec) float64   { return math.Sqrt(a.DistSq(b)) }
func (a Vec) IsZero() bool         { return a.X == 0 && a.Y == 0 }
func (a Vec) Equal(b Vec) bool     { return a.X == b.X && a.Y == b.Y }
func (a Vec) Mul(b Vec) Vec        { return Vec{a.X * b.X, a.Y * b.Y} }

// Reflect mirrors a about the unit normal n: a - 2(a·n)n.
func (a Vec) Reflect(n Vec) Vec {
	d := 2 * a.Dot(n)
	return Vec{a.X - d*n.X, a.Y - d*n.Y}
}

// ReflectDamped mirrors the normal component of a scaled by bounce.
// bounce=1 is a perfect mirror, bounce=0 cancels the normal component.
func (a Vec) ReflectDamped(n Vec, bounce float64) Vec {
	d := (1 + bounce) * a.Dot(n)
	return Vec{a.X - d*n.X, a.Y - d*n.Y}
}

// IntegratePosition1D returns pos + vel·t + ½·acc·t².
func IntegratePosition1D(pos, vel, acc, t float64) float64 {
	return pos + vel*t + 0.5*acc*t*t
}

// IntegratePosition applies IntegratePosition1D per axis.
func IntegratePosition(pos, vel, acc Vec, t float64) Vec {
	return Vec{
		X: IntegratePosition1D(pos.X, vel.X, acc.X, t),
		Y: IntegratePosition1D(pos.Y, vel.Y, acc.Y, t),
	}
}
