package geom

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestSegmentIntersection(t *testing.T) {
	tests := []struct {
		name string
		a, b Ray
		want Vec
		ok   bool
	}{
		{"cross", Ray{V(0, 0), V(10, 10)}, Ray{V(0, 10), V(10, 0)}, V(5, 5), true},
		{"parallel", Ray{V(0, 0), V(10, 0)}, Ray{V(0, 1), V(10, 1)}, Vec{}, false},
		{"short of segment", Ray{V(0, 0), V(4, 4)}, Ray{V(0, 10), V(10, 0)}, Vec{}, false},
		{"touching endpoint", Ray{V(0, 0), V(5, 5)}, Ray{V(0, 10), V(10, 0)}, V(5, 5), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SegmentIntersection(tt.a, tt.b)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && (!almostEqual(got.X, tt.want.X) || !almostEqual(got.Y, tt.want.Y)) {
				t.Errorf("point = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestIntersectBoundsStartInsideSnapsTowardsMotion(t *testing.T) {
	box := Bounds{ID: "box", TopLeft: V(0, 0), W: 50, H: 50}
	got := IntersectBounds(Ray{V(25, 25), V(100, 25)}, box, 1)

	if got.Edge != EdgeRight {
		t.Fatalf("edge = %v, want right", got.Edge)
	}
	if !got.Point.Equal(V(50, 25)) {
		t.Errorf("point = %+v, want (50,25)", got.Point)
	}
	if got.ID != "box" {
		t.Errorf("id = %q, want box", got.ID)
	}
}

func TestIntersectBoundsStartInsideNearestEdge(t *testing.T) {
	box := Bounds{ID: "box", TopLeft: V(0, 0), W: 50, H: 50}
	got := IntersectBounds(Ray{V(10, 3), V(10, 100)}, box, 1)
	if got.Edge != EdgeTop || !got.Point.Equal(V(10, 0)) {
		t.Errorf("got %v at %+v, want top at (10,0)", got.Edge, got.Point)
	}
}

func TestIntersectBoundsEdges(t *testing.T) {
	box := Bounds{ID: "b", TopLeft: V(0, 0), W: 50, H: 50}
	tests := []struct {
		name  string
		ray   Ray
		edge  Edge
		point Vec
	}{
		{"from left", Ray{V(-10, 25), V(20, 25)}, EdgeLeft, V(0, 25)},
		{"from right", Ray{V(80, 10), V(40, 10)}, EdgeRight, V(50, 10)},
		{"from above", Ray{V(20, -30), V(20, 30)}, EdgeTop, V(20, 0)},
		{"from below", Ray{V(20, 90), V(20, 30)}, EdgeBottom, V(20, 50)},
		{"diagonal top first", Ray{V(-10, -10), V(30, 30)}, EdgeTop, V(0, 0)},
		{"miss same side", Ray{V(-10, -10), V(-5, 60)}, EdgeNone, Vec{}},
		{"miss corner", Ray{V(40, -20), V(70, 10)}, EdgeNone, Vec{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IntersectBounds(tt.ray, box, 1)
			if got.Edge != tt.edge {
				t.Fatalf("edge = %v, want %v", got.Edge, tt.edge)
			}
			if got.Hit() && (!almostEqual(got.Point.X, tt.point.X) || !almostEqual(got.Point.Y, tt.point.Y)) {
				t.Errorf("point = %+v, want %+v", got.Point, tt.point)
			}
		})
	}
}

func TestIntersectBoundsRestingOnEdgeMovingAway(t *testing.T) {
	box := Bounds{TopLeft: V(0, 0), W: 50, H: 50}
	got := IntersectBounds(Ray{V(0, 25), V(-40, 25)}, box, 1)
	if got.Hit() {
		t.Errorf("ray leaving from the edge hit %v", got.Edge)
	}
}

func TestReflectDamped(t *testing.T) {
	v := V(10, 5)
	if got := v.ReflectDamped(EdgeLeft.Normal(), 1); !got.Equal(V(-10, 5)) {
		t.Errorf("perfect bounce = %+v, want (-10,5)", got)
	}
	if got := v.ReflectDamped(EdgeLeft.Normal(), 0); !got.Equal(V(0, 5)) {
		t.Errorf("dead bounce = %+v, want (0,5)", got)
	}
	if got := v.Reflect(EdgeTop.Normal()); !got.Equal(V(10, -5)) {
		t.Errorf("reflect = %+v, want (10,-5)", got)
	}
}

func TestIntegratePosition(t *testing.T) {
	got := IntegratePosition(V(0, 0), V(10, 0), V(0, 2), 2)
	if !got.Equal(V(20, 4)) {
		t.Errorf("got %+v, want (20,4)", got)
	}
}
