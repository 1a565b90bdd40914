package types

import (
	"math"
	"testing"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestProjectHeadingZero(t *testing.T) {
	for _, speed := range []float64{0, 1, 10, 250.5} {
		for _, dt := range []float64{0, 0.5, 2, 3} {
			p := Project(NewVec2(12, -7), 0, speed, dt)
			if p.X != 12 {
				t.Errorf("speed %g dt %g: x moved to %g", speed, dt, p.X)
			}
			if !near(p.Y, -7+speed*dt) {
				t.Errorf("speed %g dt %g: got y %g, expected %g", speed, dt, p.Y, -7+speed*dt)
			}
		}
	}
}

func TestProjectQuarterTurns(t *testing.T) {
	tests := []struct {
		heading float64
		want    Vec2
	}{
		{90, NewVec2(-10, 0)},
		{-90, NewVec2(10, 0)},
		{180, NewVec2(0, -10)},
	}
	for _, tc := range tests {
		p := Project(Vec2{}, tc.heading, 5, 2)
		if !near(p.X, tc.want.X) || !near(p.Y, tc.want.Y) {
			t.Errorf("heading %g: got %v, expected %v", tc.heading, p, tc.want)
		}
	}
}

func TestDistance(t *testing.T) {
	pts := []Vec2{{0, 0}, {3, 4}, {-1.5, 2}, {100, -100}}
	for _, a := range pts {
		if d := Distance(a, a); d != 0 {
			t.Errorf("distance(%v, %v) = %g", a, a, d)
		}
		for _, b := range pts {
			if Distance(a, b) != Distance(b, a) {
				t.Errorf("distance not symmetric for %v, %v", a, b)
			}
		}
	}
	if d := Distance(NewVec2(0, 0), NewVec2(3, 4)); d != 5 {
		t.Errorf("got %g, expected 5", d)
	}
}

func TestNormalizeHeading(t *testing.T) {
	tests := map[float64]float64{
		0:    0,
		180:  180,
		-180: 180,
		-181: 179,
		181:  -179,
		270:  -90,
		-270: 90,
		540:  180,
		-720: 0,
	}
	for in, want := range tests {
		if got := NormalizeHeading(in); !near(got, want) {
			t.Errorf("NormalizeHeading(%g) = %g, expected %g", in, got, want)
		}
	}
}

func TestHeadingDifference(t *testing.T) {
	if d := HeadingDifference(170, -170); !near(d, 20) {
		t.Errorf("got %g, expected 20", d)
	}
	if d := HeadingDifference(-87, 0); !near(d, 87) {
		t.Errorf("got %g, expected 87", d)
	}
}

func TestHeadingTo(t *testing.T) {
	from := NewVec2(10, 10)
	for _, h := range []float64{0, 45, 90, -90, 135, 180} {
		to := Project(from, h, 1, 20)
		if got := from.HeadingTo(to); HeadingDifference(got, h) > 1e-6 {
			t.Errorf("heading %g: got %g", h, got)
		}
	}
}

func TestBoxIntersects(t *testing.T) {
	a := BoxAround(NewVec2(0, 0), 10)
	tests := []struct {
		name string
		b    Box
		want bool
	}{
		{"overlap", BoxAround(NewVec2(4, 4), 10), true},
		{"shared edge", BoxAround(NewVec2(10, 0), 10), true},
		{"apart in x", BoxAround(NewVec2(10.5, 0), 10), false},
		{"apart in y", BoxAround(NewVec2(0, -11), 10), false},
		{"contained", BoxAround(NewVec2(1, 1), 2), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := a.Intersects(tc.b); got != tc.want {
				t.Errorf("got %v, expected %v", got, tc.want)
			}
			if got := tc.b.Intersects(a); got != tc.want {
				t.Errorf("reversed: got %v, expected %v", got, tc.want)
			}
		})
	}
}

func TestBezierEndpoints(t *testing.T) {
	pts := []Vec2{{0, 0}, {0, 10}, {10, 10}, {10, 0}}
	if p := Bezier(pts, 0); p != pts[0] {
		t.Errorf("t=0: got %v", p)
	}
	if p := Bezier(pts, 1); !near(p.X, 10) || !near(p.Y, 0) {
		t.Errorf("t=1: got %v", p)
	}
	// Cubic Bernstein weights at t=0.2 are .512, .384, .096, .008.
	p := Bezier(pts, 0.2)
	wantX := .096*10 + .008*10
	wantY := .384*10 + .096*10
	if !near(p.X, wantX) || !near(p.Y, wantY) {
		t.Errorf("t=0.2: got %v, expected (%g, %g)", p, wantX, wantY)
	}
}
