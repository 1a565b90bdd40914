package trajectory

import (
	"atc-planner/internal/game/aircraft"
	"atc-planner/internal/game/airspace"
	"atc-planner/pkg/types"
	"math"
	"testing"
)

func TestCircleRadius(t *testing.T) {
	hc := NewHoldingCache()
	a := aircraft.NewAircraft("A", types.Vec2{}, 0, 2*math.Pi, 5, 3)
	b := aircraft.NewAircraft("B", types.Vec2{}, 0, 2*math.Pi, 5, 4)
	c := aircraft.NewAircraft("C", types.Vec2{}, 0, 2*math.Pi, 5, 4)

	if r := hc.CircleRadius(a); math.Abs(r-50) > 1e-9 {
		t.Errorf("A radius %g, expected 50", r)
	}
	if r := hc.CircleRadius(b); math.Abs(r-54) > 1e-9 {
		t.Errorf("B radius %g, expected 54", r)
	}
	// 50 and 54 are both taken.
	if r := hc.CircleRadius(c); math.Abs(r-58) > 1e-9 {
		t.Errorf("C radius %g, expected 58", r)
	}
	// Cached per aircraft, so asking again doesn't pad again.
	if r := hc.CircleRadius(a); math.Abs(r-50) > 1e-9 {
		t.Errorf("A radius changed to %g", r)
	}
}

func TestCirclePoints(t *testing.T) {
	hc := NewHoldingCache()
	rwy := airspace.Runway{Position: types.NewVec2(100, 100)}
	ac := aircraft.NewAircraft("A", types.Vec2{}, 0, 2*math.Pi, 5, 3)

	pts := hc.CirclePoints(ac, rwy)
	if len(pts) != CIRCLE_POINTS {
		t.Fatalf("got %d points", len(pts))
	}
	for i, p := range pts {
		if d := p.DistanceTo(rwy.Position); math.Abs(d-50) > 1e-9 {
			t.Errorf("point %d at distance %g", i, d)
		}
	}
	if pts[0].DistanceTo(types.NewVec2(150, 100)) > 1e-9 {
		t.Errorf("first point %v", pts[0])
	}
}

func TestNextCirclePoint(t *testing.T) {
	hc := NewHoldingCache()
	rwy := airspace.Runway{Position: types.NewVec2(0, 0)}

	far := aircraft.NewAircraft("A", types.NewVec2(80, 0), 0, 2*math.Pi, 5, 3)
	pts := hc.CirclePoints(far, rwy)
	if got := hc.NextCirclePoint(far, rwy); got != pts[0] {
		t.Errorf("expected nearest point %v, got %v", pts[0], got)
	}

	far.Position = types.NewVec2(52, 0)
	if got := hc.NextCirclePoint(far, rwy); got != pts[1] {
		t.Errorf("expected next point %v, got %v", pts[1], got)
	}

	far.Position = pts[CIRCLE_POINTS-1]
	if got := hc.NextCirclePoint(far, rwy); got != pts[0] {
		t.Errorf("expected wraparound to %v, got %v", pts[0], got)
	}
}

func TestHoldingCacheForget(t *testing.T) {
	hc := NewHoldingCache()
	rwy := airspace.Runway{}
	a := aircraft.NewAircraft("A", types.Vec2{}, 0, 10, 5, 3)
	b := aircraft.NewAircraft("B", types.Vec2{}, 0, 10, 5, 3)
	hc.CirclePoints(a, rwy)
	hc.CirclePoints(b, rwy)

	hc.Forget(map[types.AircraftID]bool{"B": true})
	if _, ok := hc.Radius["A"]; ok {
		t.Error("A radius not forgotten")
	}
	if _, ok := hc.Points["A"]; ok {
		t.Error("A points not forgotten")
	}
	if _, ok := hc.Points["B"]; !ok {
		t.Error("B points dropped")
	}
}

func TestZeroValueHoldingCache(t *testing.T) {
	var hc HoldingCache
	ac := aircraft.NewAircraft("A", types.Vec2{}, 0, 10, 5, 3)
	if len(hc.CirclePoints(ac, airspace.Runway{})) != CIRCLE_POINTS {
		t.Error("zero value cache should work")
	}
}
