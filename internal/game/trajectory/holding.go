package trajectory

import (
	"atc-planner/internal/game/aircraft"
	"atc-planner/internal/game/airspace"
	"atc-planner/pkg/types"
	"math"
)

const (
	CIRCLE_POINTS = 32
	// CIRCLE_ADVANCE is how close an aircraft must be to its nearest circle
	// point before it is sent on to the next one.
	CIRCLE_ADVANCE = 10.0
	radiusEpsilon  = 1e-6
)

// HoldingCache remembers each aircraft's holding circle across ticks.
// Entries are keyed by aircraft id.
type HoldingCache struct {
	Radius map[types.AircraftID]float64
	Points map[types.AircraftID][]types.Vec2
}

func NewHoldingCache() HoldingCache {
	return HoldingCache{
		Radius: make(map[types.AircraftID]float64),
		Points: make(map[types.AircraftID][]types.Vec2),
	}
}

func (hc *HoldingCache) init() {
	if hc.Radius == nil {
		hc.Radius = make(map[types.AircraftID]float64)
	}
	if hc.Points == nil {
		hc.Points = make(map[types.AircraftID][]types.Vec2)
	}
}

// CircleRadius returns ac's holding radius, speed*50/2π, pushed outward by
// collision_radius for as long as it would coincide with another aircraft's
// circle.
func (hc *HoldingCache) CircleRadius(ac *aircraft.Aircraft) float64 {
	hc.init()
	if r, ok := hc.Radius[ac.ID]; ok {
		return r
	}

	r := ac.Speed * 50 / (2 * math.Pi)
	for taken := ac.CollisionRadius > 0; taken; {
		taken = false
		for id, other := range hc.Radius {
			if id != ac.ID && math.Abs(other-r) < radiusEpsilon {
				r += ac.CollisionRadius
				taken = true
				break
			}
		}
	}
	hc.Radius[ac.ID] = r
	return r
}

func (hc *HoldingCache) CirclePoints(ac *aircraft.Aircraft, rwy airspace.Runway) []types.Vec2 {
	hc.init()
	if pts, ok := hc.Points[ac.ID]; ok {
		return pts
	}

	r := hc.CircleRadius(ac)
	inc := 2 * math.Pi / CIRCLE_POINTS
	pts := make([]types.Vec2, CIRCLE_POINTS)
	for i := range pts {
		pts[i] = types.NewVec2(
			rwy.Position.X+r*math.Cos(float64(i)*inc),
			rwy.Position.Y+r*math.Sin(float64(i)*inc))
	}
	hc.Points[ac.ID] = pts
	return pts
}

// NextCirclePoint returns the circle point nearest to ac, or the one after
// it once ac is within CIRCLE_ADVANCE of the nearest.
func (hc *HoldingCache) NextCirclePoint(ac *aircraft.Aircraft, rwy airspace.Runway) types.Vec2 {
	pts := hc.CirclePoints(ac, rwy)

	best, bestDist := 0, math.MaxFloat64
	for i, p := range pts {
		if d := ac.Position.DistanceTo(p); d < bestDist {
			best, bestDist = i, d
		}
	}
	if bestDist < CIRCLE_ADVANCE {
		best = (best + 1) % len(pts)
	}
	return pts[best]
}

// Forget drops cached circles for aircraft that are no longer present.
func (hc *HoldingCache) Forget(present map[types.AircraftID]bool) {
	for id := range hc.Radius {
		if !present[id] {
			delete(hc.Radius, id)
		}
	}
	for id := range hc.Points {
		if !present[id] {
			delete(hc.Points, id)
		}
	}
}
