package trajectory

import (
	"atc-planner/internal/game/aircraft"
	"atc-planner/internal/game/airspace"
	"atc-planner/internal/game/landing"
	"atc-planner/pkg/types"
)

const (
	ANCHOR_HEADING = 30.0
	// CONTROL_TIME is how far, in ticks at turn_speed, the inner control
	// points sit from the curve's endpoints.
	CONTROL_TIME = 3.0
	LOOKAHEAD_T  = 0.2
	AVOID_TURN   = -90.0
)

// DirectApproachPossible is true once ac may fly straight at the runway.
func DirectApproachPossible(ac *aircraft.Aircraft, rwy airspace.Runway) bool {
	return landing.IsEligible(ac, rwy)
}

// turnsLeft picks which side of the runway an aircraft approaches from.
func turnsLeft(ac *aircraft.Aircraft) bool {
	return ac.Rotation < 0
}

// LandingAnchor is the far end of the approach curve: half the top area
// height below the runway, and to the right of it for aircraft with
// negative rotation or to the left otherwise.
func LandingAnchor(ac *aircraft.Aircraft, rwy airspace.Runway, bounds airspace.Boundary) types.Vec2 {
	off := bounds.TopAreaHeight(rwy) / 2
	if turnsLeft(ac) {
		return types.NewVec2(rwy.Position.X+off, rwy.Position.Y-off)
	}
	return types.NewVec2(rwy.Position.X-off, rwy.Position.Y-off)
}

func AnchorHeading(ac *aircraft.Aircraft) float64 {
	if turnsLeft(ac) {
		return ANCHOR_HEADING
	}
	return -ANCHOR_HEADING
}

// ApproachCurve returns the cubic Bézier control polygon from ac's
// position to its landing anchor.
func ApproachCurve(ac *aircraft.Aircraft, rwy airspace.Runway, bounds airspace.Boundary) []types.Vec2 {
	anchor := LandingAnchor(ac, rwy, bounds)
	reversed := types.ReverseHeading(AnchorHeading(ac))
	return []types.Vec2{
		ac.Position,
		types.Project(ac.Position, ac.Rotation, ac.TurnSpeed, CONTROL_TIME),
		types.Project(anchor, reversed, ac.TurnSpeed, CONTROL_TIME),
		anchor,
	}
}

// ApproachWaypoint is a short lookahead point on the approach curve, so
// the aircraft eases into the turn instead of snapping to a new heading.
func ApproachWaypoint(ac *aircraft.Aircraft, rwy airspace.Runway, bounds airspace.Boundary) types.Vec2 {
	return types.Bezier(ApproachCurve(ac, rwy, bounds), LOOKAHEAD_T)
}

// Waypoint flies eligible aircraft straight at the runway and everyone
// else along the approach curve.
func Waypoint(ac *aircraft.Aircraft, rwy airspace.Runway, bounds airspace.Boundary) types.Vec2 {
	if DirectApproachPossible(ac, rwy) {
		return rwy.Position
	}
	return ApproachWaypoint(ac, rwy, bounds)
}

// AvoidanceWaypoint is a short evasive hop 90 degrees to the right of the
// current heading.
func AvoidanceWaypoint(ac *aircraft.Aircraft) types.Vec2 {
	return types.Project(ac.Position, AvoidanceHeading(ac), ac.TurnSpeed, 1)
}

func AvoidanceHeading(ac *aircraft.Aircraft) float64 {
	return types.NormalizeHeading(ac.Rotation + AVOID_TURN)
}
