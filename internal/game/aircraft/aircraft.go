package aircraft

import (
	"atc-planner/pkg/types"
	"math"
)

// MAX_TURN_PER_TICK bounds how far the integrator turns an aircraft toward
// its waypoint in one second of simulated time.
const MAX_TURN_PER_TICK = 10.0

type Aircraft struct {
	ID              types.AircraftID
	Position        types.Vec2
	Rotation        float64
	Speed           float64
	TurnSpeed       float64
	CollisionRadius float64
	Fuel            float64
	Score           float64
	Category        string
}

func NewAircraft(id types.AircraftID, pos types.Vec2, rotation, speed, turnSpeed, collisionRadius float64) *Aircraft {
	return &Aircraft{
		ID:              id,
		Position:        pos,
		Rotation:        types.NormalizeHeading(rotation),
		Speed:           speed,
		TurnSpeed:       turnSpeed,
		CollisionRadius: collisionRadius,
		Category:        "plane",
	}
}

// Predict returns where the aircraft will be after dt at its current
// heading and speed.
func (ac *Aircraft) Predict(dt float64) types.Vec2 {
	return types.Project(ac.Position, ac.Rotation, ac.Speed, dt)
}

// Steer is the movement integrator used outside the planner: it turns the
// aircraft toward waypoint by at most MAX_TURN_PER_TICK*dt degrees and then
// moves it forward by Speed*dt.
func (ac *Aircraft) Steer(waypoint types.Vec2, dt float64) {
	dist := ac.Position.DistanceTo(waypoint)
	aligned := false
	if dist > 1e-9 {
		target := ac.Position.HeadingTo(waypoint)
		diff := types.NormalizeHeading(target - ac.Rotation)
		maxTurn := MAX_TURN_PER_TICK * dt
		if math.Abs(diff) <= maxTurn {
			ac.Rotation = target
			aligned = true
		} else if diff > 0 {
			ac.Rotation = types.NormalizeHeading(ac.Rotation + maxTurn)
		} else {
			ac.Rotation = types.NormalizeHeading(ac.Rotation - maxTurn)
		}
	}

	if aligned && dist < ac.Speed*dt {
		// Don't overshoot a waypoint we're lined up on.
		ac.Position = waypoint
		return
	}
	ac.Position = types.Project(ac.Position, ac.Rotation, ac.Speed, dt)
}
