package planner

import (
	"atc-planner/pkg/types"
	"errors"
	"fmt"
)

// ErrMalformedInput is wrapped by every error caused by a bad tick
// snapshot.
var ErrMalformedInput = errors.New("malformed tick input")

func malformed(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedInput, fmt.Sprintf(format, args...))
}

// Validate checks the snapshot before any planning happens, so a bad
// snapshot never produces partial decisions.
func (st TickState) Validate() error {
	if !st.Runway.Position.IsFinite() || !types.IsFinite(st.Runway.Heading) {
		return malformed("runway has non-finite coordinates %v", st.Runway.Position)
	}
	if !st.Boundary.Min.IsFinite() || !st.Boundary.Max.IsFinite() {
		return malformed("boundary has non-finite coordinates")
	}

	seen := make(map[types.AircraftID]bool)
	for i, e := range st.Objects {
		switch v := e.(type) {
		case Plane:
			if v.Aircraft == nil {
				return malformed("object %d: nil aircraft", i)
			}
			ac := v.Aircraft
			if ac.ID == "" {
				return malformed("object %d: aircraft has no id", i)
			}
			if seen[ac.ID] {
				return malformed("aircraft %s appears more than once", ac.ID)
			}
			seen[ac.ID] = true
			if !ac.Position.IsFinite() {
				return malformed("aircraft %s: non-finite position %v", ac.ID, ac.Position)
			}
			if !types.IsFinite(ac.Rotation, ac.Speed, ac.TurnSpeed, ac.CollisionRadius, ac.Fuel, ac.Score) {
				return malformed("aircraft %s: non-finite flight parameter", ac.ID)
			}
			if ac.CollisionRadius <= 0 {
				return malformed("aircraft %s: collision_radius must be positive, got %g", ac.ID, ac.CollisionRadius)
			}
		case Block:
			if v.Obstacle == nil {
				return malformed("object %d: nil obstacle", i)
			}
			b := v.Boundary
			if !b.Min.IsFinite() || !b.Max.IsFinite() {
				return malformed("obstacle %d: non-finite boundary", i)
			}
		case nil:
			return malformed("object %d is nil", i)
		default:
			return malformed("object %d has unknown type %T", i, e)
		}
	}
	return nil
}
