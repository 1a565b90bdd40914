// Package landing sequences aircraft onto the single runway. Only one
// aircraft at a time holds a landing clearance, and it keeps it until it
// touches down or disappears from the simulation.
package landing

import (
	"atc-planner/internal/game/aircraft"
	"atc-planner/internal/game/airspace"
	"atc-planner/pkg/types"
	"math"
)

const (
	TOUCHDOWN_DISTANCE  = 5.0
	MAX_TOUCHDOWN_ANGLE = 87.0
)

// Sequence is the cross-tick landing state a scheduler works on.
type Sequence struct {
	AssignedLander types.AircraftID
	LandedCount    int
	Landed         map[types.AircraftID]bool
}

func (s *Sequence) HasLander() bool {
	return s.AssignedLander != ""
}

type Event struct {
	AircraftID  types.AircraftID
	Position    types.Vec2
	LandedCount int
}

// IsEligible reports whether ac has entered the approach half-plane.
func IsEligible(ac *aircraft.Aircraft, rwy airspace.Runway) bool {
	return ac.Position.Y <= rwy.Position.Y
}

// HasLanded requires ac to be both close to the runway and roughly aligned
// with it; passing over the runway at a steep angle doesn't count.
func HasLanded(ac *aircraft.Aircraft, rwy airspace.Runway) bool {
	return ac.Position.DistanceTo(rwy.Position) < TOUCHDOWN_DISTANCE &&
		types.HeadingDifference(ac.Rotation, rwy.Heading) <= MAX_TOUCHDOWN_ANGLE
}

// SelectNextLander returns the aircraft holding the landing clearance,
// choosing a new one if nobody holds it. An assignment whose aircraft is no
// longer present is dropped. Among eligible aircraft the one strictly
// closest to the runway wins; ties go to the first one in acs. Returns nil
// if no aircraft is eligible.
func SelectNextLander(seq *Sequence, acs []*aircraft.Aircraft, rwy airspace.Runway) *aircraft.Aircraft {
	if seq.HasLander() {
		for _, ac := range acs {
			if ac.ID == seq.AssignedLander {
				return ac
			}
		}
		seq.AssignedLander = ""
	}

	var best *aircraft.Aircraft
	bestDist := math.MaxFloat64
	for _, ac := range acs {
		if seq.Landed[ac.ID] || !IsEligible(ac, rwy) {
			continue
		}
		if d := ac.Position.DistanceTo(rwy.Position); d < bestDist {
			bestDist = d
			best = ac
		}
	}
	if best != nil {
		seq.AssignedLander = best.ID
	}
	return best
}

// RecordLanding books a touchdown of the assigned aircraft and releases its
// clearance. Touchdowns by aircraft without the clearance are not counted.
func RecordLanding(seq *Sequence, ac *aircraft.Aircraft) (Event, bool) {
	if !seq.HasLander() || ac.ID != seq.AssignedLander || seq.Landed[ac.ID] {
		return Event{}, false
	}
	if seq.Landed == nil {
		seq.Landed = make(map[types.AircraftID]bool)
	}
	seq.Landed[ac.ID] = true
	seq.LandedCount++
	seq.AssignedLander = ""
	return Event{AircraftID: ac.ID, Position: ac.Position, LandedCount: seq.LandedCount}, true
}

// Forget drops bookkeeping for aircraft that are no longer present.
func Forget(seq *Sequence, present map[types.AircraftID]bool) {
	for id := range seq.Landed {
		if !present[id] {
			delete(seq.Landed, id)
		}
	}
}
