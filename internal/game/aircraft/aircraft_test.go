package aircraft

import (
	"atc-planner/pkg/types"
	"math"
	"testing"
)

func TestNewAircraftNormalizesRotation(t *testing.T) {
	ac := NewAircraft("A1", types.NewVec2(0, 0), 270, 10, 5, 3)
	if ac.Rotation != -90 {
		t.Errorf("got rotation %g, expected -90", ac.Rotation)
	}
}

func TestSteerTurnsAtMostMaxRate(t *testing.T) {
	ac := NewAircraft("A1", types.NewVec2(0, 0), 0, 10, 5, 3)
	// Waypoint straight behind: needs a 180 degree turn.
	ac.Steer(types.NewVec2(0, -100), 1)
	if math.Abs(ac.Rotation) != MAX_TURN_PER_TICK {
		t.Errorf("turned to %g, expected +/-%g", ac.Rotation, MAX_TURN_PER_TICK)
	}
}

func TestSteerFliesStraightWhenAligned(t *testing.T) {
	ac := NewAircraft("A1", types.NewVec2(0, 0), 0, 10, 5, 3)
	ac.Steer(types.NewVec2(0, 100), 1)
	if ac.Rotation != 0 || ac.Position.X != 0 || math.Abs(ac.Position.Y-10) > 1e-9 {
		t.Errorf("unexpected state %+v", ac)
	}
}

func TestSteerDoesNotOvershoot(t *testing.T) {
	ac := NewAircraft("A1", types.NewVec2(0, 0), 0, 10, 5, 3)
	wp := types.NewVec2(0, 4)
	ac.Steer(wp, 1)
	if ac.Position != wp {
		t.Errorf("got %v, expected %v", ac.Position, wp)
	}
}

func TestPredict(t *testing.T) {
	ac := NewAircraft("A1", types.NewVec2(5, 5), 0, 10, 5, 3)
	if p := ac.Predict(2); p != types.NewVec2(5, 25) {
		t.Errorf("got %v", p)
	}
}
