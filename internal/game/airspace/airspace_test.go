package airspace

import (
	"testing"

	"atc-planner/pkg/types"
)

func TestNewAirspace(t *testing.T) {
	ap := NewAirspace(1000, 800, Runway{Position: types.NewVec2(500, 300)})

	if ap.Boundary.Min != types.NewVec2(0, 0) || ap.Boundary.Max != types.NewVec2(1000, 800) {
		t.Errorf("boundary = %+v", ap.Boundary)
	}
	if got := ap.Boundary.TopAreaHeight(ap.Runway); got != 300 {
		t.Errorf("top area height = %v, want 300", got)
	}
	for _, p := range ap.EntryPoints {
		if !ap.Boundary.Contains(p) {
			t.Errorf("entry point %v is outside the boundary", p)
		}
		if p.DistanceTo(ap.Runway.Position) < 100 {
			t.Errorf("entry point %v is too close to the runway", p)
		}
	}
}

func TestAddObstacle(t *testing.T) {
	ap := NewAirspace(100, 100, Runway{})
	a := ap.AddObstacle(types.Box{Min: types.NewVec2(1, 1), Max: types.NewVec2(2, 2)})
	b := ap.AddObstacle(types.Box{Min: types.NewVec2(5, 5), Max: types.NewVec2(6, 6)})

	if a.ID != "OBS1" || b.ID != "OBS2" {
		t.Errorf("ids = %s, %s", a.ID, b.ID)
	}
	if len(ap.Obstacles) != 2 || ap.Obstacles[1] != b {
		t.Errorf("obstacles = %v", ap.Obstacles)
	}
}
