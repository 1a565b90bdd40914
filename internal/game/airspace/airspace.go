package airspace

import (
	"atc-planner/pkg/types"
	"fmt"
)

// Airspace is the static part of a simulation: the playable area, the
// single runway and any obstacles. Nothing in it changes once built.
type Airspace struct {
	Boundary  Boundary
	Runway    Runway
	Obstacles []*Obstacle

	EntryPoints []types.Vec2
}

func NewAirspace(width, height float64, runway Runway) *Airspace {
	ap := &Airspace{
		Boundary: Boundary{Min: types.NewVec2(0, 0), Max: types.NewVec2(width, height)},
		Runway:   runway,
	}

	// Traffic enters along the far edge and the two sides, never right on
	// top of the runway.
	ap.EntryPoints = []types.Vec2{
		types.NewVec2(width*0.1, height*0.95),
		types.NewVec2(width*0.5, height*0.95),
		types.NewVec2(width*0.9, height*0.95),
		types.NewVec2(width*0.05, height*0.6),
		types.NewVec2(width*0.95, height*0.6),
	}
	return ap
}

func (ap *Airspace) AddObstacle(box types.Box) *Obstacle {
	obs := &Obstacle{
		ID:       fmt.Sprintf("OBS%d", len(ap.Obstacles)+1),
		Boundary: box,
	}
	ap.Obstacles = append(ap.Obstacles, obs)
	return obs
}
