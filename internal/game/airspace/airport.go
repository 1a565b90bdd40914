package airspace

import "atc-planner/pkg/types"

type Runway struct {
	Position types.Vec2
	// Heading is the forward direction an aircraft must roughly match to
	// count as touched down.
	Heading float64
}

type Boundary struct {
	Min types.Vec2
	Max types.Vec2
}

// TopAreaHeight is the vertical extent of the playable area between the
// boundary's lower edge and the runway.
func (b Boundary) TopAreaHeight(rwy Runway) float64 {
	return rwy.Position.Y - b.Min.Y
}

func (b Boundary) Box() types.Box {
	return types.Box{Min: b.Min, Max: b.Max}
}

func (b Boundary) Contains(p types.Vec2) bool {
	return b.Box().Contains(p)
}

type Obstacle struct {
	ID       string
	Boundary types.Box
}
