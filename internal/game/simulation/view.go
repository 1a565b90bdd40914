package simulation

import (
	"atc-planner/internal/game/aircraft"
	"atc-planner/internal/game/airspace"
	"atc-planner/internal/game/planner"
	"atc-planner/pkg/types"
	"fmt"

	"github.com/brunoga/deep"
)

// View is a copy of everything a display needs, safe to read while the
// simulation keeps running.
type View struct {
	Aircraft    []*aircraft.Aircraft
	Waypoints   map[types.AircraftID]types.Vec2
	Modes       map[types.AircraftID]planner.Mode
	Conflicting map[types.AircraftID]bool
	Lander      types.AircraftID

	Runway    airspace.Runway
	Boundary  airspace.Boundary
	Obstacles []*airspace.Obstacle

	GameTimeSeconds float64
	Paused          bool
	Ticks           int
	Landings        int
	Departures      int
	Conflicts       int
	RadioLog        []RadioMessage
}

func (s *Simulation) View() (*View, error) {
	s.mu.Lock()
	v := View{
		Waypoints:       s.Waypoints,
		Modes:           s.Modes,
		Conflicting:     s.Conflicting,
		Lander:          s.Lander,
		Runway:          s.Airspace.Runway,
		Boundary:        s.Airspace.Boundary,
		Obstacles:       s.Airspace.Obstacles,
		GameTimeSeconds: s.GameTimeSeconds,
		Paused:          s.Paused,
		Ticks:           s.Ticks,
		Landings:        s.Landings,
		Departures:      s.Departures,
		Conflicts:       s.Conflicts,
		RadioLog:        s.RadioLog,
	}
	for _, id := range s.order {
		v.Aircraft = append(v.Aircraft, s.Aircrafts[id])
	}
	cp, err := deep.Copy(&v)
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("copy view: %w", err)
	}
	return cp, nil
}

// Find returns the aircraft with id, or nil.
func (v *View) Find(id types.AircraftID) *aircraft.Aircraft {
	for _, ac := range v.Aircraft {
		if ac.ID == id {
			return ac
		}
	}
	return nil
}
