package planner

import (
	"atc-planner/internal/game/aircraft"
	"atc-planner/internal/game/airspace"
	"atc-planner/internal/game/landing"
	"atc-planner/internal/game/trajectory"
	"atc-planner/pkg/types"
	"fmt"

	"github.com/brunoga/deep"
)

// Entity is one object in a tick snapshot. Only *aircraft.Aircraft and
// *airspace.Obstacle are entities; use Plane and Block to wrap them.
type Entity interface {
	isEntity()
}

type Plane struct{ *aircraft.Aircraft }

type Block struct{ *airspace.Obstacle }

func (Plane) isEntity() {}
func (Block) isEntity() {}

// TickState is everything the planner sees for one tick.
type TickState struct {
	Objects  []Entity
	Runway   airspace.Runway
	Boundary airspace.Boundary
}

// Partition splits the snapshot into aircraft and obstacles, keeping input
// order.
func (st TickState) Partition() ([]*aircraft.Aircraft, []*airspace.Obstacle) {
	var acs []*aircraft.Aircraft
	var obs []*airspace.Obstacle
	for _, e := range st.Objects {
		switch v := e.(type) {
		case Plane:
			acs = append(acs, v.Aircraft)
		case Block:
			obs = append(obs, v.Obstacle)
		}
	}
	return acs, obs
}

type Mode int

const (
	Approaching Mode = iota
	Holding
	Landing
	Avoiding
)

var ModeStringMap = map[Mode]string{
	Approaching: "APPROACH",
	Holding:     "HOLDING",
	Landing:     "LANDING",
	Avoiding:    "AVOIDING",
}

func (m Mode) String() string {
	return ModeStringMap[m]
}

type Decision struct {
	AircraftID types.AircraftID
	Waypoint   types.Vec2
	Mode       Mode
}

// Session is the planner state that carries over from one tick to the
// next. Each simulation run owns its own Session.
type Session struct {
	landing.Sequence
	Holding trajectory.HoldingCache
	Ticks   int
}

func NewSession() *Session {
	return &Session{
		Sequence: landing.Sequence{Landed: make(map[types.AircraftID]bool)},
		Holding:  trajectory.NewHoldingCache(),
	}
}

// Snapshot returns a deep copy of the session that later ticks won't
// modify.
func (s *Session) Snapshot() (*Session, error) {
	cp, err := deep.Copy(s)
	if err != nil {
		return nil, fmt.Errorf("snapshot session: %w", err)
	}
	return cp, nil
}
