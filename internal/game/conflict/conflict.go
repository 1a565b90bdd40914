package conflict

import (
	"atc-planner/internal/game/aircraft"
	"atc-planner/internal/game/airspace"
	"atc-planner/pkg/types"
	"fmt"
)

const (
	// LOOKAHEAD is how many ticks ahead aircraft positions are predicted.
	LOOKAHEAD = 2.0
	// BOX_FACTOR scales collision_radius into the side of the predicted box.
	BOX_FACTOR = 3.0
)

type Kind int

const (
	AircraftAircraft Kind = iota
	AircraftObstacle
)

func (k Kind) String() string {
	if k == AircraftObstacle {
		return "aircraft-obstacle"
	}
	return "aircraft-aircraft"
}

// Collision is a predicted conflict between A and either B or Obstacle,
// depending on Kind. Both shapes are pairs; exactly one of B and Obstacle
// is set.
type Collision struct {
	Kind     Kind
	A        *aircraft.Aircraft
	B        *aircraft.Aircraft
	Obstacle *airspace.Obstacle
}

func (c Collision) Involves(id types.AircraftID) bool {
	return c.A.ID == id || (c.B != nil && c.B.ID == id)
}

// Aircraft returns the aircraft taking part in the collision.
func (c Collision) Aircraft() []*aircraft.Aircraft {
	if c.B != nil {
		return []*aircraft.Aircraft{c.A, c.B}
	}
	return []*aircraft.Aircraft{c.A}
}

func (c Collision) String() string {
	if c.Kind == AircraftObstacle {
		return fmt.Sprintf("%s/%s", c.A.ID, c.Obstacle.ID)
	}
	return fmt.Sprintf("%s/%s", c.A.ID, c.B.ID)
}

// PredictedBox is the square around where ac will be LOOKAHEAD ticks from
// now, with side BOX_FACTOR*collision_radius.
func PredictedBox(ac *aircraft.Aircraft) types.Box {
	return types.BoxAround(ac.Predict(LOOKAHEAD), BOX_FACTOR*ac.CollisionRadius)
}

// Detect reports every aircraft pair and every aircraft/obstacle pair whose
// predicted boxes intersect. Records come out in input order, each pair at
// most once.
func Detect(acs []*aircraft.Aircraft, obstacles []*airspace.Obstacle) []Collision {
	boxes := make([]types.Box, len(acs))
	for i, ac := range acs {
		boxes[i] = PredictedBox(ac)
	}

	var collisions []Collision
	for i := 0; i < len(acs); i++ {
		for j := i + 1; j < len(acs); j++ {
			if acs[i].ID == acs[j].ID {
				continue
			}
			if boxes[i].Intersects(boxes[j]) {
				collisions = append(collisions, Collision{Kind: AircraftAircraft, A: acs[i], B: acs[j]})
			}
		}
	}

	for i, ac := range acs {
		seen := make(map[*airspace.Obstacle]bool)
		for _, obs := range obstacles {
			if seen[obs] {
				continue
			}
			seen[obs] = true
			if boxes[i].Intersects(obs.Boundary) {
				collisions = append(collisions, Collision{Kind: AircraftObstacle, A: ac, Obstacle: obs})
			}
		}
	}
	return collisions
}
