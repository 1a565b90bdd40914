package replay

import (
	"errors"
	"fmt"
	"io"
	"math"

	"atc-planner/internal/game/planner"
	"atc-planner/pkg/types"
)

const tolerance = 1e-9

// ErrOptionsMismatch means the recording was planned with different planner
// options than the planner asked to replay it.
var ErrOptionsMismatch = errors.New("planner options differ from the recording")

// Mismatch is a recorded decision that replaying the recording did not
// reproduce.
type Mismatch struct {
	Tick     int
	PlaneID  string
	Recorded types.Vec2
	Replayed types.Vec2
	Missing  bool
}

func (m Mismatch) String() string {
	if m.Missing {
		return fmt.Sprintf("tick %d: %s has no replayed decision", m.Tick, m.PlaneID)
	}
	return fmt.Sprintf("tick %d: %s recorded %v, replayed %v", m.Tick, m.PlaneID, m.Recorded, m.Replayed)
}

// Verify feeds every record through p with a fresh session and reports
// the decisions that differ from the recorded ones. It returns the number
// of ticks replayed. A record planned with other options than p's fails with
// ErrOptionsMismatch before anything is compared.
func Verify(r *Reader, p *planner.Planner) (int, []Mismatch, error) {
	sess := planner.NewSession()
	var mismatches []Mismatch
	n := 0
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return n, mismatches, nil
		} else if err != nil {
			return n, mismatches, err
		}

		if rec.Holding != p.Options().Holding {
			return n, mismatches, fmt.Errorf("tick %d: recorded with holding=%t, replaying with holding=%t: %w",
				rec.Tick, rec.Holding, p.Options().Holding, ErrOptionsMismatch)
		}

		frame, err := rec.State.State()
		if err != nil {
			return n, mismatches, fmt.Errorf("tick %d: %w", rec.Tick, err)
		}
		res, err := p.Tick(sess, frame.State)
		if err != nil {
			return n, mismatches, fmt.Errorf("tick %d: %w", rec.Tick, err)
		}
		n++

		for _, d := range rec.Decisions {
			got, ok := res.Decision(types.AircraftID(d.PlaneID.Value))
			if !ok {
				mismatches = append(mismatches, Mismatch{Tick: rec.Tick, PlaneID: d.PlaneID.Value, Recorded: d.Waypoint, Missing: true})
				continue
			}
			if math.Abs(got.Waypoint.X-d.Waypoint.X) > tolerance || math.Abs(got.Waypoint.Y-d.Waypoint.Y) > tolerance {
				mismatches = append(mismatches, Mismatch{Tick: rec.Tick, PlaneID: d.PlaneID.Value, Recorded: d.Waypoint, Replayed: got.Waypoint})
			}
		}
	}
}
