// Package planner decides, once per simulation tick, where every aircraft
// should head next.
//
// Each aircraft gets exactly one decision per tick, picked in priority
// order: aircraft involved in a predicted collision steer away unless they
// hold the landing clearance, the cleared aircraft flies at the runway, and
// everybody else follows the approach curve (or, with holding enabled,
// circles until the runway frees up).
package planner

import (
	"atc-planner/internal/game/aircraft"
	"atc-planner/internal/game/conflict"
	"atc-planner/internal/game/landing"
	"atc-planner/internal/game/trajectory"
	"atc-planner/internal/logging"
	"atc-planner/pkg/types"
	"errors"

	"github.com/labstack/gommon/log"
)

type Options struct {
	// Holding sends aircraft that are waiting for the runway around the
	// holding circle instead of along the approach curve.
	Holding bool
}

type Planner struct {
	opts   Options
	logger *log.Logger
}

func New(opts Options, logger *log.Logger) *Planner {
	return &Planner{opts: opts, logger: logging.OrDiscard(logger, "planner")}
}

func (p *Planner) Options() Options {
	return p.opts
}

// TickResult is everything a tick produced: the decisions plus the events
// a diagnostics sink may want to see.
type TickResult struct {
	Decisions   []Decision
	Collisions  []conflict.Collision
	Lander      *aircraft.Aircraft
	Landings    []landing.Event
	LandedCount int
}

// Tick plans one tick. Decisions come back in the same order as the
// aircraft in st. sess is updated in place. A malformed snapshot fails the
// whole tick and leaves sess untouched.
func (p *Planner) Tick(sess *Session, st TickState) (*TickResult, error) {
	if sess == nil {
		return nil, errors.New("planner: nil session")
	}
	if err := st.Validate(); err != nil {
		return nil, err
	}

	acs, obstacles := st.Partition()
	for i, ac := range acs {
		// Work on copies so normalizing rotation never touches the caller's
		// aircraft.
		cp := *ac
		cp.Rotation = types.NormalizeHeading(cp.Rotation)
		acs[i] = &cp
	}

	present := make(map[types.AircraftID]bool, len(acs))
	for _, ac := range acs {
		present[ac.ID] = true
	}
	sess.Holding.Forget(present)
	landing.Forget(&sess.Sequence, present)

	collisions := conflict.Detect(acs, obstacles)
	lander := landing.SelectNextLander(&sess.Sequence, acs, st.Runway)

	avoid := make(map[types.AircraftID]types.Vec2)
	for _, c := range collisions {
		for _, ac := range c.Aircraft() {
			if lander != nil && ac.ID == lander.ID {
				continue
			}
			if _, ok := avoid[ac.ID]; !ok {
				avoid[ac.ID] = trajectory.AvoidanceWaypoint(ac)
			}
		}
	}

	res := &TickResult{
		Decisions:  make([]Decision, 0, len(acs)),
		Collisions: collisions,
		Lander:     lander,
	}
	for _, ac := range acs {
		d := Decision{AircraftID: ac.ID}
		if wp, ok := avoid[ac.ID]; ok {
			d.Waypoint, d.Mode = wp, Avoiding
		} else if lander != nil && ac.ID == lander.ID {
			d.Waypoint, d.Mode = st.Runway.Position, Landing
		} else if p.opts.Holding && lander != nil && !trajectory.DirectApproachPossible(ac, st.Runway) {
			d.Waypoint, d.Mode = sess.Holding.NextCirclePoint(ac, st.Runway), Holding
		} else {
			d.Waypoint, d.Mode = trajectory.Waypoint(ac, st.Runway, st.Boundary), Approaching
		}
		res.Decisions = append(res.Decisions, d)
	}

	// Only the cleared aircraft can land; others just pass over the runway.
	if lander != nil && landing.HasLanded(lander, st.Runway) {
		if ev, ok := landing.RecordLanding(&sess.Sequence, lander); ok {
			res.Landings = append(res.Landings, ev)
			p.logger.Infof("aircraft %s landed, %d landed so far", ev.AircraftID, ev.LandedCount)
		}
	}
	res.LandedCount = sess.LandedCount
	sess.Ticks++

	if len(collisions) > 0 {
		p.logger.Debugf("tick %d: %d predicted collisions %v", sess.Ticks, len(collisions), collisions)
	}
	if lander != nil {
		p.logger.Debugf("tick %d: %s cleared to land", sess.Ticks, lander.ID)
	}
	return res, nil
}

// Decision returns the decision for id, if there is one.
func (r *TickResult) Decision(id types.AircraftID) (Decision, bool) {
	for _, d := range r.Decisions {
		if d.AircraftID == id {
			return d, true
		}
	}
	return Decision{}, false
}
