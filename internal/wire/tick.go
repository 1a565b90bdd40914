package wire

import (
	"fmt"

	"atc-planner/internal/game/aircraft"
	"atc-planner/internal/game/airspace"
	"atc-planner/internal/game/planner"
	"atc-planner/pkg/types"
)

// DefaultTopAreaHeight stands in for the playable area above the runway
// when a snapshot carries no boundary.
const DefaultTopAreaHeight = 400.0

type Point struct {
	X *float64 `json:"x" msgpack:"x"`
	Y *float64 `json:"y" msgpack:"y"`
}

type Rect struct {
	Min *Point `json:"min" msgpack:"min"`
	Max *Point `json:"max" msgpack:"max"`
}

type Runway struct {
	X       *float64 `json:"x" msgpack:"x"`
	Y       *float64 `json:"y" msgpack:"y"`
	Heading *float64 `json:"heading,omitempty" msgpack:"heading,omitempty"`
}

// Object is one entry of a snapshot's objects list. Type says which of the
// remaining fields apply.
type Object struct {
	Type            *string  `json:"type" msgpack:"type"`
	ID              *ID      `json:"id,omitempty" msgpack:"id,omitempty"`
	Position        *Point   `json:"position,omitempty" msgpack:"position,omitempty"`
	Rotation        *float64 `json:"rotation,omitempty" msgpack:"rotation,omitempty"`
	Speed           *float64 `json:"speed,omitempty" msgpack:"speed,omitempty"`
	TurnSpeed       *float64 `json:"turn_speed,omitempty" msgpack:"turn_speed,omitempty"`
	CollisionRadius *float64 `json:"collision_radius,omitempty" msgpack:"collision_radius,omitempty"`
	Fuel            *float64 `json:"fuel,omitempty" msgpack:"fuel,omitempty"`
	Score           *float64 `json:"score,omitempty" msgpack:"score,omitempty"`
	Boundary        *Rect    `json:"boundary,omitempty" msgpack:"boundary,omitempty"`
}

type Tick struct {
	Objects  []Object `json:"objects" msgpack:"objects"`
	Runway   *Runway  `json:"runway" msgpack:"runway"`
	Boundary *Rect    `json:"boundary,omitempty" msgpack:"boundary,omitempty"`
}

type Decision struct {
	PlaneID  ID         `json:"plane_id" msgpack:"plane_id"`
	Waypoint types.Vec2 `json:"waypoint" msgpack:"waypoint"`
}

// Frame is a decoded snapshot. It remembers how each aircraft id was
// spelled so decisions can be written back the same way.
type Frame struct {
	State planner.TickState
	ids   map[types.AircraftID]ID
}

func missing(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", planner.ErrMalformedInput, fmt.Sprintf(format, args...))
}

func (p *Point) vec(what string) (types.Vec2, error) {
	if p == nil {
		return types.Vec2{}, missing("%s is missing", what)
	}
	if p.X == nil || p.Y == nil {
		return types.Vec2{}, missing("%s needs both x and y", what)
	}
	return types.NewVec2(*p.X, *p.Y), nil
}

func (r *Rect) box(what string) (types.Box, error) {
	if r == nil {
		return types.Box{}, missing("%s is missing", what)
	}
	min, err := r.Min.vec(what + ".min")
	if err != nil {
		return types.Box{}, err
	}
	max, err := r.Max.vec(what + ".max")
	if err != nil {
		return types.Box{}, err
	}
	return types.Box{Min: min, Max: max}, nil
}

func required(v *float64, what string, id string) (float64, error) {
	if v == nil {
		return 0, missing("aircraft %s: %s is missing", id, what)
	}
	return *v, nil
}

func optional(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func (o Object) aircraft(i int) (*aircraft.Aircraft, error) {
	if o.ID == nil {
		return nil, missing("object %d: aircraft id is missing", i)
	}
	id := o.ID.Value
	pos, err := o.Position.vec(fmt.Sprintf("aircraft %s position", id))
	if err != nil {
		return nil, err
	}
	ac := &aircraft.Aircraft{
		ID:       types.AircraftID(id),
		Position: pos,
		Fuel:     optional(o.Fuel),
		Score:    optional(o.Score),
		Category: *o.Type,
	}
	if ac.Rotation, err = required(o.Rotation, "rotation", id); err != nil {
		return nil, err
	}
	if ac.Speed, err = required(o.Speed, "speed", id); err != nil {
		return nil, err
	}
	if ac.TurnSpeed, err = required(o.TurnSpeed, "turn_speed", id); err != nil {
		return nil, err
	}
	if ac.CollisionRadius, err = required(o.CollisionRadius, "collision_radius", id); err != nil {
		return nil, err
	}
	return ac, nil
}

// State narrows the wire snapshot into a planner.TickState, rejecting
// snapshots with missing fields or unknown object types.
func (t *Tick) State() (*Frame, error) {
	if t.Runway == nil {
		return nil, missing("runway is missing")
	}
	rwy, err := (&Point{X: t.Runway.X, Y: t.Runway.Y}).vec("runway")
	if err != nil {
		return nil, err
	}

	f := &Frame{ids: make(map[types.AircraftID]ID)}
	f.State.Runway = airspace.Runway{Position: rwy, Heading: optional(t.Runway.Heading)}

	if t.Boundary != nil {
		b, err := t.Boundary.box("boundary")
		if err != nil {
			return nil, err
		}
		f.State.Boundary = airspace.Boundary{Min: b.Min, Max: b.Max}
	} else {
		f.State.Boundary = airspace.Boundary{
			Min: types.NewVec2(rwy.X-DefaultTopAreaHeight, rwy.Y-DefaultTopAreaHeight),
			Max: types.NewVec2(rwy.X+DefaultTopAreaHeight, rwy.Y+DefaultTopAreaHeight),
		}
	}

	for i, o := range t.Objects {
		if o.Type == nil {
			return nil, missing("object %d: type is missing", i)
		}
		switch *o.Type {
		case "plane", "aircraft":
			ac, err := o.aircraft(i)
			if err != nil {
				return nil, err
			}
			f.ids[ac.ID] = *o.ID
			f.State.Objects = append(f.State.Objects, planner.Plane{Aircraft: ac})
		case "obstacle":
			box, err := o.Boundary.box(fmt.Sprintf("object %d boundary", i))
			if err != nil {
				return nil, err
			}
			id := fmt.Sprintf("OBS%d", i)
			if o.ID != nil {
				id = o.ID.Value
			}
			f.State.Objects = append(f.State.Objects, planner.Block{Obstacle: &airspace.Obstacle{ID: id, Boundary: box}})
		default:
			return nil, missing("object %d: unknown type %q", i, *o.Type)
		}
	}
	return f, nil
}

// Decisions converts planner decisions into their wire form.
func (f *Frame) Decisions(ds []planner.Decision) []Decision {
	out := make([]Decision, 0, len(ds))
	for _, d := range ds {
		id, ok := f.ids[d.AircraftID]
		if !ok {
			id = ID{Value: string(d.AircraftID)}
		}
		out = append(out, Decision{PlaneID: id, Waypoint: d.Waypoint})
	}
	return out
}

// DecodeTick parses data with c and narrows it into a Frame.
func DecodeTick(c Codec, data []byte) (*Frame, error) {
	var t Tick
	if err := c.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("%w: %v", planner.ErrMalformedInput, err)
	}
	return t.State()
}

func EncodeDecisions(c Codec, f *Frame, ds []planner.Decision) ([]byte, error) {
	return c.Marshal(f.Decisions(ds))
}

func f64(v float64) *float64 { return &v }

func point(v types.Vec2) *Point { return &Point{X: f64(v.X), Y: f64(v.Y)} }

func rect(min, max types.Vec2) *Rect { return &Rect{Min: point(min), Max: point(max)} }

// NewTick is the inverse of State. It is what a game server would send
// for st, with every aircraft id written as a string.
func NewTick(st planner.TickState) Tick {
	t := Tick{
		Objects: make([]Object, 0, len(st.Objects)),
		Runway: &Runway{
			X:       f64(st.Runway.Position.X),
			Y:       f64(st.Runway.Position.Y),
			Heading: f64(st.Runway.Heading),
		},
		Boundary: rect(st.Boundary.Min, st.Boundary.Max),
	}
	for _, e := range st.Objects {
		switch v := e.(type) {
		case planner.Plane:
			typ := v.Category
			if typ == "" {
				typ = "plane"
			}
			t.Objects = append(t.Objects, Object{
				Type:            &typ,
				ID:              &ID{Value: string(v.ID)},
				Position:        point(v.Position),
				Rotation:        f64(v.Rotation),
				Speed:           f64(v.Speed),
				TurnSpeed:       f64(v.TurnSpeed),
				CollisionRadius: f64(v.CollisionRadius),
				Fuel:            f64(v.Fuel),
				Score:           f64(v.Score),
			})
		case planner.Block:
			typ := "obstacle"
			t.Objects = append(t.Objects, Object{
				Type:     &typ,
				ID:       &ID{Value: v.ID},
				Boundary: rect(v.Boundary.Min, v.Boundary.Max),
			})
		}
	}
	return t
}

func EncodeTick(c Codec, st planner.TickState) ([]byte, error) {
	return c.Marshal(NewTick(st))
}

// NewDecisions converts decisions for aircraft that have no wire id yet,
// writing every id as a string.
func NewDecisions(ds []planner.Decision) []Decision {
	return (&Frame{}).Decisions(ds)
}
