// Package simulation is a self-contained airspace for exercising the
// planner without a game server: it spawns traffic, asks the planner for
// waypoints every tick and flies each aircraft toward its waypoint.
package simulation

import (
	"fmt"
	"maps"
	"math/rand"
	"slices"
	"sync"

	"atc-planner/internal/config"
	"atc-planner/internal/game/aircraft"
	"atc-planner/internal/game/airspace"
	"atc-planner/internal/game/planner"
	"atc-planner/internal/logging"
	"atc-planner/internal/replay"
	"atc-planner/internal/wire"
	"atc-planner/pkg/types"

	"github.com/labstack/gommon/log"
)

// Aircraft further than this outside the boundary are gone for good.
const CLEANUP_MARGIN = 50.0

type Simulation struct {
	mu sync.Mutex

	Aircrafts       map[types.AircraftID]*aircraft.Aircraft
	Airspace        *airspace.Airspace
	TickRate        float64
	GameTimeSeconds float64
	Paused          bool

	Waypoints   map[types.AircraftID]types.Vec2
	Modes       map[types.AircraftID]planner.Mode
	Conflicting map[types.AircraftID]bool
	Lander      types.AircraftID

	Ticks      int
	Landings   int
	Departures int
	Conflicts  int

	RadioLog        []RadioMessage
	maxRadioLogSize int

	order   []types.AircraftID
	planner *planner.Planner
	session *planner.Session

	rng                *rand.Rand
	cfg                config.SandboxConfig
	ticksSinceSpawn    int
	nextAircraftID     int
	recorder           *replay.Writer
	logger             *log.Logger
	lastConflictingSet map[string]bool
}

func NewSimulation(cfg config.SandboxConfig, p *planner.Planner, logger *log.Logger) *Simulation {
	ap := airspace.NewAirspace(cfg.Width, cfg.Height, airspace.Runway{Position: types.NewVec2(cfg.RunwayX, cfg.RunwayY)})
	for _, o := range cfg.Obstacles {
		ap.AddObstacle(types.Box{Min: types.NewVec2(o.MinX, o.MinY), Max: types.NewVec2(o.MaxX, o.MaxY)})
	}

	s := &Simulation{
		Aircrafts:   make(map[types.AircraftID]*aircraft.Aircraft),
		Airspace:    ap,
		TickRate:    cfg.TickRate,
		Waypoints:   make(map[types.AircraftID]types.Vec2),
		Modes:       make(map[types.AircraftID]planner.Mode),
		Conflicting: make(map[types.AircraftID]bool),

		maxRadioLogSize:    50,
		planner:            p,
		session:            planner.NewSession(),
		rng:                rand.New(rand.NewSource(cfg.Seed)),
		cfg:                cfg,
		nextAircraftID:     100,
		logger:             logging.OrDiscard(logger, "simulation"),
		lastConflictingSet: make(map[string]bool),
	}
	return s
}

// Record makes every following tick get written to w.
func (s *Simulation) Record(w *replay.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recorder = w
}

// State is the snapshot the planner sees, aircraft in spawn order.
func (s *Simulation) State() planner.TickState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state()
}

func (s *Simulation) state() planner.TickState {
	st := planner.TickState{
		Objects:  make([]planner.Entity, 0, len(s.order)+len(s.Airspace.Obstacles)),
		Runway:   s.Airspace.Runway,
		Boundary: s.Airspace.Boundary,
	}
	for _, id := range s.order {
		st.Objects = append(st.Objects, planner.Plane{Aircraft: s.Aircrafts[id]})
	}
	for _, obs := range s.Airspace.Obstacles {
		st.Objects = append(st.Objects, planner.Block{Obstacle: obs})
	}
	return st
}

// Update advances the simulation by dt seconds: plan, then move.
func (s *Simulation) Update(dt float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Paused {
		return nil
	}

	st := s.state()
	res, err := s.planner.Tick(s.session, st)
	if err != nil {
		return fmt.Errorf("tick %d: %w", s.Ticks, err)
	}
	if s.recorder != nil {
		rec := replay.Record{Tick: s.Ticks, Holding: s.planner.Options().Holding, State: wire.NewTick(st), Decisions: wire.NewDecisions(res.Decisions)}
		if err := s.recorder.Write(rec); err != nil {
			return err
		}
	}
	s.Ticks++
	s.GameTimeSeconds += dt

	s.applyCollisions(res)
	s.Lander = ""
	if res.Lander != nil {
		s.Lander = res.Lander.ID
	}

	prevModes := maps.Clone(s.Modes)
	clear(s.Waypoints)
	clear(s.Modes)
	for _, d := range res.Decisions {
		prev, had := prevModes[d.AircraftID]
		s.Waypoints[d.AircraftID] = d.Waypoint
		s.Modes[d.AircraftID] = d.Mode
		if had && prev != d.Mode {
			s.logger.Debugf("%s: %s -> %s", d.AircraftID, prev, d.Mode)
		}
	}

	for _, ev := range res.Landings {
		s.addRadioMessage(ev.AircraftID, "Touchdown, vacating runway.", false)
		s.logger.Infof("LANDED: %s, %d total", ev.AircraftID, ev.LandedCount)
		s.remove(ev.AircraftID)
		s.Landings++
		if s.Lander == ev.AircraftID {
			s.Lander = ""
		}
	}

	for _, id := range s.order {
		if wp, ok := s.Waypoints[id]; ok {
			s.Aircrafts[id].Steer(wp, dt)
		}
	}

	s.cleanupAircraft()

	s.ticksSinceSpawn++
	if len(s.Aircrafts) < s.cfg.MaxAircraft && s.ticksSinceSpawn >= s.cfg.SpawnIntervalTicks {
		s.spawnRandomAircraft()
		s.ticksSinceSpawn = 0
	}
	return nil
}

func (s *Simulation) applyCollisions(res *planner.TickResult) {
	clear(s.Conflicting)
	current := make(map[string]bool, len(res.Collisions))
	for _, c := range res.Collisions {
		key := c.String()
		current[key] = true
		for _, ac := range c.Aircraft() {
			s.Conflicting[ac.ID] = true
		}
		if !s.lastConflictingSet[key] {
			s.Conflicts++
			s.logger.Warnf("CONFLICT: %s predicted", key)
			s.addRadioMessage(c.A.ID, fmt.Sprintf("Traffic alert, %s.", key), true)
		}
	}
	s.lastConflictingSet = current
}

func (s *Simulation) remove(id types.AircraftID) {
	delete(s.Aircrafts, id)
	s.order = slices.DeleteFunc(s.order, func(o types.AircraftID) bool { return o == id })
}

func (s *Simulation) cleanupAircraft() {
	b := s.Airspace.Boundary
	for _, id := range slices.Clone(s.order) {
		p := s.Aircrafts[id].Position
		if p.X < b.Min.X-CLEANUP_MARGIN || p.X > b.Max.X+CLEANUP_MARGIN ||
			p.Y < b.Min.Y-CLEANUP_MARGIN || p.Y > b.Max.Y+CLEANUP_MARGIN {
			s.logger.Infof("Aircraft %s left airspace and removed.", id)
			s.remove(id)
			s.Departures++
		}
	}
}

func (s *Simulation) randomFloatInRange(minF, maxF float64) float64 {
	return minF + s.rng.Float64()*(maxF-minF)
}

func getRandomAirlinePrefix(rng *rand.Rand) string {
	prefixes := []string{"AAL", "SWA", "DAL", "UAL", "JBU", "ASA", "FFT", "AI", "JAL"}
	return prefixes[rng.Intn(len(prefixes))]
}

// NextCallsign hands out a fresh callsign for a new aircraft.
func (s *Simulation) NextCallsign() types.AircraftID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextCallsign()
}

func (s *Simulation) nextCallsign() types.AircraftID {
	id := types.AircraftID(fmt.Sprintf("%s%03d", getRandomAirlinePrefix(s.rng), s.nextAircraftID))
	s.nextAircraftID++
	return id
}

// SpawnRandomAircraft adds an aircraft at one of the entry points, jittered
// a little, pointed roughly at the runway.
func (s *Simulation) SpawnRandomAircraft() *aircraft.Aircraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spawnRandomAircraft()
}

func (s *Simulation) spawnRandomAircraft() *aircraft.Aircraft {
	entry := s.Airspace.EntryPoints[s.rng.Intn(len(s.Airspace.EntryPoints))]
	pos := entry.Add(types.NewVec2(s.randomFloatInRange(-20, 20), s.randomFloatInRange(-20, 20)))
	heading := pos.HeadingTo(s.Airspace.Runway.Position) + s.randomFloatInRange(-30, 30)

	ac := s.spawn(s.nextCallsign(), pos, heading)
	if ac != nil {
		s.logger.Infof("Spawned aircraft %s at %v, heading %.0f, speed %.1f", ac.ID, ac.Position, ac.Rotation, ac.Speed)
	}
	return ac
}

func (s *Simulation) spawn(id types.AircraftID, pos types.Vec2, heading float64) *aircraft.Aircraft {
	if _, ok := s.Aircrafts[id]; ok {
		return nil
	}
	ac := aircraft.NewAircraft(id, pos, heading, s.cfg.AircraftSpeed, s.cfg.TurnSpeed, s.cfg.CollisionRadius)
	ac.Fuel = 100
	s.Aircrafts[id] = ac
	s.order = append(s.order, id)
	s.addRadioMessage(id, "With you, requesting vectors to land.", false)
	return ac
}

// SpawnAircraft adds an aircraft with the configured performance at pos.
func (s *Simulation) SpawnAircraft(id types.AircraftID, pos types.Vec2, heading float64) (*aircraft.Aircraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.Airspace.Boundary.Contains(pos) {
		return nil, fmt.Errorf("position %v is outside the airspace", pos)
	}
	ac := s.spawn(id, pos, heading)
	if ac == nil {
		return nil, fmt.Errorf("aircraft %s already exists", id)
	}
	return ac, nil
}

func (s *Simulation) RemoveAircraft(id types.AircraftID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Aircrafts[id]; !ok {
		return fmt.Errorf("aircraft %s not found", id)
	}
	s.remove(id)
	return nil
}

// IssueHeading turns the aircraft immediately. The planner takes over
// again on the next tick.
func (s *Simulation) IssueHeading(id types.AircraftID, heading float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ac, ok := s.Aircrafts[id]; ok {
		ac.Rotation = types.NormalizeHeading(heading)
		return nil
	}
	return fmt.Errorf("aircraft %s not found", id)
}

func (s *Simulation) IssueSpeed(id types.AircraftID, speed float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if speed < 0 {
		return fmt.Errorf("speed must not be negative, got %g", speed)
	}
	if ac, ok := s.Aircrafts[id]; ok {
		ac.Speed = speed
		return nil
	}
	return fmt.Errorf("aircraft %s not found", id)
}

func (s *Simulation) TogglePause() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Paused = !s.Paused
	return s.Paused
}
