package main

import (
	"atc-planner/internal/config"
	"atc-planner/internal/game/aircraft"
	"atc-planner/internal/game/planner"
	"atc-planner/internal/game/simulation"
	"atc-planner/internal/logging"
	"atc-planner/internal/ui"
	"atc-planner/pkg/types"
	"flag"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/labstack/gommon/log"
)

var (
	runwayColor   = color.RGBA{200, 200, 200, 255}
	obstacleColor = color.RGBA{120, 60, 20, 255}
	boundaryColor = color.RGBA{0, 100, 0, 255}
	aircraftColor = color.RGBA{0, 255, 255, 255}
	landerColor   = color.RGBA{0, 255, 0, 255}
	conflictColor = color.RGBA{255, 0, 0, 100}
	waypointColor = color.RGBA{100, 100, 255, 255}
)

type Camera struct {
	X, Y                 float64
	PanStartX, PanStartY int
	Scale                float64
}

type Game struct {
	width, height int
	camera        *Camera
	sim           *simulation.Simulation
	view          *simulation.View
	logger        *log.Logger

	selectedAircraftID types.AircraftID
	commandInput       *ui.TextInput
}

func NewGame(screenWidth, screenHeight int, sim *simulation.Simulation, logger *log.Logger) *Game {
	game := &Game{
		sim:    sim,
		camera: &Camera{0, 0, 0, 0, 1.0},
		width:  screenWidth,
		height: screenHeight,
		logger: logger,
	}

	game.commandInput = ui.NewTextInput(10, screenHeight-48, screenWidth/2, 30, game.parseAndExecuteCommand)
	return game
}

func (g *Game) Update() error {
	if err := g.sim.Update(1.0 / g.sim.TickRate); err != nil {
		return err
	}

	g.handleInput()
	g.commandInput.Update()

	view, err := g.sim.View()
	if err != nil {
		return err
	}
	g.view = view
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{0, 0, 0, 255})
	if g.view == nil {
		return
	}

	g.drawAirspace(screen)
	for _, ac := range g.view.Aircraft {
		g.drawAircraft(screen, ac)
	}

	g.drawUI(screen)
	ebitenutil.DebugPrint(screen, "FPS: "+strconv.FormatFloat(ebiten.ActualFPS(), 'f', 2, 64))
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return g.width, g.height
}

func (g *Game) handleInput() {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()

		if g.commandInput.IsClicked(x, y) {
			g.commandInput.IsActive = true
			return
		}
		g.commandInput.IsActive = false

		wx, wy := g.screenToWorld(float64(x), float64(y))
		clickedPos := types.NewVec2(wx, wy)
		g.selectedAircraftID = ""
		if g.view != nil {
			for _, ac := range g.view.Aircraft {
				if clickedPos.DistanceTo(ac.Position) <= ac.CollisionRadius*2 {
					g.selectedAircraftID = ac.ID
					g.logger.Debugf("Selected aircraft: %s", g.selectedAircraftID)
					break
				}
			}
		}
	}

	if g.commandInput.IsActive {
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.sim.TogglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.sim.SpawnRandomAircraft()
	}

	_, wy := ebiten.Wheel()
	if wy != 0 {
		cursorX, cursorY := ebiten.CursorPosition()
		worldX, worldY := g.screenToWorld(float64(cursorX), float64(cursorY))

		scale := g.camera.Scale
		if wy > 0 {
			scale *= 1.1
		} else {
			scale /= 1.1
		}
		g.camera.Scale = math.Max(0.5, math.Min(3.0, scale))

		newWorldX, newWorldY := g.screenToWorld(float64(cursorX), float64(cursorY))
		g.camera.X -= (newWorldX - worldX)
		g.camera.Y -= (newWorldY - worldY)
	}

	// Right mouse button pans
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		dx, dy := ebiten.CursorPosition()
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
			g.camera.PanStartX, g.camera.PanStartY = dx, dy
		} else {
			g.camera.X -= float64(dx-g.camera.PanStartX) / g.camera.Scale
			g.camera.Y -= float64(dy-g.camera.PanStartY) / g.camera.Scale
			g.camera.PanStartX, g.camera.PanStartY = dx, dy
		}
	}
}

func (g *Game) screenToWorld(sx, sy float64) (wx, wy float64) {
	wx = sx/g.camera.Scale + g.camera.X
	wy = sy/g.camera.Scale + g.camera.Y
	return
}

func (g *Game) worldToScreen(p types.Vec2) (sx, sy float32) {
	sx = float32((p.X - g.camera.X) * g.camera.Scale)
	sy = float32((p.Y - g.camera.Y) * g.camera.Scale)
	return
}

func (g *Game) strokeBox(screen *ebiten.Image, b types.Box, clr color.Color) {
	x, y := g.worldToScreen(b.Min)
	s := float32(g.camera.Scale)
	vector.StrokeRect(screen, x, y, float32(b.Width())*s, float32(b.Height())*s, 1, clr, false)
}

func (g *Game) drawAircraft(screen *ebiten.Image, ac *aircraft.Aircraft) {
	screenX, screenY := g.worldToScreen(ac.Position)
	scale := float32(g.camera.Scale)

	// Heading 0 points down the screen.
	rad := ac.Rotation * math.Pi / 180.0
	fwd := types.NewVec2(-math.Sin(rad), math.Cos(rad))
	side := types.NewVec2(-fwd.Y, fwd.X)
	nose := ac.Position.Add(fwd.Scale(ac.CollisionRadius))
	left := ac.Position.Add(fwd.Scale(-ac.CollisionRadius * 0.6)).Add(side.Scale(ac.CollisionRadius * 0.6))
	right := ac.Position.Add(fwd.Scale(-ac.CollisionRadius * 0.6)).Add(side.Scale(-ac.CollisionRadius * 0.6))

	clr := aircraftColor
	if ac.ID == g.view.Lander {
		clr = landerColor
	}
	nx, ny := g.worldToScreen(nose)
	lx, ly := g.worldToScreen(left)
	rx, ry := g.worldToScreen(right)
	vector.StrokeLine(screen, nx, ny, lx, ly, 1.5, clr, true)
	vector.StrokeLine(screen, lx, ly, rx, ry, 1.5, clr, true)
	vector.StrokeLine(screen, rx, ry, nx, ny, 1.5, clr, true)

	if wp, ok := g.view.Waypoints[ac.ID]; ok {
		wx, wy := g.worldToScreen(wp)
		vector.StrokeLine(screen, screenX, screenY, wx, wy, 1, waypointColor, false)
		vector.DrawFilledCircle(screen, wx, wy, 2*scale, waypointColor, false)
	}

	if g.selectedAircraftID == ac.ID {
		vector.StrokeRect(screen, screenX-12*scale, screenY-12*scale, 24*scale, 24*scale, 1, color.White, false)
	}

	tagText := fmt.Sprintf("%s\nHDG:%.0f SPD:%.1f\nSTS: %s", ac.ID, ac.Rotation, ac.Speed, g.view.Modes[ac.ID])
	ebitenutil.DebugPrintAt(screen, tagText, int(screenX)+10, int(screenY)-20)

	if g.view.Conflicting[ac.ID] {
		vector.DrawFilledCircle(screen, screenX, screenY, float32(ac.CollisionRadius*1.5)*scale, conflictColor, false)
	}
}

func (g *Game) drawAirspace(screen *ebiten.Image) {
	g.strokeBox(screen, g.view.Boundary.Box(), boundaryColor)
	for _, obs := range g.view.Obstacles {
		x, y := g.worldToScreen(obs.Boundary.Min)
		s := float32(g.camera.Scale)
		vector.DrawFilledRect(screen, x, y, float32(obs.Boundary.Width())*s, float32(obs.Boundary.Height())*s, obstacleColor, false)
		ebitenutil.DebugPrintAt(screen, obs.ID, int(x)+2, int(y)+2)
	}

	rx, ry := g.worldToScreen(g.view.Runway.Position)
	scale := float32(g.camera.Scale)
	vector.DrawFilledRect(screen, rx-4*scale, ry-20*scale, 8*scale, 40*scale, runwayColor, false)
	ebitenutil.DebugPrintAt(screen, "RWY", int(rx)+8, int(ry)-8)
}

func (g *Game) drawUI(screen *ebiten.Image) {
	g.commandInput.Draw(screen)

	selectedAcText := "Selected: None"
	if g.selectedAircraftID != "" {
		selectedAcText = "Selected: " + string(g.selectedAircraftID)
	}
	status := fmt.Sprintf("%s   T+%.0fs  landed %d  left %d  conflicts %d",
		selectedAcText, g.view.GameTimeSeconds, g.view.Landings, g.view.Departures, g.view.Conflicts)
	if g.view.Paused {
		status += "  PAUSED"
	}
	ebitenutil.DebugPrintAt(screen, status, 10, g.height-68)

	y := 20
	radio := g.view.RadioLog
	if len(radio) > 8 {
		radio = radio[len(radio)-8:]
	}
	for _, msg := range radio {
		line := fmt.Sprintf("[%5.0f] %s: %s", msg.GameTimeSeconds, msg.Callsign, msg.Message)
		if msg.IsUrgent {
			line = "!" + line
		}
		ebitenutil.DebugPrintAt(screen, line, g.width-380, y)
		y += 16
	}
}

// parseAndExecuteCommand runs one command line and returns a status for
// the input box. Commands are "SPAWN <x> <y> [heading]", "PAUSE", or
// "[<Callsign>] <Command> [<Value>]" with H, S and X (remove).
func (g *Game) parseAndExecuteCommand(cmd string) string {
	parts := strings.Fields(strings.ToUpper(cmd))
	if len(parts) == 0 {
		return ""
	}

	switch parts[0] {
	case "PAUSE":
		if g.sim.TogglePause() {
			return "paused"
		}
		return "resumed"
	case "SPAWN":
		if len(parts) < 3 {
			return "usage: SPAWN <x> <y> [heading]"
		}
		x, errX := strconv.ParseFloat(parts[1], 64)
		y, errY := strconv.ParseFloat(parts[2], 64)
		heading := 0.0
		var errH error
		if len(parts) > 3 {
			heading, errH = strconv.ParseFloat(parts[3], 64)
		}
		if errX != nil || errY != nil || errH != nil {
			return "invalid SPAWN arguments"
		}
		ac, err := g.sim.SpawnAircraft(g.sim.NextCallsign(), types.NewVec2(x, y), heading)
		if err != nil {
			return err.Error()
		}
		return "spawned " + string(ac.ID)
	}

	var aircraftID types.AircraftID
	var commandType, valueStr string
	switch {
	case g.view != nil && g.view.Find(types.AircraftID(parts[0])) != nil:
		aircraftID = types.AircraftID(parts[0])
		parts = parts[1:]
	case g.selectedAircraftID != "":
		aircraftID = g.selectedAircraftID
	default:
		return "no aircraft selected"
	}
	if len(parts) == 0 {
		return "missing command"
	}
	commandType = parts[0]
	if len(parts) > 1 {
		valueStr = parts[1]
	}

	switch commandType {
	case "H", "HEADING":
		heading, err := strconv.ParseFloat(valueStr, 64)
		if err != nil {
			return fmt.Sprintf("invalid heading value: %q", valueStr)
		}
		if err := g.sim.IssueHeading(aircraftID, heading); err != nil {
			return err.Error()
		}
		return fmt.Sprintf("issued H %.0f to %s", heading, aircraftID)
	case "S", "SPD", "SPEED":
		speed, err := strconv.ParseFloat(valueStr, 64)
		if err != nil {
			return fmt.Sprintf("invalid speed value: %q", valueStr)
		}
		if err := g.sim.IssueSpeed(aircraftID, speed); err != nil {
			return err.Error()
		}
		return fmt.Sprintf("issued S %.1f to %s", speed, aircraftID)
	case "X", "REMOVE":
		if err := g.sim.RemoveAircraft(aircraftID); err != nil {
			return err.Error()
		}
		if g.selectedAircraftID == aircraftID {
			g.selectedAircraftID = ""
		}
		return "removed " + string(aircraftID)
	default:
		return "unknown command " + commandType
	}
}

func main() {
	configPath := flag.String("config", "atc-planner.json", "path to the JSON config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	out := logging.NewOutput(cfg.Log)
	defer out.Close()
	logger := out.Logger("client")

	p := planner.New(planner.Options{Holding: cfg.Planner.Holding}, out.Logger("planner"))
	sim := simulation.NewSimulation(cfg.Sandbox, p, out.Logger("simulation"))
	sim.SpawnRandomAircraft()

	ebiten.SetWindowSize(int(cfg.Sandbox.Width), int(cfg.Sandbox.Height))
	ebiten.SetWindowTitle("ATC Planner")
	ebiten.SetVsyncEnabled(true)
	ebiten.SetTPS(int(math.Round(cfg.Sandbox.TickRate)))

	game := NewGame(int(cfg.Sandbox.Width), int(cfg.Sandbox.Height), sim, logger)
	if err := ebiten.RunGame(game); err != nil {
		logger.Fatal(err)
	}
}
