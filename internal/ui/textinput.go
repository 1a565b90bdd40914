package ui

import (
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const MAX_HISTORY = 20

// TextInput is a one-line command box. Up and down walk through earlier
// commands; Enter submits and Escape gives up focus.
type TextInput struct {
	Text     string
	Prompt   string
	Status   string
	IsActive bool
	X, Y     int
	Width    int
	Height   int
	OnSubmit func(string) string

	history []string
	cursor  int
}

// NewTextInput builds an input box. onSubmit returns a status line shown
// under the box, such as an error for a bad command.
func NewTextInput(x, y, width, height int, onSubmit func(string) string) *TextInput {
	return &TextInput{
		Prompt:   "> ",
		X:        x,
		Y:        y,
		Width:    width,
		Height:   height,
		OnSubmit: onSubmit,
	}
}

func (ti *TextInput) Update() {
	if !ti.IsActive {
		return
	}

	ti.Text += string(ebiten.AppendInputChars(nil))

	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) && len(ti.Text) > 0 {
		ti.Text = ti.Text[:len(ti.Text)-1]
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyUp) {
		ti.recall(-1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDown) {
		ti.recall(1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		ti.IsActive = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		ti.Submit()
	}
}

// Submit hands the current text to OnSubmit and clears the box.
func (ti *TextInput) Submit() {
	cmd := strings.TrimSpace(ti.Text)
	ti.Text = ""
	ti.IsActive = false
	if cmd == "" {
		return
	}

	ti.history = append(ti.history, cmd)
	if len(ti.history) > MAX_HISTORY {
		ti.history = ti.history[len(ti.history)-MAX_HISTORY:]
	}
	ti.cursor = len(ti.history)

	if ti.OnSubmit != nil {
		ti.Status = ti.OnSubmit(cmd)
	}
}

func (ti *TextInput) recall(step int) {
	if len(ti.history) == 0 {
		return
	}
	ti.cursor = max(0, min(len(ti.history), ti.cursor+step))
	if ti.cursor == len(ti.history) {
		ti.Text = ""
		return
	}
	ti.Text = ti.history[ti.cursor]
}

func (ti *TextInput) Draw(screen *ebiten.Image) {
	x, y, w, h := float32(ti.X), float32(ti.Y), float32(ti.Width), float32(ti.Height)

	bgColor := color.RGBA{50, 50, 50, 255}
	if ti.IsActive {
		bgColor = color.RGBA{80, 80, 80, 255}
	}
	vector.DrawFilledRect(screen, x, y, w, h, bgColor, false)
	vector.StrokeRect(screen, x, y, w, h, 1, color.White, false)

	displayTxt := ti.Prompt + ti.Text
	if ti.IsActive {
		displayTxt += "_"
	}
	ebitenutil.DebugPrintAt(screen, displayTxt, ti.X+5, ti.Y+(ti.Height-16)/2)

	if ti.Status != "" {
		ebitenutil.DebugPrintAt(screen, ti.Status, ti.X, ti.Y+ti.Height+2)
	}
}

// IsClicked checks if the mouse click is within the text input bounds
func (ti *TextInput) IsClicked(mouseX, mouseY int) bool {
	return mouseX >= ti.X && mouseX <= ti.X+ti.Width &&
		mouseY >= ti.Y && mouseY <= ti.Y+ti.Height
}
