package main

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten"
	"github.com/hajimehoshi/ebiten/inpututil"

	"github.com/zucenko/mazekeys/game"
	"github.com/zucenko/mazekeys/model"
)

// keyCodes names ebiten keys the way the session expects them.
var keyCodes = map[ebiten.Key]string{
	ebiten.KeyW:     "KeyW",
	ebiten.KeyS:     "KeyS",
	ebiten.KeyA:     "KeyA",
	ebiten.KeyD:     "KeyD",
	ebiten.KeyUp:    "ArrowUp",
	ebiten.KeyDown:  "ArrowDown",
	ebiten.KeyLeft:  "ArrowLeft",
	ebiten.KeyRight: "ArrowRight",
}

const (
	turnStep   = 0.04 // radians per frame while Q or E is held
	dragYaw    = 0.01 // radians per dragged pixel
	clickSlack = 6    // pixels a click may wander before it counts as a drag
)

// StrokeSource represents a input device to provide strokes.
type StrokeSource interface {
	Position() (int, int)
	IsJustReleased() bool
}

// MouseStrokeSource is a StrokeSource implementation of mouse.
type MouseStrokeSource struct{}

func (m *MouseStrokeSource) Position() (int, int) {
	return ebiten.CursorPosition()
}

func (m *MouseStrokeSource) IsJustReleased() bool {
	return inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)
}

// TouchStrokeSource is a StrokeSource implementation of touch.
type TouchStrokeSource struct {
	ID int
}

func (t *TouchStrokeSource) Position() (int, int) {
	return ebiten.TouchPosition(t.ID)
}

func (t *TouchStrokeSource) IsJustReleased() bool {
	return inpututil.IsTouchJustReleased(t.ID)
}

// Stroke manages the current drag state by mouse or finger.
type Stroke struct {
	source StrokeSource

	// initX and initY represents the position when dragging starts.
	initX int
	initY int

	// currentX and currentY represents the current position
	currentX int
	currentY int

	// x at the previous update, for incremental drags
	lastX int

	// button held by this stroke, if it started on one
	button  *touchButton
	dragged bool

	released bool
}

func NewStroke(source StrokeSource) *Stroke {
	cx, cy := source.Position()
	return &Stroke{
		source:   source,
		initX:    cx,
		initY:    cy,
		currentX: cx,
		currentY: cy,
		lastX:    cx,
	}
}

func (s *Stroke) Update() {
	if s.released {
		return
	}
	if s.source.IsJustReleased() {
		s.released = true
		return
	}
	x, y := s.source.Position()
	s.lastX = s.currentX
	s.currentX = x
	s.currentY = y
}

func (s *Stroke) IsReleased() bool {
	return s.released
}

func (s *Stroke) Position() (int, int) {
	return s.currentX, s.currentY
}

func (s *Stroke) PositionDiff() (int, int) {
	dx := s.currentX - s.initX
	dy := s.currentY - s.initY
	return dx, dy
}

type touchButton struct {
	Direction game.Direction
	Label     string
	Rect      image.Rectangle
	held      int
}

func newTouchButtons() []*touchButton {
	const w, h, top = 56, 56, mapSize + 12
	labels := []string{"<", "^", "v", ">"}
	dirs := []game.Direction{game.DirLeft, game.DirForward, game.DirBackward, game.DirRight}
	out := make([]*touchButton, len(dirs))
	for i, d := range dirs {
		x := screenWidth - (len(dirs)-i)*(w+8)
		out[i] = &touchButton{Direction: d, Label: labels[i], Rect: image.Rect(x, top, x+w, top+h)}
	}
	return out
}

func (g *Game) buttonAt(x, y int) *touchButton {
	p := image.Pt(x, y)
	for _, b := range g.buttons {
		if p.In(b.Rect) {
			return b
		}
	}
	return nil
}

// readInput turns this frame's devices into session commands.
func (g *Game) readInput() []game.Command {
	cmds := make([]game.Command, 0, 4)

	for k, code := range keyCodes {
		if inpututil.IsKeyJustPressed(k) {
			cmds = append(cmds, game.Command{Type: game.CmdKeyDown, Code: code})
		}
		if inpututil.IsKeyJustReleased(k) {
			cmds = append(cmds, game.Command{Type: game.CmdKeyUp, Code: code})
		}
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		switch g.Session.Phase() {
		case game.PhaseMenu:
			cmds = append(cmds, game.Command{Type: game.CmdStart})
		case game.PhaseVictory:
			cmds = append(cmds, game.Command{Type: game.CmdRestart})
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		cmds = append(cmds, game.Command{Type: game.CmdRestart})
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape), inpututil.IsKeyJustPressed(ebiten.KeyM):
		cmds = append(cmds, game.Command{Type: game.CmdReturnToMenu})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		cmds = append(cmds, game.Command{Type: game.CmdJump})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		cmds = append(cmds, game.Command{Type: game.CmdPointerSelect, Aspect: 1})
	}
	turn := 0.0
	if ebiten.IsKeyPressed(ebiten.KeyQ) {
		turn += turnStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyE) {
		turn -= turnStep
	}
	if turn != 0 {
		cmds = append(cmds, game.Command{Type: game.CmdLook, DeltaYaw: turn})
	}

	if pads := readGamepads(); len(pads) > 0 || g.hadPads {
		g.hadPads = len(pads) > 0
		cmds = append(cmds, game.Command{Type: game.CmdGamepad, Controllers: pads})
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		cmds = append(cmds, g.beginStroke(NewStroke(&MouseStrokeSource{}))...)
	}
	for _, id := range inpututil.JustPressedTouchIDs() {
		cmds = append(cmds, g.beginStroke(NewStroke(&TouchStrokeSource{id}))...)
	}
	for s := range g.strokes {
		cmds = append(cmds, g.updateStroke(s)...)
		if s.IsReleased() {
			delete(g.strokes, s)
		}
	}
	return cmds
}

// readGamepads reports every connected pad with its raw axes and buttons;
// the session decides which axes mean movement.
func readGamepads() []model.ControllerInput {
	ids := ebiten.GamepadIDs()
	if len(ids) == 0 {
		return nil
	}
	pads := make([]model.ControllerInput, 0, len(ids))
	for _, id := range ids {
		p := model.ControllerInput{
			Axes:    make([]float64, ebiten.GamepadAxisNum(id)),
			Buttons: make([]bool, ebiten.GamepadButtonNum(id)),
		}
		for a := range p.Axes {
			p.Axes[a] = ebiten.GamepadAxis(id, a)
		}
		for b := range p.Buttons {
			p.Buttons[b] = ebiten.IsGamepadButtonPressed(id, ebiten.GamepadButton(b))
		}
		pads = append(pads, p)
	}
	return pads
}

func (g *Game) beginStroke(s *Stroke) []game.Command {
	g.strokes[s] = struct{}{}
	if b := g.buttonAt(s.Position()); b != nil {
		s.button = b
		b.held++
		return []game.Command{{Type: game.CmdTouchPress, Direction: b.Direction}}
	}
	return nil
}

// updateStroke: a stroke on a button holds that direction until release,
// a drag on the map turns the player, a click on the map selects there.
func (g *Game) updateStroke(s *Stroke) []game.Command {
	s.Update()
	if s.button != nil {
		if !s.IsReleased() {
			return nil
		}
		s.button.held--
		return []game.Command{{Type: game.CmdTouchRelease, Direction: s.button.Direction}}
	}

	dx, dy := s.PositionDiff()
	if math.Abs(float64(dx)) > clickSlack || math.Abs(float64(dy)) > clickSlack {
		s.dragged = true
	}
	if s.IsReleased() {
		if s.dragged {
			return nil
		}
		x, y := s.Position()
		if y >= mapSize {
			return nil
		}
		wx, wz := g.view.toWorld(float64(x), float64(y))
		return []game.Command{{Type: game.CmdWorldSelect, Ray: game.OverheadRay(wx, wz, 100)}}
	}
	if s.dragged && s.currentX != s.lastX {
		return []game.Command{{Type: game.CmdLook, DeltaYaw: -float64(s.currentX-s.lastX) * dragYaw}}
	}
	return nil
}
