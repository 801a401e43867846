package game

import (
	"fmt"
	"math"

	"github.com/zucenko/mazekeys/model"
)

type Direction int

const (
	DirForward Direction = iota
	DirBackward
	DirLeft
	DirRight
)

var directionNames = [...]string{"forward", "backward", "left", "right"}

func (d Direction) Name() string {
	if d < 0 || int(d) >= len(directionNames) {
		return fmt.Sprintf("n/a:%d", d)
	}
	return directionNames[d]
}

func ParseDirection(s string) (Direction, bool) {
	for i, n := range directionNames {
		if n == s {
			return Direction(i), true
		}
	}
	return 0, false
}

func (d Direction) intent() model.MovementIntent {
	switch d {
	case DirForward:
		return model.MovementIntent{Forward: true}
	case DirBackward:
		return model.MovementIntent{Backward: true}
	case DirLeft:
		return model.MovementIntent{StrafeLeft: true}
	case DirRight:
		return model.MovementIntent{StrafeRight: true}
	}
	return model.MovementIntent{}
}

// KeyDirections maps KeyboardEvent.code names to movement.
var KeyDirections = map[string]Direction{
	"KeyW":       DirForward,
	"ArrowUp":    DirForward,
	"KeyS":       DirBackward,
	"ArrowDown":  DirBackward,
	"KeyA":       DirLeft,
	"ArrowLeft":  DirLeft,
	"KeyD":       DirRight,
	"ArrowRight": DirRight,
}

// KeyboardState tracks held keys by code, so releasing ArrowUp does not
// cancel a KeyW that is still down.
type KeyboardState struct {
	held map[string]bool
}

func NewKeyboardState() *KeyboardState {
	return &KeyboardState{held: make(map[string]bool)}
}

// KeyDown reports whether code is a movement key.
func (k *KeyboardState) KeyDown(code string) bool {
	if _, ok := KeyDirections[code]; !ok {
		return false
	}
	k.held[code] = true
	return true
}

func (k *KeyboardState) KeyUp(code string) {
	delete(k.held, code)
}

// Blur drops every held key. Key-up events are lost while the window is
// unfocused, so this is the only way out of a stuck key.
func (k *KeyboardState) Blur() {
	for code := range k.held {
		delete(k.held, code)
	}
}

func (k *KeyboardState) Intent() model.MovementIntent {
	var out model.MovementIntent
	for code := range k.held {
		out = model.MergeIntents(out, KeyDirections[code].intent())
	}
	return out
}

type TouchButtons struct {
	held [len(directionNames)]bool
}

func (t *TouchButtons) Press(d Direction) {
	if d >= 0 && int(d) < len(t.held) {
		t.held[d] = true
	}
}

func (t *TouchButtons) Release(d Direction) {
	if d >= 0 && int(d) < len(t.held) {
		t.held[d] = false
	}
}

func (t *TouchButtons) ReleaseAll() {
	t.held = [len(directionNames)]bool{}
}

func (t *TouchButtons) Intent() model.MovementIntent {
	var out model.MovementIntent
	for d, on := range t.held {
		if on {
			out = model.MergeIntents(out, Direction(d).intent())
		}
	}
	return out
}

// ControllerState keeps the latest snapshot of every XR controller or
// gamepad. A controller without axes or buttons simply contributes nothing.
type ControllerState struct {
	DeadZone       float64
	AxisPairs      [][2]int
	ForwardButton  int
	BackwardButton int

	pads []model.ControllerInput
}

func NewControllerState(cfg Config) *ControllerState {
	return &ControllerState{
		DeadZone:       cfg.DeadZone,
		AxisPairs:      cfg.AxisPairs,
		ForwardButton:  cfg.ForwardButton,
		BackwardButton: cfg.BackwardButton,
	}
}

func (c *ControllerState) Update(pads []model.ControllerInput) {
	c.pads = append(c.pads[:0], pads...)
}

func (c *ControllerState) Clear() {
	c.pads = c.pads[:0]
}

// Pad returns the last snapshot of controller i.
func (c *ControllerState) Pad(i int) (model.ControllerInput, bool) {
	if i < 0 || i >= len(c.pads) {
		return model.ControllerInput{}, false
	}
	return c.pads[i], true
}

func (c *ControllerState) Intent() model.MovementIntent {
	var out model.MovementIntent
	for _, p := range c.pads {
		out = model.MergeIntents(out, c.intentOf(p))
	}
	return out
}

func (c *ControllerState) intentOf(p model.ControllerInput) model.MovementIntent {
	dz := c.DeadZone
	for _, pair := range c.AxisPairs {
		x, okX := axis(p.Axes, pair[0])
		y, okY := axis(p.Axes, pair[1])
		if !okX || !okY {
			continue
		}
		if math.Abs(x) <= dz && math.Abs(y) <= dz {
			continue
		}
		return model.MovementIntent{
			Forward:     y < -dz,
			Backward:    y > dz,
			StrafeLeft:  x < -dz,
			StrafeRight: x > dz,
		}
	}
	return model.MovementIntent{
		Forward:  button(p.Buttons, c.ForwardButton),
		Backward: button(p.Buttons, c.BackwardButton),
	}
}

func axis(axes []float64, i int) (float64, bool) {
	if i < 0 || i >= len(axes) {
		return 0, false
	}
	return axes[i], true
}

func button(buttons []bool, i int) bool {
	return i >= 0 && i < len(buttons) && buttons[i]
}

// Aggregator merges the three input sources into one intent per tick.
// Opposing directions are passed through, locomotion cancels them.
type Aggregator struct {
	Keyboard    *KeyboardState
	Touch       *TouchButtons
	Controllers *ControllerState
}

func NewAggregator(cfg Config) *Aggregator {
	return &Aggregator{
		Keyboard:    NewKeyboardState(),
		Touch:       &TouchButtons{},
		Controllers: NewControllerState(cfg),
	}
}

func (a *Aggregator) Poll() model.MovementIntent {
	return model.MergeIntents(a.Keyboard.Intent(), a.Touch.Intent(), a.Controllers.Intent())
}

// Reset releases everything, used when the session leaves play.
func (a *Aggregator) Reset() {
	a.Keyboard.Blur()
	a.Touch.ReleaseAll()
	a.Controllers.Clear()
}
