package game

import (
	"errors"
	"fmt"

	"github.com/zucenko/mazekeys/model"
)

type CommandType int

const (
	CmdStart CommandType = iota
	CmdRestart
	CmdReturnToMenu
	CmdExitImmersive
	CmdKeyDown
	CmdKeyUp
	CmdBlur
	CmdTouchPress
	CmdTouchRelease
	CmdLook
	CmdJump
	CmdPointerSelect
	CmdWorldSelect
	CmdXRSessionStart
	CmdXRSessionEnd
	CmdXRFrame
	CmdControllerSelect
	CmdGamepad
)

// wire names, indexed by CommandType
var commandNames = [...]string{
	"start",
	"restart",
	"returnToMenu",
	"exitImmersive",
	"keyDown",
	"keyUp",
	"blur",
	"touchPress",
	"touchRelease",
	"look",
	"jump",
	"pointerSelect",
	"worldSelect",
	"xrSessionStart",
	"xrSessionEnd",
	"xrFrame",
	"controllerSelect",
	"gamepad",
}

func (c CommandType) Name() string {
	if c < 0 || int(c) >= len(commandNames) {
		return fmt.Sprintf("n/a:%d", c)
	}
	return commandNames[c]
}

var ErrUnknownCommand = errors.New("unknown command")

// Command is one input to Session.Apply. Only the fields that belong to Type
// are read.
type Command struct {
	Type CommandType

	Code      string    // CmdKeyDown, CmdKeyUp
	Direction Direction // CmdTouchPress, CmdTouchRelease

	DeltaYaw, DeltaPitch float64 // CmdLook

	// CmdPointerSelect, normalised device coordinates
	PointerX, PointerY float64
	Aspect             float64

	Ray model.Ray // CmdWorldSelect

	Head        *model.Pose             // CmdXRFrame, nil keeps the last pose
	Controllers []model.ControllerInput // CmdXRFrame, CmdGamepad
	Controller  int                     // CmdControllerSelect
}

func CommandFromWire(w model.WireCommand) (Command, error) {
	cmd := Command{Type: -1}
	for i, n := range commandNames {
		if n == w.Type {
			cmd.Type = CommandType(i)
			break
		}
	}
	if cmd.Type < 0 {
		return Command{}, fmt.Errorf("%q: %w", w.Type, ErrUnknownCommand)
	}

	switch cmd.Type {
	case CmdKeyDown, CmdKeyUp:
		cmd.Code = w.Code
	case CmdTouchPress, CmdTouchRelease:
		d, ok := ParseDirection(w.Direction)
		if !ok {
			return Command{}, fmt.Errorf("%s: bad direction %q", w.Type, w.Direction)
		}
		cmd.Direction = d
	case CmdLook:
		cmd.DeltaYaw, cmd.DeltaPitch = w.DeltaYaw, w.DeltaPitch
	case CmdPointerSelect:
		cmd.PointerX, cmd.PointerY, cmd.Aspect = w.PointerX, w.PointerY, w.Aspect
	case CmdWorldSelect:
		if w.Ray == nil {
			return Command{}, fmt.Errorf("%s: missing ray", w.Type)
		}
		cmd.Ray = *w.Ray
	case CmdXRFrame:
		cmd.Head = w.Head
		cmd.Controllers = w.Controllers
	case CmdGamepad:
		cmd.Controllers = w.Controllers
	case CmdControllerSelect:
		cmd.Controller = w.Controller
	}
	return cmd, nil
}

type EventType int

const (
	EventStarted EventType = iota
	EventCollected
	EventVictory
	EventRestarted
	EventMenu
	EventModeChanged
	EventExitImmersiveRequested
)

var eventNames = [...]string{
	"started",
	"collected",
	"victory",
	"restarted",
	"menu",
	"modeChanged",
	"exitImmersiveRequested",
}

func (e EventType) Name() string {
	if e < 0 || int(e) >= len(eventNames) {
		return fmt.Sprintf("n/a:%d", e)
	}
	return eventNames[e]
}

// Event tells renderers, audio and the UI what happened. ID is set for
// EventCollected, Mode for EventModeChanged.
type Event struct {
	Type     EventType
	ID       int
	Progress model.Progress
	Mode     model.Mode
}

func (e Event) Wire() model.WireEvent {
	w := model.WireEvent{Type: e.Type.Name(), ID: e.ID, Progress: e.Progress}
	if e.Type == EventModeChanged {
		w.Mode = e.Mode.Name()
	}
	return w
}
