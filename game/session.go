package game

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/zucenko/mazekeys/model"
)

type Phase int

const (
	PhaseMenu Phase = iota
	PhasePlaying
	PhaseVictory
)

func (p Phase) Name() string {
	switch p {
	case PhaseMenu:
		return "MENU"
	case PhasePlaying:
		return "PLAYING"
	case PhaseVictory:
		return "VICTORY"
	default:
		return fmt.Sprintf("n/a:%d", p)
	}
}

// Session is one playthrough of one level. It is not safe for concurrent
// use, a single owner feeds it commands and ticks.
type Session struct {
	cfg      Config
	level    model.Level
	grid     *model.MazeGrid
	keys     *model.Registry
	player   model.PlayerState
	input    *Aggregator
	loco     *Locomotion
	resolver Resolver
	phase    Phase

	// victory fires once per playthrough, only restart clears it
	victorySignalled bool
}

// NewSession builds the maze and spawns the keys. rng only drives the
// placement of keys beyond the listed positions; nil means time seeded.
func NewSession(level model.Level, cfg Config, rng *rand.Rand) (*Session, error) {
	level = level.WithDefaults()
	grid, err := level.Grid()
	if err != nil {
		return nil, err
	}
	s := &Session{
		cfg:      cfg,
		level:    level,
		grid:     grid,
		keys:     level.SpawnKeys(grid, rng),
		input:    NewAggregator(cfg),
		loco:     NewLocomotion(cfg),
		resolver: Resolver{Radius: level.KeyRadius},
		phase:    PhaseMenu,
	}
	s.player = model.PlayerState{Position: s.spawn(), Mode: model.ModeDesktop}
	return s, nil
}

func (s *Session) spawn() model.Vec3 {
	p := s.level.Spawn
	if p.Y <= 0 {
		p.Y = s.cfg.EyeHeight
	}
	return p
}

func (s *Session) Phase() Phase                 { return s.phase }
func (s *Session) Player() model.PlayerState    { return s.player }
func (s *Session) Level() model.Level           { return s.level }
func (s *Session) Grid() *model.MazeGrid        { return s.grid }
func (s *Session) Progress() model.Progress     { return s.keys.Progress() }
func (s *Session) Keys() []model.Collectible    { return s.keys.All() }
func (s *Session) Config() Config               { return s.cfg }
func (s *Session) Intent() model.MovementIntent { return s.input.Poll() }

// Apply dispatches one command and returns what it caused, in order.
func (s *Session) Apply(cmd Command) []Event {
	switch cmd.Type {
	case CmdStart:
		if s.phase != PhaseMenu {
			return nil
		}
		s.phase = PhasePlaying
		return []Event{{Type: EventStarted, Progress: s.Progress()}}

	case CmdRestart:
		s.restart()
		s.phase = PhasePlaying
		return []Event{{Type: EventRestarted, Progress: s.Progress()}}

	case CmdReturnToMenu:
		s.restart()
		s.phase = PhaseMenu
		return []Event{{Type: EventMenu, Progress: s.Progress()}}

	case CmdExitImmersive:
		// the XR runtime ends the session, the mode flips on CmdXRSessionEnd
		if s.player.Mode != model.ModeImmersiveVR {
			return nil
		}
		return []Event{{Type: EventExitImmersiveRequested, Mode: s.player.Mode}}

	case CmdKeyDown:
		s.input.Keyboard.KeyDown(cmd.Code)
	case CmdKeyUp:
		s.input.Keyboard.KeyUp(cmd.Code)
	case CmdBlur:
		s.input.Keyboard.Blur()
		s.input.Touch.ReleaseAll()
	case CmdTouchPress:
		s.input.Touch.Press(cmd.Direction)
	case CmdTouchRelease:
		s.input.Touch.Release(cmd.Direction)

	case CmdLook:
		if s.player.Mode == model.ModeDesktop {
			s.look(cmd.DeltaYaw, cmd.DeltaPitch)
		}

	case CmdJump:
		if s.phase != PhaseMenu {
			s.loco.Jump(&s.player)
		}

	case CmdPointerSelect:
		if s.player.Mode == model.ModeDesktop {
			p := s.player
			return s.selectRay(PointerRay(p.Position, p.FacingYaw, p.Pitch, s.cfg.FovY, cmd.Aspect, cmd.PointerX, cmd.PointerY))
		}
	case CmdWorldSelect:
		if s.player.Mode == model.ModeDesktop {
			return s.selectRay(cmd.Ray)
		}

	case CmdXRSessionStart:
		return s.enterImmersive()
	case CmdXRSessionEnd:
		return s.leaveImmersive()
	case CmdXRFrame:
		if s.player.Mode == model.ModeImmersiveVR {
			if cmd.Head != nil {
				s.player.HeadPose = *cmd.Head
			}
			s.input.Controllers.Update(cmd.Controllers)
			s.player.Position = s.player.HeadPose.Position.Add(s.player.Offset)
		}
	case CmdControllerSelect:
		if s.player.Mode == model.ModeImmersiveVR {
			if pad, ok := s.input.Controllers.Pad(cmd.Controller); ok {
				return s.selectRay(ControllerRay(pad.Pose))
			}
		}
	case CmdGamepad:
		if s.player.Mode == model.ModeDesktop {
			s.input.Controllers.Update(cmd.Controllers)
		}
	}
	return nil
}

// Tick advances one frame and returns the intent it moved by.
// Nothing moves while the menu is up.
func (s *Session) Tick() model.MovementIntent {
	if s.phase == PhaseMenu {
		return model.MovementIntent{}
	}
	intent := s.input.Poll()
	s.loco.Step(&s.player, intent)
	return intent
}

// Collect marks id as collected as if it had been picked.
func (s *Session) Collect(id int) []Event {
	_, changed := s.keys.MarkCollected(id)
	if !changed {
		return nil
	}
	events := []Event{{Type: EventCollected, ID: id, Progress: s.Progress()}}
	if s.keys.IsComplete() && !s.victorySignalled {
		s.victorySignalled = true
		s.phase = PhaseVictory
		events = append(events, Event{Type: EventVictory, Progress: s.Progress()})
	}
	return events
}

func (s *Session) selectRay(r model.Ray) []Event {
	if s.phase != PhasePlaying {
		return nil
	}
	id, ok := s.resolver.Pick(r, s.keys)
	if !ok {
		return nil
	}
	return s.Collect(id)
}

func (s *Session) look(dYaw, dPitch float64) {
	s.player.FacingYaw = math.Remainder(s.player.FacingYaw+dYaw, 2*math.Pi)
	s.player.Pitch = math.Max(-s.cfg.MaxPitch, math.Min(s.cfg.MaxPitch, s.player.Pitch+dPitch))
}

// restart keeps the key positions, clears their flags and puts the player
// back on the spawn point facing -Z.
func (s *Session) restart() {
	s.keys.ResetAll()
	s.victorySignalled = false
	s.input.Reset()
	prev := s.player
	s.player = model.PlayerState{Position: s.spawn(), Mode: prev.Mode}
	if prev.Mode == model.ModeImmersiveVR {
		s.player.HeadPose = prev.HeadPose
		s.player.Offset = s.player.Position.Sub(prev.HeadPose.Position)
		s.player.Offset.Y = 0
		s.player.Position = s.player.HeadPose.Position.Add(s.player.Offset)
	}
}

// enterImmersive puts the XR rig under the player's feet. From here on the
// head pose drives position and look commands are ignored.
func (s *Session) enterImmersive() []Event {
	if s.player.Mode == model.ModeImmersiveVR {
		return nil
	}
	s.player.Mode = model.ModeImmersiveVR
	s.player.Offset = model.Vec3{X: s.player.Position.X, Z: s.player.Position.Z}
	s.player.HeadPose = model.Pose{}
	s.input.Controllers.Clear()
	return []Event{{Type: EventModeChanged, Mode: s.player.Mode, Progress: s.Progress()}}
}

// leaveImmersive hands control back to the desktop. Position and facing are
// left where the headset had them.
func (s *Session) leaveImmersive() []Event {
	if s.player.Mode != model.ModeImmersiveVR {
		return nil
	}
	s.player.Mode = model.ModeDesktop
	s.player.Offset = model.Vec3{}
	s.input.Controllers.Clear()
	return []Event{{Type: EventModeChanged, Mode: s.player.Mode, Progress: s.Progress()}}
}

func (s *Session) Snapshot() model.SessionState {
	return model.SessionState{
		Phase:    s.phase.Name(),
		Mode:     s.player.Mode.Name(),
		Player:   s.player,
		Progress: s.Progress(),
		Keys:     s.keys.All(),
	}
}

// Setup is everything a renderer needs once per level.
func (s *Session) Setup(id string) model.Setup {
	return model.Setup{
		SessionID: id,
		Level:     s.level.Name,
		Cols:      s.grid.Width(),
		Rows:      s.grid.Height(),
		CellSize:  s.level.CellSize,
		KeyRadius: s.level.KeyRadius,
		Walls:     s.grid.WallPositions(s.level.CellSize),
		Keys:      s.keys.All(),
	}
}
