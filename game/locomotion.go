package game

import (
	"math"

	"github.com/zucenko/mazekeys/model"
)

// Displacement is the horizontal move for one tick. Yaw 0 faces -Z.
// Components are summed, so opposing flags cancel out exactly.
func Displacement(intent model.MovementIntent, yaw, speed float64) model.Vec3 {
	s, c := math.Sincos(yaw)
	var d model.Vec3
	if intent.Forward {
		d = d.Add(model.Vec3{X: -s, Z: -c})
	}
	if intent.Backward {
		d = d.Add(model.Vec3{X: s, Z: c})
	}
	if intent.StrafeLeft {
		d = d.Add(model.Vec3{X: -c, Z: s})
	}
	if intent.StrafeRight {
		d = d.Add(model.Vec3{X: c, Z: -s})
	}
	return d.Scale(speed)
}

// Locomotion moves the player. There is no collision against walls.
type Locomotion struct {
	Speed      float64
	EyeHeight  float64
	FallRate   float64
	JumpHeight float64
}

func NewLocomotion(cfg Config) *Locomotion {
	return &Locomotion{
		Speed:      cfg.MoveSpeed,
		EyeHeight:  cfg.EyeHeight,
		FallRate:   cfg.FallRate,
		JumpHeight: cfg.JumpHeight,
	}
}

func (l *Locomotion) Step(p *model.PlayerState, intent model.MovementIntent) {
	if p.Mode == model.ModeImmersiveVR {
		// device owns the height, we only slide the rig
		p.Offset = p.Offset.Add(Displacement(intent, p.HeadPose.Orientation.Yaw(), l.Speed))
		p.Position = p.HeadPose.Position.Add(p.Offset)
		return
	}

	p.Position = p.Position.Add(Displacement(intent, p.FacingYaw, l.Speed))
	if p.Position.Y > l.EyeHeight {
		p.Position.Y = math.Max(p.Position.Y-l.FallRate, l.EyeHeight)
	}
}

// Jump works on the desktop only and only from the ground.
func (l *Locomotion) Jump(p *model.PlayerState) bool {
	if p.Mode != model.ModeDesktop || p.Position.Y > l.EyeHeight {
		return false
	}
	p.Position.Y += l.JumpHeight
	return true
}
