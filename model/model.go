package model

import "fmt"

type Collectible struct {
	ID        int  `json:"id"`
	Position  Vec3 `json:"position"`
	Collected bool `json:"collected"`
}

type Mode int

const (
	ModeDesktop Mode = iota
	ModeImmersiveVR
)

func (m Mode) Name() string {
	switch m {
	case ModeDesktop:
		return "DESKTOP"
	case ModeImmersiveVR:
		return "IMMERSIVE_VR"
	default:
		return fmt.Sprintf("n/a:%d", m)
	}
}

// PlayerState in ModeImmersiveVR: Position = HeadPose.Position + Offset.
// In ModeDesktop Position is owned by locomotion and HeadPose is ignored.
type PlayerState struct {
	Position  Vec3    `json:"position"`
	FacingYaw float64 `json:"facingYaw"`
	Pitch     float64 `json:"pitch"`
	Mode      Mode    `json:"mode"`
	Offset    Vec3    `json:"offset"`
	HeadPose  Pose    `json:"headPose"`
}

type MovementIntent struct {
	Forward     bool
	Backward    bool
	StrafeLeft  bool
	StrafeRight bool
}

func (i MovementIntent) IsZero() bool {
	return !i.Forward && !i.Backward && !i.StrafeLeft && !i.StrafeRight
}

// MergeIntents ORs every source, so two sources holding the same
// direction never double the speed.
func MergeIntents(parts ...MovementIntent) MovementIntent {
	var out MovementIntent
	for _, p := range parts {
		out.Forward = out.Forward || p.Forward
		out.Backward = out.Backward || p.Backward
		out.StrafeLeft = out.StrafeLeft || p.StrafeLeft
		out.StrafeRight = out.StrafeRight || p.StrafeRight
	}
	return out
}

type Progress struct {
	Collected int `json:"collected"`
	Total     int `json:"total"`
}

func (p Progress) Complete() bool {
	return p.Collected == p.Total
}

func (p Progress) String() string {
	return fmt.Sprintf("%d/%d", p.Collected, p.Total)
}
