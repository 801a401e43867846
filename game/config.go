package game

import (
	"encoding/json"
	"math"
	"os"
	"strconv"
)

// Config holds the tuning values of a session. Zero values are not usable,
// start from DefaultConfig.
type Config struct {
	MoveSpeed  float64 // world units per tick
	EyeHeight  float64
	FallRate   float64 // per tick, desktop only
	JumpHeight float64

	DeadZone float64
	// AxisPairs are probed in order, each is {strafe axis, forward axis}.
	// Vendors disagree on the layout, so the first pair that exists and
	// leaves the dead zone is used.
	AxisPairs      [][2]int
	ForwardButton  int
	BackwardButton int

	TickRate int
	FovY     float64 // radians
	MaxPitch float64
}

func DefaultConfig() Config {
	return Config{
		MoveSpeed:      0.1,
		EyeHeight:      1.6,
		FallRate:       0.05,
		JumpHeight:     1.0,
		DeadZone:       0.15,
		AxisPairs:      [][2]int{{2, 3}, {0, 1}},
		ForwardButton:  4,
		BackwardButton: 5,
		TickRate:       60,
		FovY:           75 * math.Pi / 180,
		MaxPitch:       math.Pi/2 - 0.01,
	}
}

// LoadConfig applies environment overrides on top of DefaultConfig.
// Values that do not parse are ignored.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("MAZEKEYS_MOVE_SPEED"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.MoveSpeed = f
		}
	}

	if v := os.Getenv("MAZEKEYS_EYE_HEIGHT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.EyeHeight = f
		}
	}

	// 0..1, anything outside would either disable or freeze the sticks
	if v := os.Getenv("MAZEKEYS_DEAD_ZONE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f < 1 {
			cfg.DeadZone = f
		}
	}

	// JSON, e.g. [[2,3],[0,1]]
	if v := os.Getenv("MAZEKEYS_AXIS_PAIRS"); v != "" {
		var pairs [][2]int
		if err := json.Unmarshal([]byte(v), &pairs); err == nil && len(pairs) > 0 {
			cfg.AxisPairs = pairs
		}
	}

	if v := os.Getenv("MAZEKEYS_TICK_RATE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TickRate = n
		}
	}

	return cfg
}
