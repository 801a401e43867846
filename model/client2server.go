package model

type ClientMessage struct {
	Commands []WireCommand `json:"commands"`
}

// WireCommand is the flat form of a session command. Type names the command,
// the remaining fields are read according to it.
type WireCommand struct {
	Type        string            `json:"type"`
	Code        string            `json:"code,omitempty"`
	Direction   string            `json:"direction,omitempty"`
	DeltaYaw    float64           `json:"deltaYaw,omitempty"`
	DeltaPitch  float64           `json:"deltaPitch,omitempty"`
	PointerX    float64           `json:"pointerX,omitempty"`
	PointerY    float64           `json:"pointerY,omitempty"`
	Aspect      float64           `json:"aspect,omitempty"`
	Ray         *Ray              `json:"ray,omitempty"`
	Head        *Pose             `json:"head,omitempty"`
	Controllers []ControllerInput `json:"controllers,omitempty"`
	Controller  int               `json:"controller,omitempty"`
}

// ControllerInput is one controller as the XR runtime reports it. Axis and
// button layouts differ per vendor, so both arrays may be short or empty.
type ControllerInput struct {
	Pose    Pose      `json:"pose"`
	Axes    []float64 `json:"axes,omitempty"`
	Buttons []bool    `json:"buttons,omitempty"`
}
