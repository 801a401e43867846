package model

type ServerMessage struct {
	Setup  []Setup        `json:"setup,omitempty"`
	State  []SessionState `json:"state,omitempty"`
	Events []WireEvent    `json:"events,omitempty"`
}

type Setup struct {
	SessionID string        `json:"sessionId"`
	Level     string        `json:"level"`
	Cols      int           `json:"cols"`
	Rows      int           `json:"rows"`
	CellSize  float64       `json:"cellSize"`
	KeyRadius float64       `json:"keyRadius"`
	Walls     []Vec3        `json:"walls"`
	Keys      []Collectible `json:"keys"`
}

type SessionState struct {
	Phase    string        `json:"phase"`
	Mode     string        `json:"mode"`
	Player   PlayerState   `json:"player"`
	Progress Progress      `json:"progress"`
	Keys     []Collectible `json:"keys,omitempty"`
}

type WireEvent struct {
	Type     string   `json:"type"`
	ID       int      `json:"id,omitempty"`
	Progress Progress `json:"progress"`
	Mode     string   `json:"mode,omitempty"`
}
