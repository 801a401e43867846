package server

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/zucenko/mazekeys/game"
	"github.com/zucenko/mazekeys/model"
)

type GameServer struct {
	// owned by Loop
	GameSessions map[uuid.UUID]*GameSession

	GameRequests chan GameRequest
	ListRequests chan chan []*GameSession
	SessionEnded chan uuid.UUID
	Upgrader     *websocket.Upgrader
	Levels       *LevelCatalog
	Config       game.Config
	Metrics      *Metrics
	Timeout      time.Duration
}

type GameSessionState int

const (
	GS_NEW GameSessionState = iota
	GS_PLAY
	GS_OVER
)

// GameSession hosts one game.Session. Only Loop touches Game and
// PlayerSessions.
type GameSession struct {
	Id                    uuid.UUID
	State                 GameSessionState
	Game                  *game.Session
	Created               time.Time
	PlayerSessions        []*PlayerSession
	Errors                chan int32
	Commands              chan PlayerCommand
	PlayerConnectRequests chan PlayerConnectRequest
	Snapshots             chan chan model.SessionState
	Infos                 chan chan SessionInfo

	ended    chan<- uuid.UUID
	tickRate int
	metrics  *Metrics
	nextId   int32
	dirty    bool
	pending  []model.WireEvent
}

type PlayerSessionState int

const (
	PS_NEW PlayerSessionState = iota + 1
	PS_PLAY
	PS_OVER
	PS_ERR
)

type PlayerSession struct {
	State       PlayerSessionState
	Id          int32
	GameSession *GameSession
	Conn        *websocket.Conn
	Codec       Codec
	GameOver    chan struct{}

	MessagesToSend chan model.ServerMessage

	DebugInMessages  int
	DebugOutMessages int
	DebugLastMessage time.Time
	DebugLastPing    time.Time
	DebugPings       int
}
