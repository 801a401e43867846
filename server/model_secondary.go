package server

import (
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zucenko/mazekeys/game"
	"github.com/zucenko/mazekeys/model"
)

const HTTP_SUCCESS = 200
const HTTP_BAD_REQUEST = 400
const HTTP_NOT_FOUND = 404
const HTTP_TIMEOUT = 408
const HTTP_SERVER_ERR = 503

type ResponseCode int

const (
	GAME_READY ResponseCode = iota
	GAME_NOT_FOUND
	GAME_INVALIDE
	GAME_OVER
)

func (h ResponseCode) ToHttp() int {
	switch h {
	case GAME_READY:
		return HTTP_SUCCESS
	case GAME_NOT_FOUND:
		return HTTP_NOT_FOUND
	case GAME_INVALIDE:
		return HTTP_BAD_REQUEST
	case GAME_OVER:
		return HTTP_SERVER_ERR
	default:
		panic(h)
	}
}

func (gss GameSessionState) Name() string {
	switch gss {
	case GS_NEW:
		return "GS_NEW"
	case GS_PLAY:
		return "GS_PLAY"
	case GS_OVER:
		return "GS_OVER"
	default:
		return fmt.Sprintf("n/a:%d", gss)
	}
}

func (ps PlayerSessionState) Name() string {
	switch ps {
	case PS_NEW:
		return "NEW"
	case PS_PLAY:
		return "PLAY"
	case PS_OVER:
		return "OVER"
	case PS_ERR:
		return "ERR"
	default:
		return "N/A"
	}
}

type GameContextAwaiting struct {
	ResponseCode ResponseCode
	GameSession  *GameSession
	Err          error
}

// GameRequest joins SessionID when set, otherwise creates a session on Level.
type GameRequest struct {
	Level               string
	SessionID           string
	GameContextAwaiting chan GameContextAwaiting
}

type PlayerConnectRequest struct {
	Con      *websocket.Conn
	Codec    Codec
	GameOver chan struct{}
}

type PlayerCommand struct {
	Player  int32
	Command game.Command
}

// SessionInfo is the listing entry of /sessions.
type SessionInfo struct {
	Id       string         `json:"id"`
	Level    string         `json:"level"`
	State    string         `json:"state"`
	Phase    string         `json:"phase"`
	Players  int            `json:"players"`
	Progress model.Progress `json:"progress"`
	Created  time.Time      `json:"created"`
}
