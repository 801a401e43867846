package main

import (
	"net/http"

	"github.com/matryer/way"

	"github.com/zucenko/mazekeys/server"
)

const URI_WS = "/play"

func (s *Server) routes() {
	s.router = way.NewRouter()
	s.router.HandleFunc("GET", URI_WS, s.GameServer.HandleHttpCall())
	s.router.HandleFunc("GET", "/sessions", s.GameServer.HandleSessions())
	s.router.HandleFunc("GET", "/sessions/:id", s.GameServer.HandleSession(func(r *http.Request) string {
		return way.Param(r.Context(), "id")
	}))
	s.router.HandleFunc("GET", "/levels", s.GameServer.HandleLevels())
	s.router.HandleFunc("GET", "/metrics", s.GameServer.HandleMetrics())
	s.router.HandleFunc("GET", "/healthz", server.HandleHealth())
}
