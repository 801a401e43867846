package server

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warnf("writeJSON %v", err)
	}
}

func (s *GameServer) HandleSessions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, HTTP_SUCCESS, s.Sessions())
	}
}

// HandleSession serves one snapshot; id extracts the session id from the
// request so the handler does not depend on a router.
func (s *GameServer) HandleSession(id func(r *http.Request) string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gs, found := s.Session(id(r))
		if !found {
			http.Error(w, "no such session", GAME_NOT_FOUND.ToHttp())
			return
		}
		st, ok := gs.Snapshot(s.Timeout)
		if !ok {
			w.WriteHeader(HTTP_TIMEOUT)
			return
		}
		writeJSON(w, HTTP_SUCCESS, st)
	}
}

func (s *GameServer) HandleLevels() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, HTTP_SUCCESS, append(s.Levels.Names(), GeneratedPrefix))
	}
}

func (s *GameServer) HandleMetrics() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, HTTP_SUCCESS, s.Metrics.Snapshot())
	}
}

func HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, HTTP_SUCCESS, map[string]string{"status": "ok"})
	}
}
