package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zucenko/mazekeys/game"
	"github.com/zucenko/mazekeys/model"
)

type testServer struct {
	*GameServer
	http   *httptest.Server
	cancel context.CancelFunc
}

func newTestServer(t *testing.T) *testServer {
	ctx, cancel := context.WithCancel(context.Background())
	gs := NewGameServer(NewLevelCatalog(), game.DefaultConfig())
	gs.Timeout = time.Second
	go gs.Loop(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/play", gs.HandleHttpCall())
	mux.HandleFunc("/sessions", gs.HandleSessions())
	mux.HandleFunc("/metrics", gs.HandleMetrics())
	mux.HandleFunc("/levels", gs.HandleLevels())
	mux.HandleFunc("/sessions/", gs.HandleSession(func(r *http.Request) string {
		return strings.TrimPrefix(r.URL.Path, "/sessions/")
	}))
	ts := &testServer{GameServer: gs, http: httptest.NewServer(mux), cancel: cancel}
	t.Cleanup(func() {
		cancel()
		ts.http.Close()
	})
	return ts
}

func (ts *testServer) dial(t *testing.T, query string) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(ts.http.URL, "http") + "/play?" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func (ts *testServer) dialStatus(query string) int {
	url := "ws" + strings.TrimPrefix(ts.http.URL, "http") + "/play?" + query
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		conn.Close()
		return http.StatusSwitchingProtocols
	}
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}

func readJSON(t *testing.T, conn *websocket.Conn) model.ServerMessage {
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var mes model.ServerMessage
	require.NoError(t, conn.ReadJSON(&mes))
	return mes
}

func send(t *testing.T, conn *websocket.Conn, cmds ...model.WireCommand) {
	require.NoError(t, conn.WriteJSON(model.ClientMessage{Commands: cmds}))
}

func overhead(k model.Collectible) model.WireCommand {
	return model.WireCommand{
		Type: "worldSelect",
		Ray:  &model.Ray{Origin: model.Vec3{X: k.Position.X, Y: 10, Z: k.Position.Z}, Direction: model.Vec3{Y: -1}},
	}
}

func TestPlayCollectAllKeys(t *testing.T) {
	ts := newTestServer(t)
	conn := ts.dial(t, "level=classic")

	first := readJSON(t, conn)
	require.Len(t, first.Setup, 1)
	setup := first.Setup[0]
	assert.Equal(t, "classic", setup.Level)
	assert.Equal(t, 6, setup.Cols)
	assert.Len(t, setup.Walls, 24)
	require.Len(t, setup.Keys, 3)
	require.Len(t, first.State, 1)
	assert.Equal(t, "MENU", first.State[0].Phase)

	cmds := []model.WireCommand{{Type: "start"}}
	for _, k := range setup.Keys {
		cmds = append(cmds, overhead(k))
	}
	cmds = append(cmds, overhead(setup.Keys[0]))
	send(t, conn, cmds...)

	var collected, victories int
	var last model.SessionState
	for victories == 0 {
		mes := readJSON(t, conn)
		for _, e := range mes.Events {
			switch e.Type {
			case "collected":
				collected++
			case "victory":
				victories++
				assert.Equal(t, model.Progress{Collected: 3, Total: 3}, e.Progress)
			}
		}
		if len(mes.State) > 0 {
			last = mes.State[0]
		}
	}
	assert.Equal(t, 3, collected)
	assert.Equal(t, "VICTORY", last.Phase)

	// more selects after the win do not signal again
	send(t, conn, overhead(setup.Keys[1]), model.WireCommand{Type: "look", DeltaYaw: 0.1})
	mes := readJSON(t, conn)
	for _, e := range mes.Events {
		assert.NotEqual(t, "victory", e.Type)
		assert.NotEqual(t, "collected", e.Type)
	}

	// restart and the same run wins again
	send(t, conn, model.WireCommand{Type: "restart"}, overhead(setup.Keys[0]), overhead(setup.Keys[1]), overhead(setup.Keys[2]))
	victories = 0
	for victories == 0 {
		for _, e := range readJSON(t, conn).Events {
			if e.Type == "victory" {
				victories++
			}
		}
	}

	assert.Equal(t, int64(6), atomic.LoadInt64(&ts.Metrics.Collected))
}

func TestPlayMovesPlayer(t *testing.T) {
	ts := newTestServer(t)
	conn := ts.dial(t, "")
	readJSON(t, conn)

	send(t, conn, model.WireCommand{Type: "start"}, model.WireCommand{Type: "keyDown", Code: "KeyW"})
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mes := readJSON(t, conn)
		if len(mes.State) > 0 && mes.State[0].Player.Position.Z < 4.5 {
			return
		}
	}
	t.Fatal("player never moved")
}

func TestPlayGobCodec(t *testing.T) {
	ts := newTestServer(t)
	conn := ts.dial(t, "level=extended&codec=gob")

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	typ, r, err := conn.NextReader()
	require.NoError(t, err)
	assert.Equal(t, websocket.BinaryMessage, typ)
	var mes model.ServerMessage
	require.NoError(t, GobCodec{}.Decode(r, &mes))
	require.Len(t, mes.Setup, 1)
	assert.Equal(t, "extended", mes.Setup[0].Level)
	assert.Len(t, mes.Setup[0].Keys, 8)

	w, err := conn.NextWriter(websocket.BinaryMessage)
	require.NoError(t, err)
	require.NoError(t, GobCodec{}.Encode(w, model.ClientMessage{Commands: []model.WireCommand{{Type: "start"}}}))
	require.NoError(t, w.Close())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, r, err = conn.NextReader()
	require.NoError(t, err)
	mes = model.ServerMessage{}
	require.NoError(t, GobCodec{}.Decode(r, &mes))
	require.Len(t, mes.Events, 1)
	assert.Equal(t, "started", mes.Events[0].Type)
}

func TestJoinExistingSession(t *testing.T) {
	ts := newTestServer(t)
	a := ts.dial(t, "level=classic")
	setup := readJSON(t, a).Setup[0]

	b := ts.dial(t, "session="+setup.SessionID)
	joined := readJSON(t, b)
	require.Len(t, joined.Setup, 1)
	assert.Equal(t, setup.SessionID, joined.Setup[0].SessionID)

	// both players see what one of them does
	send(t, a, model.WireCommand{Type: "start"})
	for _, conn := range []*websocket.Conn{a, b} {
		mes := readJSON(t, conn)
		require.Len(t, mes.Events, 1)
		assert.Equal(t, "started", mes.Events[0].Type)
	}

	infos := ts.Sessions()
	require.Len(t, infos, 1)
	assert.Equal(t, 2, infos[0].Players)
	assert.Equal(t, "PLAYING", infos[0].Phase)
}

func TestPlayRefusals(t *testing.T) {
	ts := newTestServer(t)
	assert.Equal(t, http.StatusBadRequest, ts.dialStatus("level=moon"))
	assert.Equal(t, http.StatusBadRequest, ts.dialStatus("codec=xml"))
	assert.Equal(t, http.StatusBadRequest, ts.dialStatus("session=not-a-uuid"))
	assert.Equal(t, http.StatusNotFound, ts.dialStatus("session=8a3c2b55-1d0e-4f43-9d8a-6f1f1f6a2c11"))
}

func TestMalformedMessageDropsOnlyThatPlayer(t *testing.T) {
	ts := newTestServer(t)
	a := ts.dial(t, "level=classic")
	setup := readJSON(t, a).Setup[0]
	b := ts.dial(t, "session="+setup.SessionID)
	readJSON(t, b)

	require.NoError(t, b.WriteMessage(websocket.TextMessage, []byte("{not json")))

	send(t, a, model.WireCommand{Type: "start"})
	mes := readJSON(t, a)
	require.Len(t, mes.Events, 1)
	assert.Equal(t, "started", mes.Events[0].Type)

	assert.Eventually(t, func() bool {
		infos := ts.Sessions()
		return len(infos) == 1 && infos[0].Players == 1
	}, 2*time.Second, 20*time.Millisecond)
}

func TestHTTPEndpoints(t *testing.T) {
	ts := newTestServer(t)
	conn := ts.dial(t, "level=classic")
	setup := readJSON(t, conn).Setup[0]

	resp, err := http.Get(ts.http.URL + "/sessions/" + setup.SessionID)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var st model.SessionState
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
	assert.Equal(t, "MENU", st.Phase)
	assert.Len(t, st.Keys, 3)

	resp2, err := http.Get(ts.http.URL + "/sessions/8a3c2b55-1d0e-4f43-9d8a-6f1f1f6a2c11")
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp2.StatusCode)

	resp3, err := http.Get(ts.http.URL + "/levels")
	require.NoError(t, err)
	defer resp3.Body.Close()
	var names []string
	require.NoError(t, json.NewDecoder(resp3.Body).Decode(&names))
	assert.Contains(t, names, "classic")
	assert.Contains(t, names, GeneratedPrefix)

	resp4, err := http.Get(ts.http.URL + "/metrics")
	require.NoError(t, err)
	defer resp4.Body.Close()
	var m map[string]interface{}
	require.NoError(t, json.NewDecoder(resp4.Body).Decode(&m))
	assert.EqualValues(t, 1, m["sessions_created"])
}

func TestSessionEndsWhenLastPlayerLeaves(t *testing.T) {
	ts := newTestServer(t)
	conn := ts.dial(t, "level=classic")
	readJSON(t, conn)
	require.Len(t, ts.Sessions(), 1)

	conn.Close()
	assert.Eventually(t, func() bool { return len(ts.Sessions()) == 0 }, 2*time.Second, 20*time.Millisecond)
}
