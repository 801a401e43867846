package server

import (
	"context"
	"net"
	"net/http"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/zucenko/mazekeys/game"
	"github.com/zucenko/mazekeys/model"
)

// SessionIdleTimeout ends sessions that nobody ever joined.
var SessionIdleTimeout = 30 * time.Second

func NewGameServer(levels *LevelCatalog, cfg game.Config) *GameServer {
	return &GameServer{
		GameSessions: make(map[uuid.UUID]*GameSession),
		GameRequests: make(chan GameRequest),
		ListRequests: make(chan chan []*GameSession),
		SessionEnded: make(chan uuid.UUID, 16),
		Upgrader: &websocket.Upgrader{
			// XR pages are usually served from elsewhere
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		Levels:  levels,
		Config:  cfg,
		Metrics: &Metrics{},
		Timeout: 200 * time.Millisecond,
	}
}

// HandleHttpCall upgrades GET /play?level=&session=&codec= and blocks until
// the session lets the player go.
func (s *GameServer) HandleHttpCall() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		log.Printf("HandleHttpCall - connection received level:%q session:%q", q.Get("level"), q.Get("session"))

		codec, ok := CodecByName(q.Get("codec"))
		if !ok {
			http.Error(w, "unknown codec", HTTP_BAD_REQUEST)
			return
		}

		gcas := make(chan GameContextAwaiting, 1)
		select {
		case s.GameRequests <- GameRequest{Level: q.Get("level"), SessionID: q.Get("session"), GameContextAwaiting: gcas}:
		case <-time.After(s.Timeout):
			log.Warn("GameRequests TIMEOUTED")
			w.WriteHeader(HTTP_TIMEOUT)
			return
		}

		var gca GameContextAwaiting
		select {
		case gca = <-gcas:
			switch gca.ResponseCode {
			case GAME_NOT_FOUND, GAME_INVALIDE, GAME_OVER:
				msg := "no game"
				if gca.Err != nil {
					msg = gca.Err.Error()
				}
				log.Warnf("HandleHttpCall refused code:%d %s", gca.ResponseCode, msg)
				http.Error(w, msg, gca.ResponseCode.ToHttp())
				return
			case GAME_READY:
			default:
				log.Errorf("gca.ResponseCode not expected:%v", gca.ResponseCode)
				w.WriteHeader(HTTP_SERVER_ERR)
				return
			}
		case <-time.After(s.Timeout):
			log.Warnf("HandleHttpCall GameContextAwaiting <- TIMEOUTED")
			w.WriteHeader(HTTP_TIMEOUT)
			return
		}

		// the upgrader answers the client itself on failure
		con, err := s.Upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("HandleHttpCall websocket upgrade err %v", err)
			return
		}
		defer con.Close()

		gameOver := make(chan struct{})
		select {
		case gca.GameSession.PlayerConnectRequests <- PlayerConnectRequest{
			Con:      con,
			Codec:    codec,
			GameOver: gameOver}:
		case <-time.After(s.Timeout):
			log.Warnf("HandleHttpCall session %s did not take the player", gca.GameSession.Id)
			return
		}

		<-gameOver
		log.Info("HandleHttpCall game over")
	}
}

func (s *GameServer) Loop(ctx context.Context) {
	log.Printf("GameServer.Loop starting")
	for {
		select {
		case <-ctx.Done():
			log.Printf("GameServer.Loop stopped")
			return
		case gameReq := <-s.GameRequests:
			gameReq.GameContextAwaiting <- s.findOrCreate(ctx, gameReq)
		case reply := <-s.ListRequests:
			list := make([]*GameSession, 0, len(s.GameSessions))
			for _, gs := range s.GameSessions {
				list = append(list, gs)
			}
			sort.Slice(list, func(i, j int) bool { return list[i].Created.Before(list[j].Created) })
			reply <- list
		case id := <-s.SessionEnded:
			delete(s.GameSessions, id)
			s.Metrics.IncSessionsEnded()
			log.WithField("session", id.String()).Info("GameServer.Loop session removed")
		}
	}
}

func (s *GameServer) findOrCreate(ctx context.Context, req GameRequest) GameContextAwaiting {
	if req.SessionID != "" {
		id, err := uuid.Parse(req.SessionID)
		if err != nil {
			return GameContextAwaiting{ResponseCode: GAME_INVALIDE, Err: err}
		}
		gs, found := s.GameSessions[id]
		if !found {
			return GameContextAwaiting{ResponseCode: GAME_NOT_FOUND}
		}
		return GameContextAwaiting{ResponseCode: GAME_READY, GameSession: gs}
	}

	level, err := s.Levels.Get(req.Level)
	if err != nil {
		return GameContextAwaiting{ResponseCode: GAME_INVALIDE, Err: err}
	}
	gs, err := NewGameSession(level, s.Config, s.Metrics, s.SessionEnded)
	if err != nil {
		log.Errorf("create GameSession: %v", err)
		return GameContextAwaiting{ResponseCode: GAME_INVALIDE, Err: err}
	}
	log.WithFields(log.Fields{"session": gs.Id.String(), "level": level.Name}).Info("create GameSession")
	s.GameSessions[gs.Id] = gs
	s.Metrics.IncSessionsCreated()
	go gs.Loop(ctx)
	return GameContextAwaiting{ResponseCode: GAME_READY, GameSession: gs}
}

// Sessions asks Loop for the table, then every session for its summary.
// Sessions that do not answer in time are left out.
func (s *GameServer) Sessions() []SessionInfo {
	reply := make(chan []*GameSession, 1)
	select {
	case s.ListRequests <- reply:
	case <-time.After(s.Timeout):
		return nil
	}
	list := <-reply
	infos := make([]SessionInfo, 0, len(list))
	for _, gs := range list {
		if info, ok := gs.Info(s.Timeout); ok {
			infos = append(infos, info)
		}
	}
	return infos
}

func (s *GameServer) Session(id string) (*GameSession, bool) {
	reply := make(chan []*GameSession, 1)
	select {
	case s.ListRequests <- reply:
	case <-time.After(s.Timeout):
		return nil, false
	}
	for _, gs := range <-reply {
		if gs.Id.String() == id {
			return gs, true
		}
	}
	return nil, false
}

func NewGameSession(level model.Level, cfg game.Config, metrics *Metrics, ended chan<- uuid.UUID) (*GameSession, error) {
	g, err := game.NewSession(level, cfg, nil)
	if err != nil {
		return nil, err
	}
	tickRate := cfg.TickRate
	if tickRate <= 0 {
		tickRate = game.DefaultConfig().TickRate
	}
	return &GameSession{
		Id:                    uuid.New(),
		State:                 GS_NEW,
		Game:                  g,
		Created:               time.Now(),
		PlayerSessions:        make([]*PlayerSession, 0),
		Errors:                make(chan int32),
		Commands:              make(chan PlayerCommand, 64),
		PlayerConnectRequests: make(chan PlayerConnectRequest),
		Snapshots:             make(chan chan model.SessionState),
		Infos:                 make(chan chan SessionInfo),
		ended:                 ended,
		tickRate:              tickRate,
		metrics:               metrics,
	}, nil
}

// Loop is the only goroutine touching Game. Commands are applied as they
// come, movement and broadcasting happen on the ticker.
func (gs *GameSession) Loop(ctx context.Context) {
	logger := log.WithField("session", gs.Id.String())
	logger.Info("GameSession.Loop start")
	ticker := time.NewTicker(time.Second / time.Duration(gs.tickRate))
	defer ticker.Stop()
	defer gs.end(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case pcr := <-gs.PlayerConnectRequests:
			gs.addPlayer(pcr.Con, pcr.Codec, pcr.GameOver)
			gs.State = GS_PLAY
		case errPlayer := <-gs.Errors:
			gs.removePlayer(errPlayer)
			if len(gs.PlayerSessions) == 0 {
				logger.Info("GameSession.Loop last player left")
				return
			}
		case pc := <-gs.Commands:
			gs.apply(logger, pc)
		case reply := <-gs.Snapshots:
			reply <- gs.Game.Snapshot()
		case reply := <-gs.Infos:
			reply <- gs.info()
		case <-ticker.C:
			if gs.State == GS_NEW && time.Since(gs.Created) > SessionIdleTimeout {
				logger.Warn("GameSession.Loop nobody joined")
				return
			}
			gs.tick()
		}
	}
}

func (gs *GameSession) apply(logger *log.Entry, pc PlayerCommand) {
	events := gs.Game.Apply(pc.Command)
	gs.dirty = true
	for _, e := range events {
		switch e.Type {
		case game.EventCollected:
			gs.metrics.IncCollected()
			logger.WithFields(log.Fields{"player": pc.Player, "key": e.ID, "progress": e.Progress.String()}).Info("key collected")
		case game.EventVictory:
			gs.metrics.IncVictories()
			logger.WithField("player", pc.Player).Info("victory")
		}
		gs.pending = append(gs.pending, e.Wire())
	}
}

func (gs *GameSession) tick() {
	start := time.Now()
	if intent := gs.Game.Tick(); !intent.IsZero() {
		gs.dirty = true
	}
	if gs.dirty || len(gs.pending) > 0 {
		gs.broadcast(model.ServerMessage{
			State:  []model.SessionState{gs.Game.Snapshot()},
			Events: gs.pending,
		})
		gs.pending = nil
		gs.dirty = false
	}
	gs.metrics.AddTick(time.Since(start).Nanoseconds())
}

// broadcast never blocks the loop, a slow client just misses frames.
func (gs *GameSession) broadcast(mes model.ServerMessage) {
	for _, ps := range gs.PlayerSessions {
		select {
		case ps.MessagesToSend <- mes:
		default:
			gs.metrics.IncMessageDropped()
		}
	}
}

func (gs *GameSession) info() SessionInfo {
	return SessionInfo{
		Id:       gs.Id.String(),
		Level:    gs.Game.Level().Name,
		State:    gs.State.Name(),
		Phase:    gs.Game.Phase().Name(),
		Players:  len(gs.PlayerSessions),
		Progress: gs.Game.Progress(),
		Created:  gs.Created,
	}
}

func (gs *GameSession) Snapshot(timeout time.Duration) (model.SessionState, bool) {
	reply := make(chan model.SessionState, 1)
	select {
	case gs.Snapshots <- reply:
		return <-reply, true
	case <-time.After(timeout):
		return model.SessionState{}, false
	}
}

func (gs *GameSession) Info(timeout time.Duration) (SessionInfo, bool) {
	reply := make(chan SessionInfo, 1)
	select {
	case gs.Infos <- reply:
		return <-reply, true
	case <-time.After(timeout):
		return SessionInfo{}, false
	}
}

func (gs *GameSession) end(ctx context.Context) {
	gs.State = GS_OVER
	for len(gs.PlayerSessions) > 0 {
		gs.removePlayer(gs.PlayerSessions[0].Id)
	}
	select {
	case gs.ended <- gs.Id:
	case <-ctx.Done():
	}
	log.WithField("session", gs.Id.String()).Info("GameSession.Loop ended")
}

func (gs *GameSession) addPlayer(
	conn *websocket.Conn,
	codec Codec,
	gameOver chan struct{},
) {
	ps := &PlayerSession{
		State:          PS_NEW,
		Id:             gs.nextId,
		GameSession:    gs,
		Conn:           conn,
		Codec:          codec,
		GameOver:       gameOver,
		MessagesToSend: make(chan model.ServerMessage, 32),
	}
	gs.nextId++
	log.WithFields(log.Fields{"session": gs.Id.String(), "player": ps.Id, "codec": codec.Name()}).Info("GameSession.addPlayer")

	conn.SetPingHandler(
		func(message string) error {
			err := conn.WriteControl(websocket.PongMessage, []byte(message), time.Now().Add(time.Second))
			ps.DebugLastPing = time.Now()
			ps.DebugPings++
			if err == websocket.ErrCloseSent {
				return nil
			} else if e, ok := err.(net.Error); ok && e.Temporary() {
				return nil
			}
			return err
		})

	ps.MessagesToSend <- model.ServerMessage{
		Setup: []model.Setup{gs.Game.Setup(gs.Id.String())},
		State: []model.SessionState{gs.Game.Snapshot()},
	}
	ps.State = PS_PLAY
	go ps.LoopChannelRead()
	go ps.LoopChannelWrite()
	gs.PlayerSessions = append(gs.PlayerSessions, ps)
}

// removePlayer is safe to call twice, both pumps report their failures.
func (gs *GameSession) removePlayer(id int32) {
	for i, ps := range gs.PlayerSessions {
		if ps.Id != id {
			continue
		}
		ps.State = PS_OVER
		close(ps.MessagesToSend)
		close(ps.GameOver)
		gs.PlayerSessions = append(gs.PlayerSessions[:i], gs.PlayerSessions[i+1:]...)
		log.WithFields(log.Fields{"session": gs.Id.String(), "player": id}).Info("GameSession.removePlayer")
		return
	}
}

// fail reports the player to the session loop unless it already let go.
func (ps *PlayerSession) fail() {
	select {
	case ps.GameSession.Errors <- ps.Id:
	case <-ps.GameOver:
	}
}

func (ps *PlayerSession) LoopChannelRead() {
	logger := log.WithFields(log.Fields{"session": ps.GameSession.Id.String(), "player": ps.Id})
	logger.Debug("LoopChannelRead STARTED")
	metrics := ps.GameSession.metrics
loop:
	for {
		_, r, err := ps.Conn.NextReader()
		if err != nil {
			logger.Debugf("LoopChannelRead err reading message from Conn %v", err)
			ps.fail()
			break loop
		}
		cm := &model.ClientMessage{}
		if err = ps.Codec.Decode(r, cm); err != nil {
			logger.Warnf("LoopChannelRead cant decode %v", err)
			ps.fail()
			break loop
		}
		ps.DebugLastMessage = time.Now()
		ps.DebugInMessages++

		for _, wc := range cm.Commands {
			cmd, err := game.CommandFromWire(wc)
			if err != nil {
				metrics.IncRejected()
				logger.Warnf("LoopChannelRead rejected command: %v", err)
				continue
			}
			select {
			case ps.GameSession.Commands <- PlayerCommand{Player: ps.Id, Command: cmd}:
				metrics.IncAccepted()
			case <-ps.GameOver:
				break loop
			default:
				metrics.IncCommandDropped()
				logger.Warnf("Dropping %s, GameSession.Commands FULL", cmd.Type.Name())
			}
		}
	}
	logger.Debug("LoopChannelRead ENDED")
}

// LoopChannelWrite only consumes, it ends when the session closes
// MessagesToSend or the socket fails.
func (ps *PlayerSession) LoopChannelWrite() {
	logger := log.WithFields(log.Fields{"session": ps.GameSession.Id.String(), "player": ps.Id})
	logger.Debug("LoopChannelWrite STARTED")
	for mes := range ps.MessagesToSend {
		w, err := ps.Conn.NextWriter(ps.Codec.MessageType())
		if err != nil {
			logger.Warnf("LoopChannelWrite cant get writer %v", err)
			ps.fail()
			break
		}
		if err = ps.Codec.Encode(w, mes); err != nil {
			logger.Warnf("LoopChannelWrite cant encode %v", err)
			ps.fail()
			break
		}
		if err = w.Close(); err != nil {
			logger.Warnf("LoopChannelWrite cant flush %v", err)
			ps.fail()
			break
		}
		ps.DebugOutMessages++
	}
	logger.Debug("LoopChannelWrite ENDED")
}
