package server

import (
	"math/rand"
	"net/http"
	"net/rpc"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/wfunc/cardroom/broadcast"
	"github.com/wfunc/cardroom/config"
	"github.com/wfunc/cardroom/logger"
	"github.com/wfunc/cardroom/monitor"
	"github.com/wfunc/cardroom/network"
	"github.com/wfunc/cardroom/persistence"
	"github.com/wfunc/cardroom/room"
	cardroomrpc "github.com/wfunc/cardroom/rpc"
	"github.com/wfunc/cardroom/router"
	"github.com/wfunc/cardroom/services"
	"github.com/wfunc/cardroom/session"
	"github.com/wfunc/cardroom/timer"
)

// event is one unit of work for the dispatch loop: an inbound message, a
// disconnect, or an internal job such as the idle-room sweep.
type event struct {
	sess       *session.Session
	raw        []byte
	disconnect bool
	job        func()
}

// GameServer owns the transport edge and the single dispatch goroutine.
// Read pumps only post events; every game mutation happens inside loop(),
// one event at a time, run to completion.
type GameServer struct {
	cfg            *config.Config
	upgrader       websocket.Upgrader
	registry       *room.Registry
	sessionManager *session.Manager
	records        *services.RecordService
	router         *router.Router
	metrics        *monitor.Monitor
	timers         *timer.Manager
	rpcServer      *cardroomrpc.Server
	events         chan event
	shutdownChan   chan struct{}
}

func NewGameServer(cfg *config.Config, store persistence.Store) *GameServer {
	s := &GameServer{
		cfg:            cfg,
		registry:       room.NewRegistry(cfg.Game.HandSize, rand.New(rand.NewSource(time.Now().UnixNano()))),
		sessionManager: session.NewManager(),
		metrics:        monitor.NewMonitor("cardroom"),
		timers:         timer.NewManager(),
		events:         make(chan event, 256),
		shutdownChan:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // the game client is served cross-origin in dev
			},
		},
	}

	s.records = services.NewRecordService(store)
	caster := broadcast.NewRoomBroadcaster(s.registry, s.sessionManager)
	s.router = router.NewRouter(s.registry, s.sessionManager, caster).
		WithRecords(s.records).
		WithMetrics(s.metrics)

	rpcServer, err := cardroomrpc.NewServer(cfg.Server.RPCAddress)
	if err != nil {
		logger.Log.Fatalf("Failed to create RPC server: %v", err)
	}
	s.rpcServer = rpcServer
	rpc.Register(cardroomrpc.NewAdminService(s.registry, s.records))

	return s
}

func (s *GameServer) Start() error {
	go s.loop()
	go s.rpcServer.Start()
	s.metrics.StartServer(s.cfg.Server.MetricsAddress)

	if ttl := s.cfg.Game.RoomTTL; ttl > 0 {
		s.timers.Schedule(ttl, ttl, s.postSweep)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	if s.cfg.Server.StaticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(s.cfg.Server.StaticDir)))
	}

	logger.Log.Infof("Game server listening on %s", s.cfg.Server.HTTPAddress)
	return http.ListenAndServe(s.cfg.Server.HTTPAddress, mux)
}

func (s *GameServer) Shutdown() {
	close(s.shutdownChan)
	s.timers.Stop()
	s.rpcServer.Stop()
}

// loop is the single dispatch goroutine. Because it alone mutates game
// state, rooms need no locking and every message runs to completion before
// the next one starts.
func (s *GameServer) loop() {
	for {
		select {
		case <-s.shutdownChan:
			return
		case ev := <-s.events:
			s.handleEvent(ev)
		}
	}
}

func (s *GameServer) handleEvent(ev event) {
	switch {
	case ev.job != nil:
		ev.job()
	case ev.disconnect:
		s.router.HandleDisconnect(ev.sess)
	default:
		start := time.Now()
		s.metrics.IncMessagesReceived()
		s.router.Dispatch(ev.sess, ev.raw)
		s.metrics.ObserveDispatchLatency(time.Since(start))
	}
	s.metrics.SetRoomsActive(s.registry.Count())
}

// postSweep runs the idle-room sweep on the dispatch goroutine, not on the
// timer's.
func (s *GameServer) postSweep() {
	s.events <- event{job: func() {
		if removed := s.registry.SweepIdle(s.cfg.Game.RoomTTL); removed > 0 {
			logger.Log.Infow("swept idle rooms", "count", removed)
		}
	}}
}

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	go s.handleConnection(conn)
}

// handleConnection is the read pump: it feeds raw frames into the dispatch
// loop and posts a disconnect event when the socket dies.
func (s *GameServer) handleConnection(conn *websocket.Conn) {
	wsConn := network.NewWSConnection(conn)
	sess := session.NewSession(uuid.New().String(), wsConn)
	s.sessionManager.Add(sess)
	s.metrics.IncPlayersOnline()

	logger.Log.Infof("New connection from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())

	defer func() {
		logger.Log.Infof("Connection closed from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())
		s.sessionManager.Remove(sess.GetID())
		s.metrics.DecPlayersOnline()
		s.events <- event{sess: sess, disconnect: true}
		wsConn.Close()
	}()

	for {
		raw, err := wsConn.ReadMessage()
		if err != nil {
			return
		}
		select {
		case <-s.shutdownChan:
			return
		case s.events <- event{sess: sess, raw: raw}:
		}
	}
}
