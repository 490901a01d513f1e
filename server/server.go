package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/websocket"
	uuid "github.com/satori/go.uuid"
	"go.uber.org/zap"

	"github.com/minaorangina/napoleon/config"
	"github.com/minaorangina/napoleon/registry"
)

const lookupTimeout = 2 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// GameServer serves the websocket gateway and the room lookup endpoint
type GameServer struct {
	lobby       Lobby
	log         *zap.Logger
	mailboxSize int

	// ctx is cancelled on shutdown so hijacked connections close too
	ctx    context.Context
	cancel context.CancelFunc

	http.Server
}

// NewID constructs a connection trace id
func NewID() string {
	return uuid.NewV4().String()
}

func unknownRoomKeyMsg(key string) string {
	return fmt.Sprintf("unknown room key '%s'", key)
}

// NewServer creates a new GameServer
func NewServer(lobby Lobby, cfg config.Config, log *zap.Logger) *GameServer {
	s := &GameServer{
		lobby:       lobby,
		log:         log.Named("server"),
		mailboxSize: cfg.MailboxSize,
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	router := http.NewServeMux()
	router.Handle("/ws", http.HandlerFunc(s.HandleWS))
	router.Handle("/room/", http.HandlerFunc(s.HandleFindRoom))
	router.Handle("/healthz", http.HandlerFunc(s.HandleHealth))

	httpLog := zap.NewStdLog(log.Named("http"))

	var handler http.Handler = router
	handler = handlers.CombinedLoggingHandler(httpLog.Writer(), handler)
	handler = handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet}),
	)(handler)
	handler = handlers.RecoveryHandler(handlers.RecoveryLogger(httpLog), handlers.PrintRecoveryStack(true))(handler)

	s.Addr = cfg.Addr
	s.Handler = handler
	return s
}

// ServeHTTP serves http
func (g *GameServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.Handler.ServeHTTP(w, r)
}

// Shutdown closes every websocket connection, then shuts the http server down
func (g *GameServer) Shutdown(ctx context.Context) error {
	g.cancel()
	return g.Server.Shutdown(ctx)
}

func (g *GameServer) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "text/plain")
	w.Write([]byte("ok"))
}

// HandleFindRoom reports who is in a room
func (g *GameServer) HandleFindRoom(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	key := strings.TrimPrefix(r.URL.Path, "/room/")
	if key == "" {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("missing room key"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), lookupTimeout)
	defer cancel()

	snapshot, err := g.lobby.Lookup(ctx, key)
	if errors.Is(err, registry.ErrRoomNotFound) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(unknownRoomKeyMsg(key)))
		return
	}
	if err != nil {
		g.log.Error("room lookup failed", zap.String("room", key), zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	responseBytes, err := json.Marshal(snapshot)
	if err != nil {
		g.log.Error("encoding room snapshot", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Add("Content-Type", "application/json")
	w.Write(responseBytes)
}

// HandleWS upgrades to a websocket and runs the connection until it closes
func (g *GameServer) HandleWS(w http.ResponseWriter, r *http.Request) {
	trace := NewID()
	log := g.log.With(zap.String("trace", trace))

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied
		log.Warn("could not upgrade to websocket", zap.Error(err))
		return
	}

	c := newConn(ws, g.lobby, g.mailboxSize, log)
	c.run(g.ctx)
}
