package server

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/minaorangina/napoleon/protocol"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

const connectTimeout = 5 * time.Second

// conn is the actor for one websocket connection. It owns the room binding
// and is the only writer to the socket.
type conn struct {
	ws    *websocket.Conn
	lobby Lobby
	log   *zap.Logger

	session protocol.SessionID
	room    protocol.Router

	outbox chan protocol.Event
	frames chan string
	closed chan struct{}

	slow     chan struct{}
	slowOnce sync.Once
}

func newConn(ws *websocket.Conn, lobby Lobby, mailboxSize int, log *zap.Logger) *conn {
	if mailboxSize < 1 {
		mailboxSize = 1
	}

	return &conn{
		ws:     ws,
		lobby:  lobby,
		log:    log,
		outbox: make(chan protocol.Event, mailboxSize),
		frames: make(chan string),
		closed: make(chan struct{}),
		slow:   make(chan struct{}),
	}
}

// Deliver queues an event for the client. A connection whose mailbox is full
// is too slow to keep up and gets closed.
func (c *conn) Deliver(ev protocol.Event) bool {
	select {
	case <-c.closed:
		return false
	default:
	}

	select {
	case c.outbox <- ev:
		return true
	default:
		c.slowOnce.Do(func() { close(c.slow) })
		return false
	}
}

func (c *conn) run(ctx context.Context) {
	defer c.ws.Close()

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	session, err := c.lobby.Connect(connectCtx, c)
	cancel()
	if err != nil {
		c.log.Error("could not register connection", zap.Error(err))
		c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, protocol.ReasonServerUnavailable),
			time.Now().Add(writeWait))
		close(c.closed)
		return
	}

	c.session = session
	c.log = c.log.With(zap.Stringer("session", session))
	c.log.Info("connected")

	defer c.teardown()

	if err := c.write(protocol.Connected{Session: session}); err != nil {
		c.log.Info("write failed", zap.Error(err))
		return
	}

	go c.readPump()
	c.loop(ctx)
}

func (c *conn) loop(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case frame, ok := <-c.frames:
			if !ok {
				return
			}
			c.receive(frame)

		case ev := <-c.outbox:
			if joined, ok := ev.(protocol.JoinedRoom); ok {
				c.room = joined.Room
			}
			if err := c.write(ev); err != nil {
				c.log.Info("write failed", zap.Error(err))
				return
			}

		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.slow:
			c.log.Warn("connection too slow, closing")
			return

		case <-ctx.Done():
			c.ws.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}

func (c *conn) receive(frame string) {
	cmd, err := protocol.ParseCommand(frame)
	if err != nil {
		c.log.Warn("bad command", zap.String("frame", frame), zap.Error(err))
		c.Deliver(protocol.Rejected{Reason: protocol.ReasonMalformedCommand})
		return
	}

	env := protocol.Envelope{Session: c.session, Command: cmd}
	if c.room != nil {
		if c.room.Route(env) {
			return
		}
		c.log.Info("room has gone away")
		c.room = nil
	}

	if !c.lobby.Route(env) {
		c.log.Warn("registry has stopped")
	}
}

func (c *conn) write(ev protocol.Event) error {
	c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteMessage(websocket.TextMessage, []byte(ev.Encode()))
}

// readPump feeds frames into the actor until the socket fails
func (c *conn) readPump() {
	defer close(c.frames)

	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		kind, msg, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Info("read failed", zap.Error(err))
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}

		select {
		case c.frames <- string(msg):
		case <-c.closed:
			return
		}
	}
}

func (c *conn) teardown() {
	close(c.closed)

	if c.room != nil {
		c.room.Route(protocol.Envelope{Session: c.session, Command: protocol.Leave{}})
	}
	c.lobby.Disconnect(c.session)

	c.log.Info("disconnected")
}
