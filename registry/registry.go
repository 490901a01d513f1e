// Package registry hands out session ids and room keys, and routes
// connections that are not yet in a room
package registry

import (
	"context"
	"errors"
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/minaorangina/napoleon/protocol"
	"github.com/minaorangina/napoleon/room"
	"github.com/minaorangina/napoleon/store"
)

const (
	keyAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	keyAttempts = 10
)

var (
	ErrStopped      = errors.New("registry stopped")
	ErrRoomNotFound = errors.New("room not found")
)

// Options configure the registry and every room it creates
type Options struct {
	Room          room.Options
	RoomKeyLength int
	MailboxSize   int
}

type message any

type connectMsg struct {
	recipient protocol.Recipient
	reply     chan protocol.SessionID
}

type disconnectMsg struct {
	session protocol.SessionID
}

type commandMsg struct {
	envelope protocol.Envelope
}

type lookupMsg struct {
	key   string
	reply chan *room.Room
}

type roomClosedMsg struct {
	key  string
	room *room.Room
}

type stopMsg struct{}

// Registry is the actor every connection talks to until it joins a room
type Registry struct {
	log     *zap.Logger
	roomLog *zap.Logger
	opts    Options

	inbox chan message
	done  chan struct{}

	// owned by Listen
	sessions    map[protocol.SessionID]protocol.Recipient
	lastSession protocol.SessionID
	rooms       store.RoomStore
	// rooms each session was sent into
	seated map[protocol.SessionID][]*room.Room
}

// New creates a registry. Listen must be running for it to do anything.
func New(opts Options, log *zap.Logger) *Registry {
	if opts.MailboxSize < 1 {
		opts.MailboxSize = 1
	}
	if opts.RoomKeyLength < 1 {
		opts.RoomKeyLength = 5
	}

	return &Registry{
		log:      log.With(zap.String("actor", "registry")),
		roomLog:  log,
		opts:     opts,
		inbox:    make(chan message, opts.MailboxSize),
		done:     make(chan struct{}),
		sessions: map[protocol.SessionID]protocol.Recipient{},
		rooms:    store.NewInMemoryRoomStore(),
		seated:   map[protocol.SessionID][]*room.Room{},
	}
}

// Connect registers a connection and waits for its session id
func (reg *Registry) Connect(ctx context.Context, recipient protocol.Recipient) (protocol.SessionID, error) {
	reply := make(chan protocol.SessionID, 1)
	select {
	case reg.inbox <- connectMsg{recipient: recipient, reply: reply}:
	case <-reg.done:
		return 0, ErrStopped
	case <-ctx.Done():
		return 0, ctx.Err()
	}

	select {
	case id := <-reply:
		return id, nil
	case <-reg.done:
		return 0, ErrStopped
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// Disconnect forgets a session and takes it out of any room it was sent into
func (reg *Registry) Disconnect(session protocol.SessionID) {
	reg.post(disconnectMsg{session: session})
}

// Route queues a command from a session that is not in a room
func (reg *Registry) Route(env protocol.Envelope) bool {
	return reg.post(commandMsg{envelope: env})
}

// Lookup returns a snapshot of the room with the given key
func (reg *Registry) Lookup(ctx context.Context, key string) (room.Snapshot, error) {
	reply := make(chan *room.Room, 1)
	select {
	case reg.inbox <- lookupMsg{key: key, reply: reply}:
	case <-reg.done:
		return room.Snapshot{}, ErrStopped
	case <-ctx.Done():
		return room.Snapshot{}, ctx.Err()
	}

	var r *room.Room
	select {
	case r = <-reply:
	case <-reg.done:
		return room.Snapshot{}, ErrStopped
	case <-ctx.Done():
		return room.Snapshot{}, ctx.Err()
	}

	if r == nil {
		return room.Snapshot{}, fmt.Errorf("%w: %s", ErrRoomNotFound, key)
	}

	s, err := r.Snapshot(ctx)
	if errors.Is(err, room.ErrRoomClosed) {
		return room.Snapshot{}, fmt.Errorf("%w: %s", ErrRoomNotFound, key)
	}
	return s, err
}

// Stop stops the registry and every room it created
func (reg *Registry) Stop() {
	reg.post(stopMsg{})
}

// Done is closed once the registry has stopped
func (reg *Registry) Done() <-chan struct{} {
	return reg.done
}

func (reg *Registry) post(msg message) bool {
	select {
	case <-reg.done:
		return false
	default:
	}

	select {
	case reg.inbox <- msg:
		return true
	case <-reg.done:
		return false
	}
}

// Listen processes messages one at a time until Stop is called
func (reg *Registry) Listen() {
	for msg := range reg.inbox {
		if stop := reg.handle(msg); stop {
			break
		}
	}

	close(reg.done)
	for _, r := range reg.rooms.Rooms() {
		r.Stop()
	}
	reg.log.Info("registry stopped")
}

func (reg *Registry) handle(msg message) (stop bool) {
	defer func() {
		if p := recover(); p != nil {
			reg.log.Error("registry handler panicked", zap.Any("panic", p), zap.Stack("stack"))
		}
	}()

	switch m := msg.(type) {
	case connectMsg:
		id := reg.nextSession()
		reg.sessions[id] = m.recipient
		m.reply <- id
		reg.log.Debug("session connected", zap.Stringer("session", id))

	case disconnectMsg:
		reg.disconnect(m.session)

	case commandMsg:
		reg.command(m.envelope)

	case lookupMsg:
		r, _ := reg.rooms.FindRoom(m.key)
		m.reply <- r

	case roomClosedMsg:
		if err := reg.rooms.RemoveRoom(m.key, m.room); err != nil {
			reg.log.Warn("closed room was not registered", zap.String("room", m.key), zap.Error(err))
			return false
		}
		for session, rooms := range reg.seated {
			if rest := lo.Without(rooms, m.room); len(rest) > 0 {
				reg.seated[session] = rest
			} else {
				delete(reg.seated, session)
			}
		}
		reg.log.Info("room removed", zap.String("room", m.key), zap.Int("rooms", len(reg.rooms.Rooms())))

	case stopMsg:
		return true

	default:
		reg.log.Error("unexpected message", zap.String("type", fmt.Sprintf("%T", msg)))
	}
	return false
}

// disconnect leaves every room the session was sent into. Leaving a room
// the session never reached, or already left, does nothing.
func (reg *Registry) disconnect(session protocol.SessionID) {
	for _, r := range reg.seated[session] {
		r.Route(protocol.Envelope{Session: session, Command: protocol.Leave{}})
	}
	delete(reg.seated, session)
	delete(reg.sessions, session)
	reg.log.Debug("session disconnected", zap.Stringer("session", session))
}

// nextSession returns the next non-zero id not held by a live session
func (reg *Registry) nextSession() protocol.SessionID {
	for {
		reg.lastSession++
		if reg.lastSession == 0 {
			continue
		}
		if _, taken := reg.sessions[reg.lastSession]; !taken {
			return reg.lastSession
		}
	}
}

func (reg *Registry) command(env protocol.Envelope) {
	log := reg.log.With(zap.Stringer("session", env.Session))

	recipient, ok := reg.sessions[env.Session]
	if !ok {
		log.Warn("command from an unknown session")
		return
	}

	switch cmd := env.Command.(type) {
	case protocol.CreateRoom:
		r, err := reg.createRoom()
		if err != nil {
			log.Error("could not create room", zap.Error(err))
			recipient.Deliver(protocol.Rejected{Reason: protocol.ReasonServerUnavailable})
			return
		}
		log.Info("room created", zap.String("room", r.Key()), zap.String("username", cmd.Username))
		if r.Join(env.Session, cmd.Username, recipient) {
			reg.seat(env.Session, r)
		}

	case protocol.JoinRoom:
		r, found := reg.rooms.FindRoom(cmd.Key)
		if !found || !r.Join(env.Session, cmd.Username, recipient) {
			log.Info("join for unknown room", zap.String("room", cmd.Key))
			recipient.Deliver(protocol.Rejected{Reason: protocol.ReasonRoomNotFound})
			return
		}
		reg.seat(env.Session, r)

	case protocol.Leave:
		// not in a room, nothing to leave

	default:
		log.Warn("command before joining a room", zap.String("command", fmt.Sprintf("%T", cmd)))
		recipient.Deliver(protocol.Rejected{Reason: protocol.ReasonNotInRoom})
	}
}

func (reg *Registry) seat(session protocol.SessionID, r *room.Room) {
	if !lo.Contains(reg.seated[session], r) {
		reg.seated[session] = append(reg.seated[session], r)
	}
}

func (reg *Registry) createRoom() (*room.Room, error) {
	for attempt := 0; attempt < keyAttempts; attempt++ {
		key, err := gonanoid.Generate(keyAlphabet, reg.opts.RoomKeyLength)
		if err != nil {
			return nil, fmt.Errorf("generating room key: %w", err)
		}
		if _, taken := reg.rooms.FindRoom(key); taken {
			continue
		}

		var r *room.Room
		opts := reg.opts.Room
		opts.OnClose = func(key string) {
			reg.post(roomClosedMsg{key: key, room: r})
		}
		r = room.New(key, opts, reg.roomLog)

		if err := reg.rooms.AddRoom(r); err != nil {
			return nil, err
		}
		go r.Listen()
		return r, nil
	}
	return nil, fmt.Errorf("no free room key after %d attempts", keyAttempts)
}

