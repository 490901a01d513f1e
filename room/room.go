// Package room runs one actor per game room. The actor owns the occupants,
// the host and the running game, and translates game player indices to
// session ids at its boundary.
package room

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/minaorangina/napoleon/game"
	"github.com/minaorangina/napoleon/internal/schedule"
	"github.com/minaorangina/napoleon/protocol"
)

var ErrRoomClosed = errors.New("room closed")

// Scheduler runs delayed callbacks
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) schedule.Timer
}

// Options configure a room
type Options struct {
	Settings    game.Settings
	MinPlayers  int
	TrickDelay  time.Duration
	MailboxSize int
	Scheduler   Scheduler
	// OnClose is called with the room key once the room has stopped
	OnClose func(key string)
}

// Snapshot is a point-in-time view of a room
type Snapshot struct {
	Key       string              `json:"key"`
	Host      protocol.SessionID  `json:"host"`
	Occupants []protocol.Occupant `json:"occupants"`
	InGame    bool                `json:"in_game"`
	Phase     string              `json:"phase,omitempty"`
}

type occupant struct {
	username  string
	session   protocol.SessionID
	recipient protocol.Recipient
}

// roomState is either lobby or inGame
type roomState interface {
	roomState()
}

type lobby struct{}

type inGame struct {
	game *game.Game
	// idMap[i] is the session seated as game player i
	idMap []protocol.SessionID
}

func (lobby) roomState()  {}
func (inGame) roomState() {}

type message any

type joinMsg struct {
	username  string
	session   protocol.SessionID
	recipient protocol.Recipient
}

type commandMsg struct {
	envelope protocol.Envelope
}

type deferredMsg struct {
	id    uint64
	event protocol.Event
}

// delayed is an event waiting out the trick delay
type delayed struct {
	timer schedule.Timer
	event protocol.Event
}

type snapshotMsg struct {
	reply chan Snapshot
}

type stopMsg struct{}

// Room is a game room actor
type Room struct {
	key  string
	log  *zap.Logger
	opts Options

	inbox chan message
	done  chan struct{}

	// owned by Listen
	occupants []occupant
	host      protocol.SessionID
	state     roomState
	pending   map[uint64]delayed
	nextTimer uint64
}

// New creates an empty room. The first session to join becomes the host.
// Listen must be running for the room to do anything.
func New(key string, opts Options, log *zap.Logger) *Room {
	if opts.MailboxSize < 1 {
		opts.MailboxSize = 1
	}
	if opts.MinPlayers < 1 {
		opts.MinPlayers = 1
	}

	return &Room{
		key:     key,
		log:     log.With(zap.String("room", key)),
		opts:    opts,
		inbox:   make(chan message, opts.MailboxSize),
		done:    make(chan struct{}),
		state:   lobby{},
		pending: map[uint64]delayed{},
	}
}

func (r *Room) Key() string {
	return r.key
}

// Done is closed once the room has stopped
func (r *Room) Done() <-chan struct{} {
	return r.done
}

// Route queues a command from a session. It reports false once the room has stopped.
func (r *Room) Route(env protocol.Envelope) bool {
	return r.post(commandMsg{envelope: env})
}

// Join adds a session to the room. Joining twice only resends the room details.
func (r *Room) Join(session protocol.SessionID, username string, recipient protocol.Recipient) bool {
	return r.post(joinMsg{username: username, session: session, recipient: recipient})
}

// Stop tears the room down. Occupants are not told.
func (r *Room) Stop() {
	r.post(stopMsg{})
}

// Snapshot asks the room for a view of itself
func (r *Room) Snapshot(ctx context.Context) (Snapshot, error) {
	reply := make(chan Snapshot, 1)
	select {
	case r.inbox <- snapshotMsg{reply: reply}:
	case <-r.done:
		return Snapshot{}, ErrRoomClosed
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}

	select {
	case s := <-reply:
		return s, nil
	case <-r.done:
		return Snapshot{}, ErrRoomClosed
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

func (r *Room) post(msg message) bool {
	select {
	case <-r.done:
		return false
	default:
	}

	select {
	case r.inbox <- msg:
		return true
	case <-r.done:
		return false
	}
}

// Listen processes messages one at a time until the room empties or is stopped
func (r *Room) Listen() {
	r.log.Info("room open")

	for msg := range r.inbox {
		if stop := r.handle(msg); stop {
			break
		}
	}

	r.teardown()
}

func (r *Room) handle(msg message) (stop bool) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Error("room handler panicked", zap.Any("panic", p), zap.Stack("stack"))
		}
	}()

	switch m := msg.(type) {
	case joinMsg:
		return r.join(m)
	case commandMsg:
		return r.command(m.envelope)
	case deferredMsg:
		if _, ok := r.pending[m.id]; ok {
			delete(r.pending, m.id)
			r.release(m.event)
		}
	case snapshotMsg:
		m.reply <- r.snapshot()
	case stopMsg:
		return true
	default:
		r.log.Error("unexpected message", zap.String("type", fmt.Sprintf("%T", msg)))
	}
	return false
}

func (r *Room) teardown() {
	r.cancelPending()
	close(r.done)
	r.log.Info("room closed")

	if r.opts.OnClose != nil {
		r.opts.OnClose(r.key)
	}
}

func (r *Room) join(m joinMsg) (stop bool) {
	if r.find(m.session) >= 0 {
		r.deliver(m.recipient, r.joined())
		return false
	}

	host := r.host
	r.occupants = append(r.occupants, occupant{
		username:  m.username,
		session:   m.session,
		recipient: m.recipient,
	})
	if r.host == 0 {
		r.host = m.session
	}

	// a joiner that cannot hear about the room never enters it
	if !m.recipient.Deliver(r.joined()) {
		r.occupants = r.occupants[:len(r.occupants)-1]
		r.host = host
		r.log.Info("joiner went away", zap.Stringer("session", m.session))
		return len(r.occupants) == 0
	}

	joiner := protocol.PlayerJoined{Username: m.username, Session: m.session}
	for _, o := range r.occupants[:len(r.occupants)-1] {
		r.deliver(o.recipient, joiner)
	}

	r.log.Info("player joined", zap.Stringer("session", m.session), zap.String("username", m.username))
	return false
}

func (r *Room) joined() protocol.JoinedRoom {
	return protocol.JoinedRoom{
		Key:       r.key,
		Host:      r.host,
		Occupants: r.occupantList(),
		Room:      r,
	}
}

func (r *Room) command(env protocol.Envelope) (stop bool) {
	log := r.log.With(zap.Stringer("session", env.Session))

	if _, ok := env.Command.(protocol.Leave); ok {
		return r.leave(env.Session)
	}

	if r.find(env.Session) < 0 {
		log.Warn("command from a session outside the room", zap.String("command", fmt.Sprintf("%T", env.Command)))
		return false
	}

	switch cmd := env.Command.(type) {
	case protocol.StartGame:
		r.startGame(env.Session)
	case protocol.PlaceBid:
		r.bid(env.Session, cmd.Bid)
	case protocol.PickAllies:
		r.pickAllies(env.Session, cmd)
	case protocol.PlayCard:
		r.playCard(env.Session, cmd)
	case protocol.CreateRoom, protocol.JoinRoom:
		log.Info("already in a room")
		r.reject(env.Session, protocol.ReasonAlreadyInRoom)
	default:
		log.Warn("unexpected command", zap.String("command", fmt.Sprintf("%T", env.Command)))
	}
	return false
}

func (r *Room) leave(session protocol.SessionID) (stop bool) {
	idx := r.find(session)
	if idx < 0 {
		return false
	}

	r.occupants = append(r.occupants[:idx], r.occupants[idx+1:]...)
	r.log.Info("player left", zap.Stringer("session", session))

	if len(r.occupants) == 0 {
		return true
	}

	if r.host == session {
		r.host = r.occupants[0].session
	}
	r.broadcast(protocol.PlayerLeft{Session: session, Host: r.host})

	if s, ok := r.state.(inGame); ok && lo.Contains(s.idMap, session) {
		if _, ended := s.game.State().(game.Ended); ended {
			r.flushPending()
			r.state = lobby{}
			return false
		}

		r.cancelPending()
		r.state = lobby{}
		r.log.Info("game abandoned", zap.Stringer("session", session))
		r.broadcast(protocol.GameAbandoned{Session: session})
	}
	return false
}

func (r *Room) snapshot() Snapshot {
	s := Snapshot{
		Key:       r.key,
		Host:      r.host,
		Occupants: r.occupantList(),
	}
	if g, ok := r.state.(inGame); ok {
		s.InGame = true
		s.Phase = g.game.State().Phase()
	}
	return s
}

func (r *Room) find(session protocol.SessionID) int {
	for i, o := range r.occupants {
		if o.session == session {
			return i
		}
	}
	return -1
}

func (r *Room) occupantList() []protocol.Occupant {
	return lo.Map(r.occupants, func(o occupant, _ int) protocol.Occupant {
		return protocol.Occupant{Username: o.username, Session: o.session}
	})
}

func (r *Room) broadcast(ev protocol.Event) {
	for _, o := range r.occupants {
		r.deliver(o.recipient, ev)
	}
}

func (r *Room) send(session protocol.SessionID, ev protocol.Event) {
	idx := r.find(session)
	if idx < 0 {
		r.log.Error("no occupant to send to", zap.Stringer("session", session))
		return
	}
	r.deliver(r.occupants[idx].recipient, ev)
}

func (r *Room) deliver(to protocol.Recipient, ev protocol.Event) {
	if !to.Deliver(ev) {
		r.log.Debug("event dropped", zap.String("event", fmt.Sprintf("%T", ev)))
	}
}

func (r *Room) reject(session protocol.SessionID, reason string) {
	r.send(session, protocol.Rejected{Reason: reason})
}

// later broadcasts ev once the trick delay has passed, unless the room stops first
func (r *Room) later(ev protocol.Event) {
	id := r.nextTimer
	r.nextTimer++

	timer := r.opts.Scheduler.AfterFunc(r.opts.TrickDelay, func() {
		select {
		case r.inbox <- deferredMsg{id: id, event: ev}:
		case <-r.done:
		}
	})
	r.pending[id] = delayed{timer: timer, event: ev}
}

// release broadcasts a delayed event. The game is only over for the room
// once its result has gone out.
func (r *Room) release(ev protocol.Event) {
	r.broadcast(ev)
	if _, over := ev.(protocol.GameOver); over {
		r.state = lobby{}
	}
}

// flushPending releases every delayed event now, in the order they were scheduled
func (r *Room) flushPending() {
	ids := lo.Keys(r.pending)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		d := r.pending[id]
		d.timer.Stop()
		delete(r.pending, id)
		r.release(d.event)
	}
}

func (r *Room) cancelPending() {
	for id, d := range r.pending {
		d.timer.Stop()
		delete(r.pending, id)
	}
}
