// Package protocol is the text contract between connections and the rooms
// and registry they talk to. Every command and event is a single frame whose
// leading characters select its type.
package protocol

import "strconv"

// SessionID identifies one connection for as long as it is open. Zero is never assigned.
type SessionID uint64

func (id SessionID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Envelope is a command tagged with the session that sent it
type Envelope struct {
	Session SessionID
	Command Command
}

// Router accepts commands on behalf of an actor. Route reports false once
// the actor has stopped.
type Router interface {
	Route(Envelope) bool
}

// Recipient receives events for one connection. Deliver must not block;
// it reports false when the event could not be queued.
type Recipient interface {
	Deliver(Event) bool
}
