package server

import (
	"context"

	"github.com/minaorangina/napoleon/protocol"
	"github.com/minaorangina/napoleon/room"
)

// Lobby is what the server needs from the registry
type Lobby interface {
	protocol.Router
	Connect(ctx context.Context, recipient protocol.Recipient) (protocol.SessionID, error)
	Disconnect(session protocol.SessionID)
	Lookup(ctx context.Context, key string) (room.Snapshot, error)
}
