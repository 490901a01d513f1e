package protocol

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/minaorangina/napoleon/deck"
	"github.com/minaorangina/napoleon/game"
)

// Event is something a connection writes out to its client
type Event interface {
	Encode() string
}

// Occupant is a member of a room
type Occupant struct {
	Username string    `json:"username"`
	Session  SessionID `json:"session"`
}

// Connected tells a client its session id
type Connected struct {
	Session SessionID
}

// JoinedRoom is sent to a client that has just entered a room.
// Room is the router the connection binds to; it is never encoded.
type JoinedRoom struct {
	Key       string
	Host      SessionID
	Occupants []Occupant
	Room      Router
}

// PlayerJoined announces a new occupant to the rest of the room
type PlayerJoined struct {
	Username string
	Session  SessionID
}

// PlayerLeft announces a departure and who hosts the room now
type PlayerLeft struct {
	Session SessionID
	Host    SessionID
}

type GameStarted struct {
	PlayerOrder []SessionID
	Settings    game.Settings
}

// PlayerHand is only ever sent to the player holding it
type PlayerHand struct {
	Hand deck.Deck
}

type NextBidder struct {
	Session SessionID
}

// PlayerBid reports a bid, or a pass when Bid is nil
type PlayerBid struct {
	Session SessionID
	Bid     *int
}

// NoBids means everybody passed and the cards are being redealt
type NoBids struct{}

type BiddingOver struct {
	Bid      int
	Napoleon SessionID
}

// AlliesChosen reveals the trump suit and the called cards, not who holds them
type AlliesChosen struct {
	TrumpSuit deck.Suit
	Cards     []deck.Card
}

// BecomeAlly is sent privately to each player holding a called card
type BecomeAlly struct{}

// NextPlayer names the next player and, when set, the suit they must follow
type NextPlayer struct {
	Session      SessionID
	RequiredSuit *deck.Suit
}

type CardPlayed struct {
	Session SessionID
	Card    deck.Card
}

// RoundOver names the winner of a trick
type RoundOver struct {
	Winner SessionID
}

type GameOver struct {
	NapoleonDelta         int
	PlayerDelta           int
	Bid                   int
	CombinedNapoleonScore int
	Allies                []SessionID
}

// GameAbandoned means a seated player left and the game was thrown away
type GameAbandoned struct {
	Session SessionID
}

// Rejected answers a command that could not be carried out
type Rejected struct {
	Reason string
}

// Rejection reasons that do not come from the game rules
const (
	ReasonMalformedCommand  = "malformed_command"
	ReasonRoomNotFound      = "room_not_found"
	ReasonNotInRoom         = "not_in_room"
	ReasonNotHost           = "not_host"
	ReasonGameInProgress    = "game_in_progress"
	ReasonNotEnoughPlayers  = "not_enough_players"
	ReasonAlreadyInRoom     = "already_in_room"
	ReasonServerUnavailable = "server_unavailable"
	ReasonTrickOnTable      = "trick_on_table"
)

func (e Connected) Encode() string {
	return "c" + e.Session.String()
}

func (e JoinedRoom) Encode() string {
	var b strings.Builder
	b.WriteString("e")
	b.WriteString(e.Key)
	b.WriteString(",")
	b.WriteString(e.Host.String())
	for _, o := range e.Occupants {
		b.WriteString(",")
		b.WriteString(o.Username)
		b.WriteString(",")
		b.WriteString(o.Session.String())
	}
	return b.String()
}

func (e PlayerJoined) Encode() string {
	return "j" + e.Username + "," + e.Session.String()
}

func (e PlayerLeft) Encode() string {
	return "l" + e.Session.String() + "," + e.Host.String()
}

func (e GameStarted) Encode() string {
	settings, err := json.Marshal(e.Settings)
	if err != nil {
		// Settings holds plain ints
		panic(err)
	}
	return "s" + joinIDs(e.PlayerOrder) + "\n" + string(settings)
}

func (e PlayerHand) Encode() string {
	return "h" + e.Hand.String()
}

func (e NextBidder) Encode() string {
	return "bn" + e.Session.String()
}

func (e PlayerBid) Encode() string {
	s := "bp" + e.Session.String()
	if e.Bid != nil {
		s += "," + strconv.Itoa(*e.Bid)
	}
	return s
}

func (NoBids) Encode() string {
	return "nb"
}

func (e BiddingOver) Encode() string {
	return "bo" + strconv.Itoa(e.Bid) + "," + e.Napoleon.String()
}

func (e AlliesChosen) Encode() string {
	s := "ac" + string(e.TrumpSuit.Char())
	for _, c := range e.Cards {
		s += "," + c.String()
	}
	return s
}

func (BecomeAlly) Encode() string {
	return "ab"
}

func (e NextPlayer) Encode() string {
	s := "n" + e.Session.String()
	if e.RequiredSuit != nil {
		s += "," + string(e.RequiredSuit.Char())
	}
	return s
}

func (e CardPlayed) Encode() string {
	return "p" + e.Session.String() + "," + e.Card.String()
}

func (e RoundOver) Encode() string {
	return "r" + e.Winner.String()
}

func (e GameOver) Encode() string {
	s := "g" + strings.Join([]string{
		strconv.Itoa(e.NapoleonDelta),
		strconv.Itoa(e.PlayerDelta),
		strconv.Itoa(e.Bid),
		strconv.Itoa(e.CombinedNapoleonScore),
	}, ",")
	for _, id := range e.Allies {
		s += "," + id.String()
	}
	return s
}

func (e GameAbandoned) Encode() string {
	return "q" + e.Session.String()
}

func (e Rejected) Encode() string {
	return "x" + e.Reason
}

func joinIDs(ids []SessionID) string {
	return strings.Join(lo.Map(ids, func(id SessionID, _ int) string { return id.String() }), ",")
}
