package game

import "github.com/minaorangina/napoleon/deck"

// Event is the outcome of a successful game operation.
// Player ids in events are game-internal indices.
type Event interface {
	event()
}

// NextBidder names the player who bids next
type NextBidder struct {
	PlayerID int
}

// BiddingFinished announces the winning bid
type BiddingFinished struct {
	Napoleon Napoleon
}

// AlliesChosen lists the players holding at least one called card.
// It is private information for the room, never broadcast as-is.
type AlliesChosen struct {
	Allies []int
}

// NextPlayer names the player who plays next and the suit they must follow
type NextPlayer struct {
	PlayerID     int
	RequiredSuit deck.Suit
}

// RoundEnded reports the winner of a completed trick
type RoundEnded struct {
	Winner     int
	NextPlayer int
}

// GameEnded is emitted with the final trick
type GameEnded struct {
	CombinedNapoleonScore int
	Napoleon              Napoleon
	Allies                []int
	FinalWinner           int
}

func (NextBidder) event()      {}
func (BiddingFinished) event() {}
func (AlliesChosen) event()    {}
func (NextPlayer) event()      {}
func (RoundEnded) event()      {}
func (GameEnded) event()       {}
