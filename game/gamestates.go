package game

import (
	"github.com/minaorangina/napoleon/deck"
)

// State is the phase a game is in. Exactly one of Bidding, PostBidding,
// Playing or Ended is active at a time.
type State interface {
	Phase() string
	clone() State
}

// Bidding is the first phase: players bid in index order, once each
type Bidding struct {
	CurrentPlayer int
	// Napoleon is the highest bid so far, nil while everyone has passed
	Napoleon *Napoleon
}

// PostBidding waits for the napoleon to call allies and name trumps
type PostBidding struct {
	Napoleon Napoleon
}

// Play is one card placed into the current trick
type Play struct {
	PlayerID int
	Card     deck.Card
}

// Playing is trick play
type Playing struct {
	Napoleon      Napoleon
	Allies        []int
	TrumpSuit     deck.Suit
	CurrentPlayer int
	PlayedCards   []Play
	// RequiredSuit is the suit followers must play if they hold it.
	// It starts as the trump suit and is nil at the start of every later trick.
	RequiredSuit *deck.Suit
}

// Ended is reached once the last trick has been won
type Ended struct {
	Napoleon Napoleon
	Allies   []int
}

func (Bidding) Phase() string     { return "bidding" }
func (PostBidding) Phase() string { return "post_bidding" }
func (Playing) Phase() string     { return "playing" }
func (Ended) Phase() string       { return "ended" }

func (s Bidding) clone() State {
	if s.Napoleon != nil {
		n := *s.Napoleon
		s.Napoleon = &n
	}
	return s
}

func (s PostBidding) clone() State { return s }

func (s Playing) clone() State {
	s.Allies = append([]int(nil), s.Allies...)
	s.PlayedCards = append([]Play(nil), s.PlayedCards...)
	if s.RequiredSuit != nil {
		suit := *s.RequiredSuit
		s.RequiredSuit = &suit
	}
	return s
}

func (s Ended) clone() State {
	s.Allies = append([]int(nil), s.Allies...)
	return s
}
