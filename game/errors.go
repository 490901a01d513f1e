package game

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidGameState = errors.New("invalid game state")
	ErrInvalidSettings  = errors.New("invalid game settings")
	ErrNoBids           = errors.New("every player passed")
	ErrCardNotInHand    = errors.New("card is not in the player's hand")
	ErrInvalidSuit      = errors.New("card does not follow the required suit")
)

// NotCurrentPlayerError is returned when a player acts out of turn
type NotCurrentPlayerError struct {
	CurrentPlayer int
}

func (e NotCurrentPlayerError) Error() string {
	return fmt.Sprintf("not your turn, waiting on player %d", e.CurrentPlayer)
}

// BidTooHighError is returned for bids above the hand size
type BidTooHighError struct {
	Max int
}

func (e BidTooHighError) Error() string {
	return fmt.Sprintf("bid too high, maximum is %d", e.Max)
}

// BidTooLowError is returned for bids that do not beat the current napoleon
type BidTooLowError struct {
	Min int
}

func (e BidTooLowError) Error() string {
	return fmt.Sprintf("bid too low, minimum is %d", e.Min)
}

// IncorrectAllyCountError is returned when the napoleon calls the wrong number of cards
type IncorrectAllyCountError struct {
	Expected int
	Received int
}

func (e IncorrectAllyCountError) Error() string {
	return fmt.Sprintf("expected %d ally cards, received %d", e.Expected, e.Received)
}

// Code maps a game error to the short reason sent back to clients
func Code(err error) string {
	var (
		notCurrent NotCurrentPlayerError
		tooHigh    BidTooHighError
		tooLow     BidTooLowError
		allyCount  IncorrectAllyCountError
	)

	switch {
	case errors.As(err, &notCurrent):
		return "not_current_player"
	case errors.As(err, &tooHigh):
		return "bid_too_high"
	case errors.As(err, &tooLow):
		return "bid_too_low"
	case errors.As(err, &allyCount):
		return "incorrect_ally_count"
	case errors.Is(err, ErrNoBids):
		return "no_bids"
	case errors.Is(err, ErrCardNotInHand):
		return "card_not_in_hand"
	case errors.Is(err, ErrInvalidSuit):
		return "invalid_suit"
	case errors.Is(err, ErrInvalidGameState):
		return "invalid_game_state"
	case errors.Is(err, ErrInvalidSettings):
		return "invalid_settings"
	}
	return "internal_error"
}
