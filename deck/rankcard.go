package deck

import (
	"errors"
	"fmt"
)

// ErrInvalidFormat is returned when a character does not name a suit or a rank
var ErrInvalidFormat = errors.New("invalid card format")

// Suit represents a suit in a deck of cards
type Suit int

const (
	Hearts Suit = iota
	Diamonds
	Spades
	Clubs
)

// Suits lists every suit in canonical order
var Suits = []Suit{Hearts, Diamonds, Spades, Clubs}

var (
	suitNames = []string{"Hearts", "Diamonds", "Spades", "Clubs"}
	suitChars = []byte{'H', 'D', 'S', 'C'}
)

// ParseSuit converts a single identifying character into a Suit
func ParseSuit(c byte) (Suit, error) {
	for i, sc := range suitChars {
		if sc == c {
			return Suit(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown suit %q", ErrInvalidFormat, c)
}

// Char returns the suit's identifying character, '?' for an unknown suit
func (s Suit) Char() byte {
	if s < Hearts || s > Clubs {
		return '?'
	}
	return suitChars[s]
}

func (s Suit) String() string {
	if s < Hearts || s > Clubs {
		return fmt.Sprintf("Suit(%d)", int(s))
	}
	return suitNames[s]
}

// Rank represents a rank in a deck of cards.
// The underlying value is the rank's numeric strength, Two=2 through Ace=14.
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// Ranks lists every rank from lowest to highest
var Ranks = []Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}

var (
	rankNames = []string{"Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine", "Ten", "Jack", "Queen", "King", "Ace"}
	rankChars = []byte{'2', '3', '4', '5', '6', '7', '8', '9', 'T', 'J', 'Q', 'K', 'A'}
)

// ParseRank converts a single identifying character into a Rank
func ParseRank(c byte) (Rank, error) {
	for i, rc := range rankChars {
		if rc == c {
			return Two + Rank(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown rank %q", ErrInvalidFormat, c)
}

// Value returns the rank's position in the total order of ranks
func (r Rank) Value() int {
	return int(r)
}

// Char returns the rank's identifying character, '?' for an unknown rank
func (r Rank) Char() byte {
	if r < Two || r > Ace {
		return '?'
	}
	return rankChars[r-Two]
}

func (r Rank) String() string {
	if r < Two || r > Ace {
		return fmt.Sprintf("Rank(%d)", int(r))
	}
	return rankNames[r-Two]
}
