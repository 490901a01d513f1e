package deck

import "fmt"

// Card represents a playing card.
// Cards are plain values, two cards are equal when suit and rank match.
type Card struct {
	Suit Suit
	Rank Rank
}

// NewCard constructs a card
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank}
}

// FromChars builds a card from its suit and rank characters
func FromChars(suit, rank byte) (Card, error) {
	s, err := ParseSuit(suit)
	if err != nil {
		return Card{}, err
	}
	r, err := ParseRank(rank)
	if err != nil {
		return Card{}, err
	}
	return Card{Suit: s, Rank: r}, nil
}

// ParseCard parses the two character form used on the wire, rank first ("8C", "TH")
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return Card{}, fmt.Errorf("%w: card %q must be two characters", ErrInvalidFormat, s)
	}
	return FromChars(s[1], s[0])
}

// String renders the card in wire form, rank then suit
func (c Card) String() string {
	return string([]byte{c.Rank.Char(), c.Suit.Char()})
}

// Name renders the card for humans
func (c Card) Name() string {
	return fmt.Sprintf("%s of %s", c.Rank, c.Suit)
}
