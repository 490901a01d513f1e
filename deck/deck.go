package deck

import (
	"errors"
	"math/rand"
	"strings"
)

// ErrDeckExhausted is returned when a deck runs out of cards while dealing
var ErrDeckExhausted = errors.New("deck exhausted")

// Deck represents an ordered pile of cards. The end of the slice is the top.
type Deck []Card

// Full creates a single 52 card deck in canonical order
func Full() Deck {
	cards := make(Deck, 0, len(Suits)*len(Ranks))
	for _, suit := range Suits {
		for _, rank := range Ranks {
			cards = append(cards, NewCard(suit, rank))
		}
	}
	return cards
}

// New creates a deck made of packs concatenated full decks
func New(packs int) Deck {
	d := Deck{}
	for i := 0; i < packs; i++ {
		d = append(d, Full()...)
	}
	return d
}

// Len returns the number of cards in the deck
func (d Deck) Len() int {
	return len(d)
}

// Push puts a card on top of the deck
func (d *Deck) Push(c Card) {
	*d = append(*d, c)
}

// Shuffle shuffles the deck of cards
func (d *Deck) Shuffle() {
	cards := *d
	rand.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}

// Pop takes the top card off the deck
func (d *Deck) Pop() (Card, bool) {
	n := len(*d)
	if n == 0 {
		return Card{}, false
	}
	c := (*d)[n-1]
	*d = (*d)[:n-1]
	return c, true
}

// Remove removes the first matching card, reporting whether one was found
func (d *Deck) Remove(c Card) bool {
	for i, card := range *d {
		if card == c {
			*d = append((*d)[:i], (*d)[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether the card is in the deck
func (d Deck) Contains(c Card) bool {
	for _, card := range d {
		if card == c {
			return true
		}
	}
	return false
}

// ContainsSuit reports whether any card of the suit is in the deck
func (d Deck) ContainsSuit(s Suit) bool {
	for _, card := range d {
		if card.Suit == s {
			return true
		}
	}
	return false
}

// PopIntoHands deals n hands of k cards each, filling one hand before starting the next.
// If the deck runs out partway it returns ErrDeckExhausted and the deck is left empty.
func (d *Deck) PopIntoHands(n, k int) ([]Deck, error) {
	hands := make([]Deck, 0, n)
	for i := 0; i < n; i++ {
		hand := make(Deck, 0, k)
		for j := 0; j < k; j++ {
			c, ok := d.Pop()
			if !ok {
				return nil, ErrDeckExhausted
			}
			hand.Push(c)
		}
		hands = append(hands, hand)
	}
	return hands, nil
}

// Clone returns a copy that shares no backing array with d
func (d Deck) Clone() Deck {
	out := make(Deck, len(d))
	copy(out, d)
	return out
}

func (d Deck) String() string {
	parts := make([]string, len(d))
	for i, c := range d {
		parts[i] = c.String()
	}
	return strings.Join(parts, ",")
}
