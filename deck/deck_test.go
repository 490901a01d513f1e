package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fullDeckCount = 52

func countCards(d Deck) map[Card]int {
	counts := map[Card]int{}
	for _, c := range d {
		counts[c]++
	}
	return counts
}

func TestNew(t *testing.T) {
	for packs := 1; packs <= 4; packs++ {
		d := New(packs)
		assert.Equal(t, fullDeckCount*packs, d.Len())

		counts := countCards(d)
		assert.Len(t, counts, fullDeckCount)
		for card, n := range counts {
			assert.Equal(t, packs, n, "card %s", card)
		}
	}
}

func TestFullIsCanonical(t *testing.T) {
	d := Full()
	assert.Equal(t, NewCard(Hearts, Two), d[0])
	assert.Equal(t, NewCard(Hearts, Ace), d[12])
	assert.Equal(t, NewCard(Clubs, Ace), d[51])
}

func TestShuffleIsPermutation(t *testing.T) {
	d := New(2)
	before := countCards(d)

	d.Shuffle()

	assert.Equal(t, 104, d.Len())
	assert.Equal(t, before, countCards(d))
}

func TestPopRemoveContains(t *testing.T) {
	d := Deck{NewCard(Clubs, Eight), NewCard(Spades, Ace), NewCard(Clubs, Eight)}

	assert.True(t, d.Contains(NewCard(Spades, Ace)))
	assert.True(t, d.ContainsSuit(Clubs))
	assert.False(t, d.ContainsSuit(Hearts))

	assert.True(t, d.Remove(NewCard(Clubs, Eight)))
	assert.Equal(t, Deck{NewCard(Spades, Ace), NewCard(Clubs, Eight)}, d)
	assert.False(t, d.Remove(NewCard(Hearts, Two)))

	c, ok := d.Pop()
	require.True(t, ok)
	assert.Equal(t, NewCard(Clubs, Eight), c)

	_, _ = d.Pop()
	_, ok = d.Pop()
	assert.False(t, ok)
}

func TestPopIntoHands(t *testing.T) {
	t.Run("deals from the top, one hand at a time", func(t *testing.T) {
		d := Full()
		hands, err := d.PopIntoHands(2, 3)
		require.NoError(t, err)

		require.Len(t, hands, 2)
		assert.Equal(t, Deck{NewCard(Clubs, Ace), NewCard(Clubs, King), NewCard(Clubs, Queen)}, hands[0])
		assert.Equal(t, Deck{NewCard(Clubs, Jack), NewCard(Clubs, Ten), NewCard(Clubs, Nine)}, hands[1])
		assert.Equal(t, fullDeckCount-6, d.Len())
	})

	t.Run("exhaustion drains the deck", func(t *testing.T) {
		d := Full()
		hands, err := d.PopIntoHands(11, 5)
		assert.ErrorIs(t, err, ErrDeckExhausted)
		assert.Nil(t, hands)
		assert.Equal(t, 0, d.Len())
	})
}

func TestDeckString(t *testing.T) {
	d := Deck{NewCard(Clubs, Eight), NewCard(Spades, Ace)}
	assert.Equal(t, "8C,AS", d.String())
}
