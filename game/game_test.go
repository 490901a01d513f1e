package game

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minaorangina/napoleon/deck"
)

func someHand(t *testing.T, cards ...string) deck.Deck {
	t.Helper()

	hand := deck.Deck{}
	for _, s := range cards {
		c, err := deck.ParseCard(s)
		require.NoError(t, err)
		hand.Push(c)
	}
	return hand
}

func someCard(t *testing.T, s string) deck.Card {
	t.Helper()

	c, err := deck.ParseCard(s)
	require.NoError(t, err)
	return c
}

func bid(n int) *int {
	return &n
}

func TestNewGame(t *testing.T) {
	t.Run("deals every player a distinct hand", func(t *testing.T) {
		settings := Settings{AllyCount: 1, HandSize: 5}
		g, err := New(4, settings)
		require.NoError(t, err)

		seen := map[deck.Card]bool{}
		for _, hand := range g.Hands() {
			assert.Equal(t, 5, hand.Len())
			for _, c := range hand {
				assert.False(t, seen[c], "card %s dealt twice", c)
				seen[c] = true
			}
		}

		assert.Equal(t, []int{0, 0, 0, 0}, g.Score())
		assert.Equal(t, Bidding{CurrentPlayer: 0}, g.State())
		assert.Equal(t, settings, g.Settings())
	})

	t.Run("fails when the deck cannot cover every hand", func(t *testing.T) {
		g, err := New(11, Settings{HandSize: 5})
		assert.ErrorIs(t, err, deck.ErrDeckExhausted)
		assert.Nil(t, g)
	})

	t.Run("rejects nonsense settings", func(t *testing.T) {
		_, err := New(0, Settings{HandSize: 5})
		assert.ErrorIs(t, err, ErrInvalidSettings)

		_, err = New(2, Settings{HandSize: 0})
		assert.ErrorIs(t, err, ErrInvalidSettings)

		_, err = NewWithHands(2, Settings{HandSize: 5}, []deck.Deck{someHand(t, "8C")})
		assert.ErrorIs(t, err, ErrInvalidSettings)
	})

	t.Run("hands are copies", func(t *testing.T) {
		hands := []deck.Deck{someHand(t, "8C", "AS"), someHand(t, "4C", "AC")}
		g, err := NewWithHands(2, Settings{HandSize: 5}, hands)
		require.NoError(t, err)

		hands[0][0] = someCard(t, "2H")
		assert.Equal(t, someHand(t, "8C", "AS"), g.Hand(0))

		got := g.Hand(1)
		got[0] = someCard(t, "2H")
		assert.Equal(t, someHand(t, "4C", "AC"), g.Hand(1))
	})
}

// A non-specific test for the happy path of a whole game
func TestPlaysTheGame(t *testing.T) {
	hands := []deck.Deck{someHand(t, "8C", "AS"), someHand(t, "4C", "AC")}

	g, err := NewWithHands(2, Settings{AllyCount: 0, HandSize: 5}, hands)
	require.NoError(t, err)
	assert.Equal(t, hands, g.Hands())

	ev, err := g.Bid(0, nil)
	require.NoError(t, err)
	assert.Equal(t, NextBidder{PlayerID: 1}, ev)

	ev, err = g.Bid(1, bid(2))
	require.NoError(t, err)
	napoleon := Napoleon{PlayerID: 1, Bid: 2}
	assert.Equal(t, BiddingFinished{Napoleon: napoleon}, ev)

	ev, err = g.PickAllies(1, nil, deck.Clubs)
	require.NoError(t, err)
	assert.Equal(t, AlliesChosen{Allies: []int{}}, ev)

	ev, err = g.PlayCard(1, someCard(t, "4C"))
	require.NoError(t, err)
	assert.Equal(t, NextPlayer{PlayerID: 0, RequiredSuit: deck.Clubs}, ev)

	_, err = g.PlayCard(0, someCard(t, "AS"))
	assert.ErrorIs(t, err, ErrInvalidSuit, "player 0 holds a club and must follow")

	ev, err = g.PlayCard(0, someCard(t, "8C"))
	require.NoError(t, err)
	assert.Equal(t, RoundEnded{Winner: 0, NextPlayer: 0}, ev)

	ev, err = g.PlayCard(0, someCard(t, "AS"))
	require.NoError(t, err)
	assert.Equal(t, NextPlayer{PlayerID: 1, RequiredSuit: deck.Spades}, ev)

	ev, err = g.PlayCard(1, someCard(t, "AC"))
	require.NoError(t, err)
	assert.Equal(t, GameEnded{
		CombinedNapoleonScore: 1,
		Napoleon:              napoleon,
		Allies:                []int{},
		FinalWinner:           1,
	}, ev)

	score := g.Score()
	assert.Equal(t, []int{1, 1}, score)
	assert.Equal(t, score[1], ev.(GameEnded).CombinedNapoleonScore)
	assert.Equal(t, Outcome{NapoleonDelta: -2, PlayerDelta: 2}, Settle(ev.(GameEnded)))

	_, err = g.PlayCard(0, someCard(t, "8C"))
	assert.ErrorIs(t, err, ErrInvalidGameState)
	assert.Equal(t, "ended", g.State().Phase())
}

func TestStateIsACopy(t *testing.T) {
	g, err := NewWithHands(2, Settings{HandSize: 5}, []deck.Deck{someHand(t, "8C"), someHand(t, "4C")})
	require.NoError(t, err)

	_, err = g.Bid(0, bid(1))
	require.NoError(t, err)

	s := g.State().(Bidding)
	s.Napoleon.Bid = 5

	assert.Equal(t, 1, g.State().(Bidding).Napoleon.Bid)
}

func TestSettle(t *testing.T) {
	made := GameEnded{CombinedNapoleonScore: 3, Napoleon: Napoleon{Bid: 3}}
	assert.Equal(t, Outcome{NapoleonDelta: 3, PlayerDelta: -3}, Settle(made))

	failed := GameEnded{CombinedNapoleonScore: 1, Napoleon: Napoleon{Bid: 4}}
	assert.Equal(t, Outcome{NapoleonDelta: -4, PlayerDelta: 4}, Settle(failed))
}

func TestCode(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{NotCurrentPlayerError{CurrentPlayer: 1}, "not_current_player"},
		{BidTooHighError{Max: 5}, "bid_too_high"},
		{BidTooLowError{Min: 2}, "bid_too_low"},
		{IncorrectAllyCountError{Expected: 1, Received: 0}, "incorrect_ally_count"},
		{ErrNoBids, "no_bids"},
		{ErrCardNotInHand, "card_not_in_hand"},
		{ErrInvalidSuit, "invalid_suit"},
		{fmt.Errorf("wrapped: %w", ErrInvalidGameState), "invalid_game_state"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Code(c.err), c.err.Error())
	}
}
