package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribe(t *testing.T) {
	cases := []struct {
		msg  string
		want string
	}{
		{"c4", "Connected as player 4"},
		{"h8C,TH", "Your hand: Eight of Clubs, Ten of Hearts"},
		{"bn4", "Player 4 to bid"},
		{"bp4,2", "Player 4 bid 2"},
		{"bp4", "Player 4 passed"},
		{"bo2,1", "Player 1 is napoleon with a bid of 2"},
		{"acC,AS", "Trumps are Clubs, allies hold: Ace of Spades"},
		{"n1,C", "Player 1 to play, following Clubs"},
		{"n1", "Player 1 to lead"},
		{"p4,4C", "Player 4 played the Four of Clubs"},
		{"xroom_not_found", "Rejected: room_not_found"},
		{"s1,2\n{\"ally_count\":1,\"hand_size\":5}", "Game started, bidding order 1,2"},
		{"?", "?"},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, describe(c.msg), c.msg)
	}
}
