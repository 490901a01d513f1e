package main

import (
	"fmt"
	"strings"

	"github.com/minaorangina/napoleon/deck"
)

// describe renders a server event for people
func describe(msg string) string {
	if msg == "" {
		return msg
	}

	switch {
	case strings.HasPrefix(msg, "bn"):
		return fmt.Sprintf("Player %s to bid", msg[2:])
	case strings.HasPrefix(msg, "bp"):
		parts := strings.Split(msg[2:], ",")
		if len(parts) == 2 {
			return fmt.Sprintf("Player %s bid %s", parts[0], parts[1])
		}
		return fmt.Sprintf("Player %s passed", parts[0])
	case msg == "nb":
		return "Nobody bid, redealing"
	case strings.HasPrefix(msg, "bo"):
		parts := strings.Split(msg[2:], ",")
		if len(parts) == 2 {
			return fmt.Sprintf("Player %s is napoleon with a bid of %s", parts[1], parts[0])
		}
	case strings.HasPrefix(msg, "ac"):
		parts := strings.Split(msg[2:], ",")
		return fmt.Sprintf("Trumps are %s, allies hold: %s", suitName(parts[0]), cardNames(parts[1:]))
	case msg == "ab":
		return "You are an ally"
	}

	payload := msg[1:]
	parts := strings.Split(payload, ",")

	switch msg[0] {
	case 'c':
		return fmt.Sprintf("Connected as player %s", payload)
	case 'e':
		if len(parts) >= 2 {
			return fmt.Sprintf("In room %s hosted by %s, players: %s", parts[0], parts[1], strings.Join(parts[2:], " "))
		}
	case 'j':
		if len(parts) == 2 {
			return fmt.Sprintf("%s joined as player %s", parts[0], parts[1])
		}
	case 'l':
		if len(parts) == 2 {
			return fmt.Sprintf("Player %s left, %s is host", parts[0], parts[1])
		}
	case 's':
		lines := strings.SplitN(payload, "\n", 2)
		return fmt.Sprintf("Game started, bidding order %s", lines[0])
	case 'h':
		return "Your hand: " + cardNames(parts)
	case 'n':
		if len(parts) == 2 {
			return fmt.Sprintf("Player %s to play, following %s", parts[0], suitName(parts[1]))
		}
		return fmt.Sprintf("Player %s to lead", parts[0])
	case 'p':
		if len(parts) == 2 {
			return fmt.Sprintf("Player %s played the %s", parts[0], cardNames(parts[1:]))
		}
	case 'r':
		return fmt.Sprintf("Player %s won the trick", payload)
	case 'g':
		if len(parts) >= 4 {
			return fmt.Sprintf("Game over: napoleon side %s, others %s (bid %s, took %s)", parts[0], parts[1], parts[2], parts[3])
		}
	case 'q':
		return fmt.Sprintf("Player %s left, game abandoned", payload)
	case 'x':
		return "Rejected: " + payload
	}
	return msg
}

func cardNames(cards []string) string {
	names := make([]string, 0, len(cards))
	for _, c := range cards {
		card, err := deck.ParseCard(c)
		if err != nil {
			names = append(names, c)
			continue
		}
		names = append(names, card.Name())
	}
	return strings.Join(names, ", ")
}

func suitName(s string) string {
	if len(s) != 1 {
		return s
	}
	suit, err := deck.ParseSuit(s[0])
	if err != nil {
		return s
	}
	return suit.String()
}
