package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/minaorangina/napoleon/deck"
)

var (
	ErrMalformedCommand = errors.New("malformed command")
	ErrUnknownCommand   = errors.New("unknown command")
)

// Command is anything a connection can ask of the registry or a room
type Command interface {
	command()
}

// CreateRoom asks the registry for a new room hosted by the sender
type CreateRoom struct {
	Username string
}

// JoinRoom asks to join the room with the given key
type JoinRoom struct {
	Username string
	Key      string
}

// StartGame asks the room to deal a new game. Only the host may start.
type StartGame struct{}

// PlaceBid is a bid for a number of tricks, or a pass when Bid is nil
type PlaceBid struct {
	Bid *int
}

// PickAllies names the trump suit and the cards whose holders become allies
type PickAllies struct {
	TrumpSuit deck.Suit
	Cards     []deck.Card
}

// PlayCard plays a card from the sender's hand
type PlayCard struct {
	Card deck.Card
}

// Leave is sent by a connection as it closes. It has no wire form.
type Leave struct{}

func (CreateRoom) command() {}
func (JoinRoom) command()   {}
func (StartGame) command()  {}
func (PlaceBid) command()   {}
func (PickAllies) command() {}
func (PlayCard) command()   {}
func (Leave) command()      {}

// ParseCommand decodes one inbound text frame
func ParseCommand(text string) (Command, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: empty frame", ErrMalformedCommand)
	}

	prefix, payload := text[0], text[1:]
	switch prefix {
	case 'c':
		if err := checkUsername(payload); err != nil {
			return nil, err
		}
		return CreateRoom{Username: payload}, nil

	case 'j':
		username, key, ok := strings.Cut(payload, ",")
		if !ok || key == "" || strings.Contains(key, ",") {
			return nil, fmt.Errorf("%w: join needs username,key: %q", ErrMalformedCommand, payload)
		}
		if err := checkUsername(username); err != nil {
			return nil, err
		}
		return JoinRoom{Username: username, Key: key}, nil

	case 's':
		return StartGame{}, nil

	case 'b':
		if payload == "" {
			return PlaceBid{}, nil
		}
		n, err := strconv.Atoi(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: bid %q: %v", ErrMalformedCommand, payload, err)
		}
		return PlaceBid{Bid: &n}, nil

	case 'a':
		return parsePickAllies(payload)

	case 'p':
		card, err := deck.ParseCard(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: card %q: %v", ErrMalformedCommand, payload, err)
		}
		return PlayCard{Card: card}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, prefix)
}

// checkUsername rejects names that would break the comma separated events they appear in
func checkUsername(name string) error {
	if name == "" {
		return fmt.Errorf("%w: missing username", ErrMalformedCommand)
	}
	if strings.ContainsAny(name, ",\n") {
		return fmt.Errorf("%w: username %q contains a separator", ErrMalformedCommand, name)
	}
	return nil
}

// parsePickAllies accepts "<trump>,<rank><suit>,..." as well as rank and suit
// split across separate tokens: "<trump>,<rank>,<suit>,..."
func parsePickAllies(payload string) (Command, error) {
	tokens := strings.Split(payload, ",")
	if len(tokens[0]) != 1 {
		return nil, fmt.Errorf("%w: trump suit %q", ErrMalformedCommand, tokens[0])
	}

	trump, err := deck.ParseSuit(tokens[0][0])
	if err != nil {
		return nil, fmt.Errorf("%w: trump suit: %v", ErrMalformedCommand, err)
	}

	cards := []deck.Card{}
	rest := tokens[1:]
	for len(rest) > 0 {
		var card deck.Card
		switch {
		case len(rest[0]) == 2:
			card, err = deck.ParseCard(rest[0])
			rest = rest[1:]
		case len(rest[0]) == 1 && len(rest) > 1 && len(rest[1]) == 1:
			card, err = deck.FromChars(rest[1][0], rest[0][0])
			rest = rest[2:]
		default:
			return nil, fmt.Errorf("%w: ally card %q", ErrMalformedCommand, rest[0])
		}
		if err != nil {
			return nil, fmt.Errorf("%w: ally card: %v", ErrMalformedCommand, err)
		}
		cards = append(cards, card)
	}

	return PickAllies{TrumpSuit: trump, Cards: cards}, nil
}
