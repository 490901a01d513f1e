package game

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/minaorangina/napoleon/deck"
)

// Settings configure a game. They do not change once the game is created.
type Settings struct {
	AllyCount int `json:"ally_count" yaml:"ally_count"`
	HandSize  int `json:"hand_size" yaml:"hand_size"`
}

// Napoleon is the player who won the bidding and the number of tricks they bid
type Napoleon struct {
	PlayerID int
	Bid      int
}

// Game is the authoritative state of one deal of Napoleon.
// Players are identified by their zero-based index.
type Game struct {
	players  int
	hands    []deck.Deck
	score    []int
	settings Settings
	state    State
}

// New shuffles a single pack and deals every player a hand
func New(players int, settings Settings) (*Game, error) {
	if err := checkSetup(players, settings); err != nil {
		return nil, err
	}

	d := deck.New(1)
	d.Shuffle()

	hands, err := d.PopIntoHands(players, settings.HandSize)
	if err != nil {
		return nil, fmt.Errorf("%w: dealing %d hands of %d cards: %w", ErrInvalidSettings, players, settings.HandSize, err)
	}

	return newGame(players, settings, hands), nil
}

// NewWithHands constructs a game from hands that have already been dealt
func NewWithHands(players int, settings Settings, hands []deck.Deck) (*Game, error) {
	if err := checkSetup(players, settings); err != nil {
		return nil, err
	}
	if len(hands) != players {
		return nil, fmt.Errorf("%w: %d hands for %d players", ErrInvalidSettings, len(hands), players)
	}

	dealt := make([]deck.Deck, players)
	for i, hand := range hands {
		dealt[i] = hand.Clone()
	}

	return newGame(players, settings, dealt), nil
}

func checkSetup(players int, settings Settings) error {
	if players < 1 {
		return fmt.Errorf("%w: need at least one player", ErrInvalidSettings)
	}
	if settings.HandSize < 1 {
		return fmt.Errorf("%w: hand size must be positive", ErrInvalidSettings)
	}
	if settings.AllyCount < 0 {
		return fmt.Errorf("%w: ally count must not be negative", ErrInvalidSettings)
	}
	return nil
}

func newGame(players int, settings Settings, hands []deck.Deck) *Game {
	return &Game{
		players:  players,
		hands:    hands,
		score:    make([]int, players),
		settings: settings,
		state:    Bidding{CurrentPlayer: 0},
	}
}

func (g *Game) Players() int {
	return g.players
}

func (g *Game) Settings() Settings {
	return g.settings
}

// State returns a copy of the current phase
func (g *Game) State() State {
	return g.state.clone()
}

// Hand returns a copy of one player's hand
func (g *Game) Hand(playerID int) deck.Deck {
	return g.hands[playerID].Clone()
}

// Hands returns a copy of every hand, indexed by player
func (g *Game) Hands() []deck.Deck {
	return lo.Map(g.hands, func(h deck.Deck, _ int) deck.Deck { return h.Clone() })
}

// Score returns the number of tricks each player has won
func (g *Game) Score() []int {
	return append([]int(nil), g.score...)
}

// Bid places a bid for playerID. A nil bid is a pass.
// When the last player has bid the game moves on to ally selection, or fails
// with ErrNoBids if nobody bid at all.
func (g *Game) Bid(playerID int, bid *int) (Event, error) {
	s, ok := g.state.(Bidding)
	if !ok {
		return nil, ErrInvalidGameState
	}

	if playerID != s.CurrentPlayer {
		return nil, NotCurrentPlayerError{CurrentPlayer: s.CurrentPlayer}
	}

	napoleon := s.Napoleon
	if bid != nil {
		if *bid > g.settings.HandSize {
			return nil, BidTooHighError{Max: g.settings.HandSize}
		}

		lowest := 1
		if napoleon != nil {
			lowest = napoleon.Bid + 1
		}
		if *bid < lowest {
			return nil, BidTooLowError{Min: lowest}
		}

		napoleon = &Napoleon{PlayerID: playerID, Bid: *bid}
	}

	if playerID == g.players-1 {
		if napoleon == nil {
			return nil, ErrNoBids
		}
		g.state = PostBidding{Napoleon: *napoleon}
		return BiddingFinished{Napoleon: *napoleon}, nil
	}

	next := playerID + 1
	g.state = Bidding{CurrentPlayer: next, Napoleon: napoleon}
	return NextBidder{PlayerID: next}, nil
}

// PickAllies lets the napoleon call ally cards and name the trump suit.
// Every other player holding at least one called card becomes an ally.
func (g *Game) PickAllies(playerID int, allyCards []deck.Card, trumpSuit deck.Suit) (Event, error) {
	s, ok := g.state.(PostBidding)
	if !ok {
		return nil, ErrInvalidGameState
	}

	napoleon := s.Napoleon
	if playerID != napoleon.PlayerID {
		return nil, NotCurrentPlayerError{CurrentPlayer: napoleon.PlayerID}
	}

	if len(allyCards) != g.settings.AllyCount {
		return nil, IncorrectAllyCountError{Expected: g.settings.AllyCount, Received: len(allyCards)}
	}

	allies := []int{}
	for id, hand := range g.hands {
		if id == napoleon.PlayerID {
			continue
		}
		if lo.SomeBy(allyCards, hand.Contains) {
			allies = append(allies, id)
		}
	}

	trump := trumpSuit
	g.state = Playing{
		Napoleon:      napoleon,
		Allies:        allies,
		TrumpSuit:     trumpSuit,
		CurrentPlayer: napoleon.PlayerID,
		PlayedCards:   make([]Play, 0, g.players),
		RequiredSuit:  &trump,
	}

	return AlliesChosen{Allies: copyIDs(allies)}, nil
}

// PlayCard plays a card from playerID's hand into the current trick
func (g *Game) PlayCard(playerID int, card deck.Card) (Event, error) {
	s, ok := g.state.(Playing)
	if !ok {
		return nil, ErrInvalidGameState
	}

	if playerID != s.CurrentPlayer {
		return nil, NotCurrentPlayerError{CurrentPlayer: s.CurrentPlayer}
	}

	hand := g.hands[playerID]
	if !hand.Contains(card) {
		return nil, ErrCardNotInHand
	}

	// the played card is not of the required suit here, so the rest of the hand
	// holds that suit exactly when the whole hand does
	if s.RequiredSuit != nil && card.Suit != *s.RequiredSuit && hand.ContainsSuit(*s.RequiredSuit) {
		return nil, ErrInvalidSuit
	}

	hand.Remove(card)
	g.hands[playerID] = hand

	required := s.RequiredSuit
	if required == nil {
		led := card.Suit
		required = &led
	}

	played := append(s.PlayedCards, Play{PlayerID: playerID, Card: card})

	if len(played) < g.players {
		next := (playerID + 1) % g.players
		s.CurrentPlayer = next
		s.PlayedCards = played
		s.RequiredSuit = required
		g.state = s
		return NextPlayer{PlayerID: next, RequiredSuit: *required}, nil
	}

	winner := trickWinner(played, s.TrumpSuit)
	g.score[winner]++

	if g.anyHandEmpty() {
		combined := g.score[s.Napoleon.PlayerID] + lo.SumBy(s.Allies, func(id int) int { return g.score[id] })
		g.state = Ended{Napoleon: s.Napoleon, Allies: s.Allies}
		return GameEnded{
			CombinedNapoleonScore: combined,
			Napoleon:              s.Napoleon,
			Allies:                copyIDs(s.Allies),
			FinalWinner:           winner,
		}, nil
	}

	s.CurrentPlayer = winner
	s.PlayedCards = make([]Play, 0, g.players)
	s.RequiredSuit = nil
	g.state = s
	return RoundEnded{Winner: winner, NextPlayer: winner}, nil
}

func copyIDs(ids []int) []int {
	out := make([]int, len(ids))
	copy(out, ids)
	return out
}

func (g *Game) anyHandEmpty() bool {
	return lo.SomeBy(g.hands, func(h deck.Deck) bool { return h.Len() == 0 })
}

// trickWinner picks the highest trump in the trick, or failing that the
// highest card of the suit that was led
func trickWinner(trick []Play, trump deck.Suit) int {
	candidates := lo.Filter(trick, func(p Play, _ int) bool { return p.Card.Suit == trump })
	if len(candidates) == 0 {
		led := trick[0].Card.Suit
		candidates = lo.Filter(trick, func(p Play, _ int) bool { return p.Card.Suit == led })
	}

	best := lo.MaxBy(candidates, func(a, b Play) bool { return a.Card.Rank > b.Card.Rank })
	return best.PlayerID
}
