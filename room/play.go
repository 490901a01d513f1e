package room

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/minaorangina/napoleon/game"
	"github.com/minaorangina/napoleon/protocol"
)

func (r *Room) startGame(session protocol.SessionID) {
	if session != r.host {
		r.log.Info("non-host tried to start the game", zap.Stringer("session", session))
		r.reject(session, protocol.ReasonNotHost)
		return
	}

	if _, ok := r.state.(lobby); !ok {
		r.reject(session, protocol.ReasonGameInProgress)
		return
	}

	if len(r.occupants) < r.opts.MinPlayers {
		r.reject(session, protocol.ReasonNotEnoughPlayers)
		return
	}

	idMap := make([]protocol.SessionID, len(r.occupants))
	for i, o := range r.occupants {
		idMap[i] = o.session
	}

	if err := r.deal(idMap); err != nil {
		r.reject(session, game.Code(err))
	}
}

// deal starts a fresh game seating idMap in order
func (r *Room) deal(idMap []protocol.SessionID) error {
	g, err := game.New(len(idMap), r.opts.Settings)
	if err != nil {
		r.log.Error("could not start game", zap.Int("players", len(idMap)), zap.Error(err))
		r.state = lobby{}
		return err
	}

	r.cancelPending()
	r.state = inGame{game: g, idMap: idMap}
	r.log.Info("game started", zap.Int("players", len(idMap)))

	r.broadcast(protocol.GameStarted{PlayerOrder: idMap, Settings: g.Settings()})
	for i, session := range idMap {
		r.send(session, protocol.PlayerHand{Hand: g.Hand(i)})
	}
	r.broadcast(protocol.NextBidder{Session: idMap[0]})
	return nil
}

// seat finds the running game and the game player index of session
func (r *Room) seat(session protocol.SessionID) (inGame, int, bool) {
	s, ok := r.state.(inGame)
	if !ok {
		r.reject(session, game.Code(game.ErrInvalidGameState))
		return inGame{}, 0, false
	}

	for i, id := range s.idMap {
		if id == session {
			return s, i, true
		}
	}

	r.log.Info("spectator tried to act", zap.Stringer("session", session))
	return inGame{}, 0, false
}

func (r *Room) bid(session protocol.SessionID, bid *int) {
	s, player, ok := r.seat(session)
	if !ok {
		return
	}

	ev, err := s.game.Bid(player, bid)
	switch {
	case errors.Is(err, game.ErrNoBids):
		r.broadcast(protocol.PlayerBid{Session: session})
		r.broadcast(protocol.NoBids{})
		r.log.Info("no bids, redealing")
		_ = r.deal(s.idMap)
		return
	case err != nil:
		r.rejectMove(session, err)
		return
	}

	r.broadcast(protocol.PlayerBid{Session: session, Bid: bid})
	r.announce(s, ev)
}

func (r *Room) pickAllies(session protocol.SessionID, cmd protocol.PickAllies) {
	s, player, ok := r.seat(session)
	if !ok {
		return
	}

	ev, err := s.game.PickAllies(player, cmd.Cards, cmd.TrumpSuit)
	if err != nil {
		r.rejectMove(session, err)
		return
	}

	r.broadcast(protocol.AlliesChosen{TrumpSuit: cmd.TrumpSuit, Cards: cmd.Cards})
	r.announce(s, ev)
}

func (r *Room) playCard(session protocol.SessionID, cmd protocol.PlayCard) {
	s, player, ok := r.seat(session)
	if !ok {
		return
	}

	// the last trick stays on the table until its delayed events have gone out
	if len(r.pending) > 0 {
		r.log.Debug("card played while a trick is on the table", zap.Stringer("session", session))
		r.reject(session, protocol.ReasonTrickOnTable)
		return
	}

	ev, err := s.game.PlayCard(player, cmd.Card)
	if err != nil {
		r.rejectMove(session, err)
		return
	}

	r.broadcast(protocol.CardPlayed{Session: session, Card: cmd.Card})
	r.announce(s, ev)
}

func (r *Room) rejectMove(session protocol.SessionID, err error) {
	code := game.Code(err)
	r.log.Debug("move rejected", zap.Stringer("session", session), zap.String("reason", code), zap.Error(err))
	r.reject(session, code)
}

// announce translates a game event into room events. Delayed events are
// scheduled before anything is broadcast.
func (r *Room) announce(s inGame, ev game.Event) {
	sessionOf := func(player int) protocol.SessionID {
		if player < 0 || player >= len(s.idMap) {
			panic(fmt.Sprintf("player %d has no seat in a game of %d", player, len(s.idMap)))
		}
		return s.idMap[player]
	}

	switch e := ev.(type) {
	case game.NextBidder:
		r.broadcast(protocol.NextBidder{Session: sessionOf(e.PlayerID)})

	case game.BiddingFinished:
		r.broadcast(protocol.BiddingOver{Bid: e.Napoleon.Bid, Napoleon: sessionOf(e.Napoleon.PlayerID)})

	case game.AlliesChosen:
		for _, ally := range e.Allies {
			r.send(sessionOf(ally), protocol.BecomeAlly{})
		}
		playing, ok := s.game.State().(game.Playing)
		if !ok {
			panic(fmt.Sprintf("allies chosen in phase %s", s.game.State().Phase()))
		}
		r.broadcast(protocol.NextPlayer{Session: sessionOf(playing.CurrentPlayer), RequiredSuit: playing.RequiredSuit})

	case game.NextPlayer:
		suit := e.RequiredSuit
		r.broadcast(protocol.NextPlayer{Session: sessionOf(e.PlayerID), RequiredSuit: &suit})

	case game.RoundEnded:
		r.later(protocol.NextPlayer{Session: sessionOf(e.NextPlayer)})
		r.broadcast(protocol.RoundOver{Winner: sessionOf(e.Winner)})

	case game.GameEnded:
		outcome := game.Settle(e)
		allies := lo.Map(e.Allies, func(ally int, _ int) protocol.SessionID { return sessionOf(ally) })
		r.later(protocol.GameOver{
			NapoleonDelta:         outcome.NapoleonDelta,
			PlayerDelta:           outcome.PlayerDelta,
			Bid:                   e.Napoleon.Bid,
			CombinedNapoleonScore: e.CombinedNapoleonScore,
			Allies:                allies,
		})
		r.broadcast(protocol.RoundOver{Winner: sessionOf(e.FinalWinner)})

		r.log.Info("game over",
			zap.Stringer("napoleon", sessionOf(e.Napoleon.PlayerID)),
			zap.Int("bid", e.Napoleon.Bid),
			zap.Int("score", e.CombinedNapoleonScore),
		)

	default:
		r.log.Error("unexpected game event", zap.String("event", fmt.Sprintf("%T", ev)))
	}
}
