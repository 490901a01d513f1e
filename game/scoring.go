package game

// Outcome is the change in standing produced by a finished game
type Outcome struct {
	// NapoleonDelta applies to the napoleon and each ally
	NapoleonDelta int
	// PlayerDelta applies to everybody else
	PlayerDelta int
}

// Settle settles a finished game. The napoleon's side gains their bid when the
// tricks they took together reach it and loses it otherwise.
func Settle(ended GameEnded) Outcome {
	delta := ended.Napoleon.Bid
	if ended.CombinedNapoleonScore < ended.Napoleon.Bid {
		delta = -delta
	}
	return Outcome{NapoleonDelta: delta, PlayerDelta: -delta}
}
