package game

import "github.com/soliade/codenames/internal/event"

// ComputeGameState replays an ordered event list from the empty state.
//
// Round scoping: once a ROUND_STARTED event is seen, its round id becomes
// the current-round filter. Later events apply only if they are game-level
// (no round id) or tagged with the current round; events tagged with a
// superseded round are discarded. GAME_RESTARTED clears the filter. This
// keeps replay deterministic even if a slow writer appends an event for a
// round that has since ended.
func ComputeGameState(events []*event.Event) State {
	state := NewState()
	var currentRoundID *string

	for _, e := range events {
		if e == nil {
			continue
		}
		switch {
		case e.Type == event.TypeRoundStarted:
			currentRoundID = e.RoundID
			state = ApplyEvent(state, e)
		case e.RoundID == nil || (currentRoundID != nil && *e.RoundID == *currentRoundID):
			state = ApplyEvent(state, e)
			if e.Type == event.TypeGameRestarted {
				currentRoundID = nil
			}
		}
	}

	return state
}
