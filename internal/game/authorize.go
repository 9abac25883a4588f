package game

// ActionType enumerates the player actions subject to authorization.
type ActionType string

// Action types.
const (
	ActionGiveClue        ActionType = "giveClue"
	ActionSelectWord      ActionType = "selectWord"
	ActionHighlightWord   ActionType = "highlightWord"
	ActionUnhighlightWord ActionType = "unhighlightWord"
	ActionPassTurn        ActionType = "passTurn"
)

// Action is a proposed player action. WordIndex is only meaningful for the
// word-targeting action types.
type Action struct {
	Type      ActionType
	WordIndex int
}

// CanPerformAction decides whether the actor may perform the action against
// the given derived state. Unknown actors and unmatched action types are
// denied; every rule requires an active round on the actor's turn.
func CanPerformAction(state State, action Action, playerID string) bool {
	player := state.FindPlayer(playerID)
	if player == nil {
		return false
	}
	if state.Status != StatusPlaying || state.CurrentRound == nil {
		return false
	}
	round := state.CurrentRound
	if player.Side == nil || *player.Side != round.CurrentTurn {
		return false
	}

	switch action.Type {
	case ActionGiveClue:
		// Spies clue; one clue per turn.
		return player.IsSpy && round.CurrentClue == nil

	case ActionSelectWord:
		if player.IsSpy {
			return false
		}
		if round.GuessesRemaining <= 0 {
			return false
		}
		return !isRevealed(round, action.WordIndex)

	case ActionHighlightWord, ActionUnhighlightWord:
		// Highlighting is advisory, not a guess: no guess-count requirement.
		if player.IsSpy {
			return false
		}
		return !isRevealed(round, action.WordIndex)

	case ActionPassTurn:
		return !player.IsSpy
	}

	return false
}

func isRevealed(round *RoundState, wordIndex int) bool {
	for _, r := range round.RevealedWords {
		if r.WordIndex == wordIndex {
			return true
		}
	}
	return false
}
