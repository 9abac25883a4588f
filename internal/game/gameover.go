package game

import "github.com/soliade/codenames/internal/event"

// GameOverResult is the outcome of a win/loss check.
type GameOverResult struct {
	IsOver      bool
	WinningSide *event.Side
	LosingSide  *event.Side
}

// CheckGameOver evaluates the end conditions over the revealed cards.
//
// Assassin first: revealing the black card ends the game immediately and
// the team whose turn it is loses. Otherwise a team wins outright once all
// of its cards are revealed; the full-reveal branch deliberately leaves
// LosingSide unset, matching the stored GAME_FINISHED payload shape.
func CheckGameOver(revealed []RevealedWord, results []event.CardType, currentTurn event.Side) GameOverResult {
	for _, r := range revealed {
		if r.CardType == event.CardBlack {
			loser := currentTurn
			winner := currentTurn.Opposite()
			return GameOverResult{
				IsOver:      true,
				WinningSide: &winner,
				LosingSide:  &loser,
			}
		}
	}

	var redTotal, blueTotal, redRevealed, blueRevealed int
	for _, c := range results {
		switch c {
		case event.CardRed:
			redTotal++
		case event.CardBlue:
			blueTotal++
		}
	}
	for _, r := range revealed {
		switch r.CardType {
		case event.CardRed:
			redRevealed++
		case event.CardBlue:
			blueRevealed++
		}
	}

	if redTotal > 0 && redRevealed == redTotal {
		winner := event.SideRed
		return GameOverResult{IsOver: true, WinningSide: &winner}
	}
	if blueTotal > 0 && blueRevealed == blueTotal {
		winner := event.SideBlue
		return GameOverResult{IsOver: true, WinningSide: &winner}
	}

	return GameOverResult{}
}
