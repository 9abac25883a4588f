package game

import (
	"math/rand"

	"github.com/soliade/codenames/internal/event"
)

// Grid composition constants for a standard 25-card game.
const (
	DefaultGridSize = 25
	MinGridSize     = 10
	assassinCount   = 1
	neutralCount    = 7
)

// GenerateGridResults produces a uniformly shuffled card-type assignment
// for a round. The grid always holds exactly one assassin and seven neutral
// cards; the rest splits between red and blue with the starting team one
// card ahead. Odd round orders start red (9/8), even orders start blue
// (8/9); the extra card compensates the starting side's first-move
// advantage.
//
// Size generalizes beyond the standard 25 and must be at least MinGridSize.
func GenerateGridResults(order, size int) []event.CardType {
	if size < MinGridSize {
		size = DefaultGridSize
	}

	results := make([]event.CardType, 0, size)
	results = append(results, event.CardBlack)
	for i := 0; i < neutralCount; i++ {
		results = append(results, event.CardNeutral)
	}

	team := size - assassinCount - neutralCount
	redCount := team / 2
	blueCount := team / 2
	if order%2 == 0 {
		blueCount += team % 2
	} else {
		redCount += team % 2
	}
	for i := 0; i < redCount; i++ {
		results = append(results, event.CardRed)
	}
	for i := 0; i < blueCount; i++ {
		results = append(results, event.CardBlue)
	}

	// Fisher-Yates via rand.Shuffle: every permutation equally likely, O(n).
	rand.Shuffle(len(results), func(i, j int) {
		results[i], results[j] = results[j], results[i]
	})

	return results
}

// StartingSide returns which team opens the round: red on odd orders, blue
// on even ones. Must agree with the card split in GenerateGridResults.
func StartingSide(order int) event.Side {
	if order%2 == 0 {
		return event.SideBlue
	}
	return event.SideRed
}
