package event

import (
	"encoding/json"
	"fmt"
)

// Payload structs, one per event type. Field names match the stored JSON
// exactly; existing logs must keep replaying byte-for-byte.

// GameCreatedPayload resets a game to an empty lobby.
// The creator capability token is stored on the game row, never in the log.
type GameCreatedPayload struct {
	CreatorPseudo string `json:"creatorPseudo"`
}

// PlayerJoinedPayload adds a player to the lobby.
type PlayerJoinedPayload struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

// PlayerLeftPayload removes a player who left voluntarily.
type PlayerLeftPayload struct {
	PlayerID string `json:"playerId"`
}

// PlayerKickedPayload removes a player by creator decision.
type PlayerKickedPayload struct {
	PlayerID string `json:"playerId"`
}

// PlayerChoseSidePayload assigns or changes a player's team.
type PlayerChoseSidePayload struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Side       Side   `json:"side"`
}

// PlayerDesignatedSpyPayload makes a player the sole spy of their side.
type PlayerDesignatedSpyPayload struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Side       Side   `json:"side"`
}

// GameFinishedPayload ends the game. Words and results carry the final
// reveal so the outcome is readable from the log alone.
type GameFinishedPayload struct {
	WinningSide *Side      `json:"winningSide,omitempty"`
	LosingSide  *Side      `json:"losingSide,omitempty"`
	Words       []string   `json:"words,omitempty"`
	Results     []CardType `json:"results,omitempty"`
}

// GameRestartedPayload returns a game to the lobby. No fields.
type GameRestartedPayload struct{}

// RoundStartedPayload installs a new grid. Results are the ground truth and
// must never reach non-spy viewers before reveal.
type RoundStartedPayload struct {
	Words        []string   `json:"words"`
	Results      []CardType `json:"results"`
	Order        int        `json:"order"`
	StartingSide Side       `json:"startingSide"`
}

// ClueGivenPayload records a spy's clue. PlayerName is carried for timeline
// display only.
type ClueGivenPayload struct {
	Word       string `json:"word"`
	Number     int    `json:"number"`
	PlayerName string `json:"playerName,omitempty"`
}

// WordSelectedPayload reveals one card. The card type is resolved at append
// time so replay never needs the grid.
type WordSelectedPayload struct {
	WordIndex  int      `json:"wordIndex"`
	CardType   CardType `json:"cardType"`
	Word       string   `json:"word,omitempty"`
	PlayerName string   `json:"playerName,omitempty"`
}

// WordHighlightedPayload marks a word as considered by a guesser.
type WordHighlightedPayload struct {
	WordIndex  int    `json:"wordIndex"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Word       string `json:"word,omitempty"`
}

// WordUnhighlightedPayload removes a guesser's highlight.
type WordUnhighlightedPayload struct {
	WordIndex  int    `json:"wordIndex"`
	PlayerID   string `json:"playerId"`
	Word       string `json:"word,omitempty"`
	PlayerName string `json:"playerName,omitempty"`
}

// TurnPassedPayload flips the turn. NextTurn is informational for the
// timeline; the reducer derives the flip from current state.
type TurnPassedPayload struct {
	NextTurn Side `json:"nextTurn,omitempty"`
}

// ChatMessagePayload is a pure side-channel message with no state effect.
type ChatMessagePayload struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Content    string `json:"content"`
}

// MarshalPayload encodes a typed payload for storage.
func MarshalPayload(v any) (json.RawMessage, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return b, nil
}

// MustPayload encodes a typed payload, panicking on failure. All payload
// structs marshal without error; this keeps event construction terse.
func MustPayload(v any) json.RawMessage {
	b, err := MarshalPayload(v)
	if err != nil {
		panic(err)
	}
	return b
}
