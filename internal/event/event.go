// Package event provides the shared game event model.
// This package is used by game, app, store, and api packages.
package event

import (
	"encoding/json"
	"time"
)

// Event type constants. These names are part of the stored wire format and
// must not change without a migration.
const (
	TypeGameCreated         = "GAME_CREATED"
	TypePlayerJoined        = "PLAYER_JOINED"
	TypePlayerLeft          = "PLAYER_LEFT"
	TypePlayerKicked        = "PLAYER_KICKED"
	TypePlayerChoseSide     = "PLAYER_CHOSE_SIDE"
	TypePlayerDesignatedSpy = "PLAYER_DESIGNATED_SPY"
	TypeGameFinished        = "GAME_FINISHED"
	TypeGameRestarted       = "GAME_RESTARTED"
	TypeRoundStarted        = "ROUND_STARTED"
	TypeClueGiven           = "CLUE_GIVEN"
	TypeWordSelected        = "WORD_SELECTED"
	TypeWordHighlighted     = "WORD_HIGHLIGHTED"
	TypeWordUnhighlighted   = "WORD_UNHIGHLIGHTED"
	TypeTurnPassed          = "TURN_PASSED"
	TypeChatMessage         = "CHAT_MESSAGE"
)

// Side is one of the two teams.
type Side string

// Side constants.
const (
	SideRed  Side = "red"
	SideBlue Side = "blue"
)

// Valid reports whether s is a known side.
func (s Side) Valid() bool {
	return s == SideRed || s == SideBlue
}

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == SideRed {
		return SideBlue
	}
	return SideRed
}

// CardType is the hidden type of one grid card.
type CardType string

// Card type constants.
const (
	CardNeutral CardType = "neutral"
	CardRed     CardType = "red"
	CardBlue    CardType = "blue"
	CardBlack   CardType = "black"
)

// Event represents one immutable fact in a game's log.
// This is the domain model shared across packages, independent of storage
// implementation. The payload is a tagged variant keyed by Type; it is
// written once and never reinterpreted.
type Event struct {
	ID          string          `json:"id"`
	GameID      string          `json:"gameId"`
	RoundID     *string         `json:"roundId,omitempty"`
	Type        string          `json:"eventType"`
	Payload     json.RawMessage `json:"payload"`
	TriggeredBy *string         `json:"triggeredBy,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	Seq         int64           `json:"-"`
}

// StringPtr returns a pointer to the given string.
// Useful for setting optional fields.
func StringPtr(s string) *string {
	return &s
}

// SidePtr returns a pointer to the given side.
func SidePtr(s Side) *Side {
	return &s
}
