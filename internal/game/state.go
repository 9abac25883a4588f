// Package game implements the pure Codenames state machine: the reducer
// that folds events into derived state, the replay compositor, grid
// generation, win/loss detection, and action authorization. Everything here
// is deterministic and side-effect free; persistence and concurrency live
// in the app and store packages.
package game

import (
	"encoding/json"

	"github.com/soliade/codenames/internal/event"
)

// Status is the game lifecycle phase.
type Status string

// Status constants.
const (
	StatusLobby    Status = "LOBBY"
	StatusPlaying  Status = "PLAYING"
	StatusFinished Status = "FINISHED"
)

// Player is one participant as derived from the log.
type Player struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Side  *event.Side `json:"side"`
	IsSpy bool        `json:"isSpy"`
}

// Clue is the current clue for a turn.
type Clue struct {
	Word   string `json:"word"`
	Number int    `json:"number"`
}

// RevealedWord is one revealed card, in reveal order.
type RevealedWord struct {
	WordIndex int            `json:"wordIndex"`
	CardType  event.CardType `json:"cardType"`
}

// Highlighter identifies a player highlighting a word.
type Highlighter struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

// RoundState is the derived state of the active round. Results are the
// ground-truth grid; access control happens at the response-mapping
// boundary, never here.
type RoundState struct {
	ID               string                `json:"id"`
	Words            []string              `json:"words"`
	Results          []event.CardType      `json:"results"`
	Order            int                   `json:"order"`
	CurrentTurn      event.Side            `json:"currentTurn"`
	CurrentClue      *Clue                 `json:"currentClue"`
	GuessesRemaining int                   `json:"guessesRemaining"`
	RevealedWords    []RevealedWord        `json:"revealedWords"`
	Highlights       map[int][]Highlighter `json:"highlights"`
}

// State is the full derived game state. It is never stored; two replays of
// the same log always produce structurally identical values.
type State struct {
	Status       Status      `json:"status"`
	Players      []Player    `json:"players"`
	CurrentRound *RoundState `json:"currentRound"`
	WinningSide  *event.Side `json:"winningSide"`
	LosingSide   *event.Side `json:"losingSide"`
}

// NewState returns the empty initial state every replay starts from.
func NewState() State {
	return State{
		Status:  StatusLobby,
		Players: []Player{},
	}
}

// FindPlayer returns the player with the given id, or nil.
func (s *State) FindPlayer(playerID string) *Player {
	for i := range s.Players {
		if s.Players[i].ID == playerID {
			return &s.Players[i]
		}
	}
	return nil
}

// ApplyEvent folds one event into the state and returns the new state.
// It is total: unknown event types, malformed payloads, and events that do
// not apply in the current phase all return the state unchanged. The input
// is never mutated.
func ApplyEvent(state State, e *event.Event) State {
	if e == nil {
		return state
	}

	switch e.Type {
	case event.TypeGameCreated:
		state.Status = StatusLobby
		state.Players = []Player{}
		return state

	case event.TypePlayerJoined:
		var p event.PlayerJoinedPayload
		if json.Unmarshal(e.Payload, &p) != nil {
			return state
		}
		return applyPlayerJoined(state, p)

	case event.TypePlayerLeft:
		var p event.PlayerLeftPayload
		if json.Unmarshal(e.Payload, &p) != nil {
			return state
		}
		return removePlayer(state, p.PlayerID)

	case event.TypePlayerKicked:
		var p event.PlayerKickedPayload
		if json.Unmarshal(e.Payload, &p) != nil {
			return state
		}
		return removePlayer(state, p.PlayerID)

	case event.TypePlayerChoseSide:
		var p event.PlayerChoseSidePayload
		if json.Unmarshal(e.Payload, &p) != nil {
			return state
		}
		return applyChoseSide(state, p)

	case event.TypePlayerDesignatedSpy:
		var p event.PlayerDesignatedSpyPayload
		if json.Unmarshal(e.Payload, &p) != nil {
			return state
		}
		return applyDesignatedSpy(state, p)

	case event.TypeGameFinished:
		var p event.GameFinishedPayload
		if json.Unmarshal(e.Payload, &p) != nil {
			return state
		}
		state.Status = StatusFinished
		state.WinningSide = p.WinningSide
		state.LosingSide = p.LosingSide
		return state

	case event.TypeGameRestarted:
		state.Status = StatusLobby
		players := make([]Player, len(state.Players))
		for i, pl := range state.Players {
			pl.IsSpy = false
			players[i] = pl
		}
		state.Players = players
		state.CurrentRound = nil
		state.WinningSide = nil
		state.LosingSide = nil
		return state

	case event.TypeRoundStarted:
		var p event.RoundStartedPayload
		if json.Unmarshal(e.Payload, &p) != nil {
			return state
		}
		if e.RoundID == nil {
			return state
		}
		state.Status = StatusPlaying
		state.CurrentRound = &RoundState{
			ID:               *e.RoundID,
			Words:            p.Words,
			Results:          p.Results,
			Order:            p.Order,
			CurrentTurn:      p.StartingSide,
			CurrentClue:      nil,
			GuessesRemaining: 0,
			RevealedWords:    []RevealedWord{},
			Highlights:       map[int][]Highlighter{},
		}
		return state
	}

	// Remaining event types only make sense inside a round.
	if state.CurrentRound == nil {
		return state
	}
	round := cloneRound(*state.CurrentRound)

	switch e.Type {
	case event.TypeClueGiven:
		var p event.ClueGivenPayload
		if json.Unmarshal(e.Payload, &p) != nil {
			return state
		}
		round.CurrentClue = &Clue{Word: p.Word, Number: p.Number}
		// One bonus guess beyond the stated count, per house rules.
		round.GuessesRemaining = p.Number + 1

	case event.TypeWordSelected:
		var p event.WordSelectedPayload
		if json.Unmarshal(e.Payload, &p) != nil {
			return state
		}
		round.RevealedWords = append(round.RevealedWords, RevealedWord{
			WordIndex: p.WordIndex,
			CardType:  p.CardType,
		})
		if p.CardType == event.CardType(round.CurrentTurn) {
			round.GuessesRemaining--
		}
		delete(round.Highlights, p.WordIndex)

	case event.TypeWordHighlighted:
		var p event.WordHighlightedPayload
		if json.Unmarshal(e.Payload, &p) != nil {
			return state
		}
		list := round.Highlights[p.WordIndex]
		for _, h := range list {
			if h.PlayerID == p.PlayerID {
				return state
			}
		}
		round.Highlights[p.WordIndex] = append(list, Highlighter{
			PlayerID:   p.PlayerID,
			PlayerName: p.PlayerName,
		})

	case event.TypeWordUnhighlighted:
		var p event.WordUnhighlightedPayload
		if json.Unmarshal(e.Payload, &p) != nil {
			return state
		}
		list := round.Highlights[p.WordIndex]
		kept := list[:0:0]
		for _, h := range list {
			if h.PlayerID != p.PlayerID {
				kept = append(kept, h)
			}
		}
		if len(kept) == 0 {
			delete(round.Highlights, p.WordIndex)
		} else {
			round.Highlights[p.WordIndex] = kept
		}

	case event.TypeTurnPassed:
		round.CurrentTurn = round.CurrentTurn.Opposite()
		round.CurrentClue = nil
		round.GuessesRemaining = 0
		round.Highlights = map[int][]Highlighter{}

	case event.TypeChatMessage:
		// Side-channel only, no state effect.
		return state

	default:
		// Unknown event type: forward-compatible no-op.
		return state
	}

	state.CurrentRound = &round
	return state
}

func applyPlayerJoined(state State, p event.PlayerJoinedPayload) State {
	// Idempotent: a duplicate join is a no-op.
	for _, pl := range state.Players {
		if pl.ID == p.PlayerID {
			return state
		}
	}
	players := make([]Player, len(state.Players), len(state.Players)+1)
	copy(players, state.Players)
	state.Players = append(players, Player{ID: p.PlayerID, Name: p.PlayerName})
	return state
}

func removePlayer(state State, playerID string) State {
	players := make([]Player, 0, len(state.Players))
	for _, pl := range state.Players {
		if pl.ID != playerID {
			players = append(players, pl)
		}
	}
	state.Players = players
	return state
}

func applyChoseSide(state State, p event.PlayerChoseSidePayload) State {
	side := p.Side
	players := make([]Player, len(state.Players))
	found := false
	for i, pl := range state.Players {
		if pl.ID == p.PlayerID {
			pl.Name = p.PlayerName
			pl.Side = &side
			found = true
		}
		players[i] = pl
	}
	if !found {
		// Late materialization: side choice can arrive for a player the
		// replay has not seen join.
		players = append(players, Player{ID: p.PlayerID, Name: p.PlayerName, Side: &side})
	}
	state.Players = players
	return state
}

func applyDesignatedSpy(state State, p event.PlayerDesignatedSpyPayload) State {
	side := p.Side
	players := make([]Player, len(state.Players))
	found := false
	for i, pl := range state.Players {
		switch {
		case pl.ID == p.PlayerID:
			pl.Name = p.PlayerName
			pl.Side = &side
			pl.IsSpy = true
			found = true
		case pl.Side != nil && *pl.Side == side && pl.IsSpy:
			// At most one spy per side: the previous spy steps down in the
			// same atomic update.
			pl.IsSpy = false
		}
		players[i] = pl
	}
	if !found {
		players = append(players, Player{ID: p.PlayerID, Name: p.PlayerName, Side: &side, IsSpy: true})
	}
	state.Players = players
	return state
}

// cloneRound deep-copies the mutable parts of a round so ApplyEvent never
// aliases its input.
func cloneRound(r RoundState) RoundState {
	revealed := make([]RevealedWord, len(r.RevealedWords))
	copy(revealed, r.RevealedWords)
	r.RevealedWords = revealed

	highlights := make(map[int][]Highlighter, len(r.Highlights))
	for idx, list := range r.Highlights {
		cp := make([]Highlighter, len(list))
		copy(cp, list)
		highlights[idx] = cp
	}
	r.Highlights = highlights
	return r
}
