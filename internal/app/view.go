package app

import (
	"encoding/json"
	"time"

	"github.com/soliade/codenames/internal/event"
	"github.com/soliade/codenames/internal/game"
)

// GameView is the per-viewer response shape. It mirrors the derived state
// except that the ground-truth grid is withheld from viewers not entitled
// to it.
type GameView struct {
	Status       game.Status   `json:"status"`
	Players      []game.Player `json:"players"`
	CurrentRound *RoundView    `json:"currentRound"`
	WinningSide  *event.Side   `json:"winningSide"`
	LosingSide   *event.Side   `json:"losingSide"`
}

// RoundView is the viewer-facing slice of the active round. Results are
// only present when the viewer may see the true grid.
type RoundView struct {
	ID               string                     `json:"id"`
	Words            []string                   `json:"words"`
	Results          []event.CardType           `json:"results,omitempty"`
	Order            int                        `json:"order"`
	CurrentTurn      event.Side                 `json:"currentTurn"`
	CurrentClue      *game.Clue                 `json:"currentClue"`
	GuessesRemaining int                        `json:"guessesRemaining"`
	RevealedWords    []game.RevealedWord        `json:"revealedWords"`
	Highlights       map[int][]game.Highlighter `json:"highlights"`
}

// CanSeeResults reports whether the viewer may see the true grid: any
// viewer once the game is finished, otherwise only a spy.
func CanSeeResults(st game.State, viewerID string) bool {
	if st.Status == game.StatusFinished {
		return true
	}
	p := st.FindPlayer(viewerID)
	return p != nil && p.IsSpy
}

// RedactedView maps derived state to the view the given viewer may see.
func RedactedView(st game.State, viewerID string) GameView {
	v := GameView{
		Status:      st.Status,
		Players:     st.Players,
		WinningSide: st.WinningSide,
		LosingSide:  st.LosingSide,
	}
	if st.CurrentRound == nil {
		return v
	}
	r := st.CurrentRound
	rv := &RoundView{
		ID:               r.ID,
		Words:            r.Words,
		Order:            r.Order,
		CurrentTurn:      r.CurrentTurn,
		CurrentClue:      r.CurrentClue,
		GuessesRemaining: r.GuessesRemaining,
		RevealedWords:    r.RevealedWords,
		Highlights:       r.Highlights,
	}
	if CanSeeResults(st, viewerID) {
		rv.Results = r.Results
	}
	v.CurrentRound = rv
	return v
}

// TimelineItem is one entry of a game's event timeline.
type TimelineItem struct {
	ID          string          `json:"id"`
	RoundID     *string         `json:"roundId,omitempty"`
	EventType   string          `json:"eventType"`
	Payload     json.RawMessage `json:"payload"`
	TriggeredBy *string         `json:"triggeredBy,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// TimelinePage is one page of timeline items plus the cursor for the next.
type TimelinePage struct {
	Items      []TimelineItem `json:"items"`
	NextCursor *string        `json:"nextCursor,omitempty"`
}

// NewTimelineItem maps a stored event to its timeline shape, withholding
// the grid embedded in round-start payloads from viewers who may not see it.
func NewTimelineItem(e *event.Event, seeResults bool) TimelineItem {
	item := TimelineItem{
		ID:          e.ID,
		RoundID:     e.RoundID,
		EventType:   e.Type,
		Payload:     e.Payload,
		TriggeredBy: e.TriggeredBy,
		CreatedAt:   e.CreatedAt,
	}
	if e.Type == event.TypeRoundStarted && !seeResults {
		var p event.RoundStartedPayload
		if err := json.Unmarshal(e.Payload, &p); err == nil {
			p.Results = nil
			item.Payload = event.MustPayload(p)
		}
	}
	return item
}
