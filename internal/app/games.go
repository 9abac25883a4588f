// Package app provides the command layer: every player-facing operation
// loads the game's event log, derives state, authorizes the action, appends
// the resulting events, and broadcasts the fresh state.
package app

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/soliade/codenames/internal/event"
	"github.com/soliade/codenames/internal/game"
	"github.com/soliade/codenames/internal/store"
)

const (
	maxPseudoLen      = 50
	maxAppendAttempts = 3
)

// Store defines the persistence operations the command layer needs.
type Store interface {
	CreateGame(ctx context.Context, g *store.Game) error
	GetGame(ctx context.Context, id string) (*store.Game, error)
	CreateRound(ctx context.Context, r *store.Round) error
	AppendEvent(ctx context.Context, e *event.Event) error
	LoadEvents(ctx context.Context, gameID string) ([]*event.Event, error)
	QueryTimeline(ctx context.Context, f store.TimelineFilter) (store.TimelineResult, error)
}

// WordPicker supplies random distinct words for a round's grid.
type WordPicker interface {
	PickRandom(count int) ([]string, error)
	MaxCount() int
}

// Notification carries a freshly derived state and the events that produced
// it. The transport redacts per viewer before delivery.
type Notification struct {
	State  game.State
	Events []*event.Event
}

// Broadcaster fans a notification out to a game's subscribers. Delivery is
// best effort; failures never reach the originating command.
type Broadcaster interface {
	Publish(gameID string, n Notification)
}

// GamesService implements every game command.
type GamesService struct {
	Store     Store
	Words     WordPicker
	Broadcast Broadcaster

	locks gameLocks
}

// CreateGameResult is the response to a successful game creation. The
// creator token is returned exactly once, here.
type CreateGameResult struct {
	GameID       string   `json:"gameId"`
	PlayerID     string   `json:"playerId"`
	CreatorToken string   `json:"creatorToken"`
	State        GameView `json:"state"`
}

// JoinResult is the response to a successful join.
type JoinResult struct {
	PlayerID string   `json:"playerId"`
	State    GameView `json:"state"`
}

// GameInfo is public game metadata. The creator token never appears here.
type GameInfo struct {
	ID            string    `json:"id"`
	CreatorPseudo string    `json:"creatorPseudo"`
	CreatedAt     time.Time `json:"createdAt"`
}

// CreateGame creates a game, joins the creator as its first player, and
// returns the creator capability token.
func (s *GamesService) CreateGame(ctx context.Context, pseudo string) (CreateGameResult, error) {
	pseudo, err := normalizePseudo(pseudo)
	if err != nil {
		return CreateGameResult{}, err
	}

	g := &store.Game{
		ID:            uuid.NewString(),
		CreatorPseudo: pseudo,
		CreatorToken:  uuid.NewString(),
	}
	if err := s.Store.CreateGame(ctx, g); err != nil {
		return CreateGameResult{}, fmt.Errorf("create game: %w", err)
	}

	playerID := uuid.NewString()
	unlock := s.locks.Lock(g.ID)
	defer unlock()

	appended, st, err := s.execute(ctx, g.ID, func(game.State, []*event.Event) ([]*event.Event, error) {
		return []*event.Event{
			{
				GameID:      g.ID,
				Type:        event.TypeGameCreated,
				Payload:     event.MustPayload(event.GameCreatedPayload{CreatorPseudo: pseudo}),
				TriggeredBy: &playerID,
			},
			{
				GameID:      g.ID,
				Type:        event.TypePlayerJoined,
				Payload:     event.MustPayload(event.PlayerJoinedPayload{PlayerID: playerID, PlayerName: pseudo}),
				TriggeredBy: &playerID,
			},
		}, nil
	})
	if err != nil {
		return CreateGameResult{}, err
	}
	s.publish(g.ID, appended, st)

	return CreateGameResult{
		GameID:       g.ID,
		PlayerID:     playerID,
		CreatorToken: g.CreatorToken,
		State:        RedactedView(st, playerID),
	}, nil
}

// GetGame returns public metadata for a game.
func (s *GamesService) GetGame(ctx context.Context, gameID string) (GameInfo, error) {
	g, err := s.getGame(ctx, gameID)
	if err != nil {
		return GameInfo{}, err
	}
	return GameInfo{ID: g.ID, CreatorPseudo: g.CreatorPseudo, CreatedAt: g.CreatedAt}, nil
}

// GetGameState derives the current state and returns the viewer's redacted
// view of it.
func (s *GamesService) GetGameState(ctx context.Context, gameID, viewerID string) (GameView, error) {
	if _, err := s.getGame(ctx, gameID); err != nil {
		return GameView{}, err
	}
	events, err := s.Store.LoadEvents(ctx, gameID)
	if err != nil {
		return GameView{}, fmt.Errorf("load events: %w", err)
	}
	return RedactedView(game.ComputeGameState(events), viewerID), nil
}

// JoinGame adds a new player to the lobby and returns their id.
func (s *GamesService) JoinGame(ctx context.Context, gameID, pseudo string) (JoinResult, error) {
	pseudo, err := normalizePseudo(pseudo)
	if err != nil {
		return JoinResult{}, err
	}
	if _, err := s.getGame(ctx, gameID); err != nil {
		return JoinResult{}, err
	}

	playerID := uuid.NewString()
	unlock := s.locks.Lock(gameID)
	defer unlock()

	appended, st, err := s.execute(ctx, gameID, func(game.State, []*event.Event) ([]*event.Event, error) {
		return []*event.Event{{
			GameID:      gameID,
			Type:        event.TypePlayerJoined,
			Payload:     event.MustPayload(event.PlayerJoinedPayload{PlayerID: playerID, PlayerName: pseudo}),
			TriggeredBy: &playerID,
		}}, nil
	})
	if err != nil {
		return JoinResult{}, err
	}
	s.publish(gameID, appended, st)

	return JoinResult{PlayerID: playerID, State: RedactedView(st, playerID)}, nil
}

// KickPlayer removes a player by creator decision. Requires the creator
// capability token.
func (s *GamesService) KickPlayer(ctx context.Context, gameID, targetID, creatorToken string) error {
	g, err := s.getGame(ctx, gameID)
	if err != nil {
		return err
	}
	if !tokenMatches(g.CreatorToken, creatorToken) {
		return fmt.Errorf("%w: creator token mismatch", ErrForbidden)
	}

	unlock := s.locks.Lock(gameID)
	defer unlock()

	appended, st, err := s.execute(ctx, gameID, func(st game.State, _ []*event.Event) ([]*event.Event, error) {
		if st.FindPlayer(targetID) == nil {
			return nil, fmt.Errorf("%w: player %s is not in the game", ErrBadRequest, targetID)
		}
		return []*event.Event{{
			GameID:  gameID,
			Type:    event.TypePlayerKicked,
			Payload: event.MustPayload(event.PlayerKickedPayload{PlayerID: targetID}),
		}}, nil
	})
	if err != nil {
		return err
	}
	s.publish(gameID, appended, st)
	return nil
}

// LeaveGame removes the acting player from the game.
func (s *GamesService) LeaveGame(ctx context.Context, gameID, playerID string) error {
	if _, err := s.getGame(ctx, gameID); err != nil {
		return err
	}

	unlock := s.locks.Lock(gameID)
	defer unlock()

	appended, st, err := s.execute(ctx, gameID, func(st game.State, _ []*event.Event) ([]*event.Event, error) {
		if st.FindPlayer(playerID) == nil {
			return nil, fmt.Errorf("%w: not a player in this game", ErrForbidden)
		}
		return []*event.Event{{
			GameID:      gameID,
			Type:        event.TypePlayerLeft,
			Payload:     event.MustPayload(event.PlayerLeftPayload{PlayerID: playerID}),
			TriggeredBy: &playerID,
		}}, nil
	})
	if err != nil {
		return err
	}
	s.publish(gameID, appended, st)
	return nil
}

// ChooseSide assigns the acting player to a team.
func (s *GamesService) ChooseSide(ctx context.Context, gameID, playerID string, side event.Side) error {
	if !side.Valid() {
		return fmt.Errorf("%w: invalid side %q", ErrBadRequest, side)
	}
	if _, err := s.getGame(ctx, gameID); err != nil {
		return err
	}

	unlock := s.locks.Lock(gameID)
	defer unlock()

	appended, st, err := s.execute(ctx, gameID, func(st game.State, _ []*event.Event) ([]*event.Event, error) {
		p := st.FindPlayer(playerID)
		if p == nil {
			return nil, fmt.Errorf("%w: not a player in this game", ErrForbidden)
		}
		return []*event.Event{{
			GameID:      gameID,
			Type:        event.TypePlayerChoseSide,
			Payload:     event.MustPayload(event.PlayerChoseSidePayload{PlayerID: playerID, PlayerName: p.Name, Side: side}),
			TriggeredBy: &playerID,
		}}, nil
	})
	if err != nil {
		return err
	}
	s.publish(gameID, appended, st)
	return nil
}

// DesignateSpy makes the acting player the sole spy of their side.
func (s *GamesService) DesignateSpy(ctx context.Context, gameID, playerID string) error {
	if _, err := s.getGame(ctx, gameID); err != nil {
		return err
	}
	return s.designateSpy(ctx, gameID, playerID, &playerID)
}

// DesignatePlayerAsSpy makes the target player the sole spy of their side,
// by creator decision. Requires the creator capability token.
func (s *GamesService) DesignatePlayerAsSpy(ctx context.Context, gameID, targetID, creatorToken string) error {
	g, err := s.getGame(ctx, gameID)
	if err != nil {
		return err
	}
	if !tokenMatches(g.CreatorToken, creatorToken) {
		return fmt.Errorf("%w: creator token mismatch", ErrForbidden)
	}
	return s.designateSpy(ctx, gameID, targetID, nil)
}

func (s *GamesService) designateSpy(ctx context.Context, gameID, targetID string, triggeredBy *string) error {
	unlock := s.locks.Lock(gameID)
	defer unlock()

	appended, st, err := s.execute(ctx, gameID, func(st game.State, _ []*event.Event) ([]*event.Event, error) {
		p := st.FindPlayer(targetID)
		if p == nil {
			return nil, fmt.Errorf("%w: player %s is not in the game", ErrBadRequest, targetID)
		}
		if p.Side == nil {
			return nil, fmt.Errorf("%w: player must choose a side before becoming spy", ErrBadRequest)
		}
		return []*event.Event{{
			GameID:      gameID,
			Type:        event.TypePlayerDesignatedSpy,
			Payload:     event.MustPayload(event.PlayerDesignatedSpyPayload{PlayerID: targetID, PlayerName: p.Name, Side: *p.Side}),
			TriggeredBy: triggeredBy,
		}}, nil
	})
	if err != nil {
		return err
	}
	s.publish(gameID, appended, st)
	return nil
}

// RestartGame returns the game to the lobby, keeping players and sides.
func (s *GamesService) RestartGame(ctx context.Context, gameID, playerID string) error {
	if _, err := s.getGame(ctx, gameID); err != nil {
		return err
	}

	unlock := s.locks.Lock(gameID)
	defer unlock()

	appended, st, err := s.execute(ctx, gameID, func(st game.State, _ []*event.Event) ([]*event.Event, error) {
		if st.FindPlayer(playerID) == nil {
			return nil, fmt.Errorf("%w: not a player in this game", ErrForbidden)
		}
		if st.Status == game.StatusLobby {
			return nil, fmt.Errorf("%w: game is already in the lobby", ErrBadRequest)
		}
		return []*event.Event{{
			GameID:      gameID,
			Type:        event.TypeGameRestarted,
			Payload:     event.MustPayload(event.GameRestartedPayload{}),
			TriggeredBy: &playerID,
		}}, nil
	})
	if err != nil {
		return err
	}
	s.publish(gameID, appended, st)
	return nil
}

// SendChatMessage appends a chat message. Messages have no state effect and
// exist only on the timeline; ones sent during a round are tagged with it.
func (s *GamesService) SendChatMessage(ctx context.Context, gameID, playerID, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return fmt.Errorf("%w: empty message", ErrBadRequest)
	}
	if utf8.RuneCountInString(content) > 500 {
		return fmt.Errorf("%w: message too long", ErrBadRequest)
	}
	if _, err := s.getGame(ctx, gameID); err != nil {
		return err
	}

	unlock := s.locks.Lock(gameID)
	defer unlock()

	appended, st, err := s.execute(ctx, gameID, func(st game.State, _ []*event.Event) ([]*event.Event, error) {
		p := st.FindPlayer(playerID)
		if p == nil {
			return nil, fmt.Errorf("%w: not a player in this game", ErrForbidden)
		}
		e := &event.Event{
			GameID:      gameID,
			Type:        event.TypeChatMessage,
			Payload:     event.MustPayload(event.ChatMessagePayload{PlayerID: playerID, PlayerName: p.Name, Content: content}),
			TriggeredBy: &playerID,
		}
		if st.CurrentRound != nil {
			e.RoundID = &st.CurrentRound.ID
		}
		return []*event.Event{e}, nil
	})
	if err != nil {
		return err
	}
	s.publish(gameID, appended, st)
	return nil
}

// execute runs one load, decide, append cycle. The caller must hold the
// game lock. A sequence conflict from a concurrent writer in another
// process triggers a fresh snapshot and re-decision, a bounded number of
// times; a conflict after a partial batch append is surfaced instead of
// retried so cascade events are never double-applied.
func (s *GamesService) execute(ctx context.Context, gameID string, decide func(st game.State, events []*event.Event) ([]*event.Event, error)) ([]*event.Event, game.State, error) {
	for attempt := 1; ; attempt++ {
		events, err := s.Store.LoadEvents(ctx, gameID)
		if err != nil {
			return nil, game.State{}, fmt.Errorf("load events: %w", err)
		}
		st := game.ComputeGameState(events)

		out, err := decide(st, events)
		if err != nil {
			return nil, game.State{}, err
		}

		conflicted := false
		for i, e := range out {
			if err := s.Store.AppendEvent(ctx, e); err != nil {
				if errors.Is(err, store.ErrSeqConflict) {
					if i == 0 && attempt < maxAppendAttempts {
						conflicted = true
						break
					}
					return nil, game.State{}, fmt.Errorf("%w: %v", ErrConflict, err)
				}
				return nil, game.State{}, fmt.Errorf("append event: %w", err)
			}
			events = append(events, e)
		}
		if conflicted {
			continue
		}
		return out, game.ComputeGameState(events), nil
	}
}

func (s *GamesService) getGame(ctx context.Context, gameID string) (*store.Game, error) {
	g, err := s.Store.GetGame(ctx, gameID)
	if err != nil {
		if errors.Is(err, store.ErrGameNotFound) {
			return nil, fmt.Errorf("%w: game %s", ErrNotFound, gameID)
		}
		return nil, fmt.Errorf("get game: %w", err)
	}
	return g, nil
}

func (s *GamesService) publish(gameID string, events []*event.Event, st game.State) {
	if s.Broadcast == nil {
		return
	}
	s.Broadcast.Publish(gameID, Notification{State: st, Events: events})
}

func normalizePseudo(pseudo string) (string, error) {
	pseudo = strings.TrimSpace(pseudo)
	if pseudo == "" {
		return "", fmt.Errorf("%w: empty pseudo", ErrBadRequest)
	}
	if utf8.RuneCountInString(pseudo) > maxPseudoLen {
		return "", fmt.Errorf("%w: pseudo too long", ErrBadRequest)
	}
	return pseudo, nil
}

func tokenMatches(want, got string) bool {
	if want == "" || got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}
