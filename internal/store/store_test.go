package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/soliade/codenames/internal/event"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.sqlite")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testGame(t *testing.T, s *Store) *Game {
	t.Helper()
	g := &Game{
		ID:            uuid.NewString(),
		CreatorPseudo: "Alice",
		CreatorToken:  uuid.NewString(),
	}
	if err := s.CreateGame(context.Background(), g); err != nil {
		t.Fatalf("create game: %v", err)
	}
	return g
}

func TestOpen_WALMode(t *testing.T) {
	s := openTestStore(t)

	mode, err := s.journalMode()
	if err != nil {
		t.Fatalf("journal mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("expected wal journal mode, got %q", mode)
	}
}

func TestGetGame_NotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetGame(context.Background(), "nope")
	if !errors.Is(err, ErrGameNotFound) {
		t.Errorf("expected ErrGameNotFound, got %v", err)
	}
}

func TestCreateGetGame_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	g := testGame(t, s)

	got, err := s.GetGame(context.Background(), g.ID)
	if err != nil {
		t.Fatalf("get game: %v", err)
	}
	if got.CreatorPseudo != "Alice" {
		t.Errorf("expected creator Alice, got %s", got.CreatorPseudo)
	}
	if got.CreatorToken != g.CreatorToken {
		t.Error("creator token did not survive the round trip")
	}
	if got.CreatedAt.IsZero() {
		t.Error("created_at should be set")
	}
}

func TestCreateGetRound_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	g := testGame(t, s)

	r := &Round{
		ID:      uuid.NewString(),
		GameID:  g.ID,
		Order:   1,
		Words:   []string{"ocean", "moon"},
		Results: []event.CardType{event.CardRed, event.CardBlue},
	}
	if err := s.CreateRound(context.Background(), r); err != nil {
		t.Fatalf("create round: %v", err)
	}

	got, err := s.GetRound(context.Background(), r.ID)
	if err != nil {
		t.Fatalf("get round: %v", err)
	}
	if got.Order != 1 || len(got.Words) != 2 || got.Results[1] != event.CardBlue {
		t.Errorf("round did not survive the round trip: %+v", got)
	}

	if _, err := s.GetRound(context.Background(), "nope"); !errors.Is(err, ErrRoundNotFound) {
		t.Errorf("expected ErrRoundNotFound, got %v", err)
	}
}

func TestCreateRound_MismatchedGrids(t *testing.T) {
	s := openTestStore(t)
	g := testGame(t, s)

	err := s.CreateRound(context.Background(), &Round{
		ID:      uuid.NewString(),
		GameID:  g.ID,
		Order:   1,
		Words:   []string{"ocean"},
		Results: []event.CardType{event.CardRed, event.CardBlue},
	})
	if !errors.Is(err, ErrInvalidEvent) {
		t.Errorf("expected ErrInvalidEvent for mismatched lists, got %v", err)
	}
}

func TestAppendEvent_AssignsSequence(t *testing.T) {
	s := openTestStore(t)
	g := testGame(t, s)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		e := &event.Event{
			GameID:  g.ID,
			Type:    event.TypePlayerJoined,
			Payload: event.MustPayload(event.PlayerJoinedPayload{PlayerID: uuid.NewString(), PlayerName: "P"}),
		}
		if err := s.AppendEvent(ctx, e); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		if e.Seq != int64(i) {
			t.Errorf("expected seq %d, got %d", i, e.Seq)
		}
		if e.ID == "" || e.CreatedAt.IsZero() {
			t.Error("append should fill id and created_at")
		}
	}
}

func TestAppendEvent_SequencesPerGame(t *testing.T) {
	s := openTestStore(t)
	g1 := testGame(t, s)
	g2 := testGame(t, s)
	ctx := context.Background()

	e1 := &event.Event{GameID: g1.ID, Type: event.TypeGameCreated, Payload: []byte(`{}`)}
	e2 := &event.Event{GameID: g2.ID, Type: event.TypeGameCreated, Payload: []byte(`{}`)}
	if err := s.AppendEvent(ctx, e1); err != nil {
		t.Fatalf("append g1: %v", err)
	}
	if err := s.AppendEvent(ctx, e2); err != nil {
		t.Fatalf("append g2: %v", err)
	}

	if e1.Seq != 1 || e2.Seq != 1 {
		t.Errorf("sequences should be per game, got %d and %d", e1.Seq, e2.Seq)
	}
}

func TestAppendEvent_Validation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.AppendEvent(ctx, nil); !errors.Is(err, ErrInvalidEvent) {
		t.Errorf("expected ErrInvalidEvent for nil event, got %v", err)
	}
	if err := s.AppendEvent(ctx, &event.Event{Type: event.TypeGameCreated}); !errors.Is(err, ErrInvalidEvent) {
		t.Errorf("expected ErrInvalidEvent for missing game id, got %v", err)
	}
	if err := s.AppendEvent(ctx, &event.Event{GameID: "g"}); !errors.Is(err, ErrInvalidEvent) {
		t.Errorf("expected ErrInvalidEvent for missing type, got %v", err)
	}
}

func TestLoadEvents_ReplayOrder(t *testing.T) {
	s := openTestStore(t)
	g := testGame(t, s)
	ctx := context.Background()

	types := []string{event.TypeGameCreated, event.TypePlayerJoined, event.TypePlayerChoseSide}
	for _, typ := range types {
		if err := s.AppendEvent(ctx, &event.Event{GameID: g.ID, Type: typ, Payload: []byte(`{}`)}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	events, err := s.LoadEvents(ctx, g.ID)
	if err != nil {
		t.Fatalf("load events: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	for i, e := range events {
		if e.Type != types[i] {
			t.Errorf("position %d: expected %s, got %s", i, types[i], e.Type)
		}
		if e.Seq != int64(i+1) {
			t.Errorf("position %d: expected seq %d, got %d", i, i+1, e.Seq)
		}
	}
}

func TestQueryTimeline_Pagination(t *testing.T) {
	s := openTestStore(t)
	g := testGame(t, s)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := s.AppendEvent(ctx, &event.Event{GameID: g.ID, Type: event.TypeChatMessage, Payload: []byte(`{}`)}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	first, err := s.QueryTimeline(ctx, TimelineFilter{GameID: g.ID, Limit: 3})
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	if len(first.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(first.Items))
	}
	if first.NextCursor == nil {
		t.Fatal("expected next cursor")
	}

	second, err := s.QueryTimeline(ctx, TimelineFilter{GameID: g.ID, Limit: 3, Cursor: first.NextCursor})
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	if len(second.Items) != 2 {
		t.Fatalf("expected 2 items on last page, got %d", len(second.Items))
	}
	if second.NextCursor != nil {
		t.Error("expected no cursor on last page")
	}
	if second.Items[0].Seq != 4 {
		t.Errorf("expected second page to start at seq 4, got %d", second.Items[0].Seq)
	}
}

func TestQueryTimeline_RoundFilter(t *testing.T) {
	s := openTestStore(t)
	g := testGame(t, s)
	ctx := context.Background()

	r := &Round{ID: uuid.NewString(), GameID: g.ID, Order: 1, Words: []string{"a"}, Results: []event.CardType{event.CardRed}}
	if err := s.CreateRound(ctx, r); err != nil {
		t.Fatalf("create round: %v", err)
	}

	if err := s.AppendEvent(ctx, &event.Event{GameID: g.ID, Type: event.TypePlayerJoined, Payload: []byte(`{}`)}); err != nil {
		t.Fatalf("append game-level: %v", err)
	}
	if err := s.AppendEvent(ctx, &event.Event{GameID: g.ID, RoundID: &r.ID, Type: event.TypeClueGiven, Payload: []byte(`{}`)}); err != nil {
		t.Fatalf("append round-level: %v", err)
	}

	result, err := s.QueryTimeline(ctx, TimelineFilter{GameID: g.ID, RoundID: &r.ID})
	if err != nil {
		t.Fatalf("query timeline: %v", err)
	}
	if len(result.Items) != 1 || result.Items[0].Type != event.TypeClueGiven {
		t.Errorf("expected only the round event, got %+v", result.Items)
	}
}

func TestQueryTimeline_InvalidCursor(t *testing.T) {
	s := openTestStore(t)
	g := testGame(t, s)
	bad := "!!not-base64!!"

	_, err := s.QueryTimeline(context.Background(), TimelineFilter{GameID: g.ID, Cursor: &bad})
	if !errors.Is(err, ErrInvalidCursor) {
		t.Errorf("expected ErrInvalidCursor, got %v", err)
	}
}

func TestCountEvents(t *testing.T) {
	s := openTestStore(t)
	g := testGame(t, s)
	ctx := context.Background()

	count, err := s.CountEvents(ctx, g.ID)
	if err != nil || count != 0 {
		t.Fatalf("expected 0 events, got %d (%v)", count, err)
	}

	if err := s.AppendEvent(ctx, &event.Event{GameID: g.ID, Type: event.TypeGameCreated, Payload: []byte(`{}`)}); err != nil {
		t.Fatalf("append: %v", err)
	}

	count, err = s.CountEvents(ctx, g.ID)
	if err != nil || count != 1 {
		t.Fatalf("expected 1 event, got %d (%v)", count, err)
	}
}
