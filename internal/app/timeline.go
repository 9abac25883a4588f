package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/soliade/codenames/internal/game"
	"github.com/soliade/codenames/internal/store"
)

// TimelineQuery selects a page of a game's timeline.
type TimelineQuery struct {
	GameID   string
	ViewerID string
	RoundID  *string
	Limit    int
	Cursor   *string
}

// GetTimeline returns one page of the game's event timeline, oldest first.
// Round-start payloads are redacted for viewers who may not see the grid.
func (s *GamesService) GetTimeline(ctx context.Context, q TimelineQuery) (TimelinePage, error) {
	if _, err := s.getGame(ctx, q.GameID); err != nil {
		return TimelinePage{}, err
	}

	events, err := s.Store.LoadEvents(ctx, q.GameID)
	if err != nil {
		return TimelinePage{}, fmt.Errorf("load events: %w", err)
	}
	seeResults := CanSeeResults(game.ComputeGameState(events), q.ViewerID)

	result, err := s.Store.QueryTimeline(ctx, store.TimelineFilter{
		GameID:  q.GameID,
		RoundID: q.RoundID,
		Limit:   q.Limit,
		Cursor:  q.Cursor,
	})
	if err != nil {
		if errors.Is(err, store.ErrInvalidCursor) {
			return TimelinePage{}, fmt.Errorf("%w: invalid cursor", ErrBadRequest)
		}
		return TimelinePage{}, fmt.Errorf("query timeline: %w", err)
	}

	page := TimelinePage{
		Items:      make([]TimelineItem, 0, len(result.Items)),
		NextCursor: result.NextCursor,
	}
	for i := range result.Items {
		page.Items = append(page.Items, NewTimelineItem(&result.Items[i], seeResults))
	}
	return page, nil
}
