package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/soliade/codenames/internal/event"
	"github.com/soliade/codenames/internal/game"
	"github.com/soliade/codenames/internal/store"
)

// StartRound creates a fresh grid and begins play. wordCount 0 means the
// standard 25-card grid; anything else must fit the grid composition and
// the word supply.
func (s *GamesService) StartRound(ctx context.Context, gameID, playerID string, wordCount int) error {
	if wordCount == 0 {
		wordCount = game.DefaultGridSize
	}
	if wordCount < game.MinGridSize || wordCount > s.Words.MaxCount() {
		return fmt.Errorf("%w: word count must be between %d and %d", ErrBadRequest, game.MinGridSize, s.Words.MaxCount())
	}
	if _, err := s.getGame(ctx, gameID); err != nil {
		return err
	}

	unlock := s.locks.Lock(gameID)
	defer unlock()

	appended, st, err := s.execute(ctx, gameID, func(st game.State, events []*event.Event) ([]*event.Event, error) {
		if st.FindPlayer(playerID) == nil {
			return nil, fmt.Errorf("%w: not a player in this game", ErrForbidden)
		}
		if st.Status == game.StatusPlaying {
			return nil, fmt.Errorf("%w: a round is already in progress", ErrBadRequest)
		}

		order := 1
		for _, e := range events {
			if e.Type == event.TypeRoundStarted {
				order++
			}
		}

		words, err := s.Words.PickRandom(wordCount)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
		results := game.GenerateGridResults(order, wordCount)

		round := &store.Round{
			ID:      uuid.NewString(),
			GameID:  gameID,
			Order:   order,
			Words:   words,
			Results: results,
		}
		if err := s.Store.CreateRound(ctx, round); err != nil {
			return nil, fmt.Errorf("create round: %w", err)
		}

		return []*event.Event{{
			GameID:  gameID,
			RoundID: &round.ID,
			Type:    event.TypeRoundStarted,
			Payload: event.MustPayload(event.RoundStartedPayload{
				Words:        words,
				Results:      results,
				Order:        order,
				StartingSide: game.StartingSide(order),
			}),
			TriggeredBy: &playerID,
		}}, nil
	})
	if err != nil {
		return err
	}
	s.publish(gameID, appended, st)
	return nil
}

// GiveClue records the acting spy's clue for the current turn.
func (s *GamesService) GiveClue(ctx context.Context, gameID, playerID, word string, number int) error {
	if word == "" {
		return fmt.Errorf("%w: empty clue word", ErrBadRequest)
	}
	if number < 0 {
		return fmt.Errorf("%w: negative clue number", ErrBadRequest)
	}
	if _, err := s.getGame(ctx, gameID); err != nil {
		return err
	}

	unlock := s.locks.Lock(gameID)
	defer unlock()

	appended, st, err := s.execute(ctx, gameID, func(st game.State, _ []*event.Event) ([]*event.Event, error) {
		if !game.CanPerformAction(st, game.Action{Type: game.ActionGiveClue}, playerID) {
			return nil, fmt.Errorf("%w: cannot give a clue now", ErrForbidden)
		}
		p := st.FindPlayer(playerID)
		return []*event.Event{{
			GameID:      gameID,
			RoundID:     &st.CurrentRound.ID,
			Type:        event.TypeClueGiven,
			Payload:     event.MustPayload(event.ClueGivenPayload{Word: word, Number: number, PlayerName: p.Name}),
			TriggeredBy: &playerID,
		}}, nil
	})
	if err != nil {
		return err
	}
	s.publish(gameID, appended, st)
	return nil
}

// SelectWord reveals a card, then runs the cascade: the state is re-derived
// from the updated log and, depending on it, either a game finish or an
// automatic turn pass is appended. Deciding the cascade from the post-append
// log rather than from memory keeps retries idempotent.
func (s *GamesService) SelectWord(ctx context.Context, gameID, playerID string, wordIndex int) error {
	if _, err := s.getGame(ctx, gameID); err != nil {
		return err
	}

	unlock := s.locks.Lock(gameID)
	defer unlock()

	var actorSide event.Side
	appended, _, err := s.execute(ctx, gameID, func(st game.State, _ []*event.Event) ([]*event.Event, error) {
		if !game.CanPerformAction(st, game.Action{Type: game.ActionSelectWord, WordIndex: wordIndex}, playerID) {
			return nil, fmt.Errorf("%w: cannot select that word now", ErrForbidden)
		}
		round := st.CurrentRound
		if wordIndex < 0 || wordIndex >= len(round.Words) {
			return nil, fmt.Errorf("%w: word index %d out of range", ErrBadRequest, wordIndex)
		}
		p := st.FindPlayer(playerID)
		actorSide = *p.Side
		return []*event.Event{{
			GameID:  gameID,
			RoundID: &round.ID,
			Type:    event.TypeWordSelected,
			Payload: event.MustPayload(event.WordSelectedPayload{
				WordIndex:  wordIndex,
				CardType:   round.Results[wordIndex],
				Word:       round.Words[wordIndex],
				PlayerName: p.Name,
			}),
			TriggeredBy: &playerID,
		}}, nil
	})
	if err != nil {
		return err
	}

	cascade, st, err := s.execute(ctx, gameID, func(st game.State, _ []*event.Event) ([]*event.Event, error) {
		return decideCascade(gameID, st, wordIndex, actorSide), nil
	})
	if err != nil {
		return err
	}
	s.publish(gameID, append(appended, cascade...), st)
	return nil
}

// decideCascade inspects the post-select state and returns the follow-up
// events, if any. It is a pure decision over the authoritative state, so
// replaying it against the same log yields the same answer.
func decideCascade(gameID string, st game.State, wordIndex int, actorSide event.Side) []*event.Event {
	round := st.CurrentRound
	if st.Status != game.StatusPlaying || round == nil {
		return nil
	}

	over := game.CheckGameOver(round.RevealedWords, round.Results, round.CurrentTurn)
	if over.IsOver {
		return []*event.Event{{
			GameID:  gameID,
			RoundID: &round.ID,
			Type:    event.TypeGameFinished,
			Payload: event.MustPayload(event.GameFinishedPayload{
				WinningSide: over.WinningSide,
				LosingSide:  over.LosingSide,
				Words:       round.Words,
				Results:     round.Results,
			}),
		}}
	}

	selected := round.Results[wordIndex]
	if selected != event.CardType(actorSide) || round.GuessesRemaining == 0 {
		return []*event.Event{{
			GameID:  gameID,
			RoundID: &round.ID,
			Type:    event.TypeTurnPassed,
			Payload: event.MustPayload(event.TurnPassedPayload{NextTurn: round.CurrentTurn.Opposite()}),
		}}
	}
	return nil
}

// HighlightWord marks a word as considered by the acting guesser.
func (s *GamesService) HighlightWord(ctx context.Context, gameID, playerID string, wordIndex int) error {
	if _, err := s.getGame(ctx, gameID); err != nil {
		return err
	}

	unlock := s.locks.Lock(gameID)
	defer unlock()

	appended, st, err := s.execute(ctx, gameID, func(st game.State, _ []*event.Event) ([]*event.Event, error) {
		if !game.CanPerformAction(st, game.Action{Type: game.ActionHighlightWord, WordIndex: wordIndex}, playerID) {
			return nil, fmt.Errorf("%w: cannot highlight that word now", ErrForbidden)
		}
		round := st.CurrentRound
		if wordIndex < 0 || wordIndex >= len(round.Words) {
			return nil, fmt.Errorf("%w: word index %d out of range", ErrBadRequest, wordIndex)
		}
		p := st.FindPlayer(playerID)
		return []*event.Event{{
			GameID:  gameID,
			RoundID: &round.ID,
			Type:    event.TypeWordHighlighted,
			Payload: event.MustPayload(event.WordHighlightedPayload{
				WordIndex:  wordIndex,
				PlayerID:   playerID,
				PlayerName: p.Name,
				Word:       round.Words[wordIndex],
			}),
			TriggeredBy: &playerID,
		}}, nil
	})
	if err != nil {
		return err
	}
	s.publish(gameID, appended, st)
	return nil
}

// UnhighlightWord removes the acting guesser's highlight from a word.
func (s *GamesService) UnhighlightWord(ctx context.Context, gameID, playerID string, wordIndex int) error {
	if _, err := s.getGame(ctx, gameID); err != nil {
		return err
	}

	unlock := s.locks.Lock(gameID)
	defer unlock()

	appended, st, err := s.execute(ctx, gameID, func(st game.State, _ []*event.Event) ([]*event.Event, error) {
		if !game.CanPerformAction(st, game.Action{Type: game.ActionUnhighlightWord, WordIndex: wordIndex}, playerID) {
			return nil, fmt.Errorf("%w: cannot unhighlight that word now", ErrForbidden)
		}
		round := st.CurrentRound
		if wordIndex < 0 || wordIndex >= len(round.Words) {
			return nil, fmt.Errorf("%w: word index %d out of range", ErrBadRequest, wordIndex)
		}
		return []*event.Event{{
			GameID:  gameID,
			RoundID: &round.ID,
			Type:    event.TypeWordUnhighlighted,
			Payload: event.MustPayload(event.WordUnhighlightedPayload{
				WordIndex: wordIndex,
				PlayerID:  playerID,
				Word:      round.Words[wordIndex],
			}),
			TriggeredBy: &playerID,
		}}, nil
	})
	if err != nil {
		return err
	}
	s.publish(gameID, appended, st)
	return nil
}

// PassTurn hands the turn to the other team.
func (s *GamesService) PassTurn(ctx context.Context, gameID, playerID string) error {
	if _, err := s.getGame(ctx, gameID); err != nil {
		return err
	}

	unlock := s.locks.Lock(gameID)
	defer unlock()

	appended, st, err := s.execute(ctx, gameID, func(st game.State, _ []*event.Event) ([]*event.Event, error) {
		if !game.CanPerformAction(st, game.Action{Type: game.ActionPassTurn}, playerID) {
			return nil, fmt.Errorf("%w: cannot pass the turn now", ErrForbidden)
		}
		round := st.CurrentRound
		return []*event.Event{{
			GameID:      gameID,
			RoundID:     &round.ID,
			Type:        event.TypeTurnPassed,
			Payload:     event.MustPayload(event.TurnPassedPayload{NextTurn: round.CurrentTurn.Opposite()}),
			TriggeredBy: &playerID,
		}}, nil
	})
	if err != nil {
		return err
	}
	s.publish(gameID, appended, st)
	return nil
}
