package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/soliade/codenames/internal/app"
	"github.com/soliade/codenames/internal/event"
)

const maxBodyBytes = 1 << 20

// playerHeader carries the opaque player id issued at create/join time.
const playerHeader = "X-Player-Id"

// tokenHeader carries the creator capability token for privileged actions.
const tokenHeader = "X-Creator-Token"

// decodeJSON reads a bounded JSON body into v. An empty body is allowed and
// leaves v at its zero value, so bodyless commands stay terse for clients.
func decodeJSON(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

// requirePlayer extracts and validates the player id header.
func requirePlayer(r *http.Request) (string, error) {
	id := r.Header.Get(playerHeader)
	if id == "" {
		return "", errors.New("missing " + playerHeader + " header")
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", errors.New("malformed " + playerHeader + " header")
	}
	return id, nil
}

func gameID(r *http.Request) string {
	return chi.URLParam(r, "gameID")
}

// handleCreateGame handles POST /api/v1/games.
func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Pseudo string `json:"pseudo"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	res, err := s.games.CreateGame(r.Context(), req.Pseudo)
	if err != nil {
		writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// handleGetGame handles GET /api/v1/games/{gameID}.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	info, err := s.games.GetGame(r.Context(), gameID(r))
	if err != nil {
		writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// handleGetState handles GET /api/v1/games/{gameID}/state. The viewer id is
// optional; an anonymous viewer gets the fully redacted view.
func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	view, err := s.games.GetGameState(r.Context(), gameID(r), r.Header.Get(playerHeader))
	if err != nil {
		writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleJoinGame handles POST /api/v1/games/{gameID}/join.
func (s *Server) handleJoinGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Pseudo string `json:"pseudo"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	res, err := s.games.JoinGame(r.Context(), gameID(r), req.Pseudo)
	if err != nil {
		writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleKickPlayer handles DELETE /api/v1/games/{gameID}/players/{playerID}.
func (s *Server) handleKickPlayer(w http.ResponseWriter, r *http.Request) {
	err := s.games.KickPlayer(r.Context(), gameID(r), chi.URLParam(r, "playerID"), r.Header.Get(tokenHeader))
	if err != nil {
		writeCommandError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleLeaveGame handles POST /api/v1/games/{gameID}/leave.
func (s *Server) handleLeaveGame(w http.ResponseWriter, r *http.Request) {
	s.playerCommand(w, r, func(playerID string) error {
		return s.games.LeaveGame(r.Context(), gameID(r), playerID)
	})
}

// handleChooseSide handles POST /api/v1/games/{gameID}/side.
func (s *Server) handleChooseSide(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Side event.Side `json:"side"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	s.playerCommand(w, r, func(playerID string) error {
		return s.games.ChooseSide(r.Context(), gameID(r), playerID, req.Side)
	})
}

// handleDesignateSpy handles POST /api/v1/games/{gameID}/spy.
func (s *Server) handleDesignateSpy(w http.ResponseWriter, r *http.Request) {
	s.playerCommand(w, r, func(playerID string) error {
		return s.games.DesignateSpy(r.Context(), gameID(r), playerID)
	})
}

// handleDesignatePlayerAsSpy handles
// PATCH /api/v1/games/{gameID}/players/{playerID}/spy.
func (s *Server) handleDesignatePlayerAsSpy(w http.ResponseWriter, r *http.Request) {
	err := s.games.DesignatePlayerAsSpy(r.Context(), gameID(r), chi.URLParam(r, "playerID"), r.Header.Get(tokenHeader))
	if err != nil {
		writeCommandError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleStartRound handles POST /api/v1/games/{gameID}/rounds.
func (s *Server) handleStartRound(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WordCount int `json:"wordCount"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	s.playerCommand(w, r, func(playerID string) error {
		return s.games.StartRound(r.Context(), gameID(r), playerID, req.WordCount)
	})
}

// handleGiveClue handles POST /api/v1/games/{gameID}/clue.
func (s *Server) handleGiveClue(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Word   string `json:"word"`
		Number int    `json:"number"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	s.playerCommand(w, r, func(playerID string) error {
		return s.games.GiveClue(r.Context(), gameID(r), playerID, req.Word, req.Number)
	})
}

// handleSelectWord handles POST /api/v1/games/{gameID}/select.
func (s *Server) handleSelectWord(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WordIndex int `json:"wordIndex"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	s.playerCommand(w, r, func(playerID string) error {
		return s.games.SelectWord(r.Context(), gameID(r), playerID, req.WordIndex)
	})
}

// handleHighlightWord handles POST /api/v1/games/{gameID}/highlight.
func (s *Server) handleHighlightWord(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WordIndex int `json:"wordIndex"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	s.playerCommand(w, r, func(playerID string) error {
		return s.games.HighlightWord(r.Context(), gameID(r), playerID, req.WordIndex)
	})
}

// handleUnhighlightWord handles
// DELETE /api/v1/games/{gameID}/highlight/{wordIndex}.
func (s *Server) handleUnhighlightWord(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(chi.URLParam(r, "wordIndex"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed word index", nil)
		return
	}
	s.playerCommand(w, r, func(playerID string) error {
		return s.games.UnhighlightWord(r.Context(), gameID(r), playerID, idx)
	})
}

// handlePassTurn handles POST /api/v1/games/{gameID}/pass.
func (s *Server) handlePassTurn(w http.ResponseWriter, r *http.Request) {
	s.playerCommand(w, r, func(playerID string) error {
		return s.games.PassTurn(r.Context(), gameID(r), playerID)
	})
}

// handleRestartGame handles POST /api/v1/games/{gameID}/restart.
func (s *Server) handleRestartGame(w http.ResponseWriter, r *http.Request) {
	s.playerCommand(w, r, func(playerID string) error {
		return s.games.RestartGame(r.Context(), gameID(r), playerID)
	})
}

// handleChat handles POST /api/v1/games/{gameID}/chat.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	s.playerCommand(w, r, func(playerID string) error {
		return s.games.SendChatMessage(r.Context(), gameID(r), playerID, req.Content)
	})
}

// handleTimeline handles GET /api/v1/games/{gameID}/timeline.
func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	q := app.TimelineQuery{
		GameID:   gameID(r),
		ViewerID: r.Header.Get(playerHeader),
	}
	if v := r.URL.Query().Get("roundId"); v != "" {
		q.RoundID = &v
	}
	if v := r.URL.Query().Get("cursor"); v != "" {
		q.Cursor = &v
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			writeError(w, http.StatusBadRequest, "malformed limit", nil)
			return
		}
		q.Limit = limit
	}

	page, err := s.games.GetTimeline(r.Context(), q)
	if err != nil {
		writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// playerCommand runs a command that needs an authenticated player and, on
// success, returns the actor's fresh view of the game.
func (s *Server) playerCommand(w http.ResponseWriter, r *http.Request, run func(playerID string) error) {
	playerID, err := requirePlayer(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if err := run(playerID); err != nil {
		writeCommandError(w, err)
		return
	}
	view, err := s.games.GetGameState(r.Context(), gameID(r), playerID)
	if err != nil {
		writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
