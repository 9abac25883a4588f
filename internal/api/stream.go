package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/soliade/codenames/internal/app"
)

// heartbeatInterval is the interval for sending SSE heartbeat comments.
const heartbeatInterval = 20 * time.Second

// handleStream handles GET /api/v1/games/{gameID}/stream (SSE). The viewer
// joins the game's room and receives a state snapshot followed by every
// notification, each redacted for that viewer before it leaves the server.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported", nil)
		return
	}

	id := gameID(r)
	viewerID := r.Header.Get(playerHeader)
	if viewerID == "" {
		// EventSource cannot set headers; allow the id as a query param.
		viewerID = r.URL.Query().Get("playerId")
	}

	// Snapshot before subscribing so a missing game fails with a normal
	// error response instead of a broken stream.
	view, err := s.games.GetGameState(r.Context(), id, viewerID)
	if err != nil {
		writeCommandError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // disable nginx buffering

	sub := s.hub.Subscribe(id)
	defer s.hub.Unsubscribe(sub)

	fmt.Fprintf(w, ": connected\n\n")
	writeSSE(w, "state", view)
	flusher.Flush()

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	ctx := r.Context()

	for {
		select {
		case n, ok := <-sub.Notifications():
			if !ok {
				return
			}
			writeNotification(w, n, viewerID)
			flusher.Flush()

		case <-ticker.C:
			fmt.Fprintf(w, ":\n\n")
			flusher.Flush()

		case <-ctx.Done():
			return

		case <-sub.Done():
			return
		}
	}
}

// writeNotification writes one broadcast as SSE frames: the events that
// happened, then the resulting state, both redacted for the viewer.
func writeNotification(w http.ResponseWriter, n app.Notification, viewerID string) {
	seeResults := app.CanSeeResults(n.State, viewerID)
	for _, e := range n.Events {
		writeSSE(w, "timeline", app.NewTimelineItem(e, seeResults))
	}
	writeSSE(w, "state", app.RedactedView(n.State, viewerID))
}

// writeSSE writes a single SSE frame.
func writeSSE(w http.ResponseWriter, eventName string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\n", eventName)
	fmt.Fprintf(w, "data: %s\n\n", data)
}
