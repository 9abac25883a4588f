// Package api provides the HTTP and SSE transport.
package api

import (
	"log/slog"
	"sync"

	"github.com/soliade/codenames/internal/app"
)

const (
	defaultSubscriberBufferSize = 16
	defaultBroadcastBufferSize  = 64
)

// Subscriber represents one SSE client connection to a game room.
type Subscriber struct {
	gameID string
	notes  chan app.Notification
	done   chan struct{}
}

// Notifications returns the channel for receiving game notifications.
func (s *Subscriber) Notifications() <-chan app.Notification {
	return s.notes
}

// Done returns a channel that is closed when the subscriber is removed.
func (s *Subscriber) Done() <-chan struct{} {
	return s.done
}

type publication struct {
	gameID string
	note   app.Notification
}

// Hub fans game notifications out to per-game rooms of SSE subscribers.
// A single goroutine owns the room registry; registration, removal, and
// broadcast all go through its channels.
type Hub struct {
	register   chan *Subscriber
	unregister chan *Subscriber
	broadcast  chan publication
	stop       chan struct{}
	stopped    chan struct{}
	stopOnce   sync.Once

	subscriberBufferSize int
	logger               *slog.Logger
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithHubSubscriberBufferSize sets the buffer size for subscriber channels.
func WithHubSubscriberBufferSize(size int) HubOption {
	return func(h *Hub) {
		if size > 0 {
			h.subscriberBufferSize = size
		}
	}
}

// WithHubLogger sets the logger for the Hub.
func WithHubLogger(logger *slog.Logger) HubOption {
	return func(h *Hub) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHub creates a new SSE hub. Call Run() to start its event loop.
func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		register:             make(chan *Subscriber),
		unregister:           make(chan *Subscriber),
		broadcast:            make(chan publication, defaultBroadcastBufferSize),
		stop:                 make(chan struct{}),
		stopped:              make(chan struct{}),
		subscriberBufferSize: defaultSubscriberBufferSize,
		logger:               slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run starts the hub's event loop. It blocks until Stop() is called and
// should run in its own goroutine: go hub.Run()
func (h *Hub) Run() {
	rooms := make(map[string]map[*Subscriber]struct{})
	defer close(h.stopped)

	for {
		select {
		case sub := <-h.register:
			room := rooms[sub.gameID]
			if room == nil {
				room = make(map[*Subscriber]struct{})
				rooms[sub.gameID] = room
			}
			room[sub] = struct{}{}
			h.logger.Debug("subscriber registered", "game_id", sub.gameID, "room_size", len(room))

		case sub := <-h.unregister:
			room := rooms[sub.gameID]
			if _, ok := room[sub]; ok {
				delete(room, sub)
				if len(room) == 0 {
					delete(rooms, sub.gameID)
				}
				close(sub.done)
				close(sub.notes)
				h.logger.Debug("subscriber unregistered", "game_id", sub.gameID, "room_size", len(room))
			}

		case p := <-h.broadcast:
			for sub := range rooms[p.gameID] {
				select {
				case sub.notes <- p.note:
				default:
					// Channel full, drop for this subscriber. The client
					// recovers by refetching state.
					h.logger.Warn("subscriber channel full, notification dropped", "game_id", p.gameID)
				}
			}

		case <-h.stop:
			for _, room := range rooms {
				for sub := range room {
					close(sub.done)
					close(sub.notes)
				}
			}
			return
		}
	}
}

// Stop stops the hub's event loop and blocks until it has fully stopped.
// Safe to call multiple times.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.stop)
	})
	<-h.stopped
}

// Subscribe joins the room for gameID. The caller must call Unsubscribe
// when done.
func (h *Hub) Subscribe(gameID string) *Subscriber {
	sub := &Subscriber{
		gameID: gameID,
		notes:  make(chan app.Notification, h.subscriberBufferSize),
		done:   make(chan struct{}),
	}

	select {
	case h.register <- sub:
		return sub
	case <-h.stopped:
		close(sub.done)
		close(sub.notes)
		return sub
	}
}

// Unsubscribe removes a subscriber from its room.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	if sub == nil {
		return
	}

	select {
	case h.unregister <- sub:
	case <-h.stopped:
	}
}

// Publish sends a notification to every subscriber of the game's room.
// Non-blocking: if the broadcast channel is full, the notification is
// dropped rather than stalling the originating command.
func (h *Hub) Publish(gameID string, n app.Notification) {
	select {
	case h.broadcast <- publication{gameID: gameID, note: n}:
	case <-h.stopped:
	default:
		h.logger.Warn("broadcast channel full, notification dropped", "game_id", gameID)
	}
}
