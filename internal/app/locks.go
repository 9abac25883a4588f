package app

import "sync"

// gameLocks serializes commands per game id. Holding the lock for the whole
// load, decide, append cycle guarantees no two accepted actions for the same
// game are decided against the same stale snapshot.
type gameLocks struct {
	mu    sync.Mutex
	locks map[string]*gameLock
}

type gameLock struct {
	mu   sync.Mutex
	refs int
}

// Lock acquires the lock for gameID and returns the matching unlock func.
// Entries are reference counted so idle games do not accumulate.
func (g *gameLocks) Lock(gameID string) func() {
	g.mu.Lock()
	if g.locks == nil {
		g.locks = make(map[string]*gameLock)
	}
	l, ok := g.locks[gameID]
	if !ok {
		l = &gameLock{}
		g.locks[gameID] = l
	}
	l.refs++
	g.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		g.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(g.locks, gameID)
		}
		g.mu.Unlock()
	}
}
