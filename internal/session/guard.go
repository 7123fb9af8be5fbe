// Package session tracks the single in-flight conversational turn. The
// assistant is single-session per process: a second trigger while a turn is
// being processed is a no-op.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrBusy is returned when a turn is already in flight.
var ErrBusy = errors.New("a turn is already in progress")

// Guard is the re-entrancy gate for turn processing.
type Guard struct {
	mu        sync.Mutex
	busy      bool
	turnID    string
	startedAt time.Time
	turns     uint64
}

func NewGuard() *Guard { return &Guard{} }

// TryBegin claims the turn slot and returns a fresh turn ID, or ErrBusy when
// another turn holds it.
func (g *Guard) TryBegin() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.busy {
		return "", ErrBusy
	}
	g.busy = true
	g.turnID = uuid.NewString()
	g.startedAt = time.Now()
	g.turns++
	return g.turnID, nil
}

// End releases the turn slot. Ending a turn that is not current is ignored,
// so a late End after a no-op TryBegin cannot free someone else's slot.
func (g *Guard) End(turnID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.busy || g.turnID != turnID {
		return
	}
	g.busy = false
	g.turnID = ""
}

// Busy reports whether a turn is in flight.
func (g *Guard) Busy() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.busy
}

// Turns returns the number of turns started since process start.
func (g *Guard) Turns() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.turns
}
