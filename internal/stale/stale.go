// Package stale stamps asynchronous loads so that a response belonging to a
// superseded request can be recognised and dropped.
package stale

import (
	"errors"
	"fmt"
	"sync"
)

// Ticket identifies one load. The zero Ticket is never current.
type Ticket uint64

// Guard hands out increasing tickets. Only the most recent one is current.
// The zero value is ready to use and safe for concurrent use.
type Guard struct {
	mu   sync.Mutex
	last Ticket
}

// Begin starts a new load and supersedes every earlier ticket.
func (g *Guard) Begin() Ticket {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.last++
	return g.last
}

// IsCurrent reports whether t is still the latest ticket.
func (g *Guard) IsCurrent(t Ticket) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return t != 0 && t == g.last
}

// Invalidate supersedes all outstanding tickets without starting a load.
func (g *Guard) Invalidate() {
	g.mu.Lock()
	g.last++
	g.mu.Unlock()
}

// ErrSuperseded is returned by loaders whose response arrived after a newer
// load had started. The result was discarded and callers should not render it.
var ErrSuperseded = errors.New("load superseded by a newer request")

// ErrRefreshFailed wraps the reload error that follows a change the server
// accepted. The change itself must not be repeated.
var ErrRefreshFailed = errors.New("change saved but the views could not be reloaded")

// AfterChange marks err as a failed follow-up reload. Nil stays nil.
func AfterChange(err error) error {
	if err == nil || errors.Is(err, ErrRefreshFailed) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrRefreshFailed, err)
}
