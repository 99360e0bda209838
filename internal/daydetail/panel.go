package daydetail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/tartampluch/go-congrats/internal/config"
	"github.com/tartampluch/go-congrats/internal/datemath"
	"github.com/tartampluch/go-congrats/internal/model"
	"github.com/tartampluch/go-congrats/internal/stale"
)

var (
	ErrNotToday             = errors.New(config.ErrNotToday)
	ErrUnknownRecord        = errors.New(config.ErrUnknownRecord)
	ErrAlreadyCongratulated = errors.New(config.ErrAlreadyCongrats)
	ErrInFlight             = errors.New(config.ErrCongratsInFlight)
)

// Source is the backend side of the panel.
type Source interface {
	// FriendsByDate lists the records whose birthday falls on date.
	FriendsByDate(ctx context.Context, date datemath.Date) ([]model.DayEntry, error)

	// CreateCongratulation records a greeting and returns the day the server
	// stored it under, or the zero Date when the server did not say.
	CreateCongratulation(ctx context.Context, friendID int64, date datemath.Date) (datemath.Date, error)
}

// Panel lists the records of one selected day with their greeting state.
// It is safe for concurrent use.
type Panel struct {
	source Source
	clock  datemath.Clock

	mu      sync.Mutex
	guard   stale.Guard
	date    datemath.Date
	entries []model.DayEntry
	pending map[int64]bool
}

// NewPanel returns a panel showing today. Nothing is loaded yet.
func NewPanel(source Source, clock datemath.Clock) *Panel {
	return &Panel{
		source:  source,
		clock:   clock,
		date:    datemath.Today(clock),
		pending: make(map[int64]bool),
	}
}

// Date returns the day the panel shows.
func (p *Panel) Date() datemath.Date {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.date
}

// IsToday reports whether the panel shows the current day.
func (p *Panel) IsToday() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.date == datemath.Today(p.clock)
}

// Entries returns a copy of the loaded entries.
func (p *Panel) Entries() []model.DayEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.entries)
}

// CanCongratulate reports whether the greet action is offered for e: only on
// today's panel, for a record not yet greeted and not being greeted.
func (p *Panel) CanCongratulate(e model.DayEntry) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.date == datemath.Today(p.clock) && !e.Congratulated && !p.pending[e.Record.ID]
}

// Load shows date and fetches its records. The previous entries are cleared
// right away. A response overtaken by a newer load returns stale.ErrSuperseded.
func (p *Panel) Load(ctx context.Context, date datemath.Date) ([]model.DayEntry, error) {
	p.mu.Lock()
	ticket := p.guard.Begin()
	p.date = date
	p.entries = nil
	p.mu.Unlock()

	entries, err := p.source.FriendsByDate(ctx, date)

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.guard.IsCurrent(ticket) {
		return nil, stale.ErrSuperseded
	}
	if err != nil {
		slog.Warn(config.MsgPanelFailed,
			config.LogKeyComponent, config.CompDetail,
			config.LogKeyDate, date.String(),
			config.LogKeyError, err)
		return nil, fmt.Errorf("%s: %w", config.ErrFriendsByDate, err)
	}

	p.entries = slices.Clone(entries)
	return entries, nil
}

// Reload fetches the shown day again.
func (p *Panel) Reload(ctx context.Context) ([]model.DayEntry, error) {
	return p.Load(ctx, p.Date())
}

// Congratulate greets a record of today's panel.
//
// Preconditions are checked before any request: the panel must show today and
// the record must be listed, not greeted and not already being greeted.
// On success the entry is marked in place when the server stored the greeting
// under the same day; otherwise the panel is reloaded, and a failed reload is
// returned wrapped in stale.ErrRefreshFailed. On failure the panel is left as
// it was.
func (p *Panel) Congratulate(ctx context.Context, friendID int64) error {
	today := datemath.Today(p.clock)

	p.mu.Lock()
	if p.date != today {
		p.mu.Unlock()
		return ErrNotToday
	}
	idx := p.indexLocked(friendID)
	switch {
	case idx < 0:
		p.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrUnknownRecord, friendID)
	case p.entries[idx].Congratulated:
		p.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrAlreadyCongratulated, friendID)
	case p.pending[friendID]:
		p.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrInFlight, friendID)
	}
	p.pending[friendID] = true
	p.mu.Unlock()

	log := slog.With(
		config.LogKeyComponent, config.CompDetail,
		config.LogKeyFriendID, friendID)

	serverDate, err := p.source.CreateCongratulation(ctx, friendID, today)

	p.mu.Lock()
	delete(p.pending, friendID)
	if err != nil {
		p.mu.Unlock()
		log.Warn(config.MsgCongratsFailed, config.LogKeyError, err)
		return fmt.Errorf("%s: %w", config.ErrCongratulate, err)
	}
	log.Info(config.MsgCongratsSent, config.LogKeyDate, serverDate.String())

	if p.date != today {
		// The user moved to another day meanwhile; that panel is unaffected.
		p.mu.Unlock()
		return nil
	}
	if serverDate == today {
		if idx := p.indexLocked(friendID); idx >= 0 {
			p.entries[idx].Congratulated = true
			p.mu.Unlock()
			return nil
		}
	}
	p.mu.Unlock()

	log.Debug(config.MsgPanelReconcile, config.LogKeyDate, serverDate.String())
	if _, err := p.Reload(ctx); err != nil && !errors.Is(err, stale.ErrSuperseded) {
		return stale.AfterChange(err)
	}
	return nil
}

func (p *Panel) indexLocked(friendID int64) int {
	return slices.IndexFunc(p.entries, func(e model.DayEntry) bool {
		return e.Record.ID == friendID
	})
}
