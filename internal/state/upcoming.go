package state

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tartampluch/go-congrats/internal/api"
	"github.com/tartampluch/go-congrats/internal/config"
	"github.com/tartampluch/go-congrats/internal/datemath"
	"github.com/tartampluch/go-congrats/internal/model"
	"github.com/tartampluch/go-congrats/internal/stale"
)

// MaxPageLinks is the width of the upcoming list's page number window.
const MaxPageLinks = 5

// UpcomingSource serves the server-paged upcoming list.
type UpcomingSource interface {
	ListFriends(ctx context.Context, page, size int) (api.Listing, error)
}

// UpcomingItem is a row of the upcoming list.
type UpcomingItem struct {
	model.Record

	// Days until the next birthday; meaningless when Known is false.
	Days      int
	Known     bool
	Proximity datemath.Proximity
}

// UpcomingPage is one loaded page.
type UpcomingPage struct {
	Page       int
	TotalPages int
	Items      []UpcomingItem
}

// HasPrev reports whether a previous page exists.
func (p UpcomingPage) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a next page exists.
func (p UpcomingPage) HasNext() bool { return p.Page < p.TotalPages }

// PageNumbers returns the page links to show, at most MaxPageLinks wide and
// centred on the current page where possible. One page shows no links.
func (p UpcomingPage) PageNumbers() []int {
	return PageWindow(p.Page, p.TotalPages, MaxPageLinks)
}

// PageWindow returns up to width consecutive pages around page.
func PageWindow(page, total, width int) []int {
	if total <= 1 || width <= 0 {
		return nil
	}
	start := max(1, page-width/2)
	end := min(total, start+width-1)
	if end-start+1 < width {
		start = max(1, end-width+1)
	}

	out := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		out = append(out, i)
	}
	return out
}

// Upcoming is the main page's list of the next birthdays.
// It is safe for concurrent use.
type Upcoming struct {
	source UpcomingSource
	clock  datemath.Clock
	size   int

	mu      sync.Mutex
	guard   stale.Guard
	current UpcomingPage
}

// NewUpcoming returns an empty list. size <= 0 selects the default.
func NewUpcoming(source UpcomingSource, clock datemath.Clock, size int) *Upcoming {
	if size <= 0 {
		size = config.UpcomingPageSize
	}
	return &Upcoming{
		source:  source,
		clock:   clock,
		size:    size,
		current: UpcomingPage{Page: 1, TotalPages: 1},
	}
}

// Page returns the last loaded page.
func (u *Upcoming) Page() UpcomingPage {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.current
}

// Load fetches a page. Pages outside [1, TotalPages] of the last load are
// refused without a request.
func (u *Upcoming) Load(ctx context.Context, page int) (UpcomingPage, error) {
	u.mu.Lock()
	if page < 1 || page > max(u.current.TotalPages, 1) {
		cur := u.current
		u.mu.Unlock()
		return cur, nil
	}
	ticket := u.guard.Begin()
	u.mu.Unlock()

	listing, err := u.source.ListFriends(ctx, page, u.size)

	u.mu.Lock()
	defer u.mu.Unlock()

	if !u.guard.IsCurrent(ticket) {
		return u.current, stale.ErrSuperseded
	}
	if err != nil {
		slog.Warn(config.MsgUpcomingFailed,
			config.LogKeyComponent, config.CompUpcoming,
			config.LogKeyPage, page,
			config.LogKeyError, err)
		return u.current, fmt.Errorf("%s: %w", config.ErrLoadUpcoming, err)
	}

	today := datemath.Today(u.clock)
	items := make([]UpcomingItem, len(listing.Records))
	for i, r := range listing.Records {
		items[i] = UpcomingItem{Record: r}
		if days, ok := r.DaysUntilBirthday(today); ok {
			items[i].Days = days
			items[i].Known = true
			items[i].Proximity = datemath.Classify(days)
		} else {
			items[i].Proximity = datemath.ProximityFuture
		}
	}

	u.current = UpcomingPage{
		Page:       page,
		TotalPages: max(listing.TotalPages, 1),
		Items:      items,
	}
	return u.current, nil
}

// Step moves by delta pages. Moves past either end do nothing.
func (u *Upcoming) Step(ctx context.Context, delta int) (UpcomingPage, error) {
	cur := u.Page()
	next := cur.Page + delta
	if next < 1 || next > cur.TotalPages {
		return cur, nil
	}
	return u.Load(ctx, next)
}

// Reload fetches the current page again.
func (u *Upcoming) Reload(ctx context.Context) (UpcomingPage, error) {
	return u.Load(ctx, u.Page().Page)
}
