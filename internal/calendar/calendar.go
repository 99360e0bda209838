package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tartampluch/go-congrats/internal/config"
	"github.com/tartampluch/go-congrats/internal/datemath"
	"github.com/tartampluch/go-congrats/internal/stale"
)

// DayDataSource answers the range query behind a grid.
type DayDataSource interface {
	DayData(ctx context.Context, start, end datemath.Date) (DaySeries, error)
}

// Calendar is the month view controller. It owns the anchor month, the
// selected day and the statuses of the last successful query.
// It is safe for concurrent use.
type Calendar struct {
	source  DayDataSource
	clock   datemath.Clock
	builder Builder

	mu       sync.Mutex
	guard    stale.Guard
	year     int
	month    time.Month
	selected datemath.Date
	statuses map[string]DayStatus
}

// New returns a calendar anchored on today's month with today selected.
func New(source DayDataSource, clock datemath.Clock, builder Builder) *Calendar {
	today := datemath.Today(clock)
	return &Calendar{
		source:   source,
		clock:    clock,
		builder:  builder,
		year:     today.Year,
		month:    today.Month,
		selected: today,
	}
}

// Grid returns the grid for the current anchor, selection and statuses.
func (c *Calendar) Grid() Grid {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gridLocked()
}

// Selected returns the selected day.
func (c *Calendar) Selected() datemath.Date {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

// Load regenerates the grid and issues one range query for it.
// On failure the grid keeps empty statuses and the error is returned.
// A response overtaken by a newer Load returns stale.ErrSuperseded.
func (c *Calendar) Load(ctx context.Context) (Grid, error) {
	c.mu.Lock()
	ticket := c.guard.Begin()
	c.statuses = nil
	start, end := c.builder.Range(c.year, c.month)
	c.mu.Unlock()

	log := slog.With(config.LogKeyComponent, config.CompCalendar)
	log.DebugContext(ctx, config.MsgCalendarLoad,
		config.LogKeyStart, start.String(),
		config.LogKeyEnd, end.String())

	series, err := c.source.DayData(ctx, start, end)

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.guard.IsCurrent(ticket) {
		log.Debug(config.MsgStaleDropped, config.LogKeyStart, start.String())
		return c.gridLocked(), stale.ErrSuperseded
	}
	if err != nil {
		log.Warn(config.MsgCalendarFailed, config.LogKeyError, err)
		return c.gridLocked(), fmt.Errorf("%s: %w", config.ErrDayData, err)
	}

	c.statuses = Merge(series)
	return c.gridLocked(), nil
}

// PrevMonth moves the anchor back one month and reloads.
func (c *Calendar) PrevMonth(ctx context.Context) (Grid, error) {
	c.shift(-1)
	return c.Load(ctx)
}

// NextMonth moves the anchor forward one month and reloads.
func (c *Calendar) NextMonth(ctx context.Context) (Grid, error) {
	c.shift(1)
	return c.Load(ctx)
}

// ShowToday anchors on today's month and selects today without querying.
func (c *Calendar) ShowToday() (Grid, datemath.Date) {
	today := datemath.Today(c.clock)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.year != today.Year || c.month != today.Month {
		c.year, c.month = today.Year, today.Month
		c.statuses = nil
		c.guard.Invalidate()
	}
	c.selected = today
	return c.gridLocked(), today
}

// GoToday is ShowToday followed by Load.
func (c *Calendar) GoToday(ctx context.Context) (Grid, error) {
	c.ShowToday()
	return c.Load(ctx)
}

// Select marks d as the selected day. Only days of the displayed month can be
// selected; for other days it returns false and nothing changes.
// No query is issued.
func (c *Calendar) Select(d datemath.Date) (Grid, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d.Year != c.year || d.Month != c.month {
		return c.gridLocked(), false
	}
	c.selected = d
	return c.gridLocked(), true
}

func (c *Calendar) shift(months int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	anchor := time.Date(c.year, c.month+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	c.year, c.month = anchor.Year(), anchor.Month()
}

func (c *Calendar) gridLocked() Grid {
	return c.builder.Build(c.year, c.month, datemath.Today(c.clock), c.selected, c.statuses)
}
