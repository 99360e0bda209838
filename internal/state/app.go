package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"github.com/tartampluch/go-congrats/internal/calendar"
	"github.com/tartampluch/go-congrats/internal/config"
	"github.com/tartampluch/go-congrats/internal/datemath"
	"github.com/tartampluch/go-congrats/internal/daydetail"
	"github.com/tartampluch/go-congrats/internal/form"
	"github.com/tartampluch/go-congrats/internal/model"
	"github.com/tartampluch/go-congrats/internal/stale"
)

// ErrOutsideMonth is returned when selecting a day the calendar does not show
// as part of its month.
var ErrOutsideMonth = errors.New(config.ErrOutsideMonth)

// Backend is everything the views need from the server.
type Backend interface {
	FriendsSource
	UpcomingSource
	calendar.DayDataSource
	daydetail.Source

	GetFriend(ctx context.Context, id int64) (model.Record, error)
	Image(ctx context.Context, ref string) ([]byte, error)

	CreateFriend(ctx context.Context, s form.Submission) error
	UpdateFriend(ctx context.Context, s form.Submission) error
	DeleteFriend(ctx context.Context, id int64) error
}

// Options sizes the views.
type Options struct {
	Lang         language.Tag
	PageSize     int
	UpcomingSize int
	WeekStart    time.Weekday
}

// DefaultOptions returns Russian collation, default page sizes and
// Monday-first weeks.
func DefaultOptions() Options {
	return Options{
		Lang:      language.Russian,
		WeekStart: time.Monday,
	}
}

// App ties the views together. Each view guards its own state; App only
// sequences the loads an action needs.
type App struct {
	Friends  *Friends
	Upcoming *Upcoming
	Calendar *calendar.Calendar
	Panel    *daydetail.Panel

	backend Backend
	clock   datemath.Clock

	// mutations are serialised so refreshes see them in order
	mu sync.Mutex
}

// New builds the views on top of backend. Nothing is loaded yet.
func New(backend Backend, clock datemath.Clock, opts Options) *App {
	return &App{
		Friends:  NewFriends(backend, clock, opts.Lang, opts.PageSize),
		Upcoming: NewUpcoming(backend, clock, opts.UpcomingSize),
		Calendar: calendar.New(backend, clock, calendar.Builder{WeekStart: opts.WeekStart}),
		Panel:    daydetail.NewPanel(backend, clock),
		backend:  backend,
		clock:    clock,
	}
}

// Today returns the current day of the app's clock.
func (a *App) Today() datemath.Date {
	return datemath.Today(a.clock)
}

// Refresh reloads every view at once. Failures are joined; a view overtaken
// by a newer load is not a failure.
func (a *App) Refresh(ctx context.Context) error {
	return parallel(
		func() error { _, err := a.Friends.Reload(ctx); return err },
		func() error { _, err := a.Upcoming.Reload(ctx); return err },
		func() error { _, err := a.Calendar.Load(ctx); return err },
		func() error { _, err := a.Panel.Reload(ctx); return err },
	)
}

// SelectDay selects d on the calendar and loads its panel. The selection
// changes right away; the panel follows when its request completes.
func (a *App) SelectDay(ctx context.Context, d datemath.Date) error {
	if _, ok := a.Calendar.Select(d); !ok {
		return fmt.Errorf("%w: %s", ErrOutsideMonth, d)
	}
	_, err := a.Panel.Load(ctx, d)
	return ignoreSuperseded(err)
}

// GoToday anchors the calendar on today, selects it and reloads both the
// grid and the panel concurrently.
func (a *App) GoToday(ctx context.Context) error {
	_, today := a.Calendar.ShowToday()
	return parallel(
		func() error { _, err := a.Calendar.Load(ctx); return err },
		func() error { _, err := a.Panel.Load(ctx, today); return err },
	)
}

// PrevMonth and NextMonth move the calendar. The selection and panel stay.
func (a *App) PrevMonth(ctx context.Context) (calendar.Grid, error) {
	g, err := a.Calendar.PrevMonth(ctx)
	return g, ignoreSuperseded(err)
}

func (a *App) NextMonth(ctx context.Context) (calendar.Grid, error) {
	g, err := a.Calendar.NextMonth(ctx)
	return g, ignoreSuperseded(err)
}

// Congratulate greets a record of today's panel and refreshes the calendar
// so the day's status follows. Once the greeting is stored, reload failures
// come back wrapped in stale.ErrRefreshFailed.
func (a *App) Congratulate(ctx context.Context, friendID int64) error {
	err := a.Panel.Congratulate(ctx, friendID)
	if err != nil && !errors.Is(err, stale.ErrRefreshFailed) {
		return err
	}
	_, cerr := a.Calendar.Load(ctx)
	return stale.AfterChange(errors.Join(err, ignoreSuperseded(cerr)))
}

// LoadFriend fetches the current server copy of a record for editing.
func (a *App) LoadFriend(ctx context.Context, id int64) (model.Record, error) {
	r, err := a.backend.GetFriend(ctx, id)
	if err != nil {
		return model.Record{}, fmt.Errorf("%s: %w", config.ErrLoadFriend, err)
	}
	return r, nil
}

// Avatar downloads the image of a record.
func (a *App) Avatar(ctx context.Context, r model.Record) ([]byte, error) {
	return a.backend.Image(ctx, r.ImageRef)
}

// SaveFriend validates f, creates or updates it and refreshes every view.
// Validation failures are returned as *form.ValidationError before any
// request; server-side ones come back the same way. A failed refresh after
// the save is wrapped in stale.ErrRefreshFailed.
func (a *App) SaveFriend(ctx context.Context, f form.FriendForm) error {
	sub, err := f.Validate(a.Today())
	if err != nil {
		return err
	}

	a.mu.Lock()
	if sub.IsUpdate() {
		err = a.backend.UpdateFriend(ctx, sub)
	} else {
		err = a.backend.CreateFriend(ctx, sub)
	}
	a.mu.Unlock()
	if err != nil {
		return err
	}

	slog.Info(config.MsgFriendSaved,
		config.LogKeyComponent, config.CompApp,
		config.LogKeyFriendID, sub.ID)
	return stale.AfterChange(a.Refresh(ctx))
}

// DeleteFriend removes a record and refreshes every view, like SaveFriend.
func (a *App) DeleteFriend(ctx context.Context, id int64) error {
	a.mu.Lock()
	err := a.backend.DeleteFriend(ctx, id)
	a.mu.Unlock()
	if err != nil {
		return err
	}

	slog.Info(config.MsgFriendDeleted,
		config.LogKeyComponent, config.CompApp,
		config.LogKeyFriendID, id)
	return stale.AfterChange(a.Refresh(ctx))
}

// ImportResult counts the outcome of ImportFriends.
type ImportResult struct {
	Created int
	Invalid int
	Failed  int
}

// ImportFriends creates a record per form. Forms failing validation are
// counted and skipped; the views are refreshed once at the end.
func (a *App) ImportFriends(ctx context.Context, forms []form.FriendForm) (ImportResult, error) {
	var res ImportResult
	var errs []error
	today := a.Today()

	a.mu.Lock()
	for _, f := range forms {
		if err := ctx.Err(); err != nil {
			a.mu.Unlock()
			return res, err
		}
		f.ID = 0
		sub, err := f.Validate(today)
		if err != nil {
			res.Invalid++
			continue
		}
		if err := a.backend.CreateFriend(ctx, sub); err != nil {
			res.Failed++
			errs = append(errs, err)
			continue
		}
		res.Created++
	}
	a.mu.Unlock()

	slog.Info(config.MsgImportDone,
		config.LogKeyComponent, config.CompApp,
		config.LogKeyCount, res.Created,
		config.LogKeySkipped, res.Invalid+res.Failed)

	if res.Created > 0 {
		errs = append(errs, stale.AfterChange(a.Refresh(ctx)))
	}
	return res, errors.Join(errs...)
}

// parallel runs fns concurrently and joins their errors, dropping
// stale.ErrSuperseded.
func parallel(fns ...func() error) error {
	errs := make([]error, len(fns))
	var g errgroup.Group
	for i, fn := range fns {
		g.Go(func() error {
			errs[i] = ignoreSuperseded(fn())
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

func ignoreSuperseded(err error) error {
	if errors.Is(err, stale.ErrSuperseded) {
		return nil
	}
	return err
}
