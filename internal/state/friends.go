package state

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/text/language"

	"github.com/tartampluch/go-congrats/internal/collection"
	"github.com/tartampluch/go-congrats/internal/config"
	"github.com/tartampluch/go-congrats/internal/datemath"
	"github.com/tartampluch/go-congrats/internal/model"
	"github.com/tartampluch/go-congrats/internal/stale"
)

// FriendsSource fetches the whole collection.
type FriendsSource interface {
	AllFriends(ctx context.Context) ([]model.Record, error)
}

// Friends is the friends table: the loaded collection and its view state.
// It is safe for concurrent use.
type Friends struct {
	source FriendsSource
	clock  datemath.Clock
	lang   language.Tag

	mu     sync.Mutex
	guard  stale.Guard
	state  collection.State
	loaded bool
}

// NewFriends returns an empty table. pageSize <= 0 selects the default.
func NewFriends(source FriendsSource, clock datemath.Clock, lang language.Tag, pageSize int) *Friends {
	if pageSize <= 0 {
		pageSize = collection.DefaultPageSize
	}
	return &Friends{
		source: source,
		clock:  clock,
		lang:   lang,
		state:  collection.NewState(pageSize),
	}
}

func (f *Friends) view() collection.View {
	return collection.View{Today: datemath.Today(f.clock), Lang: f.lang}
}

// Reload fetches the collection. Query and page survive, the page being
// clamped to the new data. On failure the previous records are kept.
func (f *Friends) Reload(ctx context.Context) (collection.Result, error) {
	f.mu.Lock()
	ticket := f.guard.Begin()
	f.mu.Unlock()

	records, err := f.source.AllFriends(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.guard.IsCurrent(ticket) {
		return collection.Result{}, stale.ErrSuperseded
	}
	if err != nil {
		slog.Warn(config.MsgFriendsFailed,
			config.LogKeyComponent, config.CompFriends,
			config.LogKeyError, err)
		return collection.Result{}, fmt.Errorf("%s: %w", config.ErrLoadFriends, err)
	}

	next, err := collection.Reduce(f.state, collection.SetRecords{Records: records})
	if err != nil {
		return collection.Result{}, err
	}
	f.state = next
	f.loaded = true

	slog.Debug(config.MsgFriendsLoaded,
		config.LogKeyComponent, config.CompFriends,
		config.LogKeyCount, len(records))
	return f.state.Apply(f.view())
}

// Dispatch applies a table action and returns the new page.
// A rejected action leaves the table unchanged.
func (f *Friends) Dispatch(a collection.Action) (collection.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	next, err := collection.Reduce(f.state, a)
	if err != nil {
		return collection.Result{}, err
	}
	f.state = next
	return f.state.Apply(f.view())
}

// Result recomputes the current page, for instance after the day changed.
func (f *Friends) Result() (collection.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.Apply(f.view())
}

// Query returns the current query.
func (f *Friends) Query() collection.Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.Query
}

// Loaded reports whether a reload has succeeded at least once.
func (f *Friends) Loaded() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loaded
}

// Stats summarises the whole collection regardless of the query.
func (f *Friends) Stats() collection.Summary {
	f.mu.Lock()
	defer f.mu.Unlock()
	return collection.Summarize(f.state.Records, datemath.Today(f.clock))
}

// Records returns a copy of the loaded collection.
func (f *Friends) Records() []model.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.state.Records)
}

// Record looks a loaded record up by id.
func (f *Friends) Record(id int64) (model.Record, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := slices.IndexFunc(f.state.Records, func(r model.Record) bool { return r.ID == id })
	if i < 0 {
		return model.Record{}, false
	}
	return f.state.Records[i], true
}
