package collection

import (
	"fmt"
	"strings"

	"github.com/tartampluch/go-congrats/internal/model"
)

// State is the friends table's view state.
// It is a value; Reduce returns a new one and never mutates its input.
type State struct {
	Records []model.Record
	Query   Query
}

// NewState returns an empty table state with the default query.
func NewState(pageSize int) State {
	return State{Query: DefaultQuery(pageSize)}
}

// Action is a user or data event that changes State.
type Action interface {
	apply(s State) (State, error)
}

// SetRecords replaces the record set after a (re)load. Query and page are
// kept, the page being clamped to the new data.
type SetRecords struct{ Records []model.Record }

// SetQuery changes the search text. The page resets when the trimmed text changes.
type SetQuery struct{ Text string }

// SortBy selects a column. The active column flips direction and keeps the
// page; another column sorts ascending from the first page.
type SortBy struct{ Key SortKey }

// SetPageSize changes the rows per page and resets to the first page.
type SetPageSize struct{ Size int }

// GoToPage jumps to a page; out-of-range values are clamped.
type GoToPage struct{ Page int }

// StepPage moves by Delta pages; out-of-range values are clamped.
type StepPage struct{ Delta int }

// Reduce applies a to s and clamps the page to the filtered data.
// On error the returned State is s unchanged.
func Reduce(s State, a Action) (State, error) {
	next, err := a.apply(s)
	if err != nil {
		return s, err
	}
	if next.Query.PageSize <= 0 {
		return s, fmt.Errorf("%w: page size %d", ErrInvalidConfiguration, next.Query.PageSize)
	}
	total := len(Filter(next.Records, next.Query.Text))
	next.Query.Page = clampPage(next.Query.Page, (total+next.Query.PageSize-1)/next.Query.PageSize)
	return next, nil
}

// Apply runs the pipeline for the current state.
func (s State) Apply(v View) (Result, error) {
	return v.Apply(s.Records, s.Query)
}

func (a SetRecords) apply(s State) (State, error) {
	s.Records = a.Records
	return s, nil
}

func (a SetQuery) apply(s State) (State, error) {
	text := strings.TrimSpace(a.Text)
	if text != strings.TrimSpace(s.Query.Text) {
		s.Query.Page = 1
	}
	s.Query.Text = text
	return s, nil
}

func (a SortBy) apply(s State) (State, error) {
	if !a.Key.Valid() {
		return s, fmt.Errorf("%w: sort key %q", ErrInvalidConfiguration, a.Key)
	}
	if a.Key == s.Query.Key {
		s.Query.Dir = s.Query.Dir.Flip()
		return s, nil
	}
	s.Query.Key = a.Key
	s.Query.Dir = Asc
	s.Query.Page = 1
	return s, nil
}

func (a SetPageSize) apply(s State) (State, error) {
	if a.Size <= 0 {
		return s, fmt.Errorf("%w: page size %d", ErrInvalidConfiguration, a.Size)
	}
	if a.Size != s.Query.PageSize {
		s.Query.PageSize = a.Size
		s.Query.Page = 1
	}
	return s, nil
}

func (a GoToPage) apply(s State) (State, error) {
	s.Query.Page = a.Page
	return s, nil
}

func (a StepPage) apply(s State) (State, error) {
	s.Query.Page += a.Delta
	return s, nil
}
