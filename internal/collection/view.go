package collection

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/tartampluch/go-congrats/internal/datemath"
	"github.com/tartampluch/go-congrats/internal/model"
)

// View turns a record set and a Query into the rows of one page.
// It holds no mutable state and may be shared between goroutines.
type View struct {
	// Today is the reference day for the age column.
	Today datemath.Date

	// Lang selects the collation for string columns. language.Und means Russian.
	Lang language.Tag
}

// Result is the output of one pipeline run.
type Result struct {
	PageInfo
	Visible []model.Record
}

// Apply filters, sorts and paginates records without modifying them.
func (v View) Apply(records []model.Record, q Query) (Result, error) {
	if q.PageSize <= 0 {
		return Result{}, fmt.Errorf("%w: page size %d", ErrInvalidConfiguration, q.PageSize)
	}
	if !q.Key.Valid() {
		return Result{}, fmt.Errorf("%w: sort key %q", ErrInvalidConfiguration, q.Key)
	}

	rows := Filter(records, q.Text)
	v.Sort(rows, q.Key, q.Dir)

	info := NewPageInfo(q.Page, q.PageSize, len(rows))
	return Result{
		PageInfo: info,
		Visible:  rows[info.Offset():info.EndRow()],
	}, nil
}

// Filter returns, in original order, the records whose name or email contains
// the trimmed query, compared under Unicode case folding. The result never
// aliases records.
func Filter(records []model.Record, query string) []model.Record {
	needle := strings.TrimSpace(query)
	if needle == "" {
		return slices.Clone(records)
	}

	fold := cases.Fold()
	needle = fold.String(needle)

	var out []model.Record
	for _, r := range records {
		if strings.Contains(fold.String(r.DisplayName), needle) ||
			(r.Email != "" && strings.Contains(fold.String(r.Email), needle)) {
			out = append(out, r)
		}
	}
	return out
}

// Sort orders records in place with a stable sort. Descending order negates
// the ascending comparator, so ties keep their input order in both directions.
func (v View) Sort(records []model.Record, key SortKey, dir SortDir) {
	compare := v.comparator(key)
	if dir == Desc {
		asc := compare
		compare = func(a, b model.Record) int { return -asc(a, b) }
	}
	slices.SortStableFunc(records, compare)
}

func (v View) comparator(key SortKey) func(a, b model.Record) int {
	lang := v.Lang
	if lang == language.Und {
		lang = language.Russian
	}
	// A Collator keeps scratch buffers, so each sort gets its own.
	coll := collate.New(lang)

	switch key {
	case SortByEmail:
		return func(a, b model.Record) int {
			return coll.CompareString(a.Email, b.Email)
		}
	case SortByBirthDate:
		return func(a, b model.Record) int {
			switch {
			case a.HasBirthDate() && b.HasBirthDate():
				return a.BirthDate.Compare(b.BirthDate)
			case a.HasBirthDate():
				return -1
			case b.HasBirthDate():
				return 1
			}
			return coll.CompareString(a.RawBirthDate, b.RawBirthDate)
		}
	case SortByAge:
		return func(a, b model.Record) int {
			ageA, okA := a.Age(v.Today)
			ageB, okB := b.Age(v.Today)
			switch {
			case okA && okB:
				return cmp.Compare(ageA, ageB)
			case okA:
				return -1
			case okB:
				return 1
			}
			return 0
		}
	default:
		return func(a, b model.Record) int {
			return coll.CompareString(a.DisplayName, b.DisplayName)
		}
	}
}
