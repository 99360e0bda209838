package calendar

import (
	"strconv"
	"time"

	"github.com/tartampluch/go-congrats/internal/datemath"
)

const (
	DaysPerWeek  = 7
	WeeksPerGrid = 6
	GridCells    = DaysPerWeek * WeeksPerGrid
)

// Cell is one day of the grid. The flags are independent of each other.
type Cell struct {
	Date       datemath.Date
	Status     Status
	Expected   int
	Greeted    int
	OtherMonth bool
	Today      bool
	Selected   bool
}

// Label is the text shown in the cell.
func (c Cell) Label() string {
	return strconv.Itoa(c.Date.Day)
}

// Grid is a month laid out as six full weeks.
type Grid struct {
	Year  int
	Month time.Month
	Cells []Cell
}

// Start is the first day shown.
func (g Grid) Start() datemath.Date { return g.Cells[0].Date }

// End is the last day shown.
func (g Grid) End() datemath.Date { return g.Cells[len(g.Cells)-1].Date }

// Index returns the cell position of d, or -1 when d is not shown.
func (g Grid) Index(d datemath.Date) int {
	if len(g.Cells) == 0 || d.Before(g.Start()) || d.After(g.End()) {
		return -1
	}
	return datemath.DaysUntil(d, g.Start())
}

// InMonth reports whether d belongs to the anchor month.
func (g Grid) InMonth(d datemath.Date) bool {
	return d.Year == g.Year && d.Month == g.Month
}

// Builder lays out grids for a given first day of the week.
type Builder struct {
	WeekStart time.Weekday
}

// Monday is the default layout.
var Monday = Builder{WeekStart: time.Monday}

// Start returns the first grid day for a month: the week start on or before the 1st.
func (b Builder) Start(year int, month time.Month) datemath.Date {
	first := datemath.New(year, month, 1)
	back := (int(first.Weekday()) - int(b.WeekStart) + DaysPerWeek) % DaysPerWeek
	return first.AddDays(-back)
}

// Range returns the inclusive first and last days of the month's grid.
func (b Builder) Range(year int, month time.Month) (datemath.Date, datemath.Date) {
	start := b.Start(year, month)
	return start, start.AddDays(GridCells - 1)
}

// Build returns the 42 cells of the month with their status and flags.
// Days missing from statuses are NoFriends.
func (b Builder) Build(year int, month time.Month, today, selected datemath.Date, statuses map[string]DayStatus) Grid {
	start := b.Start(year, month)
	g := Grid{Year: year, Month: month, Cells: make([]Cell, GridCells)}

	for i := range g.Cells {
		d := start.AddDays(i)
		st := statuses[d.String()]
		g.Cells[i] = Cell{
			Date:       d,
			Status:     Classify(st.Expected, st.Greeted),
			Expected:   st.Expected,
			Greeted:    st.Greeted,
			OtherMonth: d.Year != year || d.Month != month,
			Today:      d == today,
			Selected:   d == selected,
		}
	}
	return g
}

// Build lays out a Monday-first grid.
func Build(year int, month time.Month, today, selected datemath.Date, statuses map[string]DayStatus) Grid {
	return Monday.Build(year, month, today, selected, statuses)
}
