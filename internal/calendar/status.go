package calendar

import (
	"github.com/tartampluch/go-congrats/internal/datemath"
)

// Status is the aggregate greeting state of one day.
type Status int

const (
	NoFriends Status = iota
	AllCongratulated
	PartialCongratulations
	NoCongratulations
)

// String returns the style class of the status.
func (s Status) String() string {
	switch s {
	case AllCongratulated:
		return "all-congratulated"
	case PartialCongratulations:
		return "partial-congratulations"
	case NoCongratulations:
		return "no-congratulations"
	default:
		return "no-friends"
	}
}

// Classify applies the status precedence to a pair of counters.
func Classify(expected, greeted int) Status {
	switch {
	case expected <= 0:
		return NoFriends
	case greeted >= expected:
		return AllCongratulated
	case greeted > 0:
		return PartialCongratulations
	default:
		return NoCongratulations
	}
}

// DayStatus is the number of birthdays on a day and how many were greeted.
type DayStatus struct {
	Date     datemath.Date
	Expected int
	Greeted  int
}

// Status classifies the day.
func (d DayStatus) Status() Status {
	return Classify(d.Expected, d.Greeted)
}

// DaySeries is the result of one range query: two counters keyed by ISO date.
type DaySeries struct {
	Expected map[string]int
	Greeted  map[string]int
}

// Merge joins both series into one DayStatus per date. A date present in only
// one series gets 0 for the other; keys that are not dates are dropped.
func Merge(series DaySeries) map[string]DayStatus {
	out := make(map[string]DayStatus, len(series.Expected))

	upsert := func(key string, set func(*DayStatus)) {
		d, err := datemath.Parse(key)
		if err != nil {
			return
		}
		st, ok := out[d.String()]
		if !ok {
			st = DayStatus{Date: d}
		}
		set(&st)
		out[d.String()] = st
	}

	for key, n := range series.Expected {
		upsert(key, func(st *DayStatus) { st.Expected = n })
	}
	for key, n := range series.Greeted {
		upsert(key, func(st *DayStatus) { st.Greeted = n })
	}
	return out
}
