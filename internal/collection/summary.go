package collection

import (
	"github.com/tartampluch/go-congrats/internal/datemath"
	"github.com/tartampluch/go-congrats/internal/model"
)

// Summary holds the counters shown above the friends table.
type Summary struct {
	Total    int
	Upcoming int // next birthday within datemath.UpcomingDays, today included
	Today    int
}

// Summarize counts all records. Records without a parseable birth date only
// count toward Total.
func Summarize(records []model.Record, today datemath.Date) Summary {
	s := Summary{Total: len(records)}
	for _, r := range records {
		days, ok := r.DaysUntilBirthday(today)
		if !ok {
			continue
		}
		if datemath.IsUpcoming(days) {
			s.Upcoming++
		}
		if days == 0 {
			s.Today++
		}
	}
	return s
}
