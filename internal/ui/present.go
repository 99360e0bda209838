package ui

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2/widget"

	"github.com/tartampluch/go-congrats/internal/api"
	"github.com/tartampluch/go-congrats/internal/calendar"
	"github.com/tartampluch/go-congrats/internal/collection"
	"github.com/tartampluch/go-congrats/internal/config"
	"github.com/tartampluch/go-congrats/internal/datemath"
	"github.com/tartampluch/go-congrats/internal/form"
	"github.com/tartampluch/go-congrats/internal/model"
)

// Pure formatting helpers shared by the windows. Nothing here touches a canvas.

// columnKeys maps table columns to sort keys.
var columnKeys = map[int]collection.SortKey{
	config.ColIDName:  collection.SortByName,
	config.ColIDEmail: collection.SortByEmail,
	config.ColIDDate:  collection.SortByBirthDate,
	config.ColIDAge:   collection.SortByAge,
}

// columnTitles maps table columns to translation keys.
var columnTitles = map[int]string{
	config.ColIDName:  config.TKeyColName,
	config.ColIDEmail: config.TKeyColEmail,
	config.ColIDDate:  config.TKeyColDate,
	config.ColIDAge:   config.TKeyColAge,
}

// FormatBirthDate shows a parsed date in display form, else the raw server text.
func FormatBirthDate(r model.Record) string {
	if r.HasBirthDate() {
		return r.BirthDate.Time().Format(config.DateFormatDisplay)
	}
	if raw := strings.TrimSpace(r.RawBirthDate); raw != "" {
		return raw
	}
	return config.AgeUnknown
}

// FormatAge shows the age at today, or the unknown marker.
func FormatAge(r model.Record, today datemath.Date) string {
	age, ok := r.Age(today)
	if !ok {
		return config.AgeUnknown
	}
	return strconv.Itoa(age)
}

// CellText returns the text of a friends table cell.
func CellText(r model.Record, col int, today datemath.Date) string {
	switch col {
	case config.ColIDName:
		return r.DisplayName
	case config.ColIDEmail:
		return r.Email
	case config.ColIDDate:
		return FormatBirthDate(r)
	case config.ColIDAge:
		return FormatAge(r, today)
	}
	return ""
}

// SortIndicator returns the arrow appended to the active column header.
func SortIndicator(q collection.Query, key collection.SortKey) string {
	if q.Key != key {
		return ""
	}
	if q.Dir == collection.Desc {
		return config.SortIconDesc
	}
	return config.SortIconAsc
}

// PagerLabels renders collection.PagerItems, gaps included.
func PagerLabels(items []int) []string {
	out := make([]string, len(items))
	for i, p := range items {
		if p == collection.Ellipsis {
			out[i] = config.PagerEllipsis
			continue
		}
		out[i] = strconv.Itoa(p)
	}
	return out
}

// ProximityKey picks the translation key of an upcoming row's day counter.
func ProximityKey(days int, known bool) string {
	if !known {
		return config.TKeyDaysUnknown
	}
	switch datemath.Classify(days) {
	case datemath.ProximityToday:
		return config.TKeyDaysToday
	case datemath.ProximityTomorrow:
		return config.TKeyDaysTomorrow
	default:
		return config.TKeyDaysIn
	}
}

// StatusKey is the legend text of a day status.
func StatusKey(s calendar.Status) string {
	switch s {
	case calendar.AllCongratulated:
		return config.TKeyStatusAll
	case calendar.PartialCongratulations:
		return config.TKeyStatusPartial
	case calendar.NoCongratulations:
		return config.TKeyStatusNone
	default:
		return config.TKeyStatusNoFriends
	}
}

// CellImportance colours a calendar button. Selection wins over status;
// empty days outside the month are dimmed.
func CellImportance(c calendar.Cell) widget.Importance {
	if c.Selected {
		return widget.HighImportance
	}
	switch c.Status {
	case calendar.AllCongratulated:
		return widget.SuccessImportance
	case calendar.PartialCongratulations:
		return widget.WarningImportance
	case calendar.NoCongratulations:
		return widget.DangerImportance
	}
	if c.OtherMonth {
		return widget.LowImportance
	}
	return widget.MediumImportance
}

// CellLabel is the day number, bracketed for today.
func CellLabel(c calendar.Cell) string {
	if c.Today {
		return "[" + c.Label() + "]"
	}
	return c.Label()
}

// SplitList splits a comma separated translation. It returns nil unless the
// message has exactly n entries.
func SplitList(msg string, n int) []string {
	parts := strings.Split(msg, config.ListSeparator)
	if len(parts) != n {
		return nil
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// WeekdayHeaders rotates Monday-first names to start at start.
func WeekdayHeaders(mondayFirst []string, start time.Weekday) []string {
	if len(mondayFirst) != config.DaysPerWeek {
		mondayFirst = make([]string, config.DaysPerWeek)
		for i := range mondayFirst {
			mondayFirst[i] = time.Weekday((i + 1) % config.DaysPerWeek).String()[:2]
		}
	}
	// Monday is index 0
	offset := (int(start) + config.DaysPerWeek - 1) % config.DaysPerWeek
	out := make([]string, config.DaysPerWeek)
	for i := range out {
		out[i] = mondayFirst[(offset+i)%config.DaysPerWeek]
	}
	return out
}

// MonthTitle is "<month> <year>" using translated names when available.
func MonthTitle(months []string, m time.Month, year int) string {
	name := m.String()
	if len(months) == 12 {
		name = months[m-1]
	}
	return fmt.Sprintf("%s %d", name, year)
}

// ValidationLines renders field errors in a stable order, translating keys.
func ValidationLines(verr *form.ValidationError, tr func(string) string) []string {
	fields := make([]string, 0, len(verr.Fields))
	for f := range verr.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	lines := make([]string, len(fields))
	for i, f := range fields {
		lines[i] = tr(verr.Fields[f])
	}
	return lines
}

// canRetry reports whether a Retry action is worth offering for err. Requests
// the server rejected outright, a missing anti-forgery token and
// cancellation are final.
func canRetry(err error) bool {
	if err == nil || errors.Is(err, api.ErrSecurityPrecondition) || errors.Is(err, context.Canceled) {
		return false
	}
	var nerr *api.NetworkError
	if errors.As(err, &nerr) {
		return nerr.Retryable()
	}
	return true
}
