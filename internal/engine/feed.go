package engine

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"github.com/tartampluch/go-congrats/internal/config"
	"github.com/tartampluch/go-congrats/internal/datemath"
	"github.com/tartampluch/go-congrats/internal/model"
)

// uidNamespace scopes the name-based event UIDs.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceDNS, []byte(config.ICalDomain))

// Feed renders friends' birthdays as an iCalendar subscription.
type Feed struct {
	Clock datemath.Clock

	// Reminder is an ISO 8601 alarm trigger such as "-P1D". Empty means no alarm.
	Reminder string

	// FormatSummary lets the UI inject localized event titles.
	FormatSummary func(name string, age int) string
}

// FeedResult is one rendering.
type FeedResult struct {
	ICS    []byte
	Events int

	// Today lists the records whose birthday is today.
	Today []model.Record
}

// Render builds events for the previous, current and next year of every
// record with a known birth date. Years before the birth year are skipped.
func (f *Feed) Render(ctx context.Context, records []model.Record) (FeedResult, error) {
	start := time.Now()
	now := f.Clock.Now()
	today := datemath.FromTime(now)

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	refresh := ical.NewProp(config.PropRefresh)
	refresh.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refresh)

	stamp := ical.NewProp(config.PropDTStamp)
	stamp.SetDateTime(now.UTC())

	var res FeedResult
	skipped := 0
	for _, r := range records {
		if err := ctx.Err(); err != nil {
			return FeedResult{}, err
		}
		if !r.HasBirthDate() {
			skipped++
			continue
		}

		for _, e := range f.events(r, today.Year) {
			e.Props.Set(stamp)
			cal.Children = append(cal.Children, e.Component)
			res.Events++
		}

		if datemath.IsAnniversary(r.BirthDate, today) {
			res.Today = append(res.Today, r)
			slog.Info(config.MsgBdayToday,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyFriendID, r.ID)
		}
	}

	if len(cal.Children) == 0 {
		res.ICS = []byte(config.StubVCalendar)
	} else {
		var buf bytes.Buffer
		if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
			return FeedResult{}, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
		}
		res.ICS = buf.Bytes()
	}

	slog.Info(config.MsgGenSuccess,
		config.LogKeyComponent, config.CompEngine,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyTotal, len(records)),
			slog.Int(config.LogKeySkipped, skipped),
			slog.Int(config.LogKeyEvents, res.Events),
			slog.Int(config.LogKeyToday, len(res.Today)),
		),
		config.LogKeyDuration, time.Since(start).Milliseconds())
	return res, nil
}

func (f *Feed) events(r model.Record, year int) []*ical.Event {
	var events []*ical.Event
	for _, y := range []int{year - 1, year, year + 1} {
		if y < r.BirthDate.Year {
			continue
		}
		day := datemath.AnniversaryIn(r.BirthDate, y)
		// the age turned that year, also for a Feb 29 birthday moved to Feb 28
		age := y - r.BirthDate.Year

		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, EventUID(r.ID, y))

		summary := fmt.Sprintf(config.FallbackSummaryAge, r.DisplayName, age)
		if age == 0 {
			summary = fmt.Sprintf(config.FallbackSummaryBirth, r.DisplayName)
		}
		if f.FormatSummary != nil {
			summary = f.FormatSummary(r.DisplayName, age)
		}
		event.Props.SetText(config.PropSummary, summary)

		dtStart := ical.NewProp(config.PropDTStart)
		dtStart.SetDate(day.Time())
		event.Props.Set(dtStart)

		if r.Email != "" {
			event.Props.SetText(config.PropDescription, r.Email)
		}
		if f.Reminder != "" {
			addAlarm(event, f.Reminder, summary)
		}
		events = append(events, event)
	}
	return events
}

// EventUID is stable across renderings for a record and year.
func EventUID(id int64, year int) string {
	name := strconv.FormatInt(id, 10) + "|" + strconv.Itoa(year)
	return uuid.NewSHA1(uidNamespace, []byte(name)).String() + "@" + config.ICalDomain
}

// addAlarm appends a DISPLAY alarm to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Raw value; SetText would add VALUE=TEXT.
	triggerProp := ical.NewProp(config.PropTrigger)
	triggerProp.Value = trigger
	alarm.Props.Set(triggerProp)

	event.Children = append(event.Children, alarm)
}

// ReminderTrigger builds an ISO 8601 alarm trigger. value <= 0 disables it.
func ReminderTrigger(value int, unit, direction string) string {
	if value <= 0 {
		return ""
	}
	sign := config.ISOPeriodPrefix
	if direction != config.DirAfter {
		sign = config.ISONegativePrefix
	}

	switch unit {
	case config.UnitHours:
		return fmt.Sprintf("%sT%d%s", sign, value, config.ISOHour)
	case config.UnitMinutes:
		return fmt.Sprintf("%sT%d%s", sign, value, config.ISOMinute)
	default:
		return fmt.Sprintf("%s%d%s", sign, value, config.ISODay)
	}
}
