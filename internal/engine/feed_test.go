package engine_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tartampluch/go-congrats/internal/config"
	"github.com/tartampluch/go-congrats/internal/datemath"
	"github.com/tartampluch/go-congrats/internal/engine"
	"github.com/tartampluch/go-congrats/internal/model"
)

// ---- Mocks ----

type MockClock struct {
	CurrentTime time.Time
}

func (m MockClock) Now() time.Time {
	return m.CurrentTime
}

// ---- Helpers ----

func june15() MockClock {
	return MockClock{CurrentTime: time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)}
}

func record(id int64, name, birth string) model.Record {
	r := model.Record{ID: id, DisplayName: name, RawBirthDate: birth}
	if d, err := datemath.Parse(birth); err == nil {
		r.BirthDate = d
	}
	return r
}

func decodeFeed(t *testing.T, data []byte) *ical.Calendar {
	t.Helper()
	cal, err := ical.NewDecoder(strings.NewReader(string(data))).Decode()
	require.NoError(t, err)
	return cal
}

func eventsByUID(t *testing.T, cal *ical.Calendar) map[string]ical.Event {
	t.Helper()
	out := make(map[string]ical.Event)
	for _, e := range cal.Events() {
		uid, err := e.Props.Text(config.PropUID)
		require.NoError(t, err)
		out[uid] = e
	}
	return out
}

// ---- Tests ----

func TestFeed_Render_ThreeYears(t *testing.T) {
	feed := &engine.Feed{Clock: june15()}

	res, err := feed.Render(context.Background(), []model.Record{
		record(1, "Anna Ivanova", "1990-03-10"),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Events)

	events := eventsByUID(t, decodeFeed(t, res.ICS))
	require.Len(t, events, 3)

	for year, age := range map[int]int{2024: 34, 2025: 35, 2026: 36} {
		e, ok := events[engine.EventUID(1, year)]
		require.True(t, ok, "missing event for %d", year)

		start, err := e.Props.Get(config.PropDTStart).DateTime(time.UTC)
		require.NoError(t, err)
		assert.Equal(t, time.Date(year, 3, 10, 0, 0, 0, 0, time.UTC), start)

		summary, err := e.Props.Text(config.PropSummary)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf(config.FallbackSummaryAge, "Anna Ivanova", age), summary)
	}
}

func TestFeed_Render_SkipsYearsBeforeBirth(t *testing.T) {
	feed := &engine.Feed{Clock: june15()}

	res, err := feed.Render(context.Background(), []model.Record{
		record(7, "Baby", "2025-02-01"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Events)

	events := eventsByUID(t, decodeFeed(t, res.ICS))
	_, has2024 := events[engine.EventUID(7, 2024)]
	assert.False(t, has2024)

	birth, ok := events[engine.EventUID(7, 2025)]
	require.True(t, ok)
	summary, err := birth.Props.Text(config.PropSummary)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf(config.FallbackSummaryBirth, "Baby"), summary)
}

func TestFeed_Render_LeapDay(t *testing.T) {
	feed := &engine.Feed{Clock: june15()}

	res, err := feed.Render(context.Background(), []model.Record{
		record(3, "Leapling", "2000-02-29"),
	})
	require.NoError(t, err)

	events := eventsByUID(t, decodeFeed(t, res.ICS))

	tests := []struct {
		year int
		day  int
	}{
		{2024, 29},
		{2025, 28},
		{2026, 28},
	}
	for _, tt := range tests {
		e := events[engine.EventUID(3, tt.year)]
		start, err := e.Props.Get(config.PropDTStart).DateTime(time.UTC)
		require.NoError(t, err)
		assert.Equal(t, time.Date(tt.year, time.February, tt.day, 0, 0, 0, 0, time.UTC), start, "year %d", tt.year)

		summary, err := e.Props.Text(config.PropSummary)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf(config.FallbackSummaryAge, "Leapling", tt.year-2000), summary)
	}
}

func TestFeed_Render_UnknownDatesAndStub(t *testing.T) {
	feed := &engine.Feed{Clock: june15()}

	res, err := feed.Render(context.Background(), []model.Record{
		record(1, "Nobody", "sometime"),
	})
	require.NoError(t, err)
	assert.Zero(t, res.Events)
	assert.Equal(t, config.StubVCalendar, string(res.ICS))
}

func TestFeed_Render_TodayAndReminder(t *testing.T) {
	feed := &engine.Feed{
		Clock:    june15(),
		Reminder: engine.ReminderTrigger(1, config.UnitDays, config.DirBefore),
		FormatSummary: func(name string, age int) string {
			return fmt.Sprintf("%s (%d)", name, age)
		},
	}

	today := record(2, "Today Friend", "1985-06-15")
	today.Email = "today@example.com"

	res, err := feed.Render(context.Background(), []model.Record{
		today,
		record(4, "Other", "1985-06-16"),
	})
	require.NoError(t, err)
	require.Len(t, res.Today, 1)
	assert.Equal(t, int64(2), res.Today[0].ID)

	events := eventsByUID(t, decodeFeed(t, res.ICS))
	e := events[engine.EventUID(2, 2025)]

	summary, err := e.Props.Text(config.PropSummary)
	require.NoError(t, err)
	assert.Equal(t, "Today Friend (40)", summary)

	desc, err := e.Props.Text(config.PropDescription)
	require.NoError(t, err)
	assert.Equal(t, "today@example.com", desc)

	require.Len(t, e.Children, 1)
	alarm := e.Children[0]
	assert.Equal(t, config.ICalComponent, alarm.Name)
	assert.Equal(t, "-P1D", alarm.Props.Get(config.PropTrigger).Value)
}

func TestFeed_Render_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&engine.Feed{Clock: june15()}).Render(ctx, []model.Record{record(1, "A", "1990-01-01")})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEventUID_Stable(t *testing.T) {
	assert.Equal(t, engine.EventUID(42, 2025), engine.EventUID(42, 2025))
	assert.NotEqual(t, engine.EventUID(42, 2025), engine.EventUID(42, 2026))
	assert.NotEqual(t, engine.EventUID(42, 2025), engine.EventUID(43, 2025))
	assert.True(t, strings.HasSuffix(engine.EventUID(1, 2025), "@"+config.ICalDomain))
}

func TestReminderTrigger(t *testing.T) {
	tests := []struct {
		name      string
		value     int
		unit      string
		direction string
		want      string
	}{
		{"Disabled", 0, config.UnitDays, config.DirBefore, ""},
		{"DaysBefore", 2, config.UnitDays, config.DirBefore, "-P2D"},
		{"DaysAfter", 1, config.UnitDays, config.DirAfter, "P1D"},
		{"HoursBefore", 3, config.UnitHours, config.DirBefore, "-PT3H"},
		{"MinutesAfter", 30, config.UnitMinutes, config.DirAfter, "PT30M"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.ReminderTrigger(tt.value, tt.unit, tt.direction))
		})
	}
}
