package ui

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/tartampluch/go-congrats/internal/calendar"
	"github.com/tartampluch/go-congrats/internal/config"
	"github.com/tartampluch/go-congrats/internal/datemath"
	"github.com/tartampluch/go-congrats/internal/model"
	"github.com/tartampluch/go-congrats/internal/stale"
	"github.com/tartampluch/go-congrats/internal/state"
)

// calendarWindow shows the month grid, the selected day's panel and the
// upcoming birthdays. Its fields are only touched on the UI goroutine.
type calendarWindow struct {
	app *CongratsApp
	win fyne.Window

	title    *widget.Label
	weekdays []*widget.Label
	cells    []*widget.Button
	grid     calendar.Grid
	errLbl   *widget.Label
	retry    *widget.Button

	// failed is the last action that failed, run again by Retry
	failed func(ctx context.Context, st *state.App) error

	dayTitle *widget.Label
	day      *fyne.Container
	upcoming *fyne.Container
	pager    *fyne.Container

	// friend ids whose greeting was tapped and not answered yet
	sending map[int64]bool
}

// ShowCalendarWindow opens the calendar on today.
func (app *CongratsApp) ShowCalendarWindow() {
	if app.calendar != nil && focusExisting(app.calendar.win, config.TKeyWinCalendar) {
		return
	}
	if app.current() == nil {
		return
	}

	slog.Info(config.MsgOpenWindow, config.LogKeyComponent, config.CompUI, config.LogKeyWindow, config.TKeyWinCalendar)

	cw := &calendarWindow{
		app:     app,
		win:     app.App.NewWindow(app.GetMsg(config.TKeyWinCalendar)),
		sending: make(map[int64]bool),
	}
	cw.win.Resize(fyne.NewSize(config.CalendarWinWidth, config.CalendarWinHeight))
	cw.win.SetContent(cw.build())
	cw.win.SetOnClosed(func() { app.calendar = nil })
	app.calendar = cw

	cw.refresh()
	cw.run(func(ctx context.Context, st *state.App) error {
		_, err := st.Upcoming.Reload(ctx)
		return errors.Join(st.GoToday(ctx), ignoreStale(err))
	})
	cw.win.Show()
}

func (cw *calendarWindow) build() fyne.CanvasObject {
	app := cw.app

	prev := widget.NewButtonWithIcon("", theme.NavigateBackIcon(), func() {
		cw.run(func(ctx context.Context, st *state.App) error {
			_, err := st.PrevMonth(ctx)
			return err
		})
	})
	next := widget.NewButtonWithIcon("", theme.NavigateNextIcon(), func() {
		cw.run(func(ctx context.Context, st *state.App) error {
			_, err := st.NextMonth(ctx)
			return err
		})
	})
	today := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnToday), theme.HomeIcon(), func() {
		cw.run(func(ctx context.Context, st *state.App) error {
			return st.GoToday(ctx)
		})
	})
	cw.title = widget.NewLabel("")
	cw.title.Alignment = fyne.TextAlignCenter
	cw.title.TextStyle = fyne.TextStyle{Bold: true}
	header := container.NewBorder(nil, nil, container.NewHBox(prev, next), today, cw.title)

	days := container.NewGridWithColumns(config.DaysPerWeek)
	cw.weekdays = make([]*widget.Label, config.DaysPerWeek)
	for i := range cw.weekdays {
		cw.weekdays[i] = widget.NewLabel("")
		cw.weekdays[i].Alignment = fyne.TextAlignCenter
		days.Add(cw.weekdays[i])
	}
	cw.cells = make([]*widget.Button, calendar.GridCells)
	for i := range cw.cells {
		cw.cells[i] = widget.NewButton("", func() { cw.tapCell(i) })
		days.Add(cw.cells[i])
	}

	cw.errLbl = widget.NewLabel(app.GetMsg(config.TKeyErrLoad))
	cw.errLbl.Importance = widget.DangerImportance
	cw.errLbl.Hide()
	cw.retry = widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnRetry), theme.ViewRefreshIcon(), func() {
		if fn := cw.failed; fn != nil {
			cw.run(fn)
		}
	})
	cw.retry.Hide()

	legend := container.NewHBox(widget.NewLabel(app.GetMsg(config.TKeyLblLegend)))
	for _, s := range []calendar.Status{calendar.AllCongratulated, calendar.PartialCongratulations, calendar.NoCongratulations, calendar.NoFriends} {
		l := widget.NewLabel(app.GetMsg(StatusKey(s)))
		l.Importance = CellImportance(calendar.Cell{Status: s})
		legend.Add(l)
	}

	cw.dayTitle = widget.NewLabel("")
	cw.dayTitle.TextStyle = fyne.TextStyle{Bold: true}
	cw.day = container.NewVBox()

	upTitle := widget.NewLabel(app.GetMsg(config.TKeyLblUpcoming))
	upTitle.TextStyle = fyne.TextStyle{Bold: true}
	cw.upcoming = container.NewVBox()
	cw.pager = container.NewHBox()

	left := container.NewBorder(header, container.NewVBox(container.NewHBox(cw.errLbl, cw.retry), legend), nil, nil, days)
	right := container.NewVBox(
		cw.dayTitle,
		cw.day,
		widget.NewSeparator(),
		upTitle,
		cw.upcoming,
		container.NewCenter(cw.pager),
	)
	split := container.NewHSplit(left, container.NewVScroll(right))
	split.Offset = 0.6
	return split
}

// run executes fn in the background and redraws once it is done. Stale
// responses are not errors.
func (cw *calendarWindow) run(fn func(ctx context.Context, st *state.App) error) {
	st := cw.app.current()
	if st == nil {
		return
	}
	go func() {
		err := ignoreStale(fn(cw.app.Ctx, st))
		fyne.Do(func() {
			if err != nil {
				slog.Warn(config.MsgCalendarFailed, config.LogKeyComponent, config.CompUI, config.LogKeyError, err)
			}
			cw.showError(err, fn)
			cw.refresh()
		})
	}()
	cw.refresh()
}

// showError shows the load notice for err, or hides it when err is nil.
// Retry runs fn again and is only offered when trying again may help.
func (cw *calendarWindow) showError(err error, fn func(ctx context.Context, st *state.App) error) {
	if err == nil {
		cw.failed = nil
		cw.errLbl.Hide()
		cw.retry.Hide()
		return
	}
	cw.failed = fn
	cw.errLbl.Show()
	if canRetry(err) {
		cw.retry.Show()
	} else {
		cw.retry.Hide()
	}
}

// reloadAll reloads every view, after a change whose own reload failed.
func reloadAll(ctx context.Context, st *state.App) error {
	return st.Refresh(ctx)
}

// tapCell selects an in-month day right away and loads its panel. A day of
// a neighbouring month first moves the calendar there.
func (cw *calendarWindow) tapCell(i int) {
	if i >= len(cw.grid.Cells) {
		return
	}
	st := cw.app.current()
	if st == nil {
		return
	}
	d := cw.grid.Cells[i].Date

	if cw.grid.InMonth(d) {
		st.Calendar.Select(d)
		cw.run(func(ctx context.Context, st *state.App) error {
			return st.SelectDay(ctx, d)
		})
		return
	}

	before := d.Before(datemath.New(cw.grid.Year, cw.grid.Month, 1))
	cw.run(func(ctx context.Context, st *state.App) error {
		var err error
		if before {
			_, err = st.PrevMonth(ctx)
		} else {
			_, err = st.NextMonth(ctx)
		}
		return errors.Join(err, st.SelectDay(ctx, d))
	})
}

// refresh redraws the grid, the day panel and the upcoming list.
func (cw *calendarWindow) refresh() {
	st := cw.app.current()
	if st == nil {
		return
	}
	app := cw.app

	cw.grid = st.Calendar.Grid()
	cw.title.SetText(MonthTitle(SplitList(app.GetMsg(config.TKeyMonths), 12), cw.grid.Month, cw.grid.Year))

	names := WeekdayHeaders(SplitList(app.GetMsg(config.TKeyWeekdays), config.DaysPerWeek), app.Settings.WeekDay())
	for i, l := range cw.weekdays {
		l.SetText(names[i])
	}
	for i, btn := range cw.cells {
		if i >= len(cw.grid.Cells) {
			btn.Hide()
			continue
		}
		c := cw.grid.Cells[i]
		btn.SetText(CellLabel(c))
		btn.Importance = CellImportance(c)
		btn.Show()
		btn.Refresh()
	}

	cw.refreshDay(st)
	cw.refreshUpcoming(st)
}

func (cw *calendarWindow) refreshDay(st *state.App) {
	app := cw.app
	panel := st.Panel

	cw.dayTitle.SetText(panel.Date().Time().Format(config.DateFormatDisplay))
	cw.day.RemoveAll()

	entries := panel.Entries()
	if len(entries) == 0 {
		cw.day.Add(widget.NewLabel(app.GetMsg(config.TKeyLblDayEmpty)))
	}
	for _, e := range entries {
		cw.day.Add(container.NewBorder(nil, nil, nil, cw.greetControl(st, e), widget.NewLabel(e.Record.DisplayName)))
	}
	if len(entries) > 0 && !panel.IsToday() {
		hint := widget.NewLabel(app.GetMsg(config.TKeyLblNotToday))
		hint.TextStyle = fyne.TextStyle{Italic: true}
		cw.day.Add(hint)
	}
	cw.day.Refresh()
}

// greetControl is the congratulate button, or the greeting state.
func (cw *calendarWindow) greetControl(st *state.App, e model.DayEntry) fyne.CanvasObject {
	app := cw.app
	if e.Congratulated {
		l := widget.NewLabel(app.GetMsg(config.TKeyLblCongratulated))
		l.Importance = widget.SuccessImportance
		return l
	}
	if !st.Panel.IsToday() {
		return widget.NewLabel("")
	}

	id := e.Record.ID
	btn := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnCongratulate), theme.MailSendIcon(), nil)
	btn.Importance = widget.HighImportance
	if cw.sending[id] || !st.Panel.CanCongratulate(e) {
		btn.Disable()
	}
	btn.OnTapped = func() {
		cw.sending[id] = true
		btn.Disable()
		go func() {
			err := st.Congratulate(app.Ctx, id)
			fyne.Do(func() {
				delete(cw.sending, id)
				if app.changeFailed(err) {
					dialog.ShowError(errors.New(app.GetMsg(config.TKeyErrCongratulation)), cw.win)
				}
			})
		}()
	}
	return btn
}

func (cw *calendarWindow) refreshUpcoming(st *state.App) {
	app := cw.app
	page := st.Upcoming.Page()

	cw.upcoming.RemoveAll()
	for _, item := range page.Items {
		l := widget.NewLabel(app.proximityText(item.Days, item.Known))
		if item.Known && item.Proximity != datemath.ProximityFuture {
			l.Importance = widget.WarningImportance
		}
		cw.upcoming.Add(container.NewBorder(nil, nil, nil, l,
			widget.NewLabel(item.DisplayName+"  "+FormatBirthDate(item.Record))))
	}
	cw.upcoming.Refresh()

	cw.pager.RemoveAll()
	numbers := page.PageNumbers()
	if len(numbers) > 0 {
		step := func(delta int) func() {
			return func() {
				cw.run(func(ctx context.Context, st *state.App) error {
					_, err := st.Upcoming.Step(ctx, delta)
					return err
				})
			}
		}
		prev := widget.NewButtonWithIcon("", theme.NavigateBackIcon(), step(-1))
		if !page.HasPrev() {
			prev.Disable()
		}
		cw.pager.Add(prev)
		for _, n := range numbers {
			btn := widget.NewButton(strconv.Itoa(n), func() {
				cw.run(func(ctx context.Context, st *state.App) error {
					_, err := st.Upcoming.Load(ctx, n)
					return err
				})
			})
			if n == page.Page {
				btn.Importance = widget.HighImportance
			}
			cw.pager.Add(btn)
		}
		next := widget.NewButtonWithIcon("", theme.NavigateNextIcon(), step(1))
		if !page.HasNext() {
			next.Disable()
		}
		cw.pager.Add(next)
	}
	cw.pager.Refresh()
}

// proximityText is the day counter of an upcoming row. Only the "in N days"
// message has plural forms.
func (app *CongratsApp) proximityText(days int, known bool) string {
	key := ProximityKey(days, known)
	if key == config.TKeyDaysIn {
		return app.TrPlural(key, days, nil)
	}
	return app.GetMsg(key)
}

func ignoreStale(err error) error {
	if errors.Is(err, stale.ErrSuperseded) {
		return nil
	}
	return err
}
