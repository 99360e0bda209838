package ui

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/robfig/cron/v3"
	"github.com/zalando/go-keyring"

	"github.com/tartampluch/go-congrats/internal/api"
	"github.com/tartampluch/go-congrats/internal/config"
	"github.com/tartampluch/go-congrats/internal/datemath"
	"github.com/tartampluch/go-congrats/internal/engine"
	"github.com/tartampluch/go-congrats/internal/model"
	"github.com/tartampluch/go-congrats/internal/server"
	"github.com/tartampluch/go-congrats/internal/stale"
	"github.com/tartampluch/go-congrats/internal/state"
)

//go:embed Icon.png
var appIconData []byte

// CongratsApp holds the windows, the tray and the background refresh.
type CongratsApp struct {
	App        fyne.App
	I18nBundle *i18n.Bundle
	Localizer  *i18n.Localizer
	Ctx        context.Context

	Settings     *config.Settings
	SettingsPath string

	Server   *server.FeedServer
	Importer *engine.Importer
	Clock    datemath.Clock

	Tray desktop.App
	Menu *fyne.Menu

	TrayStatusItem   *fyne.MenuItem
	TrayFriendsItem  *fyne.MenuItem
	TrayCalendarItem *fyne.MenuItem
	TrayRefreshItem  *fyne.MenuItem
	TrayImportItem   *fyne.MenuItem
	TraySettingsItem *fyne.MenuItem

	SupportedLanguages []string

	stateMu sync.RWMutex
	state   *state.App

	schedMu   sync.Mutex
	scheduler *cron.Cron
	entryID   cron.EntryID

	// syncMu serialises refreshes; notifiedOn is guarded by it
	syncMu     sync.Mutex
	notifiedOn datemath.Date

	settingsWindow fyne.Window
	importWindow   fyne.Window
	friends        *friendsWindow
	calendar       *calendarWindow
}

// NewCongratsApp constructs the application and wires dependencies.
func NewCongratsApp(a fyne.App, ctx context.Context, settings *config.Settings, settingsPath string, srv *server.FeedServer, fetcher engine.VCardFetcher) *CongratsApp {
	a.SetIcon(fyne.NewStaticResource(config.IconFile, appIconData))

	return &CongratsApp{
		App:                a,
		Ctx:                ctx,
		Settings:           settings,
		SettingsPath:       settingsPath,
		Server:             srv,
		Importer:           &engine.Importer{Fetcher: fetcher},
		Clock:              datemath.RealClock{},
		SupportedLanguages: config.SupportedLanguages,
	}
}

// Connect builds the backend client from the settings and the session
// stored in the keyring, reads the anti-forgery token of the friends page and
// resets the views on top of it. Without a token the views still load but
// changes are refused.
func (app *CongratsApp) Connect() error {
	client, err := api.New(app.Settings.BaseURL)
	if err != nil {
		return err
	}

	log := slog.With(config.LogKeyComponent, config.CompUI, config.LogKeyUser, app.sessionKey())
	if session, err := keyring.Get(config.KeyringService, app.sessionKey()); err == nil && session != "" {
		client.SetSession(session)
		log.Info(config.MsgSessionLoad)
	} else {
		log.Debug(config.MsgPassFail, config.LogKeyError, err)
	}

	if _, err := client.RefreshToken(app.Ctx); err != nil {
		log.Warn(config.MsgTokenFailed, config.LogKeyError, err)
	}

	app.UseBackend(client)
	return nil
}

// UseBackend replaces the views. Open windows keep their widgets and pick
// the new views up on their next refresh.
func (app *CongratsApp) UseBackend(b state.Backend) {
	st := state.New(b, app.Clock, state.Options{
		Lang:         app.Settings.CollationTag(),
		PageSize:     app.Settings.PageSize,
		UpcomingSize: config.UpcomingPageSize,
		WeekStart:    app.Settings.WeekDay(),
	})

	app.stateMu.Lock()
	app.state = st
	app.stateMu.Unlock()
}

// current returns the views in use, nil before Connect.
func (app *CongratsApp) current() *state.App {
	app.stateMu.RLock()
	defer app.stateMu.RUnlock()
	return app.state
}

func (app *CongratsApp) sessionKey() string {
	if app.Settings.Username != "" {
		return app.Settings.Username
	}
	return config.KeyringSessionKey
}

// Run launches the feed server, the tray and the scheduler, then blocks in
// the UI loop.
func (app *CongratsApp) Run() {
	app.SetupI18n()

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyPort, app.Server.Port,
			config.LogKeyComponent, config.CompUI)

		if err := app.Server.Start(app.Ctx); err != nil {
			slog.Error(config.ErrServerStartup,
				config.LogKeyError, err,
				config.LogKeyComponent, config.CompUI)

			app.App.SendNotification(fyne.NewNotification(
				config.TitleStartupError,
				fmt.Sprintf(config.MsgPortBusy, app.Server.Port)))
		}
	}()

	if desk, ok := app.App.(desktop.App); ok {
		app.Tray = desk
		app.Tray.SetSystemTrayIcon(app.App.Icon())
		app.setupTrayMenu()
	} else {
		slog.Warn(config.ErrTrayNotSupported,
			config.LogKeyComponent, config.CompUI)
	}

	if err := app.startScheduler(); err != nil {
		slog.Error(config.ErrScheduler, config.LogKeyError, err, config.LogKeyComponent, config.CompWorker)
	}
	go app.performSync(false)

	app.App.Run()
}

// setupTrayMenu constructs the system tray menu.
func (app *CongratsApp) setupTrayMenu() {
	// The status line opens the calendar on today
	app.TrayStatusItem = fyne.NewMenuItem(config.FallbackTrayLabel, func() {
		app.ShowCalendarWindow()
	})

	app.TrayFriendsItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuFriends), func() {
		app.ShowFriendsWindow()
	})
	app.TrayCalendarItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuCalendar), func() {
		app.ShowCalendarWindow()
	})
	app.TrayRefreshItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuRefresh), func() {
		go app.performSync(true)
	})
	app.TrayImportItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuImport), func() {
		app.ShowImportWindow()
	})
	app.TraySettingsItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuSettings), func() {
		app.ShowSettingsWindow()
	})

	app.Menu = fyne.NewMenu(config.AppName,
		app.TrayStatusItem,
		fyne.NewMenuItemSeparator(),
		app.TrayFriendsItem,
		app.TrayCalendarItem,
		app.TrayImportItem,
		fyne.NewMenuItemSeparator(),
		app.TrayRefreshItem,
		app.TraySettingsItem,
	)

	if app.Tray != nil {
		app.Tray.SetSystemTrayMenu(app.Menu)
	}
}

// RefreshTrayMenu updates localized labels in the tray menu.
func (app *CongratsApp) RefreshTrayMenu() {
	if app.Menu == nil {
		return
	}
	app.TrayFriendsItem.Label = app.GetMsg(config.TKeyMenuFriends)
	app.TrayCalendarItem.Label = app.GetMsg(config.TKeyMenuCalendar)
	app.TrayRefreshItem.Label = app.GetMsg(config.TKeyMenuRefresh)
	app.TrayImportItem.Label = app.GetMsg(config.TKeyMenuImport)
	app.TraySettingsItem.Label = app.GetMsg(config.TKeyMenuSettings)
	app.Menu.Refresh()
}

// startScheduler (re)registers the refresh job for the current cron spec.
func (app *CongratsApp) startScheduler() error {
	app.schedMu.Lock()
	defer app.schedMu.Unlock()

	log := slog.With(config.LogKeyComponent, config.CompWorker)

	if app.scheduler == nil {
		app.scheduler = cron.New()
		app.scheduler.Start()
		log.Info(config.MsgWorkerStart, config.LogKeyInterval, app.Settings.RefreshCron)

		sched := app.scheduler
		go func() {
			<-app.Ctx.Done()
			log.Info(config.MsgWorkerStop)
			<-sched.Stop().Done()
		}()
	} else {
		log.Info(config.MsgUpdateSync, config.LogKeyNew, app.Settings.RefreshCron)
	}

	if app.entryID != 0 {
		app.scheduler.Remove(app.entryID)
		app.entryID = 0
	}
	id, err := app.scheduler.AddFunc(app.Settings.RefreshCron, func() { app.performSync(false) })
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrScheduler, err)
	}
	app.entryID = id
	return nil
}

// performSync reloads every view, republishes the feed and updates the tray.
// The feed keeps its last content when the friends list cannot be loaded.
func (app *CongratsApp) performSync(manual bool) {
	app.syncMu.Lock()
	defer app.syncMu.Unlock()

	log := slog.With(config.LogKeyComponent, config.CompUI)
	log.Info(config.MsgSyncReq, config.LogKeyManual, manual)

	st := app.current()
	if st == nil {
		return
	}

	if manual {
		app.App.SendNotification(fyne.NewNotification(config.AppName, app.GetMsg(config.TKeyNotifStart)))
	}

	err := st.Refresh(app.Ctx)
	count, ferr := app.publishFeed(st)
	err = errors.Join(err, ferr)

	fyne.Do(func() {
		app.updateTrayStatus(count)
		if err == nil {
			app.clearLoadErrors()
		}
		app.refreshViews()
	})

	if err != nil {
		log.Error(config.MsgSyncFailed, config.LogKeyError, err)
		if manual {
			app.App.SendNotification(fyne.NewNotification(config.TitleSyncError, app.GetMsg(config.TKeyNotifError)))
		}
		return
	}

	log.Info(config.MsgSyncDone, config.LogKeyToday, max(count, 0))
	if manual {
		app.App.SendNotification(fyne.NewNotification(config.AppName, app.GetMsg(config.TKeyNotifSuccess)))
	}
}

// publishFeed renders the loaded friends into the served feed and returns
// how many birthdays are today, or -1 when nothing could be published.
// Callers hold syncMu.
func (app *CongratsApp) publishFeed(st *state.App) (int, error) {
	if !st.Friends.Loaded() {
		return -1, nil
	}
	feed := &engine.Feed{
		Clock:         app.Clock,
		Reminder:      app.reminderTrigger(),
		FormatSummary: app.buildSummaryFormatter(),
	}
	res, err := feed.Render(app.Ctx, st.Friends.Records())
	if err != nil {
		return -1, err
	}
	app.Server.Update(res.ICS, res.Events)
	app.notifyToday(st.Today(), res.Today)
	return len(res.Today), nil
}

// notifyToday announces today's birthdays once per day.
func (app *CongratsApp) notifyToday(today datemath.Date, records []model.Record) {
	if len(records) == 0 || app.notifiedOn == today {
		return
	}
	app.notifiedOn = today

	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.DisplayName
	}
	msg := app.Tr(config.TKeyNotifToday, map[string]any{"Name": strings.Join(names, config.ListSeparator+" ")})
	app.App.SendNotification(fyne.NewNotification(config.AppName, msg))
}

// changeFailed redraws the windows after a change and reports whether err
// means the server refused it. A change that was stored but not followed by
// a successful reload is shown as a load notice instead. Must run on the UI
// goroutine.
func (app *CongratsApp) changeFailed(err error) bool {
	app.refreshViews()
	switch {
	case err == nil:
		return false
	case errors.Is(err, stale.ErrRefreshFailed):
		app.markStale(err)
		return false
	default:
		slog.Warn(config.MsgRequestFailed, config.LogKeyComponent, config.CompUI, config.LogKeyError, err)
		return true
	}
}

// markStale reports a failed reload that followed an accepted change. The
// windows show their load notice with Retry; the change is not repeated.
// Must run on the UI goroutine.
func (app *CongratsApp) markStale(err error) {
	slog.Warn(config.MsgViewsStale, config.LogKeyComponent, config.CompUI, config.LogKeyError, err)
	if app.friends != nil {
		app.friends.loadErr = err
		app.friends.refresh()
	}
	if app.calendar != nil {
		app.calendar.showError(err, reloadAll)
	}
}

// clearLoadErrors hides the load notices after a successful full refresh.
func (app *CongratsApp) clearLoadErrors() {
	if app.friends != nil {
		app.friends.loadErr = nil
	}
	if app.calendar != nil {
		app.calendar.showError(nil, nil)
	}
}

// refreshViews redraws the open windows from the views. Must run on the UI goroutine.
func (app *CongratsApp) refreshViews() {
	if app.friends != nil {
		app.friends.refresh()
	}
	if app.calendar != nil {
		app.calendar.refresh()
	}
}

// updateTrayStatus shows how many birthdays are today. Negative means error.
func (app *CongratsApp) updateTrayStatus(count int) {
	if app.Menu == nil || app.TrayStatusItem == nil {
		return
	}

	var label string
	switch {
	case count < 0:
		label = config.FallbackTrayError
	case count == 0:
		label = app.GetMsg(config.TKeyTrayStatusZero)
		if label == config.TKeyTrayStatusZero {
			label = fmt.Sprintf(config.FallbackTrayDefault, 0)
		}
	default:
		label = app.TrPlural(config.TKeyTrayStatus, count, nil)
		if label == config.TKeyTrayStatus {
			label = fmt.Sprintf(config.FallbackTrayDefault, count)
		}
	}

	app.TrayStatusItem.Label = label
	app.Menu.Refresh()
}

// reminderTrigger is the alarm of feed events, empty when disabled.
func (app *CongratsApp) reminderTrigger() string {
	r := app.Settings.Reminder
	if !r.Enabled {
		return ""
	}
	return engine.ReminderTrigger(r.Value, r.Unit, r.Direction)
}

// buildSummaryFormatter returns a closure that localizes the event summary.
// Feed records always carry a birth year, so age 0 is the year of birth.
func (app *CongratsApp) buildSummaryFormatter() func(name string, age int) string {
	return func(name string, age int) string {
		key := config.TKeyEvtSummaryAge
		data := map[string]any{"Name": name, "Age": age}
		if age == 0 {
			key = config.TKeyEvtSummaryBirth
		}

		if msg := app.Tr(key, data); msg != key && msg != "" {
			return msg
		}
		if age == 0 {
			return fmt.Sprintf(config.FallbackSummaryBirth, name)
		}
		return fmt.Sprintf(config.FallbackSummaryAge, name, age)
	}
}

// focusExisting brings w forward and reports whether it was open.
func focusExisting(w fyne.Window, name string) bool {
	if w == nil {
		return false
	}
	slog.Debug(config.MsgFocusWindow, config.LogKeyComponent, config.CompUI, config.LogKeyWindow, name)
	w.RequestFocus()
	return true
}
