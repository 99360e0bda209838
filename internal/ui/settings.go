package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/robfig/cron/v3"
	"github.com/zalando/go-keyring"

	"github.com/tartampluch/go-congrats/internal/config"
)

// settingsWidgets holds references to UI elements to simplify data retrieval during save.
type settingsWidgets struct {
	baseURLEntry  *widget.Entry
	userEntry     *widget.Entry
	sessionEntry  *widget.Entry
	langSelect    *widget.Select
	cronEntry     *widget.Entry
	entryPort     *NumericalEntry
	weekSelect    *widget.Select
	checkReminder *widget.Check
	entryRemValue *NumericalEntry
	selectRemUnit *widget.Select
	selectRemDir  *widget.Select
}

// ShowSettingsWindow displays the configuration dialog.
func (app *CongratsApp) ShowSettingsWindow() {
	if focusExisting(app.settingsWindow, config.TKeyWinSettings) {
		return
	}

	slog.Info(config.MsgOpenWindow, config.LogKeyComponent, config.CompUISet, config.LogKeyWindow, config.TKeyWinSettings)
	w := app.App.NewWindow(app.GetMsg(config.TKeyWinSettings))
	app.settingsWindow = w

	s := app.Settings
	sw := &settingsWidgets{}

	var refreshLayout func()
	onLayoutChange := func() {
		if refreshLayout != nil {
			refreshLayout()
		}
	}

	// --- 1. Server ---
	sw.baseURLEntry = widget.NewEntry()
	sw.baseURLEntry.SetText(s.BaseURL)
	sw.baseURLEntry.PlaceHolder = config.DefaultBaseURL
	sw.baseURLEntry.Validator = func(v string) error {
		if validateBaseURL(v) != nil {
			return errors.New(app.GetMsg(config.TKeyErrBaseURL))
		}
		return nil
	}

	sw.userEntry = widget.NewEntry()
	sw.userEntry.SetText(s.Username)

	sw.sessionEntry = widget.NewPasswordEntry()
	sw.sessionEntry.PlaceHolder = config.PlaceholderSession
	if session, err := keyring.Get(config.KeyringService, app.sessionKey()); err == nil {
		sw.sessionEntry.SetText(session)
	}

	itemURL := widget.NewFormItem(app.GetMsg(config.TKeyLblBaseURL), sw.baseURLEntry)
	itemURL.HintText = app.GetMsg(config.TKeyHelpBaseURL)
	itemSession := widget.NewFormItem(app.GetMsg(config.TKeyLblSession), sw.sessionEntry)
	itemSession.HintText = app.GetMsg(config.TKeyHelpSession)
	serverCard := widget.NewCard(app.GetMsg(config.TKeyLblServer), "", widget.NewForm(
		itemURL,
		widget.NewFormItem(app.GetMsg(config.TKeyLblUser), sw.userEntry),
		itemSession,
	))

	// --- 2. General ---
	sw.langSelect = widget.NewSelect(app.SupportedLanguages, nil)
	sw.langSelect.SetSelected(s.Language)

	sw.cronEntry = widget.NewEntry()
	sw.cronEntry.SetText(s.RefreshCron)
	sw.cronEntry.Validator = func(v string) error {
		if _, err := cron.ParseStandard(v); err != nil {
			return errors.New(app.GetMsg(config.TKeyErrCron))
		}
		return nil
	}

	sw.entryPort = NewNumericalEntry()
	sw.entryPort.SetText(s.FeedPort)
	sw.entryPort.Validator = func(v string) error {
		err := config.ValidatePort(v)
		switch {
		case err == nil:
			return nil
		case v == "":
			return errors.New(app.GetMsg(config.TKeyErrPortReq))
		case err.Error() == config.ErrPortRange:
			return errors.New(app.GetMsg(config.TKeyErrPortRange))
		}
		return errors.New(app.GetMsg(config.TKeyErrPortNum))
	}

	weekLabels := map[string]string{
		config.WeekStartMonday: app.GetMsg(config.TKeyWeekMonday),
		config.WeekStartSunday: app.GetMsg(config.TKeyWeekSunday),
	}
	sw.weekSelect = widget.NewSelect([]string{weekLabels[config.WeekStartMonday], weekLabels[config.WeekStartSunday]}, nil)
	sw.weekSelect.SetSelected(weekLabels[s.WeekStart])

	feedURL := widget.NewLabel(app.Server.URL())
	feedURL.Selectable = true

	itemLang := widget.NewFormItem(app.GetMsg(config.TKeyLblLanguage), sw.langSelect)
	itemLang.HintText = app.GetMsg(config.TKeyHelpLanguage)
	itemCron := widget.NewFormItem(app.GetMsg(config.TKeyLblRefresh), sw.cronEntry)
	itemCron.HintText = app.GetMsg(config.TKeyHelpRefresh)
	itemPort := widget.NewFormItem(app.GetMsg(config.TKeyLblPort), sw.entryPort)
	itemPort.HintText = app.GetMsg(config.TKeyHelpPort)

	generalCard := widget.NewCard(app.GetMsg(config.TKeyLblGeneral), "", widget.NewForm(
		itemLang,
		widget.NewFormItem(app.GetMsg(config.TKeyLblWeekStart), sw.weekSelect),
		itemCron,
		itemPort,
		widget.NewFormItem(app.GetMsg(config.TKeyLblFeedURL), feedURL),
	))

	// --- 3. Reminder ---
	sw.checkReminder = widget.NewCheck(app.GetMsg(config.TKeyLblEnableRem), nil)
	sw.checkReminder.Checked = s.Reminder.Enabled

	sw.entryRemValue = NewNumericalEntry()
	sw.entryRemValue.SetText(strconv.Itoa(s.Reminder.Value))

	unitLabels := map[string]string{
		config.UnitDays:    app.GetMsg(config.TKeyUnitDays),
		config.UnitHours:   app.GetMsg(config.TKeyUnitHours),
		config.UnitMinutes: app.GetMsg(config.TKeyUnitMinutes),
	}
	sw.selectRemUnit = widget.NewSelect([]string{
		unitLabels[config.UnitDays],
		unitLabels[config.UnitHours],
		unitLabels[config.UnitMinutes],
	}, nil)
	sw.selectRemUnit.SetSelected(unitLabels[s.Reminder.Unit])

	dirLabels := map[string]string{
		config.DirBefore: app.GetMsg(config.TKeyDirBefore),
		config.DirAfter:  app.GetMsg(config.TKeyDirAfter),
	}
	sw.selectRemDir = widget.NewSelect([]string{dirLabels[config.DirBefore], dirLabels[config.DirAfter]}, nil)
	sw.selectRemDir.SetSelected(dirLabels[s.Reminder.Direction])

	notifCard := app.buildNotifCard(sw, onLayoutChange)

	// --- Actions ---
	saveAction := func() {
		for _, v := range []fyne.Validatable{sw.baseURLEntry, sw.cronEntry, sw.entryPort} {
			if err := v.Validate(); err != nil {
				dialog.ShowError(err, w)
				return
			}
		}
		if err := app.saveSettings(sw, weekLabels, unitLabels, dirLabels); err != nil {
			dialog.ShowError(err, w)
			return
		}
		w.Close()
	}

	btnSave := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnSave), theme.DocumentSaveIcon(), saveAction)
	btnSave.Importance = widget.HighImportance
	btnCancel := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnCancel), theme.CancelIcon(), func() { w.Close() })

	footerLabel := widget.NewLabel(app.Tr(config.TKeyLblFooter, map[string]any{"Version": config.Version}))
	footerLabel.Alignment = fyne.TextAlignCenter
	footerLabel.TextStyle = fyne.TextStyle{Italic: true}

	paddedContent := container.NewPadded(container.NewVBox(
		serverCard,
		generalCard,
		notifCard,
		container.NewGridWithColumns(config.LayoutColumnsDouble, btnCancel, btnSave),
		footerLabel,
	))

	refreshLayout = func() {
		paddedContent.Refresh()
		minSize := paddedContent.MinSize()
		w.Resize(fyne.NewSize(config.SettingsWindowWidth, minSize.Height))
	}

	w.SetContent(paddedContent)
	w.SetFixedSize(true)
	w.SetOnClosed(func() { app.settingsWindow = nil })

	refreshLayout()
	w.Show()
}

// buildNotifCard constructs the notification/reminder UI.
func (app *CongratsApp) buildNotifCard(sw *settingsWidgets, onLayoutChange func()) *widget.Card {
	lblStart := widget.NewLabel(app.GetMsg(config.TKeyLblStartDay))

	// Value | Unit | Direction | "Start of day"
	controls := container.NewHBox(sw.selectRemUnit, sw.selectRemDir, lblStart)
	row := container.NewBorder(nil, nil, nil, controls, sw.entryRemValue)

	sw.checkReminder.OnChanged = func(b bool) {
		if b {
			row.Show()
		} else {
			row.Hide()
		}
		if onLayoutChange != nil {
			onLayoutChange()
		}
	}

	if !sw.checkReminder.Checked {
		row.Hide()
	}

	return widget.NewCard(app.GetMsg(config.TKeyLblNotif), "", container.NewVBox(sw.checkReminder, row))
}

// saveSettings persists the form and applies it: translations, schedule and
// backend connection. An empty reminder value disables reminders.
func (app *CongratsApp) saveSettings(sw *settingsWidgets, weekLabels, unitLabels, dirLabels map[string]string) error {
	log := slog.With(config.LogKeyComponent, config.CompUISet)

	old := *app.Settings
	next := old
	next.BaseURL = sw.baseURLEntry.Text
	next.Username = sw.userEntry.Text
	next.Language = sw.langSelect.Selected
	next.RefreshCron = sw.cronEntry.Text
	next.FeedPort = sw.entryPort.Text
	next.WeekStart = lookup(weekLabels, sw.weekSelect.Selected, config.WeekStartMonday)

	next.Reminder.Enabled = sw.checkReminder.Checked && sw.entryRemValue.Text != ""
	if v, err := strconv.Atoi(sw.entryRemValue.Text); err == nil {
		next.Reminder.Value = v
	}
	next.Reminder.Unit = lookup(unitLabels, sw.selectRemUnit.Selected, config.UnitDays)
	next.Reminder.Direction = lookup(dirLabels, sw.selectRemDir.Selected, config.DirBefore)

	next.Normalize()
	if err := next.Validate(); err != nil {
		return err
	}
	if err := next.Save(app.SettingsPath); err != nil {
		return err
	}
	*app.Settings = next
	log.Info(config.MsgSettingsSave)

	if session := sw.sessionEntry.Text; session != "" {
		if err := keyring.Set(config.KeyringService, app.sessionKey(), session); err != nil {
			log.Error(config.ErrKeyringSave, config.LogKeyError, err)
		}
	}

	app.UpdateLocalizer()
	app.RefreshTrayMenu()

	if next.RefreshCron != old.RefreshCron {
		if err := app.startScheduler(); err != nil {
			return err
		}
	}
	if next.FeedPort != old.FeedPort {
		// The listener keeps its port until the next start
		log.Info(config.MsgPortRestart, config.LogKeyPort, next.FeedPort)
	}
	if err := app.Connect(); err != nil {
		return fmt.Errorf("%s: %w", config.ErrBaseURL, err)
	}

	go app.performSync(true)
	return nil
}

// lookup maps a translated select label back to its value.
func lookup(labels map[string]string, selected, fallback string) string {
	for value, label := range labels {
		if label == selected {
			return value
		}
	}
	return fallback
}

// validateBaseURL checks only the URL part of the settings.
func validateBaseURL(v string) error {
	candidate := config.DefaultSettings()
	candidate.BaseURL = v
	candidate.Normalize()
	return candidate.Validate()
}
