package ui

import (
	"errors"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/zalando/go-keyring"

	"github.com/tartampluch/go-congrats/internal/config"
	"github.com/tartampluch/go-congrats/internal/engine"
	"github.com/tartampluch/go-congrats/internal/stale"
)

// importWidgets holds references to the source inputs.
type importWidgets struct {
	modeSelect *widget.Select
	urlEntry   *widget.Entry
	userEntry  *widget.Entry
	passEntry  *widget.Entry
	pathEntry  *widget.Entry
}

// ShowImportWindow lets the user create friends from a vCard address book,
// either a local file or a CardDAV/web URL.
func (app *CongratsApp) ShowImportWindow() {
	if focusExisting(app.importWindow, config.TKeyWinImport) {
		return
	}
	if app.current() == nil {
		return
	}

	slog.Info(config.MsgOpenWindow, config.LogKeyComponent, config.CompUI, config.LogKeyWindow, config.TKeyWinImport)
	w := app.App.NewWindow(app.GetMsg(config.TKeyWinImport))
	app.importWindow = w

	src := app.Settings.Import
	iw := &importWidgets{}

	iw.urlEntry = widget.NewEntry()
	iw.urlEntry.SetText(src.URL)
	iw.urlEntry.PlaceHolder = config.PlaceholderURL

	iw.userEntry = widget.NewEntry()
	iw.userEntry.SetText(src.User)

	iw.passEntry = widget.NewPasswordEntry()
	if src.User != "" {
		if pwd, err := keyring.Get(config.KeyringService, config.KeyringImportKey+src.User); err == nil {
			iw.passEntry.SetText(pwd)
		}
	}

	iw.pathEntry = widget.NewEntry()
	iw.pathEntry.SetText(src.LocalPath)

	iw.modeSelect = widget.NewSelect([]string{
		app.GetMsg(config.TKeyModeCardDAV),
		app.GetMsg(config.TKeyModeLocal),
	}, nil)

	var refreshLayout func()
	sourceCard := app.buildSourceCard(w, iw, func() {
		if refreshLayout != nil {
			refreshLayout()
		}
	})

	status := widget.NewLabel("")
	status.Wrapping = fyne.TextWrapWord
	progress := widget.NewProgressBarInfinite()
	progress.Stop()
	progress.Hide()

	var btnImport *widget.Button
	btnImport = widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnImport), theme.DownloadIcon(), func() {
		source := app.saveImportSource(iw)
		btnImport.Disable()
		progress.Show()
		progress.Start()
		status.SetText("")

		go func() {
			msg, err := app.runImport(source)
			fyne.Do(func() {
				progress.Stop()
				progress.Hide()
				btnImport.Enable()
				app.refreshViews()
				if err != nil {
					dialog.ShowError(err, w)
				}
				status.SetText(msg)
			})
		}()
	})
	btnImport.Importance = widget.HighImportance
	btnCancel := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnCancel), theme.CancelIcon(), func() { w.Close() })

	content := container.NewPadded(container.NewVBox(
		sourceCard,
		progress,
		status,
		container.NewGridWithColumns(config.LayoutColumnsDouble, btnCancel, btnImport),
	))

	refreshLayout = func() {
		content.Refresh()
		w.Resize(fyne.NewSize(config.ImportWinWidth, content.MinSize().Height))
	}

	w.SetContent(content)
	w.SetOnClosed(func() { app.importWindow = nil })
	refreshLayout()
	w.Show()
}

// buildSourceCard constructs the source selection UI.
func (app *CongratsApp) buildSourceCard(w fyne.Window, iw *importWidgets, onLayoutChange func()) *widget.Card {
	browseBtn := widget.NewButton(app.GetMsg(config.TKeyBtnBrowse), func() {
		d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
			if err == nil && r != nil {
				iw.pathEntry.SetText(r.URI().Path())
				_ = r.Close()
			}
		}, w)
		d.SetFilter(storage.NewExtensionFileFilter([]string{config.ExtVCF, config.ExtVCard}))
		d.Show()
	})

	itemURL := widget.NewFormItem(app.GetMsg(config.TKeyLblURL), iw.urlEntry)
	itemURL.HintText = app.GetMsg(config.TKeyHelpURL)
	webForm := widget.NewForm(
		itemURL,
		widget.NewFormItem(app.GetMsg(config.TKeyLblUser), iw.userEntry),
		widget.NewFormItem(app.GetMsg(config.TKeyLblPass), iw.passEntry),
	)
	localForm := container.NewBorder(nil, nil, nil, browseBtn, iw.pathEntry)

	updateVis := func(mode string) {
		if mode == app.GetMsg(config.TKeyModeLocal) {
			webForm.Hide()
			localForm.Show()
		} else {
			webForm.Show()
			localForm.Hide()
		}
		if onLayoutChange != nil {
			onLayoutChange()
		}
	}
	iw.modeSelect.OnChanged = updateVis

	if app.Settings.Import.Mode == config.SourceModeWeb {
		iw.modeSelect.SetSelected(app.GetMsg(config.TKeyModeCardDAV))
	} else {
		iw.modeSelect.SetSelected(app.GetMsg(config.TKeyModeLocal))
	}

	return widget.NewCard(app.GetMsg(config.TKeyLblSource), "", container.NewVBox(iw.modeSelect, webForm, localForm))
}

// saveImportSource remembers the source in the settings and the password in
// the keyring, then returns it.
func (app *CongratsApp) saveImportSource(iw *importWidgets) engine.ImportSource {
	mode := config.SourceModeWeb
	if iw.modeSelect.Selected == app.GetMsg(config.TKeyModeLocal) {
		mode = config.SourceModeLocal
	}

	app.Settings.Import = config.ImportSettings{
		Mode:      mode,
		LocalPath: iw.pathEntry.Text,
		URL:       iw.urlEntry.Text,
		User:      iw.userEntry.Text,
	}
	if err := app.Settings.Save(app.SettingsPath); err != nil {
		slog.Error(config.ErrSettingsWrite, config.LogKeyError, err, config.LogKeyComponent, config.CompUI)
	}

	if iw.userEntry.Text != "" && iw.passEntry.Text != "" {
		if err := keyring.Set(config.KeyringService, config.KeyringImportKey+iw.userEntry.Text, iw.passEntry.Text); err != nil {
			slog.Error(config.ErrKeyringSave, config.LogKeyError, err, config.LogKeyComponent, config.CompUI)
		}
	}

	return engine.ImportSource{
		Mode:      mode,
		LocalPath: iw.pathEntry.Text,
		URL:       iw.urlEntry.Text,
		User:      iw.userEntry.Text,
		Pass:      iw.passEntry.Text,
	}
}

// runImport decodes the address book and creates a friend per usable card.
// It returns the localized outcome.
func (app *CongratsApp) runImport(src engine.ImportSource) (string, error) {
	st := app.current()
	if st == nil {
		return "", nil
	}

	decoded, err := app.Importer.Import(app.Ctx, src)
	if err != nil {
		return "", err
	}

	res, err := st.ImportFriends(app.Ctx, decoded.Forms)
	if res.Failed == 0 && errors.Is(err, stale.ErrRefreshFailed) {
		// every card went through; only the views are behind
		rerr := err
		fyne.Do(func() { app.markStale(rerr) })
		err = nil
	}
	msg := app.Tr(config.TKeyImportDone, map[string]any{
		"Created": res.Created,
		"Invalid": res.Invalid + decoded.Skipped,
		"Failed":  res.Failed,
	})
	if res.Created > 0 {
		app.syncMu.Lock()
		count, ferr := app.publishFeed(st)
		app.syncMu.Unlock()
		fyne.Do(func() { app.updateTrayStatus(count) })
		err = errors.Join(err, ferr)
		app.App.SendNotification(fyne.NewNotification(config.AppName, msg))
	}
	return msg, err
}
