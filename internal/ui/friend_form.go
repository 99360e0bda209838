package ui

import (
	"errors"
	"log/slog"
	"path"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/tartampluch/go-congrats/internal/config"
	"github.com/tartampluch/go-congrats/internal/form"
	"github.com/tartampluch/go-congrats/internal/model"
	"github.com/tartampluch/go-congrats/internal/state"
)

// showFriendForm opens the create dialog, or the edit dialog when rec is set.
// The dialog stays open while the input is rejected. Once the server has
// accepted the record it closes, even when the views could not be reloaded.
func (app *CongratsApp) showFriendForm(parent fyne.Window, rec *model.Record) {
	st := app.current()
	if st == nil {
		return
	}

	var f form.FriendForm
	title := app.GetMsg(config.TKeyWinFriendNew)
	if rec != nil {
		f = form.FromRecord(*rec)
		title = app.GetMsg(config.TKeyWinFriendEdit)
	}

	name := widget.NewEntry()
	name.SetText(f.Name)
	email := widget.NewEntry()
	email.SetText(f.Email)
	birth := widget.NewEntry()
	birth.SetText(f.BirthDate)
	birth.SetPlaceHolder(config.PlaceholderDate)
	desc := widget.NewMultiLineEntry()
	desc.SetText(f.Description)

	imageLbl := widget.NewLabel("")
	avatar := canvas.NewImageFromResource(nil)
	avatar.FillMode = canvas.ImageFillContain
	avatar.SetMinSize(fyne.NewSize(config.AvatarSize, config.AvatarSize))
	avatar.Hide()
	if rec != nil && rec.ImageRef != "" {
		app.loadAvatar(st, *rec, avatar)
	}
	chooseImage := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnChooseImage), theme.FileImageIcon(), func() {
		d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
			if err != nil || r == nil {
				return
			}
			defer func() { _ = r.Close() }()
			att, err := form.ReadAttachment(r.URI().Name(), r)
			if err != nil {
				dialog.ShowError(err, parent)
				return
			}
			f.Image = att
			imageLbl.SetText(att.Filename)
			avatar.Resource = fyne.NewStaticResource(att.Filename, att.Data)
			avatar.Show()
			avatar.Refresh()
		}, parent)
		d.SetFilter(storage.NewExtensionFileFilter([]string{
			config.ExtPNG, config.ExtJPG, config.ExtJPEG, config.ExtGIF, config.ExtWEBP,
		}))
		d.Show()
	})

	itemBirth := widget.NewFormItem(app.GetMsg(config.TKeyLblBirthDate), birth)
	itemBirth.HintText = app.GetMsg(config.TKeyHelpBirthDate)

	fields := widget.NewForm(
		widget.NewFormItem(app.GetMsg(config.TKeyLblName), name),
		widget.NewFormItem(app.GetMsg(config.TKeyLblEmail), email),
		itemBirth,
		widget.NewFormItem(app.GetMsg(config.TKeyLblDescription), desc),
		widget.NewFormItem(app.GetMsg(config.TKeyLblImage), container.NewBorder(nil, nil, avatar, chooseImage, imageLbl)),
	)

	errLbl := widget.NewLabel("")
	errLbl.Importance = widget.DangerImportance
	errLbl.Wrapping = fyne.TextWrapWord
	errLbl.Hide()

	showErrors := func(err error) {
		var verr *form.ValidationError
		if errors.As(err, &verr) {
			errLbl.SetText(strings.Join(ValidationLines(verr, app.GetMsg), "\n"))
		} else {
			errLbl.SetText(err.Error())
		}
		errLbl.Show()
	}

	var dlg dialog.Dialog
	var save *widget.Button
	save = widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnSave), theme.DocumentSaveIcon(), func() {
		f.Name = name.Text
		f.Email = email.Text
		f.BirthDate = birth.Text
		f.Description = desc.Text

		if _, err := f.Validate(st.Today()); err != nil {
			showErrors(err)
			return
		}

		save.Disable()
		submitted := f
		go func() {
			err := st.SaveFriend(app.Ctx, submitted)
			fyne.Do(func() {
				save.Enable()
				if app.changeFailed(err) {
					showErrors(err)
					return
				}
				dlg.Hide()
			})
		}()
	})
	save.Importance = widget.HighImportance
	cancel := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnCancel), theme.CancelIcon(), func() { dlg.Hide() })

	content := container.NewVBox(
		fields,
		errLbl,
		container.NewGridWithColumns(config.LayoutColumnsDouble, cancel, save),
	)
	dlg = dialog.NewCustomWithoutButtons(title, content, parent)
	dlg.Resize(fyne.NewSize(config.FormDialogWidth, content.MinSize().Height))
	dlg.Show()
}

// loadAvatar downloads the image of r into img in the background. A failure
// leaves img hidden.
func (app *CongratsApp) loadAvatar(st *state.App, r model.Record, img *canvas.Image) {
	go func() {
		data, err := st.Avatar(app.Ctx, r)
		if err != nil || len(data) == 0 {
			slog.Debug(config.MsgAvatarFailed,
				config.LogKeyComponent, config.CompUI,
				config.LogKeyFriendID, r.ID,
				config.LogKeyError, err)
			return
		}
		fyne.Do(func() {
			img.Resource = fyne.NewStaticResource(path.Base(r.ImageRef), data)
			img.Show()
			img.Refresh()
		})
	}()
}
