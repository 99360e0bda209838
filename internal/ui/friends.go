package ui

import (
	"errors"
	"log/slog"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/tartampluch/go-congrats/internal/collection"
	"github.com/tartampluch/go-congrats/internal/config"
	"github.com/tartampluch/go-congrats/internal/datemath"
	"github.com/tartampluch/go-congrats/internal/model"
	"github.com/tartampluch/go-congrats/internal/stale"
	"github.com/tartampluch/go-congrats/internal/state"
)

// friendsWindow is the searchable, sortable and paginated friends table.
// Its fields are only touched on the UI goroutine.
type friendsWindow struct {
	app *CongratsApp
	win fyne.Window

	search   *widget.Entry
	debounce *state.Debouncer

	table    *widget.Table
	stats    *widget.Label
	status   *widget.Label
	rangeLbl *widget.Label
	pager    *fyne.Container
	size     *widget.Select
	retry    *widget.Button
	edit     *widget.Button
	del      *widget.Button

	res      collection.Result
	query    collection.Query
	loading  bool
	loadErr  error
	selected int64
}

// ShowFriendsWindow opens the friends table, loading it on first use.
func (app *CongratsApp) ShowFriendsWindow() {
	if app.friends != nil && focusExisting(app.friends.win, config.TKeyWinFriends) {
		return
	}
	st := app.current()
	if st == nil {
		return
	}

	slog.Info(config.MsgOpenWindow, config.LogKeyComponent, config.CompUI, config.LogKeyWindow, config.TKeyWinFriends)

	fw := &friendsWindow{
		app:      app,
		win:      app.App.NewWindow(app.GetMsg(config.TKeyWinFriends)),
		debounce: state.NewDebouncer(config.SearchDelay),
	}
	fw.win.Resize(fyne.NewSize(config.FriendsWinWidth, config.FriendsWinHeight))
	fw.win.SetContent(fw.build())
	fw.win.SetOnClosed(func() {
		fw.debounce.Cancel()
		app.friends = nil
	})
	app.friends = fw

	fw.refresh()
	if !st.Friends.Loaded() {
		fw.reload()
	}
	fw.win.Show()
}

func (fw *friendsWindow) build() fyne.CanvasObject {
	app := fw.app

	fw.search = widget.NewEntry()
	fw.search.SetPlaceHolder(app.GetMsg(config.TKeyLblSearch))
	fw.search.OnChanged = func(text string) {
		fw.debounce.Submit(func() {
			fyne.Do(func() { fw.dispatch(collection.SetQuery{Text: text}) })
		})
	}
	// Enter applies the pending search without waiting
	fw.search.OnSubmitted = func(string) { fw.debounce.Flush() }

	add := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnAdd), theme.ContentAddIcon(), func() {
		app.showFriendForm(fw.win, nil)
	})
	fw.edit = widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnEdit), theme.DocumentCreateIcon(), fw.editSelected)
	fw.del = widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnDelete), theme.DeleteIcon(), fw.deleteSelected)
	fw.del.Importance = widget.DangerImportance

	fw.table = widget.NewTableWithHeaders(
		func() (int, int) {
			return len(fw.res.Visible), len(columnKeys)
		},
		func() fyne.CanvasObject {
			return widget.NewLabel(config.TablePlaceholder)
		},
		func(id widget.TableCellID, o fyne.CanvasObject) {
			label := o.(*widget.Label)
			if id.Row >= len(fw.res.Visible) {
				label.SetText("")
				return
			}
			label.SetText(CellText(fw.res.Visible[id.Row], id.Col, fw.today()))
		},
	)
	fw.table.ShowHeaderColumn = false
	fw.table.CreateHeader = func() fyne.CanvasObject {
		return widget.NewButton(config.TablePlaceholder, func() {})
	}
	fw.table.UpdateHeader = func(id widget.TableCellID, o fyne.CanvasObject) {
		btn := o.(*widget.Button)
		key := columnKeys[id.Col]
		btn.SetText(app.GetMsg(columnTitles[id.Col]) + SortIndicator(fw.query, key))
		btn.OnTapped = func() {
			fw.dispatch(collection.SortBy{Key: key})
			slog.Debug(config.MsgSorted,
				config.LogKeyComponent, config.CompUI,
				config.LogKeySortCol, key,
				config.LogKeySortDir, fw.query.Dir)
		}
	}
	fw.table.OnSelected = func(id widget.TableCellID) {
		if id.Row >= 0 && id.Row < len(fw.res.Visible) {
			fw.selected = fw.res.Visible[id.Row].ID
		}
		fw.updateActions()
	}
	fw.table.SetColumnWidth(config.ColIDName, config.ColWidthName)
	fw.table.SetColumnWidth(config.ColIDEmail, config.ColWidthEmail)
	fw.table.SetColumnWidth(config.ColIDDate, config.ColWidthDate)
	fw.table.SetColumnWidth(config.ColIDAge, config.ColWidthAge)

	fw.stats = widget.NewLabel("")
	fw.status = widget.NewLabel("")
	fw.status.Alignment = fyne.TextAlignCenter
	fw.retry = widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnRetry), theme.ViewRefreshIcon(), fw.reload)
	fw.rangeLbl = widget.NewLabel("")
	fw.pager = container.NewHBox()

	options := make([]string, len(collection.PageSizeOptions))
	for i, n := range collection.PageSizeOptions {
		options[i] = strconv.Itoa(n)
	}
	fw.size = widget.NewSelect(options, nil)
	fw.size.SetSelected(strconv.Itoa(fw.currentQuery().PageSize))
	fw.size.OnChanged = func(s string) {
		if n, err := strconv.Atoi(s); err == nil && n != fw.query.PageSize {
			fw.dispatch(collection.SetPageSize{Size: n})
		}
	}

	top := container.NewVBox(
		container.NewBorder(nil, nil, nil, container.NewHBox(add, fw.edit, fw.del), fw.search),
		fw.stats,
	)
	bottom := container.NewVBox(
		container.NewHBox(fw.status, fw.retry),
		container.NewBorder(nil, nil,
			fw.rangeLbl,
			container.NewHBox(widget.NewLabel(app.GetMsg(config.TKeyLblPageSize)), fw.size),
			container.NewCenter(fw.pager)),
	)
	return container.NewBorder(top, bottom, nil, nil, fw.table)
}

func (fw *friendsWindow) views() *state.App {
	return fw.app.current()
}

func (fw *friendsWindow) currentQuery() collection.Query {
	if st := fw.views(); st != nil {
		return st.Friends.Query()
	}
	return collection.DefaultQuery(0)
}

func (fw *friendsWindow) today() (d datemath.Date) {
	if st := fw.views(); st != nil {
		return st.Today()
	}
	return d
}

// reload fetches the collection in the background.
func (fw *friendsWindow) reload() {
	st := fw.views()
	if st == nil {
		return
	}
	fw.loading = true
	fw.loadErr = nil
	fw.refresh()

	go func() {
		_, err := st.Friends.Reload(fw.app.Ctx)
		if errors.Is(err, stale.ErrSuperseded) {
			return
		}
		fyne.Do(func() {
			fw.loading = false
			fw.loadErr = err
			fw.refresh()
		})
	}()
}

// dispatch applies a table action. Rejected actions leave the table as it was.
func (fw *friendsWindow) dispatch(a collection.Action) {
	st := fw.views()
	if st == nil {
		return
	}
	if _, err := st.Friends.Dispatch(a); err != nil {
		slog.Warn(config.ErrInvalidConfig, config.LogKeyComponent, config.CompUI, config.LogKeyError, err)
		return
	}
	fw.refresh()
}

// refresh redraws everything from the current view state.
func (fw *friendsWindow) refresh() {
	st := fw.views()
	if st == nil {
		return
	}
	app := fw.app

	res, err := st.Friends.Result()
	if err != nil {
		slog.Warn(config.ErrInvalidConfig, config.LogKeyComponent, config.CompUI, config.LogKeyError, err)
		return
	}
	fw.res = res
	fw.query = st.Friends.Query()

	stats := st.Friends.Stats()
	fw.stats.SetText(app.Tr(config.TKeyLblStats, map[string]any{
		"Total":    stats.Total,
		"Upcoming": stats.Upcoming,
		"Today":    stats.Today,
	}))
	fw.rangeLbl.SetText(app.Tr(config.TKeyLblRange, map[string]any{
		"Start": res.StartRow(),
		"End":   res.EndRow(),
		"Total": res.TotalFiltered,
	}))

	switch {
	case fw.loading:
		fw.status.SetText(app.GetMsg(config.TKeyLblLoading))
		fw.status.Show()
		fw.retry.Hide()
	case fw.loadErr != nil:
		fw.status.SetText(app.GetMsg(config.TKeyErrLoad))
		fw.status.Show()
		fw.retry.Hidden = !canRetry(fw.loadErr)
		fw.retry.Refresh()
	case res.TotalFiltered == 0:
		fw.status.SetText(app.GetMsg(config.TKeyLblEmpty))
		fw.status.Show()
		fw.retry.Hide()
	default:
		fw.status.Hide()
		fw.retry.Hide()
	}

	fw.rebuildPager()
	if _, ok := st.Friends.Record(fw.selected); !ok {
		fw.selected = 0
		fw.table.UnselectAll()
	}
	fw.updateActions()
	fw.table.Refresh()
}

func (fw *friendsWindow) rebuildPager() {
	fw.pager.RemoveAll()
	if !fw.res.ShowPagination() {
		fw.pager.Refresh()
		return
	}

	prev := widget.NewButtonWithIcon("", theme.NavigateBackIcon(), func() {
		fw.dispatch(collection.StepPage{Delta: -1})
	})
	if !fw.res.HasPrev() {
		prev.Disable()
	}
	fw.pager.Add(prev)

	items := collection.PagerItems(fw.res.Page, fw.res.TotalPages)
	for i, label := range PagerLabels(items) {
		page := items[i]
		if page == collection.Ellipsis {
			fw.pager.Add(widget.NewLabel(label))
			continue
		}
		btn := widget.NewButton(label, func() {
			fw.dispatch(collection.GoToPage{Page: page})
		})
		if page == fw.res.Page {
			btn.Importance = widget.HighImportance
		}
		fw.pager.Add(btn)
	}

	next := widget.NewButtonWithIcon("", theme.NavigateNextIcon(), func() {
		fw.dispatch(collection.StepPage{Delta: 1})
	})
	if !fw.res.HasNext() {
		next.Disable()
	}
	fw.pager.Add(next)
	fw.pager.Refresh()
}

func (fw *friendsWindow) updateActions() {
	if fw.selected == 0 {
		fw.edit.Disable()
		fw.del.Disable()
		return
	}
	fw.edit.Enable()
	fw.del.Enable()
}

func (fw *friendsWindow) selectedRecord() (model.Record, bool) {
	st := fw.views()
	if st == nil || fw.selected == 0 {
		return model.Record{}, false
	}
	return st.Friends.Record(fw.selected)
}

// editSelected opens the edit dialog on the server's current copy of the
// selected record, which also carries the description.
func (fw *friendsWindow) editSelected() {
	r, ok := fw.selectedRecord()
	if !ok {
		return
	}
	st := fw.views()
	app := fw.app
	fw.edit.Disable()
	go func() {
		fresh, err := st.LoadFriend(app.Ctx, r.ID)
		fyne.Do(func() {
			fw.updateActions()
			if err != nil {
				slog.Warn(config.MsgRequestFailed, config.LogKeyComponent, config.CompUI, config.LogKeyError, err)
				dialog.ShowError(err, fw.win)
				return
			}
			app.showFriendForm(fw.win, &fresh)
		})
	}()
}

func (fw *friendsWindow) deleteSelected() {
	r, ok := fw.selectedRecord()
	if !ok {
		return
	}
	app := fw.app
	msg := app.Tr(config.TKeyConfirmDelete, map[string]any{"Name": r.DisplayName})
	dialog.ShowConfirm(app.GetMsg(config.TKeyBtnDelete), msg, func(confirmed bool) {
		if !confirmed {
			return
		}
		st := fw.views()
		go func() {
			err := st.DeleteFriend(app.Ctx, r.ID)
			fyne.Do(func() {
				if app.changeFailed(err) {
					dialog.ShowError(err, fw.win)
				}
			})
		}()
	}, fw.win)
}
