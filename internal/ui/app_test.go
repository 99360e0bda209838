package ui

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/tartampluch/go-congrats/internal/api"
	"github.com/tartampluch/go-congrats/internal/calendar"
	"github.com/tartampluch/go-congrats/internal/collection"
	"github.com/tartampluch/go-congrats/internal/config"
	"github.com/tartampluch/go-congrats/internal/datemath"
	"github.com/tartampluch/go-congrats/internal/engine"
	"github.com/tartampluch/go-congrats/internal/form"
	"github.com/tartampluch/go-congrats/internal/model"
	"github.com/tartampluch/go-congrats/internal/server"
	"github.com/tartampluch/go-congrats/internal/stale"
	"github.com/tartampluch/go-congrats/internal/state"
)

// -----------------------------------------------------------------------------
// Mocks
// -----------------------------------------------------------------------------

// MockFetcher simulates the engine.VCardFetcher interface using testify/mock.
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Fetch(ctx context.Context, url, user, pass string) (io.ReadCloser, error) {
	args := m.Called(ctx, url, user, pass)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

// MockClock controls time for deterministic testing.
type MockClock struct {
	CurrentTime time.Time
}

func (m MockClock) Now() time.Time {
	return m.CurrentTime
}

// MockTray implements minimal system tray functionality for headless testing.
type MockTray struct {
	Menu *fyne.Menu
}

func (m *MockTray) SetSystemTrayMenu(menu *fyne.Menu) {
	m.Menu = menu
}

func (m *MockTray) SetSystemTrayIcon(icon fyne.Resource) {}
func (m *MockTray) SetSystemTrayWindow(w fyne.Window)    {}
func (m *MockTray) Run()                                 {}
func (m *MockTray) Quit()                                {}

// MockBackend stands in for the REST client.
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) AllFriends(ctx context.Context) ([]model.Record, error) {
	args := m.Called(ctx)
	if r := args.Get(0); r != nil {
		return r.([]model.Record), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBackend) ListFriends(ctx context.Context, page, size int) (api.Listing, error) {
	args := m.Called(ctx, page, size)
	return args.Get(0).(api.Listing), args.Error(1)
}

func (m *MockBackend) DayData(ctx context.Context, start, end datemath.Date) (calendar.DaySeries, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).(calendar.DaySeries), args.Error(1)
}

func (m *MockBackend) FriendsByDate(ctx context.Context, date datemath.Date) ([]model.DayEntry, error) {
	args := m.Called(ctx, date)
	if e := args.Get(0); e != nil {
		return e.([]model.DayEntry), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBackend) CreateCongratulation(ctx context.Context, friendID int64, date datemath.Date) (datemath.Date, error) {
	args := m.Called(ctx, friendID, date)
	return args.Get(0).(datemath.Date), args.Error(1)
}

func (m *MockBackend) GetFriend(ctx context.Context, id int64) (model.Record, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Record), args.Error(1)
}

func (m *MockBackend) Image(ctx context.Context, ref string) ([]byte, error) {
	args := m.Called(ctx, ref)
	if d := args.Get(0); d != nil {
		return d.([]byte), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBackend) CreateFriend(ctx context.Context, s form.Submission) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockBackend) UpdateFriend(ctx context.Context, s form.Submission) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockBackend) DeleteFriend(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// -----------------------------------------------------------------------------
// Test Setup Helper
// -----------------------------------------------------------------------------

var testNow = time.Date(2025, time.June, 15, 9, 0, 0, 0, time.UTC)

func testFriends() []model.Record {
	return []model.Record{
		{ID: 1, DisplayName: "Анна Иванова", BirthDate: datemath.New(1990, time.June, 15)},
		{ID: 2, DisplayName: "Борис Петров", BirthDate: datemath.New(1985, time.June, 17)},
		{ID: 3, DisplayName: "Вера Сидорова", BirthDate: datemath.New(2000, time.December, 1)},
		{ID: 4, DisplayName: "Глеб Орлов", RawBirthDate: "unknown"},
	}
}

// expectReads allows every read a refresh issues. Anna is today's birthday.
func expectReads(b *MockBackend) {
	b.On("ListFriends", mock.Anything, mock.Anything, mock.Anything).
		Return(api.Listing{Kind: api.Paged, Records: testFriends(), TotalPages: 1}, nil).Maybe()
	b.On("DayData", mock.Anything, mock.Anything, mock.Anything).Return(calendar.DaySeries{
		Expected: map[string]int{"2025-06-15": 1},
		Greeted:  map[string]int{},
	}, nil).Maybe()
	b.On("FriendsByDate", mock.Anything, mock.Anything).
		Return([]model.DayEntry{{Record: testFriends()[0]}}, nil).Maybe()
}

// setupTestApp initializes a headless Fyne app with mocked dependencies.
func setupTestApp(t *testing.T) (*CongratsApp, *MockBackend, *MockFetcher, *MockTray) {
	// Initialize headless driver
	a := test.NewApp()

	// Use port "0" to bind to any free port during tests
	srv := server.NewFeedServer("0")
	fetcher := new(MockFetcher)
	backend := new(MockBackend)
	mockTray := &MockTray{}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	settings := config.DefaultSettings()
	settings.Language = "en"
	path := filepath.Join(t.TempDir(), config.SettingsFileName)

	app := NewCongratsApp(a, ctx, settings, path, srv, fetcher)

	// Inject mocks
	app.Tray = mockTray
	app.Clock = MockClock{CurrentTime: testNow}

	// Manually load I18n as Run() is skipped
	app.SetupI18n()
	app.UseBackend(backend)

	return app, backend, fetcher, mockTray
}

// -----------------------------------------------------------------------------
// Localization Tests
// -----------------------------------------------------------------------------

func TestLocalization_Switching(t *testing.T) {
	app, _, _, _ := setupTestApp(t)

	// Case 1: English (Default)
	app.Settings.Language = "en"
	app.UpdateLocalizer()
	assert.Equal(t, "Settings...", app.GetMsg(config.TKeyMenuSettings))

	// Case 2: Russian
	app.Settings.Language = "ru"
	app.UpdateLocalizer()
	assert.Equal(t, "Настройки...", app.GetMsg(config.TKeyMenuSettings))

	// Case 3: Unknown key falls back to the key itself
	assert.Equal(t, "no_such_key", app.GetMsg("no_such_key"))
}

func TestLocalization_Plural(t *testing.T) {
	app, _, _, _ := setupTestApp(t)

	assert.Equal(t, "In 1 day", app.TrPlural(config.TKeyDaysIn, 1, nil))
	assert.Equal(t, "In 5 days", app.TrPlural(config.TKeyDaysIn, 5, nil))

	app.Settings.Language = "ru"
	app.UpdateLocalizer()
	assert.Equal(t, "Через 1 день", app.TrPlural(config.TKeyDaysIn, 1, nil))
	assert.Equal(t, "Через 2 дня", app.TrPlural(config.TKeyDaysIn, 2, nil))
	assert.Equal(t, "Через 5 дней", app.TrPlural(config.TKeyDaysIn, 5, nil))
	assert.Equal(t, "Через 21 день", app.TrPlural(config.TKeyDaysIn, 21, nil))
}

func TestLocalization_ProximityText(t *testing.T) {
	app, _, _, _ := setupTestApp(t)

	assert.Equal(t, app.GetMsg(config.TKeyDaysToday), app.proximityText(0, true))
	assert.Equal(t, app.GetMsg(config.TKeyDaysTomorrow), app.proximityText(1, true))
	assert.Equal(t, "In 3 days", app.proximityText(3, true))
	assert.Equal(t, app.GetMsg(config.TKeyDaysUnknown), app.proximityText(0, false))
}

func TestLocalization_SummaryFormatter(t *testing.T) {
	app, _, _, _ := setupTestApp(t)

	formatter := app.buildSummaryFormatter()

	// Scenario 1: Age > 0
	res := formatter("Alice", 30)
	assert.Equal(t, "Alice's birthday (30)", res)

	// Scenario 2: Year of birth
	res = formatter("Baby", 0)
	assert.Contains(t, res, "Baby")
	assert.Contains(t, res, "birth", "Should indicate birth for age 0")
	assert.NotContains(t, res, "(0)")

	// Scenario 3: Russian
	app.Settings.Language = "ru"
	app.UpdateLocalizer()
	assert.Equal(t, "День рождения: Alice (30)", formatter("Alice", 30))
}

// -----------------------------------------------------------------------------
// Configuration Tests
// -----------------------------------------------------------------------------

func TestReminderTrigger_FromSettings(t *testing.T) {
	app, _, _, _ := setupTestApp(t)

	app.Settings.Reminder = config.ReminderSettings{Enabled: false, Value: 2, Unit: config.UnitDays, Direction: config.DirBefore}
	assert.Empty(t, app.reminderTrigger())

	// -P2D matches ISO8601 for "2 Days Before"
	app.Settings.Reminder.Enabled = true
	assert.Equal(t, config.ISONegativePrefix+"2"+config.ISODay, app.reminderTrigger())

	app.Settings.Reminder = config.ReminderSettings{Enabled: true, Value: 3, Unit: config.UnitHours, Direction: config.DirAfter}
	assert.Equal(t, "PT3H", app.reminderTrigger())
}

func TestLookup(t *testing.T) {
	labels := map[string]string{config.WeekStartMonday: "Monday", config.WeekStartSunday: "Sunday"}

	assert.Equal(t, config.WeekStartSunday, lookup(labels, "Sunday", config.WeekStartMonday))
	assert.Equal(t, config.WeekStartMonday, lookup(labels, "", config.WeekStartMonday))
}

func TestValidateBaseURL(t *testing.T) {
	assert.NoError(t, validateBaseURL("http://localhost:8080"))
	assert.Error(t, validateBaseURL("ftp://example.com"))
	assert.Error(t, validateBaseURL("not a url"))
}

func TestUseBackend_WeekStart(t *testing.T) {
	app, backend, _, _ := setupTestApp(t)

	app.Settings.WeekStart = config.WeekStartSunday
	app.UseBackend(backend)

	grid := app.current().Calendar.Grid()
	require.Len(t, grid.Cells, calendar.GridCells)
	assert.Equal(t, time.Sunday, grid.Cells[0].Date.Weekday())
}

func TestScheduler_Reschedule(t *testing.T) {
	app, _, _, _ := setupTestApp(t)

	require.NoError(t, app.startScheduler())
	first := app.entryID

	app.Settings.RefreshCron = "*/5 * * * *"
	require.NoError(t, app.startScheduler())

	assert.NotEqual(t, first, app.entryID)
	assert.Len(t, app.scheduler.Entries(), 1, "the previous job must be removed")

	app.Settings.RefreshCron = "every now and then"
	assert.Error(t, app.startScheduler())
}

// -----------------------------------------------------------------------------
// Backend Connection Tests
// -----------------------------------------------------------------------------

// backendServer answers the reads of a refresh with empty data and serves a
// friends page carrying meta.
func backendServer(t *testing.T, meta string, deletes *atomic.Int32) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == config.PathFriendsPage:
			ck, err := r.Cookie(config.SessionCookie)
			if assert.NoError(t, err, "the session is sent with the page request") {
				assert.Equal(t, "abc", ck.Value)
			}
			_, _ = io.WriteString(w, "<!doctype html><html><head>"+meta+"</head><body></body></html>")
		case r.Method == http.MethodDelete && r.URL.Path == config.PathFriendDelete+"7":
			assert.Equal(t, "tok-1", r.Header.Get(config.DefaultCSRFHeader))
			deletes.Add(1)
		case r.URL.Path == config.PathDayData:
			_, _ = io.WriteString(w, `{}`)
		default:
			_, _ = io.WriteString(w, `[]`)
		}
	}))
	t.Cleanup(ts.Close)
	return ts
}

func connectTo(t *testing.T, baseURL string) *CongratsApp {
	t.Helper()
	keyring.MockInit()
	require.NoError(t, keyring.Set(config.KeyringService, config.KeyringSessionKey, "abc"))

	app, _, _, _ := setupTestApp(t)
	app.Settings.Username = ""
	app.Settings.BaseURL = baseURL
	require.NoError(t, app.Connect())
	return app
}

func TestConnect_ReadsTokenThenDeletes(t *testing.T) {
	var deletes atomic.Int32
	ts := backendServer(t, `<meta name="_csrf" content="tok-1"><meta name="_csrf_header" content="`+config.DefaultCSRFHeader+`">`, &deletes)

	app := connectTo(t, ts.URL)

	err := app.current().DeleteFriend(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, int32(1), deletes.Load())
}

func TestConnect_WithoutTokenRefusesChanges(t *testing.T) {
	var deletes atomic.Int32
	ts := backendServer(t, "", &deletes)

	app := connectTo(t, ts.URL)
	require.NotNil(t, app.current(), "the views load without a token")

	err := app.current().DeleteFriend(context.Background(), 7)

	require.ErrorIs(t, err, api.ErrSecurityPrecondition)
	assert.Zero(t, deletes.Load())
}

// -----------------------------------------------------------------------------
// Change Outcome Tests
// -----------------------------------------------------------------------------

func TestChangeFailed_StoredChangeIsNotAFailure(t *testing.T) {
	app, backend, _, _ := setupTestApp(t)
	backend.On("AllFriends", mock.Anything).Return(testFriends(), nil)
	expectReads(backend)
	require.NoError(t, app.current().Refresh(app.Ctx))

	app.ShowFriendsWindow()
	fw := app.friends
	require.NotNil(t, fw)
	cw := &calendarWindow{app: app, win: app.App.NewWindow("calendar"), sending: map[int64]bool{}}
	cw.win.SetContent(cw.build())
	app.calendar = cw

	// Accepted and reloaded
	assert.False(t, app.changeFailed(nil))
	assert.True(t, cw.errLbl.Hidden)

	// Refused by the server: the caller keeps its dialog or shows an error
	assert.True(t, app.changeFailed(errors.New("403 Forbidden")))
	assert.Nil(t, fw.loadErr)

	// Stored, then the reload failed
	stored := stale.AfterChange(&api.NetworkError{Op: config.OpDayData, Status: http.StatusServiceUnavailable})
	assert.False(t, app.changeFailed(stored), "a stored change must not be submitted again")
	assert.Equal(t, app.GetMsg(config.TKeyErrLoad), fw.status.Text)
	assert.False(t, fw.retry.Hidden)
	assert.False(t, cw.errLbl.Hidden)
	assert.False(t, cw.retry.Hidden)
	assert.NotNil(t, cw.failed)

	// The next successful refresh clears both notices
	app.performSync(false)
	assert.Nil(t, fw.loadErr)
	assert.True(t, cw.errLbl.Hidden)
	assert.True(t, cw.retry.Hidden)
	assert.Nil(t, cw.failed)
}

func TestCalendarWindow_RetryOnlyWhenUseful(t *testing.T) {
	app, _, _, _ := setupTestApp(t)
	cw := &calendarWindow{app: app, win: app.App.NewWindow("calendar"), sending: map[int64]bool{}}
	cw.win.SetContent(cw.build())

	fn := func(ctx context.Context, st *state.App) error { return nil }

	cw.showError(&api.NetworkError{Op: config.OpDayData, Err: errors.New("connection refused")}, fn)
	assert.False(t, cw.errLbl.Hidden)
	assert.False(t, cw.retry.Hidden)

	cw.showError(&api.NetworkError{Op: config.OpDayData, Status: http.StatusNotFound}, fn)
	assert.False(t, cw.errLbl.Hidden)
	assert.True(t, cw.retry.Hidden, "a 404 will not go away on retry")

	cw.showError(nil, nil)
	assert.True(t, cw.errLbl.Hidden)
	assert.True(t, cw.retry.Hidden)
}

func TestFriendsWindow_EditLoadsRecordByID(t *testing.T) {
	app, backend, _, _ := setupTestApp(t)
	backend.On("AllFriends", mock.Anything).Return(testFriends(), nil)
	expectReads(backend)
	full := testFriends()[1]
	full.Description = "school friend"
	backend.On("GetFriend", mock.Anything, int64(2)).Return(full, nil).Once()
	require.NoError(t, app.current().Refresh(app.Ctx))

	app.ShowFriendsWindow()
	fw := app.friends
	fw.selected = 2
	fw.editSelected()

	require.Eventually(t, func() bool {
		return len(fw.win.Canvas().Overlays().List()) > 0
	}, time.Second, 10*time.Millisecond, "the edit dialog opens once the record is loaded")
	backend.AssertExpectations(t)
}

func TestLoadAvatar(t *testing.T) {
	app, backend, _, _ := setupTestApp(t)
	r := testFriends()[0]
	r.ImageRef = "/api/friends/1/image.png"
	backend.On("Image", mock.Anything, r.ImageRef).Return([]byte("png-bytes"), nil).Once()

	img := canvas.NewImageFromResource(nil)
	img.Hide()
	app.loadAvatar(app.current(), r, img)

	require.Eventually(t, func() bool { return img.Visible() }, time.Second, 10*time.Millisecond)
	assert.Equal(t, "image.png", img.Resource.Name())
	assert.Equal(t, []byte("png-bytes"), img.Resource.Content())
}

// -----------------------------------------------------------------------------
// Sync Logic Integration Tests
// -----------------------------------------------------------------------------

func TestPerformSync_Success(t *testing.T) {
	app, backend, _, mockTray := setupTestApp(t)
	app.setupTrayMenu()

	backend.On("AllFriends", mock.Anything).Return(testFriends(), nil)
	expectReads(backend)

	app.performSync(false)

	backend.AssertExpectations(t)

	require.NotNil(t, mockTray.Menu)
	assert.Equal(t, "1 birthday today", app.TrayStatusItem.Label)
	assert.Equal(t, datemath.New(2025, time.June, 15), app.notifiedOn)

	// The feed is published with one event per known birthday
	require.True(t, app.Server.Ready())
	rec := httptest.NewRecorder()
	app.Server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, config.RouteFeed, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "BEGIN:VCALENDAR")
	assert.Contains(t, rec.Body.String(), "Анна Иванова")
	assert.NotContains(t, rec.Body.String(), "Глеб Орлов")
}

func TestPerformSync_Failure(t *testing.T) {
	app, backend, _, _ := setupTestApp(t)
	app.setupTrayMenu()

	backend.On("AllFriends", mock.Anything).Return(nil, errors.New("connection refused"))
	expectReads(backend)

	app.performSync(true)

	backend.AssertExpectations(t)
	assert.Equal(t, config.FallbackTrayError, app.TrayStatusItem.Label)
	assert.False(t, app.Server.Ready(), "nothing is published before a successful load")
}

func TestPerformSync_NotifiesOncePerDay(t *testing.T) {
	app, _, _, _ := setupTestApp(t)

	anna := testFriends()[:1]
	app.notifyToday(datemath.New(2025, time.June, 15), anna)
	assert.Equal(t, datemath.New(2025, time.June, 15), app.notifiedOn)

	// Nothing to announce keeps the last day
	app.notifyToday(datemath.New(2025, time.June, 16), nil)
	assert.Equal(t, datemath.New(2025, time.June, 15), app.notifiedOn)
}

func TestTrayStatusUpdate_Logic(t *testing.T) {
	app, _, _, mockTray := setupTestApp(t)
	app.setupTrayMenu()

	// 1. Error Case
	app.updateTrayStatus(-1)
	assert.Equal(t, config.FallbackTrayError, app.TrayStatusItem.Label)

	// 2. Zero Case (Explicit check for "No birthdays today")
	app.updateTrayStatus(0)
	assert.Equal(t, "No birthdays today", app.TrayStatusItem.Label, "Should use explicit zero string")

	// 3. Positive Case
	app.updateTrayStatus(10)
	assert.Equal(t, "10 birthdays today", app.TrayStatusItem.Label)

	// Ensure refresh was called on the menu
	assert.NotNil(t, mockTray.Menu)
}

func TestRefreshTrayMenu_Language(t *testing.T) {
	app, _, _, _ := setupTestApp(t)
	app.setupTrayMenu()

	app.Settings.Language = "ru"
	app.UpdateLocalizer()
	app.RefreshTrayMenu()

	assert.Equal(t, "Настройки...", app.TraySettingsItem.Label)
}

// -----------------------------------------------------------------------------
// Import Tests
// -----------------------------------------------------------------------------

func TestRunImport_CreatesFriends(t *testing.T) {
	app, backend, fetcher, _ := setupTestApp(t)
	app.setupTrayMenu()

	book := "BEGIN:VCARD\nVERSION:3.0\nFN:Success User\nBDAY:19900615\nEND:VCARD\n" +
		"BEGIN:VCARD\nVERSION:4.0\nFN:No Year\nBDAY:--0515\nEND:VCARD\n"
	fetcher.On("Fetch", mock.Anything, "http://dav.local/book.vcf", "admin", "secret").
		Return(io.NopCloser(bytes.NewBufferString(book)), nil)

	backend.On("CreateFriend", mock.Anything, mock.MatchedBy(func(s form.Submission) bool {
		return s.Name == "Success User" && s.BirthDate == datemath.New(1990, time.June, 15)
	})).Return(nil).Once()
	backend.On("AllFriends", mock.Anything).Return(testFriends(), nil)
	expectReads(backend)

	msg, err := app.runImport(engine.ImportSource{
		Mode: config.SourceModeWeb,
		URL:  "http://dav.local/book.vcf",
		User: "admin",
		Pass: "secret",
	})

	require.NoError(t, err)
	assert.Equal(t, "Imported 1 friends, 1 skipped, 0 failed.", msg)
	fetcher.AssertExpectations(t)
	backend.AssertExpectations(t)
	assert.True(t, app.Server.Ready(), "an import republishes the feed")
	assert.Equal(t, "1 birthday today", app.TrayStatusItem.Label)
}

func TestRunImport_FetchError(t *testing.T) {
	app, backend, fetcher, _ := setupTestApp(t)

	fetcher.On("Fetch", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused"))

	_, err := app.runImport(engine.ImportSource{Mode: config.SourceModeWeb, URL: "http://dav.local"})

	assert.Error(t, err)
	backend.AssertNotCalled(t, "CreateFriend", mock.Anything, mock.Anything)
}

// -----------------------------------------------------------------------------
// Window Tests
// -----------------------------------------------------------------------------

func TestFriendsWindow_SearchAndStats(t *testing.T) {
	app, backend, _, _ := setupTestApp(t)
	backend.On("AllFriends", mock.Anything).Return(testFriends(), nil)
	expectReads(backend)
	require.NoError(t, app.current().Refresh(app.Ctx))

	app.ShowFriendsWindow()
	fw := app.friends
	require.NotNil(t, fw)

	assert.Len(t, fw.res.Visible, 4)
	assert.Contains(t, fw.stats.Text, "Total: 4")
	assert.Contains(t, fw.stats.Text, "Today: 1")
	assert.True(t, fw.status.Hidden)

	fw.dispatch(collection.SetQuery{Text: "  борис "})
	require.Len(t, fw.res.Visible, 1)
	assert.Equal(t, int64(2), fw.res.Visible[0].ID)

	fw.dispatch(collection.SetQuery{Text: "nobody"})
	assert.Empty(t, fw.res.Visible)
	assert.Equal(t, app.GetMsg(config.TKeyLblEmpty), fw.status.Text)

	// A second open only focuses the existing window
	app.ShowFriendsWindow()
	assert.Same(t, fw, app.friends)

	fw.win.Close()
	assert.Nil(t, app.friends)
}

func TestCalendarWindow_Refresh(t *testing.T) {
	app, backend, _, _ := setupTestApp(t)
	backend.On("AllFriends", mock.Anything).Return(testFriends(), nil)
	expectReads(backend)
	require.NoError(t, app.current().Refresh(app.Ctx))

	// Built by hand to skip the background load of ShowCalendarWindow
	cw := &calendarWindow{app: app, win: app.App.NewWindow("calendar"), sending: map[int64]bool{}}
	cw.win.SetContent(cw.build())
	app.calendar = cw
	cw.refresh()

	assert.Equal(t, "June 2025", cw.title.Text)
	assert.Equal(t, "15.06.2025", cw.dayTitle.Text)

	var todayCell *widget.Button
	for _, c := range cw.cells {
		if c.Text == "[15]" {
			todayCell = c
		}
	}
	require.NotNil(t, todayCell, "today is bracketed")
	assert.NotEqual(t, widget.MediumImportance, todayCell.Importance, "a day with a pending birthday is coloured")

	var greet *widget.Button
	for _, row := range cw.day.Objects {
		c, ok := row.(*fyne.Container)
		if !ok {
			continue
		}
		for _, o := range c.Objects {
			if b, ok := o.(*widget.Button); ok {
				greet = b
			}
		}
	}
	require.NotNil(t, greet, "today's friend can be congratulated")
	assert.Equal(t, app.GetMsg(config.TKeyBtnCongratulate), greet.Text)
	assert.False(t, greet.Disabled())

	assert.NotEmpty(t, cw.upcoming.Objects)
}
