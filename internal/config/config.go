package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client.
var UserAgent = "Go-Congrats/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go Congrats"
	AppID             = "com.github.tartampluch.go-congrats"
	KeyringService    = "com.github.tartampluch.go-congrats"
	KeyringSessionKey = "session"
	KeyringImportKey  = "carddav:"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
	SettingsFileName  = "settings.yaml"
	EnvFileName       = ".env"
	EnvPrefix         = "CONGRATS_"
	IconFile          = "Icon.png"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW is -rw------- for logs and the settings file.
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX is drwx------ for the cache and config directories.
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize is the buffer of internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion      = "version"
	FlagDebug        = "debug"
	FlagConfig       = "config"
	FlagDescVersion  = "Show application version and exit"
	FlagDescDebug    = "Enable debug logging to stdout"
	FlagDescConfig   = "Path to the settings file (default: user config dir)"
	MsgVersionOutput = "%s version %s (%s/%s)\n"
)

// -----------------------------------------------------------------------------
// Settings Defaults & Limits
// -----------------------------------------------------------------------------

const (
	DefaultBaseURL       = "http://localhost:8080"
	DefaultPort          = "18080"
	DefaultLanguage      = "ru"
	DefaultCollation     = "ru"
	DefaultRefreshCron   = "*/30 * * * *"
	DefaultWeekStart     = WeekStartMonday
	DefaultPageSize      = 12
	DefaultReminderValue = 1
	UpcomingPageSize     = 5

	WeekStartMonday = "monday"
	WeekStartSunday = "sunday"

	MinPort = 1
	MaxPort = 65535

	// SearchDelay is the pause after the last keystroke before filtering.
	SearchDelay = 300 * time.Millisecond
)

// PageSizeOptions are the sizes offered by the friends table.
var PageSizeOptions = []int{6, 12, 24, 48}

// SupportedLanguages is the fallback list when no locale file is embedded.
var SupportedLanguages = []string{"en", "ru"}

// -----------------------------------------------------------------------------
// UI Layout Constants
// -----------------------------------------------------------------------------

const (
	SettingsWindowWidth = 600

	FriendsWinWidth   = 760
	FriendsWinHeight  = 520
	CalendarWinWidth  = 820
	CalendarWinHeight = 560
	ImportWinWidth    = 520
	FormDialogWidth   = 460
	AvatarSize        = 64

	// Table Column IDs
	ColIDName  = 0
	ColIDEmail = 1
	ColIDDate  = 2
	ColIDAge   = 3

	ColWidthName  = 240
	ColWidthEmail = 220
	ColWidthDate  = 120
	ColWidthAge   = 80

	DaysPerWeek         = 7
	LayoutColumnsDouble = 2

	DateFormatDisplay = "02.01.2006"
	TablePlaceholder  = "Cell Content"
	AgeUnknown        = "—"
	PagerEllipsis     = "…"
	ListSeparator     = ","

	SortIconAsc  = " ▲"
	SortIconDesc = " ▼"
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	// Tray & notifications
	TKeyMenuFriends    = "menu_friends"
	TKeyMenuCalendar   = "menu_calendar"
	TKeyMenuRefresh    = "menu_refresh"
	TKeyMenuImport     = "menu_import"
	TKeyMenuSettings   = "menu_settings"
	TKeyTrayStatus     = "tray_status"      // Count > 0
	TKeyTrayStatusZero = "tray_status_zero" // explicit key for 0
	TKeyNotifStart     = "notif_sync_start"
	TKeyNotifSuccess   = "notif_sync_success"
	TKeyNotifError     = "notif_err_sync"
	TKeyNotifToday     = "notif_today" // Name

	// Window titles
	TKeyWinSettings   = "win_settings_title"
	TKeyWinFriends    = "win_friends_title"
	TKeyWinCalendar   = "win_calendar_title"
	TKeyWinImport     = "win_import_title"
	TKeyWinFriendNew  = "win_friend_new"
	TKeyWinFriendEdit = "win_friend_edit"

	// Friends table
	TKeyColName       = "col_name"
	TKeyColEmail      = "col_email"
	TKeyColDate       = "col_date"
	TKeyColAge        = "col_age"
	TKeyLblSearch     = "lbl_search"
	TKeyLblPageSize   = "lbl_page_size"
	TKeyLblStats      = "lbl_stats" // Total, Upcoming, Today
	TKeyLblRange      = "lbl_range" // Start, End, Total
	TKeyLblEmpty      = "lbl_empty"
	TKeyLblLoading    = "lbl_loading"
	TKeyBtnAdd        = "btn_add"
	TKeyBtnEdit       = "btn_edit"
	TKeyBtnDelete     = "btn_delete"
	TKeyConfirmDelete = "confirm_delete" // Name
	TKeyBtnRetry      = "btn_retry"
	TKeyErrLoad       = "err_load"

	// Friend form
	TKeyLblName        = "lbl_name"
	TKeyLblEmail       = "lbl_email"
	TKeyLblBirthDate   = "lbl_birth_date"
	TKeyHelpBirthDate  = "help_birth_date"
	TKeyLblDescription = "lbl_description"
	TKeyLblImage       = "lbl_image"
	TKeyBtnChooseImage = "btn_choose_image"

	// Validation errors (form)
	TKeyErrNameShort    = "err_name_short"
	TKeyErrEmail        = "err_email"
	TKeyErrDateRequired = "err_date_required"
	TKeyErrDateInvalid  = "err_date_invalid"
	TKeyErrDateFuture   = "err_date_future"
	TKeyErrImageSize    = "err_image_size"
	TKeyErrImageType    = "err_image_type"

	// Calendar & day panel
	TKeyBtnToday          = "btn_today"
	TKeyMonths            = "months"   // comma separated, January first
	TKeyWeekdays          = "weekdays" // comma separated, Monday first
	TKeyLblDayEmpty       = "lbl_day_empty"
	TKeyBtnCongratulate   = "btn_congratulate"
	TKeyLblCongratulated  = "lbl_congratulated"
	TKeyLblNotToday       = "lbl_not_today"
	TKeyLblUpcoming       = "lbl_upcoming"
	TKeyDaysToday         = "days_today"
	TKeyDaysTomorrow      = "days_tomorrow"
	TKeyDaysIn            = "days_in" // Count, plural
	TKeyDaysUnknown       = "days_unknown"
	TKeyStatusNoFriends   = "status_no_friends"
	TKeyStatusAll         = "status_all"
	TKeyStatusPartial     = "status_partial"
	TKeyStatusNone        = "status_none"
	TKeyLblLegend         = "lbl_legend"
	TKeyErrCongratulation = "err_congratulation"

	// Settings
	TKeyLblServer    = "lbl_server"
	TKeyLblBaseURL   = "lbl_base_url"
	TKeyHelpBaseURL  = "help_base_url"
	TKeyLblUser      = "lbl_user"
	TKeyLblSession   = "lbl_session"
	TKeyHelpSession  = "help_session"
	TKeyLblGeneral   = "lbl_general"
	TKeyLblLanguage  = "lbl_language"
	TKeyHelpLanguage = "help_language"
	TKeyLblRefresh   = "lbl_refresh_cron"
	TKeyHelpRefresh  = "help_refresh_cron"
	TKeyLblPort      = "lbl_server_port"
	TKeyHelpPort     = "help_port"
	TKeyLblFeedURL   = "lbl_feed_url"
	TKeyLblWeekStart = "lbl_week_start"
	TKeyWeekMonday   = "week_monday"
	TKeyWeekSunday   = "week_sunday"
	TKeyLblNotif     = "lbl_notifications"
	TKeyLblEnableRem = "lbl_enable_reminders"
	TKeyUnitDays     = "unit_days"
	TKeyUnitHours    = "unit_hours"
	TKeyUnitMinutes  = "unit_minutes"
	TKeyDirBefore    = "dir_before"
	TKeyDirAfter     = "dir_after"
	TKeyLblStartDay  = "lbl_start_of_day"
	TKeyBtnSave      = "btn_save"
	TKeyBtnCancel    = "btn_cancel"
	TKeyLblFooter    = "lbl_footer"
	TKeyErrPortReq   = "err_port_required"
	TKeyErrPortNum   = "err_port_number"
	TKeyErrPortRange = "err_port_range"
	TKeyErrCron      = "err_cron"
	TKeyErrBaseURL   = "err_base_url"

	// vCard import
	TKeyLblSource   = "lbl_source"
	TKeyModeCardDAV = "mode_carddav"
	TKeyModeLocal   = "mode_local"
	TKeyLblURL      = "lbl_url"
	TKeyHelpURL     = "help_carddav_url"
	TKeyLblPass     = "lbl_pass"
	TKeyBtnBrowse   = "btn_browse"
	TKeyBtnImport   = "btn_import"
	TKeyImportDone  = "import_done" // Created, Invalid, Failed

	// Feed events
	TKeyEvtSummaryAge   = "event_summary_age"   // Name, Age
	TKeyEvtSummaryBirth = "event_summary_birth" // Name, for age 0
)

// -----------------------------------------------------------------------------
// Backend API
// -----------------------------------------------------------------------------

const (
	PathFriendsPage     = "/friends"
	PathFriendsUpcoming = "/api/friends/upcoming"
	PathFriends         = "/api/friends/"
	PathFriendsByDate   = "/api/friends/by-date"
	PathDayData         = "/api/calendar/day-data"
	PathCongratulate    = "/api/congratulation/create"
	PathFriendCreate    = "/api/friends/create"
	PathFriendUpdate    = "/api/friends/update"
	PathFriendDelete    = "/api/friends/delete/"

	// Multipart part names of the create and update forms
	PartName        = "FIO"
	PartEmail       = "email"
	PartBirthDate   = "dateOfBirth"
	PartDescription = "description"
	PartImage       = "image"
	PartID          = "id"

	// Anti-forgery and session
	CSRFCookie        = "XSRF-TOKEN"
	DefaultCSRFHeader = "X-CSRF-TOKEN"
	MetaCSRF          = "_csrf"
	MetaCSRFHeader    = "_csrf_header"
	SessionCookie     = "JSESSIONID"

	// Operation names used in errors and logs
	OpRefreshToken  = "refresh token"
	OpListFriends   = "list friends"
	OpGetFriend     = "get friend"
	OpFriendsByDate = "friends by date"
	OpDayData       = "day data"
	OpCongratulate  = "congratulate"
	OpCreateFriend  = "create friend"
	OpUpdateFriend  = "update friend"
	OpDeleteFriend  = "delete friend"
	OpImage         = "image"
)

// -----------------------------------------------------------------------------
// Reminder Units & Directions
// -----------------------------------------------------------------------------

const (
	UnitDays    = "d"
	UnitHours   = "h"
	UnitMinutes = "m"
	DirBefore   = "before"
	DirAfter    = "after"
)

// ISO8601 duration components for reminders
const (
	ISOPeriodPrefix   = "P"
	ISONegativePrefix = "-P"
	ISODay            = "D"
	ISOHour           = "H"
	ISOMinute         = "M"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	ICalVersion   = "2.0"
	ICalProdid    = "-//Go Congrats//Feed//EN"
	ICalCalName   = "Birthdays"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "gocongrats"

	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropRefresh     = "REFRESH-INTERVAL"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropTrigger     = "TRIGGER"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	VCardBDAY = "BDAY"
	VCardFN   = "FN"

	SourceModeWeb   = "web"
	SourceModeLocal = "local"

	ExtVCF   = ".vcf"
	ExtVCard = ".vcard"
	ExtPNG   = ".png"
	ExtJPG   = ".jpg"
	ExtJPEG  = ".jpeg"
	ExtGIF   = ".gif"
	ExtWEBP  = ".webp"

	DefaultICalRefresh = 1 * time.Hour
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 64 * 1024 * 1024 // 64MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	RouteFeed           = "/birthdays.ics"
	RouteHealth         = "/healthz"
	AddrSeparator       = ":"
	HealthOK            = "ok"
	HealthStarting      = "starting"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderAccept          = "Accept"
	HeaderDate            = "Date"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeJSON            = "application/json"
	MimeHTML            = "text/html"
	MimeVCardAccept     = "text/vcard, text/x-vcard;q=0.9, */*;q=0.1"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	// Client and API
	ErrNoCSRFToken      = "anti-forgery token unavailable"
	ErrNetwork          = "network request failed"
	ErrBuildRequest     = "failed to build request"
	ErrUnexpectedStatus = "unexpected HTTP status"
	ErrNotAddressBook   = "response is a web page, not an address book"
	ErrBodyTooLarge     = "response body exceeds the size limit"
	ErrDecode           = "failed to decode response"
	ErrUnknownListing   = "unrecognised listing shape"
	ErrForeignHost      = "refusing to fetch from a foreign host"
	ErrMissingID        = "update requires a record id"
	ErrInvalidURL       = "invalid URL structure"
	ErrProtocol         = "unsupported protocol scheme (http/https only)"

	// Views
	ErrInvalidConfig    = "invalid view configuration"
	ErrDayData          = "failed to load calendar day data"
	ErrFriendsByDate    = "failed to load friends for day"
	ErrCongratulate     = "failed to create congratulation"
	ErrNotToday         = "congratulations are only possible today"
	ErrUnknownRecord    = "record is not listed for the selected day"
	ErrAlreadyCongrats  = "record already congratulated"
	ErrCongratsInFlight = "congratulation already in flight"
	ErrLoadFriends      = "failed to load friends"
	ErrLoadUpcoming     = "failed to load upcoming birthdays"
	ErrLoadFriend       = "failed to load friend"
	ErrOutsideMonth     = "day is outside the displayed month"
	ErrValidation       = "validation failed"
	ErrReadImage        = "failed to read image"

	// Settings
	ErrSettingsRead  = "failed to read settings file"
	ErrSettingsParse = "failed to parse settings file"
	ErrSettingsWrite = "failed to write settings file"
	ErrEnvFile       = "failed to load env file"
	ErrEnvParse      = "failed to parse environment"
	ErrBaseURL       = "base URL must be an absolute http(s) URL"
	ErrCronSpec      = "invalid refresh schedule"
	ErrWeekStart     = "week start must be monday or sunday"
	ErrPageSize      = "unsupported page size"
	ErrLanguage      = "unsupported language tag"

	// Feed and import
	ErrLocalPathEmpty = "configuration error: local path is empty"
	ErrWebURLEmpty    = "configuration error: web URL is empty"
	ErrFetcherMissing = "internal error: network fetcher is not initialized"
	ErrModeUnsupport  = "configuration error: unsupported source mode"
	ErrVCardParse     = "failed to parse vCard stream"
	ErrICalEncode     = "failed to encode iCalendar data"

	// Server and process
	ErrServerStartup    = "server startup failed"
	ErrServerShutdown   = "server shutdown failed"
	ErrPortRequired     = "server port is required"
	ErrPortNumber       = "server port must be a number"
	ErrPortRange        = "server port must be between 1 and 65535"
	ErrLogFile          = "failed to open log file"
	ErrCacheDir         = "could not determine user cache dir"
	ErrConfigDir        = "could not determine user config dir"
	ErrCreateDir        = "could not create app directory"
	ErrAppFailed        = "application failed unexpectedly"
	ErrWriteResp        = "failed to write response body"
	ErrLocalesAccess    = "failed to access embedded locales"
	ErrLocaleLoad       = "failed to load locale file"
	ErrTrayNotSupported = "system tray not supported on this platform/driver"
	ErrKeyringSave      = "failed to save session to keyring"
	ErrScheduler        = "failed to schedule refresh"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Calendar initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
)

// -----------------------------------------------------------------------------
// Fallbacks & Log Messages
// -----------------------------------------------------------------------------

const (
	FallbackSummaryAge   = "Birthday: %s (%d)"
	FallbackSummaryBirth = "Birthday: %s (birth)"
	FallbackTrayError    = "Go Congrats: Sync Error"
	FallbackTrayDefault  = "Go Congrats (%d today)"
	FallbackTrayLabel    = "Go Congrats"
	FallbackName         = "Unknown"

	// StubVCalendar is the minimal valid calendar served when there are no events.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"

	TitleStartupError = "Startup Error"
	TitleSyncError    = "Sync Error"
	MsgPortBusy       = "Port %s is busy or unavailable."

	// Sync and process
	MsgSyncReq      = "Sync requested"
	MsgSyncFailed   = "Synchronization failed"
	MsgSyncDone     = "Synchronization completed"
	MsgWorkerStart  = "Refresh scheduler started"
	MsgWorkerStop   = "Refresh scheduler stopping"
	MsgUpdateSync   = "Updating refresh schedule"
	MsgAppStarting  = "Starting application"
	MsgAppStop      = "Application stopped gracefully"
	MsgCtxCancel    = "Context cancelled, shutting down UI"
	MsgLogWarning   = "Warning: %s at %s: %v\n"
	MsgSessionLoad  = "Session cookie loaded from keyring"
	MsgPassFail     = "Session retrieval failed (might be empty)"
	MsgSettingsNew  = "Settings file created with defaults"
	MsgSettingsSave = "Settings saved"
	MsgPortRestart  = "Feed port changed, effective after restart"
	MsgOpenWindow   = "Opening window"
	MsgFocusWindow  = "Window already open, requesting focus"

	// API
	MsgRequestDone    = "Backend request completed"
	MsgRequestFailed  = "Backend request failed"
	MsgBadStatus      = "Unexpected HTTP status"
	MsgNoCSRFToken    = "Mutating request blocked: no anti-forgery token"
	MsgTokenRefreshed = "Anti-forgery token refreshed"
	MsgTokenFailed    = "Anti-forgery token unavailable, changes will be refused"
	MsgAvatarFailed   = "Avatar download failed"

	// Views
	MsgCalendarLoad   = "Loading calendar range"
	MsgCalendarFailed = "Calendar day data failed"
	MsgStaleDropped   = "Dropping superseded response"
	MsgPanelFailed    = "Day panel load failed"
	MsgPanelReconcile = "Reconciling congratulation with server date"
	MsgCongratsSent   = "Congratulation created"
	MsgCongratsFailed = "Congratulation failed, reverting"
	MsgFriendsLoaded  = "Friends loaded"
	MsgFriendsFailed  = "Friends load failed"
	MsgUpcomingFailed = "Upcoming birthdays load failed"
	MsgFriendSaved    = "Friend saved"
	MsgFriendDeleted  = "Friend deleted"
	MsgViewsStale     = "Change saved, views not reloaded"
	MsgSorted         = "Friends sorted"

	// Feed, import and server
	MsgFetchStart       = "Fetching address book"
	MsgFetchDownloading = "Downloading address book"
	MsgImportStarted    = "vCard import started"
	MsgImportDone       = "vCard import finished"
	MsgSkippedCard      = "Skipping malformed vCard"
	MsgSkippedDate      = "Skipping card without a usable birth date"
	MsgGenSuccess       = "Feed generation successful"
	MsgBdayToday        = "Birthday found today"
	MsgServerListen     = "HTTP server listening"
	MsgServerStop       = "Shutting down HTTP server..."
	MsgCacheUpdated     = "Feed cache updated"

	// I18n
	MsgLocaleSkip    = "Skipping non-locale file"
	MsgLocaleBadName = "Skipping malformed locale filename"
	MsgLocaleLoaded  = "Locale loaded successfully"
	MsgTransMissing  = "Missing translation key"

	PlaceholderURL     = "https://..."
	PlaceholderDate    = "1990-05-17"
	PlaceholderSession = "JSESSIONID"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyMode      = "mode"
	LogKeyInterval  = "interval"
	LogKeyNew       = "new"
	LogKeyUser      = "user"
	LogKeyTotal     = "total"
	LogKeyToday     = "birthdays_today"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyManual    = "manual"
	LogKeyValue     = "value"
	LogKeyStats     = "stats"
	LogKeySortCol   = "sort_column"
	LogKeySortDir   = "sort_dir"
	LogKeyCount     = "count"
	LogKeySkipped   = "skipped"
	LogKeyEvents    = "events"
	LogKeyDuration  = "duration_ms"
	LogKeyOp        = "op"
	LogKeyHeader    = "header"
	LogKeyPage      = "page"
	LogKeyStart     = "start"
	LogKeyEnd       = "end"
	LogKeyDate      = "date"
	LogKeyFriendID  = "friend_id"
	LogKeyWindow    = "window"

	// Startup info
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyCommit  = "commit"
	LogKeyBuilt   = "build_date"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompAPI      = "api"
	CompApp      = "app"
	CompCalendar = "calendar"
	CompDetail   = "day_detail"
	CompFriends  = "friends"
	CompUpcoming = "upcoming"
	CompConfig   = "config"
	CompUI       = "ui"
	CompUISet    = "ui_settings"
	CompEngine   = "engine"
	CompServer   = "server"
	CompFetcher  = "fetcher"
	CompWorker   = "worker"
	CompMain     = "main"
	CompI18n     = "i18n"
)
