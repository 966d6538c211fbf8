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
var UserAgent = "Go-Planner/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go Planner"
	AppID             = "com.github.tartampluch.go-planner"
	KeyringService    = "com.github.tartampluch.go-planner"
	KeyringFeedUser   = "canvas-feed-url"
	KeyringTokenUser  = "canvas-api-token"
	FeedCacheFileName = "feed.ics"
	FeedCacheTempGlob = ".go-planner-feed-*.tmp"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
	SettingsFileName  = "settings.yaml"
	SettingsTempGlob  = ".go-planner-settings-*.tmp"
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
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	// Used for logs and the settings file, which may hold a feed URL.
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion      = "version"
	FlagDebug        = "debug"
	FlagConfig       = "config"
	FlagWeek         = "week"
	FlagServe        = "serve"
	FlagSaveFeed     = "save-feed"
	FlagSaveToken    = "save-token"
	FlagDescVersion  = "Show application version and exit"
	FlagDescDebug    = "Enable debug logging to stderr"
	FlagDescConfig   = "Path to the settings file (default: user config dir)"
	FlagDescWeek     = "Any date inside the week to display (YYYY-MM-DD, default: today)"
	FlagDescServe    = "Serve the week view over HTTP and refresh it on schedule"
	FlagDescSaveFeed = "Store a Canvas calendar feed URL in the OS keyring and exit"
	FlagDescSaveTok  = "Store a Canvas API access token in the OS keyring and exit"
	MsgVersionOutput = "%s version %s (%s/%s)\n"
)

// -----------------------------------------------------------------------------
// Settings Values
// -----------------------------------------------------------------------------

const (
	WeekStartSunday = "sunday"
	WeekStartMonday = "monday"

	SourceModeWeb   = "web"
	SourceModeLocal = "local"

	StrategyFirstFit = "first_fit"
	StrategyMinRows  = "min_rows"
)

// SupportedLanguages defines the list of available UI languages (ISO 639-1).
var SupportedLanguages = []string{"en", "fr"}

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	DefaultPort          = "18081"
	DefaultLanguage      = "en"
	DefaultWeekStart     = WeekStartSunday
	DefaultSourceMode    = SourceModeWeb
	DefaultStrategy      = StrategyFirstFit
	DefaultRefreshCron   = "*/30 * * * *"
	DefaultDurationDays  = 3
	DefaultMaxDuration   = 14
	DefaultDueTime       = "23:59"
	DefaultFeedPastDays  = 28
	DefaultFeedAheadDays = 120

	// DaysInWindow is the 7 visible days plus the overlap day.
	DaysInWindow = 8
	// VisibleColumns is the number of rendered day columns.
	VisibleColumns = 7

	// LabelMaxRunes bounds bar labels in text rendering.
	LabelMaxRunes = 13
	LabelEllipsis = "..."
	// CellWidth is the width of one day column in text rendering:
	// a cap glyph on each side of a LabelMaxRunes+LabelEllipsis body.
	CellWidth = 18
	// Bar edge glyphs in text rendering.
	GlyphCapOpen   = "("
	GlyphCapClose  = ")"
	GlyphContinued = "‹"
	GlyphContinues = "›"
	GlyphFill      = " "

	// GlyphDifficulty prefixes the difficulty level shown after a row.
	GlyphDifficulty = "●"
	BarForeground   = "#000000"

	MinDifficulty = 1
	MaxDifficulty = 5
)

// -----------------------------------------------------------------------------
// Data Formats
// -----------------------------------------------------------------------------

const (
	DateFormat     = "2006-01-02"
	TimeFormat     = "15:04"
	DateTimeFormat = "2006-01-02 15:04"
)

// -----------------------------------------------------------------------------
// Canvas Calendar Feed
// -----------------------------------------------------------------------------

const (
	// Canvas exports assignments as VEVENTs whose UID looks like
	// "event-assignment-1234" and whose SUMMARY ends with "[Course Name]".
	FeedAssignmentUIDPrefix = "event-assignment-"
	FeedCalendarUIDPrefix   = "event-calendar-event-"
	FeedCoursePathSegment   = "courses"
	FeedCourseOpen          = "["
	FeedCourseClose         = "]"
	FeedPropDifficulty      = "X-PLANNER-DIFFICULTY"
	FeedContextParam        = "include_contexts"
	FeedContextPrefix       = "course_"
	FeedOccurrenceSep       = "@"
)

// -----------------------------------------------------------------------------
// Canvas REST API (Announcements)
// -----------------------------------------------------------------------------

const (
	APIAnnouncementsPath = "/api/v1/announcements"
	APIParamContext      = "context_codes[]"
	APIParamStart        = "start_date"
	APIParamEnd          = "end_date"
	APIParamPerPage      = "per_page"
	APIPerPage           = "100"
	APIContextPrefix     = "course_"
	HeaderAuthorization  = "Authorization"
	AuthBearerPrefix     = "Bearer "
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
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyValue     = "value"
	LogKeyStats     = "stats"
	LogKeyCount     = "count"
	LogKeyDuration  = "duration_ms"
	LogKeyUID       = "uid"
	LogKeyCourse    = "course"
	LogKeyWeek      = "week"
	LogKeyWeekStart = "week_start"
	LogKeyRows      = "rows"
	LogKeyRendered  = "rendered"
	LogKeyHidden    = "hidden"
	LogKeyStrategy  = "strategy"
	LogKeySchedule  = "schedule"
	LogKeyEvents    = "events"
	LogKeyRecords   = "records"
	LogKeyLength    = "content_length"
	LogKeyCap       = "cap"
	LogKeyPath      = "path"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
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
	CompEngine   = "engine"
	CompServer   = "server"
	CompFetcher  = "fetcher"
	CompFeed     = "feed"
	CompSecrets  = "secrets"
	CompNotices  = "announcements"
	CompCache    = "cache"
	CompSettings = "settings"
	CompRefresh  = "refresh"
	CompRender   = "render"
	CompMain     = "main"
	CompI18n     = "i18n"
)

// -----------------------------------------------------------------------------
// Log Messages
// -----------------------------------------------------------------------------

const (
	MsgAppStarting   = "Starting application"
	MsgAppStop       = "Application stopped gracefully"
	MsgServerListen  = "HTTP server listening"
	MsgServerStop    = "Shutting down HTTP server..."
	MsgCacheUpdated  = "Week view cache updated"
	MsgPlaced        = "Course week placed"
	MsgWeekBuilt     = "Week view built"
	MsgFeedParsed    = "Calendar feed parsed"
	MsgSkippedEvent  = "Skipping malformed feed event"
	MsgSkippedRecord = "Skipping assignment with invalid date range"
	MsgRecurTrunc    = "Recurring event expansion truncated"
	MsgSettingsNew   = "Settings file created with defaults"
	MsgFeedSaved     = "Feed URL stored in keyring"
	MsgRefreshRun    = "Scheduled refresh finished"
	MsgRefreshStart  = "Refresh scheduler started"
	MsgRefreshStop   = "Refresh scheduler stopping"
	MsgLocaleSkip    = "Skipping non-locale file"
	MsgLocaleBadName = "Skipping malformed locale filename"
	MsgLocaleLoaded  = "Locale loaded successfully"
	MsgTransMissing  = "Missing translation key"
	MsgLogWarning    = "Warning: %s at %s: %v\n"
	MsgSavedFeedOut  = "Feed URL saved to the OS keyring.\n"
	MsgFetchStart    = "Initiating feed download"
	MsgFetchStatus   = "Server returned error status"
	MsgFetchOK       = "Feed downloading"
	MsgLoadStarted   = "Assignment load started"
	MsgLoadFinished  = "Assignment load finished"
	MsgSecretMissing = "No secret stored in keyring"
	MsgTokenSaved    = "API token stored in keyring"
	MsgSavedTokenOut = "API token saved to the OS keyring.\n"
	MsgCacheStored   = "Feed copy cached"
	MsgCacheFallback = "Feed fetch failed, using cached copy"
	MsgCacheStoreErr = "Could not cache feed copy"
	MsgNoticesLoaded = "Announcements loaded"
	MsgNoticesSkip   = "Announcements skipped: no Canvas URL or API token"
	MsgNoticesFailed = "Announcements unavailable, continuing without them"
	MsgSkippedNotice = "Skipping malformed announcement"
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeySunday    = "day_sunday"
	TKeyMonday    = "day_monday"
	TKeyTuesday   = "day_tuesday"
	TKeyWednesday = "day_wednesday"
	TKeyThursday  = "day_thursday"
	TKeyFriday    = "day_friday"
	TKeySaturday  = "day_saturday"
	TKeyWeekOf    = "week_of"       // Requires Date
	TKeyNoCourses = "no_courses"    // Empty week
	TKeyBarsCount = "bars_count"    // Requires Rows, Rendered
	TKeyHiddenCnt = "hidden_count"  // Requires Count
	TKeyUntitled  = "untitled_item" // Fallback label
	TKeyDateFmt   = "date_layout"   // Go time layout for headers
	TKeyNotices   = "announcements" // Announcements section title
)

// -----------------------------------------------------------------------------
// Limits & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 32 * 1024 * 1024 // 32MB
	MaxRecurrences      = 500
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	RouteRoot           = "/"
	RouteHealth         = "/health"
	RouteText           = "/text"
	QueryWeekStart      = "week_start"
	AddrSeparator       = ":"
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
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeJSON            = "application/json; charset=utf-8"
	MimeText            = "text/plain; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrLocalPathEmpty   = "configuration error: local path is empty"
	ErrWebURLEmpty      = "configuration error: feed URL is empty"
	ErrFetcherMissing   = "internal error: network fetcher is not initialized"
	ErrModeUnsupport    = "configuration error: unsupported source mode"
	ErrServerStartup    = "server startup failed"
	ErrServerShutdown   = "server shutdown failed"
	ErrPortRequired     = "server port is required"
	ErrInvalidURL       = "invalid URL structure"
	ErrProtocol         = "unsupported protocol scheme (http/https only)"
	ErrFeedParse        = "failed to parse calendar feed"
	ErrFeedOpen         = "failed to open calendar source"
	ErrDateParse        = "unable to parse date"
	ErrTimeParse        = "unable to parse time"
	ErrLogFile          = "failed to open log file"
	ErrCacheDir         = "could not determine user cache dir"
	ErrConfigDir        = "could not determine user config dir"
	ErrCreateDir        = "could not create app directory"
	ErrAppFailed        = "application failed unexpectedly"
	ErrWriteResp        = "failed to write response body"
	ErrEncodeResp       = "failed to encode response body"
	ErrLocalesAccess    = "failed to access embedded locales"
	ErrLocaleLoad       = "failed to load locale file"
	ErrSettingsPath     = "settings path is empty"
	ErrSettingsNil      = "settings are nil"
	ErrSettingsRead     = "failed to read settings"
	ErrSettingsWrite    = "failed to write settings"
	ErrSecretGet        = "failed to read secret from keyring"
	ErrSecretSet        = "failed to store secret in keyring"
	ErrSchedule         = "invalid refresh schedule"
	ErrRefreshRun       = "scheduled refresh failed"
	ErrMalformedItem    = "malformed item"
	ErrIndexOutOfRange  = "index out of range"
	ErrDurationNegative = "duration must not be negative"
	ErrBeginAfterEnd    = "begin date is after end date"
	ErrRequestCreate    = "failed to create request"
	ErrNetwork          = "network error during fetch"
	ErrHTTPStatus       = "server returned unexpected status"
	ErrDueMissing       = "assignment has no due date"
	ErrLocation         = "unknown timezone"
	ErrNoSnapshot       = "nothing to publish"
	ErrTokenEmpty       = "configuration error: API token is empty"
	ErrCanvasURLEmpty   = "configuration error: Canvas URL is empty"
	ErrNoticesDecode    = "failed to decode announcements"
	ErrCacheRead        = "failed to read cached feed"
	ErrCacheWrite       = "failed to cache feed"
	ErrFeedRead         = "failed to read calendar feed"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Week view initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
	HTTPMsgOK           = "OK"
	HTTPMsgBadWeekStart = "Unknown week_start; use sunday or monday."
)
