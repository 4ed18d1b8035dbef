package app

import "time"

// Mode selects which extraction the CLI run performs.
const (
	ModeNotices  = "notices"
	ModeCalendar = "calendar"
	ModeHandbook = "handbook"
	ModeDigest   = "digest"
)

// Config holds runtime configuration for the application.
type Config struct {
	// Mode is one of notices | calendar | handbook | digest.
	Mode string

	// Source URLs.
	NoticeURL   string
	CalendarURL string
	HandbookURL string

	// Extraction parameters.
	Limit      int
	DaysAhead  int
	Keyword    string
	TimeZone   string
	MinTitleLen int
	MinDescLen  int

	// Fetching.
	UserAgent    string
	FetchTimeout time.Duration

	// Caching.
	CacheDir    string
	CacheTTL    time.Duration
	CacheMaxAge time.Duration
	CacheClear  bool

	// Optional LLM summarization (digest mode).
	LLMBaseURL string
	LLMModel   string
	LLMAPIKey  string
	Language   string

	// Behavior.
	Verbose bool
}
