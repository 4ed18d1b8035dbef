package app

import (
	"os"
	"strconv"
	"time"
)

// ApplyEnvToConfig populates unset fields of cfg from environment
// variables. Explicit cfg values take precedence over env.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.NoticeURL == "" {
		cfg.NoticeURL = os.Getenv("NOTICE_URL")
	}
	if cfg.CalendarURL == "" {
		cfg.CalendarURL = os.Getenv("CALENDAR_URL")
	}
	if cfg.HandbookURL == "" {
		cfg.HandbookURL = os.Getenv("HANDBOOK_URL")
	}

	if cfg.LLMBaseURL == "" {
		cfg.LLMBaseURL = os.Getenv("LLM_BASE_URL")
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = os.Getenv("LLM_MODEL")
	}
	if cfg.LLMAPIKey == "" {
		cfg.LLMAPIKey = os.Getenv("LLM_API_KEY")
		if cfg.LLMAPIKey == "" {
			cfg.LLMAPIKey = os.Getenv("OPENAI_API_KEY")
		}
	}

	if cfg.CacheDir == "" {
		cfg.CacheDir = os.Getenv("CACHE_DIR")
	}
	if cfg.CacheTTL == 0 {
		if d, err := time.ParseDuration(os.Getenv("CACHE_TTL")); err == nil && d > 0 {
			cfg.CacheTTL = d
		}
	}

	if cfg.TimeZone == "" {
		cfg.TimeZone = os.Getenv("CAMPUS_TZ")
	}
	if cfg.Language == "" {
		cfg.Language = os.Getenv("LANGUAGE")
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = os.Getenv("FETCH_UA")
	}

	if cfg.Limit == 0 {
		if n, err := strconv.Atoi(os.Getenv("NOTICE_LIMIT")); err == nil && n > 0 {
			cfg.Limit = n
		}
	}
	if cfg.DaysAhead == 0 {
		if n, err := strconv.Atoi(os.Getenv("DAYS_AHEAD")); err == nil && n > 0 {
			cfg.DaysAhead = n
		}
	}
}
