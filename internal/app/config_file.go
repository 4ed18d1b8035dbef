package app

import (
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig is the single-file YAML configuration schema. Nested
// sections map naturally to flags and env.
type FileConfig struct {
	Mode string `yaml:"mode"`

	Sources struct {
		Notices  string `yaml:"notices"`
		Calendar string `yaml:"calendar"`
		Handbook string `yaml:"handbook"`
	} `yaml:"sources"`

	Extract struct {
		Limit       int    `yaml:"limit"`
		DaysAhead   int    `yaml:"daysAhead"`
		Keyword     string `yaml:"keyword"`
		TimeZone    string `yaml:"timezone"`
		MinTitleLen int    `yaml:"minTitleLen"`
		MinDescLen  int    `yaml:"minDescLen"`
	} `yaml:"extract"`

	Fetch struct {
		UserAgent string        `yaml:"ua"`
		Timeout   time.Duration `yaml:"timeout"`
	} `yaml:"fetch"`

	Cache struct {
		Dir    string        `yaml:"dir"`
		TTL    time.Duration `yaml:"ttl"`
		MaxAge time.Duration `yaml:"maxAge"`
		Clear  bool          `yaml:"clear"`
	} `yaml:"cache"`

	LLM struct {
		BaseURL string `yaml:"base"`
		Model   string `yaml:"model"`
		APIKey  string `yaml:"key"`
	} `yaml:"llm"`

	Language string `yaml:"language"`
	Verbose  bool   `yaml:"verbose"`
}

// LoadConfigFile reads and parses a YAML config file.
func LoadConfigFile(path string) (*FileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	var fc FileConfig
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return &fc, nil
}

// MergeFileConfig fills unset cfg fields from fc. Precedence stays
// flags > env > file: callers apply flags and env first.
func MergeFileConfig(cfg *Config, fc *FileConfig) {
	if cfg == nil || fc == nil {
		return
	}
	if cfg.Mode == "" {
		cfg.Mode = fc.Mode
	}
	if cfg.NoticeURL == "" {
		cfg.NoticeURL = fc.Sources.Notices
	}
	if cfg.CalendarURL == "" {
		cfg.CalendarURL = fc.Sources.Calendar
	}
	if cfg.HandbookURL == "" {
		cfg.HandbookURL = fc.Sources.Handbook
	}
	if cfg.Limit == 0 {
		cfg.Limit = fc.Extract.Limit
	}
	if cfg.DaysAhead == 0 {
		cfg.DaysAhead = fc.Extract.DaysAhead
	}
	if cfg.Keyword == "" {
		cfg.Keyword = fc.Extract.Keyword
	}
	if cfg.TimeZone == "" {
		cfg.TimeZone = fc.Extract.TimeZone
	}
	if cfg.MinTitleLen == 0 {
		cfg.MinTitleLen = fc.Extract.MinTitleLen
	}
	if cfg.MinDescLen == 0 {
		cfg.MinDescLen = fc.Extract.MinDescLen
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = fc.Fetch.UserAgent
	}
	if cfg.FetchTimeout == 0 {
		cfg.FetchTimeout = fc.Fetch.Timeout
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = fc.Cache.Dir
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = fc.Cache.TTL
	}
	if cfg.CacheMaxAge == 0 {
		cfg.CacheMaxAge = fc.Cache.MaxAge
	}
	if !cfg.CacheClear {
		cfg.CacheClear = fc.Cache.Clear
	}
	if cfg.LLMBaseURL == "" {
		cfg.LLMBaseURL = fc.LLM.BaseURL
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = fc.LLM.Model
	}
	if cfg.LLMAPIKey == "" {
		cfg.LLMAPIKey = fc.LLM.APIKey
	}
	if cfg.Language == "" {
		cfg.Language = fc.Language
	}
	if !cfg.Verbose {
		cfg.Verbose = fc.Verbose
	}
}
