package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/seoooyoon/campusdigest/internal/app"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		mode        string
		configPath  string
		noticeURL   string
		calendarURL string
		handbookURL string
		limit       int
		daysAhead   int
		keyword     string
		timeZone    string
		minTitleLen int
		minDescLen  int
		fetchUA     string
		fetchTO     time.Duration
		cacheDir    string
		cacheTTL    time.Duration
		cacheMaxAge time.Duration
		cacheClear  bool
		llmBaseURL  string
		llmModel    string
		llmKey      string
		language    string
		verbose     bool
	)

	flag.StringVar(&mode, "mode", "", "What to extract: notices | calendar | handbook | digest")
	flag.StringVar(&configPath, "config", "", "Path to optional YAML config file")
	flag.StringVar(&noticeURL, "url.notices", "", "Notice listing page URL")
	flag.StringVar(&calendarURL, "url.calendar", "", "Academic calendar page URL")
	flag.StringVar(&handbookURL, "url.handbook", "", "Course handbook page URL (best-effort)")
	flag.IntVar(&limit, "limit", 0, "Maximum notices to return (default 7)")
	flag.IntVar(&daysAhead, "days", 0, "Calendar window in days from today (default 45)")
	flag.StringVar(&keyword, "keyword", "", "Keyword a recovered handbook payload must contain")
	flag.StringVar(&timeZone, "tz", "", "IANA timezone for 'today' (default Asia/Seoul)")
	flag.IntVar(&minTitleLen, "min.titleLen", 0, "Minimum notice title length in runes (default 8)")
	flag.IntVar(&minDescLen, "min.descLen", 0, "Minimum calendar description length in runes (default 2)")
	flag.StringVar(&fetchUA, "fetch.ua", "", "Override the User-Agent header")
	flag.DurationVar(&fetchTO, "fetch.timeout", 0, "Per-request fetch timeout (default 15s)")
	flag.StringVar(&cacheDir, "cache.dir", "", "Result cache directory; empty disables caching")
	flag.DurationVar(&cacheTTL, "cache.ttl", 0, "How long cached results stay fresh (default 30m)")
	flag.DurationVar(&cacheMaxAge, "cache.maxAge", 0, "Purge cache entries older than this on startup; 0 disables")
	flag.BoolVar(&cacheClear, "cache.clear", false, "Clear the cache directory before running")
	flag.StringVar(&llmBaseURL, "llm.base", "", "OpenAI-compatible base URL for digest summarization")
	flag.StringVar(&llmModel, "llm.model", "", "Model name; empty disables summarization")
	flag.StringVar(&llmKey, "llm.key", "", "API key for the OpenAI-compatible server")
	flag.StringVar(&language, "lang", "", "Optional language hint for the summary, e.g. 'ko'")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	cfg := app.Config{
		Mode:         mode,
		NoticeURL:    noticeURL,
		CalendarURL:  calendarURL,
		HandbookURL:  handbookURL,
		Limit:        limit,
		DaysAhead:    daysAhead,
		Keyword:      keyword,
		TimeZone:     timeZone,
		MinTitleLen:  minTitleLen,
		MinDescLen:   minDescLen,
		UserAgent:    fetchUA,
		FetchTimeout: fetchTO,
		CacheDir:     cacheDir,
		CacheTTL:     cacheTTL,
		CacheMaxAge:  cacheMaxAge,
		CacheClear:   cacheClear,
		LLMBaseURL:   llmBaseURL,
		LLMModel:     llmModel,
		LLMAPIKey:    llmKey,
		Language:     language,
		Verbose:      verbose,
	}

	// Precedence: flags > env > config file > defaults.
	app.ApplyEnvToConfig(&cfg)
	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", configPath).Msg("config file")
		}
		app.MergeFileConfig(&cfg, fc)
	}

	a, err := app.New(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
	if err := a.Run(context.Background()); err != nil {
		if errors.Is(err, app.ErrExtractionFailed) {
			// Reason and fallback were already rendered for the user.
			os.Exit(1)
		}
		log.Fatal().Err(err).Msg("run failed")
	}
}
