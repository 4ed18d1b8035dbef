package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/seoooyoon/campusdigest/internal/cache"
	"github.com/seoooyoon/campusdigest/internal/calendar"
	"github.com/seoooyoon/campusdigest/internal/digest"
	"github.com/seoooyoon/campusdigest/internal/fetch"
	"github.com/seoooyoon/campusdigest/internal/llm"
	"github.com/seoooyoon/campusdigest/internal/notice"
	"github.com/seoooyoon/campusdigest/internal/pipeline"
	"github.com/seoooyoon/campusdigest/internal/record"
	"github.com/seoooyoon/campusdigest/internal/summarize"
)

// ErrExtractionFailed signals the run ended on the Failure path. The
// CLI maps it to a non-zero exit so scripts can branch.
var ErrExtractionFailed = errors.New("extraction failed")

// App wires the stateless pipeline with the caller-side concerns the
// core deliberately excludes: the TTL result cache and the optional
// LLM summarizer.
type App struct {
	cfg     Config
	pipe    *pipeline.Pipeline
	results *cache.ResultCache
	ai      llm.Client
	out     io.Writer
}

func New(ctx context.Context, cfg Config) (*App, error) {
	loc := resolveLocation(cfg.TimeZone)
	pipe := &pipeline.Pipeline{
		Fetcher: &fetch.Client{
			UserAgent:         cfg.UserAgent,
			PerRequestTimeout: cfg.FetchTimeout,
		},
		Notice: notice.Options{
			MinTitleLen: cfg.MinTitleLen,
			Limit:       cfg.Limit,
		},
		Calendar: calendar.Options{
			Location:   loc,
			DaysAhead:  cfg.DaysAhead,
			MinDescLen: cfg.MinDescLen,
		},
	}
	a := &App{cfg: cfg, pipe: pipe, out: os.Stdout}

	if cfg.CacheDir != "" {
		if cfg.CacheClear {
			if err := cache.ClearDir(cfg.CacheDir); err != nil {
				log.Warn().Err(err).Msg("cache clear failed")
			}
		}
		if cfg.CacheMaxAge > 0 {
			if n, err := cache.PurgeByAge(cfg.CacheDir, cfg.CacheMaxAge); err == nil && n > 0 {
				log.Debug().Int("removed", n).Msg("purged expired cache entries")
			}
		}
		a.results = &cache.ResultCache{Dir: cfg.CacheDir, TTL: cfg.CacheTTL}
	}

	if cfg.LLMModel != "" {
		transportCfg := openai.DefaultConfig(cfg.LLMAPIKey)
		if cfg.LLMBaseURL != "" {
			transportCfg.BaseURL = cfg.LLMBaseURL
		}
		a.ai = &llm.OpenAIProvider{Inner: openai.NewClientWithConfig(transportCfg)}

		// Best-effort connectivity preflight; summarization surfaces
		// real errors later, so never fail startup on this.
		if lister, ok := a.ai.(llm.ModelLister); ok {
			pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			if models, err := lister.ListModels(pctx); err != nil {
				log.Warn().Err(err).Msg("LLM model list failed; continuing")
			} else {
				log.Debug().Int("count", len(models.Models)).Msg("LLM models available")
			}
		}
	}
	return a, nil
}

// Run executes the configured mode. Extraction failures are rendered
// (reason plus fallback action) and reported as ErrExtractionFailed;
// an empty success renders a neutral "nothing found" line instead.
func (a *App) Run(ctx context.Context) error {
	switch a.cfg.Mode {
	case ModeNotices, "":
		return a.runNotices(ctx)
	case ModeCalendar:
		return a.runCalendar(ctx)
	case ModeHandbook:
		return a.runHandbook(ctx)
	case ModeDigest:
		return a.runDigest(ctx)
	default:
		return fmt.Errorf("unknown mode %q", a.cfg.Mode)
	}
}

func (a *App) runNotices(ctx context.Context) error {
	res := a.notices(ctx)
	if res.Failed() {
		a.renderFailure(res.Failure)
		return ErrExtractionFailed
	}
	if len(res.Records) == 0 {
		fmt.Fprintln(a.out, "표시할 공지가 없습니다 (페이지는 정상 접근됨)")
		return nil
	}
	for _, n := range res.Records {
		fmt.Fprintf(a.out, "- %s | %s\n", n.Date, n.Title)
		if n.URL != "" {
			fmt.Fprintf(a.out, "  %s\n", n.URL)
		}
	}
	return nil
}

func (a *App) runCalendar(ctx context.Context) error {
	res := a.calendar(ctx)
	if res.Failed() {
		a.renderFailure(res.Failure)
		return ErrExtractionFailed
	}
	if len(res.Records) == 0 {
		fmt.Fprintln(a.out, "다가오는 일정이 없습니다 (페이지는 정상 접근됨)")
		return nil
	}
	for _, e := range res.Records {
		fmt.Fprintf(a.out, "- %s\n", e.Display)
	}
	return nil
}

func (a *App) runHandbook(ctx context.Context) error {
	res := a.pipe.ExtractEmbeddedJSON(ctx, a.cfg.HandbookURL, a.cfg.Keyword)
	if res.Failed() {
		a.renderFailure(res.Failure)
		return ErrExtractionFailed
	}
	data, err := json.MarshalIndent(res.Records[0].Parsed, "", "  ")
	if err != nil {
		return fmt.Errorf("render blob: %w", err)
	}
	fmt.Fprintln(a.out, string(data))
	return nil
}

// runDigest combines the per-source extractions into one context
// block; each source fails independently so one broken page does not
// blank the whole digest. When an LLM is configured the digest is
// additionally summarized.
func (a *App) runDigest(ctx context.Context) error {
	var sections []digest.Section

	if a.cfg.NoticeURL != "" {
		if res := a.notices(ctx); res.Failed() {
			log.Warn().Str("reason", res.Failure.Reason).Msg("notices unavailable for digest")
		} else if s, ok := digest.NoticeSection(res.Records, 6); ok {
			sections = append(sections, s)
		}
	}
	if a.cfg.CalendarURL != "" {
		if res := a.calendar(ctx); res.Failed() {
			log.Warn().Str("reason", res.Failure.Reason).Msg("calendar unavailable for digest")
		} else if s, ok := digest.CalendarSection(res.Records, 10); ok {
			sections = append(sections, s)
		}
	}

	if len(sections) == 0 {
		fmt.Fprintln(a.out, "수집된 컨텍스트가 없습니다")
		return ErrExtractionFailed
	}
	rendered := digest.Render(sections)
	fmt.Fprintln(a.out, rendered)

	if a.ai == nil || a.cfg.LLMModel == "" {
		return nil
	}
	summ := &summarize.Summarizer{Client: a.ai, Cache: &cache.LLMCache{Dir: a.cfg.CacheDir}}
	text, err := summ.Summarize(ctx, summarize.Input{
		Context:      rendered,
		Model:        a.cfg.LLMModel,
		LanguageHint: a.cfg.Language,
	})
	if err != nil {
		log.Warn().Err(err).Msg("summarization failed; digest printed without advice")
		return nil
	}
	fmt.Fprintln(a.out, "\n---")
	fmt.Fprintln(a.out, text)
	return nil
}

func (a *App) notices(ctx context.Context) record.Result[record.Notice] {
	key := cache.KeyFrom(ModeNotices, a.cfg.NoticeURL, strconv.Itoa(a.cfg.Limit), strconv.Itoa(a.cfg.MinTitleLen))
	return cachedResult(ctx, a.results, key, func() record.Result[record.Notice] {
		return a.pipe.ExtractNotices(ctx, a.cfg.NoticeURL, a.cfg.Limit)
	})
}

func (a *App) calendar(ctx context.Context) record.Result[record.CalendarEvent] {
	key := cache.KeyFrom(ModeCalendar, a.cfg.CalendarURL, strconv.Itoa(a.cfg.DaysAhead))
	return cachedResult(ctx, a.results, key, func() record.Result[record.CalendarEvent] {
		return a.pipe.ExtractCalendar(ctx, a.cfg.CalendarURL, a.cfg.DaysAhead)
	})
}

func (a *App) renderFailure(f *record.Failure) {
	fmt.Fprintf(a.out, "오류: %s\n", f.Reason)
	if f.Fallback != "" {
		fmt.Fprintf(a.out, "대안: %s\n", f.Fallback)
	}
}

// cachedResult serves a result from the TTL cache when possible.
// Only successes are cached: a transient fetch failure must not be
// pinned for the whole TTL window.
func cachedResult[T any](ctx context.Context, c *cache.ResultCache, key string, fn func() record.Result[T]) record.Result[T] {
	if c != nil {
		if b, ok := c.Get(ctx, key); ok {
			var r record.Result[T]
			if err := json.Unmarshal(b, &r); err == nil && !r.Failed() {
				return r
			}
		}
	}
	r := fn()
	if c != nil && !r.Failed() {
		if b, err := json.Marshal(r); err == nil {
			_ = c.Save(ctx, key, b)
		}
	}
	return r
}

func resolveLocation(name string) *time.Location {
	if name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
		log.Warn().Str("tz", name).Msg("unknown timezone; using campus default")
	}
	if loc, err := time.LoadLocation("Asia/Seoul"); err == nil {
		return loc
	}
	return time.FixedZone("KST", 9*60*60)
}
