// Package pipeline is the caller-facing surface of the extraction
// engine: one fetch, then purely in-memory parsing, returning the
// Result union and never a bare error. It is stateless and keeps no
// cache; callers that want time-bounded caching wrap these calls.
package pipeline

import (
	"context"
	"errors"

	"github.com/seoooyoon/campusdigest/internal/calendar"
	"github.com/seoooyoon/campusdigest/internal/embedded"
	"github.com/seoooyoon/campusdigest/internal/fetch"
	"github.com/seoooyoon/campusdigest/internal/normalize"
	"github.com/seoooyoon/campusdigest/internal/notice"
	"github.com/seoooyoon/campusdigest/internal/record"
)

// FetchFallback is suggested whenever the page could not be reached.
const FetchFallback = "원본 페이지를 브라우저에서 직접 열어 확인하세요"

// Fetcher is the minimal fetch surface the pipeline needs; satisfied
// by *fetch.Client and easily faked in tests.
type Fetcher interface {
	Get(ctx context.Context, url string) (*fetch.RawDocument, error)
}

// Pipeline bundles a fetcher with recognizer tuning. The zero value of
// each option falls back to the recognizer defaults.
type Pipeline struct {
	Fetcher  Fetcher
	Notice   notice.Options
	Calendar calendar.Options
}

// ExtractNotices fetches url and recovers dated announcement items,
// newest first, truncated to limit. A reachable page with no matches
// is an empty success; only a failed fetch is a Failure.
func (p *Pipeline) ExtractNotices(ctx context.Context, url string, limit int) record.Result[record.Notice] {
	doc, err := p.fetch(ctx, url)
	if err != nil {
		return failureFrom[record.Notice](err)
	}
	norm := normalize.Normalize(doc.Text, doc.Origin(), normalize.PlainWithAnchors)
	opts := p.Notice
	if limit != 0 {
		opts.Limit = limit
	}
	return record.Ok(notice.FromAnchors(norm.Anchors, opts))
}

// ExtractCalendar fetches url and recovers upcoming events inside
// [today, today+daysAhead]. A page with no recognizable month sections
// is an empty success.
func (p *Pipeline) ExtractCalendar(ctx context.Context, url string, daysAhead int) record.Result[record.CalendarEvent] {
	doc, err := p.fetch(ctx, url)
	if err != nil {
		return failureFrom[record.CalendarEvent](err)
	}
	norm := normalize.Normalize(doc.Text, doc.Origin(), normalize.Plain)
	opts := p.Calendar
	if daysAhead > 0 {
		opts.DaysAhead = daysAhead
	}
	return record.Ok(calendar.FromText(norm.Plain, opts))
}

// ExtractEmbeddedJSON fetches url and attempts to recover an embedded
// JSON payload from the raw markup. Unlike the other recognizers an
// empty find is a Failure here: this recognizer exists only to recover
// structure, so "nothing found" carries no useful distinction.
func (p *Pipeline) ExtractEmbeddedJSON(ctx context.Context, url, requiredKeyword string) record.Result[record.JSONBlob] {
	doc, err := p.fetch(ctx, url)
	if err != nil {
		return failureFrom[record.JSONBlob](err)
	}
	return embedded.FromMarkup(doc.Text, requiredKeyword)
}

func (p *Pipeline) fetch(ctx context.Context, url string) (*fetch.RawDocument, error) {
	if p.Fetcher == nil {
		return nil, &fetch.Error{URL: url, Reason: "fetcher not configured"}
	}
	return p.Fetcher.Get(ctx, url)
}

// failureFrom maps a fetch error to the display-ready Failure variant.
// Nothing else ever crosses the pipeline boundary as an error.
func failureFrom[T any](err error) record.Result[T] {
	var fe *fetch.Error
	if errors.As(err, &fe) {
		return record.Fail[T](fe.Reason, FetchFallback)
	}
	return record.Fail[T](err.Error(), FetchFallback)
}
