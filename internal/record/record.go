package record

import (
	"fmt"
	"time"
)

// Notice is a dated announcement item recovered from a listing page.
// Date keeps the literal YYYY.MM.DD form seen on the page; the fixed
// width makes lexicographic order equal to calendar order.
type Notice struct {
	Title string `json:"title"`
	Date  string `json:"date"`
	URL   string `json:"url,omitempty"`
}

// CalendarEvent is a single- or multi-day entry recovered from an
// academic calendar page. Display is the render-ready string, either
// "MM/DD · desc" or "MM/DD~MM/DD · desc".
type CalendarEvent struct {
	Date        time.Time `json:"date"`
	RangeEnd    time.Time `json:"range_end,omitempty"`
	IsRange     bool      `json:"is_range"`
	Description string    `json:"description"`
	Display     string    `json:"display"`
}

// EffectiveDate is the date used for window filtering: the range end
// for a range event, otherwise the start date.
func (e CalendarEvent) EffectiveDate() time.Time {
	if e.IsRange {
		return e.RangeEnd
	}
	return e.Date
}

// JSONBlob wraps an opaque JSON object recovered from raw markup.
type JSONBlob struct {
	Parsed map[string]any `json:"parsed"`
}

// Failure describes why an extraction produced nothing usable, plus a
// suggested fallback action the caller can show verbatim. It is a
// value, not an error: upstream pages are expected to break shape over
// time and callers branch on this instead of recovering panics.
type Failure struct {
	Reason   string `json:"reason"`
	Fallback string `json:"fallback"`
}

func (f *Failure) String() string {
	if f == nil {
		return ""
	}
	if f.Fallback == "" {
		return f.Reason
	}
	return fmt.Sprintf("%s (%s)", f.Reason, f.Fallback)
}

// Result is the union every extractor entry point returns: an ordered
// record sequence or a Failure, never both. An empty Records with a
// nil Failure is a valid outcome and means "page reachable, nothing
// found", which is distinct from being unable to look at all.
type Result[T any] struct {
	Records []T      `json:"records,omitempty"`
	Failure *Failure `json:"failure,omitempty"`
}

// Ok wraps records in a successful Result. records may be empty.
func Ok[T any](records []T) Result[T] {
	return Result[T]{Records: records}
}

// Fail builds a failed Result with a display-ready reason and
// fallback action.
func Fail[T any](reason, fallback string) Result[T] {
	return Result[T]{Failure: &Failure{Reason: reason, Fallback: fallback}}
}

// Failed reports whether the extraction could not look at the page or
// recover any structure, as opposed to finding nothing.
func (r Result[T]) Failed() bool { return r.Failure != nil }

// Dedupe collapses records that share a key, keeping the last-seen
// record at the first-seen position. Duplicates are expected to be
// identical (the same item repeated across pagination widgets), so
// last-wins loses nothing. Output length is ≤ input length and no two
// output records share a key.
func Dedupe[T any](records []T, keyFn func(T) string) []T {
	pos := make(map[string]int, len(records))
	out := make([]T, 0, len(records))
	for _, rec := range records {
		k := keyFn(rec)
		if i, seen := pos[k]; seen {
			out[i] = rec
			continue
		}
		pos[k] = len(out)
		out = append(out, rec)
	}
	return out
}
