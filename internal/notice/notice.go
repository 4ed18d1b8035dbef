// Package notice recovers dated announcement items from a listing page
// whose markup is not guaranteed to keep its shape. The only structural
// assumption trusted is the literal "Date YYYY.MM.DD" marker inside
// anchor text, observed to be the most stable token across page
// redesigns; numbering, view counts and layout all change.
package notice

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/seoooyoon/campusdigest/internal/normalize"
	"github.com/seoooyoon/campusdigest/internal/record"
)

// DefaultMinTitleLen drops menu and navigation links. Real item titles
// observed on these pages are never shorter. Tuned against page
// snapshots; configurable because future layouts may invalidate it.
const DefaultMinTitleLen = 8

// DefaultLimit matches the number of items the listing page shows on
// its first screen.
const DefaultLimit = 7

var (
	datePat         = regexp.MustCompile(`Date\s*(\d{4}\.\d{2}\.\d{2})`)
	leadingIndexPat = regexp.MustCompile(`^\d+\s*`)
	viewCountPat    = regexp.MustCompile(`조회수.*$`)
	dateSuffixPat   = regexp.MustCompile(`\s*Date\s*\d{4}\.\d{2}\.\d{2}.*$`)
)

// Options tune the recognizer. Zero values mean defaults.
type Options struct {
	// MinTitleLen discards candidates whose cleaned title is shorter,
	// counted in runes.
	MinTitleLen int
	// Limit truncates the sorted result. Zero means DefaultLimit;
	// negative means unlimited.
	Limit int
}

func (o Options) minTitleLen() int {
	if o.MinTitleLen > 0 {
		return o.MinTitleLen
	}
	return DefaultMinTitleLen
}

func (o Options) limit() int {
	if o.Limit != 0 {
		return o.Limit
	}
	return DefaultLimit
}

// FromAnchors walks the anchor list of a normalized page and returns
// deduplicated notices, newest first. Zero matches yield an empty
// slice, never an error: "page reachable, nothing found" is a valid
// outcome distinct from a fetch failure.
func FromAnchors(anchors []normalize.Anchor, opts Options) []record.Notice {
	minLen := opts.minTitleLen()
	items := make([]record.Notice, 0, len(anchors))
	for _, a := range anchors {
		m := datePat.FindStringSubmatch(a.Text)
		if m == nil {
			continue
		}
		date := m[1]
		title := cleanTitle(a.Text)
		if utf8.RuneCountInString(title) < minLen {
			continue
		}
		items = append(items, record.Notice{Title: title, Date: date, URL: a.Href})
	}
	items = record.Dedupe(items, func(n record.Notice) string { return n.Title + "\x00" + n.Date })
	// Fixed-width YYYY.MM.DD sorts lexicographically in calendar order.
	sort.SliceStable(items, func(i, j int) bool { return items[i].Date > items[j].Date })
	if limit := opts.limit(); limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

// cleanTitle strips the list index, trailing view-count noise and the
// Date suffix from an anchor's visible text.
func cleanTitle(text string) string {
	title := leadingIndexPat.ReplaceAllString(text, "")
	title = strings.TrimSpace(viewCountPat.ReplaceAllString(title, ""))
	title = strings.TrimSpace(dateSuffixPat.ReplaceAllString(title, ""))
	return title
}
