// Package calendar recovers upcoming dated events from an academic
// calendar page organized as informal month-labeled sections. Table
// and row boundaries do not survive tag stripping, so the reappearance
// of a month name in the text stream is treated as the only reliable
// section delimiter.
package calendar

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/seoooyoon/campusdigest/internal/normalize"
	"github.com/seoooyoon/campusdigest/internal/record"
)

// DefaultDaysAhead is the forward window for "upcoming" events.
const DefaultDaysAhead = 45

// DefaultMinDescLen drops descriptions too short to be real entries.
// Tuned against page snapshots; configurable because future layouts
// may invalidate it.
const DefaultMinDescLen = 2

// monthMarkers maps section-delimiter tokens to month numbers. The
// upstream page labels sections in English even though the body is
// Korean; the Korean forms are accepted as well since both appear on
// lines like "2월 February".
var monthMarkers = map[string]int{
	"January": 1, "February": 2, "March": 3, "April": 4,
	"May": 5, "June": 6, "July": 7, "August": 8,
	"September": 9, "October": 10, "November": 11, "December": 12,
	"1월": 1, "2월": 2, "3월": 3, "4월": 4, "5월": 5, "6월": 6,
	"7월": 7, "8월": 8, "9월": 9, "10월": 10, "11월": 11, "12월": 12,
}

var (
	// termYearPat finds an academic-term marker like "2026-1학기" to
	// infer the operative year for otherwise year-less day tokens.
	termYearPat = regexp.MustCompile(`(20\d{2})-?[12]학기`)
	// dayTokenPat matches one day-of-month token like "03 (Tue)" or
	// "03 (화)".
	dayTokenPat = regexp.MustCompile(`(\d{1,2})\s*\(([A-Za-z]{3}|[월화수목금토일])\)`)
)

// Options tune the recognizer. Zero values mean defaults.
type Options struct {
	// Now anchors the filtering window; zero means current time in
	// Location.
	Now time.Time
	// Location resolves "today"; nil means Asia/Seoul (the campus
	// timezone), falling back to UTC+9 if the zone database is absent.
	Location *time.Location
	// DaysAhead bounds the window end at today+DaysAhead.
	DaysAhead int
	// MinDescLen discards candidates with shorter descriptions,
	// counted in runes.
	MinDescLen int
}

func (o Options) location() *time.Location {
	if o.Location != nil {
		return o.Location
	}
	if loc, err := time.LoadLocation("Asia/Seoul"); err == nil {
		return loc
	}
	return time.FixedZone("KST", 9*60*60)
}

func (o Options) now() time.Time {
	if !o.Now.IsZero() {
		return o.Now
	}
	return time.Now().In(o.location())
}

func (o Options) daysAhead() int {
	if o.DaysAhead > 0 {
		return o.DaysAhead
	}
	return DefaultDaysAhead
}

func (o Options) minDescLen() int {
	if o.MinDescLen > 0 {
		return o.MinDescLen
	}
	return DefaultMinDescLen
}

// FromText scans a normalized calendar page and returns upcoming
// events inside [today, today+DaysAhead], deduplicated and sorted
// ascending by date. A page with no recognizable month sections yields
// an empty slice, never an error.
func FromText(plain string, opts Options) []record.CalendarEvent {
	bounds := normalize.Boundaries(plain, monthMarkers)
	if len(bounds) == 0 {
		return nil
	}
	loc := opts.location()
	year := operativeYear(plain, opts.now())
	today := midnight(opts.now(), loc)
	windowEnd := today.AddDate(0, 0, opts.daysAhead())

	var events []record.CalendarEvent
	for i, b := range bounds {
		start := b.Offset + len(b.Token)
		end := len(plain)
		if i+1 < len(bounds) {
			end = bounds[i+1].Offset
		}
		events = append(events, fromChunk(plain[start:end], year, b.Value, loc, opts.minDescLen())...)
	}

	kept := events[:0]
	for _, e := range events {
		eff := e.EffectiveDate()
		if eff.Before(today) || eff.After(windowEnd) {
			continue
		}
		kept = append(kept, e)
	}
	kept = record.Dedupe(kept, func(e record.CalendarEvent) string {
		return e.Date.Format("2006-01-02") + "\x00" + e.Description
	})
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Date.Before(kept[j].Date) })
	return kept
}

// fromChunk recovers events from one month-tagged section. Day tokens
// partition the chunk; the free text between one token and the next is
// the description claimed by the preceding date. A lone "~" between
// two tokens turns them into a range.
func fromChunk(chunk string, year, month int, loc *time.Location, minDescLen int) []record.CalendarEvent {
	toks := dayTokenPat.FindAllStringSubmatchIndex(chunk, -1)
	if len(toks) == 0 {
		return nil
	}
	var out []record.CalendarEvent
	for i := 0; i < len(toks); i++ {
		day := mustAtoi(chunk[toks[i][2]:toks[i][3]])

		// Range form: "<day> (Dow) ~ <day> (Dow) <description>"
		if i+1 < len(toks) {
			between := strings.TrimSpace(chunk[toks[i][1]:toks[i+1][0]])
			if between == "~" {
				day2 := mustAtoi(chunk[toks[i+1][2]:toks[i+1][3]])
				desc := descAfter(chunk, toks, i+1)
				if utf8.RuneCountInString(desc) >= minDescLen {
					start, ok1 := makeDate(year, month, day, loc)
					rangeEnd, ok2 := makeDate(year, month, day2, loc)
					if ok1 && ok2 {
						out = append(out, record.CalendarEvent{
							Date:        start,
							RangeEnd:    rangeEnd,
							IsRange:     true,
							Description: desc,
							Display:     fmt.Sprintf("%s~%s · %s", start.Format("01/02"), rangeEnd.Format("01/02"), desc),
						})
					}
				}
				i++ // second token consumed by the range
				continue
			}
		}

		// Single form: "<day> (Dow) <description>"
		desc := descAfter(chunk, toks, i)
		if strings.Contains(desc, "~") {
			// already claimed by a range pattern, or malformed
			continue
		}
		if utf8.RuneCountInString(desc) < minDescLen {
			continue
		}
		if date, ok := makeDate(year, month, day, loc); ok {
			out = append(out, record.CalendarEvent{
				Date:        date,
				Description: desc,
				Display:     fmt.Sprintf("%s · %s", date.Format("01/02"), desc),
			})
		}
	}
	return out
}

// descAfter returns the trimmed free text between token i and the next
// token (or the chunk end).
func descAfter(chunk string, toks [][]int, i int) string {
	from := toks[i][1]
	to := len(chunk)
	if i+1 < len(toks) {
		to = toks[i+1][0]
	}
	return strings.TrimSpace(chunk[from:to])
}

// operativeYear prefers the academic-term marker in the page text and
// falls back to the current year.
func operativeYear(plain string, now time.Time) int {
	if m := termYearPat.FindStringSubmatch(plain); m != nil {
		if y, err := strconv.Atoi(m[1]); err == nil {
			return y
		}
	}
	return now.Year()
}

// makeDate builds a concrete date and reports whether (year, month,
// day) is actually valid. Out-of-range days are heuristic noise from a
// mis-tagged chunk and are discarded silently.
func makeDate(year, month, day int, loc *time.Location) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	if d.Day() != day || d.Month() != time.Month(month) || d.Year() != year {
		return time.Time{}, false
	}
	return d, true
}

func midnight(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func mustAtoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
