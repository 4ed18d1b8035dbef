// Package digest serializes extraction results into the compact text
// blocks a downstream consumer forwards as context. It is plain string
// formatting over the record fields; no I/O and no knowledge of what
// the consumer does with the text.
package digest

import (
	"fmt"
	"strings"

	"github.com/seoooyoon/campusdigest/internal/record"
)

// Section is one named block of serialized records.
type Section struct {
	Name string
	Body string
}

// NoticeSection renders notices as "- DATE | TITLE" lines, capped at
// max entries (non-positive means all). ok is false when there is
// nothing to render.
func NoticeSection(notices []record.Notice, max int) (Section, bool) {
	notices = capped(notices, max)
	if len(notices) == 0 {
		return Section{}, false
	}
	lines := make([]string, 0, len(notices))
	for _, n := range notices {
		lines = append(lines, fmt.Sprintf("- %s | %s", n.Date, n.Title))
	}
	return Section{Name: "notices", Body: strings.Join(lines, "\n")}, true
}

// CalendarSection renders events as "- DISPLAY" lines, capped at max
// entries (non-positive means all).
func CalendarSection(events []record.CalendarEvent, max int) (Section, bool) {
	events = capped(events, max)
	if len(events) == 0 {
		return Section{}, false
	}
	lines := make([]string, 0, len(events))
	for _, e := range events {
		lines = append(lines, "- "+e.Display)
	}
	return Section{Name: "calendar", Body: strings.Join(lines, "\n")}, true
}

// Render joins sections into one context block with section headers.
func Render(sections []Section) string {
	var b strings.Builder
	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("[")
		b.WriteString(s.Name)
		b.WriteString("]\n")
		b.WriteString(s.Body)
	}
	return b.String()
}

func capped[T any](items []T, max int) []T {
	if max > 0 && len(items) > max {
		return items[:max]
	}
	return items
}
