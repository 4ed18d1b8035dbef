package digest

import (
	"strings"
	"testing"
	"time"

	"github.com/seoooyoon/campusdigest/internal/record"
)

func TestNoticeSection_LinesAndCap(t *testing.T) {
	notices := []record.Notice{
		{Title: "Dorm Application Schedule", Date: "2026.01.16"},
		{Title: "Library Extended Hours", Date: "2026.01.20"},
		{Title: "Shuttle Bus Change", Date: "2026.01.22"},
	}
	s, ok := NoticeSection(notices, 2)
	if !ok {
		t.Fatalf("expected a section")
	}
	lines := strings.Split(s.Body, "\n")
	if len(lines) != 2 {
		t.Fatalf("cap not applied: %q", s.Body)
	}
	if lines[0] != "- 2026.01.16 | Dorm Application Schedule" {
		t.Fatalf("line format: %q", lines[0])
	}
}

func TestNoticeSection_EmptyInput(t *testing.T) {
	if _, ok := NoticeSection(nil, 5); ok {
		t.Fatalf("nothing to render must report ok=false")
	}
}

func TestCalendarSection_UsesDisplayString(t *testing.T) {
	events := []record.CalendarEvent{
		{Date: time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC), Display: "02/03 · 개강"},
	}
	s, ok := CalendarSection(events, 10)
	if !ok {
		t.Fatalf("expected a section")
	}
	if s.Body != "- 02/03 · 개강" {
		t.Fatalf("body: %q", s.Body)
	}
}

func TestRender_JoinsSectionsWithHeaders(t *testing.T) {
	out := Render([]Section{
		{Name: "notices", Body: "- a"},
		{Name: "calendar", Body: "- b"},
	})
	if !strings.Contains(out, "[notices]\n- a") || !strings.Contains(out, "[calendar]\n- b") {
		t.Fatalf("render: %q", out)
	}
	if !strings.Contains(out, "\n\n[calendar]") {
		t.Fatalf("sections should be blank-line separated: %q", out)
	}
}
