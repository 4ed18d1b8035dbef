// Package embedded makes a best-effort attempt to recover a JSON
// payload planted inside raw page markup: script-tag globals and the
// __NEXT_DATA__ mount-point convention. It is documented as
// low-confidence; session-gated or JS-rendered pages cannot be parsed
// and must surface the failure path, not a deeper heuristic.
package embedded

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/seoooyoon/campusdigest/internal/record"
)

// MinCandidateLen filters brace-delimited fragments too small to be
// real app payloads. Keeps strict parsing from being attempted on
// every inline style or event-handler object literal.
const MinCandidateLen = 200

// FailureReason is the fixed reason reported when no structure can be
// recovered from the markup.
const FailureReason = "no structure recoverable"

// FailureFallback is the suggested caller action when recovery fails.
const FailureFallback = "paste the page content manually"

var nextDataPat = regexp.MustCompile(`(?s)id="__NEXT_DATA__"\s*type="application/json"\s*>(.*?)</script>`)

// FromMarkup scans raw markup for an embedded JSON object. Candidates
// are brace-delimited substrings of at least MinCandidateLen bytes,
// strict-parsed in document order; the first JSON object wins. When
// requiredKeyword is non-empty a parsed object only counts if the
// keyword appears (case-insensitively) somewhere in its serialized
// form. The __NEXT_DATA__ script-tag convention is checked last.
func FromMarkup(rawHTML, requiredKeyword string) record.Result[record.JSONBlob] {
	for i := 0; i < len(rawHTML); i++ {
		if rawHTML[i] != '{' {
			continue
		}
		if len(rawHTML)-i < MinCandidateLen {
			break
		}
		obj, consumed := parseObjectAt(rawHTML[i:])
		if obj == nil || consumed < MinCandidateLen {
			continue
		}
		if matchesKeyword(obj, requiredKeyword) {
			return record.Ok([]record.JSONBlob{{Parsed: obj}})
		}
		// A parsed object without the keyword is the wrong payload;
		// skip past it rather than re-parsing its nested braces.
		i += consumed - 1
	}

	if m := nextDataPat.FindStringSubmatch(rawHTML); m != nil {
		var obj map[string]any
		if err := json.Unmarshal([]byte(strings.TrimSpace(m[1])), &obj); err == nil && obj != nil {
			if matchesKeyword(obj, requiredKeyword) {
				return record.Ok([]record.JSONBlob{{Parsed: obj}})
			}
		}
	}
	return record.Fail[record.JSONBlob](FailureReason, FailureFallback)
}

// parseObjectAt strict-parses a JSON object starting at the beginning
// of s and reports how many bytes it spans. A failed parse returns
// (nil, 0); malformed candidates are skipped, never fatal.
func parseObjectAt(s string) (map[string]any, int) {
	dec := json.NewDecoder(strings.NewReader(s))
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil || obj == nil {
		return nil, 0
	}
	return obj, int(dec.InputOffset())
}

func matchesKeyword(obj map[string]any, keyword string) bool {
	if keyword == "" {
		return true
	}
	blob, err := json.Marshal(obj)
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(string(blob)), strings.ToLower(keyword))
}
