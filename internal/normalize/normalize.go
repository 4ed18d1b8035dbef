package normalize

import (
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// Mode selects how much structure survives normalization.
type Mode int

const (
	// Plain keeps only the text stream.
	Plain Mode = iota
	// PlainWithAnchors additionally records (visible text, href) pairs
	// in document order before tags are discarded.
	PlainWithAnchors
)

// Anchor is one (visible text, target) pair. Text offsets into the
// plain stream are not preserved; markup normalization is lossy and
// anchors are matched downstream by pattern proximity, not index.
type Anchor struct {
	Text string
	Href string
}

// Text is the plain-text projection of a fetched page: markup removed,
// entities decoded, whitespace collapsed to single spaces.
type Text struct {
	Plain   string
	Anchors []Anchor
}

// Normalize strips a raw HTML payload down to plain text. Script,
// style and noscript subtrees are dropped wholesale so their bodies
// never leak into pattern matching. Every element boundary contributes
// a space, keeping words from adjacent cells or rows apart. Entity
// references are decoded by the parser. origin is the page's
// scheme://host, used to absolutize hrefs that start with "/".
//
// Input that is not HTML at all degrades to whitespace-collapsed
// passthrough; Normalize never fails.
func Normalize(rawHTML, origin string, mode Mode) Text {
	node, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil || node == nil {
		return Text{Plain: collapseSpaces(rawHTML)}
	}
	var b strings.Builder
	var anchors []Anchor
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "script", "style", "noscript":
				return
			case "a":
				if mode == PlainWithAnchors {
					a := Anchor{Text: collapseSpaces(subtreeText(n)), Href: resolveHref(attrVal(n, "href"), origin)}
					if a.Text != "" || a.Href != "" {
						anchors = append(anchors, a)
					}
				}
			}
			b.WriteByte(' ')
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode {
			b.WriteByte(' ')
		}
	}
	walk(node)
	return Text{Plain: collapseSpaces(b.String()), Anchors: anchors}
}

// subtreeText concatenates the text nodes under n, skipping script and
// style children, with spaces at element boundaries.
func subtreeText(n *html.Node) string {
	var b strings.Builder
	var walk func(c *html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.ElementNode {
			switch strings.ToLower(c.Data) {
			case "script", "style", "noscript":
				return
			}
			b.WriteByte(' ')
		}
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		for k := c.FirstChild; k != nil; k = k.NextSibling {
			walk(k)
		}
		if c.Type == html.ElementNode {
			b.WriteByte(' ')
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return b.String()
}

func attrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

// resolveHref rewrites site-relative targets to absolute ones. Only
// the leading-slash form is handled; anything else is returned as-is.
func resolveHref(href, origin string) string {
	if origin != "" && strings.HasPrefix(href, "/") {
		return strings.TrimSuffix(origin, "/") + href
	}
	return href
}

func collapseSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := true
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == ' ' {
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
			continue
		}
		b.WriteRune(r)
		lastSpace = false
	}
	return strings.TrimRight(b.String(), " ")
}

// SectionBoundary marks where a known marker token occurs in a plain
// text stream. Boundaries are the only section delimiter available
// once table and row structure has been stripped away.
type SectionBoundary struct {
	Offset int
	Token  string
	Value  int
}

// Boundaries finds every case-sensitive occurrence of each marker
// token and returns them ordered by text position. A token that starts
// with a digit only matches when not preceded by another digit, so
// "2월" does not fire inside "12월".
func Boundaries(text string, markers map[string]int) []SectionBoundary {
	var out []SectionBoundary
	for token, value := range markers {
		from := 0
		for {
			i := strings.Index(text[from:], token)
			if i < 0 {
				break
			}
			off := from + i
			from = off + len(token)
			if startsWithDigit(token) && off > 0 && isDigit(text[off-1]) {
				continue
			}
			out = append(out, SectionBoundary{Offset: off, Token: token, Value: value})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Offset < out[j].Offset })
	return out
}

func startsWithDigit(s string) bool { return len(s) > 0 && isDigit(s[0]) }

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
