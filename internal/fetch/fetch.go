package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/korean"
)

// DefaultUserAgent identifies the client the way a browser would.
// Several of the upstream sites reject requests with no UA at all.
const DefaultUserAgent = "Mozilla/5.0 (campusdigest) AppleWebKit/537.36 (KHTML, like Gecko) Chrome Safari"

// DefaultTimeout bounds a single content-page fetch.
const DefaultTimeout = 15 * time.Second

// RawDocument is one fetched page, decoded to UTF-8. It is created per
// fetch call, never mutated, and discarded after normalization.
type RawDocument struct {
	URL       string
	Text      string
	Encoding  string
	FetchedAt time.Time
}

// Origin returns the document's scheme://host, used to absolutize
// site-relative links.
func (d *RawDocument) Origin() string {
	u, err := url.Parse(d.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// Error is the typed outcome of a fetch that could not produce a
// document: unreachable host, timeout, non-2xx status. Reason is
// suitable for direct display.
type Error struct {
	URL    string
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Reason, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }

// Client wraps http.Client with a per-request timeout, a default
// identification header, and charset normalization. There is no retry:
// repeatedly hammering a slow third-party site is a caller decision,
// not default behavior.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string
	// PerRequestTimeout bounds each request. Zero means DefaultTimeout.
	PerRequestTimeout time.Duration
	// RedirectMaxHops caps redirect following to avoid loops. Zero means default (5).
	RedirectMaxHops int
}

func (c *Client) getHTTPClient() *http.Client {
	if c.HTTPClient != nil {
		// Clone to attach our redirect policy without mutating caller's client
		base := *c.HTTPClient
		base.CheckRedirect = c.checkRedirectFunc()
		return &base
	}
	return &http.Client{CheckRedirect: c.checkRedirectFunc()}
}

func (c *Client) timeout() time.Duration {
	if c.PerRequestTimeout > 0 {
		return c.PerRequestTimeout
	}
	return DefaultTimeout
}

// Get issues a single GET and returns the decoded page. All failure
// modes come back as *Error; Get never panics and never retries.
func (c *Client) Get(ctx context.Context, rawURL string) (*RawDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &Error{URL: rawURL, Reason: "잘못된 요청", Err: err}
	}
	if req.URL == nil || !isHTTPScheme(req.URL) {
		return nil, &Error{URL: rawURL, Reason: fmt.Sprintf("unsupported URL scheme %q", req.URL.Scheme)}
	}
	ua := c.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	req.Header.Set("User-Agent", ua)

	tctx, cancel := context.WithTimeout(req.Context(), c.timeout())
	defer cancel()
	req = req.WithContext(tctx)

	resp, err := c.getHTTPClient().Do(req)
	if err != nil {
		reason := "페이지 접근 실패"
		if errors.Is(err, context.DeadlineExceeded) {
			reason = "페이지 접근 실패 (timeout)"
		}
		return nil, &Error{URL: rawURL, Reason: reason, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{URL: rawURL, Reason: fmt.Sprintf("페이지 접근 실패 (HTTP %d)", resp.StatusCode)}
	}
	contentType := resp.Header.Get("Content-Type")
	if !isAllowedContentType(contentType) {
		return nil, &Error{URL: rawURL, Reason: fmt.Sprintf("unsupported content type %q", contentType)}
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{URL: rawURL, Reason: "응답 읽기 실패", Err: err}
	}
	text, encName := decodeToUTF8(raw, contentType)
	return &RawDocument{URL: rawURL, Text: text, Encoding: encName, FetchedAt: time.Now()}, nil
}

// decodeToUTF8 normalizes the payload's character encoding. Declared
// charsets (header or meta) are honored; undeclared payloads default
// to UTF-8, with EUC-KR as the one legacy fallback actually seen on
// these sites, rather than the windows-1252 default the HTML spec
// would dictate.
func decodeToUTF8(raw []byte, contentType string) (string, string) {
	enc, name, certain := charset.DetermineEncoding(raw, contentType)
	if !certain && name == "windows-1252" {
		if utf8.Valid(raw) {
			return string(raw), "utf-8"
		}
		if decoded, err := korean.EUCKR.NewDecoder().Bytes(raw); err == nil && utf8.Valid(decoded) {
			return string(decoded), "euc-kr"
		}
		return string(raw), "utf-8"
	}
	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw), "utf-8"
	}
	return string(decoded), name
}

func (c *Client) checkRedirectFunc() func(req *http.Request, via []*http.Request) error {
	max := c.RedirectMaxHops
	if max <= 0 {
		max = 5
	}
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= max {
			return errors.New("too many redirects")
		}
		if req.URL == nil || !isHTTPScheme(req.URL) {
			return errors.New("redirect to unsupported scheme")
		}
		return nil
	}
}

func isHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}

func isAllowedContentType(ct string) bool {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if ct == "" {
		// inconsistently configured servers; assume HTML-adjacent text
		return true
	}
	return strings.HasPrefix(ct, "text/") ||
		strings.HasPrefix(ct, "application/xhtml+xml") ||
		strings.HasPrefix(ct, "application/json")
}
