package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestGet_SuccessSendsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer srv.Close()

	c := &Client{PerRequestTimeout: 2 * time.Second}
	doc, err := c.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotUA == "" {
		t.Fatalf("expected a default User-Agent header")
	}
	if !strings.Contains(doc.Text, "ok") {
		t.Fatalf("body missing: %q", doc.Text)
	}
	if doc.Encoding != "utf-8" {
		t.Fatalf("encoding: %q", doc.Encoding)
	}
	if doc.FetchedAt.IsZero() {
		t.Fatalf("expected retrieval timestamp")
	}
}

func TestGet_NonOKStatusIsTypedError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := &Client{PerRequestTimeout: 2 * time.Second}
	_, err := c.Get(context.Background(), srv.URL)
	var fe *Error
	if !errors.As(err, &fe) {
		t.Fatalf("expected *fetch.Error, got %v", err)
	}
	if !strings.Contains(fe.Reason, "403") {
		t.Fatalf("reason should carry the status: %q", fe.Reason)
	}
	if !strings.Contains(fe.Reason, "접근 실패") {
		t.Fatalf("reason should be display-ready: %q", fe.Reason)
	}
}

func TestGet_TimeoutIsTypedError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	c := &Client{PerRequestTimeout: 50 * time.Millisecond}
	_, err := c.Get(context.Background(), srv.URL)
	var fe *Error
	if !errors.As(err, &fe) {
		t.Fatalf("expected *fetch.Error, got %v", err)
	}
}

func TestGet_RejectsNonHTTPScheme(t *testing.T) {
	c := &Client{}
	_, err := c.Get(context.Background(), "ftp://example.org/x")
	var fe *Error
	if !errors.As(err, &fe) {
		t.Fatalf("expected *fetch.Error, got %v", err)
	}
}

func TestGet_UndeclaredEncodingDefaultsToUTF8(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body>한글 컨텐츠</body></html>"))
	}))
	defer srv.Close()

	c := &Client{PerRequestTimeout: 2 * time.Second}
	doc, err := c.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Encoding != "utf-8" {
		t.Fatalf("encoding: %q", doc.Encoding)
	}
	if !strings.Contains(doc.Text, "한글 컨텐츠") {
		t.Fatalf("text mangled: %q", doc.Text)
	}
}

func TestGet_LegacyEUCKRPayloadIsDecoded(t *testing.T) {
	// "한글" in EUC-KR
	payload := []byte{0xC7, 0xD1, 0xB1, 0xDB}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	c := &Client{PerRequestTimeout: 2 * time.Second}
	doc, err := c.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Encoding != "euc-kr" {
		t.Fatalf("encoding: %q", doc.Encoding)
	}
	if doc.Text != "한글" {
		t.Fatalf("decoded text: %q", doc.Text)
	}
}

func TestGet_DeclaredCharsetIsHonored(t *testing.T) {
	payload := []byte{0xC7, 0xD1, 0xB1, 0xDB}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=euc-kr")
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	c := &Client{PerRequestTimeout: 2 * time.Second}
	doc, err := c.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Text != "한글" {
		t.Fatalf("decoded text: %q", doc.Text)
	}
}

func TestRawDocument_Origin(t *testing.T) {
	d := &RawDocument{URL: "https://www.yonsei.ac.kr/en_sc/1854/subview.do"}
	if got := d.Origin(); got != "https://www.yonsei.ac.kr" {
		t.Fatalf("origin: %q", got)
	}
	d = &RawDocument{URL: "::bad::"}
	if got := d.Origin(); got != "" {
		t.Fatalf("bad URL should yield empty origin, got %q", got)
	}
}
