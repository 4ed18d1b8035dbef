package app

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func noticeServer(t *testing.T, hits *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			*hits++
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><body>
		<a href="/board/1">1 Freshman Dorm Notice 조회수 3 Date 2026.01.16</a>
		<a href="/board/2">2 Library Extended Hours Notice 조회수 5 Date 2026.01.20</a>
		</body></html>`))
	}))
}

func TestRun_NoticesMode(t *testing.T) {
	srv := noticeServer(t, nil)
	defer srv.Close()

	a, err := New(context.Background(), Config{Mode: ModeNotices, NoticeURL: srv.URL, Limit: 5})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	var buf bytes.Buffer
	a.out = &buf
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "2026.01.20 | Library Extended Hours Notice") {
		t.Fatalf("output: %q", out)
	}
	if !strings.Contains(out, srv.URL+"/board/1") {
		t.Fatalf("expected resolved URL in output: %q", out)
	}
}

func TestRun_NoticesServedFromCacheWithinTTL(t *testing.T) {
	var hits int
	srv := noticeServer(t, &hits)
	defer srv.Close()

	cfg := Config{Mode: ModeNotices, NoticeURL: srv.URL, Limit: 5, CacheDir: t.TempDir(), CacheTTL: time.Hour}
	for i := 0; i < 2; i++ {
		a, err := New(context.Background(), cfg)
		if err != nil {
			t.Fatalf("new: %v", err)
		}
		a.out = &bytes.Buffer{}
		if err := a.Run(context.Background()); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
	if hits != 1 {
		t.Fatalf("expected second run served from cache, got %d fetches", hits)
	}
}

func TestRun_FailureRendersReasonAndFallback(t *testing.T) {
	srv := noticeServer(t, nil)
	srv.Close() // refuse connections

	a, err := New(context.Background(), Config{Mode: ModeNotices, NoticeURL: srv.URL, FetchTimeout: 500 * time.Millisecond})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	var buf bytes.Buffer
	a.out = &buf
	err = a.Run(context.Background())
	if !errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "접근 실패") || !strings.Contains(out, "대안:") {
		t.Fatalf("failure rendering: %q", out)
	}
}

func TestRun_EmptySuccessIsNeutralNotError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><p>nothing here</p></body></html>`))
	}))
	defer srv.Close()

	a, err := New(context.Background(), Config{Mode: ModeNotices, NoticeURL: srv.URL})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	var buf bytes.Buffer
	a.out = &buf
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("empty success must not be an error: %v", err)
	}
	if !strings.Contains(buf.String(), "표시할 공지가 없습니다") {
		t.Fatalf("expected neutral message: %q", buf.String())
	}
}

func TestRun_DigestModeCombinesSections(t *testing.T) {
	noticeSrv := noticeServer(t, nil)
	defer noticeSrv.Close()
	calSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><body>2026-1학기 February 03 (Tue) 개강</body></html>`))
	}))
	defer calSrv.Close()

	a, err := New(context.Background(), Config{
		Mode:        ModeDigest,
		NoticeURL:   noticeSrv.URL,
		CalendarURL: calSrv.URL,
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	var buf bytes.Buffer
	a.out = &buf
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "[notices]") {
		t.Fatalf("digest missing notices section: %q", out)
	}
}

func TestRun_UnknownModeIsError(t *testing.T) {
	a, err := New(context.Background(), Config{Mode: "bogus"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := a.Run(context.Background()); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}
