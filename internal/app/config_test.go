package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestApplyEnvToConfig_ExplicitValuesWin(t *testing.T) {
	t.Setenv("NOTICE_URL", "https://env.example/notice")
	t.Setenv("NOTICE_LIMIT", "3")
	t.Setenv("LLM_MODEL", "env-model")

	cfg := Config{NoticeURL: "https://flag.example/notice"}
	ApplyEnvToConfig(&cfg)
	if cfg.NoticeURL != "https://flag.example/notice" {
		t.Fatalf("explicit value overridden: %q", cfg.NoticeURL)
	}
	if cfg.Limit != 3 {
		t.Fatalf("unset field should come from env: %d", cfg.Limit)
	}
	if cfg.LLMModel != "env-model" {
		t.Fatalf("llm model: %q", cfg.LLMModel)
	}
}

func TestApplyEnvToConfig_OpenAIKeyFallback(t *testing.T) {
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	var cfg Config
	ApplyEnvToConfig(&cfg)
	if cfg.LLMAPIKey != "sk-test" {
		t.Fatalf("expected OPENAI_API_KEY fallback, got %q", cfg.LLMAPIKey)
	}
}

func TestLoadAndMergeConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	yml := `
mode: digest
sources:
  notices: https://file.example/notice
  calendar: https://file.example/calendar
extract:
  limit: 9
  daysAhead: 60
  minTitleLen: 6
language: ko
`
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	fc, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	cfg := Config{Limit: 5} // pretend a flag set this
	MergeFileConfig(&cfg, fc)
	if cfg.Limit != 5 {
		t.Fatalf("flag precedence lost: %d", cfg.Limit)
	}
	if cfg.Mode != "digest" || cfg.NoticeURL != "https://file.example/notice" {
		t.Fatalf("merge: %+v", cfg)
	}
	if cfg.DaysAhead != 60 || cfg.MinTitleLen != 6 || cfg.Language != "ko" {
		t.Fatalf("merge values: %+v", cfg)
	}
}

func TestLoadConfigFile_MissingFile(t *testing.T) {
	if _, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent.yml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadConfigFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	if err := os.WriteFile(path, []byte(":\n\t- not yaml"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadConfigFile(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestResolveLocation_FallsBackToKST(t *testing.T) {
	loc := resolveLocation("Not/AZone")
	if loc == nil {
		t.Fatalf("expected a location")
	}
	_, offset := time.Date(2026, 2, 1, 0, 0, 0, 0, loc).Zone()
	if offset != 9*60*60 {
		t.Fatalf("expected UTC+9 fallback, got %d", offset)
	}
}
