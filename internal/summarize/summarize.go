// Package summarize is the optional downstream consumer of extraction
// results: it forwards a rendered digest as context to an
// OpenAI-compatible chat model and returns the reply text. The
// extraction core never depends on this package.
package summarize

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/seoooyoon/campusdigest/internal/cache"
	"github.com/seoooyoon/campusdigest/internal/llm"
)

// ErrEmptyCompletion indicates the model returned no usable text.
var ErrEmptyCompletion = errors.New("empty completion")

const defaultSystemPrompt = "You are a concise campus-life assistant for university students. " +
	"Using only the provided campus context (notices, academic calendar entries, course hints), " +
	"point out the dates and concrete actions worth attention over the next few weeks. " +
	"Answer in the language the context is written in. Keep it short and factual; do not invent items."

// Input bundles what one summarization call needs.
type Input struct {
	// Context is the rendered digest forwarded verbatim to the model.
	Context string
	Model   string
	// LanguageHint, when set, overrides the answer language.
	LanguageHint string
}

// Summarizer calls the chat model, caching replies by model and
// prompt so re-runs over unchanged extractions cost nothing.
type Summarizer struct {
	Client llm.Client
	Cache  *cache.LLMCache
	// SystemPrompt, when non-empty, overrides the default system message.
	SystemPrompt string
}

// Summarize produces advice text for the digest. One short-backoff
// retry covers transient API errors; anything else is returned to the
// caller as an error (this is an app-layer collaborator, not part of
// the Result-union contract).
func (s *Summarizer) Summarize(ctx context.Context, in Input) (string, error) {
	if s.Client == nil || strings.TrimSpace(in.Model) == "" {
		return "", errors.New("summarizer not configured")
	}
	if strings.TrimSpace(in.Context) == "" {
		return "", errors.New("nothing to summarize")
	}
	system := defaultSystemPrompt
	if strings.TrimSpace(s.SystemPrompt) != "" {
		system = s.SystemPrompt
	}
	user := buildUserMessage(in)

	key := cache.KeyFrom(in.Model, system, user)
	if s.Cache != nil {
		if raw, ok := s.Cache.Get(ctx, key); ok {
			var out struct {
				Text string `json:"text"`
			}
			if err := json.Unmarshal(raw, &out); err == nil && strings.TrimSpace(out.Text) != "" {
				return out.Text, nil
			}
		}
	}

	req := openai.ChatCompletionRequest{
		Model: in.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.2,
		N:           1,
	}
	resp, err := s.Client.CreateChatCompletion(ctx, req)
	if err != nil {
		sleep(100 * time.Millisecond)
		resp, err = s.Client.CreateChatCompletion(ctx, req)
		if err != nil {
			return "", fmt.Errorf("summarize call (after retry): %w", err)
		}
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", ErrEmptyCompletion
	}
	if s.Cache != nil {
		payload, _ := json.Marshal(map[string]string{"text": out})
		_ = s.Cache.Save(ctx, key, payload)
	}
	return out, nil
}

func buildUserMessage(in Input) string {
	var sb strings.Builder
	sb.WriteString("Campus context, freshly extracted:\n\n")
	sb.WriteString(in.Context)
	sb.WriteString("\n\nSummarize what a student should act on, grouped by urgency.")
	if in.LanguageHint != "" {
		sb.WriteString("\nWrite in language: ")
		sb.WriteString(in.LanguageHint)
	}
	return sb.String()
}

// sleepFunc lets tests replace the retry backoff with a no-op.
var sleepFunc func(d time.Duration)

func sleep(d time.Duration) {
	if sleepFunc != nil {
		sleepFunc(d)
		return
	}
	time.Sleep(d)
}
