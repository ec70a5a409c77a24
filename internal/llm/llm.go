// Package llm defines the language-model collaborator used by the narrative
// generators and the helpers shared by its provider implementations.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spigell/job-assistant/internal/logger"
	"github.com/spigell/job-assistant/internal/utils"
	"go.uber.org/zap"
)

const (
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"

	defaultMaxLogLength = 200
)

var (
	ErrEmptyPrompt   = errors.New("prompt must not be empty")
	ErrEmptyResponse = errors.New("model returned empty response")
)

// Generator sends a single prompt to a language model and returns its text.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}

type loggedGenerator struct {
	next      Generator
	logger    *zap.Logger
	maxLogLen int
}

// WithLogging wraps g so that every request and response is logged at debug
// level with truncated previews. The provider and model are attached to every
// entry.
func WithLogging(g Generator, provider string, log *zap.Logger, maxLogLength int) Generator {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	return &loggedGenerator{
		next:      g,
		logger:    logger.WithLLM(log, provider, g.Model()),
		maxLogLen: maxLogLength,
	}
}

func (l *loggedGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	l.logger.Debug("generate content request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, l.maxLogLen)),
	)

	raw, err := l.next.GenerateContent(ctx, prompt)
	if err != nil {
		l.logger.Debug("generate content failed", zap.Error(err))
		return "", err
	}

	l.logger.Debug("generate content response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, l.maxLogLen)),
	)
	return raw, nil
}

func (l *loggedGenerator) Model() string {
	return l.next.Model()
}

// ExtractJSON strips markdown code fences and any prose around the first JSON
// object or array in raw.
func ExtractJSON(raw string) string {
	raw = strings.TrimSpace(raw)

	if start := strings.Index(raw, "```"); start != -1 {
		fenced := raw[start+3:]
		fenced = strings.TrimPrefix(fenced, "json")
		fenced = strings.TrimPrefix(fenced, "JSON")
		if end := strings.Index(fenced, "```"); end != -1 {
			fenced = fenced[:end]
		}
		raw = strings.TrimSpace(fenced)
	}
	raw = strings.Trim(raw, "`")
	raw = strings.TrimSpace(raw)

	if raw == "" || raw[0] == '{' || raw[0] == '[' {
		return raw
	}

	start := strings.IndexAny(raw, "[{")
	if start == -1 {
		return raw
	}
	closing := byte('}')
	if raw[start] == '[' {
		closing = ']'
	}
	end := strings.LastIndexByte(raw, closing)
	if end <= start {
		return raw
	}
	return raw[start : end+1]
}

// CoerceString converts a decoded JSON value into trimmed text. Lists are
// joined by newlines; other non-string values are re-encoded as JSON.
func CoerceString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := CoerceString(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "\n")
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
