// Package ollama implements the language-model generator on top of a local
// Ollama instance.
package ollama

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
	"github.com/spigell/job-assistant/internal/llm"
	"github.com/spigell/job-assistant/internal/utils"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llama3"
	DefaultRetries = 2

	baseBackoff = 500 * time.Millisecond
	maxBackoff  = 4 * time.Second
)

var sleep = utils.WaitFor

type generateAPI interface {
	Generate(ctx context.Context, req *api.GenerateRequest, fn api.GenerateResponseFunc) error
}

// Config holds the settings of an Ollama generator.
type Config struct {
	BaseURL string
	Model   string
	System  string
	Retries int
}

// Generator sends prompts to an Ollama model and collects the full response.
type Generator struct {
	api     generateAPI
	model   string
	system  string
	retries int
	logger  *zap.Logger
}

// NewGenerator creates a generator for the Ollama instance at cfg.BaseURL.
// A nil httpClient selects a client with conservative dial timeouts.
func NewGenerator(cfg Config, httpClient *http.Client, logger *zap.Logger) (*Generator, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	u, err := url.ParseRequestURI(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama base url: %w", err)
	}

	if httpClient == nil {
		httpClient = defaultHTTPClient()
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}

	retries := cfg.Retries
	if retries <= 0 {
		retries = DefaultRetries
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Generator{
		api:     api.NewClient(u, httpClient),
		model:   model,
		system:  strings.TrimSpace(cfg.System),
		retries: retries,
		logger:  logger,
	}, nil
}

func defaultHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 15 * time.Second,
			}).DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          10,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: time.Second,
		},
	}
}

// GenerateContent runs a non-streaming generation and returns the response
// text. Server-side failures are retried.
func (g *Generator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.api == nil {
		return "", errors.New("ollama generator is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", llm.ErrEmptyPrompt
	}

	stream := false
	req := &api.GenerateRequest{
		Model:  g.model,
		Prompt: prompt,
		System: g.system,
		Stream: &stream,
	}

	var lastErr error
	for attempt := 1; attempt <= g.retries; attempt++ {
		var builder strings.Builder
		err := g.api.Generate(ctx, req, func(resp api.GenerateResponse) error {
			builder.WriteString(resp.Response)
			return nil
		})
		if err == nil {
			output := strings.TrimSpace(builder.String())
			if output == "" {
				return "", llm.ErrEmptyResponse
			}
			return output, nil
		}
		lastErr = err

		if !temporary(err) || attempt == g.retries {
			break
		}

		delay := utils.Backoff(baseBackoff, attempt, maxBackoff)
		g.logger.Warn("ollama request failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		if err := sleep(ctx, delay); err != nil {
			return "", fmt.Errorf("ollama generate: %w", err)
		}
	}

	return "", fmt.Errorf("ollama generate: %w", lastErr)
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

func temporary(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var statusErr api.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= http.StatusInternalServerError || statusErr.StatusCode == http.StatusTooManyRequests
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
