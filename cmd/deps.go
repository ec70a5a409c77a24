package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/job-assistant/internal/interviews"
	"github.com/spigell/job-assistant/internal/jobs"
	"github.com/spigell/job-assistant/internal/jobsearch"
	"github.com/spigell/job-assistant/internal/llm"
	"github.com/spigell/job-assistant/internal/llm/gemini"
	"github.com/spigell/job-assistant/internal/llm/ollama"
	"github.com/spigell/job-assistant/internal/logger"
	"github.com/spigell/job-assistant/internal/narrative"
	"github.com/spigell/job-assistant/internal/secrets"
	"github.com/spigell/job-assistant/internal/session"
)

const (
	providerNone  = "none"
	driverFile    = "file"
	driverSQLite  = "sqlite"
	keyFileEnvVar = "JOB_ASSISTANT_SERPAPI_KEY_FILE"
)

// env wires the collaborators every command needs.
type env struct {
	config *Config
	logger *zap.Logger
}

func setup() (*env, error) {
	config, err := getConfig()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(config.Log)
	if err != nil {
		return nil, fmt.Errorf("creating a logger: %w", err)
	}

	log.Debug("configuration loaded", zap.String("config_file", viper.ConfigFileUsed()))
	return &env{config: config, logger: log}, nil
}

func (e *env) close() {
	_ = e.logger.Sync()
}

func (e *env) loadSession() (*session.Session, error) {
	return session.Load(e.config.Session)
}

func (e *env) saveSession(s *session.Session) error {
	if err := s.Save(e.config.Session); err != nil {
		return err
	}
	e.logger.Debug("session saved", zap.String("path", e.config.Session))
	return nil
}

// newGenerator returns the configured language model or nil when the
// provider is none.
func newGenerator(ctx context.Context, cfg *AIConfig, log *zap.Logger) (llm.Generator, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))

	switch provider {
	case "", providerNone:
		return nil, nil
	case llm.ProviderGemini:
		gcfg := cfg.Gemini
		if gcfg == nil {
			gcfg = &GeminiConfig{}
		}
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "gemini api key",
			File:  gcfg.APIKeyFile,
			Value: gcfg.APIKey,
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
		}
		g, err := gemini.NewGenerator(ctx, gemini.Config{
			APIKey:     apiKey,
			Model:      gcfg.Model,
			MaxRetries: gcfg.MaxRetries,
		}, log)
		if err != nil {
			return nil, err
		}
		return llm.WithLogging(g, llm.ProviderGemini, log, cfg.MaxLogLength), nil
	case llm.ProviderOllama:
		ocfg := cfg.Ollama
		if ocfg == nil {
			ocfg = &OllamaConfig{}
		}
		g, err := ollama.NewGenerator(ollama.Config{
			BaseURL: ocfg.BaseURL,
			Model:   ocfg.Model,
			Retries: ocfg.Retries,
		}, nil, log)
		if err != nil {
			return nil, err
		}
		return llm.WithLogging(g, llm.ProviderOllama, log, cfg.MaxLogLength), nil
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}

// newAssistant never fails: a broken model configuration degrades to the
// rule-based generators.
func (e *env) newAssistant(ctx context.Context) *narrative.Assistant {
	generator, err := newGenerator(ctx, e.config.AI, e.logger)
	if err != nil {
		e.logger.Warn("language model unavailable, using rule-based generators", zap.Error(err))
	}
	if generator == nil {
		return narrative.NewAssistant(nil, e.logger)
	}
	author := narrative.NewModelAuthor(generator, e.config.AI.Timeout, e.logger)
	return narrative.NewAssistant(author, e.logger)
}

// newSearcher builds the SerpAPI searcher. Without an API key every platform
// reports a notice instead of results.
func (e *env) newSearcher(ctx context.Context) (*jobsearch.Searcher, func(), error) {
	cfg := e.config.Search

	apiKey, err := secrets.Optional(secrets.Source{
		Name:  "serpapi key",
		File:  cfg.APIKeyFile,
		Value: cfg.APIKey,
	})
	if err != nil {
		return nil, nil, err
	}

	var client jobsearch.Client
	if apiKey != "" {
		serp := jobsearch.NewSerpAPI(apiKey, e.logger)
		if cfg.UserAgent != "" {
			serp.UserAgent = cfg.UserAgent
		}
		client = serp
	} else {
		e.logger.Warn("job search is not configured",
			zap.String("hint", "set SERPAPI_API_KEY, "+keyFileEnvVar+" or search.api-key-file"),
		)
	}

	cleanup := func() {}
	var cache jobsearch.Cache
	if cfg.RedisURL != "" {
		rdb, err := jobsearch.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			e.logger.Warn("search cache disabled", zap.Error(err))
		} else {
			cache = jobsearch.NewRedisCache(rdb, cfg.CacheTTL)
			cleanup = func() { _ = rdb.Close() }
		}
	}

	return jobsearch.NewSearcher(client, cache, cfg.Timeout, e.logger), cleanup, nil
}

func (e *env) newSavedStore(ctx context.Context) (jobs.Store, error) {
	cfg := e.config.Storage

	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", driverFile:
		return jobs.NewFileStore(cfg.SavedJobs), nil
	case driverSQLite:
		return jobs.NewSQLiteStore(ctx, cfg.SQLiteDSN)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}

func (e *env) newInterviewStore() *interviews.Store {
	return interviews.NewStore(e.config.Storage.InterviewsDir)
}
