package jobsearch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spigell/job-assistant/internal/jobs"
	"go.uber.org/zap"
)

const DefaultTimeout = 20 * time.Second

// Request is a search over several platforms.
type Request struct {
	Query     string   `json:"query"`
	Location  string   `json:"location"`
	Platforms []string `json:"platforms"`
	Count     int      `json:"count"`
	Recency   string   `json:"recency"`
}

// Result holds the postings of every platform that answered and a notice for
// every platform that did not.
type Result struct {
	Postings *jobs.Postings `json:"postings"`
	Notices  []string       `json:"notices,omitempty"`
}

// Searcher runs a request against every selected platform. A failing
// platform never fails the whole search.
type Searcher struct {
	client  Client
	cache   Cache
	timeout time.Duration
	logger  *zap.Logger
}

// NewSearcher returns a searcher; cache may be nil and a zero timeout selects
// DefaultTimeout.
func NewSearcher(client Client, cache Cache, timeout time.Duration, logger *zap.Logger) *Searcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Searcher{client: client, cache: cache, timeout: timeout, logger: logger}
}

func (s *Searcher) Search(ctx context.Context, req Request) *Result {
	platforms := req.Platforms
	if len(platforms) == 0 {
		platforms = jobs.Platforms
	}

	result := &Result{Postings: &jobs.Postings{Items: []*jobs.Posting{}}}
	for _, platform := range platforms {
		params := Params{
			Query:      req.Query,
			Location:   req.Location,
			Platform:   platform,
			Count:      req.Count,
			MaxAgeDays: jobs.MaxAgeDays(req.Recency),
		}

		postings, err := s.searchPlatform(ctx, params)
		if err != nil {
			s.logger.Warn("platform search failed",
				zap.String("platform", platform),
				zap.Error(err),
			)
			result.Notices = append(result.Notices, fmt.Sprintf("Error searching jobs on %s: %s", platform, noticeReason(err)))
			continue
		}
		result.Postings.Items = append(result.Postings.Items, postings...)
	}

	if result.Postings.Len() == 0 {
		result.Notices = append(result.Notices, "No jobs found for the selected platforms")
	}

	s.logger.Info("job search finished",
		zap.String("query", req.Query),
		zap.String("location", req.Location),
		zap.Int("platforms", len(platforms)),
		zap.Int("postings", result.Postings.Len()),
		zap.Int("notices", len(result.Notices)),
	)
	return result
}

func (s *Searcher) searchPlatform(ctx context.Context, params Params) ([]*jobs.Posting, error) {
	if s.client == nil {
		return nil, ErrNoAPIKey
	}

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, params)
		if err != nil {
			s.logger.Debug("search cache read failed", zap.Error(err))
		} else if ok {
			s.logger.Debug("search cache hit", zap.String("platform", params.Platform))
			return cached, nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	postings, err := s.client.Search(ctx, params)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, params, postings); err != nil {
			s.logger.Debug("search cache write failed", zap.Error(err))
		}
	}
	return postings, nil
}

func noticeReason(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "request timed out"
	}
	return err.Error()
}
