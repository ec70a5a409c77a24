// Package jobsearch finds job postings through the SerpAPI google_jobs engine
// and fans a search out over several platforms.
package jobsearch

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spigell/job-assistant/internal/jobs"
	"github.com/spigell/job-assistant/internal/utils"
	"go.uber.org/zap"
)

const (
	apiURL          = "https://serpapi.com"
	SearchPath      = "/search.json"
	engine          = "google_jobs"
	userAgent       = "spigell/job-assistant"
	contentEncoding = "gzip"

	DefaultCount = 5
	MaxCount     = 20

	// SerpAPI reports an empty result set as an error message.
	noResultsMessage = "hasn't returned any results"
)

var ErrNoAPIKey = errors.New("serpapi key is not configured")

// Params describe one search on one platform.
type Params struct {
	Query      string
	Location   string
	Platform   string
	Count      int
	MaxAgeDays int
}

// Client searches a job board.
type Client interface {
	Search(ctx context.Context, params Params) ([]*jobs.Posting, error)
}

// SerpAPI is a Client for the google_jobs engine.
type SerpAPI struct {
	apiKey     string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

func NewSerpAPI(apiKey string, logger *zap.Logger) *SerpAPI {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SerpAPI{
		apiKey: strings.TrimSpace(apiKey),
		logger: logger,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		UserAgent: userAgent,
		APIURL:    apiURL,
	}
}

type serpResponse struct {
	Error       string `json:"error"`
	JobsResults []any  `json:"jobs_results"`
}

type serpJob struct {
	Title       string `mapstructure:"title"`
	CompanyName string `mapstructure:"company_name"`
	Location    string `mapstructure:"location"`
	Via         string `mapstructure:"via"`
	Description string `mapstructure:"description"`
	ShareLink   string `mapstructure:"share_link"`
	Extensions  struct {
		PostedAt     string `mapstructure:"posted_at"`
		ScheduleType string `mapstructure:"schedule_type"`
	} `mapstructure:"detected_extensions"`
	ApplyOptions []struct {
		Title string `mapstructure:"title"`
		Link  string `mapstructure:"link"`
	} `mapstructure:"apply_options"`
}

// Search returns up to params.Count postings. Every posting is marked as a
// real job and tagged with params.Platform.
func (c *SerpAPI) Search(ctx context.Context, params Params) ([]*jobs.Posting, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	count := params.Count
	switch {
	case count <= 0:
		count = DefaultCount
	case count > MaxCount:
		count = MaxCount
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIURL+SearchPath, nil)
	if err != nil {
		return nil, err
	}
	req.URL.RawQuery = buildParams(params, c.apiKey).Encode()
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept-Encoding", contentEncoding)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("make request",
		zap.String("platform", params.Platform),
		zap.String("query", params.Query),
		zap.String("location", params.Location),
	)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serpapi request: %w", err)
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		reader = gz
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read serpapi response: %w", err)
	}

	var response serpResponse
	if err := json.Unmarshal(data, &response); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("bad status: %s: %s", resp.Status, utils.TruncateForLog(string(data), 200))
		}
		return nil, fmt.Errorf("decode serpapi response: %w", err)
	}

	if response.Error != "" {
		if strings.Contains(response.Error, noResultsMessage) {
			return []*jobs.Posting{}, nil
		}
		return nil, fmt.Errorf("serpapi: %s", response.Error)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	var results []serpJob
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &results,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(response.JobsResults); err != nil {
		return nil, fmt.Errorf("decode jobs results: %w", err)
	}

	postings := make([]*jobs.Posting, 0, min(count, len(results)))
	for _, r := range results {
		if len(postings) == count {
			break
		}
		postings = append(postings, r.posting(params.Platform))
	}

	c.logger.Debug("got response from serpapi",
		zap.String("platform", params.Platform),
		zap.Int("results", len(results)),
		zap.Int("returned", len(postings)),
	)
	return postings, nil
}

func (r serpJob) posting(platform string) *jobs.Posting {
	p := &jobs.Posting{
		Title:       strings.TrimSpace(r.Title),
		Company:     strings.TrimSpace(r.CompanyName),
		Location:    strings.TrimSpace(r.Location),
		Platform:    platform,
		Description: strings.TrimSpace(r.Description),
		DatePosted:  r.Extensions.PostedAt,
		ApplyURL:    r.ShareLink,
		IsRealJob:   true,
		JobType:     r.Extensions.ScheduleType,
	}
	if p.Platform == "" {
		p.Platform = strings.TrimPrefix(strings.TrimSpace(r.Via), "via ")
	}

	// prefer the apply link of the platform the search ran for
	if len(r.ApplyOptions) > 0 {
		p.ApplyURL = r.ApplyOptions[0].Link
	}
	for _, opt := range r.ApplyOptions {
		if strings.EqualFold(strings.TrimSpace(opt.Title), platform) {
			p.ApplyURL = opt.Link
			break
		}
	}
	return p
}

func buildParams(params Params, apiKey string) url.Values {
	q := url.Values{}
	q.Set("engine", engine)
	q.Set("api_key", apiKey)

	query := strings.TrimSpace(params.Query)
	switch loc := strings.TrimSpace(params.Location); {
	case strings.EqualFold(loc, "remote"):
		query += " remote"
	case loc != "":
		q.Set("location", loc)
	}
	if params.Platform != "" {
		query += " " + params.Platform
	}
	q.Set("q", strings.TrimSpace(query))

	if chip := datePostedChip(params.MaxAgeDays); chip != "" {
		q.Set("chips", "date_posted:"+chip)
	}
	return q
}

func datePostedChip(days int) string {
	switch {
	case days <= 0:
		return ""
	case days == 1:
		return "today"
	case days <= 3:
		return "3days"
	case days <= 7:
		return "week"
	default:
		return "month"
	}
}
