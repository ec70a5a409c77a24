package filtering

import (
	"context"
	"errors"
	"fmt"

	"github.com/spigell/job-assistant/internal/jobs"
	"github.com/spigell/job-assistant/internal/matching"
	"github.com/spigell/job-assistant/internal/resume"
	"go.uber.org/zap"
)

// ErrInvalidConfig wraps every validation failure reported by Run.
var ErrInvalidConfig = errors.New("invalid filter configuration")

// Filter represents a single filtering step applied to postings.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate(cfg *Config) error
	Apply(ctx context.Context, deps Deps, p *jobs.Postings) (*jobs.Postings, Step, error)
}

// Deps aggregates dependencies shared across all filtering steps.
type Deps struct {
	Logger  *zap.Logger
	Profile *resume.Profile
	Scorer  *matching.Scorer
	Saved   jobs.Store
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Config contains configuration settings consumed by the filters.
type Config struct {
	Platform          string   `json:"platform" mapstructure:"platform"`
	ExcludedCompanies []string `json:"excluded_companies" mapstructure:"excluded-companies"`
	RedFlags          []string `json:"red_flags" mapstructure:"red-flags"`
	ExcludeFile       string   `json:"-" mapstructure:"exclude-file"`
	HideSaved         bool     `json:"hide_saved" mapstructure:"hide-saved"`
	MinMatchScore     int      `json:"min_match_score" mapstructure:"min-match-score"`
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string            `json:"name"`
	Enabled bool              `json:"enabled"`
	Reason  string            `json:"reason,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// statusProvider is implemented by filters that can supply detailed status information.
type statusProvider interface {
	Status() Status
}

// Default returns every filter in the order they run.
func Default() []Filter {
	return []Filter{
		NewPlatform(),
		NewExcludedCompanies(),
		NewExcludeFile(),
		NewRedFlags(),
		NewSaved(),
		NewMatchScore(),
	}
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Validate checks cfg against every enabled filter.
func Validate(cfg *Config, steps []Filter) error {
	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(cfg); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, step.Name(), err)
		}
	}
	return nil
}

// Run executes the supplied filters sequentially and returns the remaining
// postings with the match reports collected on the way.
func Run(ctx context.Context, cfg *Config, deps Deps, steps []Filter, p *jobs.Postings) (*jobs.Postings, map[jobs.Key]matching.Report, error) {
	if err := Validate(cfg, steps); err != nil {
		return nil, nil, err
	}

	reports := make(map[jobs.Key]matching.Report)
	for _, step := range steps {
		if !step.IsEnabled() {
			if deps.Logger != nil {
				deps.Logger.Debug("filter disabled", zap.String("name", step.Name()))
			}
			continue
		}

		next, info, err := step.Apply(ctx, deps, p)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		if deps.Logger != nil {
			deps.Logger.Info("filter step",
				zap.String("name", step.Name()),
				zap.Int("initial", info.Initial),
				zap.Int("dropped", info.Dropped),
				zap.Int("left", info.Left),
			)
		}

		p = next

		if collector, ok := step.(interface {
			Reports() map[jobs.Key]matching.Report
		}); ok {
			for key, report := range collector.Reports() {
				reports[key] = report
			}
		}
	}

	return p, reports, nil
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}
