package filtering

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/job-assistant/internal/jobs"
	"github.com/spigell/job-assistant/internal/matching"
)

// AllPlatforms disables the platform filter.
const AllPlatforms = "All Platforms"

func keyStrings(keys []jobs.Key) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k.String())
	}
	return out
}

type platformFilter struct {
	platform string
}

// NewPlatform creates a filter that keeps postings of one platform.
func NewPlatform() Filter {
	return &platformFilter{}
}

func (f *platformFilter) Name() string { return "platform" }

func (f *platformFilter) Disable(string) {}

func (f *platformFilter) IsEnabled() bool { return true }

func (f *platformFilter) Validate(cfg *Config) error {
	f.platform = ""
	if cfg == nil {
		return nil
	}
	platform := strings.TrimSpace(cfg.Platform)
	if platform == "" || strings.EqualFold(platform, AllPlatforms) {
		return nil
	}
	for _, known := range jobs.Platforms {
		if strings.EqualFold(known, platform) {
			f.platform = known
			return nil
		}
	}
	return fmt.Errorf("unknown platform %q", cfg.Platform)
}

func (f *platformFilter) Apply(_ context.Context, deps Deps, p *jobs.Postings) (*jobs.Postings, Step, error) {
	initial := p.Len()
	if f.platform == "" {
		return p, Step{Initial: initial, Dropped: 0, Left: p.Len()}, nil
	}

	dropped := p.Retain(func(posting *jobs.Posting) bool {
		return strings.EqualFold(strings.TrimSpace(posting.Platform), f.platform)
	})
	if deps.Logger != nil && len(dropped) > 0 {
		deps.Logger.Debug("excluding postings from other platforms",
			zap.String("platform", f.platform),
			zap.Strings("excluded_postings", keyStrings(dropped)),
		)
	}

	return p, Step{Initial: initial, Dropped: len(dropped), Left: p.Len()}, nil
}

func (f *platformFilter) Status() Status {
	details := map[string]string{}
	if f.platform != "" {
		details["platform"] = f.platform
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}

type companiesFilter struct {
	companies []string
}

// NewExcludedCompanies creates a filter that removes postings by companies configured in the config.
func NewExcludedCompanies() Filter {
	return &companiesFilter{}
}

func (f *companiesFilter) Name() string { return "excluded_companies" }

func (f *companiesFilter) Disable(string) {}

func (f *companiesFilter) IsEnabled() bool { return true }

func (f *companiesFilter) Validate(cfg *Config) error {
	f.companies = nil
	if cfg != nil {
		f.companies = append(f.companies, cfg.ExcludedCompanies...)
	}
	return nil
}

func (f *companiesFilter) Apply(_ context.Context, deps Deps, p *jobs.Postings) (*jobs.Postings, Step, error) {
	initial := p.Len()
	if len(f.companies) == 0 {
		return p, Step{Initial: initial, Dropped: 0, Left: p.Len()}, nil
	}

	excluded := p.Exclude(jobs.CompanyField, f.companies)
	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Info("excluding postings by companies",
			zap.Strings("excluded_companies", f.companies),
			zap.Strings("excluded_postings", keyStrings(excluded)),
			zap.Int("postings_left", p.Len()),
		)
	}

	return p, Step{Initial: initial, Dropped: len(excluded), Left: p.Len()}, nil
}

func (f *companiesFilter) Status() Status {
	details := map[string]string{}
	if len(f.companies) > 0 {
		details["companies"] = strings.Join(f.companies, ",")
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}

type excludeFileFilter struct {
	path string
}

// NewExcludeFile creates a filter that removes postings listed in a postings dump.
func NewExcludeFile() Filter {
	return &excludeFileFilter{}
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Disable(string) {}

func (f *excludeFileFilter) IsEnabled() bool { return true }

func (f *excludeFileFilter) Validate(cfg *Config) error {
	f.path = ""
	if cfg != nil {
		f.path = strings.TrimSpace(cfg.ExcludeFile)
	}
	return nil
}

func (f *excludeFileFilter) Apply(_ context.Context, deps Deps, p *jobs.Postings) (*jobs.Postings, Step, error) {
	initial := p.Len()
	if f.path == "" {
		return p, Step{Initial: initial, Dropped: 0, Left: p.Len()}, nil
	}

	excluded, err := jobs.LoadPostingsFile(f.path)
	if err != nil {
		return p, Step{}, fmt.Errorf("getting excluded postings from file: %w", err)
	}

	keys := make(map[jobs.Key]struct{}, excluded.Len())
	for _, posting := range excluded.Items {
		keys[posting.Key()] = struct{}{}
	}

	removed := p.Retain(func(posting *jobs.Posting) bool {
		_, found := keys[posting.Key()]
		return !found
	})
	if deps.Logger != nil && len(removed) > 0 {
		deps.Logger.Info("excluding postings based on exclude file",
			zap.String("path", f.path),
			zap.Strings("excluded_postings", keyStrings(removed)),
			zap.Int("postings_left", p.Len()),
		)
	}

	return p, Step{Initial: initial, Dropped: len(removed), Left: p.Len()}, nil
}

func (f *excludeFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}

type redFlagsFilter struct {
	flags []string
}

// NewRedFlags creates a filter that removes postings mentioning any red-flag term.
func NewRedFlags() Filter {
	return &redFlagsFilter{}
}

func (f *redFlagsFilter) Name() string { return "red_flags" }

func (f *redFlagsFilter) Disable(string) {}

func (f *redFlagsFilter) IsEnabled() bool { return true }

func (f *redFlagsFilter) Validate(cfg *Config) error {
	f.flags = nil
	if cfg != nil {
		f.flags = append(f.flags, cfg.RedFlags...)
	}
	return nil
}

func (f *redFlagsFilter) Apply(_ context.Context, deps Deps, p *jobs.Postings) (*jobs.Postings, Step, error) {
	initial := p.Len()
	if len(f.flags) == 0 {
		return p, Step{Initial: initial, Dropped: 0, Left: p.Len()}, nil
	}

	removed := p.Retain(func(posting *jobs.Posting) bool {
		return !ContainsRedFlag(posting, f.flags)
	})
	if deps.Logger != nil && len(removed) > 0 {
		deps.Logger.Info("excluding postings with red flags",
			zap.Strings("red_flags", f.flags),
			zap.Strings("excluded_postings", keyStrings(removed)),
			zap.Int("postings_left", p.Len()),
		)
	}

	return p, Step{Initial: initial, Dropped: len(removed), Left: p.Len()}, nil
}

func (f *redFlagsFilter) Status() Status {
	details := map[string]string{}
	if len(f.flags) > 0 {
		details["red_flags"] = strings.Join(f.flags, ",")
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}

type savedFilter struct {
	hide bool
}

// NewSaved creates a filter that hides postings already saved by the user.
func NewSaved() Filter {
	return &savedFilter{}
}

func (f *savedFilter) Name() string { return "saved" }

func (f *savedFilter) Disable(string) {}

func (f *savedFilter) IsEnabled() bool { return true }

func (f *savedFilter) Validate(cfg *Config) error {
	f.hide = cfg != nil && cfg.HideSaved
	return nil
}

func (f *savedFilter) Apply(ctx context.Context, deps Deps, p *jobs.Postings) (*jobs.Postings, Step, error) {
	initial := p.Len()
	if !f.hide {
		return p, Step{Initial: initial, Dropped: 0, Left: p.Len()}, nil
	}
	if deps.Saved == nil {
		return p, Step{}, fmt.Errorf("saved jobs store is required")
	}

	saved, err := deps.Saved.List(ctx)
	if err != nil {
		return p, Step{}, fmt.Errorf("list saved jobs: %w", err)
	}

	keys := make(map[jobs.Key]struct{}, len(saved))
	for _, s := range saved {
		keys[s.Key()] = struct{}{}
	}

	removed := p.Retain(func(posting *jobs.Posting) bool {
		_, found := keys[posting.Key()]
		return !found
	})
	if deps.Logger != nil && len(removed) > 0 {
		deps.Logger.Info("hiding saved postings",
			zap.Strings("excluded_postings", keyStrings(removed)),
			zap.Int("postings_left", p.Len()),
		)
	}

	return p, Step{Initial: initial, Dropped: len(removed), Left: p.Len()}, nil
}

func (f *savedFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: true, Details: map[string]string{
		"hide_saved": strconv.FormatBool(f.hide),
	}}
}

type matchScoreFilter struct {
	disabled bool
	reason   string
	minimum  int
	reports  map[jobs.Key]matching.Report
}

// NewMatchScore creates the step that scores every posting against the
// profile and drops those below the configured minimum.
func NewMatchScore() Filter {
	return &matchScoreFilter{}
}

func (f *matchScoreFilter) Name() string { return "match_score" }

func (f *matchScoreFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *matchScoreFilter) IsEnabled() bool { return !f.disabled }

func (f *matchScoreFilter) Validate(cfg *Config) error {
	f.minimum = 0
	if cfg != nil {
		f.minimum = cfg.MinMatchScore
	}
	if f.minimum < 0 || f.minimum > 100 {
		return fmt.Errorf("minimum match score must be within 0..100, got %d", f.minimum)
	}
	return nil
}

func (f *matchScoreFilter) Apply(_ context.Context, deps Deps, p *jobs.Postings) (*jobs.Postings, Step, error) {
	initial := p.Len()
	f.reports = make(map[jobs.Key]matching.Report, initial)

	if deps.Profile == nil {
		if deps.Logger != nil {
			deps.Logger.Debug("no resume profile; skipping match_score filter")
		}
		return p, Step{Initial: initial, Dropped: 0, Left: p.Len()}, nil
	}

	scorer := deps.Scorer
	if scorer == nil {
		scorer = matching.NewScorer(nil)
	}

	removed := p.Retain(func(posting *jobs.Posting) bool {
		report := scorer.ScoreProfile(deps.Profile, posting.Description)
		if report.MatchScore < f.minimum {
			if deps.Logger != nil {
				deps.Logger.Debug("posting below minimum match score",
					zap.String("posting", posting.Key().String()),
					zap.Int("match_score", report.MatchScore),
				)
			}
			return false
		}
		f.reports[posting.Key()] = report
		return true
	})

	return p, Step{Initial: initial, Dropped: len(removed), Left: p.Len()}, nil
}

func (f *matchScoreFilter) Reports() map[jobs.Key]matching.Report {
	if f.reports == nil {
		return map[jobs.Key]matching.Report{}
	}
	return f.reports
}

func (f *matchScoreFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: map[string]string{
		"min_match_score": strconv.Itoa(f.minimum),
	}}
}
