package filtering

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/job-assistant/internal/jobs"
	"github.com/spigell/job-assistant/internal/resume"
)

func samplePostings() *jobs.Postings {
	return &jobs.Postings{Items: []*jobs.Posting{
		{Title: "Go Dev", Company: "Acme", Platform: jobs.PlatformLinkedIn, Description: "Go and Docker services"},
		{Title: "Java Dev", Company: "Initech", Platform: jobs.PlatformLinkedIn, Description: "Java, Spring and Kubernetes"},
		{Title: "SRE", Company: "Globex", Platform: jobs.PlatformIndeed, Description: "Unpaid internship, Go"},
		{Title: "Platform Eng", Company: "Hooli", Platform: jobs.PlatformLinkedIn, Description: "Go, Docker, AWS"},
	}}
}

func TestRunAppliesStepsInOrder(t *testing.T) {
	ctx := context.Background()
	saved := jobs.NewFileStore(filepath.Join(t.TempDir(), "saved.json"))
	if _, err := saved.Add(ctx, &jobs.Posting{Title: "Platform Eng", Company: "Hooli"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	core, logs := observer.New(zap.InfoLevel)
	deps := Deps{
		Logger:  zap.New(core),
		Profile: &resume.Profile{Skills: []string{"Go", "Docker"}},
		Saved:   saved,
	}
	cfg := &Config{
		Platform:      "linkedin",
		RedFlags:      []string{"unpaid"},
		HideSaved:     true,
		MinMatchScore: 50,
	}

	left, reports, err := Run(ctx, cfg, deps, Default(), samplePostings())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if left.Len() != 1 || left.Items[0].Title != "Go Dev" {
		t.Fatalf("unexpected postings left: %+v", left.Items)
	}
	report, ok := reports[jobs.NewKey("Go Dev", "Acme")]
	if !ok || report.MatchScore != 100 {
		t.Fatalf("expected a full match report, got %+v", reports)
	}
	if len(reports) != 1 {
		t.Fatalf("expected reports only for kept postings, got %d", len(reports))
	}
	if logs.FilterMessage("filter step").Len() != len(Default()) {
		t.Fatalf("expected a log entry per step, got %d", logs.FilterMessage("filter step").Len())
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	cases := map[string]*Config{
		"platform": {Platform: "MySpace"},
		"score":    {MinMatchScore: 120},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			if _, _, err := Run(context.Background(), cfg, Deps{}, Default(), samplePostings()); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestExcludedCompaniesAndFile(t *testing.T) {
	dump := &jobs.Postings{Items: []*jobs.Posting{{Title: "SRE", Company: "Globex"}}}
	path, err := dump.DumpToTmpFile()
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	defer os.Remove(path)

	cfg := &Config{ExcludedCompanies: []string{"initech"}, ExcludeFile: path}
	left, _, err := Run(context.Background(), cfg, Deps{}, []Filter{NewExcludedCompanies(), NewExcludeFile()}, samplePostings())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if left.Len() != 2 {
		t.Fatalf("expected two postings left, got %d", left.Len())
	}
}

func TestSavedFilterRequiresStore(t *testing.T) {
	_, _, err := Run(context.Background(), &Config{HideSaved: true}, Deps{}, []Filter{NewSaved()}, samplePostings())
	if err == nil {
		t.Fatalf("expected error without a saved jobs store")
	}
}

func TestDisabledMatchScore(t *testing.T) {
	steps := Default()
	DisableByName(steps, "match_score", "no resume")

	left, reports, err := Run(context.Background(), &Config{MinMatchScore: 90}, Deps{Profile: &resume.Profile{}}, steps, samplePostings())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if left.Len() != 4 || len(reports) != 0 {
		t.Fatalf("expected nothing filtered, got %d postings and %d reports", left.Len(), len(reports))
	}

	for _, status := range Describe(steps) {
		if status.Name == "match_score" && (status.Enabled || status.Reason != "no resume") {
			t.Fatalf("unexpected status: %+v", status)
		}
	}
}

func TestContainsRedFlag(t *testing.T) {
	p := &jobs.Posting{Title: "Engineer", Company: "Acme", Description: "Commission ONLY role"}

	if !ContainsRedFlag(p, []string{"", "commission only"}) {
		t.Fatalf("expected red flag match")
	}
	if ContainsRedFlag(p, nil) || ContainsRedFlag(p, []string{"unpaid"}) {
		t.Fatalf("unexpected red flag match")
	}
}
