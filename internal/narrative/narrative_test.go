package narrative

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spigell/job-assistant/internal/jobs"
	"github.com/spigell/job-assistant/internal/resume"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type stubGenerator struct {
	reply   string
	err     error
	block   bool
	prompts []string
}

func (s *stubGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return s.reply, s.err
}

func (s *stubGenerator) Model() string { return "stub" }

var sampleProfile = &resume.Profile{
	Skills:     []string{"Go", "Docker"},
	Experience: []string{"Backend Engineer at Acme"},
}

var critiqueSections = []string{
	"OVERALL ASSESSMENT", "Strengths:", "Weaknesses:",
	"CONTENT IMPROVEMENTS", "FORMAT SUGGESTIONS", "ATS OPTIMIZATION",
}

func TestAssistantCritiqueFallsBackOnModelError(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	gen := &stubGenerator{err: errors.New("quota exceeded")}
	assistant := NewAssistant(NewModelAuthor(gen, time.Second, nil), zap.New(core))

	got := assistant.Critique(context.Background(), sampleProfile, nil)

	if got.Source != SourceRules {
		t.Fatalf("expected rule-based critique, got %s", got.Source)
	}
	for _, section := range critiqueSections {
		if !strings.Contains(got.Text, section) {
			t.Fatalf("critique misses section %q:\n%s", section, got.Text)
		}
	}
	if !strings.Contains(got.Text, "Limited range of technical skills listed") {
		t.Fatalf("expected weakness about few skills:\n%s", got.Text)
	}
	if !strings.Contains(got.Text, "Python (a widely used programming language) not explicitly listed") {
		t.Fatalf("expected missing python weakness:\n%s", got.Text)
	}
	if logs.FilterMessageSnippet("rule-based critique").Len() != 1 {
		t.Fatalf("expected a fallback warning, got %d entries", logs.Len())
	}
}

func TestAssistantCritiqueUsesModel(t *testing.T) {
	gen := &stubGenerator{reply: "  Looks solid.  "}
	assistant := NewAssistant(NewModelAuthor(gen, time.Second, nil), nil)

	got := assistant.Critique(context.Background(), sampleProfile, &jobs.Posting{Title: "Go Dev", Company: "Acme", Description: "Go and Kafka"})

	if got.Source != SourceModel || got.Text != "Looks solid." {
		t.Fatalf("unexpected critique: %+v", got)
	}
	if len(gen.prompts) != 1 || !strings.Contains(gen.prompts[0], "Go, Docker") || !strings.Contains(gen.prompts[0], "Go Dev at Acme") {
		t.Fatalf("prompt does not carry profile and target: %q", gen.prompts)
	}
}

func TestAssistantTimeoutFallsBack(t *testing.T) {
	gen := &stubGenerator{block: true}
	assistant := NewAssistant(NewModelAuthor(gen, 10*time.Millisecond, nil), nil)

	got := assistant.InterviewQuestions(context.Background(), sampleProfile, InterviewRequest{Type: CodingInterview, Count: 3})

	if got.Source != SourceRules {
		t.Fatalf("expected rule-based questions after timeout, got %s", got.Source)
	}
	if len(got.Questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(got.Questions))
	}
}

func TestRuleCritiqueTargetAlignment(t *testing.T) {
	text, err := NewRuleAuthor().Critique(context.Background(), sampleProfile, &jobs.Posting{
		Title:       "Platform Engineer",
		Company:     "Acme",
		Description: "We use Go, Docker and Kubernetes",
	})
	if err != nil {
		t.Fatalf("critique: %v", err)
	}
	if !strings.Contains(text, "TARGET ROLE ALIGNMENT") || !strings.Contains(text, "Matching skills: Go, Docker") {
		t.Fatalf("expected target alignment section:\n%s", text)
	}
}

func TestRuleCritiqueNilProfile(t *testing.T) {
	text, err := NewRuleAuthor().Critique(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("critique: %v", err)
	}
	if !strings.Contains(text, "Resume contains some relevant skills") {
		t.Fatalf("expected default strength:\n%s", text)
	}
}

func TestAssistantInterviewQuestionsBounds(t *testing.T) {
	assistant := NewAssistant(nil, nil)

	for _, typ := range InterviewTypes {
		for _, count := range []int{1, 5, 10, 50} {
			got := assistant.InterviewQuestions(context.Background(), sampleProfile, InterviewRequest{
				Job:   &jobs.Posting{Title: "Go Dev", Company: "Acme"},
				Type:  typ,
				Count: count,
			})

			want := count
			if want > MaxQuestionCount {
				want = MaxQuestionCount
			}
			if max := len(DefaultFocusAreas[typ]) + len(questionBank[typ]); want > max {
				want = max
			}
			if len(got.Questions) != want {
				t.Fatalf("%s count %d: expected %d questions, got %d", typ, count, want, len(got.Questions))
			}
			for _, q := range got.Questions {
				if strings.TrimSpace(q.Prompt()) == "" || strings.Contains(q.Prompt(), "{") {
					t.Fatalf("%s: unfilled question %q", typ, q.Prompt())
				}
			}
		}
	}
}

func TestRuleQuestionsUseFocusAndDifficulty(t *testing.T) {
	set, err := NewRuleAuthor().InterviewQuestions(context.Background(), nil, InterviewRequest{
		Job:        &jobs.Posting{Title: "Go Dev", Company: "Acme"},
		Type:       TechnicalInterview,
		Difficulty: Expert,
		FocusAreas: []string{"Caching"},
		Count:      2,
	})
	if err != nil {
		t.Fatalf("questions: %v", err)
	}

	first, ok := set[0].(StructuredQuestion)
	if !ok {
		t.Fatalf("expected structured question, got %T", set[0])
	}
	if !strings.Contains(first.Question, "Caching") || !strings.Contains(first.Question, "Go Dev at Acme") {
		t.Fatalf("unexpected focus question: %q", first.Question)
	}
	if first.Tips != difficultyTips[Expert] {
		t.Fatalf("unexpected tips: %q", first.Tips)
	}
}

func TestModelInterviewFallsBackToPlainText(t *testing.T) {
	gen := &stubGenerator{reply: "Here you go:\n1. What is a goroutine?\n2. How do channels work?\n   Give an example.\n3. Explain interfaces."}
	set, err := NewModelAuthor(gen, time.Second, nil).InterviewQuestions(context.Background(), sampleProfile, InterviewRequest{Count: 2})
	if err != nil {
		t.Fatalf("questions: %v", err)
	}

	if len(set) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(set))
	}
	if set[1].Prompt() != "How do channels work? Give an example." {
		t.Fatalf("unexpected continuation handling: %q", set[1].Prompt())
	}
	if !strings.Contains(gen.prompts[0], "Number of questions: 2") {
		t.Fatalf("prompt does not carry the count")
	}
}

func TestModelInterviewEmptyOutput(t *testing.T) {
	gen := &stubGenerator{reply: "   "}
	_, err := NewModelAuthor(gen, time.Second, nil).InterviewQuestions(context.Background(), nil, InterviewRequest{})
	if err == nil {
		t.Fatalf("expected error for empty model output")
	}
}
