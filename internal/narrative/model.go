package narrative

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "embed"

	"github.com/spigell/job-assistant/internal/jobs"
	"github.com/spigell/job-assistant/internal/llm"
	"github.com/spigell/job-assistant/internal/resume"
	"go.uber.org/zap"
)

const DefaultTimeout = 60 * time.Second

//go:embed prompts/critique.md
var critiqueTemplate string

//go:embed prompts/interview.md
var interviewTemplate string

// ModelAuthor asks a language model for critiques and questions.
type ModelAuthor struct {
	generator llm.Generator
	timeout   time.Duration
	logger    *zap.Logger
}

// NewModelAuthor returns an author bound to generator. Every call is limited
// by timeout; zero selects DefaultTimeout.
func NewModelAuthor(generator llm.Generator, timeout time.Duration, logger *zap.Logger) *ModelAuthor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModelAuthor{generator: generator, timeout: timeout, logger: logger}
}

func (m *ModelAuthor) Critique(ctx context.Context, p *resume.Profile, target *jobs.Posting) (string, error) {
	raw, err := m.generate(ctx, buildCritiquePrompt(p, target))
	if err != nil {
		return "", fmt.Errorf("critique: %w", err)
	}
	return raw, nil
}

func (m *ModelAuthor) InterviewQuestions(ctx context.Context, p *resume.Profile, req InterviewRequest) (QuestionSet, error) {
	req = req.Normalize()

	raw, err := m.generate(ctx, buildInterviewPrompt(p, req))
	if err != nil {
		return nil, fmt.Errorf("interview questions: %w", err)
	}

	set, err := ParseQuestions(ctx, raw, req.Count)
	if err == nil {
		return set, nil
	}
	if !errors.Is(err, ErrMalformedContent) {
		return nil, fmt.Errorf("interview questions: %w", err)
	}

	m.logger.Debug("model output is not a question list, splitting plain text", zap.Error(err))

	set = SplitPlainQuestions(raw, req.Count)
	if len(set) == 0 {
		return nil, fmt.Errorf("interview questions: %w", ErrMalformedContent)
	}
	return set, nil
}

func (m *ModelAuthor) generate(ctx context.Context, prompt string) (string, error) {
	if m.generator == nil {
		return "", errors.New("no language model configured")
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	raw, err := m.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return "", err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", llm.ErrEmptyResponse
	}
	return raw, nil
}

func buildCritiquePrompt(p *resume.Profile, target *jobs.Posting) string {
	if p == nil {
		p = &resume.Profile{}
	}

	tmpl := critiqueTemplate
	if strings.TrimSpace(tmpl) == "" {
		tmpl = "Skills: {{SKILLS}}\n\nEducation:\n{{EDUCATION}}\n\nExperience:\n{{EXPERIENCE}}\n\nTarget:\n{{TARGET}}\n"
	}

	targetText := "not specified"
	if target != nil {
		targetText = fmt.Sprintf("%s at %s\n%s", target.Title, target.Company, strings.TrimSpace(target.Description))
	}

	return strings.NewReplacer(
		"{{SKILLS}}", orNone(strings.Join(p.Skills, ", ")),
		"{{EDUCATION}}", bulletList(p.Education),
		"{{EXPERIENCE}}", bulletList(p.Experience),
		"{{TARGET}}", targetText,
	).Replace(tmpl)
}

func buildInterviewPrompt(p *resume.Profile, req InterviewRequest) string {
	if p == nil {
		p = &resume.Profile{}
	}

	tmpl := interviewTemplate
	if strings.TrimSpace(tmpl) == "" {
		tmpl = "Job: {{JOB_TITLE}} at {{COMPANY}}\n{{DESCRIPTION}}\nType: {{INTERVIEW_TYPE}}\nDifficulty: {{DIFFICULTY}}\nFocus: {{FOCUS_AREAS}}\nReturn a JSON array of {{COUNT}} questions.\n"
	}

	description := "not specified"
	if req.Job != nil && strings.TrimSpace(req.Job.Description) != "" {
		description = strings.TrimSpace(req.Job.Description)
	}

	return strings.NewReplacer(
		"{{JOB_TITLE}}", req.role(),
		"{{COMPANY}}", req.company(),
		"{{DESCRIPTION}}", description,
		"{{SKILLS}}", orNone(strings.Join(p.Skills, ", ")),
		"{{EXPERIENCE}}", bulletList(p.Experience),
		"{{INTERVIEW_TYPE}}", string(req.Type),
		"{{DIFFICULTY}}", req.Difficulty,
		"{{FOCUS_AREAS}}", orNone(strings.Join(req.FocusAreas, ", ")),
		"{{COUNT}}", strconv.Itoa(req.Count),
	).Replace(tmpl)
}

func bulletList(items []string) string {
	if len(items) == 0 {
		return "- none"
	}
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- ")
		b.WriteString(item)
	}
	return b.String()
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "none"
	}
	return s
}
