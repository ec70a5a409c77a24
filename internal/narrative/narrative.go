// Package narrative produces the resume critique and interview questions.
// Every operation has a model-backed and a rule-based author; the Assistant
// always answers, falling back to rules when the model cannot.
package narrative

import (
	"context"

	"github.com/spigell/job-assistant/internal/jobs"
	"github.com/spigell/job-assistant/internal/resume"
	"go.uber.org/zap"
)

// Source tells which author produced a result.
type Source string

const (
	SourceModel Source = "model"
	SourceRules Source = "rules"
)

// Author writes critiques and interview questions.
type Author interface {
	Critique(ctx context.Context, p *resume.Profile, target *jobs.Posting) (string, error)
	InterviewQuestions(ctx context.Context, p *resume.Profile, req InterviewRequest) (QuestionSet, error)
}

// Critique is a resume critique together with its origin.
type Critique struct {
	Text   string `json:"critique"`
	Source Source `json:"source"`
}

// Interview is a generated question set together with its origin.
type Interview struct {
	Request   InterviewRequest `json:"request"`
	Questions QuestionSet      `json:"questions"`
	Source    Source           `json:"source"`
}

// Assistant runs the primary author when one is configured and converts any
// failure into the rule-based result.
type Assistant struct {
	primary  Author
	fallback Author
	logger   *zap.Logger
}

// NewAssistant returns an assistant that tries primary first. A nil primary
// means only rules are used.
func NewAssistant(primary Author, logger *zap.Logger) *Assistant {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assistant{
		primary:  primary,
		fallback: NewRuleAuthor(),
		logger:   logger,
	}
}

// Critique never fails.
func (a *Assistant) Critique(ctx context.Context, p *resume.Profile, target *jobs.Posting) Critique {
	if a.primary != nil {
		text, err := a.primary.Critique(ctx, p, target)
		if err == nil && text != "" {
			return Critique{Text: text, Source: SourceModel}
		}
		a.logger.Warn("model critique unavailable, using rule-based critique", zap.Error(err))
	}

	// the rule author has no failure modes
	text, _ := a.fallback.Critique(ctx, p, target)
	return Critique{Text: text, Source: SourceRules}
}

// InterviewQuestions never fails and returns between one and req.Count
// questions.
func (a *Assistant) InterviewQuestions(ctx context.Context, p *resume.Profile, req InterviewRequest) Interview {
	req = req.Normalize()

	if a.primary != nil {
		set, err := a.primary.InterviewQuestions(ctx, p, req)
		if err == nil && len(set) > 0 {
			return Interview{Request: req, Questions: capQuestions(set, req.Count), Source: SourceModel}
		}
		a.logger.Warn("model interview questions unavailable, using question bank",
			zap.String("interview_type", string(req.Type)),
			zap.Error(err),
		)
	}

	set, _ := a.fallback.InterviewQuestions(ctx, p, req)
	return Interview{Request: req, Questions: set, Source: SourceRules}
}
