package narrative

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	maxTitleRunes   = 80
	plainLabelRunes = 50
)

// Question is one interview question. It is either a PlainQuestion or a
// StructuredQuestion; no other implementations exist.
type Question interface {
	// Prompt returns the question text itself.
	Prompt() string
	isQuestion()
}

// PlainQuestion is a question without annotations.
type PlainQuestion struct {
	Text string
}

func (q PlainQuestion) Prompt() string { return q.Text }
func (PlainQuestion) isQuestion()      {}

// StructuredQuestion is a question annotated with preparation material.
type StructuredQuestion struct {
	Question string
	Context  string
	Approach string
	Answer   string
	Tips     string
	Code     string
}

func (q StructuredQuestion) Prompt() string { return q.Question }
func (StructuredQuestion) isQuestion()      {}

// QuestionSet is an ordered list of questions. In JSON plain questions are
// strings and structured ones are objects.
type QuestionSet []Question

type structuredJSON struct {
	Question          string `json:"question"`
	Context           string `json:"context,omitempty"`
	Approach          string `json:"approach,omitempty"`
	SuggestedApproach string `json:"suggested_approach,omitempty"`
	Answer            string `json:"suggested_answer,omitempty"`
	AnswerAlias       string `json:"answer,omitempty"`
	Tips              string `json:"tips,omitempty"`
	Code              string `json:"code_solution,omitempty"`
}

func (s QuestionSet) MarshalJSON() ([]byte, error) {
	items := make([]any, 0, len(s))
	for _, q := range s {
		switch v := q.(type) {
		case PlainQuestion:
			items = append(items, v.Text)
		case StructuredQuestion:
			items = append(items, structuredJSON{
				Question: v.Question,
				Context:  v.Context,
				Approach: v.Approach,
				Answer:   v.Answer,
				Tips:     v.Tips,
				Code:     v.Code,
			})
		default:
			return nil, fmt.Errorf("unsupported question type %T", q)
		}
	}
	return json.Marshal(items)
}

func (s *QuestionSet) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode questions: %w", err)
	}

	out := make(QuestionSet, 0, len(raw))
	for i, item := range raw {
		item = bytes.TrimSpace(item)
		if len(item) == 0 {
			continue
		}

		switch item[0] {
		case '"':
			var text string
			if err := json.Unmarshal(item, &text); err != nil {
				return fmt.Errorf("decode question %d: %w", i, err)
			}
			out = append(out, PlainQuestion{Text: text})
		case '{':
			var v structuredJSON
			if err := json.Unmarshal(item, &v); err != nil {
				return fmt.Errorf("decode question %d: %w", i, err)
			}
			out = append(out, v.question())
		default:
			return fmt.Errorf("decode question %d: unexpected value %s", i, item)
		}
	}

	*s = out
	return nil
}

func (v structuredJSON) question() StructuredQuestion {
	return StructuredQuestion{
		Question: v.Question,
		Context:  v.Context,
		Approach: firstNonEmpty(v.Approach, v.SuggestedApproach),
		Answer:   firstNonEmpty(v.Answer, v.AnswerAlias),
		Tips:     v.Tips,
		Code:     v.Code,
	}
}

// Render formats the question at 1-based position n for display.
func Render(q Question, n int) string {
	var b strings.Builder

	switch v := q.(type) {
	case PlainQuestion:
		title, text := fmt.Sprintf("Question %d", n), strings.TrimSpace(v.Text)
		// "Topic: question text" gets the topic in the title
		if idx := strings.Index(text, ": "); idx > 0 && utf8.RuneCountInString(text[:idx]) < plainLabelRunes {
			title = fmt.Sprintf("Question %d: %s", n, text[:idx])
			text = strings.TrimSpace(text[idx+2:])
		}
		b.WriteString(title)
		b.WriteString("\n")
		b.WriteString(text)
		b.WriteString("\n")

	case StructuredQuestion:
		title := fmt.Sprintf("Question %d: %s", n, firstNonEmpty(v.Question, "Question Details"))
		truncated := false
		if utf8.RuneCountInString(title) > maxTitleRunes {
			title = string([]rune(title)[:maxTitleRunes-3]) + "..."
			truncated = true
		}
		b.WriteString(title)
		b.WriteString("\n")
		if truncated {
			b.WriteString(v.Question)
			b.WriteString("\n")
		}
		writeSection(&b, "Question Context", v.Context)
		writeSection(&b, "Suggested Approach", v.Approach)
		writeSection(&b, "Suggested Answer", v.Answer)
		writeSection(&b, "Interview Tips", v.Tips)
		writeSection(&b, "Code Solution", v.Code)
	}

	return b.String()
}

// RenderSet formats every question of the set, separated by blank lines.
func RenderSet(set QuestionSet) string {
	parts := make([]string, 0, len(set))
	for i, q := range set {
		parts = append(parts, Render(q, i+1))
	}
	return strings.Join(parts, "\n")
}

func writeSection(b *strings.Builder, title, body string) {
	body = strings.TrimSpace(body)
	if body == "" {
		return
	}
	b.WriteString("\n")
	b.WriteString(title)
	b.WriteString(":\n")
	b.WriteString(body)
	b.WriteString("\n")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
