package narrative

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/qri-io/jsonschema"
	"github.com/spigell/job-assistant/internal/llm"
	"github.com/spigell/job-assistant/internal/textnorm"
)

// ErrMalformedContent is returned when model output cannot be read as a
// structured question list.
var ErrMalformedContent = errors.New("malformed generated content")

const questionsSchemaJSON = `{
  "type": "array",
  "minItems": 1,
  "items": {
    "anyOf": [
      {"type": "string", "minLength": 1},
      {
        "type": "object",
        "required": ["question"],
        "properties": {
          "question": {"type": "string", "minLength": 1}
        }
      }
    ]
  }
}`

var questionsSchema = func() *jsonschema.Schema {
	rs := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(questionsSchemaJSON), rs); err != nil {
		panic(fmt.Sprintf("compile questions schema: %v", err))
	}
	return rs
}()

// ParseQuestions reads model output as a JSON question list: either a bare
// array or an object with a "questions" array, optionally fenced. At most
// limit questions are returned when limit is positive.
func ParseQuestions(ctx context.Context, raw string, limit int) (QuestionSet, error) {
	cleaned := llm.ExtractJSON(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty output", ErrMalformedContent)
	}

	var decoded any
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedContent, err)
	}

	if obj, ok := decoded.(map[string]any); ok {
		inner, found := obj["questions"]
		if !found {
			return nil, fmt.Errorf("%w: object without questions", ErrMalformedContent)
		}
		decoded = inner
	}

	payload, err := json.Marshal(decoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedContent, err)
	}

	keyErrs, err := questionsSchema.ValidateBytes(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedContent, err)
	}
	if len(keyErrs) > 0 {
		return nil, fmt.Errorf("%w: %s %s", ErrMalformedContent, keyErrs[0].PropertyPath, keyErrs[0].Message)
	}

	items, _ := decoded.([]any)
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no questions", ErrMalformedContent)
	}
	set := make(QuestionSet, 0, len(items))
	for i, item := range items {
		q, err := decodeQuestion(item)
		if err != nil {
			return nil, fmt.Errorf("%w: question %d: %v", ErrMalformedContent, i, err)
		}
		if q.Prompt() == "" {
			return nil, fmt.Errorf("%w: question %d is empty", ErrMalformedContent, i)
		}
		set = append(set, q)
	}

	return capQuestions(set, limit), nil
}

func decodeQuestion(item any) (Question, error) {
	switch v := item.(type) {
	case string:
		return PlainQuestion{Text: strings.TrimSpace(v)}, nil
	case map[string]any:
		var out structuredJSON
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			TagName:          "json",
			WeaklyTypedInput: true,
			Result:           &out,
			DecodeHook: func(from, to reflect.Type, data any) (any, error) {
				// models like to answer tips as lists
				if to.Kind() == reflect.String && (from.Kind() == reflect.Slice || from.Kind() == reflect.Map) {
					return llm.CoerceString(data), nil
				}
				return data, nil
			},
		})
		if err != nil {
			return nil, err
		}
		if err := decoder.Decode(v); err != nil {
			return nil, err
		}
		q := out.question()
		q.Question = strings.TrimSpace(q.Question)
		return q, nil
	}
	return nil, fmt.Errorf("unexpected %T", item)
}

// SplitPlainQuestions turns free text into plain questions. Numbered or
// bulleted lines start a new question and following unmarked lines continue
// it; text without markers is split into paragraphs.
func SplitPlainQuestions(raw string, limit int) QuestionSet {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")

	var questions []string
	if hasListMarkers(raw) {
		questions = splitMarked(raw)
	} else {
		questions = splitParagraphs(raw)
	}

	set := make(QuestionSet, 0, len(questions))
	for _, q := range questions {
		q = strings.TrimSpace(strings.Trim(strings.TrimSpace(q), "*_"))
		if q != "" {
			set = append(set, PlainQuestion{Text: q})
		}
	}
	return capQuestions(set, limit)
}

func hasListMarkers(raw string) bool {
	for _, line := range textnorm.Lines(raw) {
		if isMarked(line) {
			return true
		}
	}
	return false
}

func isMarked(line string) bool {
	line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "*_"))
	return textnorm.StripBullet(line) != line
}

func splitMarked(raw string) []string {
	var (
		out     []string
		current []string
	)
	flush := func() {
		if len(current) > 0 {
			out = append(out, strings.Join(current, " "))
			current = nil
		}
	}

	for _, line := range textnorm.Lines(raw) {
		if isMarked(line) {
			flush()
			trimmed := strings.TrimSpace(strings.TrimLeft(line, "*_"))
			current = append(current, textnorm.StripBullet(trimmed))
			continue
		}
		// text before the first marker is preamble
		if current != nil {
			current = append(current, line)
		}
	}
	flush()
	return out
}

func splitParagraphs(raw string) []string {
	var out []string
	for _, block := range strings.Split(raw, "\n\n") {
		lines := textnorm.Lines(block)
		if len(lines) > 0 {
			out = append(out, strings.Join(lines, " "))
		}
	}
	return out
}

func capQuestions(set QuestionSet, limit int) QuestionSet {
	if limit > 0 && len(set) > limit {
		return set[:limit]
	}
	return set
}
