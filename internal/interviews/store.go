// Package interviews keeps generated interview question sets on disk, one
// JSON file per save.
package interviews

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spigell/job-assistant/internal/narrative"
)

const (
	DefaultDir = "saved_interviews"

	filePrefix   = "interview_"
	fileExt      = ".json"
	stampLayout  = "20060102_150405"
	maxNamePart  = 40
	genericTitle = "General"
)

var ErrNotFound = errors.New("saved interview not found")

// Record is one saved interview preparation.
type Record struct {
	ID            string                  `json:"id"`
	JobTitle      string                  `json:"job_title"`
	Company       string                  `json:"company"`
	InterviewType narrative.InterviewType `json:"interview_type"`
	Difficulty    string                  `json:"difficulty"`
	FocusAreas    []string                `json:"focus_areas"`
	Questions     narrative.QuestionSet   `json:"questions"`
	GeneratedAt   time.Time               `json:"generated_at"`
}

// NewRecord builds a record from a generated interview.
func NewRecord(interview narrative.Interview) *Record {
	req := interview.Request
	r := &Record{
		InterviewType: req.Type,
		Difficulty:    req.Difficulty,
		FocusAreas:    req.FocusAreas,
		Questions:     interview.Questions,
	}
	if req.Job != nil {
		r.JobTitle = req.Job.Title
		r.Company = req.Job.Company
	}
	return r
}

// Store writes records into a directory.
type Store struct {
	dir string
	now func() time.Time
}

func NewStore(dir string) *Store {
	if strings.TrimSpace(dir) == "" {
		dir = DefaultDir
	}
	return &Store{dir: dir, now: time.Now}
}

// Save writes r to a new file and returns its path. ID and GeneratedAt are
// filled when empty.
func (s *Store) Save(r *Record) (string, error) {
	if r == nil {
		return "", errors.New("nil interview record")
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.GeneratedAt.IsZero() {
		r.GeneratedAt = s.now().UTC()
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create interviews dir: %w", err)
	}

	name := fmt.Sprintf("%s%s_%s_%s%s", filePrefix,
		namePart(r.JobTitle, genericTitle),
		namePart(r.Company, "Any"),
		r.GeneratedAt.Format(stampLayout),
		fileExt,
	)
	path := filepath.Join(s.dir, name)

	// two saves within a second must not overwrite each other
	if _, err := os.Stat(path); err == nil {
		path = strings.TrimSuffix(path, fileExt) + "_" + uuid.NewString()[:8] + fileExt
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode interview: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write interview: %w", err)
	}
	return path, nil
}

// Summary describes a saved file without its questions.
type Summary struct {
	Name          string                  `json:"name"`
	JobTitle      string                  `json:"job_title"`
	Company       string                  `json:"company"`
	InterviewType narrative.InterviewType `json:"interview_type"`
	Questions     int                     `json:"questions"`
	GeneratedAt   time.Time               `json:"generated_at"`
}

// List returns saved interviews, newest first. A missing directory is an
// empty list; unreadable files are skipped.
func (s *Store) List() ([]Summary, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return []Summary{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read interviews dir: %w", err)
	}

	out := make([]Summary, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileExt) {
			continue
		}
		r, err := s.Load(name)
		if err != nil {
			continue
		}
		out = append(out, Summary{
			Name:          name,
			JobTitle:      r.JobTitle,
			Company:       r.Company,
			InterviewType: r.InterviewType,
			Questions:     len(r.Questions),
			GeneratedAt:   r.GeneratedAt,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].GeneratedAt.After(out[j].GeneratedAt)
	})
	return out, nil
}

// Load reads the record stored under name, a file name inside the store
// directory.
func (s *Store) Load(name string) (*Record, error) {
	if name == "" || name == "." || name == ".." || name != filepath.Base(name) {
		return nil, fmt.Errorf("%w: invalid name %q", ErrNotFound, name)
	}

	path := filepath.Join(s.dir, name)
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) || err == nil && !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode interview %s: %w", name, err)
	}
	return &r, nil
}

// namePart makes s safe for a file name.
func namePart(s, fallback string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
		if b.Len() >= maxNamePart {
			break
		}
	}

	out := strings.Trim(b.String(), "_")
	if out == "" {
		return fallback
	}
	return out
}
