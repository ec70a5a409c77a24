// Package session holds the state carried between CLI commands: the current
// profile, the last search and the selected job.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spigell/job-assistant/internal/jobs"
	"github.com/spigell/job-assistant/internal/narrative"
	"github.com/spigell/job-assistant/internal/resume"
)

const DefaultPath = ".job-assistant-session.json"

// Session is the per-user context. A new resume replaces the profile and
// everything derived from it.
type Session struct {
	ResumeName  string               `json:"resume_name,omitempty"`
	Profile     *resume.Profile      `json:"profile,omitempty"`
	Keywords    []string             `json:"keywords,omitempty"`
	Title       string               `json:"title,omitempty"`
	Critique    *narrative.Critique  `json:"critique,omitempty"`
	Results     *jobs.Postings       `json:"results,omitempty"`
	SelectedJob *jobs.Posting        `json:"selected_job,omitempty"`
	Interview   *narrative.Interview `json:"interview,omitempty"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// SetProfile replaces the profile and drops state derived from the old one.
func (s *Session) SetProfile(name string, p *resume.Profile) {
	s.ResumeName = name
	s.Profile = p
	s.Keywords = nil
	s.Title = ""
	s.Critique = nil
	s.Interview = nil
}

// SetResults stores new search results and clears a selection that is no
// longer among them.
func (s *Session) SetResults(p *jobs.Postings) {
	s.Results = p
	if s.SelectedJob != nil && (p == nil || p.Find(s.SelectedJob.Key()) == nil) {
		s.SelectedJob = nil
	}
}

// HasProfile reports whether a resume has been analysed.
func (s *Session) HasProfile() bool {
	return s.Profile != nil && !s.Profile.IsEmpty()
}

// Load reads the session at path. A missing file yields an empty session.
func Load(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Session{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session %q: %w", path, err)
	}
	return &s, nil
}

// Save writes the session to path through a temporary file so a crash never
// leaves a truncated session behind.
func (s *Session) Save(path string) error {
	s.UpdatedAt = time.Now().UTC()

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*.json")
	if err != nil {
		return fmt.Errorf("create session file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace session: %w", err)
	}
	return nil
}
