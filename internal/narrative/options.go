package narrative

import (
	"fmt"
	"strings"

	"github.com/spigell/job-assistant/internal/jobs"
)

// InterviewType selects the kind of interview to prepare for.
type InterviewType string

const (
	TechnicalInterview  InterviewType = "Technical Interview"
	BehavioralInterview InterviewType = "Behavioral Interview"
	CodingInterview     InterviewType = "Coding Interview"
	SystemDesign        InterviewType = "System Design"
	ProjectExperience   InterviewType = "Project Experience"
)

// InterviewTypes lists the supported interview types in display order.
var InterviewTypes = []InterviewType{
	TechnicalInterview, BehavioralInterview, CodingInterview, SystemDesign, ProjectExperience,
}

// Difficulty levels of generated questions.
const (
	EntryLevel   = "Entry Level"
	Intermediate = "Intermediate"
	Advanced     = "Advanced"
	Expert       = "Expert"
)

var Difficulties = []string{EntryLevel, Intermediate, Advanced, Expert}

const (
	DefaultQuestionCount = 10
	MaxQuestionCount     = 20
)

// FocusOptions are the focus areas offered per interview type.
var FocusOptions = map[InterviewType][]string{
	TechnicalInterview:  {"Algorithms", "Data Structures", "System Architecture", "Database", "Web Technologies", "DevOps", "Cloud"},
	CodingInterview:     {"Array Problems", "String Manipulation", "Dynamic Programming", "Graph Algorithms", "Sorting", "Searching", "Object-Oriented Design"},
	BehavioralInterview: {"Leadership", "Teamwork", "Conflict Resolution", "Problem Solving", "Time Management", "Adaptability", "Communication"},
	SystemDesign:        {"Scalability", "Database Design", "API Design", "Microservices", "Security", "Caching", "Load Balancing"},
	ProjectExperience:   {"Technical Challenges", "Project Management", "Teamwork", "Problem Solving", "Innovation", "Results", "Lessons Learned"},
}

// DefaultFocusAreas are preselected when the caller names none.
var DefaultFocusAreas = map[InterviewType][]string{
	TechnicalInterview:  {"Algorithms", "Data Structures"},
	CodingInterview:     {"Array Problems", "String Manipulation"},
	BehavioralInterview: {"Leadership", "Teamwork"},
	SystemDesign:        {"Scalability", "Database Design"},
	ProjectExperience:   {"Technical Challenges", "Results"},
}

// ParseInterviewType accepts full names and short forms such as "coding" or
// "system-design".
func ParseInterviewType(s string) (InterviewType, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("-", " ", "_", " ").Replace(key)
	key = strings.TrimSuffix(key, " interview")

	if key == "" {
		return TechnicalInterview, nil
	}

	for _, t := range InterviewTypes {
		name := strings.TrimSuffix(strings.ToLower(string(t)), " interview")
		if key == name || strings.HasPrefix(name, key+" ") {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown interview type %q", s)
}

// ParseDifficulty accepts difficulty names case-insensitively; "entry" is a
// short form of "Entry Level".
func ParseDifficulty(s string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("-", " ", "_", " ").Replace(key)
	if key == "" {
		return Intermediate, nil
	}
	for _, d := range Difficulties {
		lower := strings.ToLower(d)
		if key == lower || strings.HasPrefix(lower, key+" ") {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown difficulty %q", s)
}

// InterviewRequest describes the questions to generate. Job may be nil for
// generic preparation.
type InterviewRequest struct {
	Job        *jobs.Posting `json:"job,omitempty"`
	Type       InterviewType `json:"interview_type"`
	Difficulty string        `json:"difficulty"`
	FocusAreas []string      `json:"focus_areas"`
	Count      int           `json:"count"`
}

// Normalize fills defaults and bounds the question count.
func (r InterviewRequest) Normalize() InterviewRequest {
	if t, err := ParseInterviewType(string(r.Type)); err == nil {
		r.Type = t
	} else {
		r.Type = TechnicalInterview
	}
	if d, err := ParseDifficulty(r.Difficulty); err == nil {
		r.Difficulty = d
	} else {
		r.Difficulty = Intermediate
	}

	focus := make([]string, 0, len(r.FocusAreas))
	for _, f := range r.FocusAreas {
		if f = strings.TrimSpace(f); f != "" {
			focus = append(focus, f)
		}
	}
	if len(focus) == 0 {
		focus = append(focus, DefaultFocusAreas[r.Type]...)
	}
	r.FocusAreas = focus

	switch {
	case r.Count <= 0:
		r.Count = DefaultQuestionCount
	case r.Count > MaxQuestionCount:
		r.Count = MaxQuestionCount
	}
	return r
}

func (r InterviewRequest) role() string {
	if r.Job != nil && strings.TrimSpace(r.Job.Title) != "" {
		return strings.TrimSpace(r.Job.Title)
	}
	return "this role"
}

func (r InterviewRequest) company() string {
	if r.Job != nil && strings.TrimSpace(r.Job.Company) != "" {
		return strings.TrimSpace(r.Job.Company)
	}
	return "our company"
}
