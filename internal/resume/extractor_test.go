package resume

import (
	"reflect"
	"testing"
)

const sampleResume = `Jane Doe
jane.doe@example.com | +1 (555) 123-4567

Skills
Python, Go, Docker
AWS; Kubernetes

Experience
Senior Engineer at Acme Corp, 2019 - Present
- Built data pipelines in Python

Education
B.Sc. Computer Science, State University
`

func TestExtractSections(t *testing.T) {
	p := NewExtractor().Extract(sampleResume)

	if p.ContactInfo.Email != "jane.doe@example.com" {
		t.Fatalf("unexpected email: %q", p.ContactInfo.Email)
	}
	if p.ContactInfo.Phone != "+1 (555) 123-4567" {
		t.Fatalf("unexpected phone: %q", p.ContactInfo.Phone)
	}

	wantSkills := []string{"Python", "Go", "Docker", "AWS", "Kubernetes"}
	if !reflect.DeepEqual(p.Skills, wantSkills) {
		t.Fatalf("unexpected skills: %q", p.Skills)
	}

	wantExperience := []string{"Senior Engineer at Acme Corp, 2019 - Present", "Built data pipelines in Python"}
	if !reflect.DeepEqual(p.Experience, wantExperience) {
		t.Fatalf("unexpected experience: %q", p.Experience)
	}

	wantEducation := []string{"B.Sc. Computer Science, State University"}
	if !reflect.DeepEqual(p.Education, wantEducation) {
		t.Fatalf("unexpected education: %q", p.Education)
	}

	if p.RawText != sampleResume {
		t.Fatalf("expected raw text to be preserved")
	}
}

func TestExtractEmptyText(t *testing.T) {
	p := NewExtractor().Extract("  \n\t ")

	if !p.IsEmpty() {
		t.Fatalf("expected empty profile, got %+v", p)
	}
	if p.Skills == nil || p.Education == nil || p.Experience == nil {
		t.Fatalf("expected empty collections instead of nil")
	}
}

func TestExtractDedupesSkills(t *testing.T) {
	p := NewExtractor().Extract("Skills: python, Python, PYTHON")

	if !reflect.DeepEqual(p.Skills, []string{"python"}) {
		t.Fatalf("expected a single python skill, got %q", p.Skills)
	}
}

func TestExtractWithoutHeaders(t *testing.T) {
	text := "Master of Science in Data Science\nDeveloped Python services for payments\nI like to go hiking"
	p := NewExtractor().Extract(text)

	if !reflect.DeepEqual(p.Education, []string{"Master of Science in Data Science"}) {
		t.Fatalf("unexpected education: %q", p.Education)
	}
	if len(p.Experience) != 2 {
		t.Fatalf("expected remaining lines as experience, got %q", p.Experience)
	}
	// lower-case "go" in prose is not the language
	if !reflect.DeepEqual(p.Skills, []string{"Data Science", "Python"}) {
		t.Fatalf("unexpected skills: %q", p.Skills)
	}
}

func TestExtractBulletedExperience(t *testing.T) {
	text := `Experience
Software Engineer at Acme, 2019 - Present
- Built internal tools
- Improved team skills
- Led migration to Kubernetes clusters
- Reduced deployment time by half
* Automated work queues

Technical Skills
Go, Docker
`
	p := NewExtractor().Extract(text)

	wantExperience := []string{
		"Software Engineer at Acme, 2019 - Present",
		"Built internal tools",
		"Improved team skills",
		"Led migration to Kubernetes clusters",
		"Reduced deployment time by half",
		"Automated work queues",
	}
	if !reflect.DeepEqual(p.Experience, wantExperience) {
		t.Fatalf("unexpected experience: %q", p.Experience)
	}

	wantSkills := []string{"Go", "Docker", "Kubernetes"}
	if !reflect.DeepEqual(p.Skills, wantSkills) {
		t.Fatalf("unexpected skills: %q", p.Skills)
	}
}

func TestClassifyHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line string
		want section
		ok   bool
	}{
		{line: "Skills", want: sectionSkills, ok: true},
		{line: "Technical Skills", want: sectionSkills, ok: true},
		{line: "Skills & Tools:", want: sectionSkills, ok: true},
		{line: "Work Experience", want: sectionExperience, ok: true},
		{line: "## Education and Training", want: sectionEducation, ok: true},
		{line: "**Projects**", want: sectionOther, ok: true},
		{line: "Languages: Go, Python", want: sectionOther, ok: true},
		{line: "- Built internal tools"},
		{line: "Built internal tools"},
		{line: "* Skills"},
		{line: "Improved team skills"},
		{line: "Remote work"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			t.Parallel()
			got, ok := classifyHeader(tt.line)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("classifyHeader(%q) = %v, %v, want %v, %v", tt.line, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestExtractContact(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want ContactInfo
	}{
		{
			name: "email and phone",
			text: "Reach me at john@mail.io or 555-123-4567.",
			want: ContactInfo{Email: "john@mail.io", Phone: "555-123-4567"},
		},
		{
			name: "year range is not a phone",
			text: "Acme 2015 - 2019\nCall 555-123-4567",
			want: ContactInfo{Phone: "555-123-4567"},
		},
		{
			name: "parenthesised year range is not a phone",
			text: "Jane Doe\njane@example.com\nExperience\nEngineer at Acme (2018 - 2020)\n",
			want: ContactInfo{Email: "jane@example.com"},
		},
		{
			name: "phone with area code in parentheses",
			text: "Phone: (555) 123-4567",
			want: ContactInfo{Phone: "(555) 123-4567"},
		},
		{
			name: "nothing",
			text: "No contact details here",
			want: ContactInfo{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ExtractContact(tt.text); got != tt.want {
				t.Fatalf("ExtractContact() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCategorize(t *testing.T) {
	got := Categorize([]string{"Python", "MongoDB", "PostgreSQL", "React", "Communication"})

	want := map[string][]string{
		CategoryProgramming: {"Python"},
		CategoryDataScience: {},
		CategoryCloudDevOps: {},
		CategoryDatabases:   {"MongoDB", "PostgreSQL"},
		CategoryWebMobile:   {"React"},
		CategoryOther:       {"Communication"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected categories: %v", got)
	}

	if c, ok := DominantCategory([]string{"Python", "MongoDB", "PostgreSQL"}); !ok || c != CategoryDatabases {
		t.Fatalf("unexpected dominant category: %q", c)
	}
	if _, ok := DominantCategory([]string{"Communication"}); ok {
		t.Fatalf("expected no dominant category for soft skills")
	}
}

func TestOrganizeExperience(t *testing.T) {
	got := OrganizeExperience([]string{
		"Developed payment software",
		"Trained neural models",
		"Migrated to AWS",
		"Built analytics dashboards",
		"Acme Corp, 2019",
	})

	for group, want := range map[string]string{
		GroupProgramming: "Developed payment software",
		GroupMachineAI:   "Trained neural models",
		GroupCloud:       "Migrated to AWS",
		GroupData:        "Built analytics dashboards",
		GroupRoles:       "Acme Corp, 2019",
	} {
		if len(got[group]) != 1 || got[group][0] != want {
			t.Fatalf("group %q = %q, want [%q]", group, got[group], want)
		}
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(&Profile{Skills: []string{"Python", "Git"}})

	if len(s.Strengths) != 1 {
		t.Fatalf("unexpected strengths: %q", s.Strengths)
	}
	want := []string{"Database knowledge", "Cloud platform experience"}
	if !reflect.DeepEqual(s.Improvements, want) {
		t.Fatalf("unexpected improvements: %q", s.Improvements)
	}
}
