package resume

import (
	"strings"

	"github.com/spigell/job-assistant/internal/textnorm"
)

// Experience groups reported by OrganizeExperience.
const (
	GroupProgramming = "Programming Experience"
	GroupMachineAI   = "Machine Learning & AI"
	GroupCloud       = "Cloud Computing"
	GroupData        = "Data Analysis"
	GroupRoles       = "Companies & Roles"
)

// ExperienceGroupOrder is the display order of experience groups.
var ExperienceGroupOrder = []string{GroupProgramming, GroupMachineAI, GroupCloud, GroupData, GroupRoles}

var experienceGroupKeywords = []struct {
	group    string
	keywords []string
}{
	{GroupProgramming, []string{"program", "programming", "develop", "developed", "developer", "development", "code", "coding", "software"}},
	{GroupMachineAI, []string{"machine", "learning", "ai", "neural", "model", "models"}},
	{GroupCloud, []string{"cloud", "aws", "azure", "gcp"}},
	{GroupData, []string{"data", "analytics", "analysis", "statistics"}},
}

// Summary is a short, rule based overview of a profile.
type Summary struct {
	Categories   map[string][]string `json:"categories"`
	Strengths    []string            `json:"strengths"`
	Improvements []string            `json:"improvements"`
}

// Categorize assigns each skill to the first category whose keywords occur in
// it. Skills matching no category land in CategoryOther. Every category in
// CategoryOrder is present in the result.
func Categorize(skills []string) map[string][]string {
	out := make(map[string][]string, len(CategoryOrder))
	for _, c := range CategoryOrder {
		out[c] = []string{}
	}

	for _, skill := range skills {
		category := CategoryOf(skill)
		out[category] = append(out[category], skill)
	}
	return out
}

// CategoryOf returns the category of a single skill.
func CategoryOf(skill string) string {
	for _, c := range CategoryOrder {
		for _, kw := range categoryKeywords[c] {
			if textnorm.ContainsTerm(skill, kw) {
				return c
			}
		}
	}
	return CategoryOther
}

// DominantCategory returns the category holding most skills, ignoring
// CategoryOther. Ties go to the category listed first in CategoryOrder.
func DominantCategory(skills []string) (string, bool) {
	cats := Categorize(skills)
	best, bestCount := "", 0
	for _, c := range CategoryOrder {
		if c == CategoryOther {
			continue
		}
		if n := len(cats[c]); n > bestCount {
			best, bestCount = c, n
		}
	}
	return best, bestCount > 0
}

// Summarize reports categorized skills together with strengths and gaps that
// can be inferred without a model.
func Summarize(p *Profile) Summary {
	var skills []string
	if p != nil {
		skills = p.Skills
	}
	cats := Categorize(skills)

	s := Summary{Categories: cats, Strengths: []string{}, Improvements: []string{}}

	if len(cats[CategoryProgramming]) > 0 || len(cats[CategoryDataScience]) > 0 {
		s.Strengths = append(s.Strengths, "Strong technical skills in programming and/or data science")
	}
	if anySkill(skills, "aws", "cloud", "azure", "gcp") {
		s.Strengths = append(s.Strengths, "Cloud platform experience")
	}
	if anySkill(skills, "ml", "ai", "machine learning", "deep learning") {
		s.Strengths = append(s.Strengths, "Machine learning knowledge")
	}

	if !anySkill(skills, "git") {
		s.Improvements = append(s.Improvements, "Version control experience (Git)")
	}
	if len(cats[CategoryDatabases]) == 0 {
		s.Improvements = append(s.Improvements, "Database knowledge")
	}
	if !anySkill(skills, "aws", "azure", "gcp", "cloud") {
		s.Improvements = append(s.Improvements, "Cloud platform experience")
	}

	return s
}

// OrganizeExperience groups experience entries by the kind of work they
// describe. Each entry lands in exactly one group.
func OrganizeExperience(entries []string) map[string][]string {
	out := make(map[string][]string, len(ExperienceGroupOrder))
	for _, g := range ExperienceGroupOrder {
		out[g] = []string{}
	}

	for _, entry := range entries {
		group := GroupRoles
	groups:
		for _, g := range experienceGroupKeywords {
			for _, kw := range g.keywords {
				if textnorm.ContainsTerm(entry, kw) {
					group = g.group
					break groups
				}
			}
		}
		out[group] = append(out[group], entry)
	}
	return out
}

func anySkill(skills []string, terms ...string) bool {
	for _, s := range skills {
		for _, t := range terms {
			if textnorm.ContainsTerm(s, t) || strings.EqualFold(strings.TrimSpace(s), t) {
				return true
			}
		}
	}
	return false
}
