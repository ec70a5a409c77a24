// Package keywords derives a ranked list of search keywords and a probable job
// title from a resume profile.
package keywords

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/spigell/job-assistant/internal/resume"
	"github.com/spigell/job-assistant/internal/textnorm"
)

const (
	DefaultLimit = 6
	MinLimit     = 1
	MaxLimit     = 8

	// FallbackTitle is returned when nothing in the profile hints at a role.
	FallbackTitle = "Professional"

	minFallbackTokenLen = 4
	maxTitleWords       = 6
)

var titleAtCompany = regexp.MustCompile(`(?i)^(.+?)\s+(?:at|@)\s+(.+)$`)

var titleWords = []string{
	"engineer", "developer", "scientist", "analyst", "manager", "designer", "architect",
	"consultant", "administrator", "intern", "lead", "specialist", "director", "programmer",
	"researcher", "officer", "coordinator", "technician", "tester",
}

// knownTitles are matched inside experience entries when no "<title> at
// <company>" line exists. Longer titles come first so they win over the
// generic ones they contain.
var knownTitles = []string{
	"Machine Learning Engineer", "Site Reliability Engineer", "Full Stack Developer",
	"Software Development Engineer", "Data Scientist", "Data Engineer", "Data Analyst",
	"DevOps Engineer", "Cloud Engineer", "Security Engineer", "QA Engineer",
	"Frontend Developer", "Backend Developer", "Mobile Developer", "Web Developer",
	"Software Engineer", "Software Developer", "Product Manager", "Project Manager",
	"Business Analyst", "UX Designer", "Solutions Architect",
}

var categoryTitles = map[string]string{
	resume.CategoryProgramming: "Software Engineer",
	resume.CategoryDataScience: "Machine Learning Engineer",
	resume.CategoryCloudDevOps: "DevOps Engineer",
	resume.CategoryDatabases:   "Database Administrator",
	resume.CategoryWebMobile:   "Full Stack Developer",
}

// genericTerms are valid skills that make poor search keywords.
var genericTerms = map[string]struct{}{
	"leadership": {}, "communication": {}, "teamwork": {}, "problem solving": {},
	"project management": {}, "mentoring": {}, "time management": {}, "collaboration": {},
	"critical thinking": {}, "stakeholder management": {}, "agile": {}, "scrum": {},
}

var vocabulary = func() map[string]struct{} {
	m := make(map[string]struct{}, len(resume.SkillVocabulary))
	for _, term := range resume.SkillVocabulary {
		m[term] = struct{}{}
	}
	return m
}()

// Builder ranks profile skills into search keywords.
type Builder struct {
	limit int
}

// NewBuilder returns a builder that keeps at most limit keywords. Values
// outside MinLimit..MaxLimit are clamped; zero selects DefaultLimit.
func NewBuilder(limit int) *Builder {
	switch {
	case limit == 0:
		limit = DefaultLimit
	case limit < MinLimit:
		limit = MinLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}
	return &Builder{limit: limit}
}

// Limit returns the keyword bound.
func (b *Builder) Limit() int {
	return b.limit
}

// Build returns up to Limit keywords ordered by specificity together with
// the inferred job title. The keyword list is empty only when the profile has
// neither skills nor usable experience text.
func (b *Builder) Build(p *resume.Profile) ([]string, string) {
	if p == nil {
		return []string{}, FallbackTitle
	}

	var kws []string
	if len(p.Skills) > 0 {
		kws = b.rankSkills(p.Skills)
	} else {
		kws = b.experienceTerms(p.Experience)
	}

	return kws, InferTitle(p)
}

// Query joins keywords into a single search query.
func Query(keywords []string) string {
	parts := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k != "" {
			parts = append(parts, k)
		}
	}
	return strings.Join(parts, " ")
}

func (b *Builder) rankSkills(skills []string) []string {
	ranked := resume.Dedupe(skills)
	sort.SliceStable(ranked, func(i, j int) bool {
		return specificity(ranked[i]) < specificity(ranked[j])
	})

	if len(ranked) > b.limit {
		ranked = ranked[:b.limit]
	}
	return ranked
}

// specificity orders skills: lower is more specific.
func specificity(skill string) int {
	lower := strings.ToLower(strings.TrimSpace(skill))

	if _, ok := genericTerms[lower]; ok {
		return 4
	}
	if strings.Contains(lower, " ") {
		return 0
	}
	if strings.IndexFunc(lower, func(r rune) bool {
		return unicode.IsDigit(r) || strings.ContainsRune("+#./-", r)
	}) >= 0 {
		return 1
	}
	if _, ok := vocabulary[lower]; ok {
		return 2
	}
	return 3
}

func (b *Builder) experienceTerms(entries []string) []string {
	counts := map[string]int{}
	order := []string{}

	for _, entry := range entries {
		for _, tok := range textnorm.Tokenize(entry) {
			if len(tok) < minFallbackTokenLen || textnorm.IsStopword(tok) || isNumeric(tok) {
				continue
			}
			if _, seen := counts[tok]; !seen {
				order = append(order, tok)
			}
			counts[tok]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > b.limit {
		order = order[:b.limit]
	}
	return order
}

// InferTitle guesses the candidate's job title from experience entries,
// falling back to the dominant skill category and finally FallbackTitle.
func InferTitle(p *resume.Profile) string {
	if p == nil {
		return FallbackTitle
	}

	for _, entry := range p.Experience {
		if title, ok := titleFromRoleLine(entry); ok {
			return title
		}
	}

	for _, entry := range p.Experience {
		for _, title := range knownTitles {
			if textnorm.ContainsTerm(entry, title) {
				return title
			}
		}
	}

	if category, ok := resume.DominantCategory(p.Skills); ok {
		if title, ok := categoryTitles[category]; ok {
			return title
		}
	}

	return FallbackTitle
}

func titleFromRoleLine(entry string) (string, bool) {
	m := titleAtCompany.FindStringSubmatch(textnorm.StripBullet(entry))
	if m == nil {
		return "", false
	}

	title := m[1]
	// "2019 - 2021 | Backend Developer at X" keeps only the role part
	if i := strings.LastIndexAny(title, "|,"); i >= 0 {
		title = title[i+1:]
	}
	title = strings.Trim(strings.TrimSpace(title), "-–:")
	title = strings.TrimSpace(title)

	if title == "" || textnorm.WordCount(title) > maxTitleWords {
		return "", false
	}

	lower := strings.ToLower(title)
	for _, w := range titleWords {
		if textnorm.IndexTerm(lower, w) >= 0 {
			return title, true
		}
	}
	return "", false
}

func isNumeric(tok string) bool {
	return strings.IndexFunc(tok, func(r rune) bool { return !unicode.IsDigit(r) && r != '.' && r != '-' && r != '/' }) < 0
}
