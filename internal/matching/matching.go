// Package matching scores a resume profile against a job description.
package matching

import (
	"fmt"
	"math"
	"strings"

	"github.com/spigell/job-assistant/internal/resume"
	"github.com/spigell/job-assistant/internal/textnorm"
)

// DisplayLimit is the default number of matches and gaps shown to a user.
const DisplayLimit = 5

const alignedRecommendation = "Your skills align well with this role"

// DefaultGapVocabulary lists common technical terms that count as gaps when a
// description mentions them and the profile does not.
var DefaultGapVocabulary = []string{
	"python", "java", "javascript", "typescript", "sql", "aws", "azure", "gcp",
	"react", "node", "docker", "kubernetes", "terraform", "machine learning",
	"data science", "agile", "scrum", "git", "ci/cd",
}

// Report is the comparison of one profile with one job description.
type Report struct {
	MatchScore      int      `json:"match_score"`
	KeyMatches      []string `json:"key_matches"`
	Gaps            []string `json:"gaps"`
	Recommendations []string `json:"recommendations"`
}

// Limit returns a copy of the report with every list capped at n entries.
// The score is left untouched.
func (r Report) Limit(n int) Report {
	if n < 0 {
		n = 0
	}
	return Report{
		MatchScore:      r.MatchScore,
		KeyMatches:      head(r.KeyMatches, n),
		Gaps:            head(r.Gaps, n),
		Recommendations: head(r.Recommendations, n),
	}
}

// Scorer compares skills with job descriptions. It holds no state besides its
// configuration and is safe for concurrent use.
type Scorer struct {
	gapVocabulary []string
}

// NewScorer returns a scorer using vocabulary as the reference gap list, or
// DefaultGapVocabulary when vocabulary is empty.
func NewScorer(vocabulary []string) *Scorer {
	if len(vocabulary) == 0 {
		vocabulary = DefaultGapVocabulary
	}
	vocab := make([]string, 0, len(vocabulary))
	for _, term := range vocabulary {
		if term = strings.ToLower(strings.TrimSpace(term)); term != "" {
			vocab = append(vocab, term)
		}
	}
	return &Scorer{gapVocabulary: vocab}
}

// ScoreProfile is Score over the profile's skills.
func (s *Scorer) ScoreProfile(p *resume.Profile, description string) Report {
	if p == nil {
		return s.Score(nil, description)
	}
	return s.Score(p.Skills, description)
}

// Score reports which skills the description mentions, which vocabulary terms
// it mentions that the skills do not cover, and the share of matched terms
// among all recognised ones.
func (s *Scorer) Score(skills []string, description string) Report {
	report := Report{
		KeyMatches:      []string{},
		Gaps:            []string{},
		Recommendations: []string{},
	}

	desc := textnorm.Normalize(description)
	if desc == "" {
		return report
	}

	skills = resume.Dedupe(skills)
	lowerSkills := make([]string, len(skills))
	for i, skill := range skills {
		lowerSkills[i] = strings.ToLower(skill)
		if textnorm.IndexTermVariant(desc, lowerSkills[i]) >= 0 {
			report.KeyMatches = append(report.KeyMatches, skill)
		}
	}

	for _, term := range s.gapVocabulary {
		if textnorm.IndexTermVariant(desc, term) < 0 {
			continue
		}
		if coveredBy(term, lowerSkills) {
			continue
		}
		report.Gaps = append(report.Gaps, term)
	}

	report.MatchScore = score(len(report.KeyMatches), len(report.Gaps))

	for _, gap := range report.Gaps {
		report.Recommendations = append(report.Recommendations,
			fmt.Sprintf("Consider highlighting or acquiring experience with %s", gap))
	}
	if len(report.Gaps) == 0 {
		report.Recommendations = append(report.Recommendations, alignedRecommendation)
	}

	return report
}

// score is round(100 * matched / (matched + gaps)) bounded to 0..100. Adding a
// matched skill never lowers it.
func score(matched, gaps int) int {
	total := matched + gaps
	if total < 1 {
		total = 1
	}
	v := int(math.Round(100 * float64(matched) / float64(total)))
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}

func coveredBy(term string, lowerSkills []string) bool {
	for _, s := range lowerSkills {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

func head(items []string, n int) []string {
	if len(items) <= n {
		out := make([]string, len(items))
		copy(out, items)
		return out
	}
	out := make([]string, n)
	copy(out, items[:n])
	return out
}
