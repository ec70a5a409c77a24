package jobsearch

import "strings"

// DefaultExperienceLevel adds nothing to the query.
const DefaultExperienceLevel = "1-3"

var ExperienceLevels = []string{"0-1", DefaultExperienceLevel, "3-5", "5-10", "10+"}

var JobTypes = []string{"Full-time", "Part-time", "Contract", "Internship", "Remote"}

// BuildQuery appends the selected job types and, unless it is the default,
// the experience level to base.
func BuildQuery(base string, jobTypes []string, experienceLevel string) string {
	parts := []string{strings.TrimSpace(base)}
	for _, t := range jobTypes {
		if t = strings.TrimSpace(t); t != "" {
			parts = append(parts, t)
		}
	}

	level := strings.TrimSpace(experienceLevel)
	if level != "" && level != DefaultExperienceLevel {
		parts = append(parts, level+" years")
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}
