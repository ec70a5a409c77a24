// Package filtering narrows job search results through a sequence of
// configurable steps.
package filtering

import (
	"strings"

	"github.com/spigell/job-assistant/internal/jobs"
)

// ContainsRedFlag reports whether any red-flag term appears, case-insensitively,
// in the title, company or description of the posting.
func ContainsRedFlag(p *jobs.Posting, redFlags []string) bool {
	if len(redFlags) == 0 {
		return false
	}
	combined := strings.ToLower(p.Title + " " + p.Company + " " + p.Description)
	for _, flag := range redFlags {
		flag = strings.TrimSpace(flag)
		if flag == "" {
			continue
		}
		if strings.Contains(combined, strings.ToLower(flag)) {
			return true
		}
	}
	return false
}
