// Package resume turns plain resume text into a structured Profile.
package resume

import "strings"

// ContactInfo holds the contact details found in a resume.
type ContactInfo struct {
	Email string `json:"email,omitempty" mapstructure:"email"`
	Phone string `json:"phone,omitempty" mapstructure:"phone"`
}

// IsEmpty reports whether no contact detail was found.
func (c ContactInfo) IsEmpty() bool {
	return c.Email == "" && c.Phone == ""
}

// Profile is the structured view of one resume. A Profile is never mutated
// after extraction; uploading a new resume produces a new Profile.
type Profile struct {
	ContactInfo ContactInfo `json:"contact_info" mapstructure:"contact_info"`
	Skills      []string    `json:"skills" mapstructure:"skills"`
	Education   []string    `json:"education" mapstructure:"education"`
	Experience  []string    `json:"experience" mapstructure:"experience"`
	RawText     string      `json:"raw_text,omitempty" mapstructure:"raw_text"`
}

// IsEmpty reports whether extraction found nothing at all.
func (p *Profile) IsEmpty() bool {
	if p == nil {
		return true
	}
	return p.ContactInfo.IsEmpty() && len(p.Skills) == 0 && len(p.Education) == 0 && len(p.Experience) == 0
}

// HasSkill reports whether any profile skill contains term, case-insensitively.
func (p *Profile) HasSkill(term string) bool {
	if p == nil {
		return false
	}
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return false
	}
	for _, s := range p.Skills {
		if strings.Contains(strings.ToLower(s), term) {
			return true
		}
	}
	return false
}

// Dedupe removes case-insensitive duplicates, keeping the first seen
// spelling and the original order. Blank entries are dropped.
func Dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key := strings.ToLower(item)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}
