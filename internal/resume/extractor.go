package resume

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/spigell/job-assistant/internal/textnorm"
)

type section int

const (
	sectionNone section = iota
	sectionEducation
	sectionExperience
	sectionSkills
	sectionOther
)

const (
	maxHeaderWords   = 5
	maxHeaderRunes   = 40
	maxSkillWords    = 5
	maxSkillRunes    = 50
	minPhoneDigits   = 7
	maxPhoneDigits   = 15
	skillListMinimum = 2
)

var (
	emailPattern     = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phonePattern     = regexp.MustCompile(`\+?\(?\d[\d\s\-.()]{5,}\d`)
	yearRangePattern = regexp.MustCompile(`^(19|20)\d{2}\s*[-./]?\s*((19|20)\d{2})?$`)
	datePattern      = regexp.MustCompile(`(?i)\b(19|20)\d{2}\b|\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+(19|20)\d{2}\b|\bpresent\b`)
	skillLabel       = regexp.MustCompile(`^[\p{L} &/+#.\-]{2,40}:\s*`)
	skillSeparators  = regexp.MustCompile(`\s*[,;|•·]\s*|\s+/\s+`)
)

// Extractor parses resume text into a Profile using line and section
// heuristics. The zero value is ready to use with the built-in vocabulary.
type Extractor struct {
	// Vocabulary overrides SkillVocabulary when set.
	Vocabulary []string
}

// NewExtractor returns an extractor using the built-in skill vocabulary.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract builds a Profile from raw text. It never fails: fields that could
// not be recognised are returned as empty collections.
func (e *Extractor) Extract(text string) *Profile {
	profile := &Profile{
		Skills:     []string{},
		Education:  []string{},
		Experience: []string{},
		RawText:    text,
	}

	if strings.TrimSpace(text) == "" {
		return profile
	}

	profile.ContactInfo = ExtractContact(text)

	lines := textnorm.Lines(text)
	hasHeaders := false
	for _, line := range lines {
		if _, ok := classifyHeader(line); ok {
			hasHeaders = true
			break
		}
	}

	var listed []string
	current := sectionNone
	for _, line := range lines {
		if s, ok := classifyHeader(line); ok {
			_, inline, _ := strings.Cut(line, ":")
			inline = strings.TrimSpace(inline)

			// "Languages: Go, Python" inside a skills block is a labelled list
			if current == sectionSkills && inline != "" {
				listed = append(listed, splitSkillList(line)...)
				continue
			}

			current = s
			switch {
			case inline == "":
			case s == sectionSkills:
				listed = append(listed, splitSkillList(inline)...)
			case s == sectionEducation:
				profile.Education = append(profile.Education, inline)
			case s == sectionExperience:
				profile.Experience = append(profile.Experience, inline)
			}
			continue
		}

		entry := textnorm.StripBullet(line)
		if entry == "" || isContactLine(entry) {
			continue
		}

		switch {
		case !hasHeaders:
			if isDegreeLine(entry) {
				profile.Education = append(profile.Education, entry)
			} else {
				profile.Experience = append(profile.Experience, entry)
			}
		case current == sectionEducation:
			profile.Education = append(profile.Education, entry)
		case current == sectionExperience:
			profile.Experience = append(profile.Experience, entry)
		case current == sectionSkills:
			listed = append(listed, splitSkillList(entry)...)
		case current == sectionNone:
			switch {
			case isDegreeLine(entry):
				profile.Education = append(profile.Education, entry)
			case isExperienceLine(entry):
				profile.Experience = append(profile.Experience, entry)
			}
		}
	}

	skills := make([]string, 0, len(listed))
	skills = append(skills, listed...)
	skills = append(skills, e.vocabularyMatches(text)...)
	profile.Skills = Dedupe(skills)

	return profile
}

// ExtractContact returns the first email-shaped and the first phone-shaped
// token in text.
func ExtractContact(text string) ContactInfo {
	var info ContactInfo

	if m := emailPattern.FindString(text); m != "" {
		info.Email = strings.TrimRight(m, ".")
	}

	withoutEmails := emailPattern.ReplaceAllString(text, " ")
	for _, candidate := range phonePattern.FindAllString(withoutEmails, -1) {
		candidate = strings.TrimSpace(candidate)
		if isPhone(candidate) {
			info.Phone = candidate
			break
		}
	}

	return info
}

func isPhone(candidate string) bool {
	// a candidate spanning several lines is never a phone number
	if strings.ContainsAny(candidate, "\n\r") {
		return false
	}
	if yearRangePattern.MatchString(strings.Trim(candidate, "() ")) {
		return false
	}

	digits := 0
	for _, r := range candidate {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	return digits >= minPhoneDigits && digits <= maxPhoneDigits
}

func (e *Extractor) vocabularyMatches(text string) []string {
	vocab := e.Vocabulary
	if len(vocab) == 0 {
		vocab = SkillVocabulary
	}

	lower := asciiLower(text)

	type match struct {
		pos     int
		surface string
	}
	matches := make([]match, 0)

	for _, term := range vocab {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}

		offset := 0
		for offset < len(lower) {
			idx := textnorm.IndexTerm(lower[offset:], term)
			if idx < 0 {
				break
			}
			pos := offset + idx
			surface := text[pos : pos+len(term)]
			if acceptSurface(term, surface) {
				matches = append(matches, match{pos: pos, surface: surface})
				break
			}
			offset = pos + len(term)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].pos < matches[j].pos
	})

	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.surface)
	}
	return out
}

// asciiLower lower-cases ASCII letters only so byte offsets stay aligned
// with the original text.
func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

func acceptSurface(term, surface string) bool {
	if !strings.EqualFold(term, surface) {
		return false
	}
	if _, ok := acronymTerms[term]; ok {
		return surface == strings.ToUpper(surface)
	}
	if _, ok := capitalizedTerms[term]; ok {
		r, _ := utf8.DecodeRuneInString(surface)
		return unicode.IsUpper(r)
	}
	return true
}

func classifyHeader(line string) (section, bool) {
	header := strings.TrimSpace(line)
	if isBulleted(header) {
		return sectionNone, false
	}
	header = strings.TrimLeft(header, "#=* ")
	if head, _, found := strings.Cut(header, ":"); found {
		header = head
	}
	header = strings.TrimSpace(strings.Trim(header, "=*-_ "))

	if header == "" || utf8.RuneCountInString(header) > maxHeaderRunes || textnorm.WordCount(header) > maxHeaderWords {
		return sectionNone, false
	}
	// headers are titles, not sentences
	if strings.ContainsAny(header, ".,;@") {
		return sectionNone, false
	}

	lower := strings.ToLower(header)
	var s section
	switch {
	case containsAny(lower, skillsHeaders):
		s = sectionSkills
	case containsAny(lower, educationHeaders):
		s = sectionEducation
	case containsAny(lower, experienceHeaders):
		s = sectionExperience
	case containsAny(lower, otherHeaders):
		s = sectionOther
	default:
		return sectionNone, false
	}

	// every word must be a header keyword or a qualifier such as "technical"
	rest := lower
	for _, group := range [][]string{skillsHeaders, educationHeaders, experienceHeaders, otherHeaders} {
		rest = removeTerms(rest, group)
	}
	for _, word := range strings.FieldsFunc(rest, func(r rune) bool { return !unicode.IsLetter(r) }) {
		if _, ok := headerQualifiers[word]; !ok {
			return sectionNone, false
		}
	}
	return s, true
}

// isBulleted reports whether line starts with a list marker followed by a space.
func isBulleted(line string) bool {
	r, size := utf8.DecodeRuneInString(line)
	if !strings.ContainsRune("-*•·–—▪◦●>", r) {
		return false
	}
	next, _ := utf8.DecodeRuneInString(line[size:])
	return unicode.IsSpace(next)
}

func removeTerms(lower string, terms []string) string {
	for _, term := range terms {
		for {
			idx := textnorm.IndexTerm(lower, term)
			if idx < 0 {
				break
			}
			lower = lower[:idx] + " " + lower[idx+len(term):]
		}
	}
	return lower
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if textnorm.IndexTerm(lower, kw) >= 0 {
			return true
		}
	}
	return false
}

func isDegreeLine(line string) bool {
	return containsAny(strings.ToLower(line), degreeKeywords)
}

func isExperienceLine(line string) bool {
	lower := strings.ToLower(line)
	if !datePattern.MatchString(line) {
		return false
	}
	return containsAny(lower, employerKeywords) || strings.Contains(lower, " at ") || strings.Contains(line, "|")
}

func isContactLine(line string) bool {
	rest := emailPattern.ReplaceAllString(line, "")
	rest = phonePattern.ReplaceAllStringFunc(rest, func(m string) string {
		if isPhone(strings.TrimSpace(m)) {
			return ""
		}
		return m
	})
	rest = strings.Trim(rest, " |,;:-•·/()")
	if rest == line {
		return false
	}

	lower := strings.ToLower(rest)
	for _, label := range []string{"email", "e-mail", "phone", "tel", "mobile", "cell"} {
		lower = strings.ReplaceAll(lower, label, "")
	}
	return strings.Trim(lower, " |,;:-•·/()") == ""
}

func splitSkillList(line string) []string {
	line = skillLabel.ReplaceAllString(strings.TrimSpace(line), "")

	parts := skillSeparators.Split(line, -1)
	if len(parts) < skillListMinimum {
		// a single phrase is accepted when it looks like a skill, not a sentence
		parts = []string{line}
	}

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(textnorm.StripBullet(p))
		p = strings.Trim(p, " .")
		if p == "" {
			continue
		}
		if utf8.RuneCountInString(p) > maxSkillRunes || textnorm.WordCount(p) > maxSkillWords {
			continue
		}
		out = append(out, p)
	}
	return out
}
