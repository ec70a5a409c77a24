// Package textnorm holds the text helpers shared by the resume extractor,
// keyword builder and match scorer.
package textnorm

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// variantSuffixes spell the same technology as the bare term: "node.js" and
// "reactjs" both mention node and react.
var variantSuffixes = []string{".js", "js"}

// Normalize lower-cases s, folds typographic dashes and quotes and collapses
// runs of whitespace into single spaces.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.Map(func(r rune) rune {
		switch r {
		case '–', '—', '−':
			return '-'
		case '‘', '’':
			return '\''
		case '“', '”':
			return '"'
		case '\u00a0', '\u2009', '\u202f':
			return ' '
		}
		return r
	}, s)

	return strings.Join(strings.Fields(s), " ")
}

// Tokenize splits s into lower-case tokens. Characters that commonly belong to
// technical terms (c++, c#, node.js, ci/cd) are kept inside the token.
func Tokenize(s string) []string {
	s = strings.ToLower(s)
	tokens := strings.FieldsFunc(s, func(r rune) bool {
		return !isTermRune(r)
	})

	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.Trim(tok, "./-")
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// ContainsTerm reports whether term occurs in text on term boundaries.
// Both arguments are compared case-insensitively.
func ContainsTerm(text, term string) bool {
	return IndexTerm(strings.ToLower(text), strings.ToLower(term)) >= 0
}

// IndexTerm returns the byte offset of the first boundary-delimited occurrence
// of term in text, or -1. Callers pass already lower-cased strings.
func IndexTerm(text, term string) int {
	term = strings.TrimSpace(term)
	if term == "" {
		return -1
	}

	offset := 0
	for {
		idx := strings.Index(text[offset:], term)
		if idx < 0 {
			return -1
		}
		start := offset + idx
		end := start + len(term)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			return start
		}
		offset = start + 1
		if offset >= len(text) {
			return -1
		}
	}
}

// IndexTermVariant is IndexTerm that also accepts the term written with a
// variant suffix such as "node.js" for "node".
func IndexTermVariant(text, term string) int {
	best := IndexTerm(text, term)
	for _, suffix := range variantSuffixes {
		if strings.HasSuffix(term, suffix) {
			continue
		}
		if idx := IndexTerm(text, term+suffix); idx >= 0 && (best < 0 || idx < best) {
			best = idx
		}
	}
	return best
}

// StripBullet removes list markers such as "-", "*", "•" and "1." from the
// beginning of a line.
func StripBullet(line string) string {
	line = strings.TrimSpace(line)
	for {
		trimmed := strings.TrimLeft(line, "-*•·–—▪◦●>")
		trimmed = strings.TrimSpace(trimmed)
		if trimmed == line {
			break
		}
		line = trimmed
	}

	// numbered markers: "1.", "2)", "(3)"
	i := 0
	if i < len(line) && line[i] == '(' {
		i++
	}
	digits := i
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i > digits && i < len(line) && (line[i] == '.' || line[i] == ')') {
		rest := strings.TrimSpace(line[i+1:])
		if rest != "" && (i+1 >= len(line) || line[i+1] == ' ') {
			return rest
		}
	}
	return line
}

// Lines splits text into trimmed lines, dropping empty ones.
func Lines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSpace(l)
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// WordCount returns the number of whitespace separated words in s.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// IsStopword reports whether a lower-case token carries no search value.
func IsStopword(tok string) bool {
	_, ok := stopwords[tok]
	return ok
}

func isTermRune(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return true
	}
	switch r {
	case '+', '#', '.', '/', '-':
		return true
	}
	return false
}

func boundaryBefore(text string, start int) bool {
	if start == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:start])
	return !isWordRune(r)
}

func boundaryAfter(text string, end int) bool {
	if end >= len(text) {
		return true
	}
	c := text[end]
	if c == '+' || c == '#' {
		return false
	}
	// "node.js" must not match "node" but "aws." at the end of a sentence must.
	if c == '.' && end+1 < len(text) {
		next, _ := utf8.DecodeRuneInString(text[end+1:])
		if isWordRune(next) {
			return false
		}
	}
	r, _ := utf8.DecodeRuneInString(text[end:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

var stopwords = map[string]struct{}{
	"a": {}, "about": {}, "above": {}, "across": {}, "after": {}, "all": {}, "also": {},
	"an": {}, "and": {}, "any": {}, "are": {}, "as": {}, "at": {}, "be": {}, "been": {},
	"being": {}, "both": {}, "but": {}, "by": {}, "can": {}, "could": {}, "did": {},
	"do": {}, "does": {}, "during": {}, "each": {}, "etc": {}, "for": {}, "from": {},
	"had": {}, "has": {}, "have": {}, "he": {}, "her": {}, "his": {}, "how": {}, "i": {},
	"in": {}, "including": {}, "into": {}, "is": {}, "it": {}, "its": {}, "led": {},
	"more": {}, "most": {}, "my": {}, "new": {}, "of": {}, "on": {}, "or": {}, "other": {},
	"our": {}, "over": {}, "per": {}, "present": {}, "she": {}, "so": {}, "such": {},
	"than": {}, "that": {}, "the": {}, "their": {}, "them": {}, "then": {}, "there": {},
	"these": {}, "they": {}, "this": {}, "those": {}, "through": {}, "to": {}, "under": {},
	"up": {}, "using": {}, "used": {}, "via": {}, "was": {}, "we": {}, "were": {},
	"what": {}, "when": {}, "which": {}, "while": {}, "who": {}, "will": {}, "with": {},
	"within": {}, "worked": {}, "working": {}, "would": {}, "year": {}, "years": {},
	"you": {}, "your": {},
	"january": {}, "february": {}, "march": {}, "april": {}, "may": {}, "june": {},
	"july": {}, "august": {}, "september": {}, "october": {}, "november": {}, "december": {},
	"jan": {}, "feb": {}, "mar": {}, "apr": {}, "jun": {}, "jul": {}, "aug": {}, "sep": {},
	"sept": {}, "oct": {}, "nov": {}, "dec": {}, "current": {},
}
