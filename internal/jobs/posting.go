// Package jobs holds job postings, their collection helpers and the
// saved-jobs stores.
package jobs

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Supported search platforms.
const (
	PlatformLinkedIn     = "LinkedIn"
	PlatformIndeed       = "Indeed"
	PlatformGlassdoor    = "Glassdoor"
	PlatformZipRecruiter = "ZipRecruiter"
	PlatformMonster      = "Monster"
)

var Platforms = []string{PlatformLinkedIn, PlatformIndeed, PlatformGlassdoor, PlatformZipRecruiter, PlatformMonster}

const (
	TitleField    = "Title"
	CompanyField  = "Company"
	PlatformField = "Platform"
)

// Posting is one job listing.
type Posting struct {
	Title       string `json:"title" mapstructure:"title"`
	Company     string `json:"company" mapstructure:"company"`
	Location    string `json:"location" mapstructure:"location"`
	Platform    string `json:"platform" mapstructure:"platform"`
	Description string `json:"description" mapstructure:"description"`
	DatePosted  string `json:"date_posted" mapstructure:"date_posted"`
	ApplyURL    string `json:"apply_url" mapstructure:"apply_url"`
	IsRealJob   bool   `json:"is_real_job" mapstructure:"is_real_job"`
	JobType     string `json:"job_type,omitempty" mapstructure:"job_type"`
}

// Key is the identity of a posting for save and remove operations. Two
// postings with the same title and company on different platforms share it.
type Key struct {
	Title   string
	Company string
}

func NewKey(title, company string) Key {
	return Key{Title: strings.TrimSpace(title), Company: strings.TrimSpace(company)}
}

func (k Key) String() string {
	return fmt.Sprintf("%s @ %s", k.Title, k.Company)
}

func (p *Posting) Key() Key {
	return NewKey(p.Title, p.Company)
}

func (p *Posting) GetStringField(name string) string {
	switch name {
	case TitleField:
		return p.Title
	case CompanyField:
		return p.Company
	case PlatformField:
		return p.Platform
	default:
		return ""
	}
}

// Postings is an ordered collection of postings from one search.
type Postings struct {
	Items []*Posting `json:"items"`
}

func (p *Postings) Len() int {
	return len(p.Items)
}

// Find returns the posting with the given key, or nil.
func (p *Postings) Find(k Key) *Posting {
	for _, posting := range p.Items {
		if posting.Key() == k {
			return posting
		}
	}
	return nil
}

// Exclude removes postings whose field equals, case-insensitively, any of the
// targets and returns the keys of removed postings. Order is preserved.
func (p *Postings) Exclude(field string, targets []string) []Key {
	if len(targets) == 0 {
		return nil
	}

	wanted := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		wanted[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}

	var excluded []Key
	kept := p.Items[:0]
	for _, posting := range p.Items {
		if _, ok := wanted[strings.ToLower(strings.TrimSpace(posting.GetStringField(field)))]; ok {
			excluded = append(excluded, posting.Key())
			continue
		}
		kept = append(kept, posting)
	}
	p.Items = kept
	return excluded
}

// Retain keeps only postings for which keep returns true and returns the
// keys of dropped ones.
func (p *Postings) Retain(keep func(*Posting) bool) []Key {
	var dropped []Key
	kept := p.Items[:0]
	for _, posting := range p.Items {
		if keep(posting) {
			kept = append(kept, posting)
			continue
		}
		dropped = append(dropped, posting.Key())
	}
	p.Items = kept
	return dropped
}

// Sort orders of Postings.Sort.
const (
	SortMostRecent = "most-recent"
	SortCompany    = "company"
	SortLocation   = "location"
)

var SortOrders = []string{SortMostRecent, SortCompany, SortLocation}

// Sort orders postings in place; unknown orders are rejected.
// Postings whose date cannot be read sort after dated ones.
func (p *Postings) Sort(order string) error {
	switch order {
	case "", SortMostRecent:
		sort.SliceStable(p.Items, func(i, j int) bool {
			ai, iok := ParseAge(p.Items[i].DatePosted)
			aj, jok := ParseAge(p.Items[j].DatePosted)
			if iok != jok {
				return iok
			}
			return ai < aj
		})
	case SortCompany:
		sort.SliceStable(p.Items, func(i, j int) bool {
			return strings.ToLower(p.Items[i].Company) < strings.ToLower(p.Items[j].Company)
		})
	case SortLocation:
		sort.SliceStable(p.Items, func(i, j int) bool {
			return strings.ToLower(p.Items[i].Location) < strings.ToLower(p.Items[j].Location)
		})
	default:
		return fmt.Errorf("unknown sort order %q", order)
	}
	return nil
}

// ReportByCompany groups a short summary of every posting by company.
func (p *Postings) ReportByCompany() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, posting := range p.Items {
		report[posting.Company] = append(report[posting.Company], map[string]string{
			"title":       posting.Title,
			"location":    posting.Location,
			"platform":    posting.Platform,
			"date_posted": posting.DatePosted,
			"apply_url":   posting.ApplyURL,
		})
	}
	return report
}

// DumpToTmpFile writes the collection as indented JSON to a new temporary
// file and returns its path.
func (p *Postings) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "postings_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// LoadPostingsFile reads a collection written by DumpToTmpFile.
func LoadPostingsFile(path string) (*Postings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var p Postings
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode postings file %q: %w", path, err)
	}
	return &p, nil
}
