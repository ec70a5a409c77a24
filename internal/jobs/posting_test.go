package jobs

import (
	"os"
	"reflect"
	"testing"
	"time"
)

func titles(p *Postings) []string {
	out := make([]string, 0, len(p.Items))
	for _, item := range p.Items {
		out = append(out, item.Title)
	}
	return out
}

func TestParseAge(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
		ok   bool
	}{
		{"3 days ago", 3 * day, true},
		{"an hour ago", time.Hour, true},
		{"30+ days ago", 30 * day, true},
		{"2 weeks ago", 2 * week, true},
		{"15 minutes ago", 15 * time.Minute, true},
		{"1 month ago", month, true},
		{"Today", 0, true},
		{"yesterday", day, true},
		{"", 0, false},
		{"recently", 0, false},
	}

	for _, tc := range cases {
		got, ok := ParseAge(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseAge(%q) = %v, %v; want %v, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestMaxAgeDays(t *testing.T) {
	cases := map[string]int{
		RecencyDay:     1,
		RecencyThree:   3,
		RecencyWeek:    7,
		RecencyTwoWeek: 14,
		RecencyMonth:   30,
		RecencyAny:     0,
		"1 Week":       7,
		"forever":      0,
	}
	for in, want := range cases {
		if got := MaxAgeDays(in); got != want {
			t.Errorf("MaxAgeDays(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestSortMostRecent(t *testing.T) {
	p := &Postings{Items: []*Posting{
		{Title: "old", DatePosted: "2 weeks ago"},
		{Title: "unknown", DatePosted: "sometime"},
		{Title: "new", DatePosted: "5 hours ago"},
		{Title: "mid", DatePosted: "3 days ago"},
	}}

	if err := p.Sort(SortMostRecent); err != nil {
		t.Fatalf("sort: %v", err)
	}
	if want := []string{"new", "mid", "old", "unknown"}; !reflect.DeepEqual(titles(p), want) {
		t.Fatalf("unexpected order: %q", titles(p))
	}
}

func TestSortCompanyAndLocation(t *testing.T) {
	p := &Postings{Items: []*Posting{
		{Title: "a", Company: "zeta", Location: "Berlin"},
		{Title: "b", Company: "Alpha", Location: "Zurich"},
		{Title: "c", Company: "beta", Location: "amsterdam"},
	}}

	if err := p.Sort(SortCompany); err != nil {
		t.Fatalf("sort: %v", err)
	}
	if want := []string{"b", "c", "a"}; !reflect.DeepEqual(titles(p), want) {
		t.Fatalf("unexpected company order: %q", titles(p))
	}

	if err := p.Sort(SortLocation); err != nil {
		t.Fatalf("sort: %v", err)
	}
	if want := []string{"c", "a", "b"}; !reflect.DeepEqual(titles(p), want) {
		t.Fatalf("unexpected location order: %q", titles(p))
	}

	if err := p.Sort("relevance"); err == nil {
		t.Fatalf("expected error for unknown order")
	}
}

func TestExcludeAndRetain(t *testing.T) {
	p := &Postings{Items: []*Posting{
		{Title: "Go Dev", Company: "Acme", Platform: PlatformLinkedIn},
		{Title: "Data Eng", Company: "Initech", Platform: PlatformIndeed},
		{Title: "SRE", Company: "acme ", Platform: PlatformGlassdoor},
	}}

	excluded := p.Exclude(CompanyField, []string{"ACME"})
	if len(excluded) != 2 || excluded[0] != NewKey("Go Dev", "Acme") {
		t.Fatalf("unexpected excluded keys: %v", excluded)
	}
	if want := []string{"Data Eng"}; !reflect.DeepEqual(titles(p), want) {
		t.Fatalf("unexpected remaining: %q", titles(p))
	}

	dropped := p.Retain(func(posting *Posting) bool { return posting.Platform == PlatformLinkedIn })
	if len(dropped) != 1 || p.Len() != 0 {
		t.Fatalf("expected retain to drop the indeed posting, got %v and %d left", dropped, p.Len())
	}
}

func TestFindByKey(t *testing.T) {
	p := &Postings{Items: []*Posting{{Title: "Go Dev", Company: "Acme"}}}

	if p.Find(NewKey(" Go Dev ", "Acme")) == nil {
		t.Fatalf("expected to find posting by trimmed key")
	}
	if p.Find(NewKey("Go Dev", "Other")) != nil {
		t.Fatalf("expected no posting for another company")
	}
}

func TestReportByCompanyAndDump(t *testing.T) {
	p := &Postings{Items: []*Posting{
		{Title: "Go Dev", Company: "Acme"},
		{Title: "SRE", Company: "Acme"},
		{Title: "Analyst", Company: "Initech"},
	}}

	report := p.ReportByCompany()
	if len(report["Acme"]) != 2 || len(report["Initech"]) != 1 {
		t.Fatalf("unexpected report: %v", report)
	}

	path, err := p.DumpToTmpFile()
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	defer os.Remove(path)

	loaded, err := LoadPostingsFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Len() != 3 || loaded.Items[2].Company != "Initech" {
		t.Fatalf("unexpected loaded postings: %+v", loaded.Items)
	}
}
