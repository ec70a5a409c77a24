package jobsearch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const jobsResponse = `{
  "search_metadata": {"status": "Success"},
  "jobs_results": [
    {
      "title": " Senior Go Engineer ",
      "company_name": "Acme",
      "location": "Berlin, Germany",
      "via": "via LinkedIn",
      "description": "Go, Kubernetes and PostgreSQL",
      "share_link": "https://share/1",
      "detected_extensions": {"posted_at": "3 days ago", "schedule_type": "Full-time"},
      "apply_options": [
        {"title": "Acme Careers", "link": "https://acme/careers"},
        {"title": "LinkedIn", "link": "https://linkedin/1"}
      ]
    },
    {
      "title": "Data Engineer",
      "company_name": "Initech",
      "location": "Remote",
      "description": "Python",
      "share_link": "https://share/2",
      "detected_extensions": {"posted_at": "1 day ago"}
    },
    {"title": "Third", "company_name": "Other"}
  ]
}`

func newTestServer(t *testing.T, handler http.HandlerFunc) *SerpAPI {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewSerpAPI("secret", nil)
	client.APIURL = srv.URL
	client.HTTPClient = srv.Client()
	return client
}

func TestSerpAPISearch(t *testing.T) {
	var query map[string][]string
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != SearchPath {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		query = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(jobsResponse))
	})

	postings, err := client.Search(context.Background(), Params{
		Query:      "golang developer",
		Location:   "Berlin",
		Platform:   "LinkedIn",
		Count:      2,
		MaxAgeDays: 7,
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if len(postings) != 2 {
		t.Fatalf("expected count to bound results, got %d", len(postings))
	}

	first := postings[0]
	if first.Title != "Senior Go Engineer" || first.Company != "Acme" || first.Platform != "LinkedIn" {
		t.Fatalf("unexpected posting: %+v", first)
	}
	if !first.IsRealJob || first.DatePosted != "3 days ago" || first.JobType != "Full-time" {
		t.Fatalf("unexpected posting details: %+v", first)
	}
	if first.ApplyURL != "https://linkedin/1" {
		t.Fatalf("expected platform apply link, got %s", first.ApplyURL)
	}
	if postings[1].ApplyURL != "https://share/2" {
		t.Fatalf("expected share link fallback, got %s", postings[1].ApplyURL)
	}

	checks := map[string]string{
		"engine":   "google_jobs",
		"api_key":  "secret",
		"q":        "golang developer LinkedIn",
		"location": "Berlin",
		"chips":    "date_posted:week",
	}
	for key, want := range checks {
		if got := strings.Join(query[key], ","); got != want {
			t.Errorf("query %s = %q, want %q", key, got, want)
		}
	}
}

func TestSerpAPIRemoteLocation(t *testing.T) {
	var query map[string][]string
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		w.Write([]byte(`{"jobs_results": []}`))
	})

	postings, err := client.Search(context.Background(), Params{Query: "sre", Location: "Remote"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(postings) != 0 {
		t.Fatalf("expected no postings, got %d", len(postings))
	}
	if _, ok := query["location"]; ok {
		t.Fatalf("remote must not be sent as a location")
	}
	if got := query["q"]; len(got) != 1 || got[0] != "sre remote" {
		t.Fatalf("unexpected q: %v", got)
	}
	if _, ok := query["chips"]; ok {
		t.Fatalf("no date chip expected without max age")
	}
}

func TestSerpAPIErrors(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		wantErr bool
	}{
		{name: "no results", status: http.StatusOK, body: `{"error": "Google hasn't returned any results for this query."}`},
		{name: "invalid key", status: http.StatusUnauthorized, body: `{"error": "Invalid API key."}`, wantErr: true},
		{name: "gateway", status: http.StatusBadGateway, body: `<html>bad gateway</html>`, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			})

			postings, err := client.Search(context.Background(), Params{Query: "go"})
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil || len(postings) != 0 {
				t.Fatalf("expected empty result, got %v, %v", postings, err)
			}
		})
	}
}

func TestSerpAPIWithoutKey(t *testing.T) {
	_, err := NewSerpAPI(" ", nil).Search(context.Background(), Params{Query: "go"})
	if !errors.Is(err, ErrNoAPIKey) {
		t.Fatalf("expected ErrNoAPIKey, got %v", err)
	}
}

func TestBuildQuery(t *testing.T) {
	cases := []struct {
		base  string
		types []string
		level string
		want  string
	}{
		{"Python, Go", nil, DefaultExperienceLevel, "Python, Go"},
		{"Python", []string{"Full-time", " ", "Remote"}, "", "Python Full-time Remote"},
		{"Python", nil, "5-10", "Python 5-10 years"},
	}
	for _, tc := range cases {
		if got := BuildQuery(tc.base, tc.types, tc.level); got != tc.want {
			t.Errorf("BuildQuery(%q, %q, %q) = %q, want %q", tc.base, tc.types, tc.level, got, tc.want)
		}
	}
}
