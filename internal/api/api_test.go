package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spigell/job-assistant/internal/api"
	"github.com/spigell/job-assistant/internal/interviews"
	"github.com/spigell/job-assistant/internal/jobs"
	"github.com/spigell/job-assistant/internal/jobsearch"
	"go.uber.org/zap/zaptest"
)

const resumeText = `Jane Doe
jane@example.com

Skills
Python, Go, Docker, Kubernetes

Experience
Software Engineer at Acme 2019-2023
`

type stubClient struct {
	postings map[string][]*jobs.Posting
	failing  map[string]error
}

func (s *stubClient) Search(_ context.Context, params jobsearch.Params) ([]*jobs.Posting, error) {
	if err := s.failing[params.Platform]; err != nil {
		return nil, err
	}
	return s.postings[params.Platform], nil
}

type fixture struct {
	router http.Handler
	saved  jobs.Store
	dir    string
}

func newFixture(t *testing.T, client jobsearch.Client) *fixture {
	t.Helper()

	logger := zaptest.NewLogger(t)
	dir := t.TempDir()
	saved := jobs.NewFileStore(filepath.Join(dir, "saved_jobs.json"))

	h := api.NewHandler(api.Options{
		Searcher:   jobsearch.NewSearcher(client, nil, 0, logger),
		Saved:      saved,
		Interviews: interviews.NewStore(filepath.Join(dir, "interviews")),
		Logger:     logger,
	})
	return &fixture{
		router: api.SetupRoutes(h, api.BuildInfo{Version: "1.2.3", BuildTime: "now"}, logger),
		saved:  saved,
		dir:    dir,
	}
}

func (f *fixture) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func uploadRequest(t *testing.T, name, content string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", name)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/resume", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestSystemRoutes(t *testing.T) {
	f := newFixture(t, &stubClient{})

	rr := f.do(t, http.MethodGet, "/health", nil)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected health response %d %s", rr.Code, rr.Body.String())
	}

	rr = f.do(t, http.MethodGet, "/version", nil)
	var version map[string]string
	decode(t, rr, &version)
	if version["version"] != "1.2.3" || version["buildTime"] != "now" {
		t.Fatalf("unexpected version %v", version)
	}

	if rr.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("expected CORS headers, got %v", rr.Header())
	}
}

func TestUploadResume(t *testing.T) {
	f := newFixture(t, &stubClient{})

	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, uploadRequest(t, "cv.txt", resumeText))
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Name    string `json:"name"`
		Profile struct {
			ContactInfo struct {
				Email string `json:"email"`
			} `json:"contact_info"`
			Skills []string `json:"skills"`
		} `json:"profile"`
	}
	decode(t, rr, &resp)
	if resp.Name != "cv.txt" {
		t.Fatalf("unexpected name %q", resp.Name)
	}
	if resp.Profile.ContactInfo.Email != "jane@example.com" {
		t.Fatalf("unexpected contact %+v", resp.Profile.ContactInfo)
	}
	if len(resp.Profile.Skills) == 0 {
		t.Fatalf("expected skills to be extracted")
	}
}

func TestUploadResumeRejectsInvalidInput(t *testing.T) {
	f := newFixture(t, &stubClient{})

	cases := []struct {
		name, file, content string
	}{
		{"unsupported type", "cv.odt", "Skills: Go"},
		{"empty document", "cv.txt", ""},
		{"broken pdf", "cv.pdf", "not a pdf"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			f.router.ServeHTTP(rr, uploadRequest(t, tc.file, tc.content))
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
			}
		})
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/resume", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non multipart body, got %d", rr.Code)
	}
}

var profile = map[string]any{
	"skills":     []string{"Python", "Go", "Docker"},
	"experience": []string{"Software Engineer at Acme 2019-2023"},
}

func TestKeywordsAndMatch(t *testing.T) {
	f := newFixture(t, &stubClient{})

	rr := f.do(t, http.MethodPost, "/v1/keywords", map[string]any{"profile": profile})
	if rr.Code != http.StatusOK {
		t.Fatalf("keywords: unexpected status %d: %s", rr.Code, rr.Body.String())
	}
	var kw struct {
		Keywords []string `json:"keywords"`
		Query    string   `json:"query"`
	}
	decode(t, rr, &kw)
	if len(kw.Keywords) == 0 || kw.Query == "" {
		t.Fatalf("unexpected keywords %+v", kw)
	}

	rr = f.do(t, http.MethodPost, "/v1/match", map[string]any{
		"profile": profile,
		"job":     map[string]string{"title": "Go Dev", "company": "Acme", "description": "We need Go and Docker experience"},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("match: unexpected status %d: %s", rr.Code, rr.Body.String())
	}
	var report struct {
		MatchScore int      `json:"match_score"`
		KeyMatches []string `json:"key_matches"`
	}
	decode(t, rr, &report)
	if report.MatchScore == 0 || len(report.KeyMatches) == 0 {
		t.Fatalf("unexpected report %+v", report)
	}
}

func TestBadRequests(t *testing.T) {
	f := newFixture(t, &stubClient{})

	cases := []struct {
		name   string
		method string
		target string
		body   any
	}{
		{"keywords without profile", http.MethodPost, "/v1/keywords", map[string]any{}},
		{"match without description", http.MethodPost, "/v1/match", map[string]any{"profile": profile}},
		{"critique without profile", http.MethodPost, "/v1/critique", map[string]any{}},
		{"unknown interview type", http.MethodPost, "/v1/interview", map[string]any{"interview_type": "Oral"}},
		{"search without query", http.MethodPost, "/v1/jobs/search", map[string]any{}},
		{"search on unknown platform", http.MethodPost, "/v1/jobs/search", map[string]any{"query": "go", "platforms": []string{"Craigslist"}}},
		{"search with unknown sort", http.MethodPost, "/v1/jobs/search", map[string]any{"query": "go", "sort": "salary"}},
		{"search with invalid filter", http.MethodPost, "/v1/jobs/search", map[string]any{"query": "go", "profile": profile, "filters": map[string]any{"min_match_score": 120}}},
		{"save incomplete posting", http.MethodPost, "/v1/saved-jobs", map[string]any{"title": "Go Dev"}},
		{"remove without company", http.MethodDelete, "/v1/saved-jobs?title=Go", nil},
		{"save empty interview", http.MethodPost, "/v1/interviews", map[string]any{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := f.do(t, tc.method, tc.target, tc.body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
			}
		})
	}
}

func TestCritiqueFallsBackToRules(t *testing.T) {
	f := newFixture(t, &stubClient{})

	rr := f.do(t, http.MethodPost, "/v1/critique", map[string]any{"profile": profile})
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rr.Code, rr.Body.String())
	}
	var critique struct {
		Text   string `json:"critique"`
		Source string `json:"source"`
	}
	decode(t, rr, &critique)
	if critique.Source != "rules" || critique.Text == "" {
		t.Fatalf("unexpected critique %+v", critique)
	}
}

func TestInterviewSaveAndLoad(t *testing.T) {
	f := newFixture(t, &stubClient{})

	rr := f.do(t, http.MethodPost, "/v1/interview", map[string]any{
		"profile":        profile,
		"job":            map[string]string{"title": "Go Dev", "company": "Acme"},
		"interview_type": "coding",
		"count":          3,
		"save":           true,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Request struct {
			Type string `json:"interview_type"`
		} `json:"request"`
		Questions []json.RawMessage `json:"questions"`
		SavedAs   string            `json:"saved_as"`
	}
	decode(t, rr, &resp)
	if resp.Request.Type != "Coding Interview" || len(resp.Questions) != 3 {
		t.Fatalf("unexpected interview %+v", resp)
	}
	if resp.SavedAs == "" {
		t.Fatalf("expected interview to be saved")
	}

	rr = f.do(t, http.MethodGet, "/v1/interviews", nil)
	var list struct {
		Items []struct {
			Name      string `json:"name"`
			Company   string `json:"company"`
			Questions int    `json:"questions"`
		} `json:"items"`
	}
	decode(t, rr, &list)
	if len(list.Items) != 1 || list.Items[0].Company != "Acme" || list.Items[0].Questions != 3 {
		t.Fatalf("unexpected list %+v", list)
	}

	rr = f.do(t, http.MethodGet, "/v1/interviews/"+url.PathEscape(list.Items[0].Name), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("load: unexpected status %d: %s", rr.Code, rr.Body.String())
	}

	rr = f.do(t, http.MethodGet, "/v1/interviews/interview_missing.json", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestSavedJobs(t *testing.T) {
	f := newFixture(t, &stubClient{})

	posting := map[string]any{"title": "Go Dev", "company": "Acme", "platform": "LinkedIn"}
	rr := f.do(t, http.MethodPost, "/v1/saved-jobs", posting)
	if rr.Code != http.StatusOK {
		t.Fatalf("save: unexpected status %d: %s", rr.Code, rr.Body.String())
	}
	var saved map[string]string
	decode(t, rr, &saved)
	if saved["id"] == "" {
		t.Fatalf("expected saved id")
	}

	rr = f.do(t, http.MethodGet, "/v1/saved-jobs", nil)
	var list struct {
		Items []struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"items"`
	}
	decode(t, rr, &list)
	if len(list.Items) != 1 || list.Items[0].ID != saved["id"] || list.Items[0].Title != "Go Dev" {
		t.Fatalf("unexpected list %+v", list)
	}

	for _, want := range []bool{true, false} {
		rr = f.do(t, http.MethodDelete, "/v1/saved-jobs?title=Go+Dev&company=Acme", nil)
		var removed map[string]bool
		decode(t, rr, &removed)
		if removed["removed"] != want {
			t.Fatalf("expected removed=%v, got %v", want, removed)
		}
	}
}

func TestSearchJobs(t *testing.T) {
	client := &stubClient{
		postings: map[string][]*jobs.Posting{
			jobs.PlatformLinkedIn: {
				{Title: "Go Dev", Company: "Acme", Platform: jobs.PlatformLinkedIn, Description: "Go and Docker", DatePosted: "3 days ago"},
				{Title: "Java Dev", Company: "Initech", Platform: jobs.PlatformLinkedIn, Description: "Java and Spring", DatePosted: "1 day ago"},
			},
			jobs.PlatformIndeed: {
				{Title: "SRE", Company: "Globex", Platform: jobs.PlatformIndeed, Description: "Unpaid internship"},
			},
		},
		failing: map[string]error{jobs.PlatformGlassdoor: errors.New("quota exceeded")},
	}
	f := newFixture(t, client)

	if _, err := f.saved.Add(context.Background(), &jobs.Posting{Title: "Java Dev", Company: "Initech"}); err != nil {
		t.Fatalf("seed saved job: %v", err)
	}

	rr := f.do(t, http.MethodPost, "/v1/jobs/search", map[string]any{
		"query":     "Go developer",
		"platforms": []string{jobs.PlatformLinkedIn, jobs.PlatformIndeed, jobs.PlatformGlassdoor},
		"sort":      jobs.SortCompany,
		"profile":   profile,
		"filters": map[string]any{
			"red_flags":  []string{"unpaid"},
			"hide_saved": true,
		},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Items []struct {
			Title string `json:"title"`
			Match *struct {
				MatchScore int `json:"match_score"`
			} `json:"match"`
		} `json:"items"`
		Notices []string `json:"notices"`
		Filters []struct {
			Name    string `json:"name"`
			Enabled bool   `json:"enabled"`
		} `json:"filters"`
	}
	decode(t, rr, &resp)

	if len(resp.Items) != 1 || resp.Items[0].Title != "Go Dev" {
		t.Fatalf("unexpected items %+v", resp.Items)
	}
	if resp.Items[0].Match == nil || resp.Items[0].Match.MatchScore == 0 {
		t.Fatalf("expected match report for remaining posting")
	}
	if len(resp.Notices) != 1 || !strings.Contains(resp.Notices[0], "Error searching jobs on Glassdoor: quota exceeded") {
		t.Fatalf("unexpected notices %v", resp.Notices)
	}
	if len(resp.Filters) == 0 {
		t.Fatalf("expected filter statuses")
	}
}

func TestSearchJobsWithoutResults(t *testing.T) {
	f := newFixture(t, &stubClient{})

	rr := f.do(t, http.MethodPost, "/v1/jobs/search", map[string]any{"query": "Go developer"})
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Items   []json.RawMessage `json:"items"`
		Notices []string          `json:"notices"`
	}
	decode(t, rr, &resp)
	if len(resp.Items) != 0 || len(resp.Notices) != 1 || resp.Notices[0] != "No jobs found for the selected platforms" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestUnconfiguredStorage(t *testing.T) {
	h := api.NewHandler(api.Options{})
	router := api.SetupRoutes(h, api.BuildInfo{}, nil)

	for _, target := range []string{"/v1/saved-jobs", "/v1/interviews"} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
		if rr.Code != http.StatusServiceUnavailable {
			t.Fatalf("%s: expected 503, got %d", target, rr.Code)
		}
	}
}
