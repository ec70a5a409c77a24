package api

import (
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/gorilla/mux"
	"github.com/spigell/job-assistant/internal/filtering"
	"github.com/spigell/job-assistant/internal/interviews"
	"github.com/spigell/job-assistant/internal/jobs"
	"github.com/spigell/job-assistant/internal/jobsearch"
	"github.com/spigell/job-assistant/internal/matching"
	"github.com/spigell/job-assistant/internal/narrative"
	"github.com/spigell/job-assistant/internal/resume"
	"go.uber.org/zap"
)

type searchRequest struct {
	jobsearch.Request
	JobTypes        []string         `json:"job_types"`
	ExperienceLevel string           `json:"experience_level"`
	Sort            string           `json:"sort"`
	Profile         *resume.Profile  `json:"profile"`
	Filters         filtering.Config `json:"filters"`
}

type searchItem struct {
	*jobs.Posting
	Match *matching.Report `json:"match,omitempty"`
}

type searchResponse struct {
	Items   []searchItem       `json:"items"`
	Notices []string           `json:"notices,omitempty"`
	Filters []filtering.Status `json:"filters"`
}

// SearchJobs runs the search over the selected platforms and passes the
// postings through the filtering pipeline. Platform failures are reported as
// notices, never as errors.
func (h *Handler) SearchJobs(w http.ResponseWriter, r *http.Request) {
	if h.searcher == nil {
		h.writeError(w, errUnavailable("job search"))
		return
	}

	var req searchRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		h.writeError(w, fmt.Errorf("%w: query is required", errBadRequest))
		return
	}
	for _, platform := range req.Platforms {
		if !slices.Contains(jobs.Platforms, platform) {
			h.writeError(w, fmt.Errorf("%w: unknown platform %q", errBadRequest, platform))
			return
		}
	}
	if req.Sort != "" && !slices.Contains(jobs.SortOrders, req.Sort) {
		h.writeError(w, fmt.Errorf("%w: unknown sort order %q", errBadRequest, req.Sort))
		return
	}
	if req.ExperienceLevel == "" {
		req.ExperienceLevel = jobsearch.DefaultExperienceLevel
	}
	req.Query = jobsearch.BuildQuery(req.Query, req.JobTypes, req.ExperienceLevel)

	steps := filtering.Default()
	if req.Profile == nil {
		filtering.DisableByName(steps, "match_score", "no profile supplied")
	}
	if req.Filters.HideSaved && h.saved == nil {
		h.writeError(w, errUnavailable("saved jobs storage"))
		return
	}
	if err := filtering.Validate(&req.Filters, steps); err != nil {
		h.writeError(w, err)
		return
	}

	result := h.searcher.Search(r.Context(), req.Request)

	left, reports, err := filtering.Run(r.Context(), &req.Filters, filtering.Deps{
		Logger:  h.logger,
		Profile: req.Profile,
		Scorer:  h.scorer,
		Saved:   h.saved,
	}, steps, result.Postings)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := left.Sort(req.Sort); err != nil {
		h.writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	resp := searchResponse{
		Items:   make([]searchItem, 0, left.Len()),
		Notices: result.Notices,
		Filters: filtering.Describe(steps),
	}
	for _, p := range left.Items {
		item := searchItem{Posting: p}
		if report, ok := reports[p.Key()]; ok {
			limited := report.Limit(matching.DisplayLimit)
			item.Match = &limited
		}
		resp.Items = append(resp.Items, item)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) ListSavedJobs(w http.ResponseWriter, r *http.Request) {
	if h.saved == nil {
		h.writeError(w, errUnavailable("saved jobs storage"))
		return
	}

	items, err := h.saved.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) SaveJob(w http.ResponseWriter, r *http.Request) {
	if h.saved == nil {
		h.writeError(w, errUnavailable("saved jobs storage"))
		return
	}

	var posting jobs.Posting
	if err := decodeBody(r, &posting); err != nil {
		h.writeError(w, err)
		return
	}

	id, err := h.saved.Add(r.Context(), &posting)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.logger.Info("job saved", zap.String("id", id), zap.Stringer("job", posting.Key()))
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

// RemoveSavedJob deletes every saved posting matching the title and company
// query parameters.
func (h *Handler) RemoveSavedJob(w http.ResponseWriter, r *http.Request) {
	if h.saved == nil {
		h.writeError(w, errUnavailable("saved jobs storage"))
		return
	}

	key := jobs.NewKey(r.URL.Query().Get("title"), r.URL.Query().Get("company"))
	if key.Title == "" || key.Company == "" {
		h.writeError(w, fmt.Errorf("%w: title and company are required", errBadRequest))
		return
	}

	removed, err := h.saved.Remove(r.Context(), key.Title, key.Company)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"removed": removed})
}

func (h *Handler) SaveInterview(w http.ResponseWriter, r *http.Request) {
	if h.interviews == nil {
		h.writeError(w, errUnavailable("interview storage"))
		return
	}

	var interview narrative.Interview
	if err := decodeBody(r, &interview); err != nil {
		h.writeError(w, err)
		return
	}
	if len(interview.Questions) == 0 {
		h.writeError(w, fmt.Errorf("%w: questions are required", errBadRequest))
		return
	}

	path, err := h.interviews.Save(interviews.NewRecord(interview))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"saved_as": path})
}

func (h *Handler) ListInterviews(w http.ResponseWriter, r *http.Request) {
	if h.interviews == nil {
		h.writeError(w, errUnavailable("interview storage"))
		return
	}

	items, err := h.interviews.List()
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) GetInterview(w http.ResponseWriter, r *http.Request) {
	if h.interviews == nil {
		h.writeError(w, errUnavailable("interview storage"))
		return
	}

	record, err := h.interviews.Load(mux.Vars(r)["name"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}
