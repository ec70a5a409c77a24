package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spigell/job-assistant/internal/docs"
	"github.com/spigell/job-assistant/internal/filtering"
	"github.com/spigell/job-assistant/internal/interviews"
	"github.com/spigell/job-assistant/internal/jobs"
	"github.com/spigell/job-assistant/internal/jobsearch"
	"github.com/spigell/job-assistant/internal/keywords"
	"github.com/spigell/job-assistant/internal/matching"
	"github.com/spigell/job-assistant/internal/narrative"
	"github.com/spigell/job-assistant/internal/resume"
	"go.uber.org/zap"
)

const maxBodySize = 1 << 20

var errBadRequest = errors.New("bad request")

// Options wires the collaborators of a Handler. Searcher, Saved and
// Interviews may be nil; the routes using them then answer 503.
type Options struct {
	Extractor  *resume.Extractor
	Keywords   *keywords.Builder
	Scorer     *matching.Scorer
	Assistant  *narrative.Assistant
	Searcher   *jobsearch.Searcher
	Saved      jobs.Store
	Interviews *interviews.Store
	Logger     *zap.Logger
}

type Handler struct {
	extractor  *resume.Extractor
	keywords   *keywords.Builder
	scorer     *matching.Scorer
	assistant  *narrative.Assistant
	searcher   *jobsearch.Searcher
	saved      jobs.Store
	interviews *interviews.Store
	logger     *zap.Logger
}

func NewHandler(opts Options) *Handler {
	h := &Handler{
		extractor:  opts.Extractor,
		keywords:   opts.Keywords,
		scorer:     opts.Scorer,
		assistant:  opts.Assistant,
		searcher:   opts.Searcher,
		saved:      opts.Saved,
		interviews: opts.Interviews,
		logger:     opts.Logger,
	}
	if h.logger == nil {
		h.logger = zap.NewNop()
	}
	if h.extractor == nil {
		h.extractor = resume.NewExtractor()
	}
	if h.keywords == nil {
		h.keywords = keywords.NewBuilder(0)
	}
	if h.scorer == nil {
		h.scorer = matching.NewScorer(nil)
	}
	if h.assistant == nil {
		h.assistant = narrative.NewAssistant(nil, h.logger)
	}
	return h
}

type resumeResponse struct {
	Name       string              `json:"name"`
	Profile    *resume.Profile     `json:"profile"`
	Summary    resume.Summary      `json:"summary"`
	Experience map[string][]string `json:"experience"`
}

// UploadResume accepts a multipart "file" field holding a PDF, DOCX or text
// resume.
func (h *Handler) UploadResume(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, docs.MaxSize+maxBodySize)
	if err := r.ParseMultipartForm(docs.MaxSize); err != nil {
		h.writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, fmt.Errorf("%w: missing file field", errBadRequest))
		return
	}
	defer file.Close()

	kind, err := docs.KindOf(header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	text, err := docs.Extract(kind, data)
	if err != nil {
		h.writeError(w, err)
		return
	}

	profile := h.extractor.Extract(text)
	h.logger.Info("resume analysed",
		zap.String("name", header.Filename),
		zap.String("kind", string(kind)),
		zap.Int("skills", len(profile.Skills)),
	)

	writeJSON(w, http.StatusOK, resumeResponse{
		Name:       header.Filename,
		Profile:    profile,
		Summary:    resume.Summarize(profile),
		Experience: resume.OrganizeExperience(profile.Experience),
	})
}

type profileRequest struct {
	Profile *resume.Profile `json:"profile"`
}

type keywordsResponse struct {
	Keywords []string `json:"keywords"`
	Title    string   `json:"title"`
	Query    string   `json:"query"`
}

func (h *Handler) Keywords(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if req.Profile == nil {
		h.writeError(w, fmt.Errorf("%w: profile is required", errBadRequest))
		return
	}

	kw, title := h.keywords.Build(req.Profile)
	writeJSON(w, http.StatusOK, keywordsResponse{
		Keywords: kw,
		Title:    title,
		Query:    keywords.Query(kw),
	})
}

type matchRequest struct {
	Profile     *resume.Profile `json:"profile"`
	Job         *jobs.Posting   `json:"job"`
	Description string          `json:"description"`
}

func (h *Handler) Match(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if req.Profile == nil {
		h.writeError(w, fmt.Errorf("%w: profile is required", errBadRequest))
		return
	}

	description := req.Description
	if description == "" && req.Job != nil {
		description = req.Job.Description
	}
	if strings.TrimSpace(description) == "" {
		h.writeError(w, fmt.Errorf("%w: job description is required", errBadRequest))
		return
	}

	report := h.scorer.ScoreProfile(req.Profile, description)
	writeJSON(w, http.StatusOK, report.Limit(matching.DisplayLimit))
}

type critiqueRequest struct {
	Profile *resume.Profile `json:"profile"`
	Job     *jobs.Posting   `json:"job,omitempty"`
}

func (h *Handler) Critique(w http.ResponseWriter, r *http.Request) {
	var req critiqueRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if req.Profile == nil {
		h.writeError(w, fmt.Errorf("%w: profile is required", errBadRequest))
		return
	}

	writeJSON(w, http.StatusOK, h.assistant.Critique(r.Context(), req.Profile, req.Job))
}

type interviewRequest struct {
	narrative.InterviewRequest
	Profile *resume.Profile `json:"profile"`
	Save    bool            `json:"save"`
}

type interviewResponse struct {
	narrative.Interview
	SavedAs string `json:"saved_as,omitempty"`
}

func (h *Handler) Interview(w http.ResponseWriter, r *http.Request) {
	var req interviewRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if req.Type != "" {
		t, err := narrative.ParseInterviewType(string(req.Type))
		if err != nil {
			h.writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}
		req.Type = t
	}
	if req.Difficulty != "" {
		d, err := narrative.ParseDifficulty(req.Difficulty)
		if err != nil {
			h.writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}
		req.Difficulty = d
	}
	if req.Save && h.interviews == nil {
		h.writeError(w, errUnavailable("interview storage"))
		return
	}

	resp := interviewResponse{Interview: h.assistant.InterviewQuestions(r.Context(), req.Profile, req.InterviewRequest)}
	if req.Save {
		path, err := h.interviews.Save(interviews.NewRecord(resp.Interview))
		if err != nil {
			h.writeError(w, err)
			return
		}
		resp.SavedAs = path
	}
	writeJSON(w, http.StatusOK, resp)
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", errBadRequest, err)
	}
	return nil
}

type unavailableError string

func (e unavailableError) Error() string {
	return fmt.Sprintf("%s is not configured", string(e))
}

func errUnavailable(what string) error {
	return unavailableError(what)
}

func statusFor(err error) int {
	var unavailable unavailableError
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, docs.ErrInvalidInput),
		errors.Is(err, jobs.ErrInvalidPosting),
		errors.Is(err, filtering.ErrInvalidConfig):
		return http.StatusBadRequest
	case errors.Is(err, interviews.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err))
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
