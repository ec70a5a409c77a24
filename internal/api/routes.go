// Package api exposes the assistant operations over HTTP for the dashboard.
package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// BuildInfo is reported by GET /version.
type BuildInfo struct {
	Version   string
	BuildTime string
}

func SetupRoutes(h *Handler, info BuildInfo, logger *zap.Logger) *mux.Router {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := mux.NewRouter()
	r.Use(LoggingMiddleware(logger), CORSMiddleware, RecoveryMiddleware(logger))

	sys := &SystemHandler{}
	r.HandleFunc("/health", sys.HealthHandler).Methods(http.MethodGet)
	r.HandleFunc("/version", sys.VersionHandler(info.Version, info.BuildTime)).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/resume", h.UploadResume).Methods(http.MethodPost)
	v1.HandleFunc("/keywords", h.Keywords).Methods(http.MethodPost)
	v1.HandleFunc("/match", h.Match).Methods(http.MethodPost)
	v1.HandleFunc("/critique", h.Critique).Methods(http.MethodPost)
	v1.HandleFunc("/interview", h.Interview).Methods(http.MethodPost)

	v1.HandleFunc("/jobs/search", h.SearchJobs).Methods(http.MethodPost)
	v1.HandleFunc("/saved-jobs", h.ListSavedJobs).Methods(http.MethodGet)
	v1.HandleFunc("/saved-jobs", h.SaveJob).Methods(http.MethodPost)
	v1.HandleFunc("/saved-jobs", h.RemoveSavedJob).Methods(http.MethodDelete)

	v1.HandleFunc("/interviews", h.ListInterviews).Methods(http.MethodGet)
	v1.HandleFunc("/interviews", h.SaveInterview).Methods(http.MethodPost)
	v1.HandleFunc("/interviews/{name}", h.GetInterview).Methods(http.MethodGet)

	return r
}
