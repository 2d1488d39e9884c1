package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/cmdshelf/cmdshelf/pkg/store"
)

// HealthResponse is the response for /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// VersionResponse is the response for /version.
type VersionResponse struct {
	Version string `json:"version"`
	Service string `json:"service"`
}

// StatusResponse is the response for /status.
type StatusResponse struct {
	StorePath     string `json:"store_path"`
	WatchedPath   string `json:"watched_path"`
	WatchMode     string `json:"watch_mode"`
	StoreValid    bool   `json:"store_valid"`
	CategoryCount int    `json:"category_count"`
	EntryCount    int    `json:"entry_count"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// CategoryResponse is one category in the /categories listing.
type CategoryResponse struct {
	Name    string `json:"name"`
	Entries int    `json:"entries"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{
		Version: s.version,
		Service: "cmdshelf",
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		StorePath:     s.cfg.Store.Path,
		WatchedPath:   s.cfg.Store.PendingPath,
		WatchMode:     s.cfg.Watch.Mode,
		UptimeSeconds: int64(time.Since(s.startedAt).Seconds()),
	}

	valid, _ := store.Validate(s.cfg.Store.Path)
	resp.StoreValid = valid
	if valid {
		if st, err := store.Load(s.cfg.Store.Path); err == nil {
			resp.CategoryCount = st.Len()
			resp.EntryCount = st.EntryCount()
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	st, err := store.Load(s.cfg.Store.Path)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	categories := make([]CategoryResponse, 0, st.Len())
	for _, name := range st.Categories() {
		categories = append(categories, CategoryResponse{
			Name:    name,
			Entries: len(st.Entries(name)),
		})
	}

	writeJSON(w, http.StatusOK, categories)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
