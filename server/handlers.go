package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/poiesic/staffer/core"
	"github.com/poiesic/staffer/roster"
)

type chatRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Staffing query API. POST /chat/ with {\"query\": \"...\"} or GET /employees/search.",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	state := "ok"
	if !s.engine.Ready() {
		status = http.StatusServiceUnavailable
		state = "initializing"
	}
	writeJSON(w, status, map[string]any{
		"status":   state,
		"profiles": s.engine.Size(),
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := roster.Filter{
		Project:      q.Get("project"),
		Availability: q.Get("availability"),
	}

	if v := q.Get("min_experience"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "min_experience must be a non-negative integer"})
			return
		}
		filter.MinExperience = &n
	}

	profiles, err := s.engine.Search(roster.SplitSkills(q.Get("skill")), filter)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profiles)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	resp, err := s.engine.Ask(r.Context(), req.Query, req.TopK)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	n, err := s.engine.Reload(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("roster reloaded", "profiles", n)
	writeJSON(w, http.StatusOK, map[string]int{"profiles": n})
}

// writeError maps engine errors to status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, core.ErrUninitialized):
		status = http.StatusServiceUnavailable
	case errors.Is(err, core.ErrNotFound), errors.Is(err, core.ErrMalformed):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
