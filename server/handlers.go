package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/etnz/holdings/renderer"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// HealthResponse is the body of /health.
type HealthResponse struct {
	Status    string    `json:"status"`
	Source    string    `json:"source"`
	Stale     bool      `json:"stale,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	st := s.poller.State()
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Source:    st.Status.String(),
		Stale:     st.Stale,
		UpdatedAt: st.UpdatedAt,
	})
}

// handleDashboard serves the dashboard of ?category= (All by default) as JSON.
// The status field tells loading and failure apart, the response is 200 in
// every case.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d := s.dashboard(s.poller.State(), r.URL.Query().Get("category"))
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	d := s.dashboard(s.poller.State(), "")
	writeJSON(w, http.StatusOK, d.Categories)
}

// handlePage serves the HTML dashboard, ?theme=dark|light&category=.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	theme := r.URL.Query().Get("theme")
	if theme == "" {
		theme = s.theme
	}
	if !slices.Contains(renderer.Themes, theme) {
		http.Error(w, "unknown theme "+theme, http.StatusBadRequest)
		return
	}

	d := s.dashboard(s.poller.State(), r.URL.Query().Get("category"))
	var b bytes.Buffer
	if err := renderer.WriteHTML(&b, d, s.opts, theme); err != nil {
		s.log.Error().Err(err).Msg("Failed to render dashboard page")
		http.Error(w, "rendering failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(b.Bytes()); err != nil {
		s.log.Error().Err(err).Msg("Failed to write dashboard page")
	}
}

// handleChart serves the category weights of ?category= as an SVG pie chart.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	d := s.dashboard(s.poller.State(), r.URL.Query().Get("category"))
	var b bytes.Buffer
	err := renderer.WriteChart(&b, d, s.opts, "svg")
	switch {
	case errors.Is(err, renderer.ErrNoChartData):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		s.log.Error().Err(err).Msg("Failed to render chart")
		writeError(w, http.StatusInternalServerError, "rendering failed")
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(b.Bytes())
}

// handleWS streams the dashboard of ?category= on every refresh.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	s.hub.ServeWS(w, r, r.URL.Query().Get("category"), s.poller.State())
}
