// Package handler exposes the roster generation and export endpoints
// described in §6.
package handler

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rosterforge/roster-engine/internal/roster/orchestrator"
	"github.com/rosterforge/roster-engine/internal/roster/reader"
	"github.com/rosterforge/roster-engine/pkg/errors"
	"github.com/rosterforge/roster-engine/pkg/httputil"
	"github.com/rosterforge/roster-engine/pkg/logger"
)

// Handler serves the roster generation and export endpoints. horizonDays
// is the fixed roster length N (§4.1), wired in once at startup.
type Handler struct {
	orchestrator *orchestrator.Orchestrator
	reader       *reader.Reader
	horizonDays  int
	logger       *logger.Logger
}

// New creates a roster handler.
func New(orch *orchestrator.Orchestrator, rdr *reader.Reader, horizonDays int, log *logger.Logger) *Handler {
	return &Handler{orchestrator: orch, reader: rdr, horizonDays: horizonDays, logger: log}
}

// Routes mounts the roster endpoints onto r.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/rosters/generate", h.Generate)
	r.Get("/rosters/generate/{task}", h.GenerateStatus)
	r.Get("/rosters/export", h.Export)
}

// sessionIDFor resolves the submitting session's identity. Login/session
// handling is an external collaborator (§1); this reads the session id
// the host's auth layer is expected to set, falling back to the request
// id so the concurrency cap still degrades to per-request isolation
// when no session layer fronts this service.
func sessionIDFor(r *http.Request) string {
	if sid := r.Header.Get("X-Session-ID"); sid != "" {
		return sid
	}
	return httputil.GetRequestID(r.Context())
}

type generateRequest struct {
	Date string `json:"date"`
}

type generateResponse struct {
	Task string `json:"task"`
}

// Generate handles POST /rosters/generate: enqueues a generation job for
// the submitting session and returns its id, per §6.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, errors.BadRequest("invalid request body"))
		return
	}

	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		date, err = time.Parse("2006-01-02", req.Date)
	}
	if err != nil {
		httputil.Error(w, errors.BadRequest("date must be an ISO-8601 datetime"))
		return
	}

	jobID, err := h.orchestrator.Submit(r.Context(), sessionIDFor(r), date, h.horizonDays)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(generateResponse{Task: jobID})
}

type statusResponse struct {
	Status        string `json:"status"`
	StatusMessage string `json:"status_message"`
}

// GenerateStatus handles GET /rosters/generate/{task}.
func (h *Handler) GenerateStatus(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "task")
	job, err := h.orchestrator.Status(taskID)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	resp := statusResponse{
		Status:        string(job.ExternalStatus()),
		StatusMessage: job.StatusMessage(),
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// Export handles GET /rosters/export?start_date=..., producing the CSV
// rendering of §6.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	startDateParam := r.URL.Query().Get("start_date")
	start, err := time.Parse("2006-01-02", startDateParam)
	if err != nil {
		httputil.Error(w, errors.BadRequest("start_date must be formatted YYYY-MM-DD"))
		return
	}

	dates, rows, err := h.reader.Read(r.Context(), start, h.horizonDays)
	if err != nil {
		httputil.Error(w, errors.Internal("failed to read roster"))
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="roster.csv"`)
	writer := csv.NewWriter(w)

	header := []string{"Staff Member", "Roles", "Shifts"}
	for _, d := range dates {
		header = append(header, d.Format("Mon 02-Jan-2006"))
	}
	if err := writer.Write(header); err != nil {
		h.logger.Error().Err(err).Msg("failed to write csv header")
		return
	}

	for _, row := range rows {
		record := append([]string{row.DisplayName, row.Roles, fmt.Sprintf("%d", row.ShiftsPerRoster)}, row.Labels...)
		if err := writer.Write(record); err != nil {
			h.logger.Error().Err(err).Msg("failed to write csv row")
			return
		}
	}
	writer.Flush()
}
