package api

import (
	"context"
	"net/http"
	"strconv"

	service "github.com/askoki/orijent-soccer-analytics/internal/app"
	"github.com/askoki/orijent-soccer-analytics/internal/adapters/export"
	"github.com/askoki/orijent-soccer-analytics/internal/domain/model"
	"github.com/askoki/orijent-soccer-analytics/internal/domain/names"
)

// ReportDependencies defines the report operations.
type ReportDependencies interface {
	SessionReport(ctx context.Context, date model.Date) (service.SessionReport, error)
	AthleteTrend(ctx context.Context, athlete string, start, end model.Date) (service.AthleteTrend, error)
	TeamTrend(ctx context.Context, start, end model.Date) (service.TeamTrend, error)
	RelativeReport(ctx context.Context, athlete string, start, end model.Date) (service.RelativeReport, error)
	RPESessionReport(ctx context.Context, date model.Date) (service.RPESessionReport, error)
	RPETeamReport(ctx context.Context, start, end model.Date) (service.RPETeamReport, error)
	TeamExport(ctx context.Context, start, end model.Date) ([]byte, error)
}

// ReportsHandler handles report requests.
type ReportsHandler struct {
	deps ReportDependencies
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(deps ReportDependencies) *ReportsHandler {
	return &ReportsHandler{deps: deps}
}

// HandleSession handles GET /reports/session?date=YYYY-MM-DD requests.
func (h *ReportsHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_session_report"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	date, err := dateParam(r, "date")
	if err != nil {
		writeServiceError(r.Context(), w, WrapKind(op, ErrBadRequest, err))
		return
	}
	rep, err := h.deps.SessionReport(r.Context(), date)
	respond(r.Context(), w, op, rep, err)
}

// HandleAthlete handles GET /reports/athlete?athlete=NAME requests.
func (h *ReportsHandler) HandleAthlete(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_athlete_trend"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	athlete := names.Normalize(r.URL.Query().Get("athlete"))
	if athlete == "" {
		writeServiceError(r.Context(), w, NewKind(op, ErrBadRequest))
		return
	}
	start, end, err := windowParams(r)
	if err != nil {
		writeServiceError(r.Context(), w, WrapKind(op, ErrBadRequest, err))
		return
	}
	rep, err := h.deps.AthleteTrend(r.Context(), athlete, start, end)
	respond(r.Context(), w, op, rep, err)
}

// HandleTeam handles GET /reports/team requests.
func (h *ReportsHandler) HandleTeam(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_team_trend"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	start, end, err := windowParams(r)
	if err != nil {
		writeServiceError(r.Context(), w, WrapKind(op, ErrBadRequest, err))
		return
	}
	rep, err := h.deps.TeamTrend(r.Context(), start, end)
	respond(r.Context(), w, op, rep, err)
}

// HandleRelative handles GET /reports/relative requests. The athlete
// parameter is optional.
func (h *ReportsHandler) HandleRelative(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_relative_report"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	start, end, err := windowParams(r)
	if err != nil {
		writeServiceError(r.Context(), w, WrapKind(op, ErrBadRequest, err))
		return
	}
	athlete := names.Normalize(r.URL.Query().Get("athlete"))
	rep, err := h.deps.RelativeReport(r.Context(), athlete, start, end)
	respond(r.Context(), w, op, rep, err)
}

// HandleRPESession handles GET /reports/rpe/session requests.
func (h *ReportsHandler) HandleRPESession(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_rpe_session_report"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	date, err := dateParam(r, "date")
	if err != nil {
		writeServiceError(r.Context(), w, WrapKind(op, ErrBadRequest, err))
		return
	}
	rep, err := h.deps.RPESessionReport(r.Context(), date)
	respond(r.Context(), w, op, rep, err)
}

// HandleRPETeam handles GET /reports/rpe/team requests.
func (h *ReportsHandler) HandleRPETeam(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_rpe_team_report"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	start, end, err := windowParams(r)
	if err != nil {
		writeServiceError(r.Context(), w, WrapKind(op, ErrBadRequest, err))
		return
	}
	rep, err := h.deps.RPETeamReport(r.Context(), start, end)
	respond(r.Context(), w, op, rep, err)
}

// HandleTeamExport handles GET /export/team.parquet requests.
func (h *ReportsHandler) HandleTeamExport(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_team_export"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	start, end, err := windowParams(r)
	if err != nil {
		writeServiceError(r.Context(), w, WrapKind(op, ErrBadRequest, err))
		return
	}
	data, err := h.deps.TeamExport(r.Context(), start, end)
	if err != nil {
		writeServiceError(r.Context(), w, Wrap(op, err))
		return
	}
	w.Header().Set("Content-Type", export.ParquetContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="team.parquet"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func respond(ctx context.Context, w http.ResponseWriter, op string, v any, err error) {
	if err != nil {
		writeServiceError(ctx, w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, v)
}
