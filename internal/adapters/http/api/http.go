// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/askoki/orijent-soccer-analytics/internal/app"
	"github.com/askoki/orijent-soccer-analytics/internal/domain/model"
	"github.com/askoki/orijent-soccer-analytics/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	CatalogDependencies
	ReportDependencies
}

// Server wires HTTP routes for the reporting API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	catalogHandler *CatalogHandler
	reportsHandler *ReportsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		catalogHandler: NewCatalogHandler(deps),
		reportsHandler: NewReportsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	route := func(path, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(path, RequestIDMiddleware(MetricsMiddleware(h, endpoint)))
	}
	route("/healthz", "healthz", s.healthHandler.HandleHealth)
	route("/stats", "stats", s.statsHandler.HandleStats)
	route("/catalog", "catalog", s.catalogHandler.HandleCatalog)
	route("/refresh", "refresh", s.catalogHandler.HandleRefresh)
	route("/reports/session", "reports_session", s.reportsHandler.HandleSession)
	route("/reports/athlete", "reports_athlete", s.reportsHandler.HandleAthlete)
	route("/reports/team", "reports_team", s.reportsHandler.HandleTeam)
	route("/reports/relative", "reports_relative", s.reportsHandler.HandleRelative)
	route("/reports/rpe/session", "reports_rpe_session", s.reportsHandler.HandleRPESession)
	route("/reports/rpe/team", "reports_rpe_team", s.reportsHandler.HandleRPETeam)
	route("/export/team.parquet", "export_team", s.reportsHandler.HandleTeamExport)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError maps service and API error kinds to a status and code.
func writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrBadRequest), errors.Is(err, service.ErrInvalidRange):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, service.ErrUnknownAthlete):
		writeError(w, http.StatusNotFound, "unknown_athlete", err)
	case errors.Is(err, service.ErrNoData), errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "no_data", err)
	case errors.Is(err, ErrUnavailable), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err)
	default:
		logger.Get().Error(ctx, "request failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

// dateParam reads an optional YYYY-MM-DD query parameter. A missing value
// is the zero date.
func dateParam(r *http.Request, name string) (model.Date, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return model.Date{}, nil
	}
	d, err := model.ParseDate(v)
	if err != nil {
		return model.Date{}, err
	}
	return d, nil
}

// windowParams reads the optional start and end parameters.
func windowParams(r *http.Request) (start, end model.Date, err error) {
	if start, err = dateParam(r, "start"); err != nil {
		return
	}
	end, err = dateParam(r, "end")
	return
}
