package reporthandlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"

	reportservice "github.com/zrl-league/zrl-manager/app/modules/report/application"
	"github.com/zrl-league/zrl-manager/app/shared/httpx"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Mount registers the report endpoints on the authenticated /api router.
func Mount(r chi.Router, h *ReportHandlers) {
	r.Route("/reports", func(r chi.Router) {
		r.Get("/lineups", h.HandleLineupReport)
		r.Get("/lineups.xlsx", h.HandleLineupWorkbook)
		r.Get("/teams", h.HandleTeamsReport)
		r.Get("/categories.png", h.HandleCategoryChart)
	})
}

// ReportHandlers serves the read-only reports. Every report is readable by
// admins and captains.
type ReportHandlers struct {
	service reportservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

func NewReportHandlers(service reportservice.Service, logger *slog.Logger, tracer trace.Tracer) *ReportHandlers {
	return &ReportHandlers{service: service, logger: logger, tracer: tracer}
}

func (h *ReportHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	httpx.WriteError(w, r, h.logger, err)
}

func (h *ReportHandlers) HandleLineupReport(w http.ResponseWriter, r *http.Request) {
	if !httpx.Require(w, r, h.logger, httpx.PermRead, 0) {
		return
	}
	q, err := lineupQuery(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	report, err := h.service.LineupReport(r.Context(), q)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, report)
}

func (h *ReportHandlers) HandleLineupWorkbook(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ReportHandlers.HandleLineupWorkbook")
	defer span.End()
	r = r.WithContext(ctx)

	if !httpx.Require(w, r, h.logger, httpx.PermRead, 0) {
		return
	}
	q, err := lineupQuery(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	data, err := h.service.LineupWorkbook(ctx, q)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	filename := fmt.Sprintf("lineups-%s.xlsx", q.Date.Format(time.DateOnly))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	writeBytes(w, xlsxContentType, data)
}

func (h *ReportHandlers) HandleTeamsReport(w http.ResponseWriter, r *http.Request) {
	if !httpx.Require(w, r, h.logger, httpx.PermRead, 0) {
		return
	}
	leagueID, err := optionalInt64(r, "league")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	query := r.URL.Query()
	teams, err := h.service.TeamsReport(r.Context(), reportservice.TeamQuery{
		LeagueID: leagueID,
		Category: query.Get("category"),
		Division: query.Get("division"),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, teams)
}

func (h *ReportHandlers) HandleCategoryChart(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ReportHandlers.HandleCategoryChart")
	defer span.End()
	r = r.WithContext(ctx)

	if !httpx.Require(w, r, h.logger, httpx.PermRead, 0) {
		return
	}
	leagueID, err := optionalInt64(r, "league")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	teamID, err := optionalInt64(r, "team")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	data, err := h.service.CategoryChart(ctx, reportservice.ChartQuery{LeagueID: leagueID, TeamID: teamID})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeBytes(w, "image/png", data)
}

// lineupQuery reads ?date=YYYY-MM-DD (required) plus the optional league,
// category and division filters.
func lineupQuery(r *http.Request) (reportservice.LineupQuery, error) {
	query := r.URL.Query()
	var q reportservice.LineupQuery
	if raw := strings.TrimSpace(query.Get("date")); raw != "" {
		d, err := httpx.ParseDate("date", raw)
		if err != nil {
			return q, err
		}
		q.Date = d
	}
	leagueID, err := optionalInt64(r, "league")
	if err != nil {
		return q, err
	}
	q.LeagueID = leagueID
	q.Category = query.Get("category")
	q.Division = query.Get("division")
	return q, nil
}

func optionalInt64(r *http.Request, name string) (*int64, error) {
	if r.URL.Query().Get(name) == "" {
		return nil, nil
	}
	v, err := httpx.QueryInt64(r, name)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func writeBytes(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
