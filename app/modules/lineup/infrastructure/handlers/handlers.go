package lineuphandlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	lineupservice "github.com/zrl-league/zrl-manager/app/modules/lineup/application"
	"github.com/zrl-league/zrl-manager/app/shared/domainerr"
	"github.com/zrl-league/zrl-manager/app/shared/httpx"
)

// LineupHandlers implements the Handlers interface.
type LineupHandlers struct {
	service lineupservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

func NewLineupHandlers(service lineupservice.Service, logger *slog.Logger, tracer trace.Tracer) Handlers {
	return &LineupHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

func (h *LineupHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	httpx.WriteError(w, r, h.logger, err)
}

type proposal struct {
	EventDate string  `json:"event_date"`
	RiderIDs  []int64 `json:"rider_ids"`
}

// HandleProposeLineup replaces a lineup. Without event_date the team's next
// scheduled event is used.
func (h *LineupHandlers) HandleProposeLineup(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "LineupHandlers.HandleProposeLineup")
	defer span.End()
	r = r.WithContext(ctx)

	teamID, err := httpx.PathInt64(r, "teamID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !httpx.Require(w, r, h.logger, httpx.PermManageLineup, teamID) {
		return
	}

	var body proposal
	if err := httpx.DecodeJSON(w, r, &body); err != nil {
		h.fail(w, r, err)
		return
	}
	if body.RiderIDs == nil {
		h.fail(w, r, &domainerr.ValidationError{Field: "rider_ids", Reason: "is required (use [] to clear the lineup)"})
		return
	}
	var date *time.Time
	if strings.TrimSpace(body.EventDate) != "" {
		d, err := httpx.ParseDate("event_date", body.EventDate)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		date = &d
	}
	span.SetAttributes(attribute.Int64("team_id", teamID), attribute.Int("riders", len(body.RiderIDs)))

	res, err := h.service.ProposeLineup(ctx, teamID, date, body.RiderIDs)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

// HandleGetLineup accepts a YYYY-MM-DD date or "next".
func (h *LineupHandlers) HandleGetLineup(w http.ResponseWriter, r *http.Request) {
	teamID, err := httpx.PathInt64(r, "teamID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !httpx.Require(w, r, h.logger, httpx.PermRead, teamID) {
		return
	}

	var date *time.Time
	if raw := chi.URLParam(r, "date"); !strings.EqualFold(raw, "next") {
		d, err := httpx.ParseDate("date", raw)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		date = &d
	}

	view, err := h.service.GetLineup(r.Context(), teamID, date)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, view)
}

func (h *LineupHandlers) HandleRemoveRider(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "LineupHandlers.HandleRemoveRider")
	defer span.End()
	r = r.WithContext(ctx)

	teamID, err := httpx.PathInt64(r, "teamID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !httpx.Require(w, r, h.logger, httpx.PermManageLineup, teamID) {
		return
	}
	date, err := httpx.ParseDate("date", chi.URLParam(r, "date"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	riderID, err := httpx.PathInt64(r, "riderID")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	removal, err := h.service.RemoveRider(ctx, teamID, date, riderID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, removal)
}

func (h *LineupHandlers) HandleListAvailability(w http.ResponseWriter, r *http.Request) {
	teamID, err := httpx.PathInt64(r, "teamID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !httpx.Require(w, r, h.logger, httpx.PermViewTeamPlan, teamID) {
		return
	}
	date, err := httpx.ParseDate("date", chi.URLParam(r, "date"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	view, err := h.service.ListAvailability(r.Context(), teamID, date)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, view)
}

func (h *LineupHandlers) HandleSetAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "LineupHandlers.HandleSetAvailability")
	defer span.End()
	r = r.WithContext(ctx)

	teamID, err := httpx.PathInt64(r, "teamID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !httpx.Require(w, r, h.logger, httpx.PermManageLineup, teamID) {
		return
	}
	date, err := httpx.ParseDate("date", chi.URLParam(r, "date"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req lineupservice.AvailabilityRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if req.RiderID == 0 {
		h.fail(w, r, &domainerr.ValidationError{Field: "rider_id", Reason: "is required"})
		return
	}
	req.TeamID = teamID
	req.EventDate = date

	view, err := h.service.SetAvailability(ctx, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, view)
}
