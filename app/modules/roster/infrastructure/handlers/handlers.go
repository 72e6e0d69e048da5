package rosterhandlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/trace"

	rosterservice "github.com/zrl-league/zrl-manager/app/modules/roster/application"
	"github.com/zrl-league/zrl-manager/app/shared/domainerr"
	"github.com/zrl-league/zrl-manager/app/shared/httpx"
)

// maxImportBytes caps rider import uploads.
const maxImportBytes = 10 << 20

// RosterHandlers implements the Handlers interface.
type RosterHandlers struct {
	service rosterservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

func NewRosterHandlers(service rosterservice.Service, logger *slog.Logger, tracer trace.Tracer) Handlers {
	return &RosterHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

func (h *RosterHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	httpx.WriteError(w, r, h.logger, err)
}

// --- Riders ---

func (h *RosterHandlers) HandleListRiders(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "RosterHandlers.HandleListRiders")
	defer span.End()
	r = r.WithContext(ctx)

	if !httpx.Require(w, r, h.logger, httpx.PermRead, 0) {
		return
	}

	q := r.URL.Query()
	teamID, err := httpx.QueryInt64(r, "team")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	active, err := httpx.QueryBool(r, "active")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	limit, err := httpx.QueryInt64(r, "limit")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	offset, err := httpx.QueryInt64(r, "offset")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	riders, err := h.service.ListRiders(ctx, rosterservice.RiderQuery{
		Category: q.Get("category"),
		TeamID:   teamID,
		Active:   active,
		Search:   q.Get("q"),
		Limit:    int(limit),
		Offset:   int(offset),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, riders)
}

func (h *RosterHandlers) HandleCreateRider(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "RosterHandlers.HandleCreateRider")
	defer span.End()
	r = r.WithContext(ctx)

	if !httpx.Require(w, r, h.logger, httpx.PermManageRoster, 0) {
		return
	}

	var req rosterservice.CreateRiderRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	rider, err := h.service.CreateRider(ctx, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, rider)
}

func (h *RosterHandlers) HandleSetRiderActive(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "RosterHandlers.HandleSetRiderActive")
	defer span.End()
	r = r.WithContext(ctx)

	if !httpx.Require(w, r, h.logger, httpx.PermManageRoster, 0) {
		return
	}

	riderID, err := httpx.PathInt64(r, "riderID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var body struct {
		Active *bool `json:"active"`
	}
	if err := httpx.DecodeJSON(w, r, &body); err != nil {
		h.fail(w, r, err)
		return
	}
	if body.Active == nil {
		h.fail(w, r, &domainerr.ValidationError{Field: "active", Reason: "is required"})
		return
	}

	rider, err := h.service.SetRiderActive(ctx, riderID, *body.Active)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, rider)
}

// HandleImportRiders accepts a multipart upload in the "file" field.
func (h *RosterHandlers) HandleImportRiders(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "RosterHandlers.HandleImportRiders")
	defer span.End()
	r = r.WithContext(ctx)

	if !httpx.Require(w, r, h.logger, httpx.PermManageRoster, 0) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		h.fail(w, r, &domainerr.ValidationError{Field: "file", Reason: err.Error()})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.fail(w, r, &domainerr.ValidationError{Field: "file", Reason: err.Error()})
		return
	}

	summary, err := h.service.ImportRiders(ctx, header.Filename, data)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, summary)
}

// --- Leagues ---

func (h *RosterHandlers) HandleListLeagues(w http.ResponseWriter, r *http.Request) {
	if !httpx.Require(w, r, h.logger, httpx.PermRead, 0) {
		return
	}
	leagues, err := h.service.ListLeagues(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, leagues)
}

func (h *RosterHandlers) HandleCreateLeague(w http.ResponseWriter, r *http.Request) {
	if !httpx.Require(w, r, h.logger, httpx.PermManageRoster, 0) {
		return
	}
	var req rosterservice.LeagueRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	league, err := h.service.CreateLeague(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, league)
}

func (h *RosterHandlers) HandleUpdateLeague(w http.ResponseWriter, r *http.Request) {
	if !httpx.Require(w, r, h.logger, httpx.PermManageRoster, 0) {
		return
	}
	leagueID, err := httpx.PathInt64(r, "leagueID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req rosterservice.LeagueRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	league, err := h.service.UpdateLeague(r.Context(), leagueID, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, league)
}

func (h *RosterHandlers) HandleDeleteLeague(w http.ResponseWriter, r *http.Request) {
	if !httpx.Require(w, r, h.logger, httpx.PermManageRoster, 0) {
		return
	}
	leagueID, err := httpx.PathInt64(r, "leagueID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	deletion, err := h.service.DeleteLeague(r.Context(), leagueID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, deletion)
}

// --- Teams ---

func (h *RosterHandlers) HandleListTeams(w http.ResponseWriter, r *http.Request) {
	if !httpx.Require(w, r, h.logger, httpx.PermRead, 0) {
		return
	}
	leagueID, err := httpx.QueryInt64(r, "league")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	teams, err := h.service.ListTeams(r.Context(), rosterservice.TeamQuery{
		LeagueID: leagueID,
		Category: r.URL.Query().Get("category"),
		Division: r.URL.Query().Get("division"),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, teams)
}

func (h *RosterHandlers) HandleCreateTeam(w http.ResponseWriter, r *http.Request) {
	if !httpx.Require(w, r, h.logger, httpx.PermManageRoster, 0) {
		return
	}
	var req rosterservice.TeamRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	team, err := h.service.CreateTeam(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, team)
}

func (h *RosterHandlers) HandleGetTeam(w http.ResponseWriter, r *http.Request) {
	if !httpx.Require(w, r, h.logger, httpx.PermRead, 0) {
		return
	}
	teamID, err := httpx.PathInt64(r, "teamID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	team, err := h.service.GetTeam(r.Context(), teamID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, team)
}

func (h *RosterHandlers) HandleUpdateTeam(w http.ResponseWriter, r *http.Request) {
	teamID, err := httpx.PathInt64(r, "teamID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !httpx.Require(w, r, h.logger, httpx.PermManageRoster, teamID) {
		return
	}
	var req rosterservice.TeamRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	team, err := h.service.UpdateTeam(r.Context(), teamID, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, team)
}

func (h *RosterHandlers) HandleDeleteTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "RosterHandlers.HandleDeleteTeam")
	defer span.End()
	r = r.WithContext(ctx)

	teamID, err := httpx.PathInt64(r, "teamID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !httpx.Require(w, r, h.logger, httpx.PermManageRoster, teamID) {
		return
	}
	deletion, err := h.service.DeleteTeam(ctx, teamID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, deletion)
}

// --- Roster and captain ---

func (h *RosterHandlers) HandleListRoster(w http.ResponseWriter, r *http.Request) {
	if !httpx.Require(w, r, h.logger, httpx.PermRead, 0) {
		return
	}
	teamID, err := httpx.PathInt64(r, "teamID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	riders, err := h.service.ListRoster(r.Context(), teamID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, riders)
}

type riderRef struct {
	RiderID *int64 `json:"rider_id"`
}

func (h *RosterHandlers) HandleAddToRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "RosterHandlers.HandleAddToRoster")
	defer span.End()
	r = r.WithContext(ctx)

	teamID, err := httpx.PathInt64(r, "teamID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !httpx.Require(w, r, h.logger, httpx.PermManageRoster, teamID) {
		return
	}
	var body riderRef
	if err := httpx.DecodeJSON(w, r, &body); err != nil {
		h.fail(w, r, err)
		return
	}
	if body.RiderID == nil {
		h.fail(w, r, &domainerr.ValidationError{Field: "rider_id", Reason: "is required"})
		return
	}

	if err := h.service.AddRiderToRoster(ctx, teamID, *body.RiderID); err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, map[string]int64{"team_id": teamID, "rider_id": *body.RiderID})
}

func (h *RosterHandlers) HandleRemoveFromRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "RosterHandlers.HandleRemoveFromRoster")
	defer span.End()
	r = r.WithContext(ctx)

	teamID, err := httpx.PathInt64(r, "teamID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	riderID, err := httpx.PathInt64(r, "riderID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !httpx.Require(w, r, h.logger, httpx.PermManageRoster, teamID) {
		return
	}

	removal, err := h.service.RemoveRiderFromRoster(ctx, teamID, riderID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, removal)
}

// HandleAssignCaptain takes {"rider_id": n} or {"rider_id": null}; the field is
// required so an empty body cannot clear the captain by accident.
func (h *RosterHandlers) HandleAssignCaptain(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "RosterHandlers.HandleAssignCaptain")
	defer span.End()
	r = r.WithContext(ctx)

	teamID, err := httpx.PathInt64(r, "teamID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !httpx.Require(w, r, h.logger, httpx.PermManageRoster, teamID) {
		return
	}

	var raw map[string]json.RawMessage
	if err := httpx.DecodeJSON(w, r, &raw); err != nil {
		h.fail(w, r, err)
		return
	}
	field, present := raw["rider_id"]
	if !present {
		h.fail(w, r, &domainerr.ValidationError{Field: "rider_id", Reason: "is required (use null to remove the captain)"})
		return
	}
	var riderID *int64
	if err := json.Unmarshal(field, &riderID); err != nil {
		h.fail(w, r, &domainerr.ValidationError{Field: "rider_id", Reason: fmt.Sprintf("must be an integer or null: %v", err)})
		return
	}

	change, err := h.service.AssignCaptain(ctx, teamID, riderID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, change)
}
