package schedulehandlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	scheduleservice "github.com/zrl-league/zrl-manager/app/modules/schedule/application"
	"github.com/zrl-league/zrl-manager/app/shared/httpx"
)

// ScheduleHandlers implements the Handlers interface.
type ScheduleHandlers struct {
	service  scheduleservice.Service
	enqueuer RefreshEnqueuer
	logger   *slog.Logger
	tracer   trace.Tracer
}

// NewScheduleHandlers builds the handlers. enqueuer may be nil, in which case
// asynchronous refresh requests run synchronously.
func NewScheduleHandlers(service scheduleservice.Service, enqueuer RefreshEnqueuer, logger *slog.Logger, tracer trace.Tracer) Handlers {
	return &ScheduleHandlers{
		service:  service,
		enqueuer: enqueuer,
		logger:   logger,
		tracer:   tracer,
	}
}

func (h *ScheduleHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	httpx.WriteError(w, r, h.logger, err)
}

// --- Seasons and rounds ---

func (h *ScheduleHandlers) HandleListSeasons(w http.ResponseWriter, r *http.Request) {
	if !httpx.Require(w, r, h.logger, httpx.PermRead, 0) {
		return
	}
	seasons, err := h.service.ListSeasons(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, seasons)
}

// HandleCreateSeason answers 201 for a new season and 200 when the years
// already had one.
func (h *ScheduleHandlers) HandleCreateSeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ScheduleHandlers.HandleCreateSeason")
	defer span.End()
	r = r.WithContext(ctx)

	if !httpx.Require(w, r, h.logger, httpx.PermManageSchedule, 0) {
		return
	}
	var req scheduleservice.SeasonRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	season, created, err := h.service.CreateSeason(ctx, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	httpx.WriteJSON(w, status, season)
}

func (h *ScheduleHandlers) HandleListRounds(w http.ResponseWriter, r *http.Request) {
	if !httpx.Require(w, r, h.logger, httpx.PermRead, 0) {
		return
	}
	seasonID, err := httpx.PathInt64(r, "seasonID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	rounds, err := h.service.ListRounds(r.Context(), seasonID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, rounds)
}

func (h *ScheduleHandlers) HandleCreateRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ScheduleHandlers.HandleCreateRound")
	defer span.End()
	r = r.WithContext(ctx)

	if !httpx.Require(w, r, h.logger, httpx.PermManageSchedule, 0) {
		return
	}
	seasonID, err := httpx.PathInt64(r, "seasonID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req scheduleservice.RoundRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	req.SeasonID = seasonID

	round, err := h.service.CreateRound(ctx, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, round)
}

func (h *ScheduleHandlers) HandleUpdateRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ScheduleHandlers.HandleUpdateRound")
	defer span.End()
	r = r.WithContext(ctx)

	if !httpx.Require(w, r, h.logger, httpx.PermManageSchedule, 0) {
		return
	}
	roundID, err := httpx.PathInt64(r, "roundID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req scheduleservice.RoundUpdateRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	req.RoundID = roundID

	round, err := h.service.UpdateRound(ctx, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, round)
}

func (h *ScheduleHandlers) HandleDeleteRound(w http.ResponseWriter, r *http.Request) {
	if !httpx.Require(w, r, h.logger, httpx.PermManageSchedule, 0) {
		return
	}
	roundID, err := httpx.PathInt64(r, "roundID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	deletion, err := h.service.DeleteRound(r.Context(), roundID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, deletion)
}

// --- Events ---

func (h *ScheduleHandlers) HandleCreateEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ScheduleHandlers.HandleCreateEvent")
	defer span.End()
	r = r.WithContext(ctx)

	if !httpx.Require(w, r, h.logger, httpx.PermManageSchedule, 0) {
		return
	}
	roundID, err := httpx.PathInt64(r, "roundID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req scheduleservice.EventRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	req.RoundID = roundID

	event, err := h.service.CreateEvent(ctx, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, event)
}

// HandleListEvents filters by round, season, league, from/to dates, active and
// upcoming.
func (h *ScheduleHandlers) HandleListEvents(w http.ResponseWriter, r *http.Request) {
	if !httpx.Require(w, r, h.logger, httpx.PermRead, 0) {
		return
	}

	var query scheduleservice.EventQuery
	var err error
	if query.RoundID, err = httpx.QueryInt64(r, "round"); err != nil {
		h.fail(w, r, err)
		return
	}
	if query.SeasonID, err = httpx.QueryInt64(r, "season"); err != nil {
		h.fail(w, r, err)
		return
	}
	if query.LeagueID, err = httpx.QueryInt64(r, "league"); err != nil {
		h.fail(w, r, err)
		return
	}
	if query.From, err = optionalDate(r, "from"); err != nil {
		h.fail(w, r, err)
		return
	}
	if query.To, err = optionalDate(r, "to"); err != nil {
		h.fail(w, r, err)
		return
	}
	if query.Active, err = httpx.QueryBool(r, "active"); err != nil {
		h.fail(w, r, err)
		return
	}
	upcoming, err := httpx.QueryBool(r, "upcoming")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	query.Upcoming = upcoming != nil && *upcoming

	events, err := h.service.ListEvents(r.Context(), query)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, events)
}

func (h *ScheduleHandlers) HandleGetEvent(w http.ResponseWriter, r *http.Request) {
	if !httpx.Require(w, r, h.logger, httpx.PermRead, 0) {
		return
	}
	eventID, err := httpx.PathInt64(r, "eventID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	event, err := h.service.GetEvent(r.Context(), eventID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, event)
}

func (h *ScheduleHandlers) HandleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	if !httpx.Require(w, r, h.logger, httpx.PermManageSchedule, 0) {
		return
	}
	eventID, err := httpx.PathInt64(r, "eventID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	event, err := h.service.DeleteEvent(r.Context(), eventID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, event)
}

// HandleRefreshActive recomputes active events now, or with ?async=true hands
// the work to the job queue and answers 202.
func (h *ScheduleHandlers) HandleRefreshActive(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ScheduleHandlers.HandleRefreshActive")
	defer span.End()
	r = r.WithContext(ctx)

	if !httpx.Require(w, r, h.logger, httpx.PermManageSchedule, 0) {
		return
	}
	async, err := httpx.QueryBool(r, "async")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if async != nil && *async && h.enqueuer != nil {
		jobID, err := h.enqueuer.EnqueueRefresh(ctx)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusAccepted, map[string]int64{"job_id": jobID})
		return
	}

	summary, err := h.service.RefreshActiveEvents(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, summary)
}

// HandleNextEvent serves the captain dashboard: next event plus roster.
func (h *ScheduleHandlers) HandleNextEvent(w http.ResponseWriter, r *http.Request) {
	teamID, err := httpx.PathInt64(r, "teamID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !httpx.Require(w, r, h.logger, httpx.PermRead, teamID) {
		return
	}
	view, err := h.service.NextEvent(r.Context(), teamID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, view)
}

func optionalDate(r *http.Request, name string) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return time.Time{}, nil
	}
	return httpx.ParseDate(name, raw)
}
