package schedulehandlers

import (
	"context"
	"net/http"
)

// Handlers defines the HTTP endpoints of the schedule module.
type Handlers interface {
	HandleListSeasons(w http.ResponseWriter, r *http.Request)
	HandleCreateSeason(w http.ResponseWriter, r *http.Request)
	HandleListRounds(w http.ResponseWriter, r *http.Request)
	HandleCreateRound(w http.ResponseWriter, r *http.Request)
	HandleUpdateRound(w http.ResponseWriter, r *http.Request)
	HandleDeleteRound(w http.ResponseWriter, r *http.Request)
	HandleCreateEvent(w http.ResponseWriter, r *http.Request)
	HandleListEvents(w http.ResponseWriter, r *http.Request)
	HandleGetEvent(w http.ResponseWriter, r *http.Request)
	HandleDeleteEvent(w http.ResponseWriter, r *http.Request)
	HandleRefreshActive(w http.ResponseWriter, r *http.Request)
	HandleNextEvent(w http.ResponseWriter, r *http.Request)
}

// RefreshEnqueuer hands a refresh to the background queue.
type RefreshEnqueuer interface {
	EnqueueRefresh(ctx context.Context) (int64, error)
}
