package schedulehandlers

import "github.com/go-chi/chi/v5"

// Mount registers the schedule endpoints on the authenticated /api router.
func Mount(r chi.Router, h Handlers) {
	r.Get("/seasons", h.HandleListSeasons)
	r.Post("/seasons", h.HandleCreateSeason)
	r.Get("/seasons/{seasonID}/rounds", h.HandleListRounds)
	r.Post("/seasons/{seasonID}/rounds", h.HandleCreateRound)
	r.Put("/rounds/{roundID}", h.HandleUpdateRound)
	r.Delete("/rounds/{roundID}", h.HandleDeleteRound)
	r.Post("/rounds/{roundID}/events", h.HandleCreateEvent)

	r.Get("/events", h.HandleListEvents)
	r.Post("/events/refresh-active", h.HandleRefreshActive)
	r.Get("/events/{eventID}", h.HandleGetEvent)
	r.Delete("/events/{eventID}", h.HandleDeleteEvent)

	r.Get("/teams/{teamID}/next-event", h.HandleNextEvent)
}
