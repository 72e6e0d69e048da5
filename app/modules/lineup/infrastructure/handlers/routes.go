package lineuphandlers

import "github.com/go-chi/chi/v5"

// Mount registers the lineup endpoints on the authenticated /api router.
func Mount(r chi.Router, h Handlers) {
	r.Put("/teams/{teamID}/lineup", h.HandleProposeLineup)
	r.Get("/teams/{teamID}/lineups/{date}", h.HandleGetLineup)
	r.Delete("/teams/{teamID}/lineups/{date}/{riderID}", h.HandleRemoveRider)
	r.Get("/teams/{teamID}/availability/{date}", h.HandleListAvailability)
	r.Put("/teams/{teamID}/availability/{date}", h.HandleSetAvailability)
}
