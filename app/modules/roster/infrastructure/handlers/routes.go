package rosterhandlers

import "github.com/go-chi/chi/v5"

// Mount registers the roster endpoints on an /api router that already runs the
// auth middleware. Team routes are registered by full pattern because the
// lineup and schedule modules add their own routes under /teams/{teamID}.
func Mount(r chi.Router, h Handlers) {
	r.Route("/riders", func(r chi.Router) {
		r.Get("/", h.HandleListRiders)
		r.Post("/", h.HandleCreateRider)
		r.Post("/import", h.HandleImportRiders)
		r.Patch("/{riderID}/active", h.HandleSetRiderActive)
	})

	r.Route("/leagues", func(r chi.Router) {
		r.Get("/", h.HandleListLeagues)
		r.Post("/", h.HandleCreateLeague)
		r.Put("/{leagueID}", h.HandleUpdateLeague)
		r.Delete("/{leagueID}", h.HandleDeleteLeague)
	})

	r.Get("/teams", h.HandleListTeams)
	r.Post("/teams", h.HandleCreateTeam)
	r.Get("/teams/{teamID}", h.HandleGetTeam)
	r.Put("/teams/{teamID}", h.HandleUpdateTeam)
	r.Delete("/teams/{teamID}", h.HandleDeleteTeam)
	r.Get("/teams/{teamID}/roster", h.HandleListRoster)
	r.Post("/teams/{teamID}/roster", h.HandleAddToRoster)
	r.Delete("/teams/{teamID}/roster/{riderID}", h.HandleRemoveFromRoster)
	r.Put("/teams/{teamID}/captain", h.HandleAssignCaptain)
}
