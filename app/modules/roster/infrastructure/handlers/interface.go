package rosterhandlers

import "net/http"

// Handlers defines the HTTP endpoints of the roster module.
type Handlers interface {
	HandleListRiders(w http.ResponseWriter, r *http.Request)
	HandleCreateRider(w http.ResponseWriter, r *http.Request)
	HandleSetRiderActive(w http.ResponseWriter, r *http.Request)
	HandleImportRiders(w http.ResponseWriter, r *http.Request)

	HandleListLeagues(w http.ResponseWriter, r *http.Request)
	HandleCreateLeague(w http.ResponseWriter, r *http.Request)
	HandleUpdateLeague(w http.ResponseWriter, r *http.Request)
	HandleDeleteLeague(w http.ResponseWriter, r *http.Request)

	HandleListTeams(w http.ResponseWriter, r *http.Request)
	HandleCreateTeam(w http.ResponseWriter, r *http.Request)
	HandleGetTeam(w http.ResponseWriter, r *http.Request)
	HandleUpdateTeam(w http.ResponseWriter, r *http.Request)
	HandleDeleteTeam(w http.ResponseWriter, r *http.Request)

	HandleListRoster(w http.ResponseWriter, r *http.Request)
	HandleAddToRoster(w http.ResponseWriter, r *http.Request)
	HandleRemoveFromRoster(w http.ResponseWriter, r *http.Request)
	HandleAssignCaptain(w http.ResponseWriter, r *http.Request)
}
