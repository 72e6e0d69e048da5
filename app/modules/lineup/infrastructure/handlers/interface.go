package lineuphandlers

import "net/http"

// Handlers defines the HTTP endpoints of the lineup module.
type Handlers interface {
	HandleGetLineup(w http.ResponseWriter, r *http.Request)
	HandleProposeLineup(w http.ResponseWriter, r *http.Request)
	HandleRemoveRider(w http.ResponseWriter, r *http.Request)
	HandleListAvailability(w http.ResponseWriter, r *http.Request)
	HandleSetAvailability(w http.ResponseWriter, r *http.Request)
}
