package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zrl-league/zrl-manager/app/shared/domainerr"
	"github.com/zrl-league/zrl-manager/app/shared/observability/attr"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error   string  `json:"error"`
	Message string  `json:"message"`
	Riders  []int64 `json:"riders,omitempty"`
	Teams   []int64 `json:"teams,omitempty"`
	Limit   int     `json:"limit,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// WriteError maps err onto a status code and JSON body. Unknown errors are
// logged and reported as 500 without detail.
func WriteError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, body := classify(err)
	if status == http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Request failed",
			attr.ExtractCorrelationID(r.Context()),
			attr.String("method", r.Method),
			attr.String("path", r.URL.Path),
			attr.Error(err),
		)
	}
	WriteJSON(w, status, body)
}

func classify(err error) (int, ErrorBody) {
	var (
		notFound       *domainerr.NotFoundError
		noEvent        *domainerr.NoScheduledEventError
		capacity       *domainerr.CapacityExceededError
		notRostered    *domainerr.NotRosteredError
		doubleBooking  *domainerr.DoubleBookingError
		mismatch       *domainerr.CategoryMismatchError
		rosterCapacity *domainerr.RosterCapacityError
		inactive       *domainerr.InactiveRiderError
		captain        *domainerr.CaptainConflictError
		validation     *domainerr.ValidationError
		conflict       *domainerr.ConflictError
		inUse          *domainerr.InUseError
		forbidden      *ForbiddenError
	)
	msg := err.Error()

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound, ErrorBody{Error: "not_found", Message: msg}
	case errors.As(err, &noEvent):
		return http.StatusUnprocessableEntity, ErrorBody{Error: "no_scheduled_event", Message: msg}
	case errors.As(err, &capacity):
		return http.StatusUnprocessableEntity, ErrorBody{Error: "capacity_exceeded", Message: msg, Limit: capacity.Limit}
	case errors.As(err, &notRostered):
		return http.StatusUnprocessableEntity, ErrorBody{Error: "not_rostered", Message: msg, Riders: notRostered.RiderIDs}
	case errors.As(err, &doubleBooking):
		return http.StatusConflict, ErrorBody{Error: "double_booking", Message: msg, Riders: doubleBooking.RiderIDs}
	case errors.As(err, &mismatch):
		return http.StatusUnprocessableEntity, ErrorBody{Error: "category_mismatch", Message: msg, Riders: []int64{mismatch.RiderID}}
	case errors.As(err, &rosterCapacity):
		return http.StatusConflict, ErrorBody{
			Error:   "roster_capacity",
			Message: msg,
			Riders:  []int64{rosterCapacity.RiderID},
			Teams:   rosterCapacity.TeamIDs,
			Limit:   rosterCapacity.Limit,
		}
	case errors.As(err, &inactive):
		return http.StatusUnprocessableEntity, ErrorBody{Error: "inactive_rider", Message: msg, Riders: []int64{inactive.RiderID}}
	case errors.As(err, &captain):
		return http.StatusConflict, ErrorBody{Error: "captain_conflict", Message: msg, Riders: []int64{captain.RiderID}, Teams: []int64{captain.OtherTeamID}}
	case errors.As(err, &validation):
		return http.StatusBadRequest, ErrorBody{Error: "invalid_request", Message: msg}
	case errors.As(err, &conflict):
		return http.StatusConflict, ErrorBody{Error: "conflict", Message: msg}
	case errors.As(err, &inUse):
		return http.StatusConflict, ErrorBody{Error: "in_use", Message: msg}
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized, ErrorBody{Error: "unauthenticated", Message: msg}
	case errors.As(err, &forbidden):
		return http.StatusForbidden, ErrorBody{Error: "forbidden", Message: msg}
	default:
		return http.StatusInternalServerError, ErrorBody{Error: "internal", Message: http.StatusText(http.StatusInternalServerError)}
	}
}

// DecodeJSON reads a JSON body into v, rejecting unknown fields.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &domainerr.ValidationError{Field: "body", Reason: err.Error()}
	}
	return nil
}

// PathInt64 parses a positive integer URL parameter.
func PathInt64(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, &domainerr.ValidationError{Field: name, Reason: fmt.Sprintf("%q is not a positive integer", raw)}
	}
	return v, nil
}

// QueryInt64 parses an optional integer query parameter; absent yields 0.
func QueryInt64(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return 0, &domainerr.ValidationError{Field: name, Reason: fmt.Sprintf("%q is not a non-negative integer", raw)}
	}
	return v, nil
}

// QueryBool parses an optional boolean query parameter.
func QueryBool(r *http.Request, name string) (*bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, &domainerr.ValidationError{Field: name, Reason: fmt.Sprintf("%q is not a boolean", raw)}
	}
	return &v, nil
}

// ParseDate parses a calendar date (YYYY-MM-DD) as midnight UTC.
func ParseDate(field, raw string) (time.Time, error) {
	d, err := time.Parse(time.DateOnly, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, &domainerr.ValidationError{Field: field, Reason: fmt.Sprintf("%q is not a YYYY-MM-DD date", raw)}
	}
	return d, nil
}
