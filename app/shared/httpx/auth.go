package httpx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/zrl-league/zrl-manager/app/shared/observability/attr"
	"github.com/zrl-league/zrl-manager/pkg/jwt"
)

// Actor is the authenticated caller.
type Actor struct {
	Subject string
	Role    jwt.Role
	// TeamID is the captained team; zero for admins.
	TeamID int64
}

// Permission names an action checked by Authorize.
type Permission string

const (
	PermRead           Permission = "read"
	PermManageRoster   Permission = "roster:write"
	PermManageSchedule Permission = "schedule:write"
	PermManageLineup   Permission = "lineup:write"
	PermViewTeamPlan   Permission = "lineup:read"
	PermViewAudit      Permission = "audit:read"
)

var ErrUnauthenticated = errors.New("authentication required")

// ForbiddenError is returned when an actor lacks a permission.
type ForbiddenError struct {
	Permission Permission
	TeamID     int64
}

func (e *ForbiddenError) Error() string {
	if e.TeamID != 0 {
		return fmt.Sprintf("%s not allowed on team %d", e.Permission, e.TeamID)
	}
	return fmt.Sprintf("%s not allowed", e.Permission)
}

// Authorize decides whether actor may perform perm on teamID. Admins may do
// everything. Captains may read league data and manage lineups and
// availability of their own team.
func Authorize(actor *Actor, perm Permission, teamID int64) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	switch actor.Role {
	case jwt.RoleAdmin:
		return nil
	case jwt.RoleCaptain:
		switch perm {
		case PermRead:
			return nil
		case PermManageLineup, PermViewTeamPlan:
			if teamID != 0 && teamID == actor.TeamID {
				return nil
			}
		}
	}
	return &ForbiddenError{Permission: perm, TeamID: teamID}
}

type actorKey struct{}

func WithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the actor set by AuthMiddleware, or nil.
func ActorFromContext(ctx context.Context) *Actor {
	actor, _ := ctx.Value(actorKey{}).(*Actor)
	return actor
}

// TokenValidator is satisfied by jwt.Service.
type TokenValidator interface {
	ValidateToken(tokenString string) (*jwt.ActorClaims, error)
}

// AuthMiddleware requires a valid bearer token and stores the Actor in the
// request context.
func AuthMiddleware(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || strings.TrimSpace(token) == "" {
				WriteError(w, r, logger, ErrUnauthenticated)
				return
			}

			claims, err := validator.ValidateToken(strings.TrimSpace(token))
			if err != nil {
				logger.WarnContext(r.Context(), "Rejected bearer token",
					attr.ExtractCorrelationID(r.Context()),
					attr.Error(err),
				)
				WriteError(w, r, logger, ErrUnauthenticated)
				return
			}

			actor := &Actor{Subject: claims.Subject, Role: jwt.Role(claims.Role), TeamID: claims.TeamID}
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

// Require runs Authorize against the request's actor and writes the error
// response when it fails. It reports whether the handler may proceed.
func Require(w http.ResponseWriter, r *http.Request, logger *slog.Logger, perm Permission, teamID int64) bool {
	if err := Authorize(ActorFromContext(r.Context()), perm, teamID); err != nil {
		WriteError(w, r, logger, err)
		return false
	}
	return true
}
