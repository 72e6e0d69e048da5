package jwt

import "github.com/golang-jwt/jwt/v5"

// ActorClaims identifies who is calling the API and on behalf of which team.
type ActorClaims struct {
	jwt.RegisteredClaims
	Role   string `json:"role"`
	TeamID int64  `json:"team_id,omitempty"`
}

// Role is the actor's authorization role.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCaptain Role = "captain"
)

// IsValid checks if the role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleCaptain:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}
