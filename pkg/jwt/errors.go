package jwt

import "errors"

var (
	// ErrInvalidToken is returned for malformed or otherwise unusable tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when the token's exp claim has passed.
	ErrExpiredToken = errors.New("token expired")
	// ErrInvalidSignature is returned for a bad signature or unexpected algorithm.
	ErrInvalidSignature = errors.New("invalid token signature")
	// ErrInvalidRole is returned when a token carries an unknown role, or a
	// captain token carries no team.
	ErrInvalidRole = errors.New("invalid actor role")
)
