package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Service interface {
	GenerateToken(subject string, role Role, teamID int64, ttl time.Duration) (string, error)
	ValidateToken(tokenString string) (*ActorClaims, error)
}

type service struct {
	secret     []byte
	defaultTTL time.Duration
	issuer     string
}

func NewService(secret string, defaultTTL time.Duration, issuer string) Service {
	return &service{
		secret:     []byte(secret),
		defaultTTL: defaultTTL,
		issuer:     issuer,
	}
}

func (s *service) GenerateToken(subject string, role Role, teamID int64, ttl time.Duration) (string, error) {
	if !role.IsValid() || (role == RoleCaptain && teamID == 0) {
		return "", ErrInvalidRole
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	if subject == "" {
		subject = string(role)
		if teamID != 0 {
			subject += ":" + strconv.FormatInt(teamID, 10)
		}
	}

	now := time.Now()
	claims := &ActorClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Role:   string(role),
		TeamID: teamID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signedToken, nil
}

func (s *service) ValidateToken(tokenString string) (*ActorClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ActorClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		return s.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) || errors.Is(err, ErrInvalidSignature) {
			return nil, ErrInvalidSignature
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*ActorClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	role := Role(claims.Role)
	if !role.IsValid() || (role == RoleCaptain && claims.TeamID == 0) {
		return nil, ErrInvalidRole
	}

	return claims, nil
}
