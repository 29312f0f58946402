package services

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Kariqs/shopfront-api/models"
	"github.com/golang-jwt/jwt/v5"
)

type SessionClaims struct {
	UserID uint        `json:"id"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// SessionIssuer signs and verifies HS256 session tokens with a fixed lifetime.
type SessionIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionIssuer(secret, issuer string, ttl time.Duration, now func() time.Time) *SessionIssuer {
	if now == nil {
		now = time.Now
	}
	return &SessionIssuer{secret: []byte(secret), issuer: issuer, ttl: ttl, now: now}
}

func (s *SessionIssuer) Issue(user *models.User) (string, error) {
	now := s.now()
	claims := SessionClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

func (s *SessionIssuer) Parse(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, errors.Join(ErrInvalidSession, err)
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, ErrInvalidSession
	}
	return claims, nil
}
