package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidSessionToken = errors.New("invalid session token")

// SessionTokens signs and verifies the opaque session id carried in the session cookie.
type SessionTokens struct {
	Secret []byte
	TTL    time.Duration
	Issuer string
}

func NewSessionTokens(secret string, ttl time.Duration, issuer string) *SessionTokens {
	return &SessionTokens{Secret: []byte(secret), TTL: ttl, Issuer: issuer}
}

type SessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// NewSessionID returns a fresh random session id.
func NewSessionID() string { return uuid.NewString() }

func (m *SessionTokens) Sign(sessionID string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(m.TTL)
	claims := &SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.Issuer,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.Secret)
	return s, exp, err
}

// Parse returns the session id of a valid, unexpired token.
func (m *SessionTokens) Parse(tokenStr string) (string, error) {
	claims := &SessionClaims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.Secret, nil
	})
	if err != nil {
		return "", errors.Join(ErrInvalidSessionToken, err)
	}
	if !tkn.Valid || claims.SessionID == "" {
		return "", ErrInvalidSessionToken
	}
	if _, err := uuid.Parse(claims.SessionID); err != nil {
		return "", ErrInvalidSessionToken
	}
	return claims.SessionID, nil
}
