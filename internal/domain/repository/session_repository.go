package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/loyalty-funnel/internal/domain/entity"
)

// ErrSessionNotFound is returned when the session holds no value for the key.
var ErrSessionNotFound = errors.New("session data not found")

// SessionStore keeps per-session funnel state keyed by an opaque session id.
// Writes are last-write-wins per session.
type SessionStore interface {
	SaveUser(ctx context.Context, sessionID string, rec *entity.UserRecord) error
	GetUser(ctx context.Context, sessionID string) (*entity.UserRecord, error)
	SaveLoyalty(ctx context.Context, sessionID string, data *entity.LoyaltyData) error
	GetLoyalty(ctx context.Context, sessionID string) (*entity.LoyaltyData, error)
	// DeleteLoyalty is a no-op when nothing is stored.
	DeleteLoyalty(ctx context.Context, sessionID string) error
	Ping(ctx context.Context) error
}
