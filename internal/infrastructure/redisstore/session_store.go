package redisstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/loyalty-funnel/internal/domain/entity"
	"github.com/oksasatya/loyalty-funnel/internal/domain/repository"
	"github.com/oksasatya/loyalty-funnel/pkg/helpers"
)

// SessionStore keeps session values as JSON strings. Every write restarts the key's TTL.
type SessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessionStore(rdb *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{rdb: rdb, ttl: ttl}
}

func userKey(sid string) string    { return "funnel:session:" + sid + ":user" }
func loyaltyKey(sid string) string { return "funnel:session:" + sid + ":loyalty" }

func (s *SessionStore) SaveUser(ctx context.Context, sessionID string, rec *entity.UserRecord) error {
	return helpers.RedisSetJSON(ctx, s.rdb, userKey(sessionID), rec, s.ttl)
}

func (s *SessionStore) GetUser(ctx context.Context, sessionID string) (*entity.UserRecord, error) {
	var rec entity.UserRecord
	found, err := helpers.RedisGetJSON(ctx, s.rdb, userKey(sessionID), &rec)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, repository.ErrSessionNotFound
	}
	return &rec, nil
}

func (s *SessionStore) SaveLoyalty(ctx context.Context, sessionID string, data *entity.LoyaltyData) error {
	return helpers.RedisSetJSON(ctx, s.rdb, loyaltyKey(sessionID), data, s.ttl)
}

func (s *SessionStore) GetLoyalty(ctx context.Context, sessionID string) (*entity.LoyaltyData, error) {
	var data entity.LoyaltyData
	found, err := helpers.RedisGetJSON(ctx, s.rdb, loyaltyKey(sessionID), &data)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, repository.ErrSessionNotFound
	}
	return &data, nil
}

func (s *SessionStore) DeleteLoyalty(ctx context.Context, sessionID string) error {
	return helpers.RedisDel(ctx, s.rdb, loyaltyKey(sessionID))
}

// Clear removes everything stored for sessionID.
func (s *SessionStore) Clear(ctx context.Context, sessionID string) error {
	if err := helpers.RedisDel(ctx, s.rdb, userKey(sessionID)); err != nil {
		return err
	}
	return s.DeleteLoyalty(ctx, sessionID)
}

func (s *SessionStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

var _ repository.SessionStore = (*SessionStore)(nil)
