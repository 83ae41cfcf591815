package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/loyalty-funnel/internal/domain/entity"
	"github.com/oksasatya/loyalty-funnel/internal/domain/repository"
)

func TestSessionStore_ReturnsCopies(t *testing.T) {
	store := NewSessionStore(time.Hour)
	ctx := context.Background()

	rec := &entity.UserRecord{FirstName: "Ana"}
	require.NoError(t, store.SaveUser(ctx, "sid", rec))
	rec.FirstName = "mutated"

	got, err := store.GetUser(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.FirstName)

	got.FirstName = "again"
	again, err := store.GetUser(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, "Ana", again.FirstName)
}

func TestSessionStore_Expires(t *testing.T) {
	store := NewSessionStore(time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.SaveUser(ctx, "sid", &entity.UserRecord{FirstName: "Ana"}))
	now = now.Add(59 * time.Second)
	_, err := store.GetUser(ctx, "sid")
	require.NoError(t, err)

	now = now.Add(2 * time.Second)
	_, err = store.GetUser(ctx, "sid")
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)
}

func TestSessionStore_LoyaltyIndependentOfUser(t *testing.T) {
	store := NewSessionStore(time.Hour)
	ctx := context.Background()

	require.NoError(t, store.SaveLoyalty(ctx, "sid", &entity.LoyaltyData{ID: "serial"}))

	_, err := store.GetUser(ctx, "sid")
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)

	got, err := store.GetLoyalty(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, "serial", got.ID)
}

func TestSessionStore_DeleteLoyaltyKeepsUser(t *testing.T) {
	store := NewSessionStore(time.Hour)
	ctx := context.Background()

	require.NoError(t, store.DeleteLoyalty(ctx, "missing"))

	require.NoError(t, store.SaveUser(ctx, "sid", &entity.UserRecord{FirstName: "Ana"}))
	require.NoError(t, store.SaveLoyalty(ctx, "sid", &entity.LoyaltyData{ID: "serial"}))
	require.NoError(t, store.DeleteLoyalty(ctx, "sid"))

	_, err := store.GetLoyalty(ctx, "sid")
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)

	got, err := store.GetUser(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.FirstName)
}
