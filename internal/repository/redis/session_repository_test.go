package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gdugdh24/collabswipe-backend/internal/domain"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) (*miniredis.Miniredis, *sessionRepository) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, &sessionRepository{client: client}
}

func TestSessionRoundTrip(t *testing.T) {
	mr, repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	session := &domain.Session{
		ID:        "sid-1",
		UserID:    uuid.New(),
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
	require.NoError(t, repo.Create(ctx, session))
	assert.True(t, mr.Exists("sessions:sid-1"))
	assert.InDelta(t, time.Hour.Seconds(), mr.TTL("sessions:sid-1").Seconds(), 5)

	got, err := repo.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, session.UserID, got.UserID)
	assert.True(t, session.ExpiresAt.Equal(got.ExpiresAt))
	assert.True(t, session.CreatedAt.Equal(got.CreatedAt))

	require.NoError(t, repo.Delete(ctx, "sid-1"))
	_, err = repo.Get(ctx, "sid-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionExpiresWithTTL(t *testing.T) {
	mr, repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.Session{
		ID:        "sid-2",
		UserID:    uuid.New(),
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Minute),
	}))

	mr.FastForward(2 * time.Minute)

	_, err := repo.Get(ctx, "sid-2")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionCreateRejectsInvalid(t *testing.T) {
	_, repo := newTestRepo(t)
	ctx := context.Background()

	err := repo.Create(ctx, &domain.Session{ID: "", UserID: uuid.New(), ExpiresAt: time.Now().Add(time.Hour)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = repo.Create(ctx, &domain.Session{ID: "sid", UserID: uuid.New(), ExpiresAt: time.Now().Add(-time.Second)})
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
}
