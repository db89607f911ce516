package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/wealthguard/internal/domain"
)

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, "", ttl), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, mr := newRedisStore(t, time.Hour)
	ctx := context.Background()

	sess := domain.Session{
		ID:              "s1",
		CurrentUser:     domain.Identity{ID: "f_acc", Name: "Frank Family", Role: domain.RoleCustomer, AssignedTo: domain.StringPtr("d")},
		ActingUser:      domain.Identity{ID: "b", Name: "Bob (Admin)", Role: domain.RoleAdmin},
		IsImpersonating: true,
	}
	require.NoError(t, store.Save(ctx, sess))
	assert.True(t, mr.Exists("wealthguard:session:s1"))
	assert.Equal(t, time.Hour, mr.TTL("wealthguard:session:s1"))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, sess, got)

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Get(ctx, "s1")
	require.ErrorIs(t, err, ErrNoSession)
}

func TestRedisStoreExpiry(t *testing.T) {
	store, mr := newRedisStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.Session{ID: "s1"}))
	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, "s1")
	require.ErrorIs(t, err, ErrNoSession)
}

func TestControllerOverRedisStore(t *testing.T) {
	f := newFixture(t)
	store, _ := newRedisStore(t, time.Hour)
	f.controller.store = store
	ctx := context.Background()

	sess := f.login(t, "a")
	started, err := f.controller.StartImpersonation(ctx, sess.ID, "i_acc")
	require.NoError(t, err)

	current, err := f.controller.Current(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, started, current)
}
