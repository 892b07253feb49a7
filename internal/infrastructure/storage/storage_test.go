package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/foodie-backend/internal/pkg/testutil"
)

func TestSessionStore(t *testing.T) {
	mr, client := testutil.NewRedis(t)
	store := NewSessionStore(client, time.Hour)
	ctx := context.Background()

	_, err := store.Get(ctx, "tab-1", "checkoutCart")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, "tab-1", "checkoutCart", `[{"id":"1"}]`))
	assert.True(t, mr.Exists("foodie:tab-1:checkoutCart"))
	assert.Equal(t, time.Hour, mr.TTL("foodie:tab-1:checkoutCart"))

	val, err := store.Get(ctx, "tab-1", "checkoutCart")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, val)

	// another tab sees nothing
	_, err = store.Get(ctx, "tab-2", "checkoutCart")
	assert.ErrorIs(t, err, ErrNotFound)

	mr.FastForward(2 * time.Hour)
	_, err = store.Get(ctx, "tab-1", "checkoutCart")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Delete(ctx, "tab-1", "missing"))
}

func TestSessionStoreUnavailable(t *testing.T) {
	mr, client := testutil.NewRedis(t)
	store := NewSessionStore(client, time.Hour)
	mr.Close()

	err := store.Set(context.Background(), "tab-1", "checkoutCart", "[]")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestDurableStoreUpsert(t *testing.T) {
	db := testutil.NewDB(t, &Entry{})
	store := NewDurableStore(db)
	ctx := context.Background()

	_, err := store.Get(ctx, "device-1", "theme")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, "device-1", "theme", "light"))
	require.NoError(t, store.Set(ctx, "device-1", "theme", "dark"))
	require.NoError(t, store.Set(ctx, "device-2", "theme", "light"))

	val, err := store.Get(ctx, "device-1", "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", val)

	var count int64
	require.NoError(t, db.Model(&Entry{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	require.NoError(t, store.Delete(ctx, "device-1", "theme"))
	_, err = store.Get(ctx, "device-1", "theme")
	assert.ErrorIs(t, err, ErrNotFound)
}
