package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"storefront/internal/domain"
)

func setupCatalog(t *testing.T) (*RedisCatalog, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCatalog(client, time.Minute), mr
}

func TestRedisCatalog_MissThenHit(t *testing.T) {
	catalog, _ := setupCatalog(t)
	ctx := context.Background()

	_, err := catalog.Get(ctx)
	assert.ErrorIs(t, err, ErrCacheMiss)

	products := []domain.Product{{ID: "p1", Name: "Widget", Price: 100}}
	require.NoError(t, catalog.Set(ctx, products))

	got, err := catalog.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, products[0].Name, got[0].Name)
	assert.Equal(t, products[0].Price, got[0].Price)
}

func TestRedisCatalog_EmptyListIsAHit(t *testing.T) {
	catalog, _ := setupCatalog(t)
	ctx := context.Background()

	require.NoError(t, catalog.Set(ctx, []domain.Product{}))
	got, err := catalog.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisCatalog_TTLAndInvalidate(t *testing.T) {
	catalog, mr := setupCatalog(t)
	ctx := context.Background()

	require.NoError(t, catalog.Set(ctx, []domain.Product{{Name: "Widget"}}))
	assert.Equal(t, time.Minute, mr.TTL(catalogKey))

	require.NoError(t, catalog.Invalidate(ctx))
	_, err := catalog.Get(ctx)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCatalog_CorruptValue(t *testing.T) {
	catalog, mr := setupCatalog(t)
	require.NoError(t, mr.Set(catalogKey, "{not json"))

	_, err := catalog.Get(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}
