package order_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/orders-api/internal/order"
)

type mapCache struct {
	data   map[string]string
	ttls   map[string]time.Duration
	getErr error
	setErr error
}

func newMapCache() *mapCache {
	return &mapCache{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *mapCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	switch v := value.(type) {
	case []byte:
		m.data[key] = string(v)
	default:
		m.data[key] = fmt.Sprint(v)
	}
	m.ttls[key] = ttl
	return nil
}

func (m *mapCache) Get(_ context.Context, key string) (string, error) {
	if m.getErr != nil {
		return "", m.getErr
	}
	return m.data[key], nil
}

func (m *mapCache) GenerateKey(operation, key string) string {
	return "test:" + operation + ":" + key
}

// countingGets counts lookups that reach the store.
type countingGets struct {
	*order.MemoryRepo
	gets int
}

func (c *countingGets) GetByID(ctx context.Context, id string) (*order.Order, error) {
	c.gets++
	return c.MemoryRepo.GetByID(ctx, id)
}

func TestCachedRepository_CachesResolvedOrders(t *testing.T) {
	ctx := context.Background()
	inner := &countingGets{MemoryRepo: order.NewMemoryRepo()}
	c := newMapCache()
	repo := order.NewCachedRepository(inner, c, time.Minute)

	o := &order.Order{Email: "a@b.com", Items: []order.Item{{Name: "W", Price: 1, Quantity: 1}}, Amount: 1, Status: order.StatusPending}
	require.NoError(t, repo.Create(ctx, o))
	assert.Empty(t, c.data, "pending orders are not cached")

	resolved, err := repo.UpdateStatus(ctx, o.ID, order.StatusSuccess)
	require.NoError(t, err)
	assert.Contains(t, c.data, "test:order:"+o.ID)
	assert.Equal(t, time.Minute, c.ttls["test:order:"+o.ID])

	got, err := repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, resolved.ID, got.ID)
	assert.Equal(t, order.StatusSuccess, got.Status)
	assert.Zero(t, inner.gets, "served from cache")
}

func TestCachedRepository_NeverCachesPending(t *testing.T) {
	ctx := context.Background()
	inner := &countingGets{MemoryRepo: order.NewMemoryRepo()}
	c := newMapCache()
	repo := order.NewCachedRepository(inner, c, time.Minute)

	o := &order.Order{Email: "a@b.com", Status: order.StatusPending}
	require.NoError(t, repo.Create(ctx, o))

	for i := 0; i < 2; i++ {
		got, err := repo.GetByID(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, order.StatusPending, got.Status)
	}
	assert.Equal(t, 2, inner.gets)
	assert.Empty(t, c.data)
}

func TestCachedRepository_FallsThroughOnCacheErrors(t *testing.T) {
	ctx := context.Background()
	inner := &countingGets{MemoryRepo: order.NewMemoryRepo()}
	c := newMapCache()
	c.getErr = errors.New("redis down")
	c.setErr = errors.New("redis down")
	repo := order.NewCachedRepository(inner, c, time.Minute)

	o := &order.Order{Email: "a@b.com", Status: order.StatusPending}
	require.NoError(t, repo.Create(ctx, o))
	_, err := repo.UpdateStatus(ctx, o.ID, order.StatusFailed)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusFailed, got.Status)
	assert.Equal(t, 1, inner.gets)
}

func TestCachedRepository_DropsCorruptEntries(t *testing.T) {
	ctx := context.Background()
	inner := &countingGets{MemoryRepo: order.NewMemoryRepo()}
	c := newMapCache()
	repo := order.NewCachedRepository(inner, c, time.Minute)

	o := &order.Order{Email: "a@b.com", Status: order.StatusPending}
	require.NoError(t, repo.Create(ctx, o))
	c.data["test:order:"+o.ID] = "{not json"

	got, err := repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)
	assert.Equal(t, 1, inner.gets)
}

func TestCachedRepository_PropagatesNotFound(t *testing.T) {
	repo := order.NewCachedRepository(order.NewMemoryRepo(), newMapCache(), time.Minute)

	_, err := repo.GetByID(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, order.ErrNotFound)
	assert.NoError(t, repo.Ping(context.Background()))
}
