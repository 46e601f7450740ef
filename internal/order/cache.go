package order

import (
	"context"
	"encoding/json"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/MikeMC777/orders-api/internal/cache"
)

// CachedRepository serves GetByID from a cache in front of another
// Repository. Only terminal orders are cached: their documents never change.
// Cache errors are logged and the store answers instead.
type CachedRepository struct {
	Repository
	cache  cache.Cache
	ttl    time.Duration
	logger *log.Entry
}

func NewCachedRepository(repo Repository, c cache.Cache, ttl time.Duration) *CachedRepository {
	return &CachedRepository{
		Repository: repo,
		cache:      c,
		ttl:        ttl,
		logger:     log.WithField("component", "order-cache"),
	}
}

func (r *CachedRepository) UpdateStatus(ctx context.Context, id string, status Status) (*Order, error) {
	o, err := r.Repository.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	r.store(ctx, o)
	return o, nil
}

func (r *CachedRepository) GetByID(ctx context.Context, id string) (*Order, error) {
	key := r.cache.GenerateKey("order", id)
	raw, err := r.cache.Get(ctx, key)
	if err != nil {
		r.logger.WithError(err).WithField("key", key).Warn("cache get")
	}
	if raw != "" {
		var o Order
		if err := json.Unmarshal([]byte(raw), &o); err == nil {
			return &o, nil
		}
		r.logger.WithField("key", key).Warn("dropping undecodable cache entry")
	}

	o, err := r.Repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.store(ctx, o)
	return o, nil
}

// Ping forwards to the wrapped store when it supports it.
func (r *CachedRepository) Ping(ctx context.Context) error {
	if p, ok := r.Repository.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (r *CachedRepository) store(ctx context.Context, o *Order) {
	if !o.Status.Terminal() {
		return
	}
	b, err := json.Marshal(o)
	if err != nil {
		return
	}
	key := r.cache.GenerateKey("order", o.ID)
	if err := r.cache.Set(ctx, key, b, r.ttl); err != nil {
		r.logger.WithError(err).WithField("key", key).Warn("cache set")
	}
}
