package order

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo keeps orders in process memory. It backs local runs without a
// configured store and the service tests.
type MemoryRepo struct {
	mu     sync.RWMutex
	orders map[string]Order
	now    func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		orders: make(map[string]Order),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

var (
	_ Repository = (*MemoryRepo)(nil)
	_ Pinger     = (*MemoryRepo)(nil)
)

func (r *MemoryRepo) Ping(context.Context) error { return nil }

func (r *MemoryRepo) Create(_ context.Context, o *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o.ID = uuid.NewString()
	o.CreatedAt = r.now()
	o.UpdatedAt = o.CreatedAt
	r.orders[o.ID] = clone(*o)
	return nil
}

func (r *MemoryRepo) UpdateStatus(_ context.Context, id string, status Status) (*Order, error) {
	if !status.Terminal() {
		return nil, ErrInvalidStatus
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	if cur.Status != StatusPending {
		return nil, ErrStatusFinal
	}
	cur.Status = status
	cur.UpdatedAt = r.now()
	r.orders[id] = cur
	out := clone(cur)
	return &out, nil
}

func (r *MemoryRepo) GetByID(_ context.Context, id string) (*Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidID
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := clone(o)
	return &out, nil
}

func (r *MemoryRepo) List(context.Context) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, clone(o))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// clone copies the items slice so callers never share backing arrays with the store.
func clone(o Order) Order {
	o.Items = append([]Item(nil), o.Items...)
	return o
}
