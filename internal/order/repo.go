package order

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound      = errors.New("order not found")
	ErrInvalidID     = errors.New("invalid order id")
	ErrStatusFinal   = errors.New("order status already final")
	ErrInvalidStatus = errors.New("order status must be Success or Failed")
)

const opTimeout = 5 * time.Second

// Repository is the document store holding orders. Create assigns the id and
// both timestamps. UpdateStatus only moves a Pending order and returns the
// stored document; the target status must be terminal.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	UpdateStatus(ctx context.Context, id string, status Status) (*Order, error)
	GetByID(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context) ([]Order, error)
}

// Pinger is implemented by stores that can report their availability.
type Pinger interface {
	Ping(ctx context.Context) error
}

//go:embed sql/schema.sql
var schemaSQL string

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

var (
	_ Repository = (*PGRepo)(nil)
	_ Pinger     = (*PGRepo)(nil)
)

// EnsureSchema creates the orders table when missing.
func (r *PGRepo) EnsureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := r.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply orders schema: %w", err)
	}
	return nil
}

func (r *PGRepo) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return r.db.Ping(ctx)
}

func (r *PGRepo) Create(ctx context.Context, o *Order) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}
	if err := r.db.QueryRow(ctx, `
		INSERT INTO orders (email, items, amount, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,NOW(),NOW())
		RETURNING id::text, created_at, updated_at
	`, o.Email, items, o.Amount, string(o.Status)).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *PGRepo) UpdateStatus(ctx context.Context, id string, status Status) (*Order, error) {
	if !status.Terminal() {
		return nil, ErrInvalidStatus
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidID
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	o, err := scanOrder(r.db.QueryRow(ctx, `
		UPDATE orders
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = $3
		RETURNING id::text, email, items, amount, status, created_at, updated_at
	`, id, string(status), string(StatusPending)))
	if err == nil {
		return o, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	var current string
	if err := r.db.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1`, id).Scan(&current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select order status: %w", err)
	}
	return nil, ErrStatusFinal
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidID
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	o, err := scanOrder(r.db.QueryRow(ctx, `
		SELECT id::text, email, items, amount, status, created_at, updated_at
		FROM orders WHERE id=$1
	`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select order: %w", err)
	}
	return o, nil
}

func (r *PGRepo) List(ctx context.Context) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id::text, email, items, amount, status, created_at, updated_at
		FROM orders
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	out := make([]Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*Order, error) {
	var (
		o      Order
		items  []byte
		status string
	)
	if err := row.Scan(&o.ID, &o.Email, &items, &o.Amount, &status, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	o.Status = Status(status)
	return &o, nil
}
