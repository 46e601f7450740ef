package order

import (
	"context"
	"errors"
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"
)

var (
	// ErrValidation is returned when a checkout misses the email or the cart.
	ErrValidation = errors.New("email and cart items are required")

	// ErrIncompleteItem is returned for a cart line without name, price or quantity.
	ErrIncompleteItem = errors.New("cart item requires name, price and quantity")

	// ErrAmountOutOfRange is returned when the order total does not fit a float64.
	ErrAmountOutOfRange = errors.New("order amount out of range")
)

// Notifier is told about every order whose payment got resolved.
type Notifier interface {
	OrderResolved(ctx context.Context, o Order) error
}

type Service struct {
	repo     Repository
	payments PaymentGateway
	notifier Notifier
	logger   *log.Entry
}

type Option func(*Service)

func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

func WithLogger(l *log.Entry) Option {
	return func(s *Service) { s.logger = l }
}

func NewService(repo Repository, payments PaymentGateway, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		payments: payments,
		logger:   log.WithField("component", "order-service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Checkout persists a Pending order, runs the payment decision and stores the
// resulting terminal status. The returned order is never Pending.
func (s *Service) Checkout(ctx context.Context, req CheckoutRequest) (*Order, error) {
	if req.Email == "" || len(req.CartItems) == 0 {
		return nil, ErrValidation
	}

	items, err := req.items()
	if err != nil {
		return nil, err
	}
	amount := Total(items)
	if math.IsInf(amount, 0) || math.IsNaN(amount) {
		return nil, ErrAmountOutOfRange
	}
	o := &Order{
		Email:  req.Email,
		Items:  items,
		Amount: amount,
		Status: StatusPending,
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	next := StatusFailed
	if s.payments.Authorize(ctx, o) {
		next = StatusSuccess
	}

	resolved, err := s.repo.UpdateStatus(ctx, o.ID, next)
	if err != nil {
		return nil, fmt.Errorf("set order %s status %s: %w", o.ID, next, err)
	}

	s.logger.WithFields(log.Fields{
		"order_id": resolved.ID,
		"status":   resolved.Status,
		"amount":   resolved.Amount,
	}).Info("checkout resolved")

	if s.notifier != nil {
		if err := s.notifier.OrderResolved(ctx, *resolved); err != nil {
			s.logger.WithError(err).WithField("order_id", resolved.ID).Warn("notify resolved order")
		}
	}
	return resolved, nil
}

// ListOrders returns every order, newest first.
func (s *Service) ListOrders(ctx context.Context) ([]Order, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if orders == nil {
		orders = []Order{}
	}
	return orders, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", id, err)
	}
	return o, nil
}
