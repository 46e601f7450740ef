package order

import (
	"context"
	"math/rand"
)

// DefaultSuccessRate is the share of simulated payments that get approved.
const DefaultSuccessRate = 0.8

// PaymentGateway decides whether the charge for a pending order goes through.
type PaymentGateway interface {
	Authorize(ctx context.Context, o *Order) bool
}

// PaymentFunc adapts a plain function to PaymentGateway.
type PaymentFunc func(ctx context.Context, o *Order) bool

func (f PaymentFunc) Authorize(ctx context.Context, o *Order) bool { return f(ctx, o) }

// Approve and Decline always return the same outcome.
var (
	Approve PaymentGateway = PaymentFunc(func(context.Context, *Order) bool { return true })
	Decline PaymentGateway = PaymentFunc(func(context.Context, *Order) bool { return false })
)

// RandomGateway approves a charge with probability SuccessRate. Every call is
// an independent draw from the runtime's unseeded source.
type RandomGateway struct {
	SuccessRate float64
}

func NewRandomGateway(rate float64) RandomGateway {
	switch {
	case rate < 0:
		rate = 0
	case rate > 1:
		rate = 1
	}
	return RandomGateway{SuccessRate: rate}
}

func (g RandomGateway) Authorize(context.Context, *Order) bool {
	return rand.Float64() < g.SuccessRate
}
