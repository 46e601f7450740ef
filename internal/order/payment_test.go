package order_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MikeMC777/orders-api/internal/order"
)

func TestRandomGateway_Bounds(t *testing.T) {
	always := order.NewRandomGateway(1)
	never := order.NewRandomGateway(0)
	for i := 0; i < 100; i++ {
		assert.True(t, always.Authorize(context.Background(), nil))
		assert.False(t, never.Authorize(context.Background(), nil))
	}
}

func TestNewRandomGateway_ClampsRate(t *testing.T) {
	assert.Equal(t, 0.0, order.NewRandomGateway(-0.5).SuccessRate)
	assert.Equal(t, 1.0, order.NewRandomGateway(3).SuccessRate)
	assert.Equal(t, order.DefaultSuccessRate, order.NewRandomGateway(order.DefaultSuccessRate).SuccessRate)
}

func TestRandomGateway_RoughlyMatchesRate(t *testing.T) {
	g := order.NewRandomGateway(order.DefaultSuccessRate)
	const n = 10000
	approved := 0
	for i := 0; i < n; i++ {
		if g.Authorize(context.Background(), nil) {
			approved++
		}
	}
	// 0.8 ± 0.05 is many standard deviations wide at n=10000
	assert.InDelta(t, 0.8, float64(approved)/n, 0.05)
}

func TestFixedGateways(t *testing.T) {
	assert.True(t, order.Approve.Authorize(context.Background(), &order.Order{}))
	assert.False(t, order.Decline.Authorize(context.Background(), &order.Order{}))
}
