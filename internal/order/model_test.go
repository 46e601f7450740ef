package order_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MikeMC777/orders-api/internal/order"
)

func TestTotal(t *testing.T) {
	tests := []struct {
		name  string
		items []order.Item
		want  float64
	}{
		{"single line", []order.Item{{Name: "Widget", Price: 10, Quantity: 2}}, 20},
		{"several lines", []order.Item{{Price: 1.25, Quantity: 4}, {Price: 3, Quantity: 1}}, 8},
		{"decimal fractions", []order.Item{{Price: 0.1, Quantity: 3}}, 0.3},
		{"cents", []order.Item{{Price: 19.99, Quantity: 3}, {Price: 0.01, Quantity: 1}}, 59.98},
		{"negative values kept as-is", []order.Item{{Price: -5, Quantity: 2}, {Price: 4, Quantity: -1}}, -14},
		{"zero quantity", []order.Item{{Price: 99, Quantity: 0}}, 0},
		{"no items", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, order.Total(tt.items))
		})
	}
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, order.StatusPending.Terminal())
	assert.True(t, order.StatusSuccess.Terminal())
	assert.True(t, order.StatusFailed.Terminal())
}
