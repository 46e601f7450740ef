package order

import "fmt"

// CartItem line item of a checkout request. Price and Quantity are pointers
// so that an absent field is told apart from an explicit zero.
// swagger:model CartItem
type CartItem struct {
	Name     string   `json:"name"     example:"Widget"`
	Price    *float64 `json:"price"    example:"10"`
	Quantity *int     `json:"quantity" example:"2"`
}

// CheckoutRequest payload of POST /api/payment/checkout-session.
// swagger:model CheckoutRequest
type CheckoutRequest struct {
	Email     string     `json:"email"     example:"a@b.com"`
	CartItems []CartItem `json:"cartItems"`
}

// CheckoutResponse is returned for both approved and declined payments.
// swagger:model CheckoutResponse
type CheckoutResponse struct {
	Message string `json:"message" example:"Payment successful"`
	Order   *Order `json:"order"`
}

// HTTPError represents a standard error in JSON.
// swagger:model
type HTTPError struct {
	// example: Order not found
	Error string `json:"error"`
}

// items converts the cart into order lines. Every line needs a name, a price
// and a quantity; their values are not range checked.
func (r CheckoutRequest) items() ([]Item, error) {
	out := make([]Item, 0, len(r.CartItems))
	for i, ci := range r.CartItems {
		if ci.Name == "" || ci.Price == nil || ci.Quantity == nil {
			return nil, fmt.Errorf("cart item %d: %w", i, ErrIncompleteItem)
		}
		out = append(out, Item{Name: ci.Name, Price: *ci.Price, Quantity: *ci.Quantity})
	}
	return out, nil
}
