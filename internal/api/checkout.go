package api

import "context"

// CreateCustomer registers the shopper's contact details and returns the
// server-assigned customer id.
func (c *Client) CreateCustomer(ctx context.Context, in NewCustomer) (Customer, error) {
	var out Customer
	if err := c.do(ctx, "POST", "/api/customers", in, &out); err != nil {
		return Customer{}, err
	}
	return out, nil
}

// CreateOrder submits an order for an existing customer. Items carry product id
// and quantity only; pricing is resolved server-side.
func (c *Client) CreateOrder(ctx context.Context, in NewOrder) (Order, error) {
	var out Order
	if err := c.do(ctx, "POST", "/api/orders", in, &out); err != nil {
		return Order{}, err
	}
	return out, nil
}
