package api

import (
	"context"
	"fmt"
)

func (c *Client) ListOrders(ctx context.Context) ([]Order, error) {
	var out []Order
	if err := c.do(ctx, "GET", "/api/orders", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetOrder(ctx context.Context, id int64) (Order, error) {
	var out Order
	if err := c.do(ctx, "GET", fmt.Sprintf("/api/orders/%d", id), nil, &out); err != nil {
		return Order{}, err
	}
	return out, nil
}

// UpdateOrderStatus patches only the status field. Transition validity is
// pre-checked with CanTransition by the caller.
func (c *Client) UpdateOrderStatus(ctx context.Context, id int64, status Status) (Order, error) {
	var out Order
	in := map[string]Status{"status": status}
	if err := c.do(ctx, "PATCH", fmt.Sprintf("/api/orders/%d", id), in, &out); err != nil {
		return Order{}, err
	}
	return out, nil
}

func (c *Client) ListCustomers(ctx context.Context) ([]Customer, error) {
	var out []Customer
	if err := c.do(ctx, "GET", "/api/customers", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetCustomer(ctx context.Context, id int64) (Customer, error) {
	var out Customer
	if err := c.do(ctx, "GET", fmt.Sprintf("/api/customers/%d", id), nil, &out); err != nil {
		return Customer{}, err
	}
	return out, nil
}

func (c *Client) GetSettings(ctx context.Context) (Settings, error) {
	var out Settings
	if err := c.do(ctx, "GET", "/api/settings", nil, &out); err != nil {
		return Settings{}, err
	}
	return out, nil
}

func (c *Client) UpdateSettings(ctx context.Context, in Settings) (Settings, error) {
	var out Settings
	if err := c.do(ctx, "PUT", "/api/settings", in, &out); err != nil {
		return Settings{}, err
	}
	return out, nil
}

func (c *Client) AnalyticsSummary(ctx context.Context) (AnalyticsSummary, error) {
	var out AnalyticsSummary
	if err := c.do(ctx, "GET", "/api/analytics/summary", nil, &out); err != nil {
		return AnalyticsSummary{}, err
	}
	return out, nil
}
