package api

import (
	"context"
	"fmt"
)

func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var out []Product
	if err := c.do(ctx, "GET", "/api/products", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetProduct(ctx context.Context, id int64) (Product, error) {
	var out Product
	if err := c.do(ctx, "GET", fmt.Sprintf("/api/products/%d", id), nil, &out); err != nil {
		return Product{}, err
	}
	return out, nil
}

func (c *Client) CreateProduct(ctx context.Context, in NewProduct) (Product, error) {
	var out Product
	if err := c.do(ctx, "POST", "/api/products", in, &out); err != nil {
		return Product{}, err
	}
	return out, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, in NewProduct) (Product, error) {
	var out Product
	if err := c.do(ctx, "PUT", fmt.Sprintf("/api/products/%d", id), in, &out); err != nil {
		return Product{}, err
	}
	return out, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, "DELETE", fmt.Sprintf("/api/products/%d", id), nil, nil)
}

func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var out []Category
	if err := c.do(ctx, "GET", "/api/categories", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateCategory(ctx context.Context, in NewCategory) (Category, error) {
	var out Category
	if err := c.do(ctx, "POST", "/api/categories", in, &out); err != nil {
		return Category{}, err
	}
	return out, nil
}

func (c *Client) UpdateCategory(ctx context.Context, id int64, in NewCategory) (Category, error) {
	var out Category
	if err := c.do(ctx, "PUT", fmt.Sprintf("/api/categories/%d", id), in, &out); err != nil {
		return Category{}, err
	}
	return out, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	return c.do(ctx, "DELETE", fmt.Sprintf("/api/categories/%d", id), nil, nil)
}
