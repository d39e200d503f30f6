// ABOUTME: Product CRUD calls against /products
// ABOUTME: Every call is authenticated with the current session token

package client

import (
	"context"
	"net/http"
	"net/url"
)

func productPath(id ProductID) string {
	return "/products/" + url.PathEscape(id.String())
}

// ListProducts calls GET /products with the filter as query parameters
func (c *Client) ListProducts(ctx context.Context, filter Filter) ([]Product, error) {
	var products []Product
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/products",
		query:  filter.Query(),
		auth:   true,
	}, &products)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []Product{}
	}
	return products, nil
}

// GetProduct calls GET /products/{id}
func (c *Client) GetProduct(ctx context.Context, id ProductID) (*Product, error) {
	var p Product
	if err := c.do(ctx, request{
		method: http.MethodGet,
		path:   productPath(id),
		auth:   true,
	}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProduct calls POST /products
func (c *Client) CreateProduct(ctx context.Context, input ProductInput) (*Product, error) {
	var p Product
	if err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/products",
		body:   input,
		auth:   true,
	}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProduct calls PUT /products/{id}
func (c *Client) UpdateProduct(ctx context.Context, id ProductID, input ProductInput) (*Product, error) {
	var p Product
	if err := c.do(ctx, request{
		method: http.MethodPut,
		path:   productPath(id),
		body:   input,
		auth:   true,
	}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProduct calls DELETE /products/{id}
func (c *Client) DeleteProduct(ctx context.Context, id ProductID) error {
	return c.do(ctx, request{
		method: http.MethodDelete,
		path:   productPath(id),
		auth:   true,
	}, nil)
}
