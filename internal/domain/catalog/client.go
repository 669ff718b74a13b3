// internal/domain/catalog/client.go
package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/your-org/storefront-client/internal/pkg/rest"
)

// Client reads from the catalog service
type Client struct {
	rest *rest.Client
}

// NewClient creates a catalog client over the shared REST transport
func NewClient(restClient *rest.Client) *Client {
	return &Client{rest: restClient}
}

// Product fetches a single product snapshot
func (c *Client) Product(ctx context.Context, id int64) (*Product, error) {
	var product Product
	path := fmt.Sprintf("/api/products/%d", id)
	if err := c.rest.Do(ctx, http.MethodGet, path, nil, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// List returns one page of the catalog
func (c *Client) List(ctx context.Context, page, size int) (*Page, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))

	var result Page
	if err := c.rest.Do(ctx, http.MethodGet, "/api/products", query, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Search returns one page of products matching term
func (c *Client) Search(ctx context.Context, term string, page, size int) (*Page, error) {
	query := url.Values{}
	query.Set("q", term)
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))

	var result Page
	if err := c.rest.Do(ctx, http.MethodGet, "/api/products/search", query, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
