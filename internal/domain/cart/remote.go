// internal/domain/cart/remote.go
package cart

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/your-org/storefront-client/internal/pkg/rest"
)

// Remote is the thin client to the authenticated cart service. All calls are
// scoped by userId; none of them retry.
type Remote struct {
	rest *rest.Client
}

// NewRemote creates a remote cart gateway over the shared REST transport
func NewRemote(restClient *rest.Client) *Remote {
	return &Remote{rest: restClient}
}

// Add merges quantity into the server-side line for productID, creating the
// line when absent, and returns the resulting cart. Additive per product id,
// which is what makes concurrent reconciliation calls order-independent.
func (r *Remote) Add(ctx context.Context, userID, productID int64, quantity int) (*Cart, error) {
	query := url.Values{}
	query.Set("userId", strconv.FormatInt(userID, 10))
	query.Set("productId", strconv.FormatInt(productID, 10))
	query.Set("quantity", strconv.Itoa(quantity))

	var result Cart
	if err := r.rest.Do(ctx, http.MethodPost, "/api/cart/add", query, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Get fetches the full cart
func (r *Remote) Get(ctx context.Context, userID int64) (*Cart, error) {
	var result Cart
	path := fmt.Sprintf("/api/cart/%d", userID)
	if err := r.rest.Do(ctx, http.MethodGet, path, nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateItem sets a line's quantity by server item id; a quantity <= 0 removes
// the line
func (r *Remote) UpdateItem(ctx context.Context, userID, itemID int64, quantity int) (*Cart, error) {
	query := url.Values{}
	query.Set("userId", strconv.FormatInt(userID, 10))
	query.Set("itemId", strconv.FormatInt(itemID, 10))
	query.Set("quantity", strconv.Itoa(quantity))

	var result Cart
	if err := r.rest.Do(ctx, http.MethodPut, "/api/cart/item", query, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Clear removes every line
func (r *Remote) Clear(ctx context.Context, userID int64) error {
	path := fmt.Sprintf("/api/cart/%d/clear", userID)
	return r.rest.Do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// CountUnits is the cheap sum-of-quantities query backing the badge
func (r *Remote) CountUnits(ctx context.Context, userID int64) (int, error) {
	var count int
	path := fmt.Sprintf("/api/cart/%d/count/units", userID)
	if err := r.rest.Do(ctx, http.MethodGet, path, nil, nil, &count); err != nil {
		return 0, err
	}
	return count, nil
}

// CountDistinct counts distinct product lines
func (r *Remote) CountDistinct(ctx context.Context, userID int64) (int, error) {
	var count int
	path := fmt.Sprintf("/api/cart/%d/count/distinct", userID)
	if err := r.rest.Do(ctx, http.MethodGet, path, nil, nil, &count); err != nil {
		return 0, err
	}
	return count, nil
}
