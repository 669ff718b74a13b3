// internal/domain/order/service.go
package order

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-client/internal/domain/cart"
	"github.com/your-org/storefront-client/internal/domain/identity"
	"github.com/your-org/storefront-client/internal/domain/stock"
	"github.com/your-org/storefront-client/internal/pkg/rest"
)

// ErrNotLoggedIn is returned for order operations that require a resolved
// authenticated identity
var ErrNotLoggedIn = fmt.Errorf("login required")

// ErrEmptyCart is returned when checkout finds nothing to order
var ErrEmptyCart = fmt.Errorf("cart is empty")

// Service drives the order lifecycle. Both stock-affecting operations,
// checkout and deletion, end by broadcasting fresh snapshots of the touched
// products so every open surface stays consistent.
type Service struct {
	rest    *rest.Client
	session *identity.Session
	cart    *cart.Service
	stocks  *stock.Broadcaster
	logger  *logrus.Logger
}

// NewService wires the order flow
func NewService(restClient *rest.Client, session *identity.Session,
	cartService *cart.Service, stocks *stock.Broadcaster, logger *logrus.Logger) *Service {
	return &Service{
		rest:    restClient,
		session: session,
		cart:    cartService,
		stocks:  stocks,
		logger:  logger,
	}
}

// Checkout turns the current cart into an order: create the order, clear the
// cart, then broadcast the decremented stocks. The order service computes
// totals and adjusts stock; only product ids and quantities are sent.
func (s *Service) Checkout(ctx context.Context) (*Order, error) {
	state := s.session.State()
	if !state.Resolved {
		return nil, ErrNotLoggedIn
	}

	lines, err := s.cart.GetCart(ctx)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	payload := createRequest{UserID: state.UserID}
	for _, line := range lines {
		payload.Items = append(payload.Items, requestItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		})
	}

	var placed Order
	if err := s.rest.Do(ctx, http.MethodPost, "/api/orders", nil, payload, &placed); err != nil {
		return nil, err
	}

	// The order exists now; a failed cart clear must not unwind it
	if err := s.cart.ClearCart(ctx); err != nil {
		s.logger.WithError(err).WithField("order_id", placed.ID).
			Warn("order placed but cart clear failed")
	}

	s.stocks.RefreshStocks(ctx, cart.ProductIDs(lines))

	s.logger.WithFields(logrus.Fields{
		"order_id": placed.ID,
		"lines":    len(payload.Items),
	}).Info("order placed")

	return &placed, nil
}

// Delete cancels an order and broadcasts the restored stocks of its products
func (s *Service) Delete(ctx context.Context, orderID int64) error {
	placed, err := s.Get(ctx, orderID)
	if err != nil {
		return err
	}

	path := fmt.Sprintf("/api/orders/%d", orderID)
	if err := s.rest.Do(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return err
	}

	s.stocks.RefreshStocks(ctx, placed.ProductIDs())

	s.logger.WithField("order_id", orderID).Info("order deleted")
	return nil
}

// Get fetches one order
func (s *Service) Get(ctx context.Context, orderID int64) (*Order, error) {
	var result Order
	path := fmt.Sprintf("/api/orders/%d", orderID)
	if err := s.rest.Do(ctx, http.MethodGet, path, nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListMine returns the resolved user's orders
func (s *Service) ListMine(ctx context.Context) ([]Order, error) {
	state := s.session.State()
	if !state.Resolved {
		return nil, ErrNotLoggedIn
	}

	var result []Order
	path := fmt.Sprintf("/api/orders/user/%d", state.UserID)
	if err := s.rest.Do(ctx, http.MethodGet, path, nil, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}
