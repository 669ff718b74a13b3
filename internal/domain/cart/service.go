// internal/domain/cart/service.go
package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-client/internal/domain/catalog"
	"github.com/your-org/storefront-client/internal/domain/identity"
	"github.com/your-org/storefront-client/internal/infrastructure/storage"
	"github.com/your-org/storefront-client/internal/signal"
)

// ErrIdentityUnresolved is returned when a mutating cart call races a login
// whose user id has not been resolved yet. Callers retry once the identity
// state settles.
var ErrIdentityUnresolved = fmt.Errorf("identity not resolved yet")

// Service is the single entry point for every cart-consuming surface. Each
// call dispatches on the current identity: anonymous operations run against
// the identity-scoped local cart, authenticated ones against the remote cart
// service. The derived unit-count signal is owned here; subscribers are
// strictly downstream consumers.
type Service struct {
	session *identity.Session
	remote  *Remote
	catalog *catalog.Client
	local   *LocalCart
	count   *signal.Value[int]
	logger  *logrus.Logger
}

// NewService builds the cart facade. store carries the identity-scoped local
// entries; the facade derives keys from the session.
func NewService(session *identity.Session, remote *Remote, catalogClient *catalog.Client,
	store storage.KV, logger *logrus.Logger) *Service {

	count := signal.NewValue(0, logger)
	return &Service{
		session: session,
		remote:  remote,
		catalog: catalogClient,
		local:   NewLocalCart(store, session.StorageKey, count, logger),
		count:   count,
		logger:  logger,
	}
}

// Local exposes the local store to the reconciler
func (s *Service) Local() *LocalCart {
	return s.local
}

// Count returns the current unit count
func (s *Service) Count() int {
	return s.count.Get()
}

// WatchCount subscribes to the unit-count signal; the current count is
// delivered first
func (s *Service) WatchCount(buffer int) (<-chan int, func()) {
	return s.count.Watch(buffer)
}

// RefreshCount recomputes the unit count from the authoritative side of the
// current identity. A failed remote count degrades to zero, matching the
// badge behavior of the web client.
func (s *Service) RefreshCount(ctx context.Context) {
	state := s.session.State()
	switch {
	case state.Resolved:
		n, err := s.remote.CountUnits(ctx, state.UserID)
		if err != nil {
			s.logger.WithError(err).Warn("failed to fetch remote cart count")
			n = 0
		}
		s.count.Set(n)
	case state.Authenticated:
		// Token present but user not resolved yet; the reconciler refreshes
		// once the identity settles.
	default:
		s.count.Set(s.local.Units())
	}
}

// AddToCart adds quantity units of a product to the cart of the current
// identity. For an existing line the quantity is merged additively, so the
// cart never holds two lines for the same product.
func (s *Service) AddToCart(ctx context.Context, productID int64, quantity int) error {
	if productID <= 0 {
		return fmt.Errorf("invalid product id %d", productID)
	}
	if quantity < 1 {
		return fmt.Errorf("quantity must be at least 1")
	}

	state := s.session.State()
	switch {
	case state.Resolved:
		result, err := s.remote.Add(ctx, state.UserID, productID, quantity)
		if err != nil {
			return err
		}
		s.count.Set(Units(result.Items))
		return nil
	case state.Authenticated:
		return ErrIdentityUnresolved
	default:
		items := s.local.Get()
		merged := false
		for i := range items {
			if items[i].ProductID == productID {
				items[i].Quantity += quantity
				merged = true
				break
			}
		}
		if !merged {
			// Local lines carry id 0: no remote identity exists to assign one
			items = append(items, Line{ID: 0, ProductID: productID, Quantity: quantity})
		}
		return s.local.Set(items)
	}
}

// GetCart returns the lines of the current identity's cart, each enriched
// with a product snapshot. Remote lines arrive enriched by the cart service;
// locally-originated lines are completed here with one concurrent lookup per
// missing snapshot. Enrichment is best effort: a failed lookup keeps the line
// with its last-known snapshot.
func (s *Service) GetCart(ctx context.Context) ([]Line, error) {
	var items []Line

	state := s.session.State()
	switch {
	case state.Resolved:
		result, err := s.remote.Get(ctx, state.UserID)
		if err != nil {
			return nil, err
		}
		items = result.Items
	case state.Authenticated:
		return nil, ErrIdentityUnresolved
	default:
		items = s.local.Get()
	}

	s.enrich(ctx, items)
	return items, nil
}

// UpdateItem sets a line's quantity; a quantity <= 0 removes the line. The
// remote path addresses lines by server item id, the local path by product id
// since local ids are all zero.
func (s *Service) UpdateItem(ctx context.Context, itemID int64, quantity int, productID int64) error {
	if quantity < 0 {
		quantity = 0
	}

	state := s.session.State()
	switch {
	case state.Resolved:
		result, err := s.remote.UpdateItem(ctx, state.UserID, itemID, quantity)
		if err != nil {
			return err
		}
		s.count.Set(Units(result.Items))
		return nil
	case state.Authenticated:
		return ErrIdentityUnresolved
	default:
		items := s.local.Get()
		kept := items[:0]
		for _, item := range items {
			if item.ProductID == productID {
				item.Quantity = quantity
				if item.Quantity <= 0 {
					continue
				}
			}
			kept = append(kept, item)
		}
		return s.local.Set(kept)
	}
}

// ClearCart removes every line of the current identity's cart
func (s *Service) ClearCart(ctx context.Context) error {
	state := s.session.State()
	switch {
	case state.Resolved:
		if err := s.remote.Clear(ctx, state.UserID); err != nil {
			return err
		}
		s.count.Set(0)
		return nil
	case state.Authenticated:
		return ErrIdentityUnresolved
	default:
		return s.local.Clear()
	}
}

// enrich completes snapshot-less lines with concurrent catalog lookups
func (s *Service) enrich(ctx context.Context, items []Line) {
	var wg sync.WaitGroup
	for i := range items {
		if items[i].Product != nil {
			continue
		}
		wg.Add(1)
		go func(line *Line) {
			defer wg.Done()
			product, err := s.catalog.Product(ctx, line.ProductID)
			if err != nil {
				s.logger.WithError(err).
					WithField("product_id", line.ProductID).
					Warn("failed to enrich cart line")
				return
			}
			line.Product = product
		}(&items[i])
	}
	wg.Wait()
}
