// internal/domain/stock/broadcaster.go
package stock

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-client/internal/domain/catalog"
	"github.com/your-org/storefront-client/internal/signal"
)

// Broadcaster keeps product-displaying surfaces consistent after stock has
// changed server-side. Order creation and deletion call RefreshStocks with
// the affected product ids; every subscribed surface receives the fresh
// snapshots and patches itself in place, without polling or a reload.
type Broadcaster struct {
	catalog *catalog.Client
	updates *signal.Hub[catalog.Product]
	logger  *logrus.Logger
}

// NewBroadcaster creates a broadcaster publishing on its own stock-update hub
func NewBroadcaster(catalogClient *catalog.Client, logger *logrus.Logger) *Broadcaster {
	return &Broadcaster{
		catalog: catalogClient,
		updates: signal.NewHub[catalog.Product](logger),
		logger:  logger,
	}
}

// Updates subscribes to the stock-update signal. The cancel function must be
// called when the consuming surface goes away.
func (b *Broadcaster) Updates(buffer int) (<-chan catalog.Product, func()) {
	return b.updates.Subscribe(buffer)
}

// RefreshStocks fetches the current snapshot of each distinct product id and
// republishes it. Lookups run concurrently and are best effort: one failed
// product does not stop the rest, it is only logged. An empty id set is a
// no-op.
func (b *Broadcaster) RefreshStocks(ctx context.Context, ids []int64) {
	unique := dedupe(ids)
	if len(unique) == 0 {
		return
	}

	products := make([]*catalog.Product, len(unique))
	var wg sync.WaitGroup
	for i, id := range unique {
		wg.Add(1)
		go func(slot int, productID int64) {
			defer wg.Done()
			product, err := b.catalog.Product(ctx, productID)
			if err != nil {
				b.logger.WithError(err).
					WithField("product_id", productID).
					Warn("stock refresh lookup failed")
				return
			}
			products[slot] = product
		}(i, id)
	}
	wg.Wait()

	for _, product := range products {
		if product != nil {
			b.updates.Publish(*product)
		}
	}
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	unique := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	return unique
}
