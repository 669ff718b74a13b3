// internal/domain/cart/localcart.go
package cart

import (
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-client/internal/infrastructure/storage"
	"github.com/your-org/storefront-client/internal/signal"
)

// KeyFunc derives the storage key for the current identity
type KeyFunc func() string

// LocalCart is the identity-scoped durable cart used while no authenticated
// identity exists. Reads and writes are local and synchronous; a missing or
// unreadable entry is an empty cart. Every mutation republishes the unit
// count.
type LocalCart struct {
	store  storage.KV
	key    KeyFunc
	count  *signal.Value[int]
	logger *logrus.Logger
}

// NewLocalCart wires a local cart over the given store. count is the shared
// unit-count signal owned by the facade.
func NewLocalCart(store storage.KV, key KeyFunc, count *signal.Value[int], logger *logrus.Logger) *LocalCart {
	return &LocalCart{
		store:  store,
		key:    key,
		count:  count,
		logger: logger,
	}
}

// Get returns the lines stored for the current identity
func (l *LocalCart) Get() []Line {
	return l.GetKey(l.key())
}

// GetKey returns the lines stored under an explicit key. The reconciler uses
// this to read the guest entry regardless of the current identity.
func (l *LocalCart) GetKey(key string) []Line {
	data, ok, err := l.store.Get(key)
	if err != nil {
		l.logger.WithError(err).WithField("key", key).Warn("failed to read local cart")
		return nil
	}
	if !ok {
		return nil
	}

	var items []Line
	if err := json.Unmarshal(data, &items); err != nil {
		l.logger.WithError(err).WithField("key", key).Warn("discarding unreadable local cart")
		return nil
	}
	return items
}

// Set overwrites the lines for the current identity and republishes the unit
// count. Product snapshots are not persisted; they are re-fetched on read.
func (l *LocalCart) Set(items []Line) error {
	stripped := make([]Line, len(items))
	for i, item := range items {
		stripped[i] = Line{ID: item.ID, ProductID: item.ProductID, Quantity: item.Quantity}
	}

	data, err := json.Marshal(stripped)
	if err != nil {
		return fmt.Errorf("failed to encode local cart: %w", err)
	}
	if err := l.store.Set(l.key(), data); err != nil {
		return err
	}

	l.count.Set(Units(stripped))
	return nil
}

// Clear empties the cart for the current identity
func (l *LocalCart) Clear() error {
	return l.Set([]Line{})
}

// DeleteKey removes a storage entry entirely, without touching the count
// signal. Used by the reconciler to drop the merged-away guest entry.
func (l *LocalCart) DeleteKey(key string) error {
	return l.store.Delete(key)
}

// Units returns the current unit count of the stored cart
func (l *LocalCart) Units() int {
	return Units(l.Get())
}
