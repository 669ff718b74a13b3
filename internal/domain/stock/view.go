// internal/domain/stock/view.go
package stock

import (
	"sync"

	"github.com/your-org/storefront-client/internal/domain/catalog"
)

// ProductView is the state a product-displaying surface tracks for one
// product: the displayed snapshot and the quantity the user has selected.
// The selection can never exceed the displayed stock; when a stock update
// arrives the selection is clamped, down to zero when the product sells out.
type ProductView struct {
	mu       sync.Mutex
	product  catalog.Product
	selected int
}

// NewProductView starts a view on product with the given initial selection,
// already clamped to the available stock.
func NewProductView(product catalog.Product, selected int) *ProductView {
	v := &ProductView{product: product}
	v.selected = v.clamp(selected)
	return v
}

// Product returns the displayed snapshot
func (v *ProductView) Product() catalog.Product {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.product
}

// Selected returns the currently selected quantity
func (v *ProductView) Selected() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.selected
}

// Select sets the selected quantity, clamped to [0, stock], and returns the
// effective value
func (v *ProductView) Select(quantity int) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.selected = v.clamp(quantity)
	return v.selected
}

// Apply patches the view with a republished snapshot. Updates for other
// products are ignored; a matching update replaces the snapshot and clamps
// the selection to min(selected, new stock). Returns whether the update
// applied.
func (v *ProductView) Apply(update catalog.Product) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if update.ID != v.product.ID {
		return false
	}

	v.product = update
	if v.selected > update.Stock {
		v.selected = update.Stock
	}
	if v.selected < 0 {
		v.selected = 0
	}
	return true
}

// Follow subscribes the view to a broadcaster for its own lifetime. The
// returned stop function ends the subscription; an update arriving after stop
// is simply discarded.
func (v *ProductView) Follow(b *Broadcaster) (stop func()) {
	updates, cancel := b.Updates(8)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for update := range updates {
			v.Apply(update)
		}
	}()

	return func() {
		cancel()
		<-done
	}
}

func (v *ProductView) clamp(quantity int) int {
	if quantity > v.product.Stock {
		quantity = v.product.Stock
	}
	if quantity < 0 {
		quantity = 0
	}
	return quantity
}
