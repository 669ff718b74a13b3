// internal/interfaces/http/handlers/events.go
package handlers

import (
	"io"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-client/internal/domain/cart"
	"github.com/your-org/storefront-client/internal/domain/stock"
)

// EventsHandler streams the unit-count and stock-update signals to the UI
// over server-sent events, so the badge and product views patch themselves
// without polling.
type EventsHandler struct {
	cartService *cart.Service
	stocks      *stock.Broadcaster
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(cartService *cart.Service, stocks *stock.Broadcaster) *EventsHandler {
	return &EventsHandler{
		cartService: cartService,
		stocks:      stocks,
	}
}

// Stream handles GET /events. The subscription lives exactly as long as the
// request; a client that disconnects mid-update simply misses it.
func (h *EventsHandler) Stream(c *gin.Context) {
	counts, cancelCounts := h.cartService.WatchCount(8)
	defer cancelCounts()

	updates, cancelUpdates := h.stocks.Updates(16)
	defer cancelUpdates()

	ctx := c.Request.Context()

	c.Header("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case count, ok := <-counts:
			if !ok {
				return false
			}
			c.SSEvent("cart-count", count)
			return true
		case product, ok := <-updates:
			if !ok {
				return false
			}
			c.SSEvent("stock-update", product)
			return true
		}
	})
}
