// internal/interfaces/http/handlers/respond.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-client/internal/domain/cart"
	"github.com/your-org/storefront-client/internal/domain/order"
	"github.com/your-org/storefront-client/internal/pkg/rest"
)

// respondError maps domain and transport failures onto HTTP statuses. Backend
// statuses pass through so the UI sees what the service said.
func respondError(c *gin.Context, err error) {
	var apiErr *rest.APIError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.StatusCode, gin.H{
			"error": apiErr.Message,
		})
		return
	}

	switch {
	case errors.Is(err, cart.ErrIdentityUnresolved), errors.Is(err, order.ErrNotLoggedIn):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": err.Error(),
		})
	case errors.Is(err, order.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
	default:
		c.JSON(http.StatusBadGateway, gin.H{
			"error": err.Error(),
		})
	}
}
