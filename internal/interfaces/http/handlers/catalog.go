// internal/interfaces/http/handlers/catalog.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-client/internal/domain/catalog"
)

// CatalogHandler passes catalog reads through to the catalog service
type CatalogHandler struct {
	catalog *catalog.Client
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogClient *catalog.Client) *CatalogHandler {
	return &CatalogHandler{catalog: catalogClient}
}

// GetProducts handles GET /products with optional search term
func (h *CatalogHandler) GetProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "12"))

	var (
		result *catalog.Page
		err    error
	)
	if term := c.Query("q"); term != "" {
		result, err = h.catalog.Search(c.Request.Context(), term, page, size)
	} else {
		result, err = h.catalog.List(c.Request.Context(), page, size)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": result,
	})
}

// GetProduct handles GET /products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	product, err := h.catalog.Product(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": product,
	})
}
