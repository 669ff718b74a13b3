// internal/domain/catalog/entity.go
package catalog

// Product is the read-mostly snapshot served by the catalog service. The
// runtime never writes it, only refreshes it. CreatedAt stays a string: the
// service serializes a zone-less LocalDateTime.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	CategoryID  int64   `json:"categoryId"`
	SellerID    int64   `json:"sellerId"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	CreatedAt   string  `json:"createdAt,omitempty"`

	// Enriched by the catalog service, passed through untouched
	Seller   map[string]interface{} `json:"seller,omitempty"`
	Category map[string]interface{} `json:"category,omitempty"`
}

// Page is the paged envelope the catalog service answers list queries with
type Page struct {
	Content       []Product `json:"content"`
	TotalPages    int       `json:"totalPages"`
	TotalElements int64     `json:"totalElements"`
	Size          int       `json:"size"`
	Number        int       `json:"number"`
}
