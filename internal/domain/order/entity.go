// internal/domain/order/entity.go
package order

import "github.com/your-org/storefront-client/internal/domain/catalog"

// Item is one order position. Name, price and the full product snapshot are
// filled in by the order service on read; only productId and quantity are
// ever sent.
type Item struct {
	ProductID   int64            `json:"productId"`
	Quantity    int              `json:"quantity"`
	ProductName string           `json:"productName,omitempty"`
	UnitPrice   float64          `json:"unitPrice,omitempty"`
	Product     *catalog.Product `json:"product,omitempty"`
}

// Order is the order service's representation of a placed order. CreatedAt
// stays a string: the service serializes a zone-less LocalDateTime.
type Order struct {
	ID          int64   `json:"id"`
	UserID      int64   `json:"userId"`
	CreatedAt   string  `json:"createdAt,omitempty"`
	Items       []Item  `json:"items"`
	TotalAmount float64 `json:"totalAmount,omitempty"`
}

// ProductIDs returns the distinct product ids of the order, in order
func (o *Order) ProductIDs() []int64 {
	seen := make(map[int64]bool, len(o.Items))
	ids := make([]int64, 0, len(o.Items))
	for _, item := range o.Items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}
	return ids
}

// createRequest is the minimal payload the order service accepts
type createRequest struct {
	UserID int64         `json:"userId"`
	Items  []requestItem `json:"items"`
}

type requestItem struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}
