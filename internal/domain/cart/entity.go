// internal/domain/cart/entity.go
package cart

import (
	"github.com/your-org/storefront-client/internal/domain/catalog"
)

// Line is one cart position. ID is 0 for locally-originated lines and the
// server-assigned item id once the line lives in the remote cart. A line
// always has quantity >= 1; a quantity reduced to zero removes the line.
type Line struct {
	ID        int64            `json:"id"`
	ProductID int64            `json:"productId"`
	Quantity  int              `json:"quantity"`
	Product   *catalog.Product `json:"product,omitempty"`
}

// Cart is the container the cart service answers with
type Cart struct {
	ID     int64  `json:"id,omitempty"`
	UserID int64  `json:"userId,omitempty"`
	Items  []Line `json:"items"`
}

// Units sums the quantities over lines
func Units(lines []Line) int {
	total := 0
	for _, line := range lines {
		total += line.Quantity
	}
	return total
}

// ProductIDs returns the distinct product ids over lines, in first-seen order
func ProductIDs(lines []Line) []int64 {
	seen := make(map[int64]bool, len(lines))
	ids := make([]int64, 0, len(lines))
	for _, line := range lines {
		if !seen[line.ProductID] {
			seen[line.ProductID] = true
			ids = append(ids, line.ProductID)
		}
	}
	return ids
}
