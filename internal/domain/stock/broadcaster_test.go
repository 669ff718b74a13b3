// internal/domain/stock/broadcaster_test.go
package stock

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/storefront-client/internal/domain/catalog"
	"github.com/your-org/storefront-client/internal/pkg/rest"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// catalogFixture serves snapshots from a mutable stock table and counts
// lookups
type catalogFixture struct {
	mu      sync.Mutex
	stocks  map[int64]int
	lookups int

	client *catalog.Client
}

func newCatalogFixture(t *testing.T, stocks map[int64]int) *catalogFixture {
	t.Helper()
	f := &catalogFixture{stocks: stocks}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.lookups++

		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		stockLevel, ok := f.stocks[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(catalog.Product{
			ID:    id,
			Name:  fmt.Sprintf("Product %d", id),
			Price: 19.90,
			Stock: stockLevel,
		})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	f.client = catalog.NewClient(rest.NewClient(server.URL, 2*time.Second, nil, testLogger()))
	return f
}

func (f *catalogFixture) setStock(id int64, stockLevel int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stocks[id] = stockLevel
}

func (f *catalogFixture) lookupCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lookups
}

// drain collects every buffered update currently on the channel
func drain(updates <-chan catalog.Product) []catalog.Product {
	var out []catalog.Product
	for {
		select {
		case update := <-updates:
			out = append(out, update)
		default:
			return out
		}
	}
}

func TestRefreshStocksEmptyIsNoOp(t *testing.T) {
	fixture := newCatalogFixture(t, map[int64]int{7: 3})
	broadcaster := NewBroadcaster(fixture.client, testLogger())

	updates, cancel := broadcaster.Updates(8)
	defer cancel()

	broadcaster.RefreshStocks(context.Background(), nil)
	broadcaster.RefreshStocks(context.Background(), []int64{})

	assert.Equal(t, 0, fixture.lookupCount())
	assert.Empty(t, drain(updates))
}

func TestRefreshStocksDedupesIDs(t *testing.T) {
	fixture := newCatalogFixture(t, map[int64]int{7: 3, 9: 1})
	broadcaster := NewBroadcaster(fixture.client, testLogger())

	updates, cancel := broadcaster.Updates(8)
	defer cancel()

	broadcaster.RefreshStocks(context.Background(), []int64{7, 7, 9, 7})

	assert.Equal(t, 2, fixture.lookupCount(), "each product is fetched once per refresh")

	received := drain(updates)
	require.Len(t, received, 2)
	assert.Equal(t, int64(7), received[0].ID)
	assert.Equal(t, 3, received[0].Stock)
	assert.Equal(t, int64(9), received[1].ID)
}

func TestRefreshStocksIsBestEffort(t *testing.T) {
	// Product 9 is missing; the refresh still publishes product 7
	fixture := newCatalogFixture(t, map[int64]int{7: 3})
	broadcaster := NewBroadcaster(fixture.client, testLogger())

	updates, cancel := broadcaster.Updates(8)
	defer cancel()

	broadcaster.RefreshStocks(context.Background(), []int64{9, 7})

	received := drain(updates)
	require.Len(t, received, 1)
	assert.Equal(t, int64(7), received[0].ID)
}

func TestRefreshStocksReachesEverySubscriber(t *testing.T) {
	fixture := newCatalogFixture(t, map[int64]int{7: 3})
	broadcaster := NewBroadcaster(fixture.client, testLogger())

	first, cancelFirst := broadcaster.Updates(8)
	defer cancelFirst()
	second, cancelSecond := broadcaster.Updates(8)
	defer cancelSecond()

	broadcaster.RefreshStocks(context.Background(), []int64{7})

	assert.Len(t, drain(first), 1)
	assert.Len(t, drain(second), 1)
}
