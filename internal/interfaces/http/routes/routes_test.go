// internal/interfaces/http/routes/routes_test.go
package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/storefront-client/internal/domain/cart"
	"github.com/your-org/storefront-client/internal/domain/catalog"
	"github.com/your-org/storefront-client/internal/domain/identity"
	"github.com/your-org/storefront-client/internal/domain/order"
	"github.com/your-org/storefront-client/internal/domain/stock"
	"github.com/your-org/storefront-client/internal/infrastructure/storage"
	"github.com/your-org/storefront-client/internal/pkg/rest"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// newTestRouter builds the full UI surface over an anonymous session, a
// file-backed local cart and a fake catalog service
func newTestRouter(t *testing.T, stocks map[int64]int) *gin.Engine {
	t.Helper()

	catalogMux := http.NewServeMux()
	catalogMux.HandleFunc("GET /api/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		stockLevel, ok := stocks[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"message": "Product not found"})
			return
		}
		json.NewEncoder(w).Encode(catalog.Product{
			ID:    id,
			Name:  fmt.Sprintf("Product %d", id),
			Price: 9.99,
			Stock: stockLevel,
		})
	})
	catalogServer := httptest.NewServer(catalogMux)
	t.Cleanup(catalogServer.Close)

	store, err := storage.NewFileKV(t.TempDir())
	require.NoError(t, err)

	logger := testLogger()
	// The session and the remote gateways never receive a request on the
	// anonymous paths under test
	deadClient := rest.NewClient("http://127.0.0.1:0", time.Second, nil, logger)
	session := identity.NewSession(deadClient, store, logger)

	catalogClient := catalog.NewClient(rest.NewClient(catalogServer.URL, 2*time.Second, session.Token, logger))
	cartService := cart.NewService(session, cart.NewRemote(deadClient), catalogClient, store, logger)
	stockHub := stock.NewBroadcaster(catalogClient, logger)
	orderService := order.NewService(deadClient, session, cartService, stockHub, logger)

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	SetupRoutes(engine.Group("/api/v1"), Services{
		Session: session,
		Cart:    cartService,
		Catalog: catalogClient,
		Orders:  orderService,
		Stocks:  stockHub,
	})
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestCartFlowOverHTTP(t *testing.T) {
	engine := newTestRouter(t, map[int64]int{7: 10})

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/cart/items",
		gin.H{"productId": 7, "quantity": 2})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, engine, http.MethodGet, "/api/v1/cart/count", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var countRes struct {
		Data struct {
			Count int `json:"count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &countRes))
	assert.Equal(t, 2, countRes.Data.Count)

	rec = doJSON(t, engine, http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var cartRes struct {
		Data []cart.Line `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cartRes))
	require.Len(t, cartRes.Data, 1)
	assert.Equal(t, int64(7), cartRes.Data[0].ProductID)
	require.NotNil(t, cartRes.Data[0].Product, "cart lines arrive enriched")
	assert.Equal(t, 10, cartRes.Data[0].Product.Stock)

	// Setting the quantity to zero removes the line
	rec = doJSON(t, engine, http.MethodPut, "/api/v1/cart/items/0",
		gin.H{"quantity": 0, "productId": 7})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, engine, http.MethodGet, "/api/v1/cart/count", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &countRes))
	assert.Equal(t, 0, countRes.Data.Count)
}

func TestAddToCartValidation(t *testing.T) {
	engine := newTestRouter(t, nil)

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/cart/items",
		gin.H{"productId": 7, "quantity": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, engine, http.MethodPost, "/api/v1/cart/items",
		gin.H{"quantity": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckoutRequiresLogin(t *testing.T) {
	engine := newTestRouter(t, nil)

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/orders/checkout", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetProductPassesBackendStatusThrough(t *testing.T) {
	engine := newTestRouter(t, map[int64]int{7: 3})

	rec := doJSON(t, engine, http.MethodGet, "/api/v1/products/7", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var productRes struct {
		Data catalog.Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &productRes))
	assert.Equal(t, int64(7), productRes.Data.ID)
	assert.Equal(t, 3, productRes.Data.Stock)

	rec = doJSON(t, engine, http.MethodGet, "/api/v1/products/999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code, "the catalog's 404 passes through")
}

func TestSessionMeAnonymous(t *testing.T) {
	engine := newTestRouter(t, nil)

	rec := doJSON(t, engine, http.MethodGet, "/api/v1/session/me", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var meRes struct {
		Data struct {
			Authenticated bool `json:"authenticated"`
			Resolved      bool `json:"resolved"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &meRes))
	assert.False(t, meRes.Data.Authenticated)
	assert.False(t, meRes.Data.Resolved)
}
