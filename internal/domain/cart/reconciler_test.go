// internal/domain/cart/reconciler_test.go
package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/storefront-client/internal/domain/identity"
	"github.com/your-org/storefront-client/internal/infrastructure/storage"
	"github.com/your-org/storefront-client/internal/pkg/rest"
)

// newLoginableSession builds a session that starts anonymous and can log in as
// user 42 during the test
func newLoginableSession(t *testing.T, store storage.KV) *identity.Session {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"token": signedToken(t, time.Now().Add(time.Hour))})
	})
	mux.HandleFunc("GET /api/user/me", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(identity.UserInfo{ID: 42, Username: "ana"})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return identity.NewSession(rest.NewClient(server.URL, 2*time.Second, nil, testLogger()), store, testLogger())
}

func TestLoginMergesGuestCartIntoRemote(t *testing.T) {
	store, err := storage.NewFileKV(t.TempDir())
	require.NoError(t, err)
	session := newLoginableSession(t, store)
	cartBackend := newFakeCartBackend(t)
	service := newTestService(t, session, store, cartBackend,
		newFakeCatalogBackend(t, map[int64]int{7: 10, 9: 4}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, service.AddToCart(ctx, 7, 5))
	require.NoError(t, service.AddToCart(ctx, 9, 1))

	reconciler := NewReconciler(session, service, testLogger())
	go reconciler.Run(ctx)

	_, err = session.Login(ctx, "ana", "secret")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return reconciler.Phase() == PhaseAuthenticated
	}, 2*time.Second, 10*time.Millisecond)

	// Every guest line reached the remote cart; the merge adds run
	// concurrently so only the content is deterministic
	quantities := map[int64]int{}
	for _, line := range cartBackend.snapshot() {
		quantities[line.ProductID] = line.Quantity
	}
	assert.Equal(t, map[int64]int{7: 5, 9: 1}, quantities)

	// The merged-away guest entry is gone for good
	_, ok, err := store.Get(storage.KeyGuestCart)
	require.NoError(t, err)
	assert.False(t, ok)

	// The badge now reflects the remote cart
	require.Eventually(t, func() bool {
		return service.Count() == 6
	}, 2*time.Second, 10*time.Millisecond)
}

func TestMergeRunsAtMostOncePerLogin(t *testing.T) {
	store, err := storage.NewFileKV(t.TempDir())
	require.NoError(t, err)
	session := newAnonSession(t, store)
	cartBackend := newFakeCartBackend(t)
	service := newTestService(t, session, store, cartBackend,
		newFakeCatalogBackend(t, map[int64]int{7: 10}))

	ctx := context.Background()
	require.NoError(t, service.AddToCart(ctx, 7, 5))

	reconciler := NewReconciler(session, service, testLogger())
	resolved := identity.State{Authenticated: true, Resolved: true, UserID: 42, Epoch: 1}

	reconciler.apply(ctx, resolved)
	reconciler.apply(ctx, resolved)

	assert.Equal(t, 1, cartBackend.calls(), "a replayed identity state must not double-add")
	remoteLines := cartBackend.snapshot()
	require.Len(t, remoteLines, 1)
	assert.Equal(t, 5, remoteLines[0].Quantity)
}

func TestNewLoginEpochMergesAgain(t *testing.T) {
	store, err := storage.NewFileKV(t.TempDir())
	require.NoError(t, err)
	session := newAnonSession(t, store)
	cartBackend := newFakeCartBackend(t)
	service := newTestService(t, session, store, cartBackend,
		newFakeCatalogBackend(t, map[int64]int{7: 10}))

	ctx := context.Background()
	reconciler := NewReconciler(session, service, testLogger())

	require.NoError(t, service.Local().Set([]Line{{ProductID: 7, Quantity: 5}}))
	reconciler.apply(ctx, identity.State{Authenticated: true, Resolved: true, UserID: 42, Epoch: 1})

	// Guest shops again after a logout, then logs back in
	reconciler.apply(ctx, identity.State{})
	require.NoError(t, service.Local().Set([]Line{{ProductID: 7, Quantity: 5}}))
	reconciler.apply(ctx, identity.State{Authenticated: true, Resolved: true, UserID: 42, Epoch: 2})

	assert.Equal(t, 2, cartBackend.calls())
	remoteLines := cartBackend.snapshot()
	require.Len(t, remoteLines, 1)
	assert.Equal(t, 10, remoteLines[0].Quantity, "the second login merges additively")
}

func TestEmptyGuestCartMergeIsNoOp(t *testing.T) {
	store, err := storage.NewFileKV(t.TempDir())
	require.NoError(t, err)
	session := newAnonSession(t, store)
	cartBackend := newFakeCartBackend(t)
	service := newTestService(t, session, store, cartBackend,
		newFakeCatalogBackend(t, nil))

	reconciler := NewReconciler(session, service, testLogger())
	reconciler.apply(context.Background(), identity.State{Authenticated: true, Resolved: true, UserID: 42, Epoch: 1})

	assert.Equal(t, 0, cartBackend.calls())
	assert.Equal(t, PhaseAuthenticated, reconciler.Phase())
}

func TestFailedMergeStillDropsGuestEntry(t *testing.T) {
	store, err := storage.NewFileKV(t.TempDir())
	require.NoError(t, err)
	session := newAnonSession(t, store)
	cartBackend := newFakeCartBackend(t)
	cartBackend.failAdd = true
	service := newTestService(t, session, store, cartBackend,
		newFakeCatalogBackend(t, map[int64]int{7: 10}))

	ctx := context.Background()
	require.NoError(t, service.AddToCart(ctx, 7, 5))

	reconciler := NewReconciler(session, service, testLogger())
	reconciler.apply(ctx, identity.State{Authenticated: true, Resolved: true, UserID: 42, Epoch: 1})

	// The failed line is logged and lost; keeping the guest entry around
	// would double-add on the next login
	_, ok, err := store.Get(storage.KeyGuestCart)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, PhaseAuthenticated, reconciler.Phase())
}

func TestLogoutIsAPureReset(t *testing.T) {
	store, err := storage.NewFileKV(t.TempDir())
	require.NoError(t, err)
	session := newLoginableSession(t, store)
	cartBackend := newFakeCartBackend(t)
	service := newTestService(t, session, store, cartBackend,
		newFakeCatalogBackend(t, map[int64]int{7: 10}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, service.AddToCart(ctx, 7, 2))

	reconciler := NewReconciler(session, service, testLogger())
	go reconciler.Run(ctx)

	_, err = session.Login(ctx, "ana", "secret")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return reconciler.Phase() == PhaseAuthenticated && len(cartBackend.snapshot()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	session.Logout()

	// Back to the guest cart, which the merge emptied; nothing flows
	// from remote to local
	require.Eventually(t, func() bool {
		return reconciler.Phase() == PhaseAnonymous && service.Count() == 0
	}, 2*time.Second, 10*time.Millisecond)

	remoteLines := cartBackend.snapshot()
	require.Len(t, remoteLines, 1, "the remote cart keeps its lines across logout")
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "anonymous", PhaseAnonymous.String())
	assert.Equal(t, "reconciling", PhaseReconciling.String())
	assert.Equal(t, "authenticated", PhaseAuthenticated.String())
}
