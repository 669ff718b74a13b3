// internal/domain/cart/reconciler.go
package cart

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-client/internal/domain/identity"
	"github.com/your-org/storefront-client/internal/infrastructure/storage"
)

// Phase is the reconciler's position in the login lifecycle
type Phase int

const (
	PhaseAnonymous Phase = iota
	PhaseReconciling
	PhaseAuthenticated
)

func (p Phase) String() string {
	switch p {
	case PhaseAnonymous:
		return "anonymous"
	case PhaseReconciling:
		return "reconciling"
	case PhaseAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Reconciler merges the guest-scoped local cart into the remote cart exactly
// once per login. It watches the identity state and only acts on a resolved
// identity, never on a bare token. The identity epoch guards against a
// duplicate trigger double-adding guest lines.
//
// Known trade-off carried over from the web client: a guest line whose merge
// call fails is logged and dropped, because the guest entry is deleted
// unconditionally afterwards. A stuck or duplicated guest cart was judged
// worse than a lost line.
type Reconciler struct {
	session *identity.Session
	cart    *Service
	logger  *logrus.Logger

	mu          sync.Mutex
	phase       Phase
	mergedEpoch uint64
}

// NewReconciler wires the reconciler; call Run to start it
func NewReconciler(session *identity.Session, cartService *Service, logger *logrus.Logger) *Reconciler {
	return &Reconciler{
		session: session,
		cart:    cartService,
		logger:  logger,
	}
}

// Phase returns the current lifecycle phase
func (r *Reconciler) Phase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

// Run watches identity transitions until ctx is cancelled. It is the single
// control thread for reconciliation; every phase change happens here.
func (r *Reconciler) Run(ctx context.Context) {
	states, cancel := r.session.Watch(8)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case state, ok := <-states:
			if !ok {
				return
			}
			r.apply(ctx, state)
		}
	}
}

// apply advances the phase machine for one observed identity state
func (r *Reconciler) apply(ctx context.Context, state identity.State) {
	switch {
	case state.Resolved:
		r.mu.Lock()
		if state.Epoch <= r.mergedEpoch || r.phase == PhaseReconciling {
			// Already merged for this login, or a duplicate trigger
			r.mu.Unlock()
			return
		}
		r.mergedEpoch = state.Epoch
		r.phase = PhaseReconciling
		r.mu.Unlock()

		r.merge(ctx, state.UserID)

		r.mu.Lock()
		r.phase = PhaseAuthenticated
		r.mu.Unlock()

		// The count now lives remotely; reload it from there
		r.cart.RefreshCount(ctx)

	case state.Anonymous():
		r.mu.Lock()
		r.phase = PhaseAnonymous
		r.mu.Unlock()

		// Logout is a pure reset: back to the guest-scoped local cart,
		// no merge in this direction
		r.cart.RefreshCount(ctx)
	}
}

// merge pushes every guest line to the remote cart and deletes the guest
// entry. The additive adds are independent, so they run concurrently; their
// relative order does not matter.
func (r *Reconciler) merge(ctx context.Context, userID int64) {
	guestItems := r.cart.Local().GetKey(storage.KeyGuestCart)
	if len(guestItems) == 0 {
		return
	}

	r.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"lines":   len(guestItems),
	}).Info("merging guest cart into remote cart")

	var wg sync.WaitGroup
	for _, item := range guestItems {
		wg.Add(1)
		go func(line Line) {
			defer wg.Done()
			if _, err := r.cart.remote.Add(ctx, userID, line.ProductID, line.Quantity); err != nil {
				r.logger.WithError(err).WithFields(logrus.Fields{
					"product_id": line.ProductID,
					"quantity":   line.Quantity,
				}).Error("guest cart line lost: merge call failed")
			}
		}(item)
	}
	wg.Wait()

	if err := r.cart.Local().DeleteKey(storage.KeyGuestCart); err != nil {
		r.logger.WithError(err).Warn("failed to delete merged guest cart entry")
	}
}
