// Package cart applies arbiter decisions to a session's cart.
package cart

import (
	"context"
	"fmt"
	"strings"

	"tableorder/models"
	"tableorder/services/menu"
	"tableorder/services/session"

	"go.uber.org/zap"
)

var courtesyPrefixes = []string{"add ", "remove ", "please ", "can you "}

// NormalizeItemName lower-cases name and drops leading courtesy or action words
// until none is left.
func NormalizeItemName(name string) string {
	n := menu.NormalizeTerm(name)
	for stripped := true; stripped; {
		stripped = false
		for _, p := range courtesyPrefixes {
			if strings.HasPrefix(n, p) {
				n = strings.TrimSpace(strings.TrimPrefix(n, p))
				stripped = true
			}
		}
	}
	return n
}

// Apply is the pure reconciliation step. Names the catalog does not know are
// skipped, quantities are clamped, and a remove of an absent item is a no-op.
// The returned slice lists the names that were skipped.
func Apply(cart models.Cart, decision models.Decision, catalog menu.Catalog) (models.Cart, []string) {
	next := cart.Clone()
	var skipped []string
	for _, it := range decision.Items {
		item, ok := catalog.Lookup(NormalizeItemName(it.Name))
		if !ok {
			skipped = append(skipped, it.Name)
			continue
		}
		qty := models.ClampQuantity(it.Quantity)
		switch decision.Action {
		case models.ActionAddItem:
			next = next.Add(item, qty)
		case models.ActionRemoveItem:
			next, _ = next.Remove(item.ID, qty)
		}
	}
	return next, skipped
}

// Reconciler persists decisions through the session store so every decision is
// one atomic cart transition.
type Reconciler struct {
	Store   session.Store
	Catalog menu.Catalog
	Logger  *zap.Logger
}

func NewReconciler(store session.Store, catalog menu.Catalog, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{Store: store, Catalog: catalog, Logger: logger}
}

// Reconcile applies a mutating decision to the session's cart. The status is
// re-checked inside the update so a concurrent confirm cannot slip in between.
func (r *Reconciler) Reconcile(ctx context.Context, sessionID string, decision models.Decision) (models.Cart, error) {
	if decision.Action != models.ActionAddItem && decision.Action != models.ActionRemoveItem {
		return nil, fmt.Errorf("reconcile: action %q does not mutate a cart", decision.Action)
	}

	var skipped []string
	cart, err := r.Store.UpdateCart(ctx, sessionID, func(sess models.Session, current models.Cart) (models.Cart, error) {
		if !sess.Status.Mutable() {
			return nil, fmt.Errorf("%w: session is %s", session.ErrInvalidSessionState, sess.Status)
		}
		var next models.Cart
		next, skipped = Apply(current, decision, r.Catalog)
		return next, nil
	})
	if err != nil {
		return nil, err
	}
	if len(skipped) > 0 {
		r.Logger.Info("Skipped items not on the menu",
			zap.String("session_id", sessionID), zap.Strings("items", skipped))
	}
	return cart, nil
}
