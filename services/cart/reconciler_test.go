package cart

import (
	"context"
	"testing"
	"time"

	"tableorder/models"
	"tableorder/services/menu"
	"tableorder/services/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog(t *testing.T) menu.Catalog {
	t.Helper()
	c, err := menu.NewCatalog(models.MenuDocument{
		Items: []models.MenuItem{
			{ID: "p1", Name: "Paneer Tikka Pizza", Price: 349, Aliases: []string{"pt pizza"}},
			{ID: "t1", Name: "Masala Tea", Price: 40, Aliases: []string{"chai"}},
			{ID: "d1", Name: "Masala Dosa", Price: 120},
		},
	})
	require.NoError(t, err)
	return c
}

func add(items ...models.DecisionItem) models.Decision {
	return models.Decision{Action: models.ActionAddItem, Items: items}
}

func remove(items ...models.DecisionItem) models.Decision {
	return models.Decision{Action: models.ActionRemoveItem, Items: items}
}

func assertInvariants(t *testing.T, cart models.Cart) {
	t.Helper()
	seen := map[string]bool{}
	for _, line := range cart {
		assert.False(t, seen[line.ItemID], "duplicate line for %s", line.ItemID)
		seen[line.ItemID] = true
		assert.Greater(t, line.Quantity, 0, "non-positive quantity for %s", line.ItemID)
	}
}

func TestNormalizeItemName(t *testing.T) {
	assert.Equal(t, "masala tea", NormalizeItemName("  Please Add Masala Tea "))
	assert.Equal(t, "paneer tikka pizza", NormalizeItemName("add paneer tikka pizza"))
	assert.Equal(t, "masala tea", NormalizeItemName("can you masala tea"))
	assert.Equal(t, "address", NormalizeItemName("address"))
}

func TestApply(t *testing.T) {
	catalog := testCatalog(t)

	t.Run("adding twice merges into one line", func(t *testing.T) {
		cart, _ := Apply(models.Cart{}, add(models.DecisionItem{Name: "Masala Tea", Quantity: 1}), catalog)
		cart, _ = Apply(cart, add(models.DecisionItem{Name: "masala tea", Quantity: 1}), catalog)
		require.Len(t, cart, 1)
		assert.Equal(t, 2, cart.Quantity("t1"))
		assertInvariants(t, cart)
	})

	t.Run("quantity is clamped", func(t *testing.T) {
		cart, _ := Apply(models.Cart{}, add(models.DecisionItem{Name: "chai", Quantity: 999}), catalog)
		assert.Equal(t, models.MaxItemQuantity, cart.Quantity("t1"))
		cart, _ = Apply(models.Cart{}, add(models.DecisionItem{Name: "chai", Quantity: -4}), catalog)
		assert.Equal(t, 1, cart.Quantity("t1"))
	})

	t.Run("unknown items are skipped", func(t *testing.T) {
		cart, skipped := Apply(models.Cart{}, add(
			models.DecisionItem{Name: "Unicorn Burger", Quantity: 1},
			models.DecisionItem{Name: "add PT Pizza", Quantity: 2},
		), catalog)
		assert.Equal(t, []string{"Unicorn Burger"}, skipped)
		require.Len(t, cart, 1)
		assert.Equal(t, models.CartLine{ItemID: "p1", Name: "Paneer Tikka Pizza", Price: 349, Quantity: 2}, cart[0])
	})

	t.Run("removing an absent item is a no-op", func(t *testing.T) {
		start := models.Cart{{ItemID: "d1", Name: "Masala Dosa", Price: 120, Quantity: 1}}
		cart, skipped := Apply(start, remove(models.DecisionItem{Name: "masala tea", Quantity: 1}), catalog)
		assert.Empty(t, skipped)
		assert.Equal(t, start, cart)
	})

	t.Run("removing down to zero drops the line", func(t *testing.T) {
		start := models.Cart{
			{ItemID: "t1", Name: "Masala Tea", Price: 40, Quantity: 3},
			{ItemID: "d1", Name: "Masala Dosa", Price: 120, Quantity: 1},
		}
		cart, _ := Apply(start, remove(models.DecisionItem{Name: "masala tea", Quantity: 2}), catalog)
		assert.Equal(t, 1, cart.Quantity("t1"))
		cart, _ = Apply(cart, remove(models.DecisionItem{Name: "masala tea", Quantity: 5}), catalog)
		assert.Equal(t, models.Cart{{ItemID: "d1", Name: "Masala Dosa", Price: 120, Quantity: 1}}, cart)
		assertInvariants(t, cart)
		assert.Equal(t, 3, start.Quantity("t1"), "input cart must not be modified")
	})

	t.Run("none leaves the cart alone", func(t *testing.T) {
		start := models.Cart{{ItemID: "d1", Name: "Masala Dosa", Price: 120, Quantity: 1}}
		cart, _ := Apply(start, models.Decision{Action: models.ActionNone, Items: []models.DecisionItem{{Name: "masala dosa", Quantity: 1}}}, catalog)
		assert.Equal(t, start, cart)
	})
}

func newReconciler(t *testing.T) (*Reconciler, session.Store) {
	t.Helper()
	store := session.NewMemoryStore(time.Hour, time.Hour)
	require.NoError(t, store.CreateSession(context.Background(), models.Session{SessionID: "s1", Status: models.StatusOrdering}))
	return NewReconciler(store, testCatalog(t), nil), store
}

func TestReconcile_IdempotentMerge(t *testing.T) {
	ctx := context.Background()
	r, store := newReconciler(t)

	_, err := r.Reconcile(ctx, "s1", add(models.DecisionItem{Name: "Masala Dosa", Quantity: 1}))
	require.NoError(t, err)
	cart, err := r.Reconcile(ctx, "s1", add(models.DecisionItem{Name: "Masala Dosa", Quantity: 1}))
	require.NoError(t, err)
	assert.Equal(t, 2, cart.Quantity("d1"))

	stored, err := store.GetCart(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, cart, stored)
}

func TestReconcile_RemoveNeverAddedIsNoOp(t *testing.T) {
	ctx := context.Background()
	r, _ := newReconciler(t)

	cart, err := r.Reconcile(ctx, "s1", remove(models.DecisionItem{Name: "masala tea", Quantity: 1}))
	require.NoError(t, err)
	assert.Empty(t, cart)
}

func TestReconcile_ClampOnEmptyCart(t *testing.T) {
	r, _ := newReconciler(t)
	cart, err := r.Reconcile(context.Background(), "s1", add(models.DecisionItem{Name: "masala tea", Quantity: 999}))
	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.Equal(t, models.MaxItemQuantity, cart[0].Quantity)
}

func TestReconcile_RefusesOutsideOrdering(t *testing.T) {
	ctx := context.Background()
	r, store := newReconciler(t)
	_, err := r.Reconcile(ctx, "s1", add(models.DecisionItem{Name: "masala tea", Quantity: 1}))
	require.NoError(t, err)

	_, err = store.UpdateSession(ctx, "s1", func(s *models.Session, c models.Cart) (*models.Order, error) {
		s.Status = models.StatusConfirmed
		return nil, nil
	})
	require.NoError(t, err)

	_, err = r.Reconcile(ctx, "s1", add(models.DecisionItem{Name: "masala tea", Quantity: 1}))
	assert.ErrorIs(t, err, session.ErrInvalidSessionState)

	cart, err := store.GetCart(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, cart.Quantity("t1"))
}

func TestReconcile_Errors(t *testing.T) {
	r, _ := newReconciler(t)
	_, err := r.Reconcile(context.Background(), "missing", add(models.DecisionItem{Name: "masala tea", Quantity: 1}))
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	_, err = r.Reconcile(context.Background(), "s1", models.Decision{Action: models.ActionNone})
	assert.Error(t, err)
}
