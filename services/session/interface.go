package session

import (
	"context"

	"tableorder/models"
)

// CartMutation computes the next cart from the current session and cart. It
// may run more than once when a concurrent writer wins the race, so it must not
// have side effects. Returning an error aborts the update.
type CartMutation func(sess models.Session, cart models.Cart) (models.Cart, error)

// SessionMutation edits the session in place and may return an order to be
// written in the same transaction.
type SessionMutation func(sess *models.Session, cart models.Cart) (*models.Order, error)

// Store persists sessions, carts and placed orders. Every update is a
// read-decide-write serialized per session.
type Store interface {
	CreateSession(ctx context.Context, sess models.Session) error
	GetSession(ctx context.Context, sessionID string) (models.Session, error)
	GetCart(ctx context.Context, sessionID string) (models.Cart, error)
	UpdateCart(ctx context.Context, sessionID string, fn CartMutation) (models.Cart, error)
	UpdateSession(ctx context.Context, sessionID string, fn SessionMutation) (models.Session, error)
	GetOrder(ctx context.Context, orderID string) (models.Order, error)
	Delete(ctx context.Context, sessionID string) error
	Ping(ctx context.Context) error
}

// OrderArchiver hands a placed order to long-term storage.
type OrderArchiver interface {
	ArchiveOrder(ctx context.Context, order models.Order) error
}

// OrderHistory finds orders that have aged out of the session store.
type OrderHistory interface {
	GetByID(ctx context.Context, orderID string) (*models.Order, error)
}

// Service is the session and cart lifecycle behind the CRUD endpoints.
type Service interface {
	StartSession(ctx context.Context, tableID string) (models.Session, error)
	GetSession(ctx context.Context, sessionID string) (models.Session, error)
	GetCart(ctx context.Context, sessionID string) (models.Cart, error)
	AddItem(ctx context.Context, sessionID, itemID string, quantity int) (models.Cart, error)
	RemoveItem(ctx context.Context, sessionID, itemID string) (models.Cart, error)
	ConfirmCart(ctx context.Context, sessionID string) (models.Session, error)
	PlaceOrder(ctx context.Context, sessionID string) (models.Order, error)
	GetOrder(ctx context.Context, orderID string) (models.Order, error)
}
