package session

import "errors"

var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrInvalidSessionState = errors.New("invalid session state")
	ErrStoreUnavailable    = errors.New("session store unavailable")
	// ErrConcurrentUpdate means the optimistic update kept losing to other writers.
	ErrConcurrentUpdate = errors.New("concurrent update, retries exhausted")
	ErrCartEmpty        = errors.New("cart is empty")
	ErrItemNotInCart    = errors.New("item not in cart")
	ErrItemNotFound     = errors.New("menu item not found")
	ErrOrderNotFound    = errors.New("order not found")
)
