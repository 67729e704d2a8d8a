package session

import (
	"context"
	"sync"
	"time"

	"tableorder/models"
)

type memoryEntry struct {
	session   models.Session
	cart      models.Cart
	expiresAt time.Time
}

type memoryOrder struct {
	order     models.Order
	expiresAt time.Time
}

// MemoryStore is a process-local Store. One mutex serializes every update.
type MemoryStore struct {
	mu         sync.Mutex
	sessions   map[string]*memoryEntry
	orders     map[string]memoryOrder
	sessionTTL time.Duration
	orderTTL   time.Duration
	now        func() time.Time
}

func NewMemoryStore(sessionTTL, orderTTL time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions:   map[string]*memoryEntry{},
		orders:     map[string]memoryOrder{},
		sessionTTL: sessionTTL,
		orderTTL:   orderTTL,
		now:        time.Now,
	}
}

func (m *MemoryStore) expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return m.now().Add(ttl)
}

func (m *MemoryStore) expired(at time.Time) bool {
	return !at.IsZero() && !m.now().Before(at)
}

// entry must be called with mu held.
func (m *MemoryStore) entry(sessionID string) (*memoryEntry, error) {
	e, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if m.expired(e.expiresAt) {
		delete(m.sessions, sessionID)
		return nil, ErrSessionNotFound
	}
	return e, nil
}

func (m *MemoryStore) CreateSession(ctx context.Context, sess models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.SessionID] = &memoryEntry{
		session:   sess,
		cart:      models.Cart{},
		expiresAt: m.expiry(m.sessionTTL),
	}
	return nil
}

func (m *MemoryStore) GetSession(ctx context.Context, sessionID string) (models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, err := m.entry(sessionID)
	if err != nil {
		return models.Session{}, err
	}
	return e.session, nil
}

func (m *MemoryStore) GetCart(ctx context.Context, sessionID string) (models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, err := m.entry(sessionID)
	if err != nil {
		return nil, err
	}
	return e.cart.Clone(), nil
}

func (m *MemoryStore) UpdateCart(ctx context.Context, sessionID string, fn CartMutation) (models.Cart, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, err := m.entry(sessionID)
	if err != nil {
		return nil, err
	}
	next, err := fn(e.session, e.cart.Clone())
	if err != nil {
		return nil, err
	}
	if next == nil {
		next = models.Cart{}
	}
	e.cart = next.Clone()
	e.expiresAt = m.expiry(m.sessionTTL)
	return next, nil
}

func (m *MemoryStore) UpdateSession(ctx context.Context, sessionID string, fn SessionMutation) (models.Session, error) {
	if err := ctx.Err(); err != nil {
		return models.Session{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, err := m.entry(sessionID)
	if err != nil {
		return models.Session{}, err
	}
	sess := e.session
	order, err := fn(&sess, e.cart.Clone())
	if err != nil {
		return models.Session{}, err
	}
	e.session = sess
	e.expiresAt = m.expiry(m.sessionTTL)
	if order != nil {
		m.orders[order.OrderID] = memoryOrder{order: *order, expiresAt: m.expiry(m.orderTTL)}
	}
	return sess, nil
}

func (m *MemoryStore) GetOrder(ctx context.Context, orderID string) (models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok || m.expired(o.expiresAt) {
		delete(m.orders, orderID)
		return models.Order{}, ErrOrderNotFound
	}
	return o.order, nil
}

func (m *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

func (m *MemoryStore) Ping(ctx context.Context) error { return nil }
