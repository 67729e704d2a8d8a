package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tableorder/models"
	"tableorder/services/menu"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultSessionService implements Service on top of a Store.
type DefaultSessionService struct {
	Store    Store
	Catalog  menu.Catalog
	Archiver OrderArchiver
	History  OrderHistory
	Logger   *zap.Logger
	Now      func() time.Time
}

func NewSessionService(store Store, catalog menu.Catalog, archiver OrderArchiver, logger *zap.Logger) *DefaultSessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultSessionService{
		Store:    store,
		Catalog:  catalog,
		Archiver: archiver,
		Logger:   logger,
		Now:      time.Now,
	}
}

func (s *DefaultSessionService) StartSession(ctx context.Context, tableID string) (models.Session, error) {
	sess := models.Session{
		SessionID: uuid.New().String(),
		TableID:   strings.TrimSpace(tableID),
		Status:    models.StatusOrdering,
		CreatedAt: s.Now().UTC(),
	}
	if err := s.Store.CreateSession(ctx, sess); err != nil {
		return models.Session{}, fmt.Errorf("start session: %w", err)
	}
	s.Logger.Info("Session started", zap.String("session_id", sess.SessionID), zap.String("table_id", sess.TableID))
	return sess, nil
}

func (s *DefaultSessionService) GetSession(ctx context.Context, sessionID string) (models.Session, error) {
	return s.Store.GetSession(ctx, sessionID)
}

func (s *DefaultSessionService) GetCart(ctx context.Context, sessionID string) (models.Cart, error) {
	return s.Store.GetCart(ctx, sessionID)
}

// AddItem adds a menu item by id. The quantity is clamped to [1, MaxItemQuantity].
func (s *DefaultSessionService) AddItem(ctx context.Context, sessionID, itemID string, quantity int) (models.Cart, error) {
	item, ok := s.Catalog.GetItem(itemID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}
	qty := models.ClampQuantity(quantity)
	return s.Store.UpdateCart(ctx, sessionID, func(sess models.Session, cart models.Cart) (models.Cart, error) {
		if !sess.Status.Mutable() {
			return nil, fmt.Errorf("%w: session is %s", ErrInvalidSessionState, sess.Status)
		}
		return cart.Add(item, qty), nil
	})
}

// RemoveItem takes one unit of itemID out of the cart. Unlike the agent path,
// removing an item the cart does not hold is an error here.
func (s *DefaultSessionService) RemoveItem(ctx context.Context, sessionID, itemID string) (models.Cart, error) {
	return s.Store.UpdateCart(ctx, sessionID, func(sess models.Session, cart models.Cart) (models.Cart, error) {
		if !sess.Status.Mutable() {
			return nil, fmt.Errorf("%w: session is %s", ErrInvalidSessionState, sess.Status)
		}
		next, ok := cart.Remove(itemID, 1)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrItemNotInCart, itemID)
		}
		return next, nil
	})
}

func (s *DefaultSessionService) ConfirmCart(ctx context.Context, sessionID string) (models.Session, error) {
	sess, err := s.Store.UpdateSession(ctx, sessionID, func(sess *models.Session, cart models.Cart) (*models.Order, error) {
		if !sess.Status.CanTransition(models.StatusConfirmed) {
			return nil, fmt.Errorf("%w: cannot confirm a %s session", ErrInvalidSessionState, sess.Status)
		}
		if len(cart) == 0 {
			return nil, ErrCartEmpty
		}
		sess.Status = models.StatusConfirmed
		return nil, nil
	})
	if err != nil {
		return models.Session{}, err
	}
	s.Logger.Info("Cart confirmed", zap.String("session_id", sessionID))
	return sess, nil
}

// PlaceOrder moves a confirmed session to PLACED and writes the order record in
// the same transaction. Archival happens afterwards and never fails the call.
func (s *DefaultSessionService) PlaceOrder(ctx context.Context, sessionID string) (models.Order, error) {
	orderID := uuid.New().String()
	placedAt := s.Now().UTC()

	var order models.Order
	_, err := s.Store.UpdateSession(ctx, sessionID, func(sess *models.Session, cart models.Cart) (*models.Order, error) {
		if !sess.Status.CanTransition(models.StatusPlaced) {
			return nil, fmt.Errorf("%w: cannot place a %s session", ErrInvalidSessionState, sess.Status)
		}
		sess.Status = models.StatusPlaced
		order = models.Order{
			OrderID:   orderID,
			SessionID: sess.SessionID,
			TableID:   sess.TableID,
			Items:     cart,
			Total:     cart.Total(),
			Status:    models.StatusPlaced,
			PlacedAt:  placedAt,
		}
		return &order, nil
	})
	if err != nil {
		return models.Order{}, err
	}
	s.Logger.Info("Order placed",
		zap.String("session_id", sessionID), zap.String("order_id", order.OrderID), zap.Float64("total", order.Total))

	if s.Archiver != nil {
		if err := s.Archiver.ArchiveOrder(ctx, order); err != nil {
			s.Logger.Error("Failed to enqueue order archive", zap.String("order_id", order.OrderID), zap.Error(err))
		}
	}
	return order, nil
}

// GetOrder reads the live order record and falls back to the archive once it
// has expired.
func (s *DefaultSessionService) GetOrder(ctx context.Context, orderID string) (models.Order, error) {
	order, err := s.Store.GetOrder(ctx, orderID)
	if !errors.Is(err, ErrOrderNotFound) || s.History == nil {
		return order, err
	}
	archived, herr := s.History.GetByID(ctx, orderID)
	if herr != nil {
		s.Logger.Debug("Order not in archive", zap.String("order_id", orderID), zap.Error(herr))
		return models.Order{}, err
	}
	return *archived, nil
}
