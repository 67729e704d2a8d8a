package handlers

import (
	"net/http"

	"tableorder/models"
	"tableorder/services/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type StartSessionRequest struct {
	TableID string `json:"table_id" binding:"required"`
}

type AddToCartRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	ItemID    string `json:"item_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type RemoveFromCartRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	ItemID    string `json:"item_id" binding:"required"`
}

type CartResponse struct {
	SessionID string      `json:"session_id"`
	Items     models.Cart `json:"items"`
	Total     float64     `json:"total"`
}

func cartResponse(sessionID string, cart models.Cart) CartResponse {
	if cart == nil {
		cart = models.Cart{}
	}
	return CartResponse{SessionID: sessionID, Items: cart, Total: cart.Total()}
}

// SessionHandler serves the session, cart and order endpoints.
type SessionHandler struct {
	Service session.Service
}

func NewSessionHandler(svc session.Service) *SessionHandler {
	return &SessionHandler{Service: svc}
}

func (h *SessionHandler) StartSession(c *gin.Context) {
	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	sess, err := h.Service.StartSession(c.Request.Context(), req.TableID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session_id": sess.SessionID, "status": sess.Status})
}

func (h *SessionHandler) GetCart(c *gin.Context) {
	sessionID := c.Param("session_id")
	cart, err := h.Service.GetCart(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartResponse(sessionID, cart))
}

func (h *SessionHandler) AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	cart, err := h.Service.AddItem(c.Request.Context(), req.SessionID, req.ItemID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartResponse(req.SessionID, cart))
}

func (h *SessionHandler) RemoveFromCart(c *gin.Context) {
	var req RemoveFromCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	cart, err := h.Service.RemoveItem(c.Request.Context(), req.SessionID, req.ItemID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartResponse(req.SessionID, cart))
}

func (h *SessionHandler) ConfirmCart(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required"})
		return
	}
	sess, err := h.Service.ConfirmCart(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session_id": sess.SessionID, "status": sess.Status})
}

func (h *SessionHandler) PlaceOrder(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required"})
		return
	}
	order, err := h.Service.PlaceOrder(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, err)
		return
	}
	getLogger(c).Info("Order placed", zap.String("order_id", order.OrderID), zap.String("table_id", order.TableID))
	c.JSON(http.StatusOK, gin.H{"order_id": order.OrderID, "session_id": order.SessionID})
}

func (h *SessionHandler) GetOrderStatus(c *gin.Context) {
	order, err := h.Service.GetOrder(c.Request.Context(), c.Param("order_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
