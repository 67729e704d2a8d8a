package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Session endpoints
	StartSession gin.HandlerFunc

	// Menu endpoints
	GetMenu gin.HandlerFunc

	// Cart endpoints
	AddToCart      gin.HandlerFunc
	RemoveFromCart gin.HandlerFunc
	GetCart        gin.HandlerFunc
	ConfirmCart    gin.HandlerFunc

	// Order endpoints
	PlaceOrder     gin.HandlerFunc
	GetOrderStatus gin.HandlerFunc

	// Agent endpoints
	AgentChat  gin.HandlerFunc
	AgentVoice gin.HandlerFunc

	Health gin.HandlerFunc
}

// NewHandlerBundle wires the handler methods into a bundle.
func NewHandlerBundle(sessions *SessionHandler, menu *MenuHandler, agent *AgentHandler) *HandlerBundle {
	return &HandlerBundle{
		StartSession:   sessions.StartSession,
		GetMenu:        menu.GetMenu,
		AddToCart:      sessions.AddToCart,
		RemoveFromCart: sessions.RemoveFromCart,
		GetCart:        sessions.GetCart,
		ConfirmCart:    sessions.ConfirmCart,
		PlaceOrder:     sessions.PlaceOrder,
		GetOrderStatus: sessions.GetOrderStatus,
		AgentChat:      agent.Chat,
		AgentVoice:     agent.Voice,
		Health:         Health,
	}
}
