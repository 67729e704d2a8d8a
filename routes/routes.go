package routes

import (
	"time"

	"tableorder/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterSessionRoutes registers the table session endpoint.
func RegisterSessionRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/session/start", hb.StartSession)
}

func RegisterMenuRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/menu", hb.GetMenu)
}

// RegisterCartRoutes registers the manual cart endpoints.
func RegisterCartRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	cart := r.Group("/cart")
	{
		cart.POST("/add", hb.AddToCart)
		cart.POST("/remove", hb.RemoveFromCart)
		cart.POST("/confirm", hb.ConfirmCart)
		cart.GET("/:session_id", hb.GetCart)
	}
}

func RegisterOrderRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	order := r.Group("/order")
	{
		order.POST("/place", hb.PlaceOrder)
		order.GET("/status/:order_id", hb.GetOrderStatus)
	}
}

// RegisterAgentRoutes registers the conversational endpoints.
func RegisterAgentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	agent := r.Group("/agent")
	{
		agent.POST("/chat", hb.AgentChat)
		agent.POST("/voice", hb.AgentVoice)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.Health)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterSessionRoutes(r, hb)
	RegisterMenuRoutes(r, hb)
	RegisterCartRoutes(r, hb)
	RegisterOrderRoutes(r, hb)
	RegisterAgentRoutes(r, hb)
	RegisterHealthRoute(r, hb)
}
