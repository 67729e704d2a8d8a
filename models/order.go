package models

import "time"

// Order is the record written when a confirmed cart is placed.
type Order struct {
	OrderID   string        `bson:"order_id" json:"order_id"`
	SessionID string        `bson:"session_id" json:"session_id"`
	TableID   string        `bson:"table_id" json:"table_id"`
	Items     Cart          `bson:"items" json:"items"`
	Total     float64       `bson:"total" json:"total"`
	Status    SessionStatus `bson:"status" json:"status"`
	PlacedAt  time.Time     `bson:"placed_at" json:"placed_at"`
}

// OrderArchivePayload is the asynq task body for archiving a placed order.
type OrderArchivePayload struct {
	Order Order `json:"order"`
}
