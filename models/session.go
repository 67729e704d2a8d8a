package models

import "time"

// SessionStatus only moves forward: ORDERING -> CONFIRMED -> PLACED.
type SessionStatus string

const (
	StatusOrdering  SessionStatus = "ORDERING"
	StatusConfirmed SessionStatus = "CONFIRMED"
	StatusPlaced    SessionStatus = "PLACED"
)

// Session is a table's ordering session. Its cart is stored under the same id.
type Session struct {
	SessionID string        `json:"session_id"`
	TableID   string        `json:"table_id"`
	Status    SessionStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

// CanTransition reports whether the status may move to next.
func (s SessionStatus) CanTransition(next SessionStatus) bool {
	switch s {
	case StatusOrdering:
		return next == StatusConfirmed
	case StatusConfirmed:
		return next == StatusPlaced
	default:
		return false
	}
}

// Mutable reports whether the cart may still change.
func (s SessionStatus) Mutable() bool {
	return s == StatusOrdering
}
