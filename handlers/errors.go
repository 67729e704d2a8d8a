package handlers

import (
	"context"
	"errors"
	"net/http"

	"tableorder/services/intent"
	"tableorder/services/session"
	"tableorder/services/speech"
	"tableorder/utils"

	"github.com/gin-gonic/gin"
)

type errorMapping struct {
	target  error
	status  int
	message string
}

var errorMappings = []errorMapping{
	{session.ErrSessionNotFound, http.StatusNotFound, "Session not found"},
	{session.ErrOrderNotFound, http.StatusNotFound, "Order not found"},
	{session.ErrItemNotFound, http.StatusNotFound, "Menu item not found"},
	{session.ErrItemNotInCart, http.StatusNotFound, "Item not in cart"},
	{session.ErrInvalidSessionState, http.StatusConflict, "Invalid session state"},
	{session.ErrCartEmpty, http.StatusBadRequest, "Cart is empty"},
	{session.ErrConcurrentUpdate, http.StatusServiceUnavailable, "Cart is busy, please retry"},
	{session.ErrStoreUnavailable, http.StatusServiceUnavailable, "Session store unavailable"},
	{intent.ErrModelUnavailable, http.StatusServiceUnavailable, "Intent model unavailable"},
	{speech.ErrUnsupportedAudio, http.StatusBadRequest, "Unsupported audio"},
	{speech.ErrNoSpeech, http.StatusUnprocessableEntity, "No speech recognized"},
	{context.DeadlineExceeded, http.StatusGatewayTimeout, "Request timed out"},
}

// statusForError maps a service error to an HTTP status and a short message.
func statusForError(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.message
		}
	}
	return http.StatusInternalServerError, "Internal Server Error"
}

func respondError(c *gin.Context, err error) {
	status, message := statusForError(err)
	utils.JSONError(c, status, message, err.Error())
}
