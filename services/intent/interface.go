package intent

import (
	"context"
	"errors"

	"tableorder/models"
)

// ErrModelUnavailable means no classification could be produced. Callers must fail the request.
var ErrModelUnavailable = errors.New("intent model unavailable")

// Classifier maps an utterance to an intent label with ranked alternatives.
type Classifier interface {
	Classify(ctx context.Context, text string) (models.IntentResult, error)
}
