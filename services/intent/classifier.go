package intent

import (
	"context"
	"fmt"

	"tableorder/models"
)

// ModelClassifier runs a loaded Model in process. A nil model makes every call
// fail with ErrModelUnavailable.
type ModelClassifier struct {
	model *Model
}

func NewModelClassifier(m *Model) *ModelClassifier {
	return &ModelClassifier{model: m}
}

func (c *ModelClassifier) Classify(ctx context.Context, text string) (res models.IntentResult, err error) {
	if c == nil || c.model == nil {
		return models.IntentResult{}, ErrModelUnavailable
	}
	if err := ctx.Err(); err != nil {
		return models.IntentResult{}, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	defer func() {
		if r := recover(); r != nil {
			res, err = models.IntentResult{}, fmt.Errorf("%w: inference panic: %v", ErrModelUnavailable, r)
		}
	}()
	return c.model.result(c.model.Predict(text)), nil
}
