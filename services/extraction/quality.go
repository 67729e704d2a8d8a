package extraction

import (
	"math"

	"tableorder/models"
)

// QualityScore rates an extraction in [0, 1]. It is advisory only and never
// changes the pipeline's control flow.
func QualityScore(res models.ExtractionResult, intentLabel string) float64 {
	score := 1.0

	if len(res.FoodItems) == 0 {
		score -= 0.4
	}

	if models.IsMutatingIntent(intentLabel) && res.Quantity <= 0 {
		score -= 0.2
	}

	if n := len(res.Clarification); n > 0 {
		score -= math.Min(0.3, 0.1*float64(n))
	}

	score = math.Max(0, math.Min(score, 1))
	return math.Round(score*100) / 100
}
