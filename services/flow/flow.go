// Package flow picks the conversational mode for an utterance. It never looks at
// session status: whether a cart may change is decided at the mutation gate.
package flow

import "tableorder/models"

// Decide maps an intent label and an extraction to a flow.
//
// Open ambiguity always asks for clarification. A suggestion request gets
// suggestions. Everything else goes to EXECUTE, including utterances where
// nothing was found, so the arbiter answers them with a graceful no-op.
// GENERIC is left to the prompt builder for flows it does not know.
func Decide(intentLabel string, extraction models.ExtractionResult) models.Flow {
	switch {
	case len(extraction.Clarification) > 0:
		return models.FlowClarification
	case intentLabel == models.IntentSuggestFood:
		return models.FlowSuggest
	default:
		return models.FlowExecute
	}
}
