package agent

import (
	"context"

	"tableorder/models"
	ai "tableorder/services/intelligence"
)

type EntityExtractor interface {
	Extract(text string) models.ExtractionResult
}

type DecisionArbiter interface {
	Arbitrate(ctx context.Context, in ai.PromptInput) ai.Result
}

type CartReconciler interface {
	Reconcile(ctx context.Context, sessionID string, decision models.Decision) (models.Cart, error)
}

type SessionReader interface {
	GetSession(ctx context.Context, sessionID string) (models.Session, error)
}

// Agent answers one utterance for one session.
type Agent interface {
	HandleMessage(ctx context.Context, sessionID, message string) (models.AgentChatResponse, error)
}
