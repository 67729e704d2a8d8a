// Package agent runs the conversational ordering pipeline: intent and entity
// extraction, flow selection, arbitration and, behind a two-key gate, cart
// reconciliation.
package agent

import (
	"context"
	"fmt"
	"strings"

	"tableorder/models"
	"tableorder/services/extraction"
	"tableorder/services/flow"
	ai "tableorder/services/intelligence"
	"tableorder/services/intent"
	"tableorder/services/menu"
	"tableorder/services/session"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MutationAllowed is the two-key gate: the classifier and the arbiter must name
// the same mutating action, and the session must still be ORDERING.
func MutationAllowed(intentLabel string, action models.DecisionAction, status models.SessionStatus) bool {
	return actionsAgree(intentLabel, action) && status.Mutable()
}

func actionsAgree(intentLabel string, action models.DecisionAction) bool {
	return models.IsMutatingIntent(intentLabel) && string(action) == intentLabel
}

// Pipeline implements Agent.
type Pipeline struct {
	Sessions   SessionReader
	Classifier intent.Classifier
	Extractor  EntityExtractor
	Arbiter    DecisionArbiter
	Reconciler CartReconciler
	Catalog    menu.Catalog
	Logger     *zap.Logger

	metrics *pipelineMetrics
}

// NewPipeline wires the stages together. A nil meter uses the global provider.
func NewPipeline(
	sessions SessionReader,
	classifier intent.Classifier,
	extractor EntityExtractor,
	arbiter DecisionArbiter,
	reconciler CartReconciler,
	catalog menu.Catalog,
	meter metric.Meter,
	logger *zap.Logger,
) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	m, err := newPipelineMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("agent metrics: %w", err)
	}
	return &Pipeline{
		Sessions:   sessions,
		Classifier: classifier,
		Extractor:  extractor,
		Arbiter:    arbiter,
		Reconciler: reconciler,
		Catalog:    catalog,
		Logger:     logger,
		metrics:    m,
	}, nil
}

// HandleMessage runs one utterance through the pipeline. The returned Cart is
// set only when a mutation was applied.
func (p *Pipeline) HandleMessage(ctx context.Context, sessionID, message string) (models.AgentChatResponse, error) {
	log := p.Logger.With(zap.String("session_id", sessionID))
	text := strings.TrimSpace(message)

	sess, err := p.Sessions.GetSession(ctx, sessionID)
	if err != nil {
		return models.AgentChatResponse{}, err
	}

	var (
		intentRes models.IntentResult
		extracted models.ExtractionResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := p.Classifier.Classify(gctx, text)
		if err != nil {
			return err
		}
		intentRes = res
		return nil
	})
	g.Go(func() error {
		extracted = p.Extractor.Extract(text)
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Error("Intent classification failed", zap.Error(err))
		return models.AgentChatResponse{}, err
	}

	quality := extraction.QualityScore(extracted, intentRes.Label)
	p.metrics.recordQuality(ctx, quality, intentRes.Label)

	chosen := flow.Decide(intentRes.Label, extracted)
	log.Debug("Utterance analysed",
		zap.String("intent", intentRes.Label),
		zap.Float64("confidence", intentRes.Confidence),
		zap.Strings("food_items", extracted.FoodItems),
		zap.Int("clarifications", len(extracted.Clarification)),
		zap.Float64("quality", quality),
		zap.String("flow", string(chosen)))

	verdict := p.Arbiter.Arbitrate(ctx, ai.PromptInput{
		Text:       text,
		Intent:     intentRes,
		Extraction: extracted,
		Flow:       chosen,
		Menu:       p.menuPreview(extracted),
	})
	if verdict.Fallback {
		p.metrics.recordFallback(ctx, verdict.Reason)
	}

	resp := models.AgentChatResponse{
		Intent:            intentRes.Label,
		IntentConfidence:  intentRes.Confidence,
		Alternatives:      intentRes.Alternatives,
		Extraction:        extracted,
		ExtractionQuality: quality,
		Flow:              chosen,
		Decision:          verdict.Decision,
	}

	if !actionsAgree(intentRes.Label, verdict.Decision.Action) {
		return resp, nil
	}
	if !MutationAllowed(intentRes.Label, verdict.Decision.Action, sess.Status) {
		log.Info("Refusing cart change outside ORDERING", zap.String("status", string(sess.Status)))
		return models.AgentChatResponse{}, fmt.Errorf("%w: session is %s", session.ErrInvalidSessionState, sess.Status)
	}

	cart, err := p.Reconciler.Reconcile(ctx, sessionID, verdict.Decision)
	if err != nil {
		log.Error("Cart reconciliation failed", zap.Error(err))
		return models.AgentChatResponse{}, err
	}
	p.metrics.recordMutation(ctx, string(verdict.Decision.Action))
	resp.Cart = &cart
	return resp, nil
}

// menuPreview puts clarification options ahead of the rest of the menu so the
// arbiter sees the candidates first.
func (p *Pipeline) menuPreview(res models.ExtractionResult) []string {
	seen := map[string]bool{}
	var names []string
	push := func(n string) {
		key := menu.NormalizeTerm(n)
		if !seen[key] {
			seen[key] = true
			names = append(names, n)
		}
	}
	for _, c := range res.Clarification {
		for _, o := range c.Options {
			push(o)
		}
	}
	if p.Catalog != nil {
		for _, n := range menu.Names(p.Catalog) {
			push(n)
		}
	}
	return names
}
