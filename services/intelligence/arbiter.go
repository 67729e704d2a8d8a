package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tableorder/models"

	"go.uber.org/zap"
)

// Fallback reasons reported alongside a hard fallback.
const (
	ReasonTimeout           = "timeout"
	ReasonGeneratorError    = "generator_error"
	ReasonContractViolation = "contract_violation"
	ReasonPanic             = "panic"
)

// Result carries the decision and whether it is the hard fallback.
type Result struct {
	Decision models.Decision
	Fallback bool
	Reason   string
}

// Arbiter turns an utterance and its signals into a validated Decision. It is
// always invoked and never returns an error.
type Arbiter struct {
	Generator   Generator
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
	Logger      *zap.Logger
}

func NewArbiter(gen Generator, temperature float32, maxTokens int, timeout time.Duration, logger *zap.Logger) *Arbiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Arbiter{
		Generator:   gen,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Timeout:     timeout,
		Logger:      logger,
	}
}

func (a *Arbiter) Arbitrate(ctx context.Context, in PromptInput) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			a.Logger.Error("Arbiter panicked", zap.Any("panic", r))
			res = fallback(ReasonPanic)
		}
	}()

	if a.Generator == nil {
		return fallback(ReasonGeneratorError)
	}
	if a.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Timeout)
		defer cancel()
	}

	raw, err := a.generate(ctx, BuildPrompt(in))
	if err != nil {
		reason := ReasonGeneratorError
		if errors.Is(err, context.DeadlineExceeded) {
			reason = ReasonTimeout
		}
		a.Logger.Warn("Generator call failed, using fallback decision",
			zap.String("flow", string(in.Flow)), zap.String("reason", reason), zap.Error(err))
		return fallback(reason)
	}

	decision, err := DecodeDecision(raw)
	if err != nil {
		a.Logger.Warn("Generator output rejected, using fallback decision",
			zap.String("flow", string(in.Flow)), zap.Error(err))
		return fallback(ReasonContractViolation)
	}
	a.Logger.Debug("Arbiter decision",
		zap.String("flow", string(in.Flow)), zap.String("action", string(decision.Action)))
	return Result{Decision: decision}
}

// generate runs the call in its own goroutine so a generator that ignores its
// context still cannot hold the request past the deadline.
func (a *Arbiter) generate(ctx context.Context, prompt string) (string, error) {
	type reply struct {
		text string
		err  error
	}
	done := make(chan reply, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- reply{err: fmt.Errorf("generator panicked: %v", r)}
			}
		}()
		text, err := a.Generator.Generate(ctx, prompt, a.Temperature, a.MaxTokens)
		done <- reply{text: text, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil && ctx.Err() != nil {
			return "", fmt.Errorf("%w: %v", ctx.Err(), r.err)
		}
		return r.text, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func fallback(reason string) Result {
	return Result{Decision: FallbackDecision(), Fallback: true, Reason: reason}
}
