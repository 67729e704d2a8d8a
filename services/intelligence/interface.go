package ai

import "context"

// Generator is the opaque text-in/text-out call to a generative model. It
// gives no guarantee about the structure of what it returns.
type Generator interface {
	Generate(ctx context.Context, prompt string, temperature float32, maxTokens int) (string, error)
}

// GeneratorFunc adapts a plain function to the Generator interface.
type GeneratorFunc func(ctx context.Context, prompt string, temperature float32, maxTokens int) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string, temperature float32, maxTokens int) (string, error) {
	return f(ctx, prompt, temperature, maxTokens)
}
