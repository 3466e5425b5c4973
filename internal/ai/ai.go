// Package ai defines the provider capability interfaces consumed by the
// generation pipeline, with one implementation per provider (OpenAI,
// Gemini). Provider choice is a configuration-time decision; the pipeline
// only sees these interfaces.
package ai

import (
	"context"
	"fmt"
	"strings"

	"dreamgen/internal/types"
)

// PromptGenerator produces an image-generation prompt from a word group.
type PromptGenerator interface {
	GeneratePrompt(ctx context.Context, words []types.Word) (string, error)
}

// ImageGenerator renders an image for a prompt. The word group is passed
// along so the enhancement template can require each word to be visually
// present.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string, words []types.Word) ([]byte, error)
}

// TextDetector reports whether an image contains embedded readable text.
type TextDetector interface {
	DetectText(ctx context.Context, image []byte) (bool, error)
}

// Embedder computes embedding vectors for a batch of texts. Used by the
// word-similarity audit tooling, not by the daily pipeline.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// ProviderError wraps a transport, HTTP or parse failure from an AI
// provider. These are transient and retryable at the challenge level.
type ProviderError struct {
	Provider string
	Op       string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

func providerErr(provider, op string, err error) error {
	return &ProviderError{Provider: provider, Op: op, Err: err}
}

// joinWords renders a word group as the comma-separated list the prompt
// templates expect.
func joinWords(words []types.Word) string {
	parts := make([]string, 0, len(words))
	for _, w := range words {
		parts = append(parts, w.Word)
	}
	return strings.Join(parts, ", ")
}
