package ai

import (
	"context"
	"fmt"
	"sync"

	"dreamgen/internal/types"
)

// Scripted test doubles for the provider interfaces. Each mock carries
// its own call counter; outcomes are consumed in order and fall back to
// a default once the script is exhausted.

type promptOutcome struct {
	prompt string
	err    error
}

// MockPromptGenerator is a scripted PromptGenerator.
type MockPromptGenerator struct {
	mu     sync.Mutex
	script []promptOutcome
	calls  int
}

func NewMockPromptGenerator() *MockPromptGenerator { return &MockPromptGenerator{} }

// WithPrompt queues a successful response.
func (m *MockPromptGenerator) WithPrompt(p string) *MockPromptGenerator {
	m.script = append(m.script, promptOutcome{prompt: p})
	return m
}

// WithError queues a failing response.
func (m *MockPromptGenerator) WithError(err error) *MockPromptGenerator {
	m.script = append(m.script, promptOutcome{err: err})
	return m
}

// Calls reports how many times GeneratePrompt was invoked.
func (m *MockPromptGenerator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockPromptGenerator) GeneratePrompt(_ context.Context, words []types.Word) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if len(m.script) > 0 {
		outcome := m.script[0]
		m.script = m.script[1:]
		return outcome.prompt, outcome.err
	}
	return fmt.Sprintf("A dreamlike scene with %s", joinWords(words)), nil
}

type imageOutcome struct {
	image []byte
	err   error
}

// MockImageGenerator is a scripted ImageGenerator.
type MockImageGenerator struct {
	mu     sync.Mutex
	script []imageOutcome
	calls  int
}

func NewMockImageGenerator() *MockImageGenerator { return &MockImageGenerator{} }

func (m *MockImageGenerator) WithImage(data []byte) *MockImageGenerator {
	m.script = append(m.script, imageOutcome{image: data})
	return m
}

func (m *MockImageGenerator) WithError(err error) *MockImageGenerator {
	m.script = append(m.script, imageOutcome{err: err})
	return m
}

func (m *MockImageGenerator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockImageGenerator) GenerateImage(_ context.Context, _ string, _ []types.Word) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if len(m.script) > 0 {
		outcome := m.script[0]
		m.script = m.script[1:]
		return outcome.image, outcome.err
	}
	return tinyPNG(), nil
}

// tinyPNG returns a valid 1x1 PNG payload.
func tinyPNG() []byte {
	return []byte{
		0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
		0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
		0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
		0x08, 0x02, 0x00, 0x00, 0x00, 0x90, 0x77, 0x53,
		0xDE, 0x00, 0x00, 0x00, 0x0C, 0x49, 0x44, 0x41,
		0x54, 0x08, 0x99, 0x63, 0xF8, 0xCF, 0xC0, 0x00,
		0x00, 0x00, 0x01, 0x00, 0x01, 0xE2, 0x25, 0x00,
		0xBC, 0x00, 0x00, 0x00, 0x00, 0x49, 0x45, 0x4E,
		0x44, 0xAE, 0x42, 0x60, 0x82,
	}
}

type detectOutcome struct {
	hasText bool
	err     error
}

// MockTextDetector is a scripted TextDetector. The default verdict once
// the script runs out is "no text".
type MockTextDetector struct {
	mu     sync.Mutex
	script []detectOutcome
	calls  int
}

func NewMockTextDetector() *MockTextDetector { return &MockTextDetector{} }

func (m *MockTextDetector) WithDetection(hasText bool) *MockTextDetector {
	m.script = append(m.script, detectOutcome{hasText: hasText})
	return m
}

func (m *MockTextDetector) WithError(err error) *MockTextDetector {
	m.script = append(m.script, detectOutcome{err: err})
	return m
}

func (m *MockTextDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockTextDetector) DetectText(_ context.Context, _ []byte) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if len(m.script) > 0 {
		outcome := m.script[0]
		m.script = m.script[1:]
		return outcome.hasText, outcome.err
	}
	return false, nil
}

// MockEmbedder returns deterministic embeddings keyed by input order.
type MockEmbedder struct {
	mu      sync.Mutex
	vectors map[string][]float32
	calls   int
}

func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{vectors: make(map[string][]float32)}
}

// WithVector fixes the embedding returned for text.
func (m *MockEmbedder) WithVector(text string, vec []float32) *MockEmbedder {
	m.vectors[text] = vec
	return m
}

func (m *MockEmbedder) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if vec, ok := m.vectors[text]; ok {
			out[i] = vec
			continue
		}
		// Arbitrary but stable fallback vector.
		out[i] = []float32{float32(len(text)), 1, 0}
	}
	return out, nil
}
