package imaging

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// MockProcessor is a Service test double that writes tiny placeholder
// files instead of re-encoding images.
type MockProcessor struct {
	mu        sync.Mutex
	outputDir string
	failWith  error
	calls     int
}

func NewMockProcessor(outputDir string) *MockProcessor {
	return &MockProcessor{outputDir: outputDir}
}

// FailWith makes every Process call return err.
func (m *MockProcessor) FailWith(err error) *MockProcessor {
	m.failWith = err
	return m
}

func (m *MockProcessor) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockProcessor) Process(_ context.Context, imageData []byte, baseName string) (Pair, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.failWith != nil {
		return Pair{}, m.failWith
	}

	id := uuid.New()
	pair := Pair{
		JPEGPath: filepath.Join(m.outputDir, fmt.Sprintf("%s_%s.jpg", baseName, id)),
		WebPPath: filepath.Join(m.outputDir, fmt.Sprintf("%s_%s.webp", baseName, id)),
	}
	if err := os.WriteFile(pair.JPEGPath, imageData, 0o644); err != nil {
		return Pair{}, err
	}
	if err := os.WriteFile(pair.WebPPath, imageData, 0o644); err != nil {
		return Pair{}, err
	}
	return pair, nil
}
