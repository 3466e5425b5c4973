package cdn

import (
	"context"
	"fmt"
	"sync"
)

// MemorySink is an in-memory Sink used by tests and dry runs. Counters
// live on the sink itself so tests can assert on traffic without global
// state.
type MemorySink struct {
	mu      sync.Mutex
	files   map[string][]byte
	baseURL string
	uploads int
	reads   int
}

// NewMemorySink creates an empty sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{
		files:   make(map[string][]byte),
		baseURL: "https://mock-cdn.example.com",
	}
}

// WithBaseURL overrides the URL prefix returned by Upload.
func (m *MemorySink) WithBaseURL(baseURL string) *MemorySink {
	m.baseURL = baseURL
	return m
}

// WithFile seeds the sink with an object.
func (m *MemorySink) WithFile(key string, content []byte) *MemorySink {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[key] = content
	return m
}

// Uploads reports how many Upload calls were made.
func (m *MemorySink) Uploads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.uploads
}

// Reads reports how many ReadText calls were made.
func (m *MemorySink) Reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

// Files returns a copy of the stored objects.
func (m *MemorySink) Files() map[string][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string][]byte, len(m.files))
	for key, data := range m.files {
		out[key] = append([]byte(nil), data...)
	}
	return out
}

func (m *MemorySink) Upload(_ context.Context, key string, data []byte, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploads++
	m.files[key] = append([]byte(nil), data...)
	return m.baseURL + "/" + key, nil
}

func (m *MemorySink) ReadText(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	data, ok := m.files[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return string(data), nil
}

func (m *MemorySink) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[key]
	return ok, nil
}
