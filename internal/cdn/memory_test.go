package cdn

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySinkUploadAndRead(t *testing.T) {
	sink := NewMemorySink()
	ctx := context.Background()

	url, err := sink.Upload(ctx, "test.json", []byte(`{"test":true}`), "application/json")
	require.NoError(t, err)
	assert.Equal(t, "https://mock-cdn.example.com/test.json", url)
	assert.Equal(t, 1, sink.Uploads())

	content, err := sink.ReadText(ctx, "test.json")
	require.NoError(t, err)
	assert.Equal(t, `{"test":true}`, content)
	assert.Equal(t, 1, sink.Reads())
}

func TestMemorySinkMissingKey(t *testing.T) {
	sink := NewMemorySink()

	_, err := sink.ReadText(context.Background(), "missing.json")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemorySinkExists(t *testing.T) {
	sink := NewMemorySink().WithFile("existing.json", []byte("content"))
	ctx := context.Background()

	exists, err := sink.Exists(ctx, "existing.json")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = sink.Exists(ctx, "missing.json")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMemorySinkCustomBaseURL(t *testing.T) {
	sink := NewMemorySink().WithBaseURL("https://custom-cdn.test")

	url, err := sink.Upload(context.Background(), "file.txt", []byte("data"), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "https://custom-cdn.test/file.txt", url)
}
