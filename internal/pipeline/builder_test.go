package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dreamgen/internal/ai"
	"dreamgen/internal/cdn"
	"dreamgen/internal/imaging"
	"dreamgen/internal/types"
)

type builderFixture struct {
	prompts *ai.MockPromptGenerator
	images  *ai.MockImageGenerator
	qa      *ai.MockTextDetector
	sink    *cdn.MemorySink
	builder *Builder
}

func newBuilderFixture(t *testing.T) *builderFixture {
	t.Helper()
	f := &builderFixture{
		prompts: ai.NewMockPromptGenerator(),
		images:  ai.NewMockImageGenerator(),
		qa:      ai.NewMockTextDetector(),
		sink:    cdn.NewMemorySink(),
	}
	processor := imaging.NewMockProcessor(t.TempDir())
	f.builder = NewBuilder(f.prompts, f.images, f.qa, processor, f.sink, zap.NewNop(), WithQARetryDelay(0))
	return f
}

func easyWords() []types.Word {
	return []types.Word{
		{Word: "lantern", Type: types.WordTypeObject},
		{Word: "bridge", Type: types.WordTypeObject},
		{Word: "compass", Type: types.WordTypeObject},
	}
}

func TestBuildCleanFirstImage(t *testing.T) {
	f := newBuilderFixture(t)

	challenge, err := f.builder.Build(context.Background(), easyWords(), types.DifficultyEasy)

	require.NoError(t, err)
	assert.Equal(t, 1, f.images.Calls())
	assert.Equal(t, 1, f.qa.Calls())
	assert.Equal(t, easyWords(), challenge.Words)
}

func TestBuildRegeneratesFlaggedImages(t *testing.T) {
	f := newBuilderFixture(t)
	f.qa.WithDetection(true).WithDetection(true) // third verdict defaults to clean

	_, err := f.builder.Build(context.Background(), easyWords(), types.DifficultyEasy)

	require.NoError(t, err)
	assert.Equal(t, 3, f.images.Calls())
	assert.Equal(t, 3, f.qa.Calls())
}

func TestBuildAcceptsFinalFlaggedImage(t *testing.T) {
	f := newBuilderFixture(t)
	f.qa.WithDetection(true).WithDetection(true).WithDetection(true)

	_, err := f.builder.Build(context.Background(), easyWords(), types.DifficultyEasy)

	require.NoError(t, err)
	assert.Equal(t, 3, f.images.Calls())
	assert.Equal(t, 3, f.qa.Calls())
}

func TestBuildChallengeArtifacts(t *testing.T) {
	f := newBuilderFixture(t)
	f.prompts.WithPrompt("A lantern drifts over a glass bridge")

	challenge, err := f.builder.Build(context.Background(), easyWords(), types.DifficultyMedium)

	require.NoError(t, err)
	assert.Equal(t, "A lantern drifts over a glass bridge", challenge.Prompt)
	assert.True(t, strings.HasPrefix(challenge.ImagePath, "images/medium_"), "image path %q", challenge.ImagePath)
	assert.True(t, strings.HasSuffix(challenge.ImagePath, ".jpg"))
	assert.Contains(t, challenge.ImageURLJPG, challenge.ImagePath)
	assert.True(t, strings.HasSuffix(challenge.ImageURLWebP, ".webp"))

	files := f.sink.Files()
	assert.Contains(t, files, challenge.ImagePath)
	assert.Len(t, files, 2)
}

func TestBuildPromptFailure(t *testing.T) {
	f := newBuilderFixture(t)
	boom := errors.New("chat provider unavailable")
	f.prompts.WithError(boom)

	_, err := f.builder.Build(context.Background(), easyWords(), types.DifficultyEasy)

	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, f.images.Calls())
	assert.Equal(t, 0, f.sink.Uploads())
}

func TestBuildImageFailure(t *testing.T) {
	f := newBuilderFixture(t)
	boom := errors.New("image provider unavailable")
	f.images.WithError(boom)

	_, err := f.builder.Build(context.Background(), easyWords(), types.DifficultyEasy)

	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, f.qa.Calls())
}

func TestBuildDetectorFailure(t *testing.T) {
	f := newBuilderFixture(t)
	boom := errors.New("qa provider unavailable")
	f.qa.WithError(boom)

	_, err := f.builder.Build(context.Background(), easyWords(), types.DifficultyEasy)

	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, f.sink.Uploads())
}

func TestBuildProcessorFailure(t *testing.T) {
	f := newBuilderFixture(t)
	boom := errors.New("decode failed")
	processor := imaging.NewMockProcessor(t.TempDir()).FailWith(boom)
	builder := NewBuilder(f.prompts, f.images, f.qa, processor, f.sink, zap.NewNop(), WithQARetryDelay(0))

	_, err := builder.Build(context.Background(), easyWords(), types.DifficultyEasy)

	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, f.sink.Uploads())
}
