package pipeline

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"dreamgen/internal/ai"
	"dreamgen/internal/cdn"
	"dreamgen/internal/imaging"
	"dreamgen/internal/types"
)

// maxImageAttempts bounds the image regeneration loop when QA keeps
// flagging rendered text. The final attempt is accepted regardless.
const maxImageAttempts = 3

// Builder produces a single challenge: prompt generation, image
// generation with text-detection QA, image processing, and upload.
type Builder struct {
	prompts   ai.PromptGenerator
	images    ai.ImageGenerator
	qa        ai.TextDetector
	processor imaging.Service
	sink      cdn.Sink
	logger    *zap.Logger

	qaRetryDelay time.Duration
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithQARetryDelay overrides the delay between flagged image attempts.
func WithQARetryDelay(d time.Duration) BuilderOption {
	return func(b *Builder) {
		b.qaRetryDelay = d
	}
}

// NewBuilder creates a challenge builder.
func NewBuilder(prompts ai.PromptGenerator, images ai.ImageGenerator, qa ai.TextDetector, processor imaging.Service, sink cdn.Sink, logger *zap.Logger, opts ...BuilderOption) *Builder {
	b := &Builder{
		prompts:      prompts,
		images:       images,
		qa:           qa,
		processor:    processor,
		sink:         sink,
		logger:       logger,
		qaRetryDelay: time.Second,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build runs the full state machine for one difficulty and returns the
// finished challenge.
func (b *Builder) Build(ctx context.Context, words []types.Word, difficulty types.Difficulty) (types.Challenge, error) {
	logger := b.logger.With(zap.String("difficulty", string(difficulty)))

	prompt, err := b.prompts.GeneratePrompt(ctx, words)
	if err != nil {
		return types.Challenge{}, fmt.Errorf("generate prompt for %s: %w", difficulty, err)
	}
	logger.Info("prompt generated", zap.Int("length", len(prompt)))

	imageData, err := b.generateCleanImage(ctx, logger, prompt, words)
	if err != nil {
		return types.Challenge{}, fmt.Errorf("generate image for %s: %w", difficulty, err)
	}

	pair, err := b.processor.Process(ctx, imageData, string(difficulty))
	if err != nil {
		return types.Challenge{}, fmt.Errorf("process image for %s: %w", difficulty, err)
	}

	jpegKey := path.Join("images", filepath.Base(pair.JPEGPath))
	webpKey := path.Join("images", filepath.Base(pair.WebPPath))

	jpegURL, err := b.uploadFile(ctx, pair.JPEGPath, jpegKey, "image/jpeg")
	if err != nil {
		return types.Challenge{}, fmt.Errorf("upload jpeg for %s: %w", difficulty, err)
	}
	webpURL, err := b.uploadFile(ctx, pair.WebPPath, webpKey, "image/webp")
	if err != nil {
		return types.Challenge{}, fmt.Errorf("upload webp for %s: %w", difficulty, err)
	}

	logger.Info("challenge built",
		zap.String("jpeg_key", jpegKey),
		zap.String("webp_key", webpKey))

	return types.Challenge{
		Words:        words,
		ImagePath:    jpegKey,
		ImageURLJPG:  jpegURL,
		ImageURLWebP: webpURL,
		Prompt:       prompt,
	}, nil
}

// generateCleanImage regenerates the image while QA flags rendered
// text, up to maxImageAttempts. The last attempt is accepted with a
// warning even when flagged.
func (b *Builder) generateCleanImage(ctx context.Context, logger *zap.Logger, prompt string, words []types.Word) ([]byte, error) {
	for attempt := 1; ; attempt++ {
		imageData, err := b.images.GenerateImage(ctx, prompt, words)
		if err != nil {
			return nil, err
		}

		hasText, err := b.qa.DetectText(ctx, imageData)
		if err != nil {
			return nil, err
		}
		if !hasText {
			return imageData, nil
		}

		if attempt >= maxImageAttempts {
			logger.Warn("image still contains text after final attempt, accepting",
				zap.Int("attempts", attempt))
			return imageData, nil
		}

		logger.Warn("image contains text, regenerating",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", maxImageAttempts))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(b.qaRetryDelay):
		}
	}
}

func (b *Builder) uploadFile(ctx context.Context, localPath, key, contentType string) (string, error) {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", localPath, err)
	}
	return b.sink.Upload(ctx, key, data, contentType)
}
