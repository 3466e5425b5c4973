// Package imaging re-encodes generated images into the fixed-dimension
// JPEG and WebP variants served to the web.
package imaging

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/HugoSmits86/nativewebp"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
)

const (
	outputWidth  = 800
	outputHeight = 800
)

// ProcessingError indicates a local decode/encode failure. These are not
// retryable without a different input image.
type ProcessingError struct {
	Op  string
	Err error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("image %s: %v", e.Op, e.Err)
}

func (e *ProcessingError) Unwrap() error { return e.Err }

// Pair holds the two re-encoded variants of one generated image. The
// files belong to the pipeline invocation that produced them until the
// upload hands them off.
type Pair struct {
	JPEGPath string
	WebPPath string
}

// Service converts raw generated image bytes into a web-ready Pair.
type Service interface {
	Process(ctx context.Context, imageData []byte, baseName string) (Pair, error)
}

// Processor implements Service on the local filesystem.
type Processor struct {
	outputDir string
	logger    *zap.Logger
}

// NewProcessor creates a processor writing into outputDir.
func NewProcessor(outputDir string, logger *zap.Logger) *Processor {
	return &Processor{outputDir: outputDir, logger: logger}
}

// Process decodes imageData, resizes to 800x800 and writes a JPEG and a
// WebP variant named <baseName>_<uuid>.<ext>.
func (p *Processor) Process(_ context.Context, imageData []byte, baseName string) (Pair, error) {
	src, format, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return Pair{}, &ProcessingError{Op: "decode", Err: err}
	}
	p.logger.Debug("decoded generated image",
		zap.String("format", format),
		zap.Int("bytes", len(imageData)))

	resized := resize(src)

	if err := os.MkdirAll(p.outputDir, 0o755); err != nil {
		return Pair{}, &ProcessingError{Op: "create output dir", Err: err}
	}

	id := uuid.New()
	jpegPath := filepath.Join(p.outputDir, fmt.Sprintf("%s_%s.jpg", baseName, id))
	webpPath := filepath.Join(p.outputDir, fmt.Sprintf("%s_%s.webp", baseName, id))

	if err := writeJPEG(jpegPath, resized); err != nil {
		return Pair{}, err
	}
	if err := writeWebP(webpPath, resized); err != nil {
		return Pair{}, err
	}

	return Pair{JPEGPath: jpegPath, WebPPath: webpPath}, nil
}

func resize(src image.Image) image.Image {
	bounds := src.Bounds()
	if bounds.Dx() == outputWidth && bounds.Dy() == outputHeight {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, outputWidth, outputHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}

func writeJPEG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return &ProcessingError{Op: "write jpeg", Err: err}
	}
	defer file.Close()

	if err := jpeg.Encode(file, img, &jpeg.Options{Quality: 90}); err != nil {
		return &ProcessingError{Op: "encode jpeg", Err: err}
	}
	return nil
}

func writeWebP(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return &ProcessingError{Op: "write webp", Err: err}
	}
	defer file.Close()

	if err := nativewebp.Encode(file, img, nil); err != nil {
		return &ProcessingError{Op: "encode webp", Err: err}
	}
	return nil
}
