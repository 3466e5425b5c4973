package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"dreamgen/internal/cdn"
	"dreamgen/internal/types"
	"dreamgen/internal/words"
)

const (
	dateLayout   = "2006-01-02"
	daysIndexKey = "days.json"
	todayKey     = "today.json"
)

// ErrIDOverflow is returned when the day index has exhausted the ID space.
var ErrIDOverflow = errors.New("day id space exhausted")

// App coordinates a full generation run: word selection, concurrent
// challenge builds, and publication of the day document, index, and
// today pointer.
type App struct {
	selector  *words.Selector
	builder   *Builder
	sink      cdn.Sink
	outputDir string
	logger    *zap.Logger

	now   func() time.Time
	retry RetryConfig
}

// AppOption configures an App.
type AppOption func(*App)

// WithClock overrides the wall clock used for the today pointer.
func WithClock(now func() time.Time) AppOption {
	return func(a *App) { a.now = now }
}

// WithRetryConfig overrides the per-challenge retry policy.
func WithRetryConfig(cfg RetryConfig) AppOption {
	return func(a *App) { a.retry = cfg }
}

// NewApp creates the generation pipeline. outputDir receives a local
// copy of each published day document; empty disables the copy.
func NewApp(selector *words.Selector, builder *Builder, sink cdn.Sink, outputDir string, logger *zap.Logger, opts ...AppOption) *App {
	a := &App{
		selector:  selector,
		builder:   builder,
		sink:      sink,
		outputDir: outputDir,
		logger:    logger,
		now:       time.Now,
		retry:     DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run generates and publishes the challenges for target. Re-running for
// an already-indexed date reuses its ID and leaves the index untouched.
func (a *App) Run(ctx context.Context, target time.Time) error {
	date := target.Format(dateLayout)
	logger := a.logger.With(zap.String("date", date))
	logger.Info("generation run starting")

	index := a.loadIndex(ctx)
	id, isNew, err := resolveDayID(index, date)
	if err != nil {
		return err
	}
	logger.Info("day id resolved", zap.Uint32("id", id), zap.Bool("new_date", isNew))

	day, err := a.generateDay(ctx, date, id)
	if err != nil {
		return err
	}

	dayData, err := json.MarshalIndent(day, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal day document: %w", err)
	}

	dayKey := path.Join("days", date+".json")
	if _, err := a.sink.Upload(ctx, dayKey, dayData, "application/json"); err != nil {
		return fmt.Errorf("upload day document: %w", err)
	}
	a.writeLocalCopy(logger, date+".json", dayData)

	if isNew {
		index.AddDay(date, id)
		indexData, err := json.MarshalIndent(index, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal day index: %w", err)
		}
		if _, err := a.sink.Upload(ctx, daysIndexKey, indexData, "application/json"); err != nil {
			return fmt.Errorf("upload day index: %w", err)
		}
		logger.Info("day index updated", zap.Int("entries", len(index.Days)))
	}

	if date == a.now().Format(dateLayout) {
		if _, err := a.sink.Upload(ctx, todayKey, dayData, "application/json"); err != nil {
			return fmt.Errorf("upload today pointer: %w", err)
		}
		logger.Info("today pointer updated")
	}

	logger.Info("generation run complete", zap.Uint32("id", id))
	return nil
}

// loadIndex fetches the day index from storage. A missing or unreadable
// index yields a fresh one; generation proceeds either way.
func (a *App) loadIndex(ctx context.Context) *types.Days {
	text, err := a.sink.ReadText(ctx, daysIndexKey)
	if err != nil {
		if !errors.Is(err, cdn.ErrNotFound) {
			a.logger.Warn("day index unreadable, starting fresh", zap.Error(err))
		}
		return types.NewDays()
	}
	index, err := types.ParseDays([]byte(text))
	if err != nil {
		a.logger.Warn("day index malformed, starting fresh", zap.Error(err))
		return types.NewDays()
	}
	return index
}

// resolveDayID reuses the ID of an already-indexed date, otherwise
// allocates max+1.
func resolveDayID(index *types.Days, date string) (id uint32, isNew bool, err error) {
	if existing := index.FindByDate(date); existing != nil {
		return existing.ID, false, nil
	}
	max := index.MaxID()
	if max == math.MaxUint32 {
		return 0, false, ErrIDOverflow
	}
	return max + 1, true, nil
}

// generateDay selects the word sets and builds all four challenges
// concurrently. Every build must succeed.
func (a *App) generateDay(ctx context.Context, date string, id uint32) (*types.Day, error) {
	sets, err := a.selector.Select()
	if err != nil {
		return nil, fmt.Errorf("select words: %w", err)
	}

	var challenges types.Challenges
	targets := []struct {
		difficulty types.Difficulty
		words      []types.Word
		dest       *types.Challenge
	}{
		{types.DifficultyEasy, sets.Easy, &challenges.Easy},
		{types.DifficultyMedium, sets.Medium, &challenges.Medium},
		{types.DifficultyHard, sets.Hard, &challenges.Hard},
		{types.DifficultyDreaming, sets.Dreaming, &challenges.Dreaming},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, target := range targets {
		g.Go(func() error {
			operation := string(target.difficulty) + " challenge"
			challenge, err := WithRetry(gctx, a.retry, operation, a.logger, func(ctx context.Context) (types.Challenge, error) {
				return a.builder.Build(ctx, target.words, target.difficulty)
			})
			if err != nil {
				return err
			}
			*target.dest = challenge
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &types.Day{Date: date, ID: id, Challenges: challenges}, nil
}

// writeLocalCopy mirrors the day document into outputDir. Failures are
// logged, not fatal; the uploaded copy is authoritative.
func (a *App) writeLocalCopy(logger *zap.Logger, name string, data []byte) {
	if a.outputDir == "" {
		return
	}
	if err := os.MkdirAll(a.outputDir, 0o755); err != nil {
		logger.Warn("local output dir unavailable", zap.Error(err))
		return
	}
	dest := filepath.Join(a.outputDir, name)
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		logger.Warn("local day copy failed", zap.String("path", dest), zap.Error(err))
		return
	}
	logger.Info("local day copy written", zap.String("path", dest))
}
