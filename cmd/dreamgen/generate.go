package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dreamgen/internal/config"
	"dreamgen/internal/imaging"
	"dreamgen/internal/pipeline"
	"dreamgen/internal/words"
)

const dateLayout = "2006-01-02"

var generateDryRun bool

// generateCmd builds and publishes one day of challenges
var generateCmd = &cobra.Command{
	Use:   "generate [date]",
	Short: "Generate and publish the challenges for a date",
	Long: `Generates all four challenges for the given date (YYYY-MM-DD,
default today) and publishes the day document. New dates are appended to
the day index; generating for today also updates the today pointer.

Re-running a date regenerates its challenges but keeps its day ID.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().BoolVar(&generateDryRun, "dry-run", false, "Skip uploads, keep artifacts local")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("Received shutdown signal")
		cancel()
	}()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if generateDryRun {
		cfg.DryRun = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	target, err := parseTargetDate(args, time.Now())
	if err != nil {
		return err
	}

	catalog, err := words.LoadCatalog(cfg.Words.DataDir)
	if err != nil {
		return fmt.Errorf("load word lists: %w", err)
	}

	clients, err := buildAIClients(ctx, cfg, logger)
	if err != nil {
		return err
	}

	sink, err := buildSink(ctx, cfg, logger)
	if err != nil {
		return err
	}

	selector := words.NewSelector(catalog, logger)
	processor := imaging.NewProcessor(cfg.Output.ImageDir, logger)
	builder := pipeline.NewBuilder(clients.prompts, clients.images, clients.qa, processor, sink, logger)
	app := pipeline.NewApp(selector, builder, sink, cfg.Output.DayDir, logger,
		pipeline.WithRetryConfig(pipeline.RetryConfig{
			Attempts: cfg.Retry.Attempts,
			Interval: cfg.GetRetryInterval(),
		}))

	if err := app.Run(ctx, target); err != nil {
		logger.Error("generation failed", zap.Error(err))
		return err
	}
	return nil
}

// parseTargetDate resolves the optional date argument, defaulting to
// today.
func parseTargetDate(args []string, now time.Time) (time.Time, error) {
	if len(args) == 0 {
		return now, nil
	}
	target, err := time.Parse(dateLayout, args[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", args[0])
	}
	return target, nil
}
