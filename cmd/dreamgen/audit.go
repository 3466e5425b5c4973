package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dreamgen/internal/config"
	"dreamgen/internal/semantic"
	"dreamgen/internal/words"
)

var (
	auditThreshold float32
	auditBatchSize int
	auditMaxPairs  int
	auditDataDir   string
	auditJSON      bool
)

// auditCmd reports semantically similar word pairs in the word lists
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit the word lists for semantically similar pairs",
	Long: `Embeds every word and reports pairs whose cosine similarity
meets the threshold, within each category and across categories. High
similarity between selectable words makes challenges ambiguous.`,
	RunE: runAudit,
}

func init() {
	auditCmd.Flags().Float32Var(&auditThreshold, "threshold", 0.8, "Similarity threshold (0.0 to 1.0)")
	auditCmd.Flags().IntVar(&auditBatchSize, "batch-size", 100, "Words per embedding request")
	auditCmd.Flags().IntVar(&auditMaxPairs, "max-pairs", 25, "Pairs reported per category before truncation")
	auditCmd.Flags().StringVar(&auditDataDir, "data-dir", "", "Word list directory (default from config)")
	auditCmd.Flags().BoolVar(&auditJSON, "json", false, "Emit the report as JSON")
}

func runAudit(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	dataDir := auditDataDir
	if dataDir == "" {
		dataDir = cfg.Words.DataDir
	}
	catalog, err := words.LoadCatalog(dataDir)
	if err != nil {
		return fmt.Errorf("load word lists: %w", err)
	}

	clients, err := buildAIClients(ctx, cfg, logger)
	if err != nil {
		return err
	}

	report, err := semantic.Audit(ctx, clients.embedder, catalog, semantic.AuditOptions{
		Threshold:           auditThreshold,
		BatchSize:           auditBatchSize,
		MaxPairsPerCategory: auditMaxPairs,
	}, logger)
	if err != nil {
		return err
	}

	if auditJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	printReport(report)
	return nil
}

func printReport(report *semantic.AuditReport) {
	fmt.Printf("Similarity audit (threshold %.2f)\n\n", report.Threshold)

	for _, category := range report.Categories {
		fmt.Printf("%s (%d words): %d flagged pair(s)\n",
			category.Category, category.TotalWords, category.FlaggedPairs)
		printPairs(category.PairReport)
	}

	for _, cross := range report.CrossCategory {
		fmt.Printf("%s x %s: %d flagged pair(s)\n",
			cross.LeftCategory, cross.RightCategory, cross.FlaggedPairs)
		printPairs(cross.PairReport)
	}
}

func printPairs(report semantic.PairReport) {
	for _, pair := range report.Pairs {
		fmt.Printf("  %.3f  %s / %s\n", pair.Similarity, pair.Left, pair.Right)
	}
	if report.Truncated {
		fmt.Printf("  ... %d more not shown\n", report.FlaggedPairs-report.ReportedPairs)
	}
	fmt.Println()
}
