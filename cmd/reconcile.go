package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"record-reconciler/core/config"
	"record-reconciler/core/database"
	"record-reconciler/core/logger"
	"record-reconciler/core/reconcile"
	"record-reconciler/core/storage"
	"record-reconciler/feature/questions"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for reconcile questions command
	caseSensitiveFlag bool
	maxDetailsFlag    int
	outputPathFlag    string
	csvObjectFlag     string
)

// reconcileCmd is the parent command for all reconcile operations.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile record sets and report differences",
	Long: `Reconcile two record sets to detect mismatched values and keys
present on only one side. Produces a full comparison report.`,
}

// questionsReconcileCmd compares the question bank against model results.
var questionsReconcileCmd = &cobra.Command{
	Use:   "questions",
	Short: "Reconcile the question bank against model results",
	Long: `Reconcile the questions table (answer key) against the model results
table, field by field.

Reports matches, mismatches, keys missing from either side, and records
skipped during normalization.

Examples:
  # Reconcile both database tables
  reconcile questions

  # Case-sensitive value comparison
  reconcile questions --case-sensitive

  # Compare the database against a CSV dataset in object storage
  reconcile questions --csv-object datasets/results.csv

  # Write the full report to a file
  reconcile questions --output report.json`,
	RunE: runQuestionsReconcile,
}

func init() {
	reconcileCmd.AddCommand(questionsReconcileCmd)

	questionsReconcileCmd.Flags().BoolVar(&caseSensitiveFlag, "case-sensitive", false, "Compare values case-sensitively")
	questionsReconcileCmd.Flags().IntVar(&maxDetailsFlag, "max-details", 0, "Cap the number of per-key detail entries (0 = unlimited)")
	questionsReconcileCmd.Flags().StringVar(&outputPathFlag, "output", "", "Write the full JSON report to this file")
	questionsReconcileCmd.Flags().StringVar(&csvObjectFlag, "csv-object", "", "Reconcile against a CSV object in storage instead of the results table")

	RootCmd.AddCommand(reconcileCmd)
}

func runQuestionsReconcile(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Flags override the configured comparison policy.
	if cmd.Flags().Changed("case-sensitive") {
		cfg.Reconcile.CaseSensitive = caseSensitiveFlag
	}
	if cmd.Flags().Changed("max-details") {
		cfg.Reconcile.MaxDetailRecords = maxDetailsFlag
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	l.Info("Starting question reconciliation")

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Storage is only needed when side B comes from a CSV object.
	var store storage.Client
	if csvObjectFlag != "" {
		store, err = storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to connect to storage: %w", err)
		}
	}

	svc := questions.NewService(db, store, cfg.Storage.Bucket, cfg.Reconcile, l)

	var report *reconcile.Report
	if csvObjectFlag != "" {
		report, err = svc.ReconcileCSV(ctx, csvObjectFlag)
	} else {
		report, err = svc.Reconcile(ctx, true)
	}
	if err != nil {
		return fmt.Errorf("reconciliation failed: %w", err)
	}

	printReport(l, report)

	if outputPathFlag != "" {
		if err := writeReport(outputPathFlag, report); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		l.Info("Report written", zap.String("path", outputPathFlag))
	}

	return nil
}

// printReport prints a formatted reconciliation summary using the logger.
func printReport(l *zap.Logger, r *reconcile.Report) {
	l.Info("Reconciliation report",
		zap.Int("matches", r.Matches),
		zap.Int("mismatches", r.Mismatches),
		zap.Int("missing_from_a", len(r.MissingFromA)),
		zap.Int("missing_from_b", len(r.MissingFromB)),
		zap.Int("skipped", len(r.Skipped)),
		zap.Bool("partial", r.Partial),
	)

	// Show a sample of mismatched keys (max 5 for logger).
	maxShow := 5
	shown := 0
	for _, d := range r.Details {
		if d.Matches {
			continue
		}
		if shown == maxShow {
			break
		}
		l.Info("Sample mismatch",
			zap.String("key", d.Key),
			zap.Stringp("value_a", d.ValueA),
			zap.Stringp("value_b", d.ValueB),
		)
		shown++
	}
	if r.Mismatches > maxShow {
		l.Info("Additional mismatches not shown", zap.Int("count", r.Mismatches-maxShow))
	}
}

// writeReport marshals the full report to an indented JSON file.
func writeReport(path string, r *reconcile.Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
