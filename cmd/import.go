package cmd

import (
	"context"
	"fmt"

	"record-reconciler/core/config"
	"record-reconciler/core/database"
	"record-reconciler/core/logger"
	"record-reconciler/core/storage"
	"record-reconciler/feature/questions"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var importObjectFlag string

// importCmd loads a CSV dataset from object storage into the questions table.
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a CSV question dataset from object storage",
	Long: `Import a CSV dataset from object storage into the questions table.

Rows are matched by question id and upserted, so re-running an import with
the same object is safe.

Examples:
  import --object datasets/questions.csv`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importObjectFlag, "object", "", "Object key of the CSV dataset to import")
	_ = importCmd.MarkFlagRequired("object")

	RootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to connect to storage: %w", err)
	}

	imp := questions.NewImporter(db, client, cfg.Storage.Bucket, l)

	summary, err := imp.Import(ctx, importObjectFlag)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	l.Info("Import finished",
		zap.String("object", summary.Object),
		zap.Int("rows", summary.Rows),
		zap.Int("imported", summary.Imported),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
	)

	return nil
}
