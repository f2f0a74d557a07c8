package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"sync-verifier/core/config"
	"sync-verifier/core/database"
	"sync-verifier/core/logger"
	"sync-verifier/core/solr"
	"sync-verifier/core/storage"
	"sync-verifier/feature/verify"
	"sync-verifier/feature/verify/lookup"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	verifyOutFile string
	verifyLimit   int
	verifySkipUp  bool
)

// verifyCmd runs a single verification pass from the command line.
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Run one verification pass",
	Long: `Fetches recently modified job records from the authoritative store,
compares each against its search index counterpart, and prints the
summary counts. The full report is archived to object storage and can
additionally be written to a local file.

Examples:
  # Run a pass over the configured lookback window
  sync-verifier verify

  # Cap the batch and keep a local copy of the report
  sync-verifier verify --limit 500 --out report.json

  # Skip the object storage upload
  sync-verifier verify --no-upload`,
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().StringVar(&verifyOutFile, "out", "", "Write the report JSON to this file")
	verifyCmd.Flags().IntVar(&verifyLimit, "limit", 0, "Cap the number of records verified (0 = no cap)")
	verifyCmd.Flags().BoolVar(&verifySkipUp, "no-upload", false, "Skip archiving the report to object storage")
	RootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	index, err := solr.NewClient(cfg.Solr)
	if err != nil {
		return fmt.Errorf("failed to create solr client: %w", err)
	}

	var archive storage.Client
	if !verifySkipUp {
		archive, err = storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to create storage client: %w", err)
		}
	}

	adapter := lookup.NewAdapter(index, cfg.Verify.Collection,
		cfg.Verify.LookupTimeout(), cfg.Verify.LookupAttempts, l)
	engine := verify.NewEngine(adapter, cfg.Verify.OverlapThreshold, l)
	driver := verify.NewDriver(engine, verify.NewAggregator(cfg.Verify.OverlapThreshold),
		cfg.Verify.Workers, l)

	var source verify.SourceStore = verify.NewSourceStore(db, cfg.Verify.SourceTable)
	if verifyLimit > 0 {
		source = verify.LimitSource(source, verifyLimit)
	}

	service := verify.NewService(cfg.Verify, source, driver, archive, cfg.Storage.Bucket, l)

	report, err := service.Run(ctx)
	if err != nil {
		return fmt.Errorf("verification pass failed: %w", err)
	}

	l.Info("Verification summary",
		zap.String("run_id", report.RunID),
		zap.Int("total_checked", report.TotalChecked),
		zap.Int("matched", report.Matched),
		zap.Int("true_mismatches", len(report.TrueMismatches)),
		zap.Int("false_positives", len(report.FalsePositives)),
		zap.Int("not_found_in_index", report.NotFoundInIndex),
		zap.Int("lookup_errors", report.LookupErrors),
		zap.Int("not_attempted", report.NotAttempted),
	)

	if verifyOutFile != "" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		if err := os.WriteFile(verifyOutFile, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", verifyOutFile, err)
		}
		l.Info("Report written", zap.String("file", verifyOutFile))
	}
	return nil
}
