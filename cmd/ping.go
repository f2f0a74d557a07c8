package cmd

import (
	"context"
	"fmt"
	"time"

	"sync-verifier/core/config"
	"sync-verifier/core/database"
	"sync-verifier/core/logger"
	"sync-verifier/core/solr"
	"sync-verifier/core/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// pingCmd checks that every backing service is reachable and that the jobs
// table carries the columns the verifier reads.
var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check connectivity to the database, search index, and report archive",
	RunE:  runPing,
}

func init() {
	RootCmd.AddCommand(pingCmd)
}

func runPing(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	failures := 0

	// Authoritative store
	if db, err := database.Connect(cfg.Database); err != nil {
		l.Error("Database unreachable", zap.Error(err))
		failures++
	} else {
		expected := []string{
			"id", "company_name", "title", "statename", "cityname",
			"is_remote", "joblink", "ai_skills", "modified",
		}
		missing, err := database.MissingColumns(db, cfg.Verify.SourceTable, expected)
		switch {
		case err != nil:
			l.Error("Failed to inspect jobs table", zap.Error(err))
			failures++
		case len(missing) > 0:
			l.Error("Jobs table is missing columns",
				zap.String("table", cfg.Verify.SourceTable),
				zap.Strings("missing", missing),
			)
			failures++
		default:
			l.Info("Database OK", zap.String("table", cfg.Verify.SourceTable))
		}
	}

	// Search index
	if index, err := solr.NewClient(cfg.Solr); err != nil {
		l.Error("Failed to create solr client", zap.Error(err))
		failures++
	} else if err := index.Ping(ctx, cfg.Verify.Collection); err != nil {
		l.Error("Search index unreachable",
			zap.String("collection", cfg.Verify.Collection),
			zap.Error(err),
		)
		failures++
	} else {
		l.Info("Search index OK", zap.String("collection", cfg.Verify.Collection))
	}

	// Report archive
	if store, err := storage.NewClient(cfg.Storage); err != nil {
		l.Error("Failed to create storage client", zap.Error(err))
		failures++
	} else if exists, err := store.BucketExists(ctx, cfg.Storage.Bucket); err != nil {
		l.Error("Report archive unreachable", zap.Error(err))
		failures++
	} else if !exists {
		l.Warn("Report bucket does not exist yet, it will be created on first run",
			zap.String("bucket", cfg.Storage.Bucket))
		l.Info("Report archive OK")
	} else {
		l.Info("Report archive OK", zap.String("bucket", cfg.Storage.Bucket))
	}

	if failures > 0 {
		return fmt.Errorf("%d backing service check(s) failed", failures)
	}
	return nil
}
