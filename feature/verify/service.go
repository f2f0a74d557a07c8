package verify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"sync-verifier/core/logger"
	"sync-verifier/core/storage"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Service owns one verification pipeline: batch fetch, worker pool run,
// report archival. Concurrent triggers (HTTP, CLI, retries) collapse onto a
// single in-flight run via singleflight; every caller receives that run's
// report.
type Service struct {
	cfg     Config
	source  SourceStore
	driver  *Driver
	archive storage.Client
	bucket  string
	logger  *zap.Logger

	sf     singleflight.Group
	mu     sync.RWMutex
	latest *VerificationReport
}

// NewService wires the verification pipeline. archive may be nil, in which
// case reports are kept in memory only.
func NewService(cfg Config, source SourceStore, driver *Driver, archive storage.Client, bucket string, logger *zap.Logger) *Service {
	return &Service{
		cfg:     cfg,
		source:  source,
		driver:  driver,
		archive: archive,
		bucket:  bucket,
		logger:  logger,
	}
}

// Run executes one verification pass and returns the finished report.
// Returns an ErrSourceUnavailable-wrapped error when the authoritative store
// could not be queried; no partial report is produced in that case.
func (s *Service) Run(ctx context.Context) (*VerificationReport, error) {
	result, err, shared := s.sf.Do("verify", func() (interface{}, error) {
		return s.run(ctx)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.Debug("verification trigger joined an in-flight run")
	}
	return result.(*VerificationReport), nil
}

func (s *Service) run(ctx context.Context) (*VerificationReport, error) {
	since := time.Now().UTC().Add(-s.cfg.Lookback())
	records, err := s.source.FetchRecords(ctx, since)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	l := logger.WithRun(s.logger, runID)
	l.Info("starting verification pass",
		zap.Int("records", len(records)),
		zap.Time("since", since),
	)

	report := s.driver.Run(ctx, runID, records)

	s.mu.Lock()
	s.latest = report
	s.mu.Unlock()

	if err := s.persist(ctx, report); err != nil {
		// Archival failure never invalidates a finished run.
		s.logger.Warn("failed to archive report",
			zap.String("run_id", runID),
			zap.Error(err),
		)
	}
	return report, nil
}

// Latest returns the most recent finished report, or nil when no pass has
// completed yet.
func (s *Service) Latest() *VerificationReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

func (s *Service) persist(ctx context.Context, report *VerificationReport) error {
	if s.archive == nil {
		return nil
	}

	exists, err := s.archive.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %q: %w", s.bucket, err)
	}
	if !exists {
		if err := s.archive.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %q: %w", s.bucket, err)
		}
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	objectName := fmt.Sprintf("reports/%s/%s.json",
		report.StartedAt.Format("2006-01-02"), report.RunID)
	_, err = s.archive.PutObject(ctx, s.bucket, objectName,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("upload %q: %w", objectName, err)
	}

	s.logger.Info("report archived",
		zap.String("run_id", report.RunID),
		zap.String("object", objectName),
	)
	return nil
}
