package verify

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"sync-verifier/core/rawval"
	"sync-verifier/feature/verify/models"

	"gorm.io/gorm"
)

// ErrSourceUnavailable marks a failure to query the authoritative store.
// It is fatal for the run: without a batch there is nothing to verify and no
// partial report is produced.
var ErrSourceUnavailable = errors.New("source store unavailable")

// SourceStore fetches the batch of authoritative records for one pass.
type SourceStore interface {
	FetchRecords(ctx context.Context, since time.Time) ([]models.SourceRecord, error)
}

// LimitSource caps the batch returned by the wrapped store. Records are
// already ordered by id, so the cap keeps the oldest ids stable across runs.
func LimitSource(store SourceStore, limit int) SourceStore {
	return &limitedSource{store: store, limit: limit}
}

type limitedSource struct {
	store SourceStore
	limit int
}

func (s *limitedSource) FetchRecords(ctx context.Context, since time.Time) ([]models.SourceRecord, error) {
	records, err := s.store.FetchRecords(ctx, since)
	if err != nil {
		return nil, err
	}
	if s.limit > 0 && len(records) > s.limit {
		records = records[:s.limit]
	}
	return records, nil
}

// gormSourceStore reads job rows from the MySQL jobs table. Columns with a
// history of mixed encodings (is_remote, ai_skills) are scanned loosely into
// rawval so normalization decides their meaning, not the driver's type
// mapping.
type gormSourceStore struct {
	db    *gorm.DB
	table string
}

// NewSourceStore creates a SourceStore over the given connection and table.
func NewSourceStore(db *gorm.DB, table string) SourceStore {
	return &gormSourceStore{db: db, table: table}
}

func (s *gormSourceStore) FetchRecords(ctx context.Context, since time.Time) ([]models.SourceRecord, error) {
	query := fmt.Sprintf(
		"SELECT id, company_name, title, statename, cityname, is_remote, joblink, ai_skills, modified FROM `%s` WHERE modified >= ? ORDER BY id",
		s.table,
	)
	rows, err := s.db.WithContext(ctx).Raw(query, since).Rows()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer rows.Close()

	var records []models.SourceRecord
	for rows.Next() {
		values := make([]interface{}, 9)
		valuePtrs := make([]interface{}, len(values))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("scan job row: %w", err)
		}

		records = append(records, models.SourceRecord{
			ID:          toInt64(values[0]),
			CompanyName: toString(values[1]),
			Title:       toString(values[2]),
			StateName:   toString(values[3]),
			CityName:    toString(values[4]),
			WorkModeRaw: toRaw(values[5]),
			JobLink:     toString(values[6]),
			SkillsRaw:   toRaw(values[7]),
			ModifiedAt:  toTime(values[8]),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return records, nil
}

// Ping checks store reachability for health reporting.
func (s *gormSourceStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return nil
}

// The MySQL driver hands back []byte for text columns and, depending on DSN
// options, time.Time or []byte for datetimes. Conversions stay lossless.

func toString(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return fmt.Sprintf("%v", s)
	}
}

func toInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case []byte:
		parsed, err := strconv.ParseInt(string(n), 10, 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

func toRaw(v interface{}) rawval.Value {
	if b, ok := v.([]byte); ok {
		return rawval.FromAny(string(b))
	}
	return rawval.FromAny(v)
}

func toTime(v interface{}) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case []byte:
		if parsed, err := time.Parse("2006-01-02 15:04:05", string(t)); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
