package lookup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sync-verifier/core/solr"
	"sync-verifier/feature/verify/models"

	"go.uber.org/zap"
)

// ErrIndexUnavailable marks a lookup where every query attempt errored.
// Callers must treat it as transient and never conflate it with a confirmed
// "not found" (which is a legitimate finding, not a failure).
var ErrIndexUnavailable = errors.New("search index unavailable")

// DefaultAttempts caps the query forms tried per record.
const DefaultAttempts = 3

// Adapter wraps the search index client with a multi-query fallback
// protocol. Some index configurations tokenize or quote identifiers
// inconsistently; trying alternative query forms avoids false "not found"
// classifications caused purely by query syntax rather than missing data.
type Adapter struct {
	client     solr.Client
	collection string
	timeout    time.Duration
	attempts   int
	logger     *zap.Logger
}

// NewAdapter creates a lookup adapter over the given index client.
// attempts is capped at the number of known query forms; zero or negative
// values fall back to DefaultAttempts.
func NewAdapter(client solr.Client, collection string, timeout time.Duration, attempts int, logger *zap.Logger) *Adapter {
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	if attempts > DefaultAttempts {
		attempts = DefaultAttempts
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Adapter{
		client:     client,
		collection: collection,
		timeout:    timeout,
		attempts:   attempts,
		logger:     logger,
	}
}

// queryForms returns the fallback sequence for one record ID: the unquoted
// primary form first, then the quoted exact match, then the wildcard form.
func queryForms(id int64) []string {
	return []string{
		fmt.Sprintf("id:%d", id),
		fmt.Sprintf("id:%q", fmt.Sprintf("%d", id)),
		fmt.Sprintf("id:%d*", id),
	}
}

// Find returns the index document for a record ID, or nil when the index
// confirmed zero results across all fallback query forms. A non-nil error is
// returned only when every attempt errored; it wraps ErrIndexUnavailable.
func (a *Adapter) Find(ctx context.Context, id int64) (*models.IndexDocument, error) {
	forms := queryForms(id)[:a.attempts]

	confirmedEmpty := false
	var lastErr error

	for i, query := range forms {
		docs, err := a.selectOne(ctx, query)
		if err != nil {
			lastErr = err
			a.logger.Debug("index query attempt failed",
				zap.Int64("id", id),
				zap.String("query", query),
				zap.Error(err),
			)
			continue
		}
		if len(docs) > 0 {
			if i > 0 {
				// The primary form missed but a fallback hit: a query-syntax
				// quirk, not missing data. Worth surfacing.
				a.logger.Warn("record found only via fallback query form",
					zap.Int64("id", id),
					zap.String("query", query),
				)
			}
			return models.DocumentFromFields(docs[0]), nil
		}
		confirmedEmpty = true
	}

	if confirmedEmpty {
		// At least one attempt got an authoritative empty answer.
		return nil, nil
	}
	return nil, fmt.Errorf("%w: all %d query attempts for id %d failed: %v",
		ErrIndexUnavailable, len(forms), id, lastErr)
}

func (a *Adapter) selectOne(ctx context.Context, query string) ([]solr.Document, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	return a.client.Select(attemptCtx, a.collection, query, 1)
}

// Ping checks that the index collection is reachable.
func (a *Adapter) Ping(ctx context.Context) error {
	attemptCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	return a.client.Ping(attemptCtx, a.collection)
}
