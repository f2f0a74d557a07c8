package mocks

import (
	"context"

	"sync-verifier/core/solr"

	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of solr.Client
type Client struct {
	mock.Mock
}

func (m *Client) Select(ctx context.Context, collection, query string, rows int) ([]solr.Document, error) {
	args := m.Called(ctx, collection, query, rows)
	if docs, ok := args.Get(0).([]solr.Document); ok {
		return docs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) Ping(ctx context.Context, collection string) error {
	args := m.Called(ctx, collection)
	return args.Error(0)
}
