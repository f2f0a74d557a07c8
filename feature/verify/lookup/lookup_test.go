package lookup

import (
	"context"
	"errors"
	"testing"
	"time"

	"sync-verifier/core/rawval"
	"sync-verifier/core/solr"
	"sync-verifier/core/solr/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestAdapter(client solr.Client) *Adapter {
	return NewAdapter(client, "jnp_jobs_v6", time.Second, DefaultAttempts, zap.NewNop())
}

func docWithID(id int64) solr.Document {
	return solr.Document{"id": rawval.FromAny(id), "title": rawval.FromAny("Go Developer")}
}

func TestFindPrimaryFormHit(t *testing.T) {
	client := new(mocks.Client)
	client.On("Select", mock.Anything, "jnp_jobs_v6", "id:42", 1).
		Return([]solr.Document{docWithID(42)}, nil).Once()

	doc, err := newTestAdapter(client).Find(context.Background(), 42)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "Go Developer", doc.Title.String())
	client.AssertExpectations(t)
}

func TestFindFallsBackToQuotedForm(t *testing.T) {
	client := new(mocks.Client)
	client.On("Select", mock.Anything, "jnp_jobs_v6", "id:42", 1).
		Return([]solr.Document{}, nil).Once()
	client.On("Select", mock.Anything, "jnp_jobs_v6", `id:"42"`, 1).
		Return([]solr.Document{docWithID(42)}, nil).Once()

	doc, err := newTestAdapter(client).Find(context.Background(), 42)
	require.NoError(t, err)
	require.NotNil(t, doc)
	client.AssertExpectations(t)
}

func TestFindFallsBackToWildcardForm(t *testing.T) {
	client := new(mocks.Client)
	client.On("Select", mock.Anything, "jnp_jobs_v6", "id:42", 1).
		Return([]solr.Document{}, nil).Once()
	client.On("Select", mock.Anything, "jnp_jobs_v6", `id:"42"`, 1).
		Return([]solr.Document{}, nil).Once()
	client.On("Select", mock.Anything, "jnp_jobs_v6", "id:42*", 1).
		Return([]solr.Document{docWithID(42)}, nil).Once()

	doc, err := newTestAdapter(client).Find(context.Background(), 42)
	require.NoError(t, err)
	require.NotNil(t, doc)
	client.AssertExpectations(t)
}

func TestFindConfirmedNotFound(t *testing.T) {
	client := new(mocks.Client)
	client.On("Select", mock.Anything, "jnp_jobs_v6", mock.Anything, 1).
		Return([]solr.Document{}, nil).Times(3)

	doc, err := newTestAdapter(client).Find(context.Background(), 7)
	require.NoError(t, err)
	assert.Nil(t, doc)
	client.AssertExpectations(t)
}

func TestFindAllAttemptsErrored(t *testing.T) {
	client := new(mocks.Client)
	client.On("Select", mock.Anything, "jnp_jobs_v6", mock.Anything, 1).
		Return(nil, errors.New("connection refused")).Times(3)

	doc, err := newTestAdapter(client).Find(context.Background(), 7)
	assert.Nil(t, doc)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIndexUnavailable)
	client.AssertExpectations(t)
}

func TestFindMixedErrorAndEmptyIsNotFound(t *testing.T) {
	client := new(mocks.Client)
	client.On("Select", mock.Anything, "jnp_jobs_v6", "id:7", 1).
		Return(nil, errors.New("read timeout")).Once()
	client.On("Select", mock.Anything, "jnp_jobs_v6", `id:"7"`, 1).
		Return([]solr.Document{}, nil).Once()
	client.On("Select", mock.Anything, "jnp_jobs_v6", "id:7*", 1).
		Return(nil, errors.New("read timeout")).Once()

	doc, err := newTestAdapter(client).Find(context.Background(), 7)
	require.NoError(t, err)
	assert.Nil(t, doc)
	client.AssertExpectations(t)
}

func TestFindRespectsAttemptCap(t *testing.T) {
	client := new(mocks.Client)
	client.On("Select", mock.Anything, "jnp_jobs_v6", "id:7", 1).
		Return([]solr.Document{}, nil).Once()

	adapter := NewAdapter(client, "jnp_jobs_v6", time.Second, 1, zap.NewNop())
	doc, err := adapter.Find(context.Background(), 7)
	require.NoError(t, err)
	assert.Nil(t, doc)
	client.AssertNumberOfCalls(t, "Select", 1)
}
