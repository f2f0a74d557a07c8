package solr_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"sync-verifier/core/solr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Run("ValidConfig", func(t *testing.T) {
		client, err := solr.NewClient(solr.Config{
			Endpoint:       "https://solr.example.com/solr",
			User:           "reader",
			Password:       "secret",
			TimeoutSeconds: 5,
		})
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("EmptyEndpoint", func(t *testing.T) {
		client, err := solr.NewClient(solr.Config{Endpoint: "  "})
		assert.Error(t, err)
		assert.Nil(t, client)
	})
}

func TestSelect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/jnp_jobs_v6/select", r.URL.Path)
		assert.Equal(t, "id:42", r.URL.Query().Get("q"))
		assert.Equal(t, "1", r.URL.Query().Get("rows"))

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "reader", user)
		assert.Equal(t, "secret", pass)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"response": {
				"numFound": 1,
				"docs": [
					{"id": 42, "title": "Data Engineer", "remote": "1", "ai_skills": ["Python", "SQL"]}
				]
			}
		}`))
	}))
	defer srv.Close()

	client, err := solr.NewClient(solr.Config{
		Endpoint: srv.URL,
		User:     "reader",
		Password: "secret",
	})
	require.NoError(t, err)

	docs, err := client.Select(context.Background(), "jnp_jobs_v6", "id:42", 1)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	doc := docs[0]
	assert.Equal(t, "42", doc["id"].String())
	assert.Equal(t, "Data Engineer", doc["title"].String())
	assert.Equal(t, []string{"Python", "SQL"}, doc["ai_skills"].Strings())
}

func TestSelect_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "syntax error in query", http.StatusBadRequest)
	}))
	defer srv.Close()

	client, err := solr.NewClient(solr.Config{Endpoint: srv.URL})
	require.NoError(t, err)

	docs, err := client.Select(context.Background(), "jnp_jobs_v6", "id:{42", 1)
	assert.Error(t, err)
	assert.Nil(t, docs)
	assert.Contains(t, err.Error(), "400")
}

func TestPing(t *testing.T) {
	t.Run("OK", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/jnp_jobs_v6/admin/ping", r.URL.Path)
			_, _ = w.Write([]byte(`{"status": "OK"}`))
		}))
		defer srv.Close()

		client, err := solr.NewClient(solr.Config{Endpoint: srv.URL})
		require.NoError(t, err)
		assert.NoError(t, client.Ping(context.Background(), "jnp_jobs_v6"))
	})

	t.Run("Degraded", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status": "DEGRADED"}`))
		}))
		defer srv.Close()

		client, err := solr.NewClient(solr.Config{Endpoint: srv.URL})
		require.NoError(t, err)
		assert.Error(t, client.Ping(context.Background(), "jnp_jobs_v6"))
	})
}
