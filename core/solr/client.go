package solr

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"sync-verifier/core/rawval"
)

// Document is one index document with its fields kept in their original
// variant form. Field encodings in the index are not stable (numbers,
// booleans, strings and single-element arrays all occur), so decoding goes
// through rawval rather than concrete Go types.
type Document map[string]rawval.Value

// Client defines the interface for search index operations.
type Client interface {
	// Select runs a query expression against a collection and returns at
	// most rows documents.
	Select(ctx context.Context, collection, query string, rows int) ([]Document, error)
	// Ping checks that the collection is reachable and healthy.
	Ping(ctx context.Context, collection string) error
}

// NewClient creates a new Solr HTTP client based on the configuration.
func NewClient(cfg Config) (Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	if base == "" {
		return nil, fmt.Errorf("solr endpoint is empty")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid solr endpoint: %w", err)
	}

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 10
	}
	timeoutDuration := time.Duration(timeout) * time.Second

	// Custom transport with strict timeouts so a slow index cannot stall a
	// verification worker indefinitely.
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeoutDuration,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeoutDuration,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeoutDuration,
	}

	return &httpClient{
		base: base,
		user: cfg.User,
		pass: cfg.Password,
		http: &http.Client{
			Transport: transport,
			Timeout:   timeoutDuration,
		},
	}, nil
}

type httpClient struct {
	base string
	user string
	pass string
	http *http.Client
}

// selectResponse mirrors the wrapper Solr puts around select results.
type selectResponse struct {
	Response struct {
		NumFound int        `json:"numFound"`
		Docs     []Document `json:"docs"`
	} `json:"response"`
}

type pingResponse struct {
	Status string `json:"status"`
}

func (c *httpClient) Select(ctx context.Context, collection, query string, rows int) ([]Document, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("rows", strconv.Itoa(rows))
	params.Set("wt", "json")

	endpoint := fmt.Sprintf("%s/%s/select?%s", c.base, url.PathEscape(collection), params.Encode())

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var parsed selectResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode solr response: %w", err)
	}
	return parsed.Response.Docs, nil
}

func (c *httpClient) Ping(ctx context.Context, collection string) error {
	endpoint := fmt.Sprintf("%s/%s/admin/ping?wt=json", c.base, url.PathEscape(collection))

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return err
	}

	var parsed pingResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return fmt.Errorf("failed to decode solr ping response: %w", err)
	}
	if !strings.EqualFold(parsed.Status, "OK") {
		return fmt.Errorf("solr ping returned status %q", parsed.Status)
	}
	return nil
}

func (c *httpClient) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build solr request: %w", err)
	}
	if c.user != "" {
		req.SetBasicAuth(c.user, c.pass)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("solr request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read solr response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("solr returned HTTP %d: %s", resp.StatusCode, truncate(string(body), 200))
	}
	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
