// Package solr provides an abstraction layer for the derived search index.
//
// It implements the Solr select and ping JSON APIs over HTTP with strict
// transport timeouts. The Client interface keeps the verifier decoupled from
// the concrete transport, making it easy to mock index interactions for unit
// testing (see core/solr/mocks).
//
// # Operations
//
//   - Select: runs a query expression against a collection with a row limit.
//   - Ping: verifies the collection is reachable and healthy.
//
// Documents are decoded as rawval variants because the index does not encode
// fields consistently: the same logical field may arrive as a number, a
// boolean, a string, or a single-element array depending on how the document
// was indexed.
//
// # Usage
//
//	client, err := solr.NewClient(cfg)
//	docs, err := client.Select(ctx, "jnp_jobs_v6", "id:42", 1)
package solr
