// Package lookup resolves authoritative record IDs to search index
// documents, falling back through alternative query forms before classifying
// a record as missing. It distinguishes a confirmed absence from a transient
// index failure so that downstream reporting never counts outages as data
// drift.
package lookup
