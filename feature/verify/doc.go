// Package verify reconciles job records held in the authoritative MySQL
// store against their materialized copies in the search index.
//
// One pass fetches a batch of recently modified records, resolves each
// record's index counterpart through the lookup adapter, compares every
// configured field under its own rule, and reduces the per-worker partial
// results into a VerificationReport. Apparent mismatches caused by encoding
// differences rather than data drift are reclassified as false positives in
// a second pass, so the report separates "worth fixing" from "noise".
//
// Subpackages: models (the two record shapes), normalize (canonical forms
// for loosely encoded fields), rules (per-field comparison strategies) and
// lookup (index resolution with query-form fallbacks).
package verify
