// Package normalize holds the pure field normalizers that convert raw store
// encodings into canonical comparable values. Every function is total:
// unparseable input degrades to an unknown enum, an empty set, or an empty
// string rather than an error, so one bad record cannot abort a batch.
package normalize
