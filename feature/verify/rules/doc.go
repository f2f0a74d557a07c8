// Package rules implements the per-field comparison strategies built on top
// of the normalizers. Each rule consumes the raw source and index values and
// yields a Finding with a verdict and diagnostic detail. Rules never fail on
// malformed input; only the engine deals with I/O errors.
package rules
