// Package rawval provides the tagged raw-value abstraction used at the
// boundary between loosely typed store encodings and the verifier's
// normalizers. It includes conversion helpers for driver values and a JSON
// decoder that preserves the original variant (integer, boolean, string,
// sequence, null) of index document fields.
package rawval
