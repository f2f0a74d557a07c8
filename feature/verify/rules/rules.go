package rules

import (
	"fmt"
	"sort"
	"strings"

	"sync-verifier/core/rawval"
	"sync-verifier/feature/verify/normalize"
)

// Verdict is the outcome of comparing one field of one record.
type Verdict string

const (
	// VerdictMatch means both stores hold the same normalized value.
	VerdictMatch Verdict = "MATCH"
	// VerdictMismatch means the normalized values differ.
	VerdictMismatch Verdict = "MISMATCH"
	// VerdictInconclusive means neither side carries usable information.
	VerdictInconclusive Verdict = "INCONCLUSIVE"
)

// Kind identifies the comparison strategy that produced a Finding.
type Kind string

const (
	KindExactText    Kind = "exact_text"
	KindEnumPriority Kind = "enum_priority"
	KindDomainOnly   Kind = "domain_only"
	KindSetOverlap   Kind = "set_overlap"
)

// Finding is the result of comparing one field of one record. The verdict is
// a pure function of the two normalized values (plus the rule's threshold);
// it never depends on which store supplied which value.
type Finding struct {
	RecordID         int64        `json:"record_id"`
	Field            string       `json:"field_name"`
	Rule             Kind         `json:"rule_kind"`
	SourceRaw        rawval.Value `json:"source_raw"`
	IndexRaw         rawval.Value `json:"index_raw"`
	SourceNormalized string       `json:"source_normalized"`
	IndexNormalized  string       `json:"index_normalized"`
	Verdict          Verdict      `json:"verdict"`
	Detail           string       `json:"detail"`
}

// Candidate is one of possibly several index fields carrying the same fact.
type Candidate struct {
	Field string
	Value rawval.Value
}

// ExactText compares two loosely encoded scalars after trimming and
// case-folding. Empty-vs-empty is a match.
func ExactText(recordID int64, field string, source, index rawval.Value) Finding {
	src := normalize.Text(source)
	idx := normalize.Text(index)

	f := Finding{
		RecordID:         recordID,
		Field:            field,
		Rule:             KindExactText,
		SourceRaw:        source,
		IndexRaw:         index,
		SourceNormalized: src,
		IndexNormalized:  idx,
	}

	if src == idx {
		f.Verdict = VerdictMatch
		f.Detail = "values equal after normalization"
		return f
	}
	f.Verdict = VerdictMismatch
	f.Detail = fmt.Sprintf("source=%q index=%q", src, idx)
	return f
}

// EnumPriority compares an enum-encoded source value against every index
// candidate carrying the same fact. The index is allowed to expose two
// competing fields that disagree with each other, so the verdict is MATCH as
// soon as any candidate's normalized value equals the source's. When the
// source and every candidate are uninformative the verdict is INCONCLUSIVE,
// never an error.
func EnumPriority(recordID int64, field string, source rawval.Value, candidates []Candidate) Finding {
	srcMode := normalize.WorkModeOf(source)

	// Keep the candidate raw forms in the finding so the aggregator can
	// re-derive them during reclassification.
	candidateRaws := make([]string, 0, len(candidates))
	for _, c := range candidates {
		candidateRaws = append(candidateRaws, c.Value.String())
	}

	f := Finding{
		RecordID:         recordID,
		Field:            field,
		Rule:             KindEnumPriority,
		SourceRaw:        source,
		IndexRaw:         rawval.Seq(candidateRaws),
		SourceNormalized: srcMode.String(),
	}

	anyKnown := false
	for _, c := range candidates {
		mode := normalize.WorkModeOf(c.Value)
		if mode.Known() {
			anyKnown = true
		}
		if srcMode.Known() && mode == srcMode {
			f.IndexNormalized = mode.String()
			f.Verdict = VerdictMatch
			f.Detail = fmt.Sprintf("matched via index field %q", c.Field)
			return f
		}
	}

	if !srcMode.Known() && !anyKnown {
		f.IndexNormalized = normalize.WorkModeUnknown.String()
		f.Verdict = VerdictInconclusive
		f.Detail = "both sides uninformative"
		return f
	}

	// Report the first informative candidate, or UNKNOWN when none is.
	f.IndexNormalized = normalize.WorkModeUnknown.String()
	for _, c := range candidates {
		if mode := normalize.WorkModeOf(c.Value); mode.Known() {
			f.IndexNormalized = mode.String()
			break
		}
	}
	f.Verdict = VerdictMismatch
	f.Detail = fmt.Sprintf("no index candidate matches %s", srcMode)
	return f
}

// DomainOnly compares two URL-like strings by destination host only; scheme,
// path and query are ignored. Two empty domains match.
func DomainOnly(recordID int64, field string, source, index rawval.Value) Finding {
	src := normalize.Domain(source.First().String())
	idx := normalize.Domain(index.First().String())

	f := Finding{
		RecordID:         recordID,
		Field:            field,
		Rule:             KindDomainOnly,
		SourceRaw:        source,
		IndexRaw:         index,
		SourceNormalized: src,
		IndexNormalized:  idx,
	}

	if src == idx {
		f.Verdict = VerdictMatch
		f.Detail = "same destination host"
		return f
	}
	f.Verdict = VerdictMismatch
	f.Detail = fmt.Sprintf("different domains (source=%s, index=%s)", orNA(src), orNA(idx))
	return f
}

// SetOverlap compares two multi-valued fields by set overlap relative to the
// larger set. Both empty is a match; exactly one empty is a mismatch. The
// detail always records the computed percentage and, on mismatch, the
// symmetric differences; reclassification depends on both.
func SetOverlap(recordID int64, field string, source, index rawval.Value, threshold float64) Finding {
	src := normalize.SkillSet(source)
	idx := normalize.SkillSet(index)

	f := Finding{
		RecordID:         recordID,
		Field:            field,
		Rule:             KindSetOverlap,
		SourceRaw:        source,
		IndexRaw:         index,
		SourceNormalized: joinSet(src),
		IndexNormalized:  joinSet(idx),
	}

	switch {
	case len(src) == 0 && len(idx) == 0:
		f.Verdict = VerdictMatch
		f.Detail = "both sets empty"
		return f
	case len(src) == 0 || len(idx) == 0:
		f.Verdict = VerdictMismatch
		f.Detail = fmt.Sprintf("one side empty (source=%d tokens, index=%d tokens)", len(src), len(idx))
		return f
	}

	overlap := Overlap(src, idx)
	if overlap >= threshold {
		f.Verdict = VerdictMatch
		f.Detail = fmt.Sprintf("overlap %.1f%% (threshold %.0f%%)", overlap*100, threshold*100)
		return f
	}

	f.Verdict = VerdictMismatch
	f.Detail = fmt.Sprintf("overlap %.1f%% (threshold %.0f%%); only in source: [%s]; only in index: [%s]",
		overlap*100, threshold*100, joinSet(difference(src, idx)), joinSet(difference(idx, src)))
	return f
}

// Overlap computes |A ∩ B| / max(|A|, |B|). Symmetric in its arguments.
func Overlap(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	common := intersectionSize(a, b)
	larger := len(a)
	if len(b) > larger {
		larger = len(b)
	}
	return float64(common) / float64(larger)
}

// SubsetOverlap computes |A ∩ B| / min(|A|, |B|): full marks when the
// smaller set is contained in the larger one. Used by the relaxed re-check
// because the index regularly stores a trimmed subset of the source tokens.
func SubsetOverlap(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	common := intersectionSize(a, b)
	smaller := len(a)
	if len(b) < smaller {
		smaller = len(b)
	}
	return float64(common) / float64(smaller)
}

func intersectionSize(a, b map[string]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for token := range a {
		if _, ok := b[token]; ok {
			n++
		}
	}
	return n
}

func difference(a, b map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{})
	for token := range a {
		if _, ok := b[token]; !ok {
			out[token] = struct{}{}
		}
	}
	return out
}

func joinSet(set map[string]struct{}) string {
	tokens := make([]string, 0, len(set))
	for token := range set {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	return strings.Join(tokens, ",")
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
