package verify

import (
	"fmt"
	"time"

	"sync-verifier/core/rawval"
	"sync-verifier/feature/verify/normalize"
	"sync-verifier/feature/verify/rules"
)

// MismatchEntry is one mismatching field of one record as it appears in the
// persisted report.
type MismatchEntry struct {
	ID          int64  `json:"id"`
	Field       string `json:"field"`
	SourceValue string `json:"source_value"`
	IndexValue  string `json:"index_value"`
	Detail      string `json:"detail"`
}

// RecordMismatch groups one record's mismatching findings. Reasoning carries
// the per-finding re-check notes and is populated only for records that were
// reclassified as false positives.
type RecordMismatch struct {
	ID        int64           `json:"id"`
	Entries   []MismatchEntry `json:"entries"`
	Reasoning []string        `json:"reasoning,omitempty"`
}

// VerificationReport is the final, frozen outcome of one verification pass.
// Counts satisfy: Matched + len(TrueMismatches) + len(FalsePositives) +
// NotFoundInIndex + LookupErrors + NotAttempted == TotalChecked.
type VerificationReport struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	TotalChecked    int `json:"total_checked"`
	Matched         int `json:"matched"`
	NotFoundInIndex int `json:"not_found_in_index"`
	LookupErrors    int `json:"lookup_errors"`
	NotAttempted    int `json:"not_attempted"`

	PerFieldMismatchCounts map[string]int   `json:"per_field_mismatch_counts"`
	TrueMismatches         []RecordMismatch `json:"true_mismatches"`
	FalsePositives         []RecordMismatch `json:"false_positives"`
}

// Partial accumulates record results for a single worker. Each worker owns
// exactly one Partial, so no locking is needed; the driver reduces all
// partials into one report after the workers join.
type Partial struct {
	total        int
	matched      int
	notFound     int
	lookupErrors int
	fieldCounts  map[string]int
	mismatched   []RecordResult
}

// NewPartial returns an empty per-worker accumulator.
func NewPartial() *Partial {
	return &Partial{fieldCounts: make(map[string]int)}
}

// Add records one verification result.
func (p *Partial) Add(res RecordResult) {
	p.total++
	switch res.Status {
	case StatusAllMatch:
		p.matched++
	case StatusNotFound:
		p.notFound++
	case StatusLookupError:
		p.lookupErrors++
	case StatusHasMismatch:
		for _, f := range res.Findings {
			if f.Verdict == rules.VerdictMismatch {
				p.fieldCounts[f.Field]++
			}
		}
		p.mismatched = append(p.mismatched, res)
	}
}

// Aggregator reduces per-worker partials into a VerificationReport and runs
// the false-positive reclassification pass over every mismatching record.
type Aggregator struct {
	threshold float64
}

// NewAggregator creates an aggregator. threshold is the overlap figure also
// used by the relaxed set re-check.
func NewAggregator(threshold float64) *Aggregator {
	return &Aggregator{threshold: threshold}
}

// Reduce merges the partials, reclassifies mismatching records, and returns
// the frozen report. notAttempted counts records the driver never dispatched
// before its deadline; they are part of TotalChecked so the totals invariant
// holds.
func (a *Aggregator) Reduce(runID string, started, finished time.Time, notAttempted int, partials ...*Partial) *VerificationReport {
	report := &VerificationReport{
		RunID:                  runID,
		StartedAt:              started,
		FinishedAt:             finished,
		NotAttempted:           notAttempted,
		TotalChecked:           notAttempted,
		PerFieldMismatchCounts: make(map[string]int),
		TrueMismatches:         []RecordMismatch{},
		FalsePositives:         []RecordMismatch{},
	}

	for _, p := range partials {
		report.TotalChecked += p.total
		report.Matched += p.matched
		report.NotFoundInIndex += p.notFound
		report.LookupErrors += p.lookupErrors
		for field, n := range p.fieldCounts {
			report.PerFieldMismatchCounts[field] += n
		}
		for _, res := range p.mismatched {
			rm, falsePositive := a.reclassify(res)
			if falsePositive {
				report.FalsePositives = append(report.FalsePositives, rm)
			} else {
				report.TrueMismatches = append(report.TrueMismatches, rm)
			}
		}
	}

	return report
}

// reclassify re-checks every mismatching finding of one record with a
// relaxed, encoding-tolerant predicate. The record is a false positive iff
// every mismatching finding re-checks equal; a single finding that survives
// the re-check keeps the whole record a true mismatch.
func (a *Aggregator) reclassify(res RecordResult) (RecordMismatch, bool) {
	rm := RecordMismatch{ID: res.RecordID}
	allEqual := true

	for _, f := range res.Findings {
		if f.Verdict != rules.VerdictMismatch {
			continue
		}
		rm.Entries = append(rm.Entries, MismatchEntry{
			ID:          f.RecordID,
			Field:       f.Field,
			SourceValue: f.SourceRaw.String(),
			IndexValue:  f.IndexRaw.String(),
			Detail:      f.Detail,
		})

		equal, note := a.recheck(f)
		rm.Reasoning = append(rm.Reasoning, fmt.Sprintf("%s: %s", f.Field, note))
		if !equal {
			allEqual = false
		}
	}

	if !allEqual {
		rm.Reasoning = nil
	}
	return rm, allEqual
}

// recheck decides whether one mismatching finding actually represents equal
// underlying facts under a relaxed predicate independent of the strict rule.
func (a *Aggregator) recheck(f rules.Finding) (bool, string) {
	switch f.Rule {
	case rules.KindSetOverlap:
		return a.recheckSets(f)
	case rules.KindEnumPriority:
		return recheckEnum(f)
	case rules.KindDomainOnly:
		return recheckURL(f)
	default:
		return recheckText(f)
	}
}

// recheckSets recomputes the overlap against the smaller set, tolerating one
// side being a subset of the other (a common indexing truncation).
func (a *Aggregator) recheckSets(f rules.Finding) (bool, string) {
	src := normalize.SkillSet(f.SourceRaw)
	idx := normalize.SkillSet(f.IndexRaw)
	if len(src) == 0 || len(idx) == 0 {
		return false, "one side empty, nothing to relax"
	}
	overlap := rules.SubsetOverlap(src, idx)
	if overlap >= a.threshold {
		return true, fmt.Sprintf("subset overlap %.1f%% meets %.0f%%", overlap*100, a.threshold*100)
	}
	return false, fmt.Sprintf("subset overlap %.1f%% below %.0f%%", overlap*100, a.threshold*100)
}

// recheckEnum re-derives the work mode from the raw candidate forms kept in
// the finding. Equal when any candidate re-derives to the source mode or
// when both sides remain uninformative.
func recheckEnum(f rules.Finding) (bool, string) {
	srcMode := normalize.WorkModeOf(f.SourceRaw)

	anyKnown := false
	for _, raw := range f.IndexRaw.Strings() {
		mode := normalize.WorkModeOf(rawval.FromAny(raw))
		if mode.Known() {
			anyKnown = true
		}
		if srcMode.Known() && mode == srcMode {
			return true, fmt.Sprintf("candidate re-derives to %s", mode)
		}
	}
	if !srcMode.Known() && !anyKnown {
		return true, "both sides uninformative"
	}
	return false, fmt.Sprintf("no candidate re-derives to %s", srcMode)
}

// recheckText compares the two sides after folding away punctuation and
// Unicode space variants.
func recheckText(f rules.Finding) (bool, string) {
	src := normalize.Fold(f.SourceNormalized)
	idx := normalize.Fold(f.IndexNormalized)
	if src != "" && src == idx {
		return true, "equal after folding"
	}
	return false, "differ after folding"
}

// recheckURL compares two URL-like strings beyond the destination host:
// equal paths, equal last path segments, or equal embedded numeric IDs all
// indicate the same posting reached through differently shaped links.
func recheckURL(f rules.Finding) (bool, string) {
	srcRaw := f.SourceRaw.First().String()
	idxRaw := f.IndexRaw.First().String()
	_, srcPath, srcSeg := normalize.URLParts(srcRaw)
	_, idxPath, idxSeg := normalize.URLParts(idxRaw)

	switch {
	case srcPath != "" && srcPath == idxPath:
		return true, "equal URL paths"
	case srcSeg != "" && srcSeg == idxSeg:
		return true, "equal last path segments"
	}
	if id := normalize.EmbeddedID(srcRaw); id != "" && id == normalize.EmbeddedID(idxRaw) {
		return true, "equal embedded numeric ids"
	}
	return false, "links resolve to different postings"
}
