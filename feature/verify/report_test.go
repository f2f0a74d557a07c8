package verify

import (
	"testing"
	"time"

	"sync-verifier/core/rawval"
	"sync-verifier/feature/verify/rules"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mismatchResult(id int64, findings ...rules.Finding) RecordResult {
	return RecordResult{RecordID: id, Status: StatusHasMismatch, Findings: findings}
}

func reduceOne(t *testing.T, res RecordResult) *VerificationReport {
	t.Helper()
	p := NewPartial()
	p.Add(res)
	return NewAggregator(0.70).Reduce("run-1", time.Now(), time.Now(), 0, p)
}

func TestReduceSubsetOverlapIsFalsePositive(t *testing.T) {
	// 2 of 3 shared: 66.7% against the larger set, 100% against the smaller.
	f := rules.SetOverlap(42, "ai_skills",
		rawval.FromAny("python,sql,aws"),
		rawval.FromAny([]string{"Python", "SQL"}),
		0.70)
	require.Equal(t, rules.VerdictMismatch, f.Verdict)

	report := reduceOne(t, mismatchResult(42, f))

	require.Len(t, report.FalsePositives, 1)
	assert.Empty(t, report.TrueMismatches)
	assert.Equal(t, int64(42), report.FalsePositives[0].ID)
	require.Len(t, report.FalsePositives[0].Reasoning, 1)
	assert.Contains(t, report.FalsePositives[0].Reasoning[0], "subset overlap 100.0%")
	assert.Equal(t, 1, report.PerFieldMismatchCounts["ai_skills"])
}

func TestReduceDisjointSetsStayTrueMismatch(t *testing.T) {
	f := rules.SetOverlap(43, "ai_skills",
		rawval.FromAny("python,sql"),
		rawval.FromAny([]string{"java", "kotlin"}),
		0.70)
	require.Equal(t, rules.VerdictMismatch, f.Verdict)

	report := reduceOne(t, mismatchResult(43, f))

	require.Len(t, report.TrueMismatches, 1)
	assert.Empty(t, report.FalsePositives)
	assert.Empty(t, report.TrueMismatches[0].Reasoning)
	require.Len(t, report.TrueMismatches[0].Entries, 1)
	assert.Equal(t, "ai_skills", report.TrueMismatches[0].Entries[0].Field)
}

func TestReduceFoldedTextIsFalsePositive(t *testing.T) {
	f := rules.ExactText(44, "city_name",
		rawval.FromAny("Saint-Paul"),
		rawval.FromAny("Saint Paul"))
	require.Equal(t, rules.VerdictMismatch, f.Verdict)

	report := reduceOne(t, mismatchResult(44, f))

	require.Len(t, report.FalsePositives, 1)
	assert.Contains(t, report.FalsePositives[0].Reasoning[0], "equal after folding")
}

func TestReduceEmbeddedIDIsFalsePositive(t *testing.T) {
	f := rules.DomainOnly(45, "joblink",
		rawval.FromAny("http://jobs.acme.com/4711/apply"),
		rawval.FromAny("https://acme.dejobs.org/4711/"))
	require.Equal(t, rules.VerdictMismatch, f.Verdict)

	report := reduceOne(t, mismatchResult(45, f))

	require.Len(t, report.FalsePositives, 1)
	assert.Contains(t, report.FalsePositives[0].Reasoning[0], "embedded numeric ids")
}

func TestReduceEnumMismatchStaysTrue(t *testing.T) {
	f := rules.EnumPriority(46, "work_mode",
		rawval.FromAny(1),
		[]rules.Candidate{
			{Field: "remote", Value: rawval.FromAny(0)},
			{Field: "workmode", Value: rawval.FromAny(false)},
		})
	require.Equal(t, rules.VerdictMismatch, f.Verdict)

	report := reduceOne(t, mismatchResult(46, f))

	require.Len(t, report.TrueMismatches, 1)
	assert.Empty(t, report.FalsePositives)
}

func TestReduceOneSurvivingFindingKeepsRecordTrue(t *testing.T) {
	// The folded-text finding re-checks equal, the disjoint skill sets do
	// not; one surviving finding keeps the whole record a true mismatch.
	text := rules.ExactText(47, "title",
		rawval.FromAny("Sr. Engineer"),
		rawval.FromAny("Sr Engineer"))
	skills := rules.SetOverlap(47, "ai_skills",
		rawval.FromAny("go,rust"),
		rawval.FromAny([]string{"php"}),
		0.70)
	require.Equal(t, rules.VerdictMismatch, text.Verdict)
	require.Equal(t, rules.VerdictMismatch, skills.Verdict)

	report := reduceOne(t, mismatchResult(47, text, skills))

	require.Len(t, report.TrueMismatches, 1)
	assert.Len(t, report.TrueMismatches[0].Entries, 2)
	assert.Empty(t, report.FalsePositives)
}

func TestReduceTotalsInvariant(t *testing.T) {
	p1 := NewPartial()
	p1.Add(RecordResult{RecordID: 1, Status: StatusAllMatch})
	p1.Add(RecordResult{RecordID: 2, Status: StatusNotFound})
	p1.Add(mismatchResult(3, rules.SetOverlap(3, "ai_skills",
		rawval.FromAny("go"), rawval.FromAny("java"), 0.70)))

	p2 := NewPartial()
	p2.Add(RecordResult{RecordID: 4, Status: StatusLookupError})
	p2.Add(RecordResult{RecordID: 5, Status: StatusAllMatch})
	p2.Add(mismatchResult(6, rules.SetOverlap(6, "ai_skills",
		rawval.FromAny("python,sql,aws"), rawval.FromAny([]string{"python", "sql"}), 0.70)))

	report := NewAggregator(0.70).Reduce("run-2", time.Now(), time.Now(), 2, p1, p2)

	assert.Equal(t, 8, report.TotalChecked)
	assert.Equal(t, 2, report.Matched)
	assert.Equal(t, 1, report.NotFoundInIndex)
	assert.Equal(t, 1, report.LookupErrors)
	assert.Equal(t, 2, report.NotAttempted)

	sum := report.Matched + len(report.TrueMismatches) + len(report.FalsePositives) +
		report.NotFoundInIndex + report.LookupErrors + report.NotAttempted
	assert.Equal(t, report.TotalChecked, sum)
}
