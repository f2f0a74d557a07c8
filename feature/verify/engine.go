package verify

import (
	"context"

	"sync-verifier/core/rawval"
	"sync-verifier/feature/verify/models"
	"sync-verifier/feature/verify/rules"

	"go.uber.org/zap"
)

// RecordStatus is the record-level outcome of one verification.
type RecordStatus string

const (
	// StatusAllMatch means every field finding is MATCH or INCONCLUSIVE.
	StatusAllMatch RecordStatus = "ALL_MATCH"
	// StatusHasMismatch means at least one field finding is MISMATCH.
	StatusHasMismatch RecordStatus = "HAS_MISMATCH"
	// StatusNotFound means the index confirmed the record absent.
	StatusNotFound RecordStatus = "NOT_FOUND_IN_INDEX"
	// StatusLookupError means the index could not be queried; the record
	// will be retried in a later pass, never within this one.
	StatusLookupError RecordStatus = "LOOKUP_ERROR"
)

// Report field names. These key the per-field mismatch counts and the
// mismatch entries in the final report.
const (
	fieldWorkMode    = "work_mode"
	fieldCompanyName = "company_name"
	fieldTitle       = "title"
	fieldStateName   = "state_name"
	fieldCityName    = "city_name"
	fieldJobLink     = "joblink"
	fieldAISkills    = "ai_skills"
)

// RecordResult is one record's verification outcome. Findings is empty for
// NOT_FOUND_IN_INDEX and LOOKUP_ERROR outcomes; no field rule runs against
// an absent document.
type RecordResult struct {
	RecordID int64
	Status   RecordStatus
	Findings []rules.Finding
	Err      error
}

// Finder locates a record's index counterpart. A nil document with a nil
// error is a confirmed absence.
type Finder interface {
	Find(ctx context.Context, id int64) (*models.IndexDocument, error)
}

// Engine runs the per-record fetch-compare-classify cycle. It never returns
// an error: index outages and malformed field values both degrade to report
// entries so one bad record cannot abort a batch.
type Engine struct {
	finder    Finder
	threshold float64
	logger    *zap.Logger
}

// NewEngine creates an engine over the given index finder. threshold is the
// minimum skill set overlap for a MATCH.
func NewEngine(finder Finder, threshold float64, logger *zap.Logger) *Engine {
	return &Engine{
		finder:    finder,
		threshold: threshold,
		logger:    logger,
	}
}

// VerifyRecord compares one source record against its index counterpart.
// Every configured field rule is evaluated, with no short-circuit on the
// first mismatch, so the result always carries the complete per-field
// picture for the record.
func (e *Engine) VerifyRecord(ctx context.Context, rec models.SourceRecord) RecordResult {
	doc, err := e.finder.Find(ctx, rec.ID)
	if err != nil {
		e.logger.Warn("index lookup failed",
			zap.Int64("id", rec.ID),
			zap.Error(err),
		)
		return RecordResult{RecordID: rec.ID, Status: StatusLookupError, Err: err}
	}
	if doc == nil {
		return RecordResult{RecordID: rec.ID, Status: StatusNotFound}
	}

	findings := []rules.Finding{
		rules.EnumPriority(rec.ID, fieldWorkMode, rec.WorkModeRaw, []rules.Candidate{
			{Field: models.FieldRemote, Value: doc.Remote},
			{Field: models.FieldWorkMode, Value: doc.WorkMode},
		}),
		rules.ExactText(rec.ID, fieldCompanyName, rawval.FromAny(rec.CompanyName), doc.CompanyName),
		rules.ExactText(rec.ID, fieldTitle, rawval.FromAny(rec.Title), doc.Title),
		rules.ExactText(rec.ID, fieldStateName, rawval.FromAny(rec.StateName), doc.StateName),
		rules.ExactText(rec.ID, fieldCityName, rawval.FromAny(rec.CityName), doc.CityName),
		rules.DomainOnly(rec.ID, fieldJobLink, rawval.FromAny(rec.JobLink), doc.JobLink),
		rules.SetOverlap(rec.ID, fieldAISkills, rec.SkillsRaw, doc.AISkills, e.threshold),
	}

	status := StatusAllMatch
	for _, f := range findings {
		if f.Verdict == rules.VerdictMismatch {
			status = StatusHasMismatch
			e.logger.Debug("field mismatch",
				zap.Int64("id", rec.ID),
				zap.String("field", f.Field),
				zap.String("detail", f.Detail),
			)
		}
	}

	return RecordResult{RecordID: rec.ID, Status: status, Findings: findings}
}
