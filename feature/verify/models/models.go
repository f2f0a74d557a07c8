package models

import (
	"time"

	"sync-verifier/core/rawval"
)

// SourceRecord is one job row from the authoritative store. It is a
// read-only snapshot fetched once per verification pass; the verifier never
// mutates it.
type SourceRecord struct {
	// ID is the unique, immutable record identifier.
	ID int64

	// CompanyName is the employer display name.
	CompanyName string

	// Title is the job title.
	Title string

	// StateName is the job state/province name.
	StateName string

	// CityName is the job city name.
	CityName string

	// WorkModeRaw is the raw work mode column. The column has held integers
	// (0/1/2), booleans, and string tokens over the schema's lifetime, so it
	// is kept opaque until normalization.
	WorkModeRaw rawval.Value

	// JobLink is the posting URL. It may lack a scheme.
	JobLink string

	// SkillsRaw is the raw skills column: a comma-joined string in the
	// store, a sequence in some exports.
	SkillsRaw rawval.Value

	// ModifiedAt is the row's last modification timestamp.
	ModifiedAt time.Time
}

// IndexDocument is the search index counterpart of a SourceRecord. Fields
// are independently encoded by the indexing pipeline: the work mode appears
// under two competing fields (remote and workmode) that may disagree, skills
// arrive as a sequence, and location fields are sometimes single-element
// arrays.
type IndexDocument struct {
	ID          rawval.Value
	CompanyName rawval.Value
	Title       rawval.Value
	StateName   rawval.Value
	CityName    rawval.Value

	// Remote is the numeric/string work mode enum (0/1/2). Primary source
	// for the hybrid mode.
	Remote rawval.Value

	// WorkMode is the boolean/string work mode. Cannot represent hybrid.
	WorkMode rawval.Value

	JobLink  rawval.Value
	AISkills rawval.Value
}

// Index field names as they appear in the search collection.
const (
	FieldID          = "id"
	FieldCompanyName = "company_name"
	FieldTitle       = "title"
	FieldStateName   = "state_name"
	FieldCityName    = "city_name"
	FieldRemote      = "remote"
	FieldWorkMode    = "workmode"
	FieldJobLink     = "joblink"
	FieldAISkills    = "ai_skills"
)

// DocumentFromFields builds an IndexDocument from a decoded index document.
// Missing fields stay null.
func DocumentFromFields(fields map[string]rawval.Value) *IndexDocument {
	return &IndexDocument{
		ID:          fields[FieldID],
		CompanyName: fields[FieldCompanyName],
		Title:       fields[FieldTitle],
		StateName:   fields[FieldStateName],
		CityName:    fields[FieldCityName],
		Remote:      fields[FieldRemote],
		WorkMode:    fields[FieldWorkMode],
		JobLink:     fields[FieldJobLink],
		AISkills:    fields[FieldAISkills],
	}
}
