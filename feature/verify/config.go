package verify

import "time"

// Config holds the verification pass settings.
type Config struct {
	// Collection is the search index collection holding job documents.
	Collection string `mapstructure:"collection" default:"jnp_jobs_v6"`
	// SourceTable is the authoritative jobs table.
	SourceTable string `mapstructure:"source_table" default:"jnp_jobs"`
	// OverlapThreshold is the minimum skill set overlap for a MATCH. The
	// relaxed re-check reuses the same figure against the smaller set.
	OverlapThreshold float64 `mapstructure:"overlap_threshold" default:"0.70"`
	// LookupTimeoutSeconds bounds each individual index query attempt.
	LookupTimeoutSeconds int `mapstructure:"lookup_timeout_seconds" default:"10"`
	// LookupAttempts caps the fallback query forms tried per record.
	LookupAttempts int `mapstructure:"lookup_attempts" default:"3"`
	// Workers is the verification pool size.
	Workers int `mapstructure:"workers" default:"8"`
	// LookbackHours selects records modified within this window.
	LookbackHours int `mapstructure:"lookback_hours" default:"24"`
}

// LookupTimeout returns the per-attempt timeout as a duration.
func (c Config) LookupTimeout() time.Duration {
	return time.Duration(c.LookupTimeoutSeconds) * time.Second
}

// Lookback returns the record selection window as a duration.
func (c Config) Lookback() time.Duration {
	return time.Duration(c.LookbackHours) * time.Hour
}
