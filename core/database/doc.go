// Package database handles connections to the authoritative source store.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to
// properly configure MySQL connections based on the application's
// configuration.
//
// # Connect
//
// The generic Connect function establishes a connection to the database. The
// verifier treats the connection as a read-only handle; it never mutates job
// rows.
//
// # Schema Inspection
//
// The package also includes a small schema inspector used by the
// connectivity check to verify that the jobs table exposes the columns the
// verification rules compare.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.MissingColumns(db, "jnp_jobs", []string{"id", "joblink"})
package database
