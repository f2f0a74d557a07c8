// Package config provides configuration management for the verifier.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Database: MySQL connection details for the authoritative store
//   - Solr: search index endpoint and credentials
//   - Storage: S3/MinIO credentials for the report archive
//   - Log: logging level and format
//   - Verify: verification pass tuning (collection, threshold, workers)
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
