package solr

// Config holds configuration for the search index connection.
type Config struct {
	// Endpoint is the base URL of the Solr server, e.g. "https://solr.example.com/solr".
	Endpoint string `mapstructure:"endpoint" default:"http://localhost:8983/solr"`
	// User is the basic-auth user.
	User string `mapstructure:"user" default:""`
	// Password is the basic-auth password.
	Password string `mapstructure:"password" default:""`
	// TimeoutSeconds is the per-request timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"10"`
}
