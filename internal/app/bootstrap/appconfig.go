// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//
// The struct is passed to most lifecycle hooks, so any configuration needed
// during startup, request handling, or shutdown lives here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI            string        // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase       string        // Database name within MongoDB
	MongoConnectTimeout time.Duration // Server selection and initial ping timeout

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: linkcatalog-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Fixed lifetime of an admin login

	// The single admin identity
	AdminUsername     string
	AdminPasswordHash string // argon2id PHC string from cmd/hashpassword (bcrypt also accepted)

	// Catalog behavior
	PerPage                        int  // Admin page size and public default when paging
	MaxBatchSize                   int  // Upper bound on items in one batch submission
	EnforceCollectionURLUniqueness bool // Reject collection URLs already stored elsewhere

	// Login rate limiting (Redis when RedisAddr is set, memory otherwise)
	RedisAddr       string
	RedisPassword   string
	LoginRateLimit  int
	LoginRateWindow time.Duration

	// Observability
	AuditLog       string // 'all', 'db', 'log', or 'off'
	MetricsEnabled bool
}
