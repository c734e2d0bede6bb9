// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS, logging
// level, CORS, body limits). AppConfig is everything specific to CoachHub.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: coachhub-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Buddy pairing configuration
	BuddyMaintenanceEnabled bool // run the weekly buddy job in-process

	// Audit logging for admin actions: "all", "db", "log", or "off"
	AuditAdmin string
}
