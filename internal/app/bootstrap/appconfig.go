// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS,
// logging, CORS, body limits); AppConfig is everything specific to
// UniMove itself.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connections in the driver pool
	MongoMinPoolSize uint64 // Min connections kept warm in the pool

	// Token configuration for the bearer-auth API
	JWTSecret        string        // HMAC signing key (must be strong in production)
	JWTIssuer        string        // Issuer claim stamped into every token
	JWTExpiry        time.Duration // Access token lifetime
	JWTRefreshExpiry time.Duration // Refresh token lifetime
}
