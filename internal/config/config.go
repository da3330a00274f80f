package config // package config loads application configuration from environment variables

import (
	"log" // log is used to report configuration errors and halt execution
	"os"  // os provides access to environment variables
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The advance-sheet service keeps its state in a
// single SQLite file, so the database configuration is just a path.
type Config struct {
	Env          string // application environment (e.g. "dev", "prod")
	Port         string // HTTP port to listen on
	DBPath       string // path to the SQLite database file
	JWTSecret    string // secret used to sign JWTs
	AccessTTLMin int    // access token time-to-live in minutes
	BcryptCost   int    // bcrypt cost for password hashing
	DefaultVenue string // venue name pre-filled on new shows
}

// Load reads configuration values from environment variables and returns a
// Config.  JWT_SECRET is mandatory; everything else falls back to sane
// defaults so the service can run from a bare checkout.
func Load() Config {
	return Config{
		Env:          getenv("APP_ENV", "dev"),
		Port:         getenv("APP_PORT", "5001"),
		DBPath:       getenv("DB_PATH", "advance.db"),
		JWTSecret:    must("JWT_SECRET"),
		AccessTTLMin: atoiDefault(getenv("ACCESS_TOKEN_TTL_MIN", "720"), 720),
		BcryptCost:   atoiDefault(getenv("BCRYPT_COST", "10"), 10),
		DefaultVenue: getenv("DEFAULT_VENUE", "Judson's Live"),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
