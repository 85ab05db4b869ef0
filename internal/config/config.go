package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"strings" // strings normalizes boolean values
	"time"    // time parses duration values
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations
// and costs.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	DBUser         string // database username
	DBPass         string // database password (optional)
	DBHost         string // database host address
	DBPort         string // database port number
	DBName         string // database name
	JWTSecret      string // secret used to sign access JWTs
	AccessTTLMin   int    // access token time-to-live in minutes
	SessionTTLDays int    // refresh session time-to-live in days
	BcryptCost     int    // bcrypt cost for password hashing
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Token lifetimes and
// the bcrypt cost carry defaults (15 minute access tokens, 7 day sessions,
// cost 10) so a minimal deployment only has to provide the server and
// database settings.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),                        // environment (dev/test/prod)
		Port:           must("APP_PORT"),                       // port to bind the HTTP server
		DBUser:         must("DB_USER"),                        // database user
		DBPass:         os.Getenv("DB_PASS"),                   // database password (empty allowed)
		DBHost:         must("DB_HOST"),                        // database host
		DBPort:         must("DB_PORT"),                        // database port
		DBName:         must("DB_NAME"),                        // database name
		JWTSecret:      must("JWT_SECRET"),                     // secret used for signing JWTs
		AccessTTLMin:   intOr("ACCESS_TOKEN_TTL_MIN", 15),      // TTL for access tokens in minutes
		SessionTTLDays: intOr("SESSION_TTL_DAYS", 7),           // TTL for refresh sessions in days
		BcryptCost:     intOr("BCRYPT_COST", 10),               // bcrypt cost factor
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

// intOr retrieves an optional integer environment variable, returning the
// given default when unset.  A set-but-invalid value is a configuration
// mistake and exits like a missing required variable.
func intOr(key string, def int) int {
	s, ok := os.LookupEnv(key)
	if !ok || s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// strOr retrieves an optional string environment variable with a default.
func strOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// boolOr retrieves an optional boolean environment variable.  Accepted
// true values are "1", "true", "yes" and "on" in any case; the matching
// negatives disable.  Anything else falls back to the default.
func boolOr(key string, def bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}

// durOr retrieves an optional duration environment variable ("30s",
// "5m") with a default; an unparseable value keeps the default.
func durOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
