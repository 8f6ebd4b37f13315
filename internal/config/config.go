// Package config provides configuration structures and validation for the
// application. It handles environment-based configuration for the HTTP
// server, the local SQLite store, the optional remote replication backends,
// and the AI extraction service.
package config

import (
	"errors"
	"strings"
	"time"
)

// placeholderServiceKey ships in the example configuration; a key equal to it
// means the operator never configured the remote store.
const placeholderServiceKey = "sb_publishable_nKnfDmti-bI6BStdE_8rDQ_dkxwXBm8"

// Config holds the complete application configuration. Each field represents
// a major subsystem's configuration and is validated during startup.
type Config struct {
	Application ApplicationConfig
	Logging     LoggingConfig
	Server      ServerConfig
	Local       LocalConfig
	Remote      RemoteConfig
	Mongo       MongoConfig
	Gemini      GeminiConfig
	SyncPool    SyncPoolConfig
}

// ApplicationConfig contains general application configuration
type ApplicationConfig struct {
	Env  string
	Name string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Port            int           // Port to listen on
	ShutdownTimeout time.Duration // Grace period for server shutdown
	ReadTimeout     time.Duration // Maximum duration for reading entire request
	WriteTimeout    time.Duration // Maximum duration for writing response
	IdleTimeout     time.Duration // Maximum duration to wait for next request
}

// LocalConfig contains the local SQLite store configuration. The local store
// is the durability floor and is always active.
type LocalConfig struct {
	Path string // SQLite database file path
}

// RemoteConfig contains the optional remote PostgreSQL replication settings.
// Remote mode is enabled only when the configuration passes the Enabled
// guard; otherwise the application runs local-only.
type RemoteConfig struct {
	URL             string        // Database connection string
	ServiceKey      string        // Access key; also gates remote mode
	MaxConns        int32         // Maximum number of open connections
	MinConns        int32         // Minimum number of idle connections
	ConnMaxLifetime time.Duration // Maximum lifetime of a connection
	ConnMaxIdleTime time.Duration // Maximum idle time of a connection
	MigrationsPath  string        // Path to migration files
}

// Enabled reports whether remote replication should be attempted. Both the
// URL and the service key must be present, the key must be long enough to be
// plausible, and it must not be the placeholder that ships with the example
// configuration.
func (r *RemoteConfig) Enabled() bool {
	return r.URL != "" &&
		r.ServiceKey != "" &&
		len(r.ServiceKey) > 20 &&
		!strings.Contains(r.ServiceKey, placeholderServiceKey)
}

// MongoConfig contains the voucher-history store configuration, used only in
// remote mode.
type MongoConfig struct {
	URI             string
	Database        string
	Timeout         time.Duration
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
}

// GeminiConfig contains the AI extraction service configuration
type GeminiConfig struct {
	BaseURL     string        // API base URL, overridable for testing
	APIKey      string        // API key for the extraction service
	TextModel   string        // Model used for text-only requests
	VisionModel string        // Model used when an image is attached
	Timeout     time.Duration // Per-request timeout
}

// SyncPoolConfig contains the remote-sync worker pool configuration
type SyncPoolConfig struct {
	Size int // Maximum number of concurrent remote upserts
}

// validate performs comprehensive validation of all configuration values,
// ensuring they meet minimum requirements and logical constraints
func (c *Config) validate() error {
	var validationErrors []string

	// Validate Server config
	if c.Server.Port <= 0 {
		validationErrors = append(validationErrors, "SERVER_PORT must be greater than 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_SHUTDOWN_TIMEOUT must be greater than 0")
	}
	if c.Server.ReadTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_READ_TIMEOUT must be greater than 0")
	}
	if c.Server.WriteTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_WRITE_TIMEOUT must be greater than 0")
	}
	if c.Server.IdleTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_IDLE_TIMEOUT must be greater than 0")
	}

	// Validate local store config
	if c.Local.Path == "" {
		validationErrors = append(validationErrors, "LOCAL_DB_PATH is required")
	}

	// Remote settings are only validated when remote mode is enabled;
	// an unconfigured remote is a supported deployment, not an error.
	if c.Remote.Enabled() {
		if c.Remote.MaxConns <= 0 {
			validationErrors = append(validationErrors, "REMOTE_MAX_CONNS must be greater than 0")
		}
		if c.Remote.MinConns <= 0 {
			validationErrors = append(validationErrors, "REMOTE_MIN_CONNS must be greater than 0")
		}
		if c.Remote.ConnMaxLifetime <= 0 {
			validationErrors = append(validationErrors, "REMOTE_MAX_CONN_LIFETIME must be greater than 0")
		}
		if c.Remote.ConnMaxIdleTime <= 0 {
			validationErrors = append(validationErrors, "REMOTE_MAX_CONN_IDLE_TIME must be greater than 0")
		}
		if c.Remote.MigrationsPath == "" {
			validationErrors = append(validationErrors, "REMOTE_MIGRATIONS_PATH is required")
		}
		if c.Mongo.URI == "" {
			validationErrors = append(validationErrors, "MONGO_URI is required")
		}
		if c.Mongo.Database == "" {
			validationErrors = append(validationErrors, "MONGO_DATABASE is required")
		}
		if c.Mongo.Timeout <= 0 {
			validationErrors = append(validationErrors, "MONGO_TIMEOUT must be greater than 0")
		}
		if c.Mongo.MaxPoolSize <= 0 {
			validationErrors = append(validationErrors, "MONGO_MAX_POOL_SIZE must be greater than 0")
		}
		if c.Mongo.MinPoolSize <= 0 {
			validationErrors = append(validationErrors, "MONGO_MIN_POOL_SIZE must be greater than 0")
		}
		if c.Mongo.MaxConnIdleTime <= 0 {
			validationErrors = append(validationErrors, "MONGO_MAX_CONN_IDLE_TIME must be greater than 0")
		}
	}

	// Validate Gemini config
	if c.Gemini.APIKey == "" {
		validationErrors = append(validationErrors, "GEMINI_API_KEY is required")
	}
	if c.Gemini.TextModel == "" {
		validationErrors = append(validationErrors, "GEMINI_TEXT_MODEL is required")
	}
	if c.Gemini.VisionModel == "" {
		validationErrors = append(validationErrors, "GEMINI_VISION_MODEL is required")
	}
	if c.Gemini.Timeout <= 0 {
		validationErrors = append(validationErrors, "GEMINI_TIMEOUT must be greater than 0")
	}

	// Validate sync pool config
	if c.SyncPool.Size <= 0 {
		validationErrors = append(validationErrors, "SYNC_POOL_SIZE must be greater than 0")
	}

	if len(validationErrors) > 0 {
		return errors.New(strings.Join(validationErrors, ", "))
	}

	return nil
}
