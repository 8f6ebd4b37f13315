package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// LoadConfigWithName loads configuration using the specified name, auto-detecting the file type
// This is useful when the configuration file extension is unknown or variable
func LoadConfigWithName(configName string) (*Config, error) {
	return loadConfig(configName, "")
}

// LoadConfig loads configuration from a .env file using the provided base name
// This is the preferred method for loading environment-specific configurations
func LoadConfig(configName string) (*Config, error) {
	configFileName := fmt.Sprintf("%s.env", configName)
	return loadConfig(configFileName, "env")
}

// loadConfig handles configuration loading from files and environment variables.
// It implements a layered approach to configuration:
// 1. Load defaults
// 2. Override with config file values (if found)
// 3. Override with environment variables
// 4. Validate the final configuration
func loadConfig(configName, configType string) (*Config, error) {
	// Initialize viper with default values
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(configName)
	if configType != "" {
		v.SetConfigType(configType)
	}

	// Add config paths in order of priority
	v.AddConfigPath("./configs") // First check in configs directory
	v.AddConfigPath(".")         // Then check in root directory

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			fmt.Printf("INFO: No config file '%s' found, relying on environment variables and defaults.\n", configName)
		} else {
			fmt.Printf("WARNING: Error reading config file (%s): %v\n", v.ConfigFileUsed(), err)
		}
	} else {
		fmt.Printf("INFO: Config loaded from file: %s\n", v.ConfigFileUsed())
	}

	v.AutomaticEnv() // Automatically read matching environment variables

	// Build the config struct
	config := &Config{
		Application: ApplicationConfig{
			Env:  v.GetString("APP_ENV"),
			Name: v.GetString("APP_NAME"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Server: ServerConfig{
			Port:            v.GetInt("SERVER_PORT"),
			ShutdownTimeout: v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
			ReadTimeout:     v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("SERVER_WRITE_TIMEOUT"),
			IdleTimeout:     v.GetDuration("SERVER_IDLE_TIMEOUT"),
		},
		Local: LocalConfig{
			Path: v.GetString("LOCAL_DB_PATH"),
		},
		Remote: RemoteConfig{
			URL:             v.GetString("REMOTE_URL"),
			ServiceKey:      v.GetString("REMOTE_SERVICE_KEY"),
			MaxConns:        int32(v.GetInt("REMOTE_MAX_CONNS")),
			MinConns:        int32(v.GetInt("REMOTE_MIN_CONNS")),
			ConnMaxLifetime: v.GetDuration("REMOTE_MAX_CONN_LIFETIME"),
			ConnMaxIdleTime: v.GetDuration("REMOTE_MAX_CONN_IDLE_TIME"),
			MigrationsPath:  v.GetString("REMOTE_MIGRATIONS_PATH"),
		},
		Mongo: MongoConfig{
			URI:             v.GetString("MONGO_URI"),
			Database:        v.GetString("MONGO_DATABASE"),
			Timeout:         v.GetDuration("MONGO_TIMEOUT"),
			MaxPoolSize:     uint64(v.GetInt("MONGO_MAX_POOL_SIZE")),
			MinPoolSize:     uint64(v.GetInt("MONGO_MIN_POOL_SIZE")),
			MaxConnIdleTime: v.GetDuration("MONGO_MAX_CONN_IDLE_TIME"),
		},
		Gemini: GeminiConfig{
			BaseURL:     v.GetString("GEMINI_BASE_URL"),
			APIKey:      v.GetString("GEMINI_API_KEY"),
			TextModel:   v.GetString("GEMINI_TEXT_MODEL"),
			VisionModel: v.GetString("GEMINI_VISION_MODEL"),
			Timeout:     v.GetDuration("GEMINI_TIMEOUT"),
		},
		SyncPool: SyncPoolConfig{
			Size: v.GetInt("SYNC_POOL_SIZE"),
		},
	}

	// Validate the configuration
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults initializes configuration with sensible default values.
// These values are used when no configuration file or environment variables are present.
func setDefaults(v *viper.Viper) {
	// HTTP Server defaults - tuned for a single-user tool fronting slow AI calls
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVER_READ_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 90*time.Second)
	v.SetDefault("SERVER_IDLE_TIMEOUT", 120*time.Second)

	// Local store defaults
	v.SetDefault("LOCAL_DB_PATH", "accusim.db")

	// Remote replication defaults - remote mode stays disabled until both
	// REMOTE_URL and a real REMOTE_SERVICE_KEY are configured
	v.SetDefault("REMOTE_URL", "")
	v.SetDefault("REMOTE_SERVICE_KEY", "")
	v.SetDefault("REMOTE_MAX_CONNS", 10)
	v.SetDefault("REMOTE_MIN_CONNS", 2)
	v.SetDefault("REMOTE_MAX_CONN_LIFETIME", time.Hour)
	v.SetDefault("REMOTE_MAX_CONN_IDLE_TIME", 30*time.Minute)
	v.SetDefault("REMOTE_MIGRATIONS_PATH", "migrations/postgres")

	// Voucher history store defaults
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "accusim")
	v.SetDefault("MONGO_TIMEOUT", 10*time.Second)
	v.SetDefault("MONGO_MAX_POOL_SIZE", 20)
	v.SetDefault("MONGO_MIN_POOL_SIZE", 2)
	v.SetDefault("MONGO_MAX_CONN_IDLE_TIME", 30*time.Minute)

	// Extraction service defaults
	v.SetDefault("GEMINI_BASE_URL", "")
	v.SetDefault("GEMINI_TEXT_MODEL", "gemini-2.5-flash")
	v.SetDefault("GEMINI_VISION_MODEL", "gemini-3-pro-preview")
	v.SetDefault("GEMINI_TIMEOUT", 60*time.Second)

	// Logging defaults - 'info' provides good balance of information vs noise
	v.SetDefault("LOG_LEVEL", "info")

	// Application defaults - development-friendly baseline configuration
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_NAME", "accusim-bookkeeping")

	// Sync pool defaults - one posting touches at most a handful of rows
	v.SetDefault("SYNC_POOL_SIZE", 4)
}
