// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverBadger   = "badger"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverDynamoDB = "dynamodb"
)

// Config holds the application configuration.
type Config struct {
	App      AppConfig
	Logger   LoggerConfig
	Server   ServerConfig
	Store    StoreConfig
	Search   SearchConfig
	Messages MessagesConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Name          string
	Port          string        // Server port (default: 5000)
	ReadTimeout   time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout  time.Duration // HTTP write timeout (default: 15s)
	IdleTimeout   time.Duration // HTTP idle timeout (default: 60s)
	CORSOrigins   []string
	AdvertiseMDNS bool // Advertise via mDNS (default: false)
}

// StoreConfig selects and locates the document store.
type StoreConfig struct {
	Driver   string
	DataPath string // Directory for the embedded stores and the search index

	// DatabaseURL is a Postgres DSN, or a file path for sqlite
	// (default: {DataPath}/filmarkiv.db).
	DatabaseURL string

	DynamoDBTable    string
	DynamoDBEndpoint string // Optional, for DynamoDB Local
}

// SearchConfig holds full-text search configuration.
type SearchConfig struct {
	Enabled bool
	Path    string // {DataPath}/search
}

// MessagesConfig holds contact message configuration.
type MessagesConfig struct {
	// RateLimit is messages per minute per client; 0 disables the limit.
	RateLimit int
}

// BadgerPath returns the directory of the badger store.
func (c *Config) BadgerPath() string {
	return filepath.Join(c.Store.DataPath, "badger")
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Server.Port
}

// LoadConfig loads configuration from the process arguments.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("filmarkiv", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, test, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	serverPort := fs.String("port", "", "Server port (default: 5000)")
	dataPath := fs.String("data-path", "", "Directory for embedded stores and the search index")
	storeDriver := fs.String("store", "", "Store driver: badger, sqlite, postgres, dynamodb")
	databaseURL := fs.String("database-url", "", "Postgres DSN or sqlite file path")
	dynamoTable := fs.String("dynamodb-table", "", "DynamoDB table name (default: filmarkiv)")
	corsOrigins := fs.String("cors-origins", "", "Comma-separated allowed origins")
	searchEnabled := fs.String("search", "", "Enable full-text search (default: true)")
	advertiseMDNS := fs.String("advertise-mdns", "", "Advertise via mDNS (default: false)")
	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", getConfigValue("", "NODE_ENV", "development")),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Name:          getConfigValue("", "SERVER_NAME", "Filmarkiv"),
			Port:          getConfigValue(*serverPort, "PORT", "5000"),
			CORSOrigins:   splitList(getConfigValue(*corsOrigins, "CORS_ORIGINS", "http://127.0.0.1:8080,http://localhost:8080")),
			AdvertiseMDNS: getBoolConfigValue(*advertiseMDNS, "ADVERTISE_MDNS", false),
		},
		Store: StoreConfig{
			Driver:           strings.ToLower(getConfigValue(*storeDriver, "STORE_DRIVER", DriverBadger)),
			DataPath:         getConfigValue(*dataPath, "DATA_PATH", ""),
			DatabaseURL:      getConfigValue(*databaseURL, "DATABASE_URL", getConfigValue("", "MONGO_URI", "")),
			DynamoDBTable:    getConfigValue(*dynamoTable, "DYNAMODB_TABLE", "filmarkiv"),
			DynamoDBEndpoint: getConfigValue("", "DYNAMODB_ENDPOINT", ""),
		},
		Search: SearchConfig{
			Enabled: getBoolConfigValue(*searchEnabled, "SEARCH_ENABLED", true),
		},
	}

	rateLimit, err := getIntConfigValue("", "MESSAGE_RATE_LIMIT", 0)
	if err != nil {
		return nil, err
	}
	cfg.Messages.RateLimit = rateLimit

	// Parse server timeouts.
	timeouts := []struct {
		key, def string
		dst      *time.Duration
	}{
		{"SERVER_READ_TIMEOUT", "15s", &cfg.Server.ReadTimeout},
		{"SERVER_WRITE_TIMEOUT", "15s", &cfg.Server.WriteTimeout},
		{"SERVER_IDLE_TIMEOUT", "60s", &cfg.Server.IdleTimeout},
	}
	for _, t := range timeouts {
		raw := getConfigValue("", t.key, t.def)
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", t.key, raw, err)
		}
		*t.dst = d
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := []string{"development", "test", "staging", "production"}
	if !slices.Contains(validEnvs, c.App.Environment) {
		return fmt.Errorf("invalid environment: %s (must be development, test, staging, or production)", c.App.Environment)
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLevels, strings.ToLower(c.Logger.Level)) {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if port, err := strconv.Atoi(c.Server.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid port: %s", c.Server.Port)
	}

	if c.Store.DataPath == "" {
		return errors.New("data path cannot be empty after expansion")
	}

	switch c.Store.Driver {
	case DriverBadger, DriverSQLite:
	case DriverPostgres:
		if c.Store.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres store")
		}
	case DriverDynamoDB:
		if c.Store.DynamoDBTable == "" {
			return errors.New("DYNAMODB_TABLE is required for the dynamodb store")
		}
	default:
		return fmt.Errorf("invalid store driver: %s (must be badger, sqlite, postgres, or dynamodb)", c.Store.Driver)
	}

	if c.Messages.RateLimit < 0 {
		return fmt.Errorf("invalid message rate limit: %d", c.Messages.RateLimit)
	}

	return nil
}

// expandPaths resolves the data directory and the paths derived from it.
func (c *Config) expandPaths() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	dataPath, err := expandPath(c.Store.DataPath, filepath.Join(homeDir, ".filmarkiv"))
	if err != nil {
		return err
	}
	c.Store.DataPath = dataPath
	c.Search.Path = filepath.Join(dataPath, "search")

	if c.Store.Driver == DriverSQLite {
		dbPath, err := expandPath(c.Store.DatabaseURL, filepath.Join(dataPath, "filmarkiv.db"))
		if err != nil {
			return err
		}
		c.Store.DatabaseURL = dbPath
	}

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}

	if envKey != "" {
		if envValue := os.Getenv(envKey); envValue != "" {
			return envValue
		}
	}

	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) (int, error) {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(strValue))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envKey, strValue, err)
	}
	return n, nil
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key = strings.TrimSpace(strings.TrimPrefix(key, "export "))
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		// Env vars already set take precedence over the file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
