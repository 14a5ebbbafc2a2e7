package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	BackendSupabase = "supabase"
	BackendFirebase = "firebase"
)

type Config struct {
	// Store backend
	StoreBackend string

	// Supabase
	SupabaseURL           string
	SupabaseServiceKey    string
	SupabaseJWTSecret     string
	SupabaseStorageBucket string
	SupabaseAccountsTable string

	// Database
	DatabaseURL string

	// Firebase
	GCPProjectID             string
	GCSBucket                string
	FirestoreUsersCollection string
	FirestoreDietsCollection string
	FirestoreFilesCollection string

	// Server
	Port        string
	Environment string
	BaseURL     string
	MaxUploadMB int
	AdminRole   string

	// Logging
	LogLevel string
	LogFile  string
}

// Load reads the server configuration and validates it, including the JWT secret.
func Load() (*Config, error) {
	cfg := fromEnv()
	if err := cfg.ValidateServer(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadForCLI reads the configuration without requiring server-only settings.
func LoadForCLI() (*Config, error) {
	cfg := fromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func fromEnv() *Config {
	return &Config{
		StoreBackend: getEnv("STORE_BACKEND", BackendSupabase),

		SupabaseURL:           getEnv("SUPABASE_URL", ""),
		SupabaseServiceKey:    getEnv("SUPABASE_SERVICE_KEY", ""),
		SupabaseJWTSecret:     getEnv("SUPABASE_JWT_SECRET", ""),
		SupabaseStorageBucket: getEnv("SUPABASE_STORAGE_BUCKET", "diet-files"),
		SupabaseAccountsTable: getEnv("SUPABASE_ACCOUNTS_TABLE", "profiles"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		GCPProjectID:             getEnv("GCP_PROJECT_ID", ""),
		GCSBucket:                getEnv("GCS_BUCKET", ""),
		FirestoreUsersCollection: getEnv("FIRESTORE_USERS_COLLECTION", "users"),
		FirestoreDietsCollection: getEnv("FIRESTORE_DIETS_COLLECTION", "diets"),
		FirestoreFilesCollection: getEnv("FIRESTORE_FILES_COLLECTION", "files"),

		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),
		MaxUploadMB: getEnvInt("MAX_UPLOAD_MB", 10),
		AdminRole:   getEnv("ADMIN_ROLE", "admin"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),
	}
}

// Validate checks the settings required by the selected store backend.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendSupabase:
		if c.SupabaseURL == "" {
			return fmt.Errorf("SUPABASE_URL is required")
		}
		if c.SupabaseServiceKey == "" {
			return fmt.Errorf("SUPABASE_SERVICE_KEY is required")
		}
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required")
		}
	case BackendFirebase:
		if c.GCPProjectID == "" {
			return fmt.Errorf("GCP_PROJECT_ID is required")
		}
		if c.GCSBucket == "" {
			return fmt.Errorf("GCS_BUCKET is required")
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendSupabase, BackendFirebase, c.StoreBackend)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive")
	}
	return nil
}

func (c *Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.SupabaseJWTSecret == "" {
		return fmt.Errorf("SUPABASE_JWT_SECRET is required")
	}
	return nil
}

func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return -1
	}
	return n
}
