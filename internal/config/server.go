// Package config provides configuration management for Cereal.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cerealdev/cereal/internal/storage"
	"gopkg.in/yaml.v3"
)

// Environment represents the deployment environment.
type Environment string

const (
	// EnvDevelopment is the default local development environment.
	EnvDevelopment Environment = "development"
	// EnvStaging is the staging/pre-production environment.
	EnvStaging Environment = "staging"
	// EnvProduction is the production environment.
	EnvProduction Environment = "production"
)

// Storage backend selectors.
const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

// ServerConfig holds server-level configuration loaded from environment variables.
type ServerConfig struct {
	Environment    Environment
	ListenAddr     string // address the HTTP server binds (default: :3000)
	BaseURL        string // external base URL used in download links
	DatabaseURL    string // Postgres connection string (required)
	StorageBackend string // "local" or "s3" (default: local)
	UploadsDir     string // root directory for the local backend (default: ./uploads)
	StorageConfig  string // path to the s3 backend YAML config file
	MaxUploadBytes int64  // multipart upload cap in bytes (default: 512 MiB)
	EnableDocs     bool   // serve swagger UI at /api/docs (default: true)
	CORSOrigins    []string
	LogLevel       string // zerolog level name (default: info)
}

// LoadServerConfig reads server configuration from environment variables.
func LoadServerConfig() (ServerConfig, error) {
	env := Environment(os.Getenv("ENV"))
	switch env {
	case EnvDevelopment, EnvStaging, EnvProduction:
		// valid
	default:
		env = EnvDevelopment
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return ServerConfig{}, fmt.Errorf("DATABASE_URL is required")
	}

	listenAddr := os.Getenv("LISTEN_ADDR")
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%d", getEnvInt("PORT", 3000))
	}

	baseURL := strings.TrimRight(os.Getenv("BASE_URL"), "/")
	if baseURL == "" {
		baseURL = "http://localhost" + listenAddr
	}

	backend := strings.ToLower(os.Getenv("STORAGE_BACKEND"))
	switch backend {
	case "", StorageLocal:
		backend = StorageLocal
	case StorageS3:
		if os.Getenv("STORAGE_CONFIG_FILE") == "" {
			return ServerConfig{}, fmt.Errorf("STORAGE_CONFIG_FILE is required for the s3 backend")
		}
	default:
		return ServerConfig{}, fmt.Errorf("unknown STORAGE_BACKEND %q", backend)
	}

	uploadsDir := os.Getenv("UPLOADS_DIR")
	if uploadsDir == "" {
		uploadsDir = "./uploads"
	}

	maxUpload := int64(getEnvInt("MAX_UPLOAD_MB", 512)) << 20
	if maxUpload <= 0 {
		maxUpload = 512 << 20
	}

	var origins []string
	for _, origin := range strings.Split(os.Getenv("CORS_ORIGINS"), ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	return ServerConfig{
		Environment:    env,
		ListenAddr:     listenAddr,
		BaseURL:        baseURL,
		DatabaseURL:    databaseURL,
		StorageBackend: backend,
		UploadsDir:     uploadsDir,
		StorageConfig:  os.Getenv("STORAGE_CONFIG_FILE"),
		MaxUploadBytes: maxUpload,
		EnableDocs:     getEnvBool("ENABLE_DOCS", true),
		CORSOrigins:    origins,
		LogLevel:       logLevel,
	}, nil
}

// LoadS3Config parses the S3 backend configuration from a YAML file.
func LoadS3Config(path string) (storage.S3Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return storage.S3Config{}, fmt.Errorf("read storage config: %w", err)
	}
	var cfg storage.S3Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return storage.S3Config{}, fmt.Errorf("parse storage config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return storage.S3Config{}, err
	}
	return cfg, nil
}

// getEnvBool reads a boolean from an environment variable, returning the default if unset or invalid.
func getEnvBool(key string, defaultVal bool) bool {
	val := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch val {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultVal
	}
}

// getEnvInt reads an integer from an environment variable, returning the default if unset or invalid.
func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
