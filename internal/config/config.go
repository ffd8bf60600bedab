package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port        string
	Environment string
	BaseURL     string

	// Local storage
	DataDir      string
	MetadataPath string

	// Database (optional, replaces the JSON metadata file)
	DatabaseURL string

	// Supabase Storage (optional, replaces local file storage)
	SupabaseURL           string
	SupabaseServiceKey    string
	SupabaseStorageBucket string

	// Auth (optional bearer JWT on mutating routes)
	AuthJWTSecret string

	CORSAllowedOrigins []string

	// Limits and rendering
	MaxUploadBytes      int64
	PreviewMaxDimension int
	PreviewJPEGQuality  int

	XMPToolkit string
}

func Load() (*Config, error) {
	if err := loadEnvFiles(".env", ".env.local"); err != nil {
		return nil, err
	}

	dataDir := getEnv("DATA_DIR", "data")
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		BaseURL:     strings.TrimSuffix(getEnv("BASE_URL", "http://localhost:8080"), "/"),

		DataDir:      dataDir,
		MetadataPath: getEnv("METADATA_PATH", filepath.Join(dataDir, "metadata.json")),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		SupabaseURL:           getEnv("SUPABASE_URL", ""),
		SupabaseServiceKey:    getEnv("SUPABASE_SERVICE_KEY", ""),
		SupabaseStorageBucket: getEnv("SUPABASE_STORAGE_BUCKET", "style-presets"),

		AuthJWTSecret: getEnv("AUTH_JWT_SECRET", ""),

		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),

		XMPToolkit: getEnv("XMP_TOOLKIT", ""),
	}

	var err error
	if cfg.MaxUploadBytes, err = getEnvInt64("MAX_UPLOAD_BYTES", 32<<20); err != nil {
		return nil, err
	}
	if cfg.PreviewMaxDimension, err = getEnvInt("PREVIEW_MAX_DIMENSION", 2048); err != nil {
		return nil, err
	}
	if cfg.PreviewJPEGQuality, err = getEnvInt("PREVIEW_JPEG_QUALITY", 95); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// loadEnvFiles applies env files in order, later files overriding earlier
// ones. Variables already set in the process environment always win and
// missing files are skipped.
func loadEnvFiles(filenames ...string) error {
	merged := map[string]string{}
	for _, name := range filenames {
		vars, err := godotenv.Read(name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", name, err)
		}
		for k, v := range vars {
			merged[k] = v
		}
	}
	for k, v := range merged {
		if _, ok := os.LookupEnv(k); ok {
			continue
		}
		if err := os.Setenv(k, v); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.DataDir == "" {
		return fmt.Errorf("DATA_DIR is required")
	}
	if (c.SupabaseURL == "") != (c.SupabaseServiceKey == "") {
		return fmt.Errorf("SUPABASE_URL and SUPABASE_SERVICE_KEY must be set together")
	}
	if c.SupabaseURL != "" && c.SupabaseStorageBucket == "" {
		return fmt.Errorf("SUPABASE_STORAGE_BUCKET is required when SUPABASE_URL is set")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	if c.PreviewMaxDimension <= 0 {
		return fmt.Errorf("PREVIEW_MAX_DIMENSION must be positive")
	}
	if c.PreviewJPEGQuality < 1 || c.PreviewJPEGQuality > 100 {
		return fmt.Errorf("PREVIEW_JPEG_QUALITY must be between 1 and 100")
	}
	return nil
}

// UseSupabaseStorage reports whether files go to Supabase Storage.
func (c *Config) UseSupabaseStorage() bool {
	return c.SupabaseURL != ""
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return v, nil
}

func getEnvInt64(key string, defaultValue int64) (int64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return v, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
