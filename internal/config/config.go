package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	KibanaURL   string        // SOSCOPE_KIBANA_URL (required)
	APIKey      string        // SOSCOPE_API_KEY (optional, empty = unauthenticated)
	Space       string        // SOSCOPE_SPACE (optional, empty = default space)
	HTTPTimeout time.Duration // SOSCOPE_HTTP_TIMEOUT (default 30s)
	NATSURL     string        // SOSCOPE_NATS_URL (optional, empty = no events)
	DatabaseURL string        // SOSCOPE_DATABASE_URL (optional, empty = no scan history)

	// Export settings
	ExportS3Bucket   string // SOSCOPE_EXPORT_S3_BUCKET (enables S3 export when set)
	ExportS3Endpoint string // SOSCOPE_EXPORT_S3_ENDPOINT (custom endpoint for MinIO)
	ExportS3Region   string // SOSCOPE_EXPORT_S3_REGION (default "us-east-1")
	ExportS3Prefix   string // SOSCOPE_EXPORT_S3_PREFIX (default "soscope/scans")
}

func Load() (*Config, error) {
	c := &Config{
		KibanaURL:        os.Getenv("SOSCOPE_KIBANA_URL"),
		APIKey:           os.Getenv("SOSCOPE_API_KEY"),
		Space:            os.Getenv("SOSCOPE_SPACE"),
		NATSURL:          os.Getenv("SOSCOPE_NATS_URL"),
		DatabaseURL:      os.Getenv("SOSCOPE_DATABASE_URL"),
		ExportS3Bucket:   os.Getenv("SOSCOPE_EXPORT_S3_BUCKET"),
		ExportS3Endpoint: os.Getenv("SOSCOPE_EXPORT_S3_ENDPOINT"),
		ExportS3Region:   envOrDefault("SOSCOPE_EXPORT_S3_REGION", "us-east-1"),
		ExportS3Prefix:   envOrDefault("SOSCOPE_EXPORT_S3_PREFIX", "soscope/scans"),
	}
	if c.KibanaURL == "" {
		return nil, fmt.Errorf("SOSCOPE_KIBANA_URL is required")
	}

	timeoutStr := envOrDefault("SOSCOPE_HTTP_TIMEOUT", "30s")
	d, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("SOSCOPE_HTTP_TIMEOUT: %w", err)
	}
	c.HTTPTimeout = d

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
