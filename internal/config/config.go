package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Visualization output settings.
	ShareLink   string
	GIFFPS      int
	QRSize      int
	MaxUploadMB int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	fps, err := parsePositiveInt("GIF_FPS", 10)
	if err != nil {
		return nil, err
	}

	qrSize, err := parsePositiveInt("QR_SIZE", 200)
	if err != nil {
		return nil, err
	}

	maxUploadMB, err := parsePositiveInt("MAX_UPLOAD_MB", 16)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		ShareLink:   envOrDefault("SHARE_LINK", "https://movimento-solar.streamlit.app"),
		GIFFPS:      fps,
		QRSize:      qrSize,
		MaxUploadMB: maxUploadMB,
	}

	if cfg.GIFFPS > 100 {
		return nil, errors.New("GIF_FPS must be at most 100 (gif delays count in 100ths of a second)")
	}
	if cfg.QRSize < 64 {
		return nil, errors.New("QR_SIZE must be at least 64")
	}

	return cfg, nil
}

// MaxUploadBytes returns the multipart upload cap in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// envOrDefault returns the environment value for key, or def when unset.
func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}
