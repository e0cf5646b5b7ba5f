package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"photomanager/internal/logger"
)

func Default() *Config {
	return &Config{
		TempDir:     os.TempDir(),
		TargetSize:  200,
		DeviceScale: 2.0,
		JPEGQuality: 80,
		HTTPTimeout: 30 * time.Second,
		HTTPAddr:    ":8080",
		LogLevel:    "info",
		LogFormat:   "json",
	}
}

// Load reads the optional YAML file named by PHOTOMANAGER_CONFIG and then
// applies environment overrides on top of it.
func Load(log logger.Logger) (*Config, error) {
	cfg := Default()

	if path := os.Getenv("PHOTOMANAGER_CONFIG"); path != "" {
		if err := LoadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	cfg.LibraryDir = getEnv(log, "LIBRARY_DIR", cfg.LibraryDir, parseString)
	cfg.MediaIndex = getEnv(log, "MEDIA_INDEX", cfg.MediaIndex, parseString)
	cfg.TempDir = getEnv(log, "TEMP_DIR", cfg.TempDir, parseString)
	cfg.Authorization = getEnv(log, "AUTHORIZATION", cfg.Authorization, parseString)

	cfg.TargetSize = getEnv(log, "TARGET_SIZE", cfg.TargetSize, strconv.Atoi)
	cfg.DeviceScale = getEnv(log, "DEVICE_SCALE", cfg.DeviceScale, parseFloat)
	cfg.JPEGQuality = getEnv(log, "JPEG_QUALITY", cfg.JPEGQuality, strconv.Atoi)
	cfg.MaxConcurrency = getEnv(log, "MAX_CONCURRENCY", cfg.MaxConcurrency, strconv.Atoi)
	cfg.StrictEnumeration = getEnv(log, "STRICT_ENUMERATION", cfg.StrictEnumeration, strconv.ParseBool)

	cfg.HTTPTimeout = getEnv(log, "HTTP_TIMEOUT", cfg.HTTPTimeout, time.ParseDuration)
	cfg.HTTPAddr = getEnv(log, "HTTP_ADDR", cfg.HTTPAddr, parseString)
	cfg.LogLevel = getEnv(log, "LOG_LEVEL", cfg.LogLevel, parseString)
	cfg.LogFormat = getEnv(log, "LOG_FORMAT", cfg.LogFormat, parseString)

	cfg.S3.Region = getEnv(log, "S3_REGION", cfg.S3.Region, parseString)
	cfg.S3.Endpoint = getEnv(log, "S3_ENDPOINT", cfg.S3.Endpoint, parseString)
	cfg.S3.AccessKey = getEnv(log, "S3_ACCESS_KEY", cfg.S3.AccessKey, parseString)
	cfg.S3.SecretKey = getEnv(log, "S3_SECRET_KEY", cfg.S3.SecretKey, parseString)

	return cfg, nil
}

func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func getEnv[T any](log logger.Logger, key string, defaultValue T, parser func(string) (T, error)) T {
	val := os.Getenv("PHOTOMANAGER_" + key)
	if val == "" {
		return defaultValue
	}

	parsed, err := parser(val)
	if err != nil {
		log.Warn("invalid environment value, using default",
			zap.String("key", key),
			zap.String("value", val),
			zap.Any("default", defaultValue),
		)
		return defaultValue
	}

	return parsed
}

func parseString(val string) (string, error) {
	return val, nil
}

func parseFloat(val string) (float64, error) {
	return strconv.ParseFloat(val, 64)
}
