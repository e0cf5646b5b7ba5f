package config

import (
	"fmt"
	"time"
)

type Config struct {
	LibraryDir        string        `yaml:"library_dir"`
	MediaIndex        string        `yaml:"media_index"`
	TempDir           string        `yaml:"temp_dir"`
	Authorization     string        `yaml:"authorization"`
	TargetSize        int           `yaml:"target_size"`
	DeviceScale       float64       `yaml:"device_scale"`
	JPEGQuality       int           `yaml:"jpeg_quality"`
	MaxConcurrency    int           `yaml:"max_concurrency"`
	StrictEnumeration bool          `yaml:"strict_enumeration"`
	HTTPTimeout       time.Duration `yaml:"http_timeout"`
	HTTPAddr          string        `yaml:"http_addr"`
	LogLevel          string        `yaml:"log_level"`
	LogFormat         string        `yaml:"log_format"`
	S3                S3Config      `yaml:"s3"`
}

// S3Config configures the client used for cloud-only originals (s3:// URIs).
type S3Config struct {
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

func (c *Config) Validate() error {
	if c.TargetSize <= 0 {
		return fmt.Errorf("target_size must be positive, got %d", c.TargetSize)
	}
	if c.DeviceScale <= 0 {
		return fmt.Errorf("device_scale must be positive, got %v", c.DeviceScale)
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("jpeg_quality must be within 1..100, got %d", c.JPEGQuality)
	}
	if c.MaxConcurrency < 0 {
		return fmt.Errorf("max_concurrency must not be negative, got %d", c.MaxConcurrency)
	}
	if c.LibraryDir == "" && c.MediaIndex == "" {
		return fmt.Errorf("either library_dir or media_index is required")
	}
	return nil
}

// PixelSize is the edge of the square every asset is rendered to.
func (c *Config) PixelSize() int {
	return int(float64(c.TargetSize)*c.DeviceScale + 0.5)
}
