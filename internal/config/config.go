package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret"`
		// Token lifetime in hours.
		TTL int `yaml:"ttl"`
	} `yaml:"jwt"`

	Storage struct {
		Type      string `yaml:"type"`       // local, s3
		BasePath  string `yaml:"base_path"`  // for local storage
		BaseURL   string `yaml:"base_url"`   // public URL base
		Bucket    string `yaml:"bucket"`     // for S3-compatible storage
		Region    string `yaml:"region"`     // for S3
		AccessKey string `yaml:"access_key"` // for S3-compatible storage
		SecretKey string `yaml:"secret_key"` // for S3-compatible storage
		Endpoint  string `yaml:"endpoint"`   // for R2 or custom S3
	} `yaml:"storage"`

	Upload struct {
		// Max upload size in bytes.
		MaxSize int64 `yaml:"max_size"`
	} `yaml:"upload"`
}

// Load reads configuration from config.yaml, or entirely from environment
// variables when DATABASE_URL is set (the mode the test suite uses).
func Load() (*Config, error) {
	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file at %s: %w", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file at %s: %w", configPath, err)
		}

		applyDefaults(&cfg)
		return &cfg, nil
	}

	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.JWT.TTL = 24

	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = os.Getenv("STORAGE_BASE_PATH")
	if cfg.Storage.BasePath == "" {
		cfg.Storage.BasePath = "./uploads"
	}
	cfg.Storage.BaseURL = "/api/v1/files"

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.JWT.TTL == 0 {
		cfg.JWT.TTL = 24
	}
	if cfg.Upload.MaxSize == 0 {
		cfg.Upload.MaxSize = 10 * 1024 * 1024 // 10MB
	}
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = "local"
	}
}
