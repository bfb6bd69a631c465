package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/stockinsight/insight"
)

// Config represents the complete application configuration
type Config struct {
	Data    DataConfig    `json:"data" yaml:"data"`
	Insight InsightConfig `json:"insight" yaml:"insight"`
	Server  ServerConfig  `json:"server" yaml:"server"`
	Cache   CacheConfig   `json:"cache" yaml:"cache"`
	Log     LogConfig     `json:"log" yaml:"log"`
}

// DataConfig names the price table to load
type DataConfig struct {
	// Source is a file path, "-", an http(s) URL or s3://bucket/key.
	Source string `json:"source" yaml:"source"`
}

// InsightConfig holds selector bounds and defaults
type InsightConfig struct {
	MinYear     int    `json:"min_year" yaml:"min_year"`
	MaxYear     int    `json:"max_year" yaml:"max_year"`
	DefaultYear int    `json:"default_year" yaml:"default_year"`
	DefaultKind string `json:"default_kind" yaml:"default_kind"`
	TopN        int    `json:"top_n" yaml:"top_n"`
}

// ServerConfig contains HTTP listener parameters
type ServerConfig struct {
	Addr           string   `json:"addr" yaml:"addr"`
	ReadTimeout    string   `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout   string   `json:"write_timeout" yaml:"write_timeout"`
	AllowedOrigins []string `json:"allowed_origins,omitempty" yaml:"allowed_origins,omitempty"`
}

// CacheConfig enables the SQLite result cache when DBPath is set
type CacheConfig struct {
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LogConfig contains logging parameters
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Pretty bool   `json:"pretty" yaml:"pretty"`
}

// Timeouts parses the server timeouts.
func (s ServerConfig) Timeouts() (read, write time.Duration, err error) {
	if read, err = time.ParseDuration(s.ReadTimeout); err != nil {
		return 0, 0, fmt.Errorf("server.read_timeout: %w", err)
	}
	if write, err = time.ParseDuration(s.WriteTimeout); err != nil {
		return 0, 0, fmt.Errorf("server.write_timeout: %w", err)
	}
	return read, write, nil
}

// Load reads path if it is non-empty, then applies .env and INSIGHT_*
// environment overrides, then validates. Missing fields keep Default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}

	// A missing .env is fine.
	_ = godotenv.Load()
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a file (JSON or YAML) without
// consulting the environment.
func LoadFromFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.readFile(path); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, c); err != nil {
		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from INSIGHT_* variables looked up with getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("INSIGHT_DATA"); v != "" {
		c.Data.Source = v
	}
	if v := getenv("INSIGHT_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := getenv("INSIGHT_CACHE_DB"); v != "" {
		c.Cache.DBPath = v
	}
	if v := getenv("INSIGHT_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("INSIGHT_LOG_PRETTY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("INSIGHT_LOG_PRETTY: %w", err)
		}
		c.Log.Pretty = b
	}
	if v := getenv("INSIGHT_ALLOWED_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = strings.Split(v, ",")
	}
	if v := getenv("INSIGHT_TOP_N"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("INSIGHT_TOP_N: %w", err)
		}
		c.Insight.TopN = n
	}
	return nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Insight.MinYear <= 0 || c.Insight.MaxYear <= 0 {
		return fmt.Errorf("insight.min_year and insight.max_year must be positive")
	}
	if c.Insight.MinYear > c.Insight.MaxYear {
		return fmt.Errorf("insight.min_year must not exceed insight.max_year")
	}
	if c.Insight.DefaultYear < c.Insight.MinYear || c.Insight.DefaultYear > c.Insight.MaxYear {
		return fmt.Errorf("insight.default_year must be within [min_year, max_year]")
	}
	if _, err := insight.ParseKind(c.Insight.DefaultKind); err != nil {
		return fmt.Errorf("insight.default_kind: %w", err)
	}
	if c.Insight.TopN <= 0 {
		return fmt.Errorf("insight.top_n must be positive")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if _, _, err := c.Server.Timeouts(); err != nil {
		return err
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Data: DataConfig{
			Source: "SBIN_New_Data.csv",
		},
		Insight: InsightConfig{
			MinYear:     insight.MinYear,
			MaxYear:     insight.MaxYear,
			DefaultYear: insight.DefaultYear,
			DefaultKind: insight.DailyRange.String(),
			TopN:        insight.DefaultTopN,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  "15s",
			WriteTimeout: "15s",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
