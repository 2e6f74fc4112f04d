package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Game struct {
		QuestionCount   int `yaml:"questionCount"`
		PointsPerAnswer int `yaml:"pointsPerAnswer"`
	} `yaml:"game"`
	Countdown struct {
		Start    int    `yaml:"start"`
		Interval string `yaml:"interval"`
	} `yaml:"countdown"`
	Stream struct {
		Interval string `yaml:"interval"`
	} `yaml:"stream"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Duration parses a duration string or returns the fallback if empty or invalid.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// IntOr returns v unless it is zero or negative, in which case fallback.
func IntOr(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}
