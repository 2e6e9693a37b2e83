package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type FedEx struct {
	Key           string        `yaml:"key"`
	Password      string        `yaml:"password"`
	AccountNumber string        `yaml:"account_number"`
	MeterNumber   string        `yaml:"meter_number"`
	Mode          string        `yaml:"mode"`
	URL           string        `yaml:"url"`
	Timeout       time.Duration `yaml:"timeout"`
	Debug         bool          `yaml:"debug"`
}

type Config struct {
	DatabaseURL  string   `yaml:"database_url"`
	Port         string   `yaml:"port"`
	RateProvider string   `yaml:"rate_provider"`
	LogLevel     string   `yaml:"log_level"`
	FedEx        FedEx    `yaml:"fedex"`
	Holidays     []string `yaml:"holidays"`
}

// Load reads the YAML file named by CONFIG_FILE, if any, then applies
// environment overrides and defaults.
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	var cfg Config
	if path := getenv("CONFIG_FILE"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrap(err, "read config file")
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, errors.Wrapf(err, "parse config file %s", path)
		}
	}

	override(&cfg.DatabaseURL, getenv("DATABASE_URL"))
	override(&cfg.Port, getenv("PORT"))
	override(&cfg.RateProvider, getenv("RATE_PROVIDER"))
	override(&cfg.LogLevel, getenv("LOG_LEVEL"))
	override(&cfg.FedEx.Key, getenv("FEDEX_KEY"))
	override(&cfg.FedEx.Password, getenv("FEDEX_PASSWORD"))
	override(&cfg.FedEx.AccountNumber, getenv("FEDEX_ACCOUNT_NUMBER"))
	override(&cfg.FedEx.MeterNumber, getenv("FEDEX_METER_NUMBER"))
	override(&cfg.FedEx.Mode, getenv("FEDEX_MODE"))
	override(&cfg.FedEx.URL, getenv("FEDEX_URL"))
	if v := strings.TrimSpace(getenv("FEDEX_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, errors.Wrap(err, "FEDEX_TIMEOUT")
		}
		cfg.FedEx.Timeout = d
	}
	if v := strings.TrimSpace(getenv("FEDEX_DEBUG")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, errors.Wrap(err, "FEDEX_DEBUG")
		}
		cfg.FedEx.Debug = b
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.RateProvider == "" {
		cfg.RateProvider = "dummy"
	}
	if cfg.FedEx.Mode == "" {
		cfg.FedEx.Mode = "test"
	}
	if cfg.FedEx.Timeout == 0 {
		cfg.FedEx.Timeout = 20 * time.Second
	}
	return cfg, nil
}

func override(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}
