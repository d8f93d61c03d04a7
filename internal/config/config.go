package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ListenAddr string `yaml:"listen_addr"`

	APIKey  string `yaml:"api_key"`
	AIModel string `yaml:"ai_model"`

	ExternalHTTPTimeoutSeconds int `yaml:"external_http_timeout_seconds"`
	ERPSyncDelayMillis         int `yaml:"erp_sync_delay_ms"`

	DefaultReporter string `yaml:"default_reporter"`
	SeedDemoData    bool   `yaml:"seed_demo_data"`
}

func LoadConfig() Config {
	var cfg Config

	// Load from config.yaml if it exists
	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	}

	// Env vars override YAML values
	envOverride(&cfg.ListenAddr, "LISTEN_ADDR")
	envOverride(&cfg.APIKey, "API_KEY")
	envOverride(&cfg.AIModel, "AI_MODEL")
	envOverrideInt(&cfg.ExternalHTTPTimeoutSeconds, "EXTERNAL_HTTP_TIMEOUT_SECONDS")
	envOverrideInt(&cfg.ERPSyncDelayMillis, "ERP_SYNC_DELAY_MS")
	envOverride(&cfg.DefaultReporter, "DEFAULT_REPORTER")
	envOverrideBool(&cfg.SeedDemoData, "SEED_DEMO_DATA")

	// Defaults
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.ERPSyncDelayMillis == 0 {
		cfg.ERPSyncDelayMillis = 1200
	}
	if cfg.DefaultReporter == "" {
		cfg.DefaultReporter = "Admin Web"
	}

	// A missing key is not fatal: AI calls fail and classification falls
	// back to the fixed analysis.
	if cfg.APIKey == "" {
		log.Printf("API_KEY is not set; AI analysis will use the manual-review fallback")
	}

	if cfg.ExternalHTTPTimeoutSeconds < 0 {
		log.Fatalf("invalid external_http_timeout_seconds '%d': must be >= 0", cfg.ExternalHTTPTimeoutSeconds)
	}
	if cfg.ERPSyncDelayMillis < 0 {
		log.Fatalf("invalid erp_sync_delay_ms '%d': must be >= 0", cfg.ERPSyncDelayMillis)
	}

	return cfg
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}

func envOverrideBool(field *bool, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.ParseBool(val)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}
