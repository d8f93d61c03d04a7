package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, content string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	t.Setenv("CONFIG_PATH", path)
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"CONFIG_PATH", "LISTEN_ADDR", "API_KEY", "AI_MODEL",
		"EXTERNAL_HTTP_TIMEOUT_SECONDS", "ERP_SYNC_DELAY_MS", "DEFAULT_REPORTER", "SEED_DEMO_DATA"} {
		t.Setenv(key, "")
	}
	// Point CONFIG_PATH at an empty dir so a developer's local config.yaml
	// cannot leak into the test.
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg := LoadConfig()
	if cfg.ListenAddr != ":8080" {
		t.Fatalf("ListenAddr = %q, want :8080", cfg.ListenAddr)
	}
	if cfg.ERPSyncDelayMillis != 1200 {
		t.Fatalf("ERPSyncDelayMillis = %d, want 1200", cfg.ERPSyncDelayMillis)
	}
	if cfg.DefaultReporter != "Admin Web" {
		t.Fatalf("DefaultReporter = %q", cfg.DefaultReporter)
	}
	if cfg.APIKey != "" {
		t.Fatalf("APIKey should default to empty, got %q", cfg.APIKey)
	}
	if cfg.SeedDemoData {
		t.Fatal("SeedDemoData should default to false")
	}
}

func TestLoadConfigFromYAML(t *testing.T) {
	clearEnv(t)
	writeConfigFile(t, `
listen_addr: ":9090"
api_key: "yaml-key"
ai_model: "claude-sonnet-4-5-20250929"
erp_sync_delay_ms: 50
seed_demo_data: true
`)

	cfg := LoadConfig()
	if cfg.ListenAddr != ":9090" {
		t.Fatalf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.APIKey != "yaml-key" {
		t.Fatalf("APIKey = %q", cfg.APIKey)
	}
	if cfg.ERPSyncDelayMillis != 50 {
		t.Fatalf("ERPSyncDelayMillis = %d", cfg.ERPSyncDelayMillis)
	}
	if !cfg.SeedDemoData {
		t.Fatal("SeedDemoData should be true")
	}
}

func TestEnvOverridesYAML(t *testing.T) {
	clearEnv(t)
	writeConfigFile(t, `api_key: "yaml-key"`)
	t.Setenv("API_KEY", "env-key")
	t.Setenv("EXTERNAL_HTTP_TIMEOUT_SECONDS", "45")

	cfg := LoadConfig()
	if cfg.APIKey != "env-key" {
		t.Fatalf("env must override yaml, APIKey = %q", cfg.APIKey)
	}
	if cfg.ExternalHTTPTimeoutSeconds != 45 {
		t.Fatalf("ExternalHTTPTimeoutSeconds = %d", cfg.ExternalHTTPTimeoutSeconds)
	}
}
