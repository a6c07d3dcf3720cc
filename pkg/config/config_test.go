package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func initTemp(t *testing.T) string {
	t.Helper()
	t.Setenv("NEXT_PUBLIC_API_URL", "")
	t.Setenv("WATCHPARTY_API_URL", "")
	t.Setenv("NEXT_PUBLIC_FRONTEND_API", "")
	t.Setenv("WATCHPARTY_FRONTEND_API", "")

	tempDir := t.TempDir()
	if err := Init(filepath.Join(tempDir, "config.toml")); err != nil {
		t.Fatalf("Failed to initialize config: %v", err)
	}
	return tempDir
}

// TestGetConfigDir validates config directory access
func TestGetConfigDir(t *testing.T) {
	initTemp(t)

	configDir := GetConfigDir()
	if configDir == "" {
		t.Fatal("Config directory should not be empty")
	}

	if _, err := os.Stat(configDir); err != nil {
		t.Errorf("Config directory should exist: %v", err)
	}
}

// TestCredentialsPathStructure validates credentials live under the config dir
func TestCredentialsPathStructure(t *testing.T) {
	tempDir := initTemp(t)

	credsPath := GetCredentialsPath()
	if credsPath != filepath.Join(tempDir, "credentials") {
		t.Errorf("Unexpected credentials path %s", credsPath)
	}
}

// TestInitWithCustomPath validates custom config path
func TestInitWithCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	customConfigPath := filepath.Join(tempDir, "custom", "path", "config.toml")

	if err := Init(customConfigPath); err != nil {
		t.Fatalf("Failed to initialize with custom path: %v", err)
	}

	if GetConfigDir() != filepath.Join(tempDir, "custom", "path") {
		t.Errorf("Unexpected config dir %s", GetConfigDir())
	}
	if GetConfigFilePath() != customConfigPath {
		t.Errorf("Unexpected config file %s", GetConfigFilePath())
	}
}

// TestDefaults validates the defaults every command relies on
func TestDefaults(t *testing.T) {
	initTemp(t)

	if got := GetString("api.base_url"); got != DefaultBackendURL {
		t.Errorf("Expected default base URL %s, got %s", DefaultBackendURL, got)
	}
	if got := GetString("api.frontend_url"); got != "/api" {
		t.Errorf("Expected default frontend path /api, got %s", got)
	}
	if got := GetInt("api.timeout"); got != 30 {
		t.Errorf("Expected default timeout 30, got %d", got)
	}
	if got := GetDuration("poll.interval"); got != 30*time.Second {
		t.Errorf("Expected default poll interval 30s, got %v", got)
	}
	if !GetBool("degraded.enabled") {
		t.Error("Degraded mode should be enabled by default")
	}
	if got := GetString("output.format"); got != "text" {
		t.Errorf("Expected default format 'text', got '%s'", got)
	}
	if got := GetString("log.level"); got != "info" {
		t.Errorf("Expected default log level 'info', got '%s'", got)
	}
}

// TestEnvironmentOverridesBaseURL validates NEXT_PUBLIC_API_URL is honoured
func TestEnvironmentOverridesBaseURL(t *testing.T) {
	initTemp(t)
	t.Setenv("NEXT_PUBLIC_API_URL", "http://localhost:8000/")

	if got := BackendURL(); got != "http://localhost:8000" {
		t.Errorf("Expected env base URL without trailing slash, got %s", got)
	}
}

// TestUserConfigFile validates values read from the TOML file
func TestUserConfigFile(t *testing.T) {
	t.Setenv("NEXT_PUBLIC_API_URL", "")
	t.Setenv("WATCHPARTY_API_URL", "")
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "config.toml")
	content := "[api]\nbase_url = \"https://staging.example.com\"\ntimeout = 5\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	if err := Init(path); err != nil {
		t.Fatalf("Failed to initialize: %v", err)
	}

	if got := BackendURL(); got != "https://staging.example.com" {
		t.Errorf("Expected file base URL, got %s", got)
	}
	if got := GetInt("api.timeout"); got != 5 {
		t.Errorf("Expected file timeout 5, got %d", got)
	}
}

// TestResolveFrontendURL validates proxy base resolution
func TestResolveFrontendURL(t *testing.T) {
	testCases := []struct {
		name   string
		origin string
		path   string
		want   string
	}{
		{"relative default", "http://localhost:3000", "/api", "http://localhost:3000/api"},
		{"origin trailing slash", "http://localhost:3000/", "api/", "http://localhost:3000/api"},
		{"absolute path", "http://ignored", "https://app.example.com/api/", "https://app.example.com/api"},
		{"empty values", "", "", "http://localhost:3000/api"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ResolveFrontendURL(tc.origin, tc.path); got != tc.want {
				t.Errorf("ResolveFrontendURL(%q, %q) = %q, want %q", tc.origin, tc.path, got, tc.want)
			}
		})
	}
}

// TestSetStringPersists validates values are written to the user config
func TestSetStringPersists(t *testing.T) {
	initTemp(t)

	if err := SetString("output.format", "json"); err != nil {
		t.Fatalf("SetString failed: %v", err)
	}

	if _, err := os.Stat(GetConfigFilePath()); err != nil {
		t.Errorf("Config file should exist after SetString: %v", err)
	}
	if got := GetString("output.format"); got != "json" {
		t.Errorf("Expected json, got %s", got)
	}
	Set("output.format", "text")
}

// TestMultipleInitCalls validates re-initialization switches directories
func TestMultipleInitCalls(t *testing.T) {
	tempDir := t.TempDir()
	if err := Init(filepath.Join(tempDir, "config1", "config.toml")); err != nil {
		t.Fatalf("First init failed: %v", err)
	}
	firstDir := GetConfigDir()

	if err := Init(filepath.Join(tempDir, "config2", "config.toml")); err != nil {
		t.Fatalf("Second init failed: %v", err)
	}

	if firstDir == GetConfigDir() {
		t.Errorf("Config dir should change after re-init, both were %s", firstDir)
	}
}
