package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// DefaultBackendURL is the production API origin used when nothing else is configured.
	DefaultBackendURL = "https://be-watch-party.brahim-elhouss.me"
	// DefaultFrontendURL is the same-origin proxy path.
	DefaultFrontendURL = "/api"
	// DefaultFrontendOrigin is where a relative frontend path is resolved.
	DefaultFrontendOrigin = "http://localhost:3000"
)

var configDir string
var configFilePath string
var credentialsPath string

// getConfigDir returns platform-specific config directory
func getConfigDir() (string, error) {
	if runtime.GOOS == "windows" {
		// Windows: %LOCALAPPDATA%\watchparty
		appData := os.Getenv("LOCALAPPDATA")
		if appData == "" {
			appData = os.Getenv("APPDATA")
		}
		if appData == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			appData = home
		}
		return filepath.Join(appData, "watchparty"), nil
	}

	// Unix-like (macOS, Linux): ~/.config/watchparty
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "watchparty"), nil
}

// getSystemConfigPaths returns platform-specific system config paths
func getSystemConfigPaths() []string {
	if runtime.GOOS == "windows" {
		return []string{filepath.Join(os.Getenv("ProgramFiles"), "WatchParty", "config.toml")}
	}

	return []string{
		"/etc/watchparty/config.toml",
		"/usr/local/etc/watchparty/config.toml",
	}
}

// Init initializes the configuration. Sources, lowest precedence first:
// defaults, system config, user config, .env file, environment.
func Init(configPath string) error {
	var err error
	if configPath != "" {
		configDir = filepath.Dir(configPath)
		configFilePath = configPath
	} else {
		configDir, err = getConfigDir()
		if err != nil {
			return err
		}
		configFilePath = filepath.Join(configDir, "config.toml")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}

	credentialsPath = filepath.Join(configDir, "credentials")

	// A missing .env is the common case.
	_ = godotenv.Load()

	viper.Reset()
	viper.SetConfigType("toml")
	setDefaults()
	bindEnv()

	for _, sysConfigPath := range getSystemConfigPaths() {
		if _, err := os.Stat(sysConfigPath); err == nil {
			viper.SetConfigFile(sysConfigPath)
			_ = viper.ReadInConfig()
			break
		}
	}

	viper.SetConfigFile(configFilePath)
	_ = viper.MergeInConfig()

	return nil
}

func setDefaults() {
	viper.SetDefault("api.base_url", DefaultBackendURL)
	viper.SetDefault("api.frontend_url", DefaultFrontendURL)
	viper.SetDefault("api.frontend_origin", DefaultFrontendOrigin)
	viper.SetDefault("api.timeout", 30)
	viper.SetDefault("api.rate_limit", 0)
	viper.SetDefault("api.user_agent", "WatchParty-CLI/0.1.0")

	viper.SetDefault("poll.interval", "30s")

	viper.SetDefault("degraded.enabled", true)
	viper.SetDefault("cache.redis_url", "")
	viper.SetDefault("cache.ttl", "10m")

	viper.SetDefault("proxy.listen", ":3000")
	viper.SetDefault("proxy.allowed_origins", []string{"http://localhost:3000"})
	viper.SetDefault("proxy.secure_cookies", false)

	viper.SetDefault("ws.url", "")

	viper.SetDefault("output.format", "text")

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.file", filepath.Join(configDir, "watchparty.log"))
	viper.SetDefault("log.max_size_mb", 10)
	viper.SetDefault("log.max_backups", 3)
}

func bindEnv() {
	_ = viper.BindEnv("api.base_url", "WATCHPARTY_API_URL", "NEXT_PUBLIC_API_URL")
	_ = viper.BindEnv("api.frontend_url", "WATCHPARTY_FRONTEND_API", "NEXT_PUBLIC_FRONTEND_API")
	_ = viper.BindEnv("api.frontend_origin", "WATCHPARTY_FRONTEND_ORIGIN")
	_ = viper.BindEnv("cache.redis_url", "WATCHPARTY_REDIS_URL", "REDIS_URL")
	_ = viper.BindEnv("proxy.listen", "WATCHPARTY_PROXY_LISTEN")
	_ = viper.BindEnv("log.level", "WATCHPARTY_LOG_LEVEL")
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetString returns a string configuration value
func GetString(key string) string {
	value := viper.GetString(key)
	if key == "log.file" {
		return expandPath(value)
	}
	return value
}

// GetInt returns an int configuration value
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetFloat returns a float configuration value
func GetFloat(key string) float64 {
	return viper.GetFloat64(key)
}

// GetBool returns a bool configuration value
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration returns a duration configuration value
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

// GetStringSlice returns a list configuration value
func GetStringSlice(key string) []string {
	return viper.GetStringSlice(key)
}

// SetString sets a string configuration value and persists the user config
func SetString(key string, value string) error {
	viper.Set(key, value)
	return viper.WriteConfigAs(configFilePath)
}

// Set overrides a value for the lifetime of the process
func Set(key string, value interface{}) {
	viper.Set(key, value)
}

// AllSettings returns the merged configuration
func AllSettings() map[string]interface{} {
	return viper.AllSettings()
}

// BackendURL returns the remote API origin without a trailing slash
func BackendURL() string {
	return strings.TrimRight(GetString("api.base_url"), "/")
}

// FrontendURL returns the absolute base of the same-origin proxy. A relative
// api.frontend_url is resolved against api.frontend_origin.
func FrontendURL() string {
	return ResolveFrontendURL(GetString("api.frontend_origin"), GetString("api.frontend_url"))
}

// ResolveFrontendURL joins a proxy path onto an origin unless the path is
// already absolute.
func ResolveFrontendURL(origin, path string) string {
	if path == "" {
		path = DefaultFrontendURL
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return strings.TrimRight(path, "/")
	}
	if origin == "" {
		origin = DefaultFrontendOrigin
	}
	return strings.TrimRight(origin, "/") + "/" + strings.Trim(path, "/")
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() string {
	return configDir
}

// GetConfigFilePath returns the user config file path
func GetConfigFilePath() string {
	return configFilePath
}

// GetCredentialsPath returns the path to the credentials file
func GetCredentialsPath() string {
	return credentialsPath
}
