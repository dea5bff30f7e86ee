package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// FilePermissions is the default permission mode for regular files
	FilePermissions = 0644
	// DirPermissions is the default permission mode for directories
	DirPermissions = 0755

	// DefaultBaseURL is used when no address is configured.
	DefaultBaseURL = "http://localhost:8080"
	// DefaultProxyURL is where the proxy subcommand listens by default.
	DefaultProxyURL = "http://localhost:3001"
	// ProxyPath is the prefix the proxy strips before forwarding.
	ProxyPath = "/api"

	envBaseURL  = "WIREMGR_BASE_URL"
	envUseProxy = "WIREMGR_USE_PROXY"
	envProxyURL = "WIREMGR_PROXY_URL"
)

var (
	// ConfigDir is the global configuration directory (~/.wiremgr)
	ConfigDir string

	// LogsDir is where diagnostic logs are written
	LogsDir string

	// ConfigFile is the optional YAML settings file
	ConfigFile string
)

// Settings holds the resolved configuration. Environment variables override
// the config file; the file overrides defaults.
type Settings struct {
	BaseURL  string `yaml:"baseUrl"`
	UseProxy bool   `yaml:"useProxy"`
	ProxyURL string `yaml:"proxyUrl"`
}

// Initialize sets up ~/.wiremgr and its logs directory.
func Initialize() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	ConfigDir = filepath.Join(homeDir, ".wiremgr")
	LogsDir = filepath.Join(ConfigDir, "logs")
	ConfigFile = filepath.Join(ConfigDir, "config.yaml")

	for _, dir := range []string{ConfigDir, LogsDir} {
		if err := os.MkdirAll(dir, DirPermissions); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// Load resolves settings from the config file and environment.
func Load() (Settings, error) {
	s := Settings{BaseURL: DefaultBaseURL, ProxyURL: DefaultProxyURL}

	if ConfigFile != "" {
		data, err := os.ReadFile(ConfigFile)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &s); err != nil {
				return Settings{}, fmt.Errorf("failed to parse %s: %w", ConfigFile, err)
			}
			if s.BaseURL == "" {
				s.BaseURL = DefaultBaseURL
			}
			if s.ProxyURL == "" {
				s.ProxyURL = DefaultProxyURL
			}
		case !os.IsNotExist(err):
			return Settings{}, fmt.Errorf("failed to read %s: %w", ConfigFile, err)
		}
	}

	if v := os.Getenv(envBaseURL); v != "" {
		s.BaseURL = v
	}
	if v := os.Getenv(envUseProxy); v != "" {
		s.UseProxy = v == "true" || v == "1"
	}
	if v := os.Getenv(envProxyURL); v != "" {
		s.ProxyURL = v
	}

	s.BaseURL = strings.TrimRight(s.BaseURL, "/")
	s.ProxyURL = strings.TrimRight(s.ProxyURL, "/")
	return s, nil
}

// AdminAddress returns the absolute address admin calls should be issued
// against: the proxy's /api prefix when proxy mode is on, the server
// address otherwise.
func (s Settings) AdminAddress() string {
	if s.UseProxy {
		return s.ProxyURL + ProxyPath
	}
	return s.BaseURL
}

// BuildAbsoluteURL joins the server base address with a relative URL.
func (s Settings) BuildAbsoluteURL(relative string) string {
	if relative != "" && !strings.HasPrefix(relative, "/") {
		relative = "/" + relative
	}
	return s.BaseURL + relative
}
