// Package config provides configuration management for scout.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config represents the assistant configuration.
type Config struct {
	Scan    ScanConfig    `toml:"scan"`
	LLM     LLMConfig     `toml:"llm"`
	Logging LoggingConfig `toml:"logging"`
}

// ScanConfig controls codebase traversal.
type ScanConfig struct {
	// IgnoreDirs are directory names excluded from traversal entirely.
	IgnoreDirs []string `toml:"ignore_dirs"`
	// MaxFileSizeMB caps files whose content is loaded into the catalog.
	MaxFileSizeMB int `toml:"max_file_size_mb"`
	// MaxDepth limits nesting below the root. Negative means unlimited.
	MaxDepth int `toml:"max_depth"`
}

// LLMConfig contains LLM integration settings.
type LLMConfig struct {
	// Provider selects the completion backend, "gemini" or "ollama".
	Provider              string  `toml:"provider"`
	Model                 string  `toml:"model"`
	APIKey                string  `toml:"api_key"`
	OllamaURL             string  `toml:"ollama_url"`
	RateLimitCalls        int     `toml:"rate_limit_calls"`
	RateLimitWindowSecs   int     `toml:"rate_limit_window_secs"`
	AnalysisTemperature   float64 `toml:"analysis_temperature"`
	SuggestionTemperature float64 `toml:"suggestion_temperature"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Output     []string `toml:"output"`
	Format     string   `toml:"format"`
	TimeFormat string   `toml:"time_format"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	apiKey := os.Getenv("GOOGLE_GEMINI_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}

	return &Config{
		Scan: ScanConfig{
			IgnoreDirs:    []string{".git", "venv", "env", "__pycache__", "node_modules", ".vscode", ".idea"},
			MaxFileSizeMB: 10,
			MaxDepth:      -1,
		},
		LLM: LLMConfig{
			Provider:              "gemini",
			Model:                 "gemini-3-flash-preview",
			APIKey:                apiKey,
			OllamaURL:             "http://localhost:11434",
			RateLimitCalls:        30,
			RateLimitWindowSecs:   60,
			AnalysisTemperature:   0.1,
			SuggestionTemperature: 0.2,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"console"},
			Format:     "text",
			TimeFormat: "15:04:05.000",
			MaxSizeMB:  100,
			MaxBackups: 5,
		},
	}
}

// DefaultDataDir returns the default data directory based on OS.
func DefaultDataDir() string {
	switch runtime.GOOS {
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "scout")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "AppData", "Roaming", "scout")
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "scout")
	default: // linux and others
		xdgData := os.Getenv("XDG_DATA_HOME")
		if xdgData != "" {
			return filepath.Join(xdgData, "scout")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".scout")
	}
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultDataDir(), "scout.toml")
}

// Resolve returns the config file to load: the explicit path when given,
// otherwise ./scout.toml when present, otherwise the default path.
func Resolve(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat("scout.toml"); err == nil {
		return "scout.toml"
	}
	return DefaultConfigPath()
}

// Load loads configuration from a file.
// A missing file is not an error; defaults are returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Expand environment variables in the config
	expanded := os.ExpandEnv(string(data))

	if err := toml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves the configuration to a file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// LogPath returns the path to the log file.
func (c *Config) LogPath() string {
	return filepath.Join(DefaultDataDir(), "logs", "scout.log")
}

// MaxFileSize returns the content-loading cap in bytes.
func (c *ScanConfig) MaxFileSize() int64 {
	if c.MaxFileSizeMB <= 0 {
		return 10 * 1024 * 1024
	}
	return int64(c.MaxFileSizeMB) * 1024 * 1024
}

// RateWindow returns the rolling rate-limit window length in seconds.
func (c *LLMConfig) RateWindow() int {
	if c.RateLimitWindowSecs <= 0 {
		return 60
	}
	return c.RateLimitWindowSecs
}

// ExpandHome expands a leading ~/ against the user home directory.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}
