// Package config provides configuration management for cmdshelf.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the full agent configuration. It is constructed once at
// process start and passed by reference into each component.
type Config struct {
	Store   StoreConfig   `yaml:"store"`
	LLM     LLMConfig     `yaml:"llm"`
	Remote  RemoteConfig  `yaml:"remote"`
	Watch   WatchConfig   `yaml:"watch"`
	Monitor MonitorConfig `yaml:"monitor"`
	Logging LoggingConfig `yaml:"logging"`
}

// StoreConfig locates the shortcut store and the pending-input file.
type StoreConfig struct {
	Path        string `yaml:"path"`
	PendingPath string `yaml:"pending_path"`
}

// LLMConfig contains chat-completions settings.
type LLMConfig struct {
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
}

// RemoteConfig addresses the hosted JSON blob shared between machines.
type RemoteConfig struct {
	BinURL    string `yaml:"bin_url"`
	MasterKey string `yaml:"master_key"`
}

// WatchConfig controls the change watcher.
type WatchConfig struct {
	// Mode selects the watch mechanism: "poll" (default) or "notify".
	Mode string `yaml:"mode"`

	// PollIntervalSeconds is the poll period in poll mode.
	PollIntervalSeconds int `yaml:"poll_interval_seconds"`
}

// MonitorConfig controls the optional read-only HTTP API served by watch
// mode.
type MonitorConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level      string   `yaml:"level"`
	Format     string   `yaml:"format"`
	Output     []string `yaml:"output"`
	TimeFormat string   `yaml:"time_format"`
	MaxSizeMB  int      `yaml:"max_size_mb"`
	MaxBackups int      `yaml:"max_backups"`
}

// DefaultConfig returns the default configuration. Secrets come from the
// environment so they never live in the config file.
func DefaultConfig() *Config {
	dataDir := DefaultDataDir()
	return &Config{
		Store: StoreConfig{
			Path:        filepath.Join(dataDir, "shortcuts.json"),
			PendingPath: filepath.Join(dataDir, "new_command.txt"),
		},
		LLM: LLMConfig{
			APIKey:      os.Getenv("OPENAI_API_KEY"),
			BaseURL:     "https://api.openai.com/v1",
			Model:       "gpt-4o",
			Temperature: 0.5,
		},
		Remote: RemoteConfig{
			BinURL:    os.Getenv("CMDSHELF_BIN_URL"),
			MasterKey: os.Getenv("CMDSHELF_MASTER_KEY"),
		},
		Watch: WatchConfig{
			Mode:                "poll",
			PollIntervalSeconds: 2,
		},
		Monitor: MonitorConfig{
			Enabled: false,
			Host:    "127.0.0.1",
			Port:    8430,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: []string{"file"},
		},
	}
}

// DefaultDataDir returns the default data directory based on OS.
func DefaultDataDir() string {
	switch runtime.GOOS {
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "cmdshelf")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "AppData", "Roaming", "cmdshelf")
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "cmdshelf")
	default:
		xdgData := os.Getenv("XDG_DATA_HOME")
		if xdgData != "" {
			return filepath.Join(xdgData, "cmdshelf")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".cmdshelf")
	}
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultDataDir(), "config.yaml")
}

// LogPath returns the durable log file path.
func LogPath() string {
	return filepath.Join(DefaultDataDir(), "logs", "cmdshelf.log")
}

// Load loads configuration from a file, applying defaults for anything the
// file leaves unset. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Expand environment variables so secrets can be referenced as
	// ${OPENAI_API_KEY} rather than spelled out.
	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	cfg.Store.Path = expandTilde(cfg.Store.Path)
	cfg.Store.PendingPath = expandTilde(cfg.Store.PendingPath)

	return cfg, nil
}

// Save saves the configuration to a file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// EnsureDirectories creates the data and log directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		filepath.Dir(c.Store.Path),
		filepath.Dir(c.Store.PendingPath),
		filepath.Dir(LogPath()),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// MonitorAddress returns the host:port of the monitor API.
func (c *Config) MonitorAddress() string {
	return fmt.Sprintf("%s:%d", c.Monitor.Host, c.Monitor.Port)
}

func expandTilde(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}
