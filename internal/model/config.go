package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// OAuthConfig holds the identity-provider settings for the sign-in flow.
type OAuthConfig struct {
	// ClientID and ClientSecret identify this app to the provider.
	ClientID     string `mapstructure:"client_id" yaml:"client_id"`
	ClientSecret string `mapstructure:"client_secret" yaml:"client_secret"`

	// AuthURL and TokenURL are the provider OAuth2 endpoints.
	AuthURL  string `mapstructure:"auth_url" yaml:"auth_url"`
	TokenURL string `mapstructure:"token_url" yaml:"token_url"`

	// UserInfoURL returns the signed-in account's profile.
	UserInfoURL string `mapstructure:"user_info_url" yaml:"user_info_url"`

	// RedirectPort is the local loopback port the flow listens on.
	RedirectPort int `mapstructure:"redirect_port" yaml:"redirect_port"`

	Scopes []string `mapstructure:"scopes" yaml:"scopes"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`

	// DefaultView is the view shown after sign-in: "timeline" or "carousel".
	DefaultView string `mapstructure:"default_view" yaml:"default_view"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	// Project and Route label this relocation in exports
	// (e.g. project "our-move", route "Lisbon -> Milan").
	Project string `mapstructure:"project" yaml:"project"`
	Route   string `mapstructure:"route" yaml:"route"`

	// DatabasePath is the SQLite file backing the task store.
	DatabasePath string `mapstructure:"database_path" yaml:"database_path"`

	// ExportDir is where JSON/Markdown snapshots are written.
	ExportDir string `mapstructure:"export_dir" yaml:"export_dir"`

	// LogFile receives structured logs; the terminal stays clean for the UI.
	LogFile string `mapstructure:"log_file" yaml:"log_file"`

	// OfflineAccount, when non-empty, skips the OAuth flow and signs in a
	// local account with this name. Useful without network access.
	OfflineAccount string `mapstructure:"offline_account" yaml:"offline_account"`

	OAuth   OAuthConfig   `mapstructure:"oauth" yaml:"oauth"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/relo/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "relo", "config.yaml")
}

// defaultDataDir returns the directory for the database and logs.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share", "relo")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	dataDir := defaultDataDir()
	return &AppConfig{
		Project:      "relo",
		DatabasePath: filepath.Join(dataDir, "relo.db"),
		ExportDir:    dataDir,
		LogFile:      filepath.Join(dataDir, "relo.log"),
		OAuth: OAuthConfig{
			RedirectPort: 48912,
			Scopes:       []string{"openid", "email", "profile"},
		},
		Display: DisplayConfig{
			Theme:       "default",
			DefaultView: "timeline",
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	defaults := defaultAppConfig()
	v.SetDefault("project", defaults.Project)
	v.SetDefault("database_path", defaults.DatabasePath)
	v.SetDefault("export_dir", defaults.ExportDir)
	v.SetDefault("log_file", defaults.LogFile)
	v.SetDefault("oauth.redirect_port", defaults.OAuth.RedirectPort)
	v.SetDefault("oauth.scopes", defaults.OAuth.Scopes)
	v.SetDefault("display.theme", defaults.Display.Theme)
	v.SetDefault("display.default_view", defaults.Display.DefaultView)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaults, nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("project", cfg.Project)
	v.Set("route", cfg.Route)
	v.Set("database_path", cfg.DatabasePath)
	v.Set("export_dir", cfg.ExportDir)
	v.Set("log_file", cfg.LogFile)
	v.Set("offline_account", cfg.OfflineAccount)
	v.Set("oauth", cfg.OAuth)
	v.Set("display", cfg.Display)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
