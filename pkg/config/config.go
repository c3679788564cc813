// Package config loads configuration for siteblock.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"siteblock/pkg/hostsedit"
	"siteblock/pkg/hostsfile"
)

const (
	defaultConfigPath = "/etc/siteblock/siteblock.conf"
	configEnvVar      = "SITEBLOCK_CONFIG"
	envPrefix         = "SITEBLOCK"
)

// Flag names shared between the CLI and the config loader.
const (
	FlagConfig     = "config"
	FlagHostsPath  = "hosts-path"
	FlagRedirectIP = "redirect-ip"
	FlagNoBackup   = "no-backup"
	FlagLogLevel   = "log-level"
)

var flagKeys = map[string]string{
	"hosts.path":        FlagHostsPath,
	"hosts.redirect_ip": FlagRedirectIP,
	"logging.level":     FlagLogLevel,
}

// Config contains all runtime options.
type Config struct {
	Hosts   HostsConfig   `mapstructure:"hosts"`
	Logging LoggingConfig `mapstructure:"logging"`
	Watch   WatchConfig   `mapstructure:"watch"`
}

// HostsConfig holds hosts file settings.
type HostsConfig struct {
	Path       string `mapstructure:"path"`
	RedirectIP string `mapstructure:"redirect_ip"`
	Backup     bool   `mapstructure:"backup"`
}

// LoggingConfig holds log settings.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// WatchConfig holds settings for following hosts file changes.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// RegisterFlags defines the configuration flags on flags.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String(FlagConfig, "", "path to the TOML config file (env "+configEnvVar+")")
	flags.String(FlagHostsPath, "", "hosts file to edit (default "+hostsfile.DefaultPath()+")")
	flags.String(FlagRedirectIP, "", "address blocked domains resolve to (default "+hostsedit.DefaultTarget+")")
	flags.Bool(FlagNoBackup, false, "write without creating a .bak backup")
	flags.String(FlagLogLevel, "", "log level: debug, info, warn, error")
}

// ValidateLogLevel ensures the user-provided log level matches the supported set.
func ValidateLogLevel(level string) error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(level)] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", level)
	}
	return nil
}

// ValidateRedirectIP checks that blocked domains are sent to an IP address.
func ValidateRedirectIP(addr string) error {
	if net.ParseIP(addr) == nil {
		return fmt.Errorf("invalid redirect ip: %q", addr)
	}
	return nil
}

// Setup merges defaults, the config file, SITEBLOCK_* environment variables
// and flags (which may be nil) into a Config.
func Setup(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for key, name := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
		if noBackup, err := flags.GetBool(FlagNoBackup); err == nil && noBackup {
			v.Set("hosts.backup", false)
		}
	}

	configPath, explicit := resolveConfigPath(flags)
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func resolveConfigPath(flags *pflag.FlagSet) (string, bool) {
	if flags != nil {
		if path, err := flags.GetString(FlagConfig); err == nil && path != "" {
			return path, true
		}
	}
	if fromEnv := strings.TrimSpace(os.Getenv(configEnvVar)); fromEnv != "" {
		return fromEnv, true
	}
	return defaultConfigPath, false
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("hosts.path", hostsfile.DefaultPath())
	v.SetDefault("hosts.redirect_ip", hostsedit.DefaultTarget)
	v.SetDefault("hosts.backup", true)
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.file", "stderr")
	v.SetDefault("watch.debounce", "250ms")
}

func validateConfig(cfg *Config) error {
	if err := ValidateLogLevel(cfg.Logging.Level); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.Hosts.Path) == "" {
		return errors.New("hosts.path is required")
	}
	if err := ValidateRedirectIP(cfg.Hosts.RedirectIP); err != nil {
		return fmt.Errorf("invalid hosts.redirect_ip: %w", err)
	}
	if cfg.Watch.Debounce < 0 {
		return errors.New("watch.debounce must be >= 0")
	}
	return nil
}
