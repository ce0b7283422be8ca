/*
Copyright © 2025 David Stockton <dave@davidstockton.com>
*/
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/dstockto/brewctl/api"
	"github.com/dstockto/brewctl/logger"
	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Config represents the structure of the config.json file
// Example at project root: config.json
//
//	{
//	  "api_base": "http://localhost:8000",
//	  "database": "brewctl.db",
//	  "low_thresholds": {"pilsen": 25, "hop::saaz": 1}
//	}
//
// Add fields here as config grows.
type Config struct {
	ApiBase         string                     `json:"api_base"`
	ApiUser         string                     `json:"api_user"`
	ApiPassword     string                     `json:"api_password"`
	TimeoutSeconds  int                        `json:"timeout_seconds"`
	Database        string                     `json:"database"`
	LowThresholds   map[string]decimal.Decimal `json:"low_thresholds"`
	CategoryAliases map[string]string          `json:"category_aliases"`
	MetricsFile     string                     `json:"metrics_file"`
	LogLevel        string                     `json:"log_level"`
	LogFormat       string                     `json:"log_format"`
	DraftsDir       string                     `json:"drafts_dir"`
	ShopSearch      string                     `json:"shop_search"`
	MQTT            *MQTTConfig                `json:"mqtt"`
	Telegram        *TelegramConfig            `json:"telegram"`
}

type MQTTConfig struct {
	Broker   string `json:"broker"`
	Topic    string `json:"topic"`
	ClientID string `json:"client_id"`
}

type TelegramConfig struct {
	Token  string `json:"token"`
	ChatID int64  `json:"chat_id"`
}

// Cfg holds the loaded configuration and is available to all commands.
var Cfg *Config

// cfgFile is set from -c/--config flag.
var cfgFile string

// noColor toggles ANSI color output off when set via --no-color flag.
var noColor bool

// verbose forces debug logging.
var verbose bool

// appLog and appMetrics are built once per process in PersistentPreRunE.
var (
	appLog     = logger.Discard()
	appMetrics *api.Metrics
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "brewctl",
	Short: "Brewctl manages brewery stock, recipes and production runs",
	Long: `Brewctl is a command line tool for the brewery backend: it lists ingredient stock, edits
recipes, checks whether a recipe can be produced and asks the backend to produce it.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Apply color preference as early as possible, but only disable if the flag is set
		if noColor {
			color.NoColor = true
		}

		if err := loadConfig(); err != nil {
			return err
		}

		level := Cfg.LogLevel
		if verbose {
			level = "debug"
		}
		appLog = logger.New(level, Cfg.LogFormat, cmd.ErrOrStderr())
		if appMetrics == nil {
			appMetrics = api.NewMetrics()
		}

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if Cfg == nil || Cfg.MetricsFile == "" {
			return nil
		}
		if err := appMetrics.WriteTextfile(Cfg.MetricsFile); err != nil {
			appLog.Warn("writing metrics textfile failed", "path", Cfg.MetricsFile, "err", err)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// loadConfig loads Cfg once: files first, then the environment on top.
func loadConfig() error {
	if Cfg != nil {
		return nil
	}

	// Determine path: explicit flag takes precedence; else try merge from standard locations
	var cfg *Config
	if cfgFile != "" {
		c, err := LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config from %s: %w", cfgFile, err)
		}
		cfg = c
	} else {
		c, err := LoadMergedConfig()
		if err != nil {
			return fmt.Errorf("unable to load config: %w", err)
		}
		cfg = c
	}
	// Config files are optional; the environment alone is enough
	if cfg == nil {
		cfg = &Config{}
	}

	applyEnv(cfg)
	Cfg = cfg

	return nil
}

// LoadConfig reads and parses JSON config from the given path.
func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var c Config
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("json config parsing error: %w", err)
	}

	return &c, nil
}

// exists reports whether path names a file. Directories do not count.
func exists(path string) bool {
	if path == "" {
		return false
	}

	info, err := os.Stat(path)
	if err != nil {
		return !errors.Is(err, fs.ErrNotExist)
	}

	return !info.IsDir()
}

// envKeys maps config keys to the environment variables that may set them, in priority order.
var envKeys = map[string][]string{
	"api_base":         {"BREW_API_BASE", "VITE_API_URL"},
	"api_user":         {"BREW_API_USER"},
	"api_password":     {"BREW_API_PASSWORD"},
	"timeout_seconds":  {"BREW_TIMEOUT_SECONDS"},
	"database":         {"BREW_DATABASE"},
	"metrics_file":     {"BREW_METRICS_FILE"},
	"log_level":        {"BREW_LOG_LEVEL"},
	"log_format":       {"BREW_LOG_FORMAT"},
	"drafts_dir":       {"BREW_DRAFTS_DIR"},
	"mqtt_broker":      {"BREW_MQTT_BROKER"},
	"mqtt_topic":       {"BREW_MQTT_TOPIC"},
	"telegram_token":   {"BREW_TELEGRAM_TOKEN"},
	"telegram_chat_id": {"BREW_TELEGRAM_CHAT_ID"},
}

// applyEnv overlays BREW_* variables (and a .env file in the working directory) onto c.
// Set variables win over config files.
func applyEnv(c *Config) {
	// a missing .env is fine; existing variables are not overridden
	_ = gotenv.Load()

	v := viper.New()
	for key, names := range envKeys {
		_ = v.BindEnv(append([]string{key}, names...)...)
	}

	str := func(key string, dst *string) {
		if s := strings.TrimSpace(v.GetString(key)); s != "" {
			*dst = s
		}
	}
	str("api_base", &c.ApiBase)
	str("api_user", &c.ApiUser)
	str("api_password", &c.ApiPassword)
	str("database", &c.Database)
	str("metrics_file", &c.MetricsFile)
	str("log_level", &c.LogLevel)
	str("log_format", &c.LogFormat)
	str("drafts_dir", &c.DraftsDir)
	if n := v.GetInt("timeout_seconds"); n > 0 {
		c.TimeoutSeconds = n
	}

	if broker := strings.TrimSpace(v.GetString("mqtt_broker")); broker != "" {
		if c.MQTT == nil {
			c.MQTT = &MQTTConfig{}
		}
		c.MQTT.Broker = broker
		str("mqtt_topic", &c.MQTT.Topic)
	}
	if token := strings.TrimSpace(v.GetString("telegram_token")); token != "" {
		if c.Telegram == nil {
			c.Telegram = &TelegramConfig{}
		}
		c.Telegram.Token = token
		if id := v.GetInt64("telegram_chat_id"); id != 0 {
			c.Telegram.ChatID = id
		}
	}
}

//nolint:gochecknoinits
func init() {
	// Global config flag for all commands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file (config.json)")
	// Global color toggle
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable ANSI color output")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "log backend requests and debug details to stderr")
}

// LoadMergedConfig attempts to load and merge configs from standard locations when no explicit --config is provided.
// Precedence (later overrides earlier):
//  1. $HOME/.config/brewctl/config.json
//  2. $XDG_CONFIG_HOME/brewctl/config.json
//  3. ./config.json (current working directory)
//
// If none exist, returns (nil, nil).
func LoadMergedConfig() (*Config, error) {
	paths := discoverConfigPaths()
	if len(paths) == 0 {
		return nil, nil
	}

	merged := &Config{}

	for _, p := range paths {
		c, err := LoadConfig(p)
		if err != nil {
			return nil, fmt.Errorf("failed loading %s: %w", p, err)
		}

		mergeInto(merged, c)
	}

	return merged, nil
}

// discoverConfigPaths returns existing config paths in merge order.
func discoverConfigPaths() []string {
	var out []string
	// 1) HOME
	if home, _ := os.UserHomeDir(); home != "" {
		p := filepath.Join(home, ".config", "brewctl", "config.json")
		if exists(p) {
			out = append(out, p)
		}
	}
	// 2) XDG
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		p := filepath.Join(xdg, "brewctl", "config.json")
		if exists(p) {
			out = append(out, p)
		}
	}
	// 3) CWD
	if cwd, _ := os.Getwd(); cwd != "" {
		p := filepath.Join(cwd, "config.json")
		if exists(p) {
			out = append(out, p)
		}
	}

	return out
}

// mergeInto copies non-zero values and maps from src into dst.
// Maps are merged by keys; src keys override dst.
func mergeInto(dst, src *Config) {
	if src == nil || dst == nil {
		return
	}

	strs := []struct{ dst, src *string }{
		{&dst.ApiBase, &src.ApiBase},
		{&dst.ApiUser, &src.ApiUser},
		{&dst.ApiPassword, &src.ApiPassword},
		{&dst.Database, &src.Database},
		{&dst.MetricsFile, &src.MetricsFile},
		{&dst.LogLevel, &src.LogLevel},
		{&dst.LogFormat, &src.LogFormat},
		{&dst.DraftsDir, &src.DraftsDir},
		{&dst.ShopSearch, &src.ShopSearch},
	}
	for _, s := range strs {
		if *s.src != "" {
			*s.dst = *s.src
		}
	}

	if src.TimeoutSeconds > 0 {
		dst.TimeoutSeconds = src.TimeoutSeconds
	}
	if src.MQTT != nil {
		dst.MQTT = src.MQTT
	}
	if src.Telegram != nil {
		dst.Telegram = src.Telegram
	}
	// maps
	if src.LowThresholds != nil {
		if dst.LowThresholds == nil {
			dst.LowThresholds = map[string]decimal.Decimal{}
		}

		for k, v := range src.LowThresholds {
			dst.LowThresholds[k] = v
		}
	}

	if src.CategoryAliases != nil {
		if dst.CategoryAliases == nil {
			dst.CategoryAliases = map[string]string{}
		}

		for k, v := range src.CategoryAliases {
			dst.CategoryAliases[k] = v
		}
	}
}

// logFor returns the logger with the command path attached.
func logFor(cmd *cobra.Command) *slog.Logger {
	return appLog.With("cmd", cmd.CommandPath())
}
