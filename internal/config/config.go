package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

// Config represents the CLI configuration
type Config struct {
	DateLayout string       `mapstructure:"date_layout"` // Go time layout for date cells
	Locale     string       `mapstructure:"locale"`      // BCP 47 tag for number display, empty keeps workbook formatting
	XLSCharset string       `mapstructure:"xls_charset"` // Charset for 8-bit strings in BIFF5 .xls files, empty uses the workbook code page
	Output     OutputConfig `mapstructure:"output"`
	Log        LogConfig    `mapstructure:"log"`
}

// OutputConfig holds output settings
type OutputConfig struct {
	Format string `mapstructure:"format"` // json or yaml
	Pretty bool   `mapstructure:"pretty"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `mapstructure:"level"` // debug, info, warn, error
}

// Load reads the configuration from configPath, or from exceltable.yaml in
// the current directory or $HOME/.exceltable when configPath is empty.
// A missing default config file is not an error. EXCELTABLE_* environment
// variables override file values.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("EXCELTABLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("exceltable")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.exceltable")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if _, err := cfg.LocaleTag(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults configures default values
func setDefaults(v *viper.Viper) {
	v.SetDefault("date_layout", "2006-01-02 03:04:05")
	v.SetDefault("locale", "")
	v.SetDefault("xls_charset", "")
	v.SetDefault("output.format", "json")
	v.SetDefault("output.pretty", false)
	v.SetDefault("log.level", "info")
}

// LocaleTag parses Locale. An empty locale yields language.Und.
func (c *Config) LocaleTag() (language.Tag, error) {
	if c.Locale == "" {
		return language.Und, nil
	}
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.Und, fmt.Errorf("invalid locale %q: %w", c.Locale, err)
	}
	return tag, nil
}

// LogLevel maps Log.Level to a slog level, defaulting to info.
func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
