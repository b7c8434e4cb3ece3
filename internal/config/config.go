// Package config provides settings and workspace file loading and validation for the CLI.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variable overrides, e.g. JOB_TAILOR_FETCH_TIMEOUT.
const EnvPrefix = "JOB_TAILOR"

// DefaultGeminiModel is used by the rewriter when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

// Settings holds the general settings read from config.yaml, environment and flags.
// Flags win over environment, environment wins over the file.
type Settings struct {
	BaseDir string `mapstructure:"base-dir"`
	Debug   bool   `mapstructure:"debug"`
	JSON    bool   `mapstructure:"json"`
	// Enhance turns on the optional rewriter for smart runs
	Enhance bool           `mapstructure:"enhance"`
	Fetch   FetchSettings  `mapstructure:"fetch"`
	Gemini  GeminiSettings `mapstructure:"gemini"`
}

// FetchSettings configures job posting retrieval.
type FetchSettings struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user-agent"`
	Browser   bool          `mapstructure:"browser"`
}

// GeminiSettings configures the rewriting model. APIKey is one of the credential sources.
type GeminiSettings struct {
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// settingKeys lists every key of Settings. Unmarshal only sees environment values for keys
// viper already knows about.
var settingKeys = []string{
	"base-dir",
	"debug",
	"json",
	"enhance",
	"fetch.timeout",
	"fetch.user-agent",
	"fetch.browser",
	"gemini.api_key",
	"gemini.model",
	"gemini.timeout",
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("base-dir", ".")
	v.SetDefault("debug", false)
	v.SetDefault("json", false)
	v.SetDefault("enhance", false)
	v.SetDefault("fetch.timeout", 30*time.Second)
	v.SetDefault("fetch.user-agent", "")
	v.SetDefault("fetch.browser", false)
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", DefaultGeminiModel)
	v.SetDefault("gemini.timeout", 30*time.Second)
}

// BindEnv enables JOB_TAILOR_* environment overrides for every setting on v,
// e.g. JOB_TAILOR_FETCH_USER_AGENT for fetch.user-agent.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for _, key := range settingKeys {
		_ = v.BindEnv(key)
	}
}

// ReadConfigFile points v at an explicit file, or at config.yaml in baseDir, and reads it.
// A missing config.yaml in the base dir is not an error; a missing explicit file is.
func ReadConfigFile(v *viper.Viper, explicitPath, baseDir string) error {
	BindEnv(v)

	if explicitPath != "" {
		v.SetConfigFile(explicitPath)
		if err := v.ReadInConfig(); err != nil {
			return &Error{Path: explicitPath, Message: "failed to read config file", Cause: err}
		}
		return nil
	}

	v.SetConfigFile(filepath.Join(baseDir, GeneralConfigFile))
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || isNotExist(err) {
			return nil
		}
		return &Error{Path: filepath.Join(baseDir, GeneralConfigFile), Message: "failed to read config file", Cause: err}
	}
	return nil
}

// LoadSettings decodes v into Settings and validates the result.
func LoadSettings(v *viper.Viper) (*Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, &Error{Message: "failed to decode settings", Cause: err}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks that the settings have valid values.
func (s *Settings) Validate() error {
	if s.Fetch.Timeout < 0 {
		return &Error{Message: "'fetch.timeout' must be non-negative"}
	}
	if s.Gemini.Timeout < 0 {
		return &Error{Message: "'gemini.timeout' must be non-negative"}
	}
	if s.BaseDir == "" {
		return &Error{Message: fmt.Sprintf("'%s' must not be empty", "base-dir")}
	}
	return nil
}
