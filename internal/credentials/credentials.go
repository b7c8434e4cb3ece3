// Package credentials resolves the rewriter API key from an ordered list of sources.
package credentials

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// EnvKey is the environment variable and .env entry holding the API key.
const EnvKey = "GEMINI_API_KEY"

// Placeholder is the value shipped in sample files; it never counts as a key.
const Placeholder = "your-api-key-here"

// ErrNotFound is returned by Resolve when no source yields a usable key.
var ErrNotFound = errors.New("no API key configured")

// Source is one place an API key may come from.
type Source interface {
	// Name identifies the source in logs, e.g. "flag" or ".env".
	Name() string
	// Lookup returns the raw value, or "" when the source has nothing.
	Lookup() (string, error)
}

// Credential is a resolved key and the source it came from.
type Credential struct {
	Key    string
	Source string
}

// Resolve walks sources in order and returns the first usable key. Empty and placeholder
// values are skipped. A source that fails to read is skipped too; its error is only
// reported, joined with ErrNotFound, when no later source succeeds.
func Resolve(sources ...Source) (Credential, error) {
	var errs []error
	for _, src := range sources {
		if src == nil {
			continue
		}
		value, err := src.Lookup()
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
			continue
		}
		if key, ok := usable(value); ok {
			return Credential{Key: key, Source: src.Name()}, nil
		}
	}
	return Credential{}, errors.Join(append([]error{ErrNotFound}, errs...)...)
}

func usable(value string) (string, bool) {
	key := strings.Trim(strings.TrimSpace(value), `"'`)
	if key == "" || key == Placeholder {
		return "", false
	}
	return key, true
}

type valueSource struct {
	name  string
	value string
}

func (s valueSource) Name() string            { return s.name }
func (s valueSource) Lookup() (string, error) { return s.value, nil }

// Value wraps an already known value, such as a flag or a decoded config.yaml field.
func Value(name, value string) Source {
	return valueSource{name: name, value: value}
}

type envSource struct {
	key string
}

func (s envSource) Name() string            { return "env " + s.key }
func (s envSource) Lookup() (string, error) { return os.Getenv(s.key), nil }

// Env reads an environment variable.
func Env(key string) Source {
	return envSource{key: key}
}

type dotEnvSource struct {
	path string
	key  string
}

func (s dotEnvSource) Name() string { return ".env" }

func (s dotEnvSource) Lookup() (string, error) {
	if _, err := os.Stat(s.path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	values, err := godotenv.Read(s.path)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	return values[s.key], nil
}

// DotEnv reads key from a dotenv file. A missing file yields nothing.
func DotEnv(path, key string) Source {
	return dotEnvSource{path: path, key: key}
}

// DefaultSources returns the standard lookup order: flag, environment, .env file, config.yaml.
func DefaultSources(flagValue, dotEnvPath, configValue string) []Source {
	return []Source{
		Value("flag", flagValue),
		Env(EnvKey),
		DotEnv(dotEnvPath, EnvKey),
		Value("config.yaml", configValue),
	}
}
