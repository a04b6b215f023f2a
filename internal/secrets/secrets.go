// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets resolves API keys from the process environment, a dotenv
// file, and a directory of plain-text files.
//
// In a secrets directory each file represents one secret: the filename is the
// key name and the file contents (trimmed) are the value. Filenames use the
// lowercase, hyphenated form of the environment variable, so TAVILY_API_KEY
// is read from tavily-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// LoadDotEnv parses a KEY=VALUE dotenv file and returns its entries with
// upper-cased keys. A missing file is not an error.
func LoadDotEnv(path string) (map[string]string, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("stat dotenv %s: %w", path, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("parsing dotenv %s: %w", path, err)
	}

	values := make(map[string]string)
	for _, key := range v.AllKeys() {
		value := strings.TrimSpace(v.GetString(key))
		if value != "" {
			values[strings.ToUpper(key)] = value
		}
	}
	return values, nil
}

// Resolver looks up a secret across its sources in precedence order:
// environment, dotenv entries, then secrets-directory files.
type Resolver struct {
	// Env looks up process environment variables. Nil means os.LookupEnv.
	Env    func(string) (string, bool)
	DotEnv map[string]string
	Files  map[string]string
}

// NewResolver loads the dotenv file and secrets directory and returns a
// Resolver backed by the process environment.
func NewResolver(dotenvPath, secretsDir string) (*Resolver, error) {
	dotenv, err := LoadDotEnv(dotenvPath)
	if err != nil {
		return nil, err
	}
	files, err := Load(secretsDir)
	if err != nil {
		return nil, err
	}
	return &Resolver{DotEnv: dotenv, Files: files}, nil
}

// Lookup returns the trimmed value of the named secret and whether any
// source provided a non-empty value.
func (r *Resolver) Lookup(name string) (string, bool) {
	env := r.Env
	if env == nil {
		env = os.LookupEnv
	}
	if v, ok := env(name); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v), true
	}
	if v, ok := r.DotEnv[name]; ok {
		return v, true
	}
	if v, ok := r.Files[FileName(name)]; ok {
		return v, true
	}
	return "", false
}

// Require is Lookup that fails with a message naming every source checked.
func (r *Resolver) Require(name string) (string, error) {
	if v, ok := r.Lookup(name); ok {
		return v, nil
	}
	return "", fmt.Errorf("%s not set (environment, .env, or .secrets/%s)", name, FileName(name))
}

// FileName maps an environment variable name to its secrets-directory filename.
func FileName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), "_", "-")
}
