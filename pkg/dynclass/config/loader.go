package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the variable prefix recognized in dotenv files.
const EnvPrefix = "DYNCLASS_"

// FromFile loads configuration from a file, auto-detecting format by extension.
// Supported extensions: .yaml, .yml, .json, .env
func FromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FromYAML(data)
	case ".json":
		return FromJSON(data)
	case ".env":
		return FromDotenv(data)
	default:
		return Config{}, fmt.Errorf("unsupported config file extension: %s", ext)
	}
}

// FromYAML parses YAML data into a Config.
func FromYAML(data []byte) (Config, error) {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Config{}, fmt.Errorf("parse yaml: %w", err)
	}
	return New(m), nil
}

// FromJSON parses JSON data into a Config.
func FromJSON(data []byte) (Config, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return Config{}, fmt.Errorf("parse json: %w", err)
	}
	return New(m), nil
}

// FromDotenv parses dotenv data into a Config. Only DYNCLASS_* variables are
// kept; the prefix is stripped and the rest lower-cased, so
// DYNCLASS_FIELD_CASE=snake becomes field_case: "snake".
func FromDotenv(data []byte) (Config, error) {
	env, err := godotenv.Parse(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("parse dotenv: %w", err)
	}
	m := make(map[string]any, len(env))
	for k, v := range env {
		if !strings.HasPrefix(k, EnvPrefix) {
			continue
		}
		m[strings.ToLower(strings.TrimPrefix(k, EnvPrefix))] = v
	}
	return New(m), nil
}
