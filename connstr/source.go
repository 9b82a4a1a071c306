package connstr

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Source looks up connection strings by name.
type Source interface {
	Lookup(name string) (string, bool)
}

// Map is a fixed set of named connection strings.
type Map map[string]string

// Lookup implements Source.
func (m Map) Lookup(name string) (string, bool) {
	cs, ok := m[name]
	return cs, ok
}

// Chain consults each source in order and returns the first match.
type Chain []Source

// Lookup implements Source.
func (c Chain) Lookup(name string) (string, bool) {
	for _, s := range c {
		if s == nil {
			continue
		}
		if cs, ok := s.Lookup(name); ok {
			return cs, true
		}
	}
	return "", false
}

// DefaultEnvPrefix is used by an Env with an empty Prefix.
const DefaultEnvPrefix = "CONNECTIONSTRINGS_"

// Env reads connection strings from environment variables named Prefix followed
// by the upper-cased name, with characters other than letters and digits
// replaced by underscores: "Default" is CONNECTIONSTRINGS_DEFAULT.
//
// Variables are read at lookup time, so changes to the environment are seen
// by the next resolution.
type Env struct {
	Prefix string
}

// Lookup implements Source.
func (e Env) Lookup(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	return os.LookupEnv(e.Key(name))
}

// Key returns the environment variable consulted for name.
func (e Env) Key(name string) string {
	prefix := e.Prefix
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}

	var b strings.Builder
	b.WriteString(prefix)
	for _, r := range strings.ToUpper(name) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// LoadDotEnv loads .env files into the process environment so an Env source can
// see them. Variables already set are not overridden. With no arguments it
// loads ".env" from the working directory.
func LoadDotEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("connstr: load env file: %w", err)
	}
	return nil
}

type fileFormat struct {
	ConnectionStrings map[string]string `yaml:"connection_strings"`
}

// ParseYAML reads connection strings from a YAML document:
//
//	connection_strings:
//	  Default: postgres://app@localhost:5432/app?sslmode=disable
//	  Reporting: postgres://report@replica:5432/app
func ParseYAML(data []byte) (Map, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("connstr: parse yaml: %w", err)
	}
	if f.ConnectionStrings == nil {
		return Map{}, nil
	}
	return Map(f.ConnectionStrings), nil
}

// LoadFile reads a YAML file in the format accepted by ParseYAML.
func LoadFile(path string) (Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("connstr: read %s: %w", path, err)
	}
	return ParseYAML(data)
}
