// Package config reads and writes the hiscore YAML configuration file.
package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	configFileName = "config.yaml"
	dirMode        = 0700
	fileMode       = 0600

	// DriverSQLite is the embedded local database driver.
	DriverSQLite = "sqlite"
	// DriverPostgres is the optional shared database driver.
	DriverPostgres = "postgres"

	// DefaultPort is the port the local HTTP API listens on.
	DefaultPort = 8080
	// DefaultLogLevel is used when no level is configured.
	DefaultLogLevel = "info"
)

// Config represents app config object.
type Config struct {
	// Model is a weight model file path or http(s) URL.
	Model string `yaml:"model"`
	// ModelToken is sent as a bearer token when Model is a URL.
	ModelToken string `yaml:"model_token,omitempty"`
	// DBDriver is sqlite or postgres.
	DBDriver string `yaml:"db_driver"`
	// DBDSN is the postgres connection string or the sqlite file path.
	// Empty uses the sqlite file in the config directory.
	DBDSN string `yaml:"db_dsn,omitempty"`
	// LogLevel is debug, info, warn or error.
	LogLevel string `yaml:"log_level"`
	// Port is the local HTTP API port.
	Port int `yaml:"port"`
	// ProcessedDir is where converted processed_<candidate>.csv files go.
	ProcessedDir string `yaml:"processed_dir,omitempty"`
	// Auth requires a bearer token on the local HTTP API.
	Auth bool `yaml:"auth"`
}

func getDefaultConfig() *Config {
	return &Config{
		DBDriver: DriverSQLite,
		LogLevel: DefaultLogLevel,
		Port:     DefaultPort,
	}
}

// Validate checks field values and fills in defaults for empty ones.
func (c *Config) Validate() error {
	if c.DBDriver == "" {
		c.DBDriver = DriverSQLite
	}
	if c.DBDriver != DriverSQLite && c.DBDriver != DriverPostgres {
		return errors.Errorf("invalid db_driver %q, expected %s or %s", c.DBDriver, DriverSQLite, DriverPostgres)
	}
	if c.DBDriver == DriverPostgres && c.DBDSN == "" {
		return errors.New("db_dsn required for postgres driver")
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Port < 0 || c.Port > 65535 {
		return errors.Errorf("invalid port %d", c.Port)
	}
	return nil
}

// Save writes c to the config file in dirPath.
func Save(dirPath string, c *Config) error {
	if dirPath == "" {
		return errors.New("config directory required")
	}
	if c == nil {
		return errors.New("config required")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	path := filepath.Join(dirPath, configFileName)
	if err := os.WriteFile(path, b, fileMode); err != nil {
		return errors.Wrapf(err, "failed to write config file: %s", configFileName)
	}
	return nil
}

// ReadOrCreate reads app config from directory or creates a new one.
func ReadOrCreate(dirPath string) (*Config, error) {
	if dirPath == "" {
		return nil, errors.New("config directory required")
	}

	if _, err := os.Stat(dirPath); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(dirPath, dirMode); err != nil {
			return nil, errors.Wrapf(err, "failed to create dir: %s", dirPath)
		}
	}

	path := filepath.Join(dirPath, configFileName)

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		slog.Debug("creating default config", "path", path)
		if err := Save(dirPath, getDefaultConfig()); err != nil {
			return nil, errors.Wrap(err, "failed to create default config")
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error opening config file: %s", path)
	}
	defer f.Close()

	b, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading config file: %s", path)
	}

	c := getDefaultConfig()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, errors.Wrapf(err, "error unmarshalling config file: %s", path)
	}

	if err := c.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config file: %s", path)
	}

	return c, nil
}

// GetOrCreateHomeDir returns the home directory for the current user.
// The create flag is set to true if the directory was created.
func GetOrCreateHomeDir(name string) (path string, created bool, err error) {
	if name == "" {
		return "", false, errors.New("name cannot be empty")
	}

	if !strings.HasPrefix(name, ".") {
		name = "." + name
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", false, errors.Wrap(err, "failed to get user home dir")
	}

	dir := filepath.Join(home, name)
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		slog.Debug("creating dir", "path", dir)
		if err := os.Mkdir(dir, dirMode); err != nil {
			return "", false, errors.Wrapf(err, "failed to create dir: %s", dir)
		}
		created = true
	}
	return dir, created, nil
}
