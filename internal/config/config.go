// Package config resolves the database connection settings once at startup.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Defaults used when no source provides a value
const (
	DefaultHost     = "localhost"
	DefaultPort     = 3306
	DefaultUsername = "root"
	DefaultPassword = ""
	DefaultDatabase = "mysql"
)

// Environment variables, checked before any flag
const (
	EnvHost     = "DB_HOST"
	EnvPort     = "DB_PORT"
	EnvUsername = "DB_USERNAME"
	EnvPassword = "DB_PASSWORD"
	EnvDatabase = "DB_DATABASE"
)

// ConnectionConfig holds the settings for every connection of the process.
// It is not modified after Resolve returns.
type ConnectionConfig struct {
	Host     string `yaml:"host" validate:"required"`
	Port     int    `yaml:"port" validate:"gt=0,lte=65535"`
	Username string `yaml:"username" validate:"required"`
	Password string `yaml:"password"`
	Database string `yaml:"database" validate:"required"`
}

// Settings is one source of raw values. Empty fields are unset.
type Settings struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
}

// Resolve picks each setting from the environment, then flags, then the
// config file, then the hard default. lookup is usually os.Getenv.
func Resolve(lookup func(string) string, flags Settings, file Settings) (ConnectionConfig, error) {
	env := Settings{
		Host:     lookup(EnvHost),
		Port:     lookup(EnvPort),
		Username: lookup(EnvUsername),
		Password: lookup(EnvPassword),
		Database: lookup(EnvDatabase),
	}

	cfg := ConnectionConfig{
		Host:     first(env.Host, flags.Host, file.Host, DefaultHost),
		Username: first(env.Username, flags.Username, file.Username, DefaultUsername),
		Password: first(env.Password, flags.Password, file.Password, DefaultPassword),
		Database: first(env.Database, flags.Database, file.Database, DefaultDatabase),
	}

	portStr := first(env.Port, flags.Port, file.Port, strconv.Itoa(DefaultPort))
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return ConnectionConfig{}, fmt.Errorf("invalid port value %q: %w", portStr, err)
	}
	cfg.Port = port

	if err := validator.New().Struct(cfg); err != nil {
		return ConnectionConfig{}, fmt.Errorf("validation failed: %w", err)
	}

	return cfg, nil
}

// LoadFile reads settings from a YAML file. An empty path yields no settings.
func LoadFile(path string) (Settings, error) {
	if path == "" {
		return Settings{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("read config file: %w", err)
	}

	var raw struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		Database string `yaml:"database"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Settings{}, fmt.Errorf("parse config: %w", err)
	}

	s := Settings{
		Host:     raw.Host,
		Username: raw.Username,
		Password: raw.Password,
		Database: raw.Database,
	}
	if raw.Port != 0 {
		s.Port = strconv.Itoa(raw.Port)
	}
	return s, nil
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
