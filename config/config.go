// Package config loads service settings from an optional YAML file and the
// environment. Environment variables win over the file, which wins over the
// built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"workroll/storage"
)

const maxConfigFileSize = 1 << 20

var defaults = []byte(`
workspaces_table: Workspaces
members_table: Members
projects_table: Projects
records_table: Records
absences_table: Absences
activity_queue: workspace-activity
cache_ttl: 5m
deduper_ttl: 24h
jwks_cache_ttl: 15m
listen_addr: ":8080"
stream_channel: workspace-activity
updater_enabled: true
updater_poll_interval: 1s
`)

// Config holds every runtime setting of the service.
type Config struct {
	StorageConnectionString string        `koanf:"storage_connection_string"`
	WorkspacesTable         string        `koanf:"workspaces_table"`
	MembersTable            string        `koanf:"members_table"`
	ProjectsTable           string        `koanf:"projects_table"`
	RecordsTable            string        `koanf:"records_table"`
	AbsencesTable           string        `koanf:"absences_table"`
	ActivityQueue           string        `koanf:"activity_queue"`
	RedisConnectionString   string        `koanf:"redis_connection_string"`
	CacheTTL                time.Duration `koanf:"cache_ttl"`
	DeduperTTL              time.Duration `koanf:"deduper_ttl"`
	Auth0Domain             string        `koanf:"auth0_domain"`
	Auth0Audience           string        `koanf:"auth0_audience"`
	JWKSCacheTTL            time.Duration `koanf:"jwks_cache_ttl"`
	LocalAuthMode           string        `koanf:"local_auth_mode"`
	LocalAuthSharedSecret   string        `koanf:"local_auth_shared_secret"`
	ListenAddr              string        `koanf:"listen_addr"`
	StreamChannel           string        `koanf:"stream_channel"`
	UpdaterEnabled          bool          `koanf:"updater_enabled"`
	UpdaterPollInterval     time.Duration `koanf:"updater_poll_interval"`
	Debug                   bool          `koanf:"debug"`
}

// Load reads defaults, then the YAML file at path when it is non-empty, then
// the environment. STORAGE_CONNECTION_STRING maps to storage_connection_string.
func Load(path string) (Config, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(defaults), yaml.Parser()); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}
	if path != "" {
		content, err := readFile(path)
		if err != nil {
			return Config{}, err
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider("", ".", strings.ToLower), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file %s exceeds %d bytes", path, maxConfigFileSize)
	}
	return os.ReadFile(path)
}

// Validate reports missing or contradictory settings.
func (c Config) Validate() error {
	var errs []error
	if c.StorageConnectionString == "" {
		errs = append(errs, errors.New("missing storage_connection_string"))
	}
	if c.RedisConnectionString == "" {
		errs = append(errs, errors.New("missing redis_connection_string"))
	}
	switch strings.ToLower(c.LocalAuthMode) {
	case "":
		if c.Auth0Domain == "" || c.Auth0Audience == "" {
			errs = append(errs, errors.New("missing auth0_domain or auth0_audience"))
		}
	case "hs256":
		if c.LocalAuthSharedSecret == "" {
			errs = append(errs, errors.New("local_auth_shared_secret must be set when local_auth_mode=hs256"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported local_auth_mode %q", c.LocalAuthMode))
	}
	if c.CacheTTL < 0 || c.DeduperTTL <= 0 {
		errs = append(errs, errors.New("cache_ttl must not be negative and deduper_ttl must be positive"))
	}
	return errors.Join(errs...)
}

// LocalAuth reports whether tokens are verified with the shared secret.
func (c Config) LocalAuth() bool {
	return strings.EqualFold(c.LocalAuthMode, "hs256")
}

// Storage returns the table and queue settings.
func (c Config) Storage() storage.Config {
	return storage.Config{
		ConnectionString: c.StorageConnectionString,
		WorkspacesTable:  c.WorkspacesTable,
		MembersTable:     c.MembersTable,
		ProjectsTable:    c.ProjectsTable,
		RecordsTable:     c.RecordsTable,
		AbsencesTable:    c.AbsencesTable,
		ActivityQueue:    c.ActivityQueue,
	}
}
