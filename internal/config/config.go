// Package config loads the debloat configuration with koanf.
// Sources are applied in order: defaults, an optional config file (.yaml, .yml, .toml or .json)
// and DEBLOAT_* environment variables, where "__" separates nested keys
// (DEBLOAT_STORE__REDIS__ADDR sets store.redis.addr).
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/aretw0/debloat/internal/logging"
	"github.com/aretw0/debloat/pkg/adapters/process"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "DEBLOAT_"

// Store drivers.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverRedis  = "redis"
)

// JournalDisabled as the journal path turns the durable journal off.
const JournalDisabled = "-"

// Config is the full application configuration.
type Config struct {
	// Catalog is a catalog file path. Empty uses the embedded catalog.
	Catalog string `koanf:"catalog"`
	// Watch reloads Catalog when the file changes (serve only).
	Watch bool `koanf:"watch"`
	// Shell is the interpreter prefix the command string is appended to.
	Shell     []string      `koanf:"shell"`
	PlanDelay time.Duration `koanf:"plan_delay"`
	StepDelay time.Duration `koanf:"step_delay"`
	// Journal is the durable journal path. Empty uses the XDG state dir, "-" disables it.
	Journal  string      `koanf:"journal"`
	LogLevel string      `koanf:"log_level"`
	Store    StoreConfig `koanf:"store"`
	HTTP     HTTPConfig  `koanf:"http"`
	MCP      MCPConfig   `koanf:"mcp"`
}

// StoreConfig selects where session preferences are kept.
type StoreConfig struct {
	Driver string      `koanf:"driver"`
	Dir    string      `koanf:"dir"`
	Redis  RedisConfig `koanf:"redis"`
}

type RedisConfig struct {
	Addr     string        `koanf:"addr"`
	Password string        `koanf:"password"`
	DB       int           `koanf:"db"`
	Prefix   string        `koanf:"prefix"`
	TTL      time.Duration `koanf:"ttl"`
}

type HTTPConfig struct {
	Addr string `koanf:"addr"`
}

type MCPConfig struct {
	Port int `koanf:"port"`
}

// Defaults returns the built-in configuration values keyed by koanf path.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"catalog":            "",
		"watch":              false,
		"shell":              process.DefaultShell(),
		"plan_delay":         "0s",
		"step_delay":         "0s",
		"journal":            "",
		"log_level":          "info",
		"store.driver":       DriverFile,
		"store.dir":          filepath.Join(xdg.DataHome, "debloat", "sessions"),
		"store.redis.addr":   "localhost:6379",
		"store.redis.db":     0,
		"store.redis.prefix": "debloat:session:",
		"store.redis.ttl":    "0s",
		"http.addr":          ":8080",
		"mcp.port":           8081,
	}
}

// Discover returns the first existing config file under the XDG config dirs,
// or "" if there is none.
func Discover() string {
	for _, name := range []string{"config.yaml", "config.yml", "config.toml", "config.json"} {
		if path, err := xdg.SearchConfigFile(filepath.Join("debloat", name)); err == nil {
			return path
		}
	}
	return ""
}

// Load builds the configuration from defaults, the file at path (if any) and the environment.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("failed to load config %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment config: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".toml":
		return toml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
}

// envTransform maps DEBLOAT_STORE__REDIS__ADDR to store.redis.addr.
// The shell is given as one space-separated string.
func envTransform(key, value string) (string, interface{}) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	key = strings.ReplaceAll(key, "__", ".")
	if key == "shell" {
		return key, strings.Fields(value)
	}
	return key, value
}

// Validate reports every invalid value at once.
func (c *Config) Validate() error {
	var errs []error
	if len(c.Shell) == 0 || strings.TrimSpace(c.Shell[0]) == "" {
		errs = append(errs, errors.New("shell must not be empty"))
	}
	if c.PlanDelay < 0 {
		errs = append(errs, fmt.Errorf("plan_delay must not be negative (got %s)", c.PlanDelay))
	}
	if c.StepDelay < 0 {
		errs = append(errs, fmt.Errorf("step_delay must not be negative (got %s)", c.StepDelay))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch c.Store.Driver {
	case DriverMemory, DriverFile:
	case DriverRedis:
		if c.Store.Redis.Addr == "" {
			errs = append(errs, errors.New("store.redis.addr is required for the redis driver"))
		}
		if c.Store.Redis.TTL < 0 {
			errs = append(errs, errors.New("store.redis.ttl must not be negative"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store driver %q (want memory, file or redis)", c.Store.Driver))
	}
	if c.MCP.Port < 0 || c.MCP.Port > 65535 {
		errs = append(errs, fmt.Errorf("mcp.port out of range: %d", c.MCP.Port))
	}
	if c.Watch && c.Catalog == "" {
		errs = append(errs, errors.New("watch requires a catalog file"))
	}
	return errors.Join(errs...)
}

// JournalEnabled reports whether the durable journal should be opened.
func (c *Config) JournalEnabled() bool {
	return c.Journal != JournalDisabled
}
