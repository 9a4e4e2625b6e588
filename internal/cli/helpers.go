package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/debloat/internal/config"
	"github.com/aretw0/debloat/internal/logging"
)

// createLogger configures the application logger.
// It writes to Stderr to keep Stdout for command output; debug forces the debug level.
func createLogger(level string, debug bool) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}
	return logging.New(lvl)
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

// GlobalOptions are the persistent flags shared by every command.
type GlobalOptions struct {
	ConfigPath string
	Catalog    string
	Store      string
	Debug      bool
}

// LoadConfig loads the configuration file (explicit or discovered) and applies flag overrides.
func LoadConfig(g GlobalOptions) (*config.Config, error) {
	path := g.ConfigPath
	if path == "" {
		path = config.Discover()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if g.Catalog != "" {
		cfg.Catalog = g.Catalog
	}
	if g.Store != "" {
		cfg.Store.Driver = g.Store
	}
	if g.Debug {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Open loads the configuration and builds the stack for a command.
func Open(g GlobalOptions, opts StackOptions) (*Stack, error) {
	cfg, err := LoadConfig(g)
	if err != nil {
		return nil, err
	}
	logger := createLogger(cfg.LogLevel, g.Debug)
	return createStack(cfg, logger, opts)
}
