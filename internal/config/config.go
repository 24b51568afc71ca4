package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAddr        = ":8080"
	defaultGrace       = 5 * time.Second
	defaultSeedTimeout = 10 * time.Second
	defaultYAMLIndent  = 2
)

// Config holds the server settings. Values come from a .env file, then the
// SCHEMABUILDER_* environment, then command line flags, later sources winning.
type Config struct {
	Addr         string
	SeedPath     string
	SeedTimeout  time.Duration
	SubmitLog    string
	Title        string
	Theme        string
	ThemeVariant string
	Templates    string
	YAMLIndent   int
	Component    string
	Grace        time.Duration
}

// Load reads envFiles (".env" when none are given; a missing default file is
// ignored) and parses args.
func Load(args []string, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		_ = godotenv.Load()
	} else if err := godotenv.Load(envFiles...); err != nil {
		return nil, fmt.Errorf("config: load env: %w", err)
	}

	grace, err := envDuration("SCHEMABUILDER_GRACE", defaultGrace)
	if err != nil {
		return nil, err
	}
	seedTimeout, err := envDuration("SCHEMABUILDER_SEED_TIMEOUT", defaultSeedTimeout)
	if err != nil {
		return nil, err
	}
	yamlIndent := defaultYAMLIndent
	if raw := env("SCHEMABUILDER_YAML_INDENT"); raw != "" {
		yamlIndent, err = strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("config: SCHEMABUILDER_YAML_INDENT: %w", err)
		}
	}

	cfg := &Config{}
	fs := flag.NewFlagSet("schemabuilder-server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.Addr, "addr", resolveAddr(), "listen address")
	fs.StringVar(&cfg.SeedPath, "seed", env("SCHEMABUILDER_SEED"), "seed schema document path or http(s) URL (JSON or YAML)")
	fs.DurationVar(&cfg.SeedTimeout, "seed-timeout", seedTimeout, "timeout for fetching a seed URL")
	fs.StringVar(&cfg.SubmitLog, "submit-log", env("SCHEMABUILDER_SUBMIT_LOG"), "append submissions to this file")
	fs.StringVar(&cfg.Title, "title", env("SCHEMABUILDER_TITLE"), "editor page title")
	fs.StringVar(&cfg.Theme, "theme", env("SCHEMABUILDER_THEME"), "theme name")
	fs.StringVar(&cfg.ThemeVariant, "theme-variant", env("SCHEMABUILDER_THEME_VARIANT"), "theme variant")
	fs.StringVar(&cfg.Templates, "templates", env("SCHEMABUILDER_TEMPLATES"), "directory overriding the embedded page templates")
	fs.IntVar(&cfg.YAMLIndent, "yaml-indent", yamlIndent, "indent width of yaml previews")
	fs.StringVar(&cfg.Component, "component", env("SCHEMABUILDER_COMPONENT"), "OpenAPI component name for untitled exports")
	fs.DurationVar(&cfg.Grace, "grace", grace, "graceful shutdown timeout")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("config: parse flags: %w", err)
	}

	if cfg.Grace < 0 {
		return nil, fmt.Errorf("config: grace must not be negative, got %s", cfg.Grace)
	}
	if cfg.SeedTimeout <= 0 {
		return nil, fmt.Errorf("config: seed timeout must be positive, got %s", cfg.SeedTimeout)
	}
	if cfg.YAMLIndent < 1 {
		return nil, fmt.Errorf("config: yaml indent must be positive, got %d", cfg.YAMLIndent)
	}
	cfg.Addr = normalizeAddr(cfg.Addr)
	return cfg, nil
}

// resolveAddr prefers SCHEMABUILDER_ADDR and falls back to PORT.
func resolveAddr() string {
	return firstNonEmpty(env("SCHEMABUILDER_ADDR"), env("PORT"), defaultAddr)
}

func normalizeAddr(addr string) string {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return defaultAddr
	}
	if !strings.Contains(addr, ":") {
		return ":" + addr
	}
	return addr
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := env(key)
	if raw == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return parsed, nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
