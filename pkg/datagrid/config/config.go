// Package config carries server configuration for the grid service and
// assembles the configured backends.
package config

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gridable/datagrid/pkg/datagrid/exportstore"
	fsstore "github.com/gridable/datagrid/pkg/datagrid/exportstore/fs"
	memorystore "github.com/gridable/datagrid/pkg/datagrid/exportstore/memory"
	s3store "github.com/gridable/datagrid/pkg/datagrid/exportstore/s3"
)

// ServerConfig represents server configuration for the grid service.
//
// EXPORT_STORE_URL selects the export archive backend:
//
//	memory://                      in-memory (default)
//	file:///var/lib/grid/exports   filesystem
//	s3://bucket?region=us-east-1   S3 or S3-compatible
type ServerConfig struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`

	// DatabaseURL enables Postgres-backed collections when set; the demo
	// grid falls back to seeded in-memory data without it.
	DatabaseURL string `env:"DATABASE_URL"`

	ExportStoreURL  string `env:"EXPORT_STORE_URL" env-default:"memory://"`
	ExportURLPrefix string `env:"EXPORT_URL_PREFIX"`

	// Timezone interprets datetime filter input without an explicit offset.
	Timezone string `env:"GRID_TIMEZONE" env-default:"UTC"`
}

// Load reads configuration from the environment.
func Load() (*ServerConfig, error) {
	var cfg ServerConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate validates the server configuration.
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	switch c.Environment {
	case "development", "production", "testing":
	default:
		return fmt.Errorf("unknown environment %q", c.Environment)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("unknown timezone %q: %w", c.Timezone, err)
	}
	u, err := url.Parse(c.ExportStoreURL)
	if err != nil {
		return fmt.Errorf("invalid export store URL: %w", err)
	}
	switch u.Scheme {
	case "memory", "file", "s3":
	default:
		return fmt.Errorf("unknown export store scheme %q", u.Scheme)
	}
	return nil
}

// Location returns the configured timezone.
func (c *ServerConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// BuildExportStore assembles the export store named by ExportStoreURL.
func (c *ServerConfig) BuildExportStore() (exportstore.Store, error) {
	u, err := url.Parse(c.ExportStoreURL)
	if err != nil {
		return nil, fmt.Errorf("invalid export store URL: %w", err)
	}

	switch u.Scheme {
	case "memory":
		return memorystore.New(), nil

	case "file":
		return fsstore.New(fsstore.Config{
			BaseDir:   u.Path,
			URLPrefix: c.ExportURLPrefix,
		})

	case "s3":
		q := u.Query()
		return s3store.New(s3store.Config{
			Bucket:                 u.Host,
			Region:                 q.Get("region"),
			Endpoint:               q.Get("endpoint"),
			AccessKeyID:            q.Get("access_key_id"),
			SecretAccessKey:        q.Get("secret_access_key"),
			UsePathStyle:           strings.EqualFold(q.Get("path_style"), "true"),
			CreateBucketIfNotExist: strings.EqualFold(q.Get("create_bucket"), "true"),
		})
	}

	return nil, fmt.Errorf("unknown export store scheme %q", u.Scheme)
}

// ConnectDatabase opens a pgx pool for Postgres-backed collections.
func (c *ServerConfig) ConnectDatabase(ctx context.Context) (*pgxpool.Pool, error) {
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	pool, err := pgxpool.New(ctx, c.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return pool, nil
}
