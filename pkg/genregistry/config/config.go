// Package config assembles a genregistry.Service from a single
// construction-time decision: which metadata adapter and which signer to use.
// There is no runtime backend switching.
package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/constructio/generator-registry/pkg/genregistry"
	repomemory "github.com/constructio/generator-registry/pkg/genregistry/repo/memory"
	repopg "github.com/constructio/generator-registry/pkg/genregistry/repo/postgres"
	storagememory "github.com/constructio/generator-registry/pkg/genregistry/storage/memory"
	storages3 "github.com/constructio/generator-registry/pkg/genregistry/storage/s3"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of
// library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:         "8080",
		Environment:  "development",
		DatabaseType: "memory",
		Storage: StorageConfig{
			Type:            "memory",
			PresignDuration: 600,
			UseSSL:          true,
		},
		ArtifactBucket: repomemory.DefaultBucket,
		SeedDevData:    true,
	}
}

// ServerConfig represents server configuration for the generator registry
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Metadata store configuration
	DatabaseURL  string
	DatabaseType string // "memory", "postgres"

	// Artifact bucket recorded on newly created generators
	ArtifactBucket string

	// Signer configuration
	Storage StorageConfig

	// Preload development records into the in-memory adapter
	SeedDevData bool
}

// StorageConfig represents configuration for the signer backend
type StorageConfig struct {
	Type string // "memory", "s3"

	// s3 options
	Bucket                 string
	Region                 string
	AccessKeyID            string
	SecretAccessKey        string
	Endpoint               string
	UseSSL                 bool
	UsePathStyle           bool
	PresignDuration        int
	CreateBucketIfNotExist bool
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	if c.DatabaseType != "memory" && c.DatabaseType != "postgres" {
		return errors.New("database_type must be 'memory' or 'postgres'")
	}
	if c.DatabaseType == "postgres" && c.DatabaseURL == "" {
		return errors.New("database_url is required when using postgres")
	}

	if c.Storage.Type != "memory" && c.Storage.Type != "s3" {
		return errors.New("storage type must be 'memory' or 's3'")
	}
	if c.Storage.Type == "s3" && c.Storage.Bucket == "" {
		return errors.New("storage bucket is required when using s3")
	}

	return nil
}

// BuildService creates a Service instance from the server configuration
func (c *ServerConfig) BuildService(ctx context.Context) (genregistry.Service, error) {
	repo, err := c.buildRepository(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build repository: %w", err)
	}

	signer, err := c.buildSigner()
	if err != nil {
		return nil, fmt.Errorf("failed to build signer: %w", err)
	}

	return genregistry.New(
		genregistry.WithRepository(repo),
		genregistry.WithSigner(signer),
	)
}

// buildRepository creates a Repository based on the configuration
func (c *ServerConfig) buildRepository(ctx context.Context) (genregistry.Repository, error) {
	switch c.DatabaseType {
	case "memory":
		if c.SeedDevData {
			return repomemory.NewSeeded(), nil
		}
		return repomemory.New(), nil
	case "postgres":
		pool, err := pgxpool.New(ctx, c.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create pgx pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			return nil, fmt.Errorf("database ping failed: %w", err)
		}
		repo := repopg.New(pool, c.ArtifactBucket)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}

// buildSigner creates a Signer based on the configuration
func (c *ServerConfig) buildSigner() (genregistry.Signer, error) {
	switch c.Storage.Type {
	case "memory":
		return storagememory.New(), nil
	case "s3":
		return storages3.New(storages3.Config{
			Region:                 c.Storage.Region,
			Bucket:                 c.Storage.Bucket,
			AccessKeyID:            c.Storage.AccessKeyID,
			SecretAccessKey:        c.Storage.SecretAccessKey,
			Endpoint:               c.Storage.Endpoint,
			UseSSL:                 c.Storage.UseSSL,
			UsePathStyle:           c.Storage.UsePathStyle,
			PresignDuration:        c.Storage.PresignDuration,
			CreateBucketIfNotExist: c.Storage.CreateBucketIfNotExist,
		})
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", c.Storage.Type)
	}
}
