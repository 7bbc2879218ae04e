package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// WithEnv applies environment variable overrides using the provided prefix.
//
// Environment variable mapping:
//
//	PORT        - Server port (default: "8080")
//	ENVIRONMENT - Runtime environment (default: "development")
//
//	DATABASE_URL - Metadata store connection string.
//	               "memory" or empty uses the in-memory adapter;
//	               "postgres://..." or "postgresql://..." selects Postgres.
//
//	STORAGE_URL - Signer backend (one of):
//	              - "memory://" - fabricated URLs, in-memory presence (default)
//	              - "s3://bucket?region=us-east-1&endpoint=...&path_style=true"
//	AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY - S3 credentials (optional;
//	              the default AWS credential chain applies when unset)
//
//	ARTIFACT_BUCKET        - Bucket recorded on new generators
//	PRESIGN_DURATION       - Presigned URL lifetime in seconds
//	SEED_DEV_DATA          - Preload development records ("true"/"false")
func WithEnv(prefix string) Option {
	return func(c *ServerConfig) error {
		if v, ok := lookupEnv(prefix, "PORT"); ok && v != "" {
			c.Port = v
		}
		if v, ok := lookupEnv(prefix, "ENVIRONMENT"); ok && v != "" {
			c.Environment = v
		}
		if v, ok := lookupEnv(prefix, "ARTIFACT_BUCKET"); ok && v != "" {
			c.ArtifactBucket = v
		}
		if v, ok := lookupEnv(prefix, "SEED_DEV_DATA"); ok && v != "" {
			seed, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid SEED_DEV_DATA: %q", v)
			}
			c.SeedDevData = seed
		}
		if v, ok := lookupEnv(prefix, "PRESIGN_DURATION"); ok && v != "" {
			seconds, err := strconv.Atoi(v)
			if err != nil || seconds <= 0 {
				return fmt.Errorf("invalid PRESIGN_DURATION: %q", v)
			}
			c.Storage.PresignDuration = seconds
		}

		if err := applyDatabaseEnv(prefix, c); err != nil {
			return err
		}
		return applyStorageEnv(prefix, c)
	}
}

// applyDatabaseEnv applies metadata store configuration from environment
func applyDatabaseEnv(prefix string, c *ServerConfig) error {
	dbURL, hasURL := lookupEnv(prefix, "DATABASE_URL")

	if !hasURL || dbURL == "" || dbURL == "memory" {
		c.DatabaseType = "memory"
		c.DatabaseURL = ""
		return nil
	}

	if strings.HasPrefix(dbURL, "postgresql://") || strings.HasPrefix(dbURL, "postgres://") {
		c.DatabaseType = "postgres"
		c.DatabaseURL = dbURL
		return nil
	}

	return fmt.Errorf("unsupported DATABASE_URL format: %s (use 'memory' or 'postgresql://...')", dbURL)
}

// applyStorageEnv applies signer configuration from environment
func applyStorageEnv(prefix string, c *ServerConfig) error {
	storageURL, hasURL := lookupEnv(prefix, "STORAGE_URL")

	if !hasURL || storageURL == "" || storageURL == "memory" || storageURL == "memory://" {
		c.Storage.Type = "memory"
		return nil
	}

	if strings.HasPrefix(storageURL, "s3://") {
		return applyS3Storage(storageURL, prefix, c)
	}

	return fmt.Errorf("unsupported STORAGE_URL format: %s (use 'memory://' or 's3://...')", storageURL)
}

// applyS3Storage configures the S3 signer from a URL of the form
// s3://bucket?region=us-east-1&endpoint=http://localhost:9000&path_style=true
func applyS3Storage(storageURL, prefix string, c *ServerConfig) error {
	u, err := url.Parse(storageURL)
	if err != nil {
		return fmt.Errorf("invalid STORAGE_URL: %w", err)
	}
	if u.Host == "" {
		return fmt.Errorf("s3 bucket cannot be empty in STORAGE_URL")
	}

	c.Storage.Type = "s3"
	c.Storage.Bucket = u.Host

	q := u.Query()
	if region := q.Get("region"); region != "" {
		c.Storage.Region = region
	}
	if endpoint := q.Get("endpoint"); endpoint != "" {
		c.Storage.Endpoint = endpoint
	}
	if pathStyle := q.Get("path_style"); pathStyle != "" {
		b, err := strconv.ParseBool(pathStyle)
		if err != nil {
			return fmt.Errorf("invalid path_style in STORAGE_URL: %q", pathStyle)
		}
		c.Storage.UsePathStyle = b
	}
	if createBucket := q.Get("create_bucket"); createBucket != "" {
		b, err := strconv.ParseBool(createBucket)
		if err != nil {
			return fmt.Errorf("invalid create_bucket in STORAGE_URL: %q", createBucket)
		}
		c.Storage.CreateBucketIfNotExist = b
	}

	// Credentials come from the standard AWS variables, never from the URL.
	if v, ok := lookupEnv(prefix, "AWS_ACCESS_KEY_ID"); ok {
		c.Storage.AccessKeyID = v
	}
	if v, ok := lookupEnv(prefix, "AWS_SECRET_ACCESS_KEY"); ok {
		c.Storage.SecretAccessKey = v
	}

	// Default the artifact bucket to the signing bucket unless overridden.
	if _, ok := lookupEnv(prefix, "ARTIFACT_BUCKET"); !ok {
		c.ArtifactBucket = u.Host
	}

	return nil
}

func lookupEnv(prefix, key string) (string, bool) {
	if prefix != "" {
		key = prefix + "_" + key
	}
	return os.LookupEnv(key)
}
