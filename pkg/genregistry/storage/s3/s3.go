// Package s3 provides an S3-compatible genregistry.Signer backed by
// presigned URLs.
package s3

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/constructio/generator-registry/pkg/genregistry"
)

// Config options for the S3 signer
type Config struct {
	Region          string // AWS region
	Bucket          string // S3 bucket name
	AccessKeyID     string // AWS access key ID
	SecretAccessKey string // AWS secret access key
	Endpoint        string // Optional custom endpoint for S3-compatible services
	UseSSL          bool   // Use SSL for connections (default: true)
	UsePathStyle    bool   // Use path-style addressing (default: false)
	PresignDuration int    // Duration in seconds for presigned URLs (default: 600)

	// MinIO/S3-compatible service options
	CreateBucketIfNotExist bool // Create bucket if it doesn't exist
}

// Signer is an S3-compatible implementation of the genregistry.Signer interface
type Signer struct {
	client          *s3.Client
	bucket          string
	presignClient   *s3.PresignClient
	presignDuration time.Duration
	config          Config
}

// New creates a new S3-compatible signer
func New(config Config) (*Signer, error) {
	if config.Bucket == "" {
		return nil, errors.New("bucket name is required")
	}

	if config.Region == "" {
		config.Region = "us-east-1"
	}

	if config.PresignDuration == 0 {
		config.PresignDuration = 600 // 10 minutes default
	}

	var awsCfg aws.Config
	var err error

	if config.AccessKeyID != "" && config.SecretAccessKey != "" {
		// Use provided credentials
		awsCfg, err = awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(config.Region),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				config.AccessKeyID,
				config.SecretAccessKey,
				"",
			)),
		)
	} else {
		// Use default credential chain
		awsCfg, err = awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(config.Region),
		)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Options []func(*s3.Options)

	// Custom endpoint for S3-compatible services (MinIO, etc.)
	if config.Endpoint != "" {
		s3Options = append(s3Options, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(config.Endpoint)
			o.UsePathStyle = config.UsePathStyle
		})
	}

	client := s3.NewFromConfig(awsCfg, s3Options...)

	signer := &Signer{
		client:          client,
		bucket:          config.Bucket,
		presignClient:   s3.NewPresignClient(client),
		presignDuration: time.Duration(config.PresignDuration) * time.Second,
		config:          config,
	}

	if config.CreateBucketIfNotExist {
		if err := signer.createBucketIfNotExists(context.Background()); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return signer, nil
}

// createBucketIfNotExists creates the bucket if it doesn't exist
func (s *Signer) createBucketIfNotExists(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return nil
	}

	// Handle multiple error shapes for MinIO compatibility
	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) &&
		!strings.Contains(err.Error(), "BadRequest") &&
		!strings.Contains(err.Error(), "NoSuchBucket") {
		return fmt.Errorf("failed to check bucket: %w", err)
	}

	createInput := &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	}
	if s.config.Region != "us-east-1" {
		createInput.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(s.config.Region),
		}
	}

	_, err = s.client.CreateBucket(ctx, createInput)
	if err != nil {
		if strings.Contains(err.Error(), "BucketAlreadyExists") ||
			strings.Contains(err.Error(), "BucketAlreadyOwnedByYou") {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// BuildUploadInstruction presigns a PUT for the generator's artifact object.
// The object need not exist; the instruction is what lets the client create
// it. The returned artifact reference carries this signer's bucket.
func (s *Signer) BuildUploadInstruction(ctx context.Context, g *genregistry.Generator) (*genregistry.UploadInstruction, error) {
	artifact := &genregistry.ArtifactRef{}
	if g.Artifact != nil {
		a := *g.Artifact
		artifact = &a
	}
	artifact.Bucket = s.bucket
	if artifact.Object == "" {
		artifact.Object = g.ID + "/" + genregistry.ArtifactObjectName
	}
	if artifact.ContentType == "" {
		artifact.ContentType = genregistry.DefaultArtifactContentType
	}

	expiresAt := time.Now().UTC().Add(s.presignDuration).Truncate(time.Second)

	result, err := s.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(artifact.Object),
		ContentType: aws.String(artifact.ContentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = s.presignDuration
	})
	if err != nil {
		return nil, &genregistry.SignerError{
			Op:  "presign_put",
			Key: artifact.Object,
			Err: fmt.Errorf("%w: %v", genregistry.ErrSignerUnavailable, err),
		}
	}

	return &genregistry.UploadInstruction{
		UploadURL: result.URL,
		ExpiresAt: expiresAt,
		Method:    http.MethodPut,
		Headers:   map[string]string{"Content-Type": artifact.ContentType},
		Artifact:  artifact,
	}, nil
}

// GetDownloadURL presigns a GET for the generator's artifact, but only when
// the object actually exists. A missing artifact reference and a not-yet-
// uploaded object both yield an empty URL, not an error.
func (s *Signer) GetDownloadURL(ctx context.Context, g *genregistry.Generator) (string, time.Time, error) {
	if g.Artifact == nil || g.Artifact.Object == "" {
		return "", time.Time{}, nil
	}

	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(g.Artifact.Object),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return "", time.Time{}, nil
		}
		return "", time.Time{}, &genregistry.SignerError{
			Op:  "head_object",
			Key: g.Artifact.Object,
			Err: fmt.Errorf("%w: %v", genregistry.ErrSignerUnavailable, err),
		}
	}

	expiresAt := time.Now().UTC().Add(s.presignDuration).Truncate(time.Second)

	result, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(g.Artifact.Object),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = s.presignDuration
	})
	if err != nil {
		return "", time.Time{}, &genregistry.SignerError{
			Op:  "presign_get",
			Key: g.Artifact.Object,
			Err: fmt.Errorf("%w: %v", genregistry.ErrSignerUnavailable, err),
		}
	}

	return result.URL, expiresAt, nil
}
