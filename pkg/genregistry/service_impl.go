package genregistry

import (
	"context"
	"fmt"
	"log/slog"
)

// service implements the Service interface. It is stateless aside from its
// two port references, set once at construction and never swapped.
type service struct {
	repo   Repository
	signer Signer
	logger *slog.Logger
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the metadata port for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repo = repo
	}
}

// WithSigner sets the upload/download port for the service
func WithSigner(signer Signer) Option {
	return func(s *service) {
		s.signer = signer
	}
}

// WithLogger sets the structured logger for the service
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{}

	for _, option := range options {
		option(s)
	}

	if s.repo == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.signer == nil {
		return nil, fmt.Errorf("signer is required")
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s, nil
}

func (s *service) ListGenerators(ctx context.Context, filter ListFilter) ([]*Generator, error) {
	s.logger.Info("listing generators",
		"language", filter.Language,
		"version", filter.Version,
		"stack", filter.Stack,
		"tags", filter.Tags,
	)

	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*Generator{}
	}
	return items, nil
}

func (s *service) CreateGenerator(ctx context.Context, req CreateGeneratorRequest) (*CreateGeneratorResult, error) {
	s.logger.Info("creating generator", "name", req.Name)

	generator, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	upload, err := s.signer.BuildUploadInstruction(ctx, generator)
	if err != nil {
		// The record stays persisted in upload_status=pending; there is no
		// compensating delete.
		s.logger.Error("upload instruction failed after create, record kept",
			"id", generator.ID, "err", err)
		return nil, err
	}

	s.logger.Info("generator created", "id", generator.ID)
	return &CreateGeneratorResult{Generator: generator, Upload: upload}, nil
}

func (s *service) GetGenerator(ctx context.Context, id string) (*Generator, error) {
	s.logger.Info("getting generator", "id", id)

	generator, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	url, expiresAt, err := s.signer.GetDownloadURL(ctx, generator)
	if err != nil {
		return nil, err
	}
	if url != "" {
		generator.DownloadURL = url
		if !expiresAt.IsZero() {
			t := expiresAt
			generator.DownloadExpiresAt = &t
		}
	}
	return generator, nil
}

func (s *service) DeleteGenerator(ctx context.Context, id string) (bool, error) {
	s.logger.Info("deleting generator", "id", id)
	return s.repo.Delete(ctx, id)
}
