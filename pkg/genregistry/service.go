package genregistry

import "context"

// Service defines the registry's four business operations. It is pure
// orchestration over the Repository and Signer ports: no retries, no caching,
// no batching, so failure attribution stays unambiguous to callers.
type Service interface {
	// ListGenerators delegates to the metadata port. An empty result is a
	// normal return, not an error.
	ListGenerators(ctx context.Context, filter ListFilter) ([]*Generator, error)

	// CreateGenerator persists the record, then builds an upload instruction
	// for it. The two steps are not atomic: if instruction building fails the
	// record remains persisted in upload_status=pending.
	CreateGenerator(ctx context.Context, req CreateGeneratorRequest) (*CreateGeneratorResult, error)

	// GetGenerator fetches a record and, when found, attaches a time-limited
	// download URL to the returned copy. The URL is never persisted.
	GetGenerator(ctx context.Context, id string) (*Generator, error)

	// DeleteGenerator removes a record, reporting whether it existed.
	// Repeated deletes of the same id are safe.
	DeleteGenerator(ctx context.Context, id string) (bool, error)
}
