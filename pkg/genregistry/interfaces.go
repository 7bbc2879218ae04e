package genregistry

import (
	"context"
	"time"
)

// Repository is the metadata port: persistence for Generator records.
//
// List applies the filter semantics documented on ListFilter and orders
// results descending by updated_at; ties are broken in an order that is
// stable within one adapter but not contractually specified. Get returns
// ErrGeneratorNotFound for a missing id; no prefix or partial matching.
// Create assigns the id and timestamps (see NewGenerator) and returns the
// stored record. Delete reports whether a record existed and was removed;
// deleting a missing id is not an error.
//
// Adapters wrap connectivity failures with ErrRepositoryUnavailable so
// callers can distinguish a broken backing store from an expected miss.
type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]*Generator, error)
	Get(ctx context.Context, id string) (*Generator, error)
	Create(ctx context.Context, req CreateGeneratorRequest) (*Generator, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// Signer is the upload/download port: it brokers time-limited access to the
// generator's artifact in the object store.
//
// BuildUploadInstruction is unconditional: the object need not exist, since
// the instruction is what allows the client to create it. GetDownloadURL is
// conditional: it returns an empty URL both when the generator carries no
// artifact reference and when the underlying object does not exist yet. The
// two cases are indistinguishable to the caller so that a download URL never
// promises content that isn't there.
type Signer interface {
	BuildUploadInstruction(ctx context.Context, generator *Generator) (*UploadInstruction, error)
	GetDownloadURL(ctx context.Context, generator *Generator) (string, time.Time, error)
}
