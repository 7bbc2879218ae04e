// Package genregistry provides a reusable library for managing code-generator
// metadata with pluggable persistence and signed-URL backends.
//
// It exposes a single Service interface that orchestrates the four registry
// operations (list, create, get, delete) over two ports: a Repository for
// generator metadata and a Signer that brokers time-limited upload/download
// access to the generator's packaged artifact in an object store.
// Implementations of repositories (memory, Postgres) and signers (memory, S3)
// are provided under subpackages.
//
// Field Visibility
//
// The same Generator record is served through two transport surfaces (REST and
// MCP tools) which must agree on what each response shape exposes. The
// projection views in this package (FullView, ListView, UploadView) are the
// single definition of those visibility policies; transports apply them via
// Project instead of declaring their own response structs.
package genregistry
