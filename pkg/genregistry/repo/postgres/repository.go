// Package postgres provides a Postgres-backed metadata adapter. Each
// generator is persisted as a flat JSONB document keyed by id, with
// updated_at mirrored into a column so listing order is computed by the
// database.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/constructio/generator-registry/pkg/genregistry"
)

// Schema is the DDL for the backing table.
const Schema = `
CREATE TABLE IF NOT EXISTS generators (
    id         text PRIMARY KEY,
    document   jsonb NOT NULL,
    updated_at timestamptz NOT NULL
)`

// Repository implements genregistry.Repository on a pgx connection pool.
type Repository struct {
	pool   *pgxpool.Pool
	bucket string
}

// New creates a Postgres-backed repository. bucket is recorded on the
// artifact reference of newly created generators.
func New(pool *pgxpool.Pool, bucket string) *Repository {
	return &Repository{pool: pool, bucket: bucket}
}

// EnsureSchema creates the backing table if it does not exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, Schema); err != nil {
		return &genregistry.RepositoryError{Op: "ensure_schema", Err: unavailable(err)}
	}
	return nil
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", genregistry.ErrRepositoryUnavailable, err)
}

func (r *Repository) List(ctx context.Context, filter genregistry.ListFilter) ([]*genregistry.Generator, error) {
	query := "SELECT document FROM generators"
	var conds []string
	var args []any

	// Scalar filters are pushed into SQL; tag superset matching happens in Go
	// after the fetch, the same split the document store imposes.
	addCond := func(field, value string) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf("document->>'%s' = $%d", field, len(args)))
	}
	if filter.Language != "" {
		addCond("language", filter.Language)
	}
	if filter.Version != "" {
		addCond("version", filter.Version)
	}
	if filter.Stack != "" {
		addCond("stack", filter.Stack)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY updated_at DESC, id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, &genregistry.RepositoryError{Op: "list", Err: unavailable(err)}
	}
	defer rows.Close()

	var result []*genregistry.Generator
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, &genregistry.RepositoryError{Op: "list", Err: err}
		}
		var g genregistry.Generator
		if err := json.Unmarshal(doc, &g); err != nil {
			return nil, &genregistry.RepositoryError{Op: "list", Err: err}
		}
		if filter.Matches(&g) {
			result = append(result, &g)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, &genregistry.RepositoryError{Op: "list", Err: unavailable(err)}
	}
	return result, nil
}

func (r *Repository) Get(ctx context.Context, id string) (*genregistry.Generator, error) {
	var doc []byte
	err := r.pool.QueryRow(ctx, "SELECT document FROM generators WHERE id = $1", id).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, genregistry.ErrGeneratorNotFound
	}
	if err != nil {
		return nil, &genregistry.RepositoryError{Op: "get", ID: id, Err: unavailable(err)}
	}

	var g genregistry.Generator
	if err := json.Unmarshal(doc, &g); err != nil {
		return nil, &genregistry.RepositoryError{Op: "get", ID: id, Err: err}
	}
	return &g, nil
}

func (r *Repository) Create(ctx context.Context, req genregistry.CreateGeneratorRequest) (*genregistry.Generator, error) {
	g := genregistry.NewGenerator(req, r.bucket)

	doc, err := json.Marshal(g)
	if err != nil {
		return nil, &genregistry.RepositoryError{Op: "create", ID: g.ID, Err: err}
	}

	_, err = r.pool.Exec(ctx,
		"INSERT INTO generators (id, document, updated_at) VALUES ($1, $2, $3)",
		g.ID, doc, g.UpdatedAt,
	)
	if err != nil {
		return nil, &genregistry.RepositoryError{Op: "create", ID: g.ID, Err: unavailable(err)}
	}
	return g, nil
}

func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, "DELETE FROM generators WHERE id = $1", id)
	if err != nil {
		return false, &genregistry.RepositoryError{Op: "delete", ID: id, Err: unavailable(err)}
	}
	return tag.RowsAffected() > 0, nil
}
