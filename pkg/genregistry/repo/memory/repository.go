package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/constructio/generator-registry/pkg/genregistry"
)

// DefaultBucket is the artifact bucket recorded on generators created through
// this adapter. Nothing is actually stored there; the signer decides where
// uploads really go.
const DefaultBucket = "constructio-generators"

// Repository implements genregistry.Repository using in-memory storage
type Repository struct {
	mu     sync.RWMutex
	items  map[string]*genregistry.Generator
	bucket string
}

// New creates a new empty in-memory repository
func New() *Repository {
	return &Repository{
		items:  make(map[string]*genregistry.Generator),
		bucket: DefaultBucket,
	}
}

// NewSeeded creates an in-memory repository preloaded with the development
// records used by local environments and examples.
func NewSeeded() *Repository {
	r := New()
	for _, g := range seedGenerators() {
		r.items[g.ID] = g
	}
	return r
}

func (r *Repository) List(ctx context.Context, filter genregistry.ListFilter) ([]*genregistry.Generator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*genregistry.Generator, 0, len(r.items))
	for _, g := range r.items {
		if filter.Matches(g) {
			result = append(result, g.Clone())
		}
	}

	// Descending by updated_at; id breaks ties so ordering is deterministic.
	sort.Slice(result, func(i, j int) bool {
		if !result[i].UpdatedAt.Equal(result[j].UpdatedAt) {
			return result[i].UpdatedAt.After(result[j].UpdatedAt)
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

func (r *Repository) Get(ctx context.Context, id string) (*genregistry.Generator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, exists := r.items[id]
	if !exists {
		return nil, genregistry.ErrGeneratorNotFound
	}
	return g.Clone(), nil
}

func (r *Repository) Create(ctx context.Context, req genregistry.CreateGeneratorRequest) (*genregistry.Generator, error) {
	g := genregistry.NewGenerator(req, r.bucket)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[g.ID] = g.Clone()
	return g, nil
}

func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[id]; !exists {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}

func mustTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return t
}

func seedGenerators() []*genregistry.Generator {
	return []*genregistry.Generator{
		{
			ID:          "gen_01htz7y4m7z7",
			Name:        "fastapi-crud",
			Description: "Generates CRUD scaffolding for FastAPI services.",
			Language:    "python",
			Stack:       "fastapi",
			Version:     "1.4.0",
			Tags:        []string{"api", "crud", "backend"},
			Entrypoint:  "generate.py",
			UploadStatus: genregistry.UploadStatusReady,
			Artifact: &genregistry.ArtifactRef{
				Bucket:      DefaultBucket,
				Object:      "fastapi-crud/1.4.0/generator.zip",
				ContentType: "application/zip",
			},
			CreatedAt: mustTime("2026-02-10T12:00:00Z"),
			UpdatedAt: mustTime("2026-02-14T16:30:00Z"),
		},
		{
			ID:          "gen_01htzzafw5q2",
			Name:        "nestjs-module",
			Description: "Creates baseline NestJS modules with tests.",
			Language:    "typescript",
			Stack:       "nestjs",
			Version:     "0.9.1",
			Tags:        []string{"backend", "module", "typescript"},
			Entrypoint:  "bin/generate",
			UploadStatus: genregistry.UploadStatusUploaded,
			Artifact: &genregistry.ArtifactRef{
				Bucket:      DefaultBucket,
				Object:      "nestjs-module/0.9.1/generator.zip",
				ContentType: "application/zip",
			},
			CreatedAt: mustTime("2026-02-09T08:45:00Z"),
			UpdatedAt: mustTime("2026-02-15T10:10:00Z"),
		},
		{
			ID:          "gen_01hu04g8mk2b",
			Name:        "laravel-crud-module",
			Description: "Scaffolds a Laravel CRUD module with migrations.",
			Language:    "php",
			Stack:       "laravel",
			Version:     "2.0.0",
			Tags:        []string{"php", "laravel", "crud"},
			Entrypoint:  "bin/generate",
			UploadStatus: genregistry.UploadStatusPending,
			Artifact: &genregistry.ArtifactRef{
				Bucket:      DefaultBucket,
				Object:      "laravel-crud-module/2.0.0/generator.zip",
				ContentType: "application/zip",
			},
			CreatedAt: mustTime("2026-02-12T09:20:00Z"),
			UpdatedAt: mustTime("2026-02-12T09:20:00Z"),
		},
	}
}
