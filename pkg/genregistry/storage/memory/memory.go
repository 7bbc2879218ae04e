// Package memory provides an in-memory genregistry.Signer for development
// and tests. URLs are fabricated under a base URL instead of signed, and an
// object-presence set stands in for the object store: download URLs are only
// issued for objects that have been recorded as uploaded.
package memory

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/constructio/generator-registry/pkg/genregistry"
)

const (
	defaultBaseURL = "https://storage.invalid"
	defaultTTL     = 10 * time.Minute
)

// Signer is an in-memory implementation of the genregistry.Signer interface
type Signer struct {
	mu      sync.RWMutex
	baseURL string
	ttl     time.Duration
	objects map[string]struct{}
}

// New creates an in-memory signer with default base URL and expiry.
func New() *Signer {
	return NewWithOptions(defaultBaseURL, defaultTTL)
}

// NewWithOptions creates an in-memory signer with the given fake URL prefix
// and instruction lifetime.
func NewWithOptions(baseURL string, ttl time.Duration) *Signer {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Signer{
		baseURL: baseURL,
		ttl:     ttl,
		objects: make(map[string]struct{}),
	}
}

// MarkUploaded records that the object exists, simulating a completed
// client-side upload.
func (s *Signer) MarkUploaded(objectKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[objectKey] = struct{}{}
}

func (s *Signer) exists(objectKey string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[objectKey]
	return ok
}

func objectKey(g *genregistry.Generator) string {
	if g.Artifact != nil && g.Artifact.Object != "" {
		return g.Artifact.Object
	}
	return g.ID + "/" + genregistry.ArtifactObjectName
}

func (s *Signer) BuildUploadInstruction(ctx context.Context, g *genregistry.Generator) (*genregistry.UploadInstruction, error) {
	key := objectKey(g)

	artifact := &genregistry.ArtifactRef{Object: key, ContentType: genregistry.DefaultArtifactContentType}
	if g.Artifact != nil {
		a := *g.Artifact
		artifact = &a
	}
	if artifact.ContentType == "" {
		artifact.ContentType = genregistry.DefaultArtifactContentType
	}

	headers := map[string]string{"Content-Type": artifact.ContentType}
	expiresAt := time.Now().UTC().Add(s.ttl).Truncate(time.Second)

	return &genregistry.UploadInstruction{
		UploadURL: s.baseURL + "/upload/" + key,
		ExpiresAt: expiresAt,
		Method:    http.MethodPut,
		Headers:   headers,
		Artifact:  artifact,
	}, nil
}

func (s *Signer) GetDownloadURL(ctx context.Context, g *genregistry.Generator) (string, time.Time, error) {
	if g.Artifact == nil || g.Artifact.Object == "" {
		return "", time.Time{}, nil
	}
	if !s.exists(g.Artifact.Object) {
		return "", time.Time{}, nil
	}
	expiresAt := time.Now().UTC().Add(s.ttl).Truncate(time.Second)
	return s.baseURL + "/download/" + g.Artifact.Object, expiresAt, nil
}
