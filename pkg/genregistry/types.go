package genregistry

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UploadStatus is the lifecycle marker for a generator's artifact binary.
// It starts at pending on creation and is advanced externally once the
// client-side upload completes; no operation in this library mutates it.
type UploadStatus string

// Upload status constants (typed).
const (
	UploadStatusPending  UploadStatus = "pending"
	UploadStatusUploaded UploadStatus = "uploaded"
	UploadStatusReady    UploadStatus = "ready"
	UploadStatusFailed   UploadStatus = "failed"
)

// Languages is the fixed set of values accepted for Generator.Language.
var Languages = []string{
	"python", "typescript", "javascript", "php", "csharp", "java", "go", "rust", "other",
}

// Artifact naming constants shared by metadata adapters and signers.
const (
	// ArtifactObjectName is the fixed object name under the generator's id prefix.
	ArtifactObjectName = "generator.zip"

	// DefaultArtifactContentType is assumed when the caller does not supply one.
	DefaultArtifactContentType = "application/zip"
)

// IDPrefix is prepended to every generator id.
const IDPrefix = "gen_"

// ArtifactRef identifies the packaged binary for a generator in the object
// store. It is set once at creation and not mutated by this library.
type ArtifactRef struct {
	Bucket      string `json:"bucket,omitempty"`
	Object      string `json:"object,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	SizeBytes   int64  `json:"size_bytes,omitempty"`
	SHA256      string `json:"sha256,omitempty"`
}

// Generator is a registered code generator's metadata record.
type Generator struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description,omitempty"`
	Language     string       `json:"language"`
	Stack        string       `json:"stack,omitempty"`
	Version      string       `json:"version,omitempty"`
	Tags         []string     `json:"tags,omitempty"`
	Entrypoint   string       `json:"entrypoint,omitempty"`
	UploadStatus UploadStatus `json:"upload_status"`
	Artifact     *ArtifactRef `json:"artifact,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`

	// Computed at read time by the Signer, never persisted.
	DownloadURL       string     `json:"download_url,omitempty"`
	DownloadExpiresAt *time.Time `json:"download_expires_at,omitempty"`
}

// Clone returns a deep copy of g so adapters can hand out records without
// sharing mutable state with their stores.
func (g *Generator) Clone() *Generator {
	c := *g
	if g.Tags != nil {
		c.Tags = append([]string(nil), g.Tags...)
	}
	if g.Artifact != nil {
		a := *g.Artifact
		c.Artifact = &a
	}
	if g.DownloadExpiresAt != nil {
		t := *g.DownloadExpiresAt
		c.DownloadExpiresAt = &t
	}
	return &c
}

// UploadInstruction is a single-use, time-limited authorization letting a
// client upload an artifact directly to the object store. ExpiresAt is
// strictly in the future at issuance; the object store, not this library,
// rejects expired uploads.
type UploadInstruction struct {
	UploadURL string            `json:"upload_url"`
	ExpiresAt time.Time         `json:"expires_at"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers"`
	Artifact  *ArtifactRef      `json:"artifact,omitempty"`
}

// ListFilter narrows a generator listing. Zero-valued fields impose no
// constraint.
type ListFilter struct {
	Language string
	Version  string
	Stack    string
	Tags     []string
}

// IsZero reports whether the filter imposes no constraint at all.
func (f ListFilter) IsZero() bool {
	return f.Language == "" && f.Version == "" && f.Stack == "" && len(f.Tags) == 0
}

// Matches reports whether g satisfies every supplied filter field. Scalar
// fields compare exactly and case-sensitively. The tag filter requires the
// record's case-folded tag set to be a superset of the filter's case-folded
// tags; order and duplicates are irrelevant.
func (f ListFilter) Matches(g *Generator) bool {
	if f.Language != "" && g.Language != f.Language {
		return false
	}
	if f.Version != "" && g.Version != f.Version {
		return false
	}
	if f.Stack != "" && g.Stack != f.Stack {
		return false
	}
	if len(f.Tags) > 0 {
		have := make(map[string]struct{}, len(g.Tags))
		for _, t := range g.Tags {
			have[strings.ToLower(t)] = struct{}{}
		}
		for _, t := range f.Tags {
			if _, ok := have[strings.ToLower(t)]; !ok {
				return false
			}
		}
	}
	return true
}

// NewGenerator materializes a full record from a validated create request.
// Shared by metadata adapters so id assignment, timestamping and artifact key
// derivation stay identical across backends: the id is IDPrefix plus a
// 12-character lowercase-hex random suffix, created_at equals updated_at at
// second precision, the upload status starts pending, and the artifact object
// key is "{id}/generator.zip" in the adapter's bucket.
func NewGenerator(req CreateGeneratorRequest, bucket string) *Generator {
	now := time.Now().UTC().Truncate(time.Second)
	u := uuid.New()
	id := IDPrefix + hex.EncodeToString(u[:])[:12]

	contentType := req.Upload.ContentType
	if contentType == "" {
		contentType = DefaultArtifactContentType
	}

	return &Generator{
		ID:           id,
		Name:         req.Name,
		Description:  req.Description,
		Language:     req.Language,
		Stack:        req.Stack,
		Version:      req.Version,
		Tags:         append([]string(nil), req.Tags...),
		Entrypoint:   req.Entrypoint,
		UploadStatus: UploadStatusPending,
		Artifact: &ArtifactRef{
			Bucket:      bucket,
			Object:      id + "/" + ArtifactObjectName,
			ContentType: contentType,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
