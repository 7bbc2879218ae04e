package genregistry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGenerator() *Generator {
	now := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
	return &Generator{
		ID:           "gen_0123456789ab",
		Name:         "fastapi-crud",
		Description:  "Generates CRUD scaffolding",
		Language:     "python",
		Stack:        "fastapi",
		Version:      "1.0.0",
		Tags:         []string{"api"},
		Entrypoint:   "generate.py",
		UploadStatus: UploadStatusPending,
		Artifact: &ArtifactRef{
			Bucket: "artifacts",
			Object: "gen_0123456789ab/generator.zip",
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestProjectFullView(t *testing.T) {
	doc, err := Project(sampleGenerator(), FullView)
	require.NoError(t, err)

	assert.NotContains(t, doc, "artifact")
	assert.NotContains(t, doc, "entrypoint")
	assert.Equal(t, "gen_0123456789ab", doc["id"])
	assert.Equal(t, "pending", doc["upload_status"])
	assert.Contains(t, doc, "created_at")
	assert.Contains(t, doc, "updated_at")
}

func TestProjectListView(t *testing.T) {
	doc, err := Project(sampleGenerator(), ListView)
	require.NoError(t, err)

	// The discovery view is an exact allow-list.
	assert.Len(t, doc, 5)
	for _, key := range []string{"id", "name", "description", "language", "stack"} {
		assert.Contains(t, doc, key)
	}
}

func TestProjectListViewOmitsEmptyFields(t *testing.T) {
	g := sampleGenerator()
	g.Description = ""
	g.Stack = ""

	doc, err := Project(g, ListView)
	require.NoError(t, err)

	// omitempty drops empty strings before projection runs.
	assert.NotContains(t, doc, "description")
	assert.NotContains(t, doc, "stack")
	assert.Len(t, doc, 3)
}

func TestProjectUploadView(t *testing.T) {
	upload := &UploadInstruction{
		UploadURL: "https://storage.invalid/upload/x",
		ExpiresAt: time.Now().UTC(),
		Method:    "PUT",
		Headers:   map[string]string{"Content-Type": "application/zip"},
		Artifact:  &ArtifactRef{Bucket: "artifacts", Object: "x"},
	}

	doc, err := Project(upload, UploadView)
	require.NoError(t, err)

	assert.NotContains(t, doc, "artifact")
	assert.Equal(t, "https://storage.invalid/upload/x", doc["upload_url"])
	assert.Equal(t, "PUT", doc["method"])
	assert.Contains(t, doc, "expires_at")
	assert.Contains(t, doc, "headers")
}

func TestProjectSkipsNullValues(t *testing.T) {
	// A nil artifact serializes away entirely; no view ever emits nulls.
	g := sampleGenerator()
	g.Artifact = nil

	doc, err := Project(g, DenyView())
	require.NoError(t, err)
	assert.NotContains(t, doc, "artifact")
}

func TestProjectAll(t *testing.T) {
	t.Run("preserves order", func(t *testing.T) {
		a := sampleGenerator()
		b := sampleGenerator()
		b.ID = "gen_ba9876543210"

		docs, err := ProjectAll([]*Generator{a, b}, ListView)
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, a.ID, docs[0]["id"])
		assert.Equal(t, b.ID, docs[1]["id"])
	})

	t.Run("empty input yields empty non-nil slice", func(t *testing.T) {
		docs, err := ProjectAll(nil, ListView)
		require.NoError(t, err)
		assert.NotNil(t, docs)
		assert.Empty(t, docs)
	})
}
