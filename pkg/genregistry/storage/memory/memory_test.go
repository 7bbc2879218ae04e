package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/constructio/generator-registry/pkg/genregistry"
	"github.com/constructio/generator-registry/pkg/genregistry/storage/memory"
)

func testGenerator() *genregistry.Generator {
	return &genregistry.Generator{
		ID: "gen_0123456789ab",
		Artifact: &genregistry.ArtifactRef{
			Object:      "gen_0123456789ab/generator.zip",
			ContentType: "application/zip",
		},
	}
}

func TestBuildUploadInstruction(t *testing.T) {
	signer := memory.New()
	ctx := context.Background()

	upload, err := signer.BuildUploadInstruction(ctx, testGenerator())
	require.NoError(t, err)

	assert.Equal(t, "https://storage.invalid/upload/gen_0123456789ab/generator.zip", upload.UploadURL)
	assert.Equal(t, "PUT", upload.Method)
	assert.Equal(t, "application/zip", upload.Headers["Content-Type"])
	assert.True(t, upload.ExpiresAt.After(time.Now()), "expiry must be strictly in the future")
	require.NotNil(t, upload.Artifact)
	assert.Equal(t, "gen_0123456789ab/generator.zip", upload.Artifact.Object)
}

func TestBuildUploadInstructionDerivesKey(t *testing.T) {
	signer := memory.New()

	g := &genregistry.Generator{ID: "gen_0123456789ab"}
	upload, err := signer.BuildUploadInstruction(context.Background(), g)
	require.NoError(t, err)

	assert.Contains(t, upload.UploadURL, "gen_0123456789ab/generator.zip")
	assert.Equal(t, genregistry.DefaultArtifactContentType, upload.Headers["Content-Type"])
}

func TestGetDownloadURL(t *testing.T) {
	signer := memory.New()
	ctx := context.Background()
	g := testGenerator()

	t.Run("absent before upload", func(t *testing.T) {
		url, expiresAt, err := signer.GetDownloadURL(ctx, g)
		require.NoError(t, err)
		assert.Empty(t, url)
		assert.True(t, expiresAt.IsZero())
	})

	t.Run("absent without artifact reference", func(t *testing.T) {
		url, _, err := signer.GetDownloadURL(ctx, &genregistry.Generator{ID: "gen_0123456789ab"})
		require.NoError(t, err)
		assert.Empty(t, url)
	})

	t.Run("present after upload", func(t *testing.T) {
		signer.MarkUploaded(g.Artifact.Object)

		url, expiresAt, err := signer.GetDownloadURL(ctx, g)
		require.NoError(t, err)
		assert.Equal(t, "https://storage.invalid/download/gen_0123456789ab/generator.zip", url)
		assert.True(t, expiresAt.After(time.Now()))
	})
}

func TestNewWithOptions(t *testing.T) {
	signer := memory.NewWithOptions("http://localhost:9000", time.Minute)

	upload, err := signer.BuildUploadInstruction(context.Background(), testGenerator())
	require.NoError(t, err)

	assert.Contains(t, upload.UploadURL, "http://localhost:9000/upload/")
	assert.WithinDuration(t, time.Now().Add(time.Minute), upload.ExpiresAt, 2*time.Second)
}
