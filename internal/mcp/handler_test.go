package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/constructio/generator-registry/pkg/genregistry"
	"github.com/constructio/generator-registry/pkg/genregistry/repo/memory"
	memorystorage "github.com/constructio/generator-registry/pkg/genregistry/storage/memory"
)

func newTestHandler(t *testing.T) (*Handler, *memorystorage.Signer) {
	t.Helper()

	repo := memory.New()
	signer := memorystorage.New()

	svc, err := genregistry.New(
		genregistry.WithRepository(repo),
		genregistry.WithSigner(signer),
	)
	require.NoError(t, err)

	return NewHandler(svc), signer
}

func toolRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	tc, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return tc.Text
}

func resultJSON(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &doc))
	return doc
}

func createBodyArg() map[string]any {
	return map[string]any{
		"name":       "fastapi-crud",
		"language":   "python",
		"stack":      "fastapi",
		"tags":       []any{"api", "crud"},
		"entrypoint": "generate.py",
		"upload":     map[string]any{"content_type": "application/zip"},
	}
}

func TestCreateGeneratorTool(t *testing.T) {
	handler, _ := newTestHandler(t)
	ctx := context.Background()

	t.Run("valid body", func(t *testing.T) {
		result, err := handler.handleCreateGenerator(ctx, toolRequest(map[string]any{"body": createBodyArg()}))
		require.NoError(t, err)

		doc := resultJSON(t, result)
		generator, ok := doc["generator"].(map[string]any)
		require.True(t, ok)
		upload, ok := doc["upload"].(map[string]any)
		require.True(t, ok)

		assert.Regexp(t, `^gen_[0-9a-f]{12}$`, generator["id"])
		assert.NotContains(t, generator, "artifact")
		assert.NotContains(t, generator, "entrypoint")
		assert.NotEmpty(t, upload["upload_url"])
		assert.NotContains(t, upload, "artifact")
	})

	t.Run("missing body", func(t *testing.T) {
		result, err := handler.handleCreateGenerator(ctx, toolRequest(map[string]any{}))
		require.NoError(t, err)
		assert.Equal(t, "bad_request", resultJSON(t, result)["error"])
	})

	t.Run("validation failure itemizes fields", func(t *testing.T) {
		body := createBodyArg()
		body["name"] = "Not A Slug"

		result, err := handler.handleCreateGenerator(ctx, toolRequest(map[string]any{"body": body}))
		require.NoError(t, err)

		doc := resultJSON(t, result)
		assert.Equal(t, "bad_request", doc["error"])
		assert.Contains(t, doc, "details")
	})
}

func TestGetGeneratorTool(t *testing.T) {
	handler, signer := newTestHandler(t)
	ctx := context.Background()

	created, err := handler.handleCreateGenerator(ctx, toolRequest(map[string]any{"body": createBodyArg()}))
	require.NoError(t, err)
	id := resultJSON(t, created)["generator"].(map[string]any)["id"].(string)

	t.Run("found", func(t *testing.T) {
		result, err := handler.handleGetGenerator(ctx, toolRequest(map[string]any{"generator_id": id}))
		require.NoError(t, err)

		doc := resultJSON(t, result)
		assert.Equal(t, id, doc["id"])
		assert.NotContains(t, doc, "download_url")
	})

	t.Run("download url after upload", func(t *testing.T) {
		signer.MarkUploaded(id + "/" + genregistry.ArtifactObjectName)

		result, err := handler.handleGetGenerator(ctx, toolRequest(map[string]any{"generator_id": id}))
		require.NoError(t, err)
		assert.NotEmpty(t, resultJSON(t, result)["download_url"])
	})

	t.Run("not found reported in payload", func(t *testing.T) {
		result, err := handler.handleGetGenerator(ctx, toolRequest(map[string]any{"generator_id": "gen_000000000000"}))
		require.NoError(t, err)
		assert.False(t, result.IsError)
		assert.Equal(t, "not_found", resultJSON(t, result)["error"])
	})

	t.Run("missing id", func(t *testing.T) {
		result, err := handler.handleGetGenerator(ctx, toolRequest(map[string]any{}))
		require.NoError(t, err)
		assert.Equal(t, "bad_request", resultJSON(t, result)["error"])
	})
}

func TestListGeneratorsTool(t *testing.T) {
	handler, _ := newTestHandler(t)
	ctx := context.Background()

	first := createBodyArg()
	second := createBodyArg()
	second["name"] = "nestjs-module"
	second["language"] = "typescript"
	second["tags"] = []any{"backend", "module"}

	for _, body := range []map[string]any{first, second} {
		_, err := handler.handleCreateGenerator(ctx, toolRequest(map[string]any{"body": body}))
		require.NoError(t, err)
	}

	t.Run("unfiltered list view", func(t *testing.T) {
		result, err := handler.handleListGenerators(ctx, toolRequest(map[string]any{}))
		require.NoError(t, err)

		items, ok := resultJSON(t, result)["items"].([]any)
		require.True(t, ok)
		require.Len(t, items, 2)

		item := items[0].(map[string]any)
		assert.Contains(t, item, "id")
		assert.NotContains(t, item, "upload_status")
		assert.NotContains(t, item, "tags")
	})

	t.Run("string tag filter", func(t *testing.T) {
		result, err := handler.handleListGenerators(ctx, toolRequest(map[string]any{
			"filters": map[string]any{"tag": "backend"},
		}))
		require.NoError(t, err)

		items := resultJSON(t, result)["items"].([]any)
		require.Len(t, items, 1)
		assert.Equal(t, "nestjs-module", items[0].(map[string]any)["name"])
	})

	t.Run("array tag filter", func(t *testing.T) {
		result, err := handler.handleListGenerators(ctx, toolRequest(map[string]any{
			"filters": map[string]any{"tag": []any{"api", "CRUD"}},
		}))
		require.NoError(t, err)

		items := resultJSON(t, result)["items"].([]any)
		require.Len(t, items, 1)
		assert.Equal(t, "fastapi-crud", items[0].(map[string]any)["name"])
	})

	t.Run("invalid filter language", func(t *testing.T) {
		result, err := handler.handleListGenerators(ctx, toolRequest(map[string]any{
			"filters": map[string]any{"language": "cobol"},
		}))
		require.NoError(t, err)
		assert.Equal(t, "bad_request", resultJSON(t, result)["error"])
	})
}

func TestDeleteGeneratorTool(t *testing.T) {
	handler, _ := newTestHandler(t)
	ctx := context.Background()

	created, err := handler.handleCreateGenerator(ctx, toolRequest(map[string]any{"body": createBodyArg()}))
	require.NoError(t, err)
	id := resultJSON(t, created)["generator"].(map[string]any)["id"].(string)

	t.Run("delete returns empty text", func(t *testing.T) {
		result, err := handler.handleDeleteGenerator(ctx, toolRequest(map[string]any{"generator_id": id}))
		require.NoError(t, err)
		assert.Empty(t, resultText(t, result))
	})

	t.Run("second delete reports not found", func(t *testing.T) {
		result, err := handler.handleDeleteGenerator(ctx, toolRequest(map[string]any{"generator_id": id}))
		require.NoError(t, err)
		assert.Equal(t, "not_found", resultJSON(t, result)["error"])
	})
}

// Both transports serve identical generator documents for the same record.
func TestToolAndRESTViewParity(t *testing.T) {
	handler, _ := newTestHandler(t)
	ctx := context.Background()

	created, err := handler.handleCreateGenerator(ctx, toolRequest(map[string]any{"body": createBodyArg()}))
	require.NoError(t, err)
	id := resultJSON(t, created)["generator"].(map[string]any)["id"].(string)

	got, err := handler.service.GetGenerator(ctx, id)
	require.NoError(t, err)
	restDoc, err := genregistry.Project(got, genregistry.FullView)
	require.NoError(t, err)

	toolResult, err := handler.handleGetGenerator(ctx, toolRequest(map[string]any{"generator_id": id}))
	require.NoError(t, err)
	toolDoc := resultJSON(t, toolResult)

	restJSON, err := json.Marshal(restDoc)
	require.NoError(t, err)
	var restRoundTrip map[string]any
	require.NoError(t, json.Unmarshal(restJSON, &restRoundTrip))

	assert.Equal(t, restRoundTrip, toolDoc)
}
