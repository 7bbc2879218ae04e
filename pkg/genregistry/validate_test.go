package genregistry

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fields(t *testing.T, err error) []string {
	t.Helper()
	require.Error(t, err)
	verr, ok := err.(*ValidationError)
	require.True(t, ok, "expected *ValidationError, got %T", err)
	out := make([]string, 0, len(verr.Errors))
	for _, fe := range verr.Errors {
		out = append(out, fe.Field)
	}
	return out
}

func TestCreateGeneratorRequestValidate(t *testing.T) {
	valid := CreateGeneratorRequest{
		Name:     "fastapi-crud",
		Language: "python",
	}

	t.Run("valid request passes", func(t *testing.T) {
		assert.NoError(t, valid.Validate())
	})

	t.Run("missing name and language itemized together", func(t *testing.T) {
		err := CreateGeneratorRequest{}.Validate()
		assert.ElementsMatch(t, []string{"name", "language"}, fields(t, err))
	})

	t.Run("name too short", func(t *testing.T) {
		req := valid
		req.Name = "ab"
		assert.Equal(t, []string{"name"}, fields(t, req.Validate()))
	})

	t.Run("name rejects uppercase and underscores", func(t *testing.T) {
		for _, name := range []string{"FastAPI", "fast_api", "-leading", "trailing-", "double--hyphen"} {
			req := valid
			req.Name = name
			assert.Equal(t, []string{"name"}, fields(t, req.Validate()), "name %q", name)
		}
	})

	t.Run("name accepts slug forms", func(t *testing.T) {
		for _, name := range []string{"abc", "fastapi-crud", "gen-2-x", "a1b"} {
			req := valid
			req.Name = name
			assert.NoError(t, req.Validate(), "name %q", name)
		}
	})

	t.Run("unsupported language", func(t *testing.T) {
		req := valid
		req.Language = "cobol"
		assert.Equal(t, []string{"language"}, fields(t, req.Validate()))
	})

	t.Run("length limits", func(t *testing.T) {
		req := valid
		req.Description = strings.Repeat("d", 2001)
		req.Stack = strings.Repeat("s", 65)
		req.Version = strings.Repeat("v", 33)
		req.Entrypoint = strings.Repeat("e", 201)
		req.Upload.ContentType = strings.Repeat("c", 101)
		req.Tags = make([]string, 31)

		assert.ElementsMatch(t,
			[]string{"description", "stack", "version", "entrypoint", "upload.content_type", "tags"},
			fields(t, req.Validate()))
	})
}

func TestListFilterValidate(t *testing.T) {
	t.Run("zero filter is valid", func(t *testing.T) {
		assert.NoError(t, ListFilter{}.Validate())
	})

	t.Run("known language is valid", func(t *testing.T) {
		assert.NoError(t, ListFilter{Language: "typescript"}.Validate())
	})

	t.Run("unknown language rejected", func(t *testing.T) {
		assert.Equal(t, []string{"language"}, fields(t, ListFilter{Language: "cobol"}.Validate()))
	})

	t.Run("oversized scalars rejected", func(t *testing.T) {
		f := ListFilter{
			Version: strings.Repeat("v", 33),
			Stack:   strings.Repeat("s", 65),
		}
		assert.ElementsMatch(t, []string{"version", "stack"}, fields(t, f.Validate()))
	})
}
