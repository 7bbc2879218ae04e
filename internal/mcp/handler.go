// Package mcp exposes the generator registry as MCP tools. The four tools
// mirror the REST surface at the data level: same argument shapes, same
// projected result shapes, and not-found signaled in the payload rather than
// as a protocol error.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/constructio/generator-registry/pkg/genregistry"
)

// Handler implements the generator registry MCP tools
type Handler struct {
	service genregistry.Service
	logger  *slog.Logger
}

// NewHandler creates a new instance of Handler
func NewHandler(service genregistry.Service) *Handler {
	return &Handler{
		service: service,
		logger:  slog.Default(),
	}
}

// RegisterTools registers the generator registry tools with the MCP server
func (h *Handler) RegisterTools(s *server.MCPServer) {
	s.AddTool(mcp.Tool{
		Name:        "list_generators",
		Description: "List generators with minimal fields for discovery. Optional filters: language, version, stack, tag.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"filters": map[string]any{
					"type":        "object",
					"description": "Optional filters; tag may be a string or an array of strings",
					"properties": map[string]any{
						"language": map[string]any{"type": "string"},
						"version":  map[string]any{"type": "string"},
						"stack":    map[string]any{"type": "string"},
						"tag":      map[string]any{"type": []string{"string", "array"}},
					},
				},
			},
		},
	}, h.handleListGenerators)

	s.AddTool(mcp.Tool{
		Name:        "create_generator",
		Description: "Register a generator and receive a time-limited upload instruction for its artifact.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"body": map[string]any{
					"type":        "object",
					"description": "Generator registration: {name, description?, language, stack?, version?, tags?, entrypoint?, upload:{content_type}}",
				},
			},
			Required: []string{"body"},
		},
	}, h.handleCreateGenerator)

	s.AddTool(mcp.Tool{
		Name:        "get_generator",
		Description: "Retrieve a generator by id, including a download URL when its artifact is available.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"generator_id": map[string]any{"type": "string"},
			},
			Required: []string{"generator_id"},
		},
	}, h.handleGetGenerator)

	s.AddTool(mcp.Tool{
		Name:        "delete_generator",
		Description: "Delete a generator by id.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"generator_id": map[string]any{"type": "string"},
			},
			Required: []string{"generator_id"},
		},
	}, h.handleDeleteGenerator)
}

// tagList accepts either a single string or an array of strings.
type tagList []string

func (t *tagList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*t = tagList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*t = tagList(many)
	return nil
}

type listFiltersArg struct {
	Language string  `json:"language"`
	Version  string  `json:"version"`
	Stack    string  `json:"stack"`
	Tag      tagList `json:"tag"`
}

// decodeArg round-trips a raw tool argument through JSON into dst.
func decodeArg(raw any, dst any) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (h *Handler) serverErrorResult(tool string, err error) (*mcp.CallToolResult, error) {
	h.logger.Error("tool call failed", "tool", tool, "err", err)
	return mcp.NewToolResultError("Internal server error"), nil
}

// handleListGenerators handles the list_generators tool call
func (h *Handler) handleListGenerators(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var filter genregistry.ListFilter
	if raw, ok := request.GetArguments()["filters"]; ok && raw != nil {
		var args listFiltersArg
		if err := decodeArg(raw, &args); err != nil {
			return jsonResult(genregistry.ErrorResponse{
				Error:   "bad_request",
				Message: "Invalid filters argument",
			})
		}
		filter = genregistry.ListFilter{
			Language: args.Language,
			Version:  args.Version,
			Stack:    args.Stack,
			Tags:     args.Tag,
		}
	}

	if err := filter.Validate(); err != nil {
		var verr *genregistry.ValidationError
		if errors.As(err, &verr) {
			return jsonResult(genregistry.ValidationResponse(verr))
		}
		return h.serverErrorResult("list_generators", err)
	}

	items, err := h.service.ListGenerators(ctx, filter)
	if err != nil {
		return h.serverErrorResult("list_generators", err)
	}

	projected, err := genregistry.ProjectAll(items, genregistry.ListView)
	if err != nil {
		return h.serverErrorResult("list_generators", err)
	}
	return jsonResult(map[string]any{"items": projected})
}

// handleCreateGenerator handles the create_generator tool call
func (h *Handler) handleCreateGenerator(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, ok := request.GetArguments()["body"]
	if !ok || raw == nil {
		return jsonResult(genregistry.ErrorResponse{
			Error:   "bad_request",
			Message: "Missing required argument 'body'",
		})
	}

	var req genregistry.CreateGeneratorRequest
	if err := decodeArg(raw, &req); err != nil {
		return jsonResult(genregistry.ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid body argument",
		})
	}

	if err := req.Validate(); err != nil {
		var verr *genregistry.ValidationError
		if errors.As(err, &verr) {
			return jsonResult(genregistry.ValidationResponse(verr))
		}
		return h.serverErrorResult("create_generator", err)
	}

	result, err := h.service.CreateGenerator(ctx, req)
	if err != nil {
		return h.serverErrorResult("create_generator", err)
	}

	generator, err := genregistry.Project(result.Generator, genregistry.FullView)
	if err != nil {
		return h.serverErrorResult("create_generator", err)
	}
	upload, err := genregistry.Project(result.Upload, genregistry.UploadView)
	if err != nil {
		return h.serverErrorResult("create_generator", err)
	}
	return jsonResult(map[string]any{"generator": generator, "upload": upload})
}

func generatorIDArg(request mcp.CallToolRequest) string {
	if raw, ok := request.GetArguments()["generator_id"]; ok {
		if id, ok := raw.(string); ok {
			return id
		}
	}
	return ""
}

// handleGetGenerator handles the get_generator tool call
func (h *Handler) handleGetGenerator(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := generatorIDArg(request)
	if id == "" {
		return jsonResult(genregistry.ErrorResponse{
			Error:   "bad_request",
			Message: "Missing required argument 'generator_id'",
		})
	}

	generator, err := h.service.GetGenerator(ctx, id)
	if errors.Is(err, genregistry.ErrGeneratorNotFound) {
		return jsonResult(genregistry.NotFoundResponse(id))
	}
	if err != nil {
		return h.serverErrorResult("get_generator", err)
	}

	projected, err := genregistry.Project(generator, genregistry.FullView)
	if err != nil {
		return h.serverErrorResult("get_generator", err)
	}
	return jsonResult(projected)
}

// handleDeleteGenerator handles the delete_generator tool call
func (h *Handler) handleDeleteGenerator(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := generatorIDArg(request)
	if id == "" {
		return jsonResult(genregistry.ErrorResponse{
			Error:   "bad_request",
			Message: "Missing required argument 'generator_id'",
		})
	}

	deleted, err := h.service.DeleteGenerator(ctx, id)
	if err != nil {
		return h.serverErrorResult("delete_generator", err)
	}
	if !deleted {
		return jsonResult(genregistry.NotFoundResponse(id))
	}
	return mcp.NewToolResultText(""), nil
}
