package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/constructio/generator-registry/pkg/genregistry"
)

// GeneratorHandler handles HTTP requests for generators
type GeneratorHandler struct {
	service genregistry.Service
	logger  *slog.Logger
}

// NewGeneratorHandler creates a new generator handler
func NewGeneratorHandler(service genregistry.Service) *GeneratorHandler {
	return &GeneratorHandler{
		service: service,
		logger:  slog.Default(),
	}
}

// Routes returns the routes for generators
func (h *GeneratorHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListGenerators)
	r.Post("/", h.CreateGenerator)
	r.Get("/{generatorID}", h.GetGenerator)
	r.Delete("/{generatorID}", h.DeleteGenerator)

	return r
}

// ListGenerators lists generators in the discovery view, optionally filtered
// by language, version, stack and repeatable tag query parameters.
func (h *GeneratorHandler) ListGenerators(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := genregistry.ListFilter{
		Language: q.Get("language"),
		Version:  q.Get("version"),
		Stack:    q.Get("stack"),
		Tags:     q["tag"],
	}

	if err := filter.Validate(); err != nil {
		h.writeValidationError(w, r, err)
		return
	}

	items, err := h.service.ListGenerators(r.Context(), filter)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	projected, err := genregistry.ProjectAll(items, genregistry.ListView)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]any{"items": projected})
}

// CreateGenerator registers a generator and returns it together with an
// upload instruction for its artifact.
func (h *GeneratorHandler) CreateGenerator(w http.ResponseWriter, r *http.Request) {
	var req genregistry.CreateGeneratorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("malformed create body", "err", err)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, genregistry.ErrorResponse{
			Error:   "bad_request",
			Message: "Request body must be valid JSON",
		})
		return
	}

	if err := req.Validate(); err != nil {
		h.writeValidationError(w, r, err)
		return
	}

	result, err := h.service.CreateGenerator(r.Context(), req)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	generator, err := genregistry.Project(result.Generator, genregistry.FullView)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	upload, err := genregistry.Project(result.Upload, genregistry.UploadView)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]any{"generator": generator, "upload": upload})
}

// GetGenerator retrieves a generator by ID in the full view, with a download
// URL attached when the artifact is available.
func (h *GeneratorHandler) GetGenerator(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "generatorID")

	generator, err := h.service.GetGenerator(r.Context(), id)
	if errors.Is(err, genregistry.ErrGeneratorNotFound) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, genregistry.NotFoundResponse(id))
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	projected, err := genregistry.Project(generator, genregistry.FullView)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	render.JSON(w, r, projected)
}

// DeleteGenerator deletes a generator by ID
func (h *GeneratorHandler) DeleteGenerator(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "generatorID")

	deleted, err := h.service.DeleteGenerator(r.Context(), id)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if !deleted {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, genregistry.NotFoundResponse(id))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *GeneratorHandler) writeValidationError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *genregistry.ValidationError
	if !errors.As(err, &verr) {
		h.serverError(w, r, err)
		return
	}
	h.logger.Warn("validation failed", "path", r.URL.Path, "errors", verr.Errors)
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, genregistry.ValidationResponse(verr))
}

// serverError maps port failures and unhandled defects to a generic 500. The
// cause is logged with context and withheld from the client.
func (h *GeneratorHandler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, genregistry.ServerErrorResponse())
}
