package genregistry

// Request/Response DTOs

// UploadRequest carries the caller's upload intent for a new generator.
type UploadRequest struct {
	ContentType string `json:"content_type"`
}

// CreateGeneratorRequest contains parameters for registering a generator.
// The same shape is decoded from the REST body and the MCP tool's "body"
// argument; Validate must pass before it reaches the Service.
type CreateGeneratorRequest struct {
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Language    string        `json:"language"`
	Stack       string        `json:"stack,omitempty"`
	Version     string        `json:"version,omitempty"`
	Tags        []string      `json:"tags,omitempty"`
	Entrypoint  string        `json:"entrypoint,omitempty"`
	Upload      UploadRequest `json:"upload"`
}

// CreateGeneratorResult pairs the stored record with its upload instruction.
type CreateGeneratorResult struct {
	Generator *Generator
	Upload    *UploadInstruction
}
