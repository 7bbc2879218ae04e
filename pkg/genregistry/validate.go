package genregistry

import (
	"fmt"
	"regexp"
)

// Field limits mirrored by both transport surfaces.
const (
	minNameLen        = 3
	maxNameLen        = 80
	maxDescriptionLen = 2000
	maxStackLen       = 64
	maxVersionLen     = 32
	maxEntrypointLen  = 200
	maxContentTypeLen = 100
	maxTags           = 30
)

var namePattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func validLanguage(s string) bool {
	for _, l := range Languages {
		if s == l {
			return true
		}
	}
	return false
}

// Validate checks the request against registration policy and returns a
// *ValidationError itemizing every offending field, or nil.
func (r CreateGeneratorRequest) Validate() error {
	var errs []FieldError

	switch {
	case r.Name == "":
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	case len(r.Name) < minNameLen || len(r.Name) > maxNameLen:
		errs = append(errs, FieldError{
			Field:   "name",
			Message: fmt.Sprintf("name must be between %d and %d characters", minNameLen, maxNameLen),
		})
	case !namePattern.MatchString(r.Name):
		errs = append(errs, FieldError{
			Field:   "name",
			Message: "name must be a lowercase slug (letters, digits, single hyphens)",
		})
	}

	if r.Language == "" {
		errs = append(errs, FieldError{Field: "language", Message: "language is required"})
	} else if !validLanguage(r.Language) {
		errs = append(errs, FieldError{Field: "language", Message: "unsupported language"})
	}

	if len(r.Description) > maxDescriptionLen {
		errs = append(errs, FieldError{
			Field:   "description",
			Message: fmt.Sprintf("description must be at most %d characters", maxDescriptionLen),
		})
	}
	if len(r.Stack) > maxStackLen {
		errs = append(errs, FieldError{
			Field:   "stack",
			Message: fmt.Sprintf("stack must be at most %d characters", maxStackLen),
		})
	}
	if len(r.Version) > maxVersionLen {
		errs = append(errs, FieldError{
			Field:   "version",
			Message: fmt.Sprintf("version must be at most %d characters", maxVersionLen),
		})
	}
	if len(r.Entrypoint) > maxEntrypointLen {
		errs = append(errs, FieldError{
			Field:   "entrypoint",
			Message: fmt.Sprintf("entrypoint must be at most %d characters", maxEntrypointLen),
		})
	}
	if len(r.Tags) > maxTags {
		errs = append(errs, FieldError{
			Field:   "tags",
			Message: fmt.Sprintf("at most %d tags are allowed", maxTags),
		})
	}
	if len(r.Upload.ContentType) > maxContentTypeLen {
		errs = append(errs, FieldError{
			Field:   "upload.content_type",
			Message: fmt.Sprintf("content_type must be at most %d characters", maxContentTypeLen),
		})
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// Validate checks listing filter values. Unset fields are always valid.
func (f ListFilter) Validate() error {
	var errs []FieldError

	if f.Language != "" && !validLanguage(f.Language) {
		errs = append(errs, FieldError{Field: "language", Message: "unsupported language"})
	}
	if len(f.Version) > maxVersionLen {
		errs = append(errs, FieldError{
			Field:   "version",
			Message: fmt.Sprintf("version must be at most %d characters", maxVersionLen),
		})
	}
	if len(f.Stack) > maxStackLen {
		errs = append(errs, FieldError{
			Field:   "stack",
			Message: fmt.Sprintf("stack must be at most %d characters", maxStackLen),
		})
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}
