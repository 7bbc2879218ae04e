package genregistry

import "encoding/json"

// ViewMode selects how a View's field set is interpreted.
type ViewMode string

// View modes.
const (
	ModeAllow ViewMode = "allow"
	ModeDeny  ViewMode = "deny"
)

// View is a named field-visibility policy applied when serializing a value
// for a given response context. Mode allow keeps only the listed fields;
// mode deny drops them and keeps everything else.
type View struct {
	Mode   ViewMode
	Fields map[string]struct{}
}

func fieldSet(fields []string) map[string]struct{} {
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// AllowView builds a view that keeps only the listed top-level fields.
func AllowView(fields ...string) View {
	return View{Mode: ModeAllow, Fields: fieldSet(fields)}
}

// DenyView builds a view that drops the listed top-level fields.
func DenyView(fields ...string) View {
	return View{Mode: ModeDeny, Fields: fieldSet(fields)}
}

// The three response shapes served by every transport surface.
var (
	// FullView is the single-get shape and the generator half of a create
	// response: the whole record minus internal artifact bookkeeping.
	FullView = DenyView("artifact", "entrypoint")

	// ListView is the low-bandwidth discovery shape: a strict allow-list.
	ListView = AllowView("id", "name", "description", "language", "stack")

	// UploadView is the upload half of a create response. The client already
	// holds the upload URL; it does not need the artifact bookkeeping.
	UploadView = DenyView("artifact")
)

// Project serializes v through its JSON representation and filters top-level
// keys according to the view. Null fields are omitted entirely rather than
// emitted as null, so every transport produces the same sparse documents.
func Project(v any, view View) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}

	out := make(map[string]any, len(doc))
	for key, value := range doc {
		if value == nil {
			continue
		}
		_, listed := view.Fields[key]
		if view.Mode == ModeAllow && !listed {
			continue
		}
		if view.Mode == ModeDeny && listed {
			continue
		}
		out[key] = value
	}
	return out, nil
}

// ProjectAll applies Project to each item, preserving order. The result is
// never nil so list responses serialize as [] rather than null.
func ProjectAll(items []*Generator, view View) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		doc, err := Project(item, view)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}
