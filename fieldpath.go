package datasets

import (
	"strings"

	"github.com/autom8ter/datasets/errors"
	"github.com/tidwall/gjson"
)

// FieldPath is a parsed dot notation path into a document. Segments are matched against object keys exactly.
type FieldPath []string

// ParseFieldPath splits the path on '.'. Blank paths and paths with empty segments are rejected.
func ParseFieldPath(path string) (FieldPath, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.NewKind(errors.Validation, errors.InvalidField, "Field name cannot be null or empty")
	}
	segments := strings.Split(path, ".")
	for _, s := range segments {
		if s == "" {
			return nil, errors.NewKind(errors.Validation, errors.InvalidField, "Field '%s' contains an empty path segment", path)
		}
	}
	return segments, nil
}

// String returns the path in dot notation
func (f FieldPath) String() string {
	return strings.Join(f, ".")
}

// FieldExtraction is the result of resolving a path. A missing field is distinct from a field holding null.
type FieldExtraction struct {
	Exists bool
	Value  Value
}

// IsNullOrMissing returns true if the field is missing or holds null
func (f FieldExtraction) IsNullOrMissing() bool {
	return !f.Exists || f.Value.IsNull()
}

// IsMissing returns true if the field is missing
func (f FieldExtraction) IsMissing() bool {
	return !f.Exists
}

// Resolve walks the path from the document root. Every step must land on an object holding the next segment.
func Resolve(doc *Document, path FieldPath) FieldExtraction {
	if doc == nil || len(path) == 0 {
		return FieldExtraction{}
	}
	current := doc.result
	for _, segment := range path {
		if !current.IsObject() {
			return FieldExtraction{}
		}
		var (
			next  gjson.Result
			found bool
		)
		current.ForEach(func(key, value gjson.Result) bool {
			if key.Str == segment {
				next = value
				found = true
				return false
			}
			return true
		})
		if !found {
			return FieldExtraction{}
		}
		current = next
	}
	return FieldExtraction{
		Exists: true,
		Value:  NewValue(current),
	}
}

// ResolveAll resolves the path against every document in order
func ResolveAll(docs Documents, path FieldPath) []FieldExtraction {
	extractions := make([]FieldExtraction, len(docs))
	for i, doc := range docs {
		extractions[i] = Resolve(doc, path)
	}
	return extractions
}
