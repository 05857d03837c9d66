package datasets

const (
	// MissingGroupKey is the group of records that do not have the field
	MissingGroupKey = "__missing__"
	// NullGroupKey is the group of records whose field holds null
	NullGroupKey = "__null__"
)

// GroupKey canonicalizes an extraction into the key of its group. A string value equal to a sentinel
// shares the sentinel's group.
func GroupKey(extraction FieldExtraction) string {
	switch {
	case !extraction.Exists:
		return MissingGroupKey
	case extraction.Value.IsNull():
		return NullGroupKey
	case extraction.Value.Type() == ValueTypeArray:
		return joinElements(extraction.Value.Result())
	default:
		return extraction.Value.Text()
	}
}

// IsSentinelGroupKey returns true for the missing and null group keys
func IsSentinelGroupKey(key string) bool {
	return key == MissingGroupKey || key == NullGroupKey
}
