package datasets

import (
	"strings"

	"github.com/autom8ter/datasets/errors"
)

// SortOrder is the direction of a sort
type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

// ParseSortOrder parses asc/ascending/desc/descending case-insensitively. An empty value defaults to asc.
func ParseSortOrder(value string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "asc", "ascending":
		return SortOrderAsc, nil
	case "desc", "descending":
		return SortOrderDesc, nil
	default:
		return "", errors.NewKind(errors.Validation, errors.InvalidSortOrder, "Invalid sort order: %s. Must be 'asc' or 'desc'", value)
	}
}

// IsDescending returns true if the order is descending
func (s SortOrder) IsDescending() bool {
	return s == SortOrderDesc
}
