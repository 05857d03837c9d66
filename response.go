package datasets

import (
	"bytes"
	"encoding/json"

	"github.com/autom8ter/datasets/errors"
	"github.com/tidwall/gjson"
)

// Operation is the kind of query that produced a response
type Operation string

const (
	OperationGroupBy         Operation = "group_by"
	OperationSortBy          Operation = "sort_by"
	OperationGroupByThenSort Operation = "group_by_then_sort"
)

// QueryResponse is the result of a query against a dataset
type QueryResponse struct {
	Success      bool           `json:"success"`
	DatasetName  string         `json:"dataset_name"`
	Operation    Operation      `json:"operation"`
	Field        string         `json:"field"`
	SortField    string         `json:"sort_field,omitempty"`
	TotalRecords int            `json:"total_records"`
	Groups       *Groups        `json:"groups,omitempty"`
	Results      *Documents     `json:"results,omitempty"`
	Metadata     *GroupMetadata `json:"metadata,omitempty"`
	SortMetadata *SortMetadata  `json:"sort_metadata,omitempty"`
}

// GroupMetadata describes a grouping. TotalGroups and GroupSizes exclude the missing and null groups.
type GroupMetadata struct {
	TotalGroups             int            `json:"total_groups"`
	RecordsWithMissingField int            `json:"records_with_missing_field"`
	RecordsWithNullField    int            `json:"records_with_null_field"`
	GroupSizes              map[string]int `json:"group_sizes"`
}

// SortMetadata describes a sort
type SortMetadata struct {
	SortOrder               SortOrder `json:"sort_order"`
	FieldType               FieldType `json:"field_type"`
	RecordsWithMissingField int       `json:"records_with_missing_field"`
	RecordsWithNullField    int       `json:"records_with_null_field"`
	RecordsWithTypeMismatch int       `json:"records_with_type_mismatch"`
	Warnings                []string  `json:"warnings"`
}

// Group is a named bucket of documents
type Group struct {
	Key       string
	Documents Documents
}

// Groups is an insertion ordered set of groups. It encodes as a json object whose keys keep their insertion order.
type Groups struct {
	groups []*Group
	index  map[string]int
}

// NewGroups returns an empty set of groups
func NewGroups() *Groups {
	return &Groups{index: map[string]int{}}
}

// Add appends the document to the group with the given key, creating the group if it does not exist
func (g *Groups) Add(key string, doc *Document) {
	if g.index == nil {
		g.index = map[string]int{}
	}
	i, ok := g.index[key]
	if !ok {
		i = len(g.groups)
		g.index[key] = i
		g.groups = append(g.groups, &Group{Key: key})
	}
	g.groups[i].Documents = append(g.groups[i].Documents, doc)
}

// Get returns the documents of the group with the given key
func (g *Groups) Get(key string) (Documents, bool) {
	i, ok := g.index[key]
	if !ok {
		return nil, false
	}
	return g.groups[i].Documents, true
}

// Keys returns the group keys in insertion order
func (g *Groups) Keys() []string {
	keys := make([]string, 0, len(g.groups))
	for _, grp := range g.groups {
		keys = append(keys, grp.Key)
	}
	return keys
}

// Len returns the number of groups
func (g *Groups) Len() int {
	return len(g.groups)
}

// Range calls fn on each group in insertion order until fn returns false
func (g *Groups) Range(fn func(group *Group) bool) {
	for _, grp := range g.groups {
		if !fn(grp) {
			return
		}
	}
}

// MarshalJSON encodes the groups as a json object in insertion order
func (g *Groups) MarshalJSON() ([]byte, error) {
	buf := bytes.NewBufferString("{")
	for i, grp := range g.groups {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(grp.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		docs := grp.Documents
		if docs == nil {
			docs = Documents{}
		}
		bits, err := json.Marshal(docs)
		if err != nil {
			return nil, err
		}
		buf.Write(bits)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a json object of document arrays, keeping the key order
func (g *Groups) UnmarshalJSON(bits []byte) error {
	result := gjson.ParseBytes(bits)
	if !result.IsObject() {
		return errors.NewKind(errors.Validation, errors.InvalidJSON, "groups must be a json object")
	}
	groups := NewGroups()
	var err error
	result.ForEach(func(key, value gjson.Result) bool {
		if !value.IsArray() {
			err = errors.NewKind(errors.Validation, errors.InvalidJSON, "group '%s' must be an array", key.Str)
			return false
		}
		if _, ok := groups.index[key.Str]; !ok {
			groups.index[key.Str] = len(groups.groups)
			groups.groups = append(groups.groups, &Group{Key: key.Str, Documents: Documents{}})
		}
		for _, element := range value.Array() {
			doc, derr := NewDocumentFromBytes([]byte(element.Raw))
			if derr != nil {
				err = derr
				return false
			}
			groups.Add(key.Str, doc)
		}
		return true
	})
	if err != nil {
		return err
	}
	*g = *groups
	return nil
}
