package datasets

import (
	"fmt"
	"sort"
)

// GroupBy partitions the documents by the canonical group key of the field. Groups keep the order in
// which their keys were first seen and documents keep their order within a group.
func GroupBy(dataset string, docs Documents, field string) (*QueryResponse, error) {
	path, err := ParseFieldPath(field)
	if err != nil {
		return nil, err
	}
	groups, metadata := groupDocuments(docs, path)
	return &QueryResponse{
		Success:      true,
		DatasetName:  dataset,
		Operation:    OperationGroupBy,
		Field:        field,
		TotalRecords: len(docs),
		Groups:       groups,
		Metadata:     metadata,
	}, nil
}

// SortBy stably sorts the documents by the field using the inferred field type. Documents missing the
// field or holding null sort last in both directions.
func SortBy(dataset string, docs Documents, field string, order SortOrder) (*QueryResponse, error) {
	path, err := ParseFieldPath(field)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		results := Documents{}
		return &QueryResponse{
			Success:      true,
			DatasetName:  dataset,
			Operation:    OperationSortBy,
			Field:        field,
			Results:      &results,
			SortMetadata: emptySortMetadata(order),
		}, nil
	}
	sorted, decision := sortDocuments(docs, path, order)
	return &QueryResponse{
		Success:      true,
		DatasetName:  dataset,
		Operation:    OperationSortBy,
		Field:        field,
		TotalRecords: len(sorted),
		Results:      &sorted,
		SortMetadata: &SortMetadata{
			SortOrder:               order,
			FieldType:               decision.Type,
			RecordsWithMissingField: decision.MissingCount,
			RecordsWithNullField:    decision.NullCount,
			RecordsWithTypeMismatch: decision.TypeMismatchCount,
			Warnings:                decision.Warnings,
		},
	}, nil
}

// GroupByThenSort groups the documents by groupField and then sorts each group by sortField. Each group
// infers the sort field's type on its own.
func GroupByThenSort(dataset string, docs Documents, groupField, sortField string, order SortOrder) (*QueryResponse, error) {
	groupPath, err := ParseFieldPath(groupField)
	if err != nil {
		return nil, err
	}
	sortPath, err := ParseFieldPath(sortField)
	if err != nil {
		return nil, err
	}
	groups, metadata := groupDocuments(docs, groupPath)
	resp := &QueryResponse{
		Success:      true,
		DatasetName:  dataset,
		Operation:    OperationGroupByThenSort,
		Field:        groupField,
		SortField:    sortField,
		TotalRecords: len(docs),
		Groups:       groups,
		Metadata:     metadata,
	}
	if len(docs) == 0 {
		resp.SortMetadata = emptySortMetadata(order)
		return resp, nil
	}
	sortMetadata := &SortMetadata{
		SortOrder: order,
		FieldType: FieldTypeMixed,
		Warnings: []string{
			fmt.Sprintf("Records grouped by '%s', then sorted by '%s' within each group", groupField, sortField),
		},
	}
	groups.Range(func(group *Group) bool {
		sorted, decision := sortDocuments(group.Documents, sortPath, order)
		group.Documents = sorted
		sortMetadata.RecordsWithMissingField += decision.MissingCount
		sortMetadata.RecordsWithNullField += decision.NullCount
		sortMetadata.RecordsWithTypeMismatch += decision.TypeMismatchCount
		return true
	})
	resp.SortMetadata = sortMetadata
	return resp, nil
}

func groupDocuments(docs Documents, path FieldPath) (*Groups, *GroupMetadata) {
	var (
		groups   = NewGroups()
		metadata = &GroupMetadata{GroupSizes: map[string]int{}}
	)
	for _, doc := range docs {
		extraction := Resolve(doc, path)
		switch {
		case !extraction.Exists:
			metadata.RecordsWithMissingField++
		case extraction.Value.IsNull():
			metadata.RecordsWithNullField++
		}
		groups.Add(GroupKey(extraction), doc)
	}
	groups.Range(func(group *Group) bool {
		if !IsSentinelGroupKey(group.Key) {
			metadata.TotalGroups++
			metadata.GroupSizes[group.Key] = len(group.Documents)
		}
		return true
	})
	return groups, metadata
}

type sortable struct {
	doc        *Document
	extraction FieldExtraction
}

// sortDocuments returns a sorted copy of the documents. The input is never reordered.
func sortDocuments(docs Documents, path FieldPath, order SortOrder) (Documents, FieldTypeDecision) {
	var (
		values      = make([]sortable, len(docs))
		extractions = ResolveAll(docs, path)
	)
	for i, doc := range docs {
		values[i] = sortable{doc: doc, extraction: extractions[i]}
	}
	decision := InferFieldType(extractions)
	compare := NewComparator(decision.Type, order)
	sort.SliceStable(values, func(i, j int) bool {
		return compare(values[i].extraction, values[j].extraction) < 0
	})
	sorted := make(Documents, len(values))
	for i, v := range values {
		sorted[i] = v.doc
	}
	return sorted, decision
}

func emptySortMetadata(order SortOrder) *SortMetadata {
	return &SortMetadata{
		SortOrder: order,
		FieldType: FieldTypeUnknown,
		Warnings:  []string{"Dataset is empty"},
	}
}
