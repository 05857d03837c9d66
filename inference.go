package datasets

import (
	"fmt"
	"strings"
)

// FieldType is the sort strategy chosen for a field
type FieldType string

const (
	FieldTypeNumeric FieldType = "numeric"
	FieldTypeString  FieldType = "string"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeMixed   FieldType = "mixed"
	// FieldTypeUnknown is only reported for empty datasets
	FieldTypeUnknown FieldType = "unknown"
)

const (
	inferenceSampleSize = 10
	inferenceThreshold  = 0.8
)

// FieldTypeDecision is the outcome of type inference over a batch of extractions
type FieldTypeDecision struct {
	Type              FieldType
	MissingCount      int
	NullCount         int
	TypeMismatchCount int
	Warnings          []string
	// Votes counts the types of the sampled present non-null values
	Votes map[ValueType]int
}

// InferFieldType decides the sort strategy for a field. Missing and null values are counted over the
// whole batch while only the first 10 present non-null values vote on the type. The winning type is
// adopted if it is the only type seen or it holds at least 80% of the votes.
func InferFieldType(extractions []FieldExtraction) FieldTypeDecision {
	decision := FieldTypeDecision{
		Votes:    map[ValueType]int{},
		Warnings: []string{},
	}
	sampled := 0
	for _, e := range extractions {
		switch {
		case !e.Exists:
			decision.MissingCount++
		case e.Value.IsNull():
			decision.NullCount++
		case sampled < inferenceSampleSize:
			decision.Votes[e.Value.Type()]++
			sampled++
		}
	}
	if sampled == 0 {
		decision.Type = FieldTypeMixed
		decision.Warnings = append(decision.Warnings, "All values are null or missing")
		return decision
	}
	winner, winnerVotes := ValueTypeUnknown, 0
	for typ := ValueTypeNumber; typ <= ValueTypeUnknown; typ++ {
		if decision.Votes[typ] > winnerVotes {
			winner, winnerVotes = typ, decision.Votes[typ]
		}
	}
	decision.TypeMismatchCount = sampled - winnerVotes
	if len(decision.Votes) == 1 || float64(winnerVotes) >= float64(sampled)*inferenceThreshold {
		decision.Type = fieldTypeOf(winner)
	} else {
		decision.Type = FieldTypeMixed
		decision.Warnings = append(decision.Warnings, fmt.Sprintf("Field contains mixed types (%s). Sorting as strings.", formatVotes(decision.Votes)))
	}
	if decision.NullCount > 0 {
		decision.Warnings = append(decision.Warnings, fmt.Sprintf("%d records have null values (sorted to end)", decision.NullCount))
	}
	if decision.MissingCount > 0 {
		decision.Warnings = append(decision.Warnings, fmt.Sprintf("%d records missing the field (sorted to end)", decision.MissingCount))
	}
	return decision
}

func fieldTypeOf(typ ValueType) FieldType {
	switch typ {
	case ValueTypeNumber:
		return FieldTypeNumeric
	case ValueTypeBoolean:
		return FieldTypeBoolean
	case ValueTypeString:
		return FieldTypeString
	default:
		return FieldTypeMixed
	}
}

// formatVotes renders votes as "number:3, string:1" in type order
func formatVotes(votes map[ValueType]int) string {
	var parts []string
	for typ := ValueTypeNumber; typ <= ValueTypeUnknown; typ++ {
		if n := votes[typ]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", typ, n))
		}
	}
	return strings.Join(parts, ", ")
}
