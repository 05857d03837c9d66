package datasets

import (
	"fmt"
	"strings"

	"github.com/autom8ter/datasets/errors"
	"github.com/autom8ter/datasets/util"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"github.com/xeipuuv/gojsonschema"
)

// recordDataSchema accepts any json object whose keys are not blank
const recordDataSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "propertyNames": {
    "pattern": "\\S"
  }
}`

var recordSchema *gojsonschema.Schema

func init() {
	var err error
	recordSchema, err = gojsonschema.NewSchema(gojsonschema.NewStringLoader(recordDataSchema))
	if err != nil {
		panic(err)
	}
}

type datasetNameRule struct {
	Name string `validate:"max=255,dataset_name"`
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// datasetNameViolations returns a message for every rule the dataset name breaks
func datasetNameViolations(name string) []string {
	err := util.ValidateStruct(&datasetNameRule{Name: name})
	if err == nil {
		return nil
	}
	fieldErrs, ok := errors.Extract(err).Err.(validator.ValidationErrors)
	if !ok {
		return []string{errors.Extract(err).Message()}
	}
	var violations []string
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "max":
			violations = append(violations, "Dataset name exceeds maximum length of 255 characters")
		case "dataset_name":
			violations = append(violations, "Dataset name must start with letter or underscore and contain only alphanumeric characters, underscores, or hyphens")
		default:
			violations = append(violations, fe.Error())
		}
	}
	return violations
}

// ValidateInsert validates an insert request before it touches storage
func ValidateInsert(req InsertRecordRequest) error {
	if isBlank(req.DatasetName) || req.Data == nil {
		return errors.NewKind(errors.Validation, errors.InvalidJSON, "Insert request is invalid")
	}
	if violations := datasetNameViolations(req.DatasetName); len(violations) > 0 {
		return errors.NewKind(errors.Validation, errors.DatasetValidation,
			"Dataset name validation failed: %s", strings.Join(violations, "; ")).WithDetails(violations...)
	}
	return ValidateRecordData(req.Data)
}

// ValidateRecordData validates that the document is a json object without blank keys. Empty objects are valid.
func ValidateRecordData(data *Document) error {
	if data == nil {
		return errors.NewKind(errors.Validation, errors.InvalidJSON, "JSON data cannot be null")
	}
	result, err := recordSchema.Validate(gojsonschema.NewBytesLoader(data.Bytes()))
	if err != nil {
		return errors.NewKind(errors.Validation, errors.InvalidJSON, "JSON data is not serializable: %s", err.Error())
	}
	if result.Valid() {
		return nil
	}
	violations := lo.Uniq(lo.Map(result.Errors(), func(e gojsonschema.ResultError, _ int) string {
		if e.Type() == "invalid_property_name" || e.Type() == "pattern" {
			return "JSON keys cannot be null or blank"
		}
		return e.String()
	}))
	return errors.NewKind(errors.Validation, errors.InvalidJSON,
		"JSON validation failed: %s", strings.Join(violations, "; ")).WithDetails(violations...)
}

// validateQuery validates the dataset name, the fields the operation requires and the sort order
func validateQuery(req QueryRequest, op Operation) (SortOrder, error) {
	if isBlank(req.DatasetName) {
		return "", errors.NewKind(errors.Validation, errors.InvalidJSON, "Query request is invalid")
	}
	suffix := ""
	if op == OperationGroupByThenSort {
		suffix = " for group-by-then-sort operation"
	}
	if op != OperationSortBy && !req.IsGroupByQuery() {
		return "", invalidField(req.DatasetName, req.GroupBy, "Group-by field is required"+suffix)
	}
	if op != OperationGroupBy && !req.IsSortByQuery() {
		return "", invalidField(req.DatasetName, req.SortBy, "Sort-by field is required"+suffix)
	}
	if violations := datasetNameViolations(req.DatasetName); len(violations) > 0 {
		return "", errors.NewKind(errors.Validation, errors.InvalidJSON,
			"Dataset name validation failed: %s", strings.Join(violations, "; ")).WithDetails(violations...)
	}
	if op == OperationGroupBy {
		return SortOrderAsc, nil
	}
	order, err := ParseSortOrder(req.SortOrder)
	if err != nil {
		return "", errors.Extract(err).WithDetails("Valid sort orders: 'asc' (ascending) or 'desc' (descending)")
	}
	return order, nil
}

func invalidField(dataset, field, msg string) error {
	return errors.NewKind(errors.Validation, errors.InvalidField, "%s", msg).
		WithDetails(fieldDetail(dataset, field))
}

func fieldDetail(dataset, field string) string {
	return fmt.Sprintf("Field '%s' in dataset '%s' is invalid", field, dataset)
}
