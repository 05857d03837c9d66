package datasets

import "strings"

// Comparator orders two field extractions, returning a negative number, zero or a positive number
type Comparator func(a, b FieldExtraction) int

// NewComparator returns a total order for the field type. Missing and null values sort after
// every present value in both directions and are equal to each other.
func NewComparator(fieldType FieldType, order SortOrder) Comparator {
	var compare Comparator
	switch fieldType {
	case FieldTypeNumeric:
		compare = compareNumeric
	case FieldTypeBoolean:
		compare = compareBoolean
	default:
		compare = compareText
	}
	return func(a, b FieldExtraction) int {
		if c := compareNullsLast(a, b); c != 0 || a.IsNullOrMissing() {
			return c
		}
		c := compare(a, b)
		if order.IsDescending() {
			return -c
		}
		return c
	}
}

func compareNullsLast(a, b FieldExtraction) int {
	aNull, bNull := a.IsNullOrMissing(), b.IsNullOrMissing()
	switch {
	case aNull && bNull:
		return 0
	case aNull:
		return 1
	case bNull:
		return -1
	default:
		return 0
	}
}

// compareNumeric compares decimals, falling back to a case-sensitive comparison of the text forms
// when either operand is not numeric
func compareNumeric(a, b FieldExtraction) int {
	da, aok := a.Value.Decimal()
	db, bok := b.Value.Decimal()
	if aok && bok {
		return da.Cmp(db)
	}
	return strings.Compare(a.Value.Text(), b.Value.Text())
}

// compareText compares the lower cased text forms
func compareText(a, b FieldExtraction) int {
	return strings.Compare(strings.ToLower(a.Value.Text()), strings.ToLower(b.Value.Text()))
}

// compareBoolean orders false before true, falling back to compareText when either operand is not a boolean
func compareBoolean(a, b FieldExtraction) int {
	ba, aok := a.Value.Bool()
	bb, bok := b.Value.Bool()
	if !aok || !bok {
		return compareText(a, b)
	}
	switch {
	case ba == bb:
		return 0
	case !ba:
		return -1
	default:
		return 1
	}
}
