package datasets

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// ValueType is the json type of a value. The declaration order is the tie-break order of type inference.
type ValueType int

const (
	ValueTypeNull ValueType = iota
	ValueTypeNumber
	ValueTypeBoolean
	ValueTypeString
	ValueTypeArray
	ValueTypeObject
	ValueTypeUnknown
)

// String returns the lower case name of the value type
func (v ValueType) String() string {
	switch v {
	case ValueTypeNull:
		return "null"
	case ValueTypeNumber:
		return "number"
	case ValueTypeBoolean:
		return "boolean"
	case ValueTypeString:
		return "string"
	case ValueTypeArray:
		return "array"
	case ValueTypeObject:
		return "object"
	default:
		return "unknown"
	}
}

// Classify returns the ValueType of a parsed json value
func Classify(result gjson.Result) ValueType {
	switch result.Type {
	case gjson.Null:
		return ValueTypeNull
	case gjson.Number:
		return ValueTypeNumber
	case gjson.True, gjson.False:
		return ValueTypeBoolean
	case gjson.String:
		return ValueTypeString
	case gjson.JSON:
		switch {
		case result.IsArray():
			return ValueTypeArray
		case result.IsObject():
			return ValueTypeObject
		}
	}
	return ValueTypeUnknown
}

// Value is a classified json value
type Value struct {
	typ    ValueType
	result gjson.Result
}

// NewValue classifies the parsed json value
func NewValue(result gjson.Result) Value {
	return Value{
		typ:    Classify(result),
		result: result,
	}
}

// Type returns the type of the value
func (v Value) Type() ValueType {
	return v.typ
}

// Result returns the parsed json value
func (v Value) Result() gjson.Result {
	return v.result
}

// IsNull returns true if the value is json null
func (v Value) IsNull() bool {
	return v.typ == ValueTypeNull
}

// MaxDecimalExponent bounds the decimal exponent of a coercible number. Numbers beyond it are not
// coerced and keep their literal text form.
const MaxDecimalExponent = 1000

// Decimal coerces numbers and numeric strings to a decimal. Strings are not trimmed and values whose
// exponent exceeds MaxDecimalExponent in either direction are not coerced.
func (v Value) Decimal() (decimal.Decimal, bool) {
	switch v.typ {
	case ValueTypeNumber:
		return parseNumber(v.result)
	case ValueTypeString:
		return parseDecimal(v.result.Str)
	default:
		return decimal.Zero, false
	}
}

// Bool returns the value as a boolean if it is one
func (v Value) Bool() (bool, bool) {
	if v.typ != ValueTypeBoolean {
		return false, false
	}
	return v.result.Bool(), true
}

// Text returns the canonical text form of the value. Strings are returned verbatim, numbers
// in canonical decimal form (or their literal when out of decimal range), arrays as their elements' text forms joined by ", " in brackets
// and objects as canonical json.
func (v Value) Text() string {
	switch v.typ {
	case ValueTypeNull:
		return "null"
	case ValueTypeNumber:
		return numberText(v.result)
	case ValueTypeBoolean:
		return lo.Ternary(v.result.Bool(), "true", "false")
	case ValueTypeString:
		return v.result.Str
	case ValueTypeArray:
		return "[" + joinElements(v.result) + "]"
	case ValueTypeObject:
		return canonicalJSON(v.result)
	default:
		return v.result.Raw
	}
}

// MarshalJSON encodes the value as canonical json
func (v Value) MarshalJSON() ([]byte, error) {
	return []byte(canonicalJSON(v.result)), nil
}

// joinElements joins the text forms of an array's elements with ", "
func joinElements(array gjson.Result) string {
	elements := lo.Map(array.Array(), func(element gjson.Result, _ int) string {
		return NewValue(element).Text()
	})
	return strings.Join(elements, ", ")
}

func parseNumber(result gjson.Result) (decimal.Decimal, bool) {
	return parseDecimal(strings.TrimSpace(result.Raw))
}

func parseDecimal(text string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, false
	}
	if exp := d.Exponent(); exp > MaxDecimalExponent || exp < -MaxDecimalExponent {
		return decimal.Zero, false
	}
	return d, true
}

// numberText returns the canonical decimal form of a json number or its trimmed literal
func numberText(result gjson.Result) string {
	if d, ok := parseNumber(result); ok {
		return d.String()
	}
	return strings.TrimSpace(result.Raw)
}

// canonicalJSON encodes the value with sorted object keys, canonical numbers and no html escaping
func canonicalJSON(result gjson.Result) string {
	buf := bytes.NewBuffer(nil)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(toNative(result)); err != nil {
		return result.Raw
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

func toNative(result gjson.Result) any {
	switch Classify(result) {
	case ValueTypeNull:
		return nil
	case ValueTypeNumber:
		return json.Number(numberText(result))
	case ValueTypeBoolean:
		return result.Bool()
	case ValueTypeString:
		return result.Str
	case ValueTypeArray:
		return lo.Map(result.Array(), func(element gjson.Result, _ int) any {
			return toNative(element)
		})
	case ValueTypeObject:
		obj := map[string]any{}
		result.ForEach(func(key, value gjson.Result) bool {
			if _, ok := obj[key.Str]; !ok {
				obj[key.Str] = toNative(value)
			}
			return true
		})
		return obj
	default:
		return json.RawMessage(result.Raw)
	}
}
