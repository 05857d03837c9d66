package datasets_test

import (
	"strings"
	"testing"

	"github.com/autom8ter/datasets"
	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

func TestValue(t *testing.T) {
	t.Run("classify", func(t *testing.T) {
		cases := map[string]datasets.ValueType{
			`null`:    datasets.ValueTypeNull,
			`1`:       datasets.ValueTypeNumber,
			`-2.5e3`:  datasets.ValueTypeNumber,
			`true`:    datasets.ValueTypeBoolean,
			`false`:   datasets.ValueTypeBoolean,
			`"x"`:     datasets.ValueTypeString,
			`[1,2]`:   datasets.ValueTypeArray,
			`{"a":1}`: datasets.ValueTypeObject,
		}
		for raw, expected := range cases {
			assert.Equal(t, expected, datasets.Classify(gjson.Parse(raw)), raw)
		}
	})
	t.Run("text", func(t *testing.T) {
		cases := []struct {
			raw  string
			text string
		}{
			{raw: `1.50`, text: "1.5"},
			{raw: `1e3`, text: "1000"},
			{raw: `true`, text: "true"},
			{raw: `"Hello"`, text: "Hello"},
			{raw: `null`, text: "null"},
			{raw: `["java","spring"]`, text: "[java, spring]"},
			{raw: `[1,[2,3],null,{"b":1,"a":2}]`, text: `[1, [2, 3], null, {"a":2,"b":1}]`},
			{raw: `{"z":"<b>","a":[1.0,2]}`, text: `{"a":[1,2],"z":"<b>"}`},
			{raw: `1e1000`, text: "1" + strings.Repeat("0", 1000)},
			{raw: `1e100000000`, text: "1e100000000"},
			{raw: `-2.5E-100000000`, text: "-2.5E-100000000"},
			{raw: `{"n":1e100000000}`, text: `{"n":1e100000000}`},
		}
		for _, c := range cases {
			assert.Equal(t, c.text, datasets.NewValue(gjson.Parse(c.raw)).Text(), c.raw)
		}
	})
	t.Run("decimal coercion", func(t *testing.T) {
		d, ok := datasets.NewValue(gjson.Parse(`"42.10"`)).Decimal()
		assert.True(t, ok)
		assert.Equal(t, "42.1", d.String())
		d, ok = datasets.NewValue(gjson.Parse(`12345678901234567890.5`)).Decimal()
		assert.True(t, ok)
		assert.Equal(t, "12345678901234567890.5", d.String())
		_, ok = datasets.NewValue(gjson.Parse(`"abc"`)).Decimal()
		assert.False(t, ok)
		_, ok = datasets.NewValue(gjson.Parse(`true`)).Decimal()
		assert.False(t, ok)
	})
	t.Run("decimal coercion is bounded", func(t *testing.T) {
		for _, raw := range []string{`1e1001`, `1e-1001`, `1e100000000`, `"1e100000000"`, `"-1E-100000000"`, `1e99999999999`} {
			_, ok := datasets.NewValue(gjson.Parse(raw)).Decimal()
			assert.False(t, ok, raw)
		}
		d, ok := datasets.NewValue(gjson.Parse(`1e-1000`)).Decimal()
		assert.True(t, ok)
		assert.Equal(t, -datasets.MaxDecimalExponent, int(d.Exponent()))
	})
	t.Run("numeric strings are not trimmed", func(t *testing.T) {
		_, ok := datasets.NewValue(gjson.Parse(`" 5"`)).Decimal()
		assert.False(t, ok)
		_, ok = datasets.NewValue(gjson.Parse(`"5 "`)).Decimal()
		assert.False(t, ok)
	})
	t.Run("bool", func(t *testing.T) {
		b, ok := datasets.NewValue(gjson.Parse(`true`)).Bool()
		assert.True(t, ok)
		assert.True(t, b)
		_, ok = datasets.NewValue(gjson.Parse(`"true"`)).Bool()
		assert.False(t, ok)
	})
	t.Run("type names", func(t *testing.T) {
		assert.Equal(t, "number", datasets.ValueTypeNumber.String())
		assert.Equal(t, "unknown", datasets.ValueTypeUnknown.String())
	})
}
