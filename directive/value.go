package directive

import (
	"math"
	"reflect"
)

// Options holds caching options keyed by directive name or alias,
// e.g. {"maxAge": "1 hour", "private": "Set-Cookie"}.
//
// Values may be bools, integers (seconds), durations, duration strings,
// field-name strings or slices of field names. Keys that are neither a
// directive nor an alias are ignored.
type Options map[string]any

// Map is a canonical directive map, keyed by directive name.
type Map map[Name]any

// Has reports whether name is present with a truthy value.
func (m Map) Has(name Name) bool {
	v, ok := m[name]
	return ok && truthy(v)
}

// IsTrue reports whether name is set to exactly true.
func (m Map) IsTrue(name Name) bool {
	b, ok := m[name].(bool)
	return ok && b
}

// truthy reports whether an option value counts as set.
// nil, false, zero numbers, NaN and the empty string do not.
func truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f != 0 && !math.IsNaN(f)
	}
	return true
}
