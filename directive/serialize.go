package directive

import (
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"braces.dev/errtrace"
)

// Serialize renders a canonical directive map as a Cache-Control header value.
//
// Directives are emitted in registry order, whatever the map order. Falsy
// values are skipped. An empty result means no header should be set.
func Serialize(m Map) (string, error) {
	directives := make([]string, 0, len(m))

	for _, name := range order {
		value, ok := m[name]
		if !ok || !truthy(value) {
			continue
		}

		switch CategoryOf(name) {
		case Delta:
			seconds, err := deltaSeconds(name, value)
			if err != nil {
				return "", errtrace.Wrap(err)
			}
			directives = append(directives, string(name)+"="+strconv.FormatInt(seconds, 10))
		case OptionalField:
			if b, ok := value.(bool); ok && b {
				directives = append(directives, string(name))
				continue
			}
			fields, err := fieldNames(name, value)
			if err != nil {
				return "", errtrace.Wrap(err)
			}
			if len(fields) > 0 {
				directives = append(directives, string(name)+`="`+strings.Join(fields, ", ")+`"`)
			}
		default:
			directives = append(directives, string(name))
		}
	}

	return strings.Join(directives, ", "), nil
}

// deltaSeconds converts a delta directive value to seconds.
func deltaSeconds(name Name, value any) (int64, error) {
	invalid := &Error{Kind: ErrInvalidDeltaValue, Directive: name, Value: value}

	switch v := value.(type) {
	case string:
		return errtrace.Wrap2(ParseDuration(v, name))
	case time.Duration:
		if v < 0 {
			return 0, invalid
		}
		return int64(math.Round(v.Seconds())), nil
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if rv.Int() < 0 {
			return 0, invalid
		}
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if rv.Uint() > math.MaxInt64 {
			return 0, invalid
		}
		return int64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		// decoded YAML/JSON numbers
		f := rv.Float()
		if f < 0 || f != math.Trunc(f) || f >= math.MaxInt64 {
			return 0, invalid
		}
		return int64(f), nil
	}
	return 0, invalid
}

// fieldNames flattens an optional-field directive value into validated
// field-name tokens. Entries equal to false are dropped.
func fieldNames(name Name, value any) ([]string, error) {
	var entries []any
	switch v := value.(type) {
	case []string:
		entries = make([]any, len(v))
		for i, s := range v {
			entries[i] = s
		}
	case []any:
		entries = v
	default:
		entries = []any{v}
	}

	fields := make([]string, 0, len(entries))
	for _, entry := range entries {
		if b, ok := entry.(bool); ok && !b {
			continue
		}
		s, ok := entry.(string)
		if !ok {
			return nil, &Error{Kind: ErrInvalidFieldValue, Directive: name, Value: entry}
		}
		if !IsValidToken(s) {
			return nil, &Error{Kind: ErrInvalidToken, Directive: name, Value: s}
		}
		fields = append(fields, s)
	}
	return fields, nil
}

// Render normalizes an intent and serializes the result.
func Render(intent Intent) (string, error) {
	m, err := Normalize(intent)
	if err != nil {
		return "", errtrace.Wrap(err)
	}
	return errtrace.Wrap2(Serialize(m))
}
