// Package directive turns caching intent into a Cache-Control header value.
//
// The closed set of response directives, their categories and the option
// aliases live in this file. Everything here is read-only after init.
package directive

import "fmt"

// Name is a Cache-Control response directive name.
type Name string

const (
	Public               Name = "public"
	Private              Name = "private"
	NoCache              Name = "no-cache"
	NoStore              Name = "no-store"
	MaxAge               Name = "max-age"
	SMaxAge              Name = "s-maxage"
	MustRevalidate       Name = "must-revalidate"
	ProxyRevalidate      Name = "proxy-revalidate"
	NoTransform          Name = "no-transform"
	StaleWhileRevalidate Name = "stale-while-revalidate"
	StaleIfError         Name = "stale-if-error"
)

// Category tells how a directive value is rendered.
type Category int

const (
	// Boolean directives are rendered bare.
	Boolean Category = iota
	// Delta directives carry a number of seconds.
	Delta
	// OptionalField directives are either bare or carry a list of field names.
	OptionalField
)

func (c Category) String() string {
	switch c {
	case Delta:
		return "delta"
	case OptionalField:
		return "optional-field"
	}
	return "boolean"
}

// order is also the serialization order.
var order = []Name{
	Public,
	Private,
	NoCache,
	NoStore,
	MaxAge,
	SMaxAge,
	MustRevalidate,
	ProxyRevalidate,
	NoTransform,
	StaleWhileRevalidate,
	StaleIfError,
}

var categories = map[Name]Category{
	Private:              OptionalField,
	NoCache:              OptionalField,
	MaxAge:               Delta,
	SMaxAge:              Delta,
	StaleWhileRevalidate: Delta,
	StaleIfError:         Delta,
}

// aliases maps camel-cased option keys to directive names.
var aliases = map[string]Name{
	"noCache":              NoCache,
	"noStore":              NoStore,
	"noTransform":          NoTransform,
	"mustRevalidate":       MustRevalidate,
	"proxyRevalidate":      ProxyRevalidate,
	"maxAge":               MaxAge,
	"sMaxage":              SMaxAge,
	"sMaxAge":              SMaxAge,
	"staleWhileRevalidate": StaleWhileRevalidate,
	"staleIfError":         StaleIfError,
}

var patterns = map[string]Map{
	"public":   {Public: true},
	"private":  {Private: true},
	"no-cache": {NoCache: true},
	"no-store": {NoStore: true},
}

var valid = func() map[Name]struct{} {
	m := make(map[Name]struct{}, len(order))
	for _, n := range order {
		m[n] = struct{}{}
	}
	return m
}()

// Names returns the recognized directive names in serialization order.
func Names() []Name {
	names := make([]Name, len(order))
	copy(names, order)
	return names
}

// IsValid reports whether name is a recognized directive.
func IsValid(name Name) bool {
	_, ok := valid[name]
	return ok
}

// CategoryOf returns the category of a directive.
// Unknown names are reported as Boolean.
func CategoryOf(name Name) Category {
	return categories[name]
}

// Canonicalize resolves an option key through the alias table.
// Keys that are not aliases are returned unchanged.
func Canonicalize(key string) Name {
	if name, ok := aliases[key]; ok {
		return name
	}
	return Name(key)
}

// PatternDefaults returns a fresh copy of the directives a named pattern expands to.
func PatternDefaults(pattern string) (Map, error) {
	defaults, ok := patterns[pattern]
	if !ok {
		return nil, fmt.Errorf("Cache-Control: %w %q", ErrUnknownPattern, pattern)
	}
	m := make(Map, len(defaults))
	for k, v := range defaults {
		m[k] = v
	}
	return m, nil
}

// Patterns returns the names of the known shorthand patterns.
func Patterns() []string {
	return []string{"public", "private", "no-cache", "no-store"}
}
