package directive

type intentKind int

const (
	kindNone intentKind = iota
	kindPattern
	kindOptions
	kindCombined
)

// Intent is the caller's caching intent: a shorthand pattern, a set of
// options, or a pattern refined by options.
//
// The zero Intent expresses nothing and renders no header.
type Intent struct {
	kind    intentKind
	pattern string
	options Options
}

// Pattern returns an intent for one of the shorthand patterns
// "public", "private", "no-cache" or "no-store".
func Pattern(name string) Intent {
	return Intent{kind: kindPattern, pattern: name}
}

// With returns an intent made of options only.
func With(opts Options) Intent {
	return Intent{kind: kindOptions, options: opts}
}

// Combined returns an intent seeded by a pattern and refined by options.
// Options override the pattern for the same directive.
func Combined(pattern string, opts Options) Intent {
	return Intent{kind: kindCombined, pattern: pattern, options: opts}
}

// PatternName returns the intent's pattern, if it has one.
func (i Intent) PatternName() (string, bool) {
	return i.pattern, i.kind == kindPattern || i.kind == kindCombined
}

// Options returns the intent's options. The returned map must not be modified.
func (i Intent) Options() Options {
	return i.options
}

// IsZero reports whether the intent expresses nothing.
func (i Intent) IsZero() bool {
	return i.kind == kindNone
}
