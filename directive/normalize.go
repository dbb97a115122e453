package directive

import (
	"slices"

	"braces.dev/errtrace"
	"github.com/rs/zerolog/log"
)

// Normalize resolves an intent into a canonical directive map.
//
// The pattern (if any) seeds the map, options are then resolved through the
// alias table and override it. Unknown option keys are dropped. Finally the
// exclusivity of public, private and no-cache/no-store is enforced and the
// implied directives are applied:
//   - no-store implies no-cache
//   - max-age without any of public, private, no-cache or no-store implies public
//   - s-maxage is dropped from private or uncached responses
func Normalize(intent Intent) (Map, error) {
	m := make(Map)

	switch intent.kind {
	case kindPattern, kindCombined:
		defaults, err := PatternDefaults(intent.pattern)
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
		m = defaults
	}

	for _, key := range optionKeys(intent.options) {
		value := intent.options[key]
		name := Canonicalize(key)
		if !IsValid(name) {
			log.Trace().Str("option", key).Interface("value", value).Msg("non-standard option ignored")
			continue
		}
		m[name] = value
	}

	exclusive := 0
	if m.Has(Public) {
		exclusive++
	}
	if m.IsTrue(Private) {
		exclusive++
	}
	if m.IsTrue(NoCache) || m.Has(NoStore) {
		exclusive++
	}
	if exclusive > 1 {
		return nil, errtrace.Wrap(ErrConflictingDirectives)
	}

	if m.Has(NoStore) && !m.Has(NoCache) {
		m[NoCache] = true
	}

	uncached := m.IsTrue(Private) || m.IsTrue(NoCache) || m.Has(NoStore)

	if m.Has(MaxAge) && !m.Has(Public) && !uncached {
		m[Public] = true
	}

	if uncached {
		delete(m, SMaxAge)
	}

	return m, nil
}

// optionKeys returns the option keys in resolution order: aliases first,
// then exact directive names, each group sorted. When several keys resolve
// to the same directive the last one wins, so an exact name beats an alias.
func optionKeys(opts Options) []string {
	var aliased, exact []string
	for key := range opts {
		if _, ok := aliases[key]; ok {
			aliased = append(aliased, key)
		} else {
			exact = append(exact, key)
		}
	}
	slices.Sort(aliased)
	slices.Sort(exact)
	return append(aliased, exact...)
}
