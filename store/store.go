// Package store persists cache rules.
package store

import (
	"errors"
	"fmt"
	"math"
	"time"

	"braces.dev/errtrace"
	"gopkg.in/yaml.v3"

	"github.com/always-cache/cache-directive/directive"
	"github.com/always-cache/cache-directive/rules"
)

var ErrNotFound = errors.New("rule not found")

// RuleStore is an ordered collection of rules.
// The order of the rules is the order in which they were added.
//
// Implementations must be thread-safe!
type RuleStore interface {
	// All returns all rules in order.
	All() (rules.Rules, error)
	// Add appends a rule and returns its id.
	Add(rule rules.Rule) (int64, error)
	// Remove deletes the rule with the given id.
	// It returns ErrNotFound if there is no such rule.
	Remove(id int64) error
	// Replace atomically replaces all rules.
	Replace(rules rules.Rules) error
}

// encodeRule returns the YAML representation of a rule.
// Durations are stored as whole seconds so they decode to the same header.
func encodeRule(rule rules.Rule) ([]byte, error) {
	if rule.Options != nil {
		opts := make(directive.Options, len(rule.Options))
		for k, v := range rule.Options {
			if d, ok := v.(time.Duration); ok {
				v = fmt.Sprintf("%ds", int64(math.Round(d.Seconds())))
			}
			opts[k] = v
		}
		rule.Options = opts
	}
	return errtrace.Wrap2(yaml.Marshal(rule))
}

func decodeRule(b []byte) (rules.Rule, error) {
	var rule rules.Rule
	err := yaml.Unmarshal(b, &rule)
	return rule, errtrace.Wrap(err)
}
