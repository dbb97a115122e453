// Package rules selects a Cache-Control intent for a response by request
// path, method and query, and applies it to proxied responses.
package rules

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"braces.dev/errtrace"
	"github.com/rs/zerolog/log"

	"github.com/always-cache/cache-directive/directive"
)

// ErrInvalidRule wraps every error caused by a rule that cannot be rendered.
var ErrInvalidRule = errors.New("invalid cache rule")

type Rules []Rule

// Rule maps matching requests to a caching intent.
// Empty match fields match everything; an empty Method matches GET and HEAD.
type Rule struct {
	Prefix string            `yaml:"prefix,omitempty"`
	Path   string            `yaml:"path,omitempty"`
	Method string            `yaml:"method,omitempty"`
	Query  map[string]string `yaml:"query,omitempty"`

	// Pattern and Options express the intent, see directive.Combined.
	Pattern string            `yaml:"pattern,omitempty"`
	Options directive.Options `yaml:"options,omitempty"`
	// Override replaces the origin's Cache-Control header.
	// Otherwise the rule only applies when the origin sent none.
	Override bool `yaml:"override,omitempty"`
	// Headers are set on every matching response.
	Headers map[string]string `yaml:"headers,omitempty"`
}

// Intent returns the caching intent expressed by the rule.
func (rule Rule) Intent() directive.Intent {
	switch {
	case rule.Pattern != "" && rule.Options != nil:
		return directive.Combined(rule.Pattern, rule.Options)
	case rule.Pattern != "":
		return directive.Pattern(rule.Pattern)
	case rule.Options != nil:
		return directive.With(rule.Options)
	}
	return directive.Intent{}
}

// Render returns the Cache-Control value of the rule.
func (rule Rule) Render() (string, error) {
	value, err := directive.Render(rule.Intent())
	if err != nil {
		return "", errtrace.Wrap(fmt.Errorf("%w: %w", ErrInvalidRule, err))
	}
	return value, nil
}

func (rule Rule) String() string {
	var match []string
	if rule.Method != "" {
		match = append(match, rule.Method)
	}
	if rule.Path != "" {
		match = append(match, rule.Path)
	}
	if rule.Prefix != "" {
		match = append(match, rule.Prefix+"*")
	}
	if len(match) == 0 {
		return "*"
	}
	return strings.Join(match, " ")
}

// Validate renders every rule and returns the first error.
func (r Rules) Validate() error {
	for i, rule := range r {
		if _, err := rule.Render(); err != nil {
			return errtrace.Wrap(fmt.Errorf("rule %d (%s): %w", i, rule, err))
		}
	}
	return nil
}

// cacheableStatus lists the status codes worth adding Cache-Control to.
var cacheableStatus = map[int]struct{}{
	http.StatusOK:                   {}, // 200
	http.StatusNonAuthoritativeInfo: {}, // 203
	http.StatusNoContent:            {}, // 204
	http.StatusPartialContent:       {}, // 206
	http.StatusMultipleChoices:      {}, // 300
	http.StatusMovedPermanently:     {}, // 301
	http.StatusPermanentRedirect:    {}, // 308
	http.StatusNotFound:             {}, // 404
	http.StatusMethodNotAllowed:     {}, // 405
	http.StatusGone:                 {}, // 410
	http.StatusRequestURITooLong:    {}, // 414
	http.StatusNotImplemented:       {}, // 501
}

// Apply sets the Cache-Control header of the first matching rule on res.
// It is meant to be used as httputil.ReverseProxy.ModifyResponse.
func (r Rules) Apply(res *http.Response) error {
	if _, ok := cacheableStatus[res.StatusCode]; !ok {
		return nil
	}
	if rule := r.Find(res.Request); rule != nil {
		return errtrace.Wrap(applyRuleToResponse(*rule, res))
	}
	return nil
}

func applyRuleToResponse(rule Rule, res *http.Response) error {
	value, err := rule.Render()
	if err != nil {
		return errtrace.Wrap(err)
	}
	if value != "" {
		if rule.Override {
			log.Trace().Str("rule", rule.String()).Msg("Overriding Cache-Control header")
			res.Header.Set("Cache-Control", value)
		} else if res.Header.Get("Cache-Control") == "" {
			log.Trace().Str("rule", rule.String()).Msg("Applying default Cache-Control header")
			res.Header.Set("Cache-Control", value)
		}
	}
	for name, value := range rule.Headers {
		log.Trace().Msgf("Setting header %s", name)
		res.Header.Set(name, value)
	}
	return nil
}

// Find returns the first rule matching the request, or nil.
func (r Rules) Find(req *http.Request) *Rule {
	if req == nil {
		return nil
	}
	log.Trace().Msgf("Finding rule for request %s:%s", req.Method, req.URL.Path)
rulesLoop:
	for i, rule := range r {
		if rule.Method == "" && req.Method != http.MethodGet && req.Method != http.MethodHead {
			continue
		}
		if rule.Method != "" && !strings.EqualFold(rule.Method, req.Method) {
			continue
		}
		if rule.Path != "" && rule.Path != req.URL.Path {
			continue
		}
		if rule.Prefix != "" && !strings.HasPrefix(req.URL.Path, rule.Prefix) {
			continue
		}
		if len(rule.Query) > 0 {
			qry := req.URL.Query()
			for name, value := range rule.Query {
				if value == "" && !qry.Has(name) {
					continue rulesLoop
				} else if value != "" && qry.Get(name) != value {
					continue rulesLoop
				}
			}
		}
		return &r[i]
	}
	return nil
}
