package proxy

import (
	"net/http"

	"gopkg.in/yaml.v3"

	cachedirective "github.com/always-cache/cache-directive"
	"github.com/always-cache/cache-directive/directive"
)

type renderedRule struct {
	Rule         string `yaml:"rule"`
	CacheControl string `yaml:"cacheControl,omitempty"`
	Override     bool   `yaml:"override,omitempty"`
	Error        string `yaml:"error,omitempty"`
}

// RulesHandler lists the current rules with their rendered Cache-Control
// header as YAML.
func (p *Proxy) RulesHandler(w http.ResponseWriter, r *http.Request) {
	current := p.Rules()
	out := make([]renderedRule, 0, len(current))
	for _, rule := range current {
		rr := renderedRule{Rule: rule.String(), Override: rule.Override}
		if cc, err := rule.Render(); err != nil {
			rr.Error = err.Error()
		} else {
			rr.CacheControl = cc
		}
		out = append(out, rr)
	}
	b, err := yaml.Marshal(out)
	if err != nil {
		p.requestLogger(r).Error().Err(err).Msg("Could not encode rules")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	cachedirective.Set(w.Header(), directive.Pattern("no-store"))
	w.Write(b)
}
