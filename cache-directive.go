// Package cachedirective sets Cache-Control response headers from caching
// intent, e.g.
//
//	cachedirective.Set(w.Header(), directive.Pattern("public"))
//	cachedirective.Set(w.Header(), directive.With(directive.Options{"maxAge": "1 hour"}))
package cachedirective

import (
	"net/http"

	"braces.dev/errtrace"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/always-cache/cache-directive/directive"
)

// HeaderName is the name of the header written by Set.
const HeaderName = "Cache-Control"

// Setter receives the rendered header. http.Header implements it.
type Setter interface {
	Set(key, value string)
}

// Build renders the Cache-Control header value for an intent.
// An empty value means no header should be sent.
func Build(intent directive.Intent) (string, error) {
	return errtrace.Wrap2(directive.Render(intent))
}

// Set renders the intent and sets the Cache-Control header on h.
// Nothing is set if the intent renders no directives or on error.
func Set(h Setter, intent directive.Intent) error {
	value, err := directive.Render(intent)
	if err != nil {
		return errtrace.Wrap(err)
	}
	if value != "" {
		h.Set(HeaderName, value)
	}
	return nil
}

// Middleware returns a handler middleware setting the Cache-Control header
// for every response of the wrapped handler. The header is set before the
// wrapped handler runs, so the handler may still replace it.
//
// If the intent cannot be rendered, requests are answered with
// 500 Internal Server Error and the wrapped handler is not called.
func Middleware(intent directive.Intent) func(http.Handler) http.Handler {
	value, err := directive.Render(intent)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err != nil {
				getLogger(r).Error().Err(err).Msg("Could not render Cache-Control header")
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			if value != "" {
				w.Header().Set(HeaderName, value)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// getLogger returns the logger from the request context.
// If no logger is found, it will return the default logger.
func getLogger(r *http.Request) *zerolog.Logger {
	logger := hlog.FromRequest(r)
	if logger.GetLevel() == zerolog.Disabled {
		logger = &log.Logger
	}
	return logger
}
