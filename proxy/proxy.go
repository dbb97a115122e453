// Package proxy is a reverse proxy adding Cache-Control headers to origin
// responses according to a set of rules.
package proxy

import (
	"crypto/tls"
	"errors"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/always-cache/cache-directive/rules"
)

type Config struct {
	// URL of the origin server.
	// Origins with paths are not supported.
	OriginURL url.URL
	// Hostname to use for HTTP requests and TLS negotiation.
	// Use if needed if e.g. the origin URL is just an IP address.
	OriginHost string
	// Logger to use. A console logger is used if nil.
	Logger *zerolog.Logger
	// Rules applied to origin responses.
	Rules rules.Rules
	// Optional function for mutating the incoming request.
	RequestModifier func(*http.Request)
	// Transport to the origin. http.DefaultTransport is used if nil.
	Transport http.RoundTripper
}

type Proxy struct {
	log             zerolog.Logger
	rules           atomic.Pointer[rules.Rules]
	reverseproxy    httputil.ReverseProxy
	requestModifier func(*http.Request)
}

// New creates a proxy for the configured origin.
func New(config Config) *Proxy {
	// use console logger if not specified in config
	var logger zerolog.Logger
	if config.Logger == nil {
		logger = zerolog.New(zerolog.NewConsoleWriter())
	} else {
		logger = *config.Logger
	}

	// create a child logger and add defaults
	logger = logger.With().
		Str("origin", config.OriginURL.String()).
		Logger()

	p := &Proxy{
		log:             logger,
		requestModifier: config.RequestModifier,
	}
	p.SetRules(config.Rules)

	host := config.OriginURL.Host
	hostHeader := host
	transport := config.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	if config.OriginHost != "" {
		hostHeader = config.OriginHost
		if config.Transport == nil {
			transport = &http.Transport{
				TLSClientConfig: &tls.Config{
					ServerName: config.OriginHost,
				},
			}
		}
	}

	p.reverseproxy = httputil.ReverseProxy{
		Director:       createDirector(config.OriginURL.Scheme, host, hostHeader),
		Transport:      transport,
		ModifyResponse: p.modifyResponse,
		ErrorHandler:   p.handleError,
	}

	return p
}

// Rules returns the rules currently applied.
func (p *Proxy) Rules() rules.Rules {
	return *p.rules.Load()
}

// SetRules replaces the rules applied to subsequent responses.
func (p *Proxy) SetRules(r rules.Rules) {
	p.rules.Store(&r)
}

// ServeHTTP implements the http.Handler interface.
func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if p.requestModifier != nil {
		p.requestModifier(r)
	}
	p.log.Trace().Msgf("proxying %s", r.URL.String())
	p.reverseproxy.ServeHTTP(w, r)
}

func (p *Proxy) modifyResponse(res *http.Response) error {
	err := p.Rules().Apply(res)
	p.logResponse(res)
	return err
}

func (p *Proxy) handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusBadGateway
	if errors.Is(err, rules.ErrInvalidRule) {
		status = http.StatusInternalServerError
	}
	p.requestLogger(r).Error().Err(err).Int("status", status).Msg("Could not proxy request")
	w.WriteHeader(status)
}

func (p *Proxy) logResponse(res *http.Response) {
	r := res.Request
	p.requestLogger(r).Debug().
		Str("method", r.Method).
		Str("url", r.URL.String()).
		Str("sourceIp", getRequestSourceIp(r)).
		Int("status", res.StatusCode).
		Str("cacheControl", res.Header.Get("Cache-Control")).
		Msg("Sending response to client")
}

// requestLogger returns the request logger set up by hlog, if any,
// and the proxy logger otherwise.
func (p *Proxy) requestLogger(r *http.Request) *zerolog.Logger {
	logger := hlog.FromRequest(r)
	if logger.GetLevel() == zerolog.Disabled {
		return &p.log
	}
	return logger
}

func createDirector(scheme, host, hostHeader string) func(req *http.Request) {
	return func(req *http.Request) {
		req.URL.Scheme = scheme
		req.URL.Host = host
		if hostHeader != "" {
			req.Host = hostHeader
		}
	}
}

func getRequestSourceIp(r *http.Request) string {
	// RemoteAddr is in the format:
	// 1.2.3.4:10000 for ipv4
	// [1:2:3]:10000 for ipv6
	ipAndPort := r.RemoteAddr
	portSepIdx := strings.LastIndex(ipAndPort, ":")
	// if not found, return
	if portSepIdx < 0 {
		return ipAndPort
	}
	ip := ipAndPort[:portSepIdx]
	return ip
}
