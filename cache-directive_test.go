package cachedirective

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/always-cache/cache-directive/directive"
)

type recordingSetter struct {
	calls [][2]string
}

func (s *recordingSetter) Set(key, value string) {
	s.calls = append(s.calls, [2]string{key, value})
}

func TestSetPatterns(t *testing.T) {
	cases := map[string]string{
		"public":   "public",
		"private":  "private",
		"no-cache": "no-cache",
		"no-store": "no-cache, no-store",
	}
	for pattern, want := range cases {
		h := make(http.Header)
		if err := Set(h, directive.Pattern(pattern)); err != nil {
			t.Fatalf("Set(%q) error: %v", pattern, err)
		}
		if cc := h.Get("Cache-Control"); cc != want {
			t.Fatalf("Cache-Control header for %q is '%s'", pattern, cc)
		}
	}
}

func TestSetOnce(t *testing.T) {
	s := &recordingSetter{}
	if err := Set(s, directive.Combined("public", directive.Options{"private": "X-Private"})); err != nil {
		t.Fatal(err)
	}
	if len(s.calls) != 1 {
		t.Fatalf("Set called %d times", len(s.calls))
	}
	if s.calls[0] != [2]string{"Cache-Control", `public, private="X-Private"`} {
		t.Fatalf("Set called with %v", s.calls[0])
	}
}

func TestSetNothing(t *testing.T) {
	s := &recordingSetter{}
	if err := Set(s, directive.With(directive.Options{"immutable": true})); err != nil {
		t.Fatal(err)
	}
	if len(s.calls) != 0 {
		t.Fatalf("Set called with %v", s.calls)
	}
}

func TestSetError(t *testing.T) {
	s := &recordingSetter{}
	err := Set(s, directive.Pattern("unknown"))
	if !errors.Is(err, directive.ErrUnknownPattern) {
		t.Fatalf("Error: %v", err)
	}
	err = Set(s, directive.With(directive.Options{"public": true, "maxAge": "forever"}))
	if !errors.Is(err, directive.ErrInvalidDuration) {
		t.Fatalf("Error: %v", err)
	}
	if len(s.calls) != 0 {
		t.Fatalf("partial header written: %v", s.calls)
	}
}

func TestBuild(t *testing.T) {
	cc, err := Build(directive.With(directive.Options{"staleWhileRevalidate": "1h"}))
	if err != nil {
		t.Fatal(err)
	}
	if cc != "stale-while-revalidate=3600" {
		t.Fatalf("Cache-Control is '%s'", cc)
	}
}

func TestMiddleware(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Hello world"))
	})
	rr := httptest.NewRecorder()

	Middleware(directive.With(directive.Options{"maxAge": "5 min"}))(handler).
		ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	if cc := rr.Result().Header.Get("Cache-Control"); cc != "public, max-age=300" {
		t.Fatalf("Cache-Control header is '%s'", cc)
	}
	if body := rr.Body.String(); body != "Hello world" {
		t.Fatalf("body is %s", body)
	}
}

func TestMiddlewareError(t *testing.T) {
	var handleCount int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handleCount++
	})
	rr := httptest.NewRecorder()

	Middleware(directive.Pattern("unknown"))(handler).
		ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("Status code is %d", rr.Code)
	}
	if handleCount != 0 {
		t.Fatalf("Next handler called %d times", handleCount)
	}
	if cc := rr.Result().Header.Get("Cache-Control"); cc != "" {
		t.Fatalf("Cache-Control header is '%s'", cc)
	}
}

func TestChiMiddleware(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware(directive.Pattern("no-store")))
	r.Get("/list", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("List"))
	})
	r.Get("/static", func(w http.ResponseWriter, r *http.Request) {
		// handlers may refine the header set by the middleware
		if err := Set(w.Header(), directive.With(directive.Options{"maxAge": "1 week"})); err != nil {
			t.Error(err)
		}
		w.Write([]byte("Static"))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/list", nil))
	if cc := rec.Result().Header.Get("Cache-Control"); cc != "no-cache, no-store" {
		t.Fatalf("Cache-Control header is '%s'", cc)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/static", nil))
	if cc := rec.Result().Header.Get("Cache-Control"); cc != "public, max-age=604800" {
		t.Fatalf("Cache-Control header is '%s'", cc)
	}
}
