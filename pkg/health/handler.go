package health

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Routes returns a router serving GET /live and GET /ready.
// Mount it under any prefix:
//
//	r.Mount("/health", health.Routes(checks))
func Routes(checks Checks, opts ...Option) http.Handler {
	r := chi.NewRouter()
	r.Get("/live", LivenessHandler())
	r.Get("/ready", ReadinessHandler(checks, opts...))
	return r
}

// LivenessHandler always responds OK while the process serves HTTP.
func LivenessHandler() http.HandlerFunc {
	live := &Response{Status: StatusHealthy}
	return func(w http.ResponseWriter, r *http.Request) {
		respond(w, r, live)
	}
}

// ReadinessHandler runs checks on every request and answers 503 if any fails.
func ReadinessHandler(checks Checks, opts ...Option) http.HandlerFunc {
	cfg := newConfig(opts...)
	return func(w http.ResponseWriter, r *http.Request) {
		respond(w, r, runChecks(r.Context(), checks, cfg))
	}
}

// respond writes resp as JSON when asked via ?format=json or the Accept
// header, and as the bare status text otherwise.
func respond(w http.ResponseWriter, r *http.Request, resp *Response) {
	code := http.StatusOK
	if resp.Status != StatusHealthy {
		code = http.StatusServiceUnavailable
	}

	if r.URL.Query().Get("format") != "json" && !strings.Contains(r.Header.Get("Accept"), "application/json") {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(code)
		_, _ = w.Write([]byte(http.StatusText(code)))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}
