package api

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/filmarkiv/filmarkiv-server/internal/http/response"
)

// recoverer turns a handler panic into the 500 failure envelope.
func recoverer(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				log.ErrorContext(r.Context(), "panic recovered",
					"panic", rec,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)
				response.InternalError(w, "Server Error", log)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// notFound answers requests that match no route.
func (s *Server) notFound(w http.ResponseWriter, _ *http.Request) {
	response.NotFound(w, "Not Found", s.logger)
}

// methodNotAllowed answers requests for a known path with an unsupported method.
func (s *Server) methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	response.Error(w, http.StatusMethodNotAllowed, "Method Not Allowed", s.logger)
}
