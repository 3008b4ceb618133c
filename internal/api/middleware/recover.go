// SPDX-License-Identifier: MIT

package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/ManuGH/dramahub/internal/log"
)

// Recoverer turns a handler panic into a 500 JSON response.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			logger := log.WithComponentFromContext(r.Context(), "api")
			logger.Error().
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Str(log.FieldPath, r.URL.Path).
				Str(log.FieldEvent, "http.panic").
				Msg("recovered from handler panic")

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"Internal Server Error"}`))
		}()
		next.ServeHTTP(w, r)
	})
}
