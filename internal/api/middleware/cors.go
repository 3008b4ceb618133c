// SPDX-License-Identifier: MIT

package middleware

import (
	"net/http"
	"slices"

	"github.com/rs/cors"
)

// CORS allows browser clients from allowedOrigins. "*" (or an empty list)
// opens the API to every origin.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	if len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, "*") {
		allowedOrigins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         600,
	})
	return c.Handler
}
