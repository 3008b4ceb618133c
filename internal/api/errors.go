// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"net/http"
)

// UpstreamErrorMessage is the fixed headline of every provider failure.
const UpstreamErrorMessage = "IP terkena limit, silakan tunggu beberapa menit dan coba lagi"

// Validation messages returned in the error envelope.
const (
	MsgQueryRequired    = `Parameter "query" dibutuhkan`
	MsgBookIDRequired   = `Parameter "bookId" dibutuhkan`
	MsgClassifyRequired = "Parameter classify dibutuhkan terpopuler atau terbaru"
	MsgClassifyInvalid  = "Parameter classify harus terpopuler atau terbaru"
)

// ErrorResponse is the error envelope of every non-2xx answer.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeRaw writes an already-encoded JSON payload.
func writeRaw(w http.ResponseWriter, body json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// writeBadRequest writes a 400 validation envelope.
func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: msg})
}

// writeUpstreamError writes the 500 envelope carrying the provider error text.
func writeUpstreamError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   UpstreamErrorMessage,
		Message: err.Error(),
	})
}
