// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ManuGH/dramahub/internal/api/middleware"
	"github.com/ManuGH/dramahub/internal/catalog"
	"github.com/ManuGH/dramahub/internal/classify"
	"github.com/ManuGH/dramahub/internal/log"
	"github.com/ManuGH/dramahub/internal/metrics"
	"github.com/ManuGH/dramahub/internal/provider"
	"github.com/ManuGH/dramahub/internal/telemetry"
)

func (s *Server) handleList(op string, fetch func(context.Context) (json.RawMessage, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.respond(w, r, op, func() (json.RawMessage, error) { return fetch(r.Context()) })
	}
}

// handleVIP always answers with a bare JSON array, whatever shape the
// provider used.
func (s *Server) handleVIP(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, provider.OpVIP, func() (json.RawMessage, error) {
		body, err := s.provider.VIP(r.Context())
		if err != nil {
			return nil, err
		}
		return catalog.VIPList(body), nil
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		s.reject(w, r, provider.OpSearch, MsgQueryRequired)
		return
	}
	middleware.AddSpanAttributes(r, telemetry.CatalogAttributes("", query, "", 0)...)
	s.respond(w, r, provider.OpSearch, func() (json.RawMessage, error) {
		return s.provider.Search(r.Context(), query)
	})
}

func (s *Server) handleByBookID(op string, fetch func(context.Context, string) (json.RawMessage, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookID := r.URL.Query().Get("bookId")
		if bookID == "" {
			s.reject(w, r, op, MsgBookIDRequired)
			return
		}
		middleware.AddSpanAttributes(r, telemetry.CatalogAttributes(bookID, "", "", 0)...)
		s.respond(w, r, op, func() (json.RawMessage, error) {
			return fetch(r.Context(), bookID)
		})
	}
}

func (s *Server) handleDubbed(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	code, err := classify.Parse(q.Get("classify"))
	if err != nil {
		msg := MsgClassifyInvalid
		if errors.Is(err, classify.ErrMissing) {
			msg = MsgClassifyRequired
		}
		s.reject(w, r, provider.OpDubbed, msg)
		return
	}
	page := classify.ParsePage(q.Get("page"))
	middleware.AddSpanAttributes(r, telemetry.CatalogAttributes("", "", code.Token(), page)...)
	s.respond(w, r, provider.OpDubbed, func() (json.RawMessage, error) {
		return s.provider.Dubbed(r.Context(), code, page)
	})
}

func (s *Server) reject(w http.ResponseWriter, r *http.Request, op, msg string) {
	metrics.RecordGatewayError(op, "validation")
	logger := log.WithContext(r.Context(), s.logger)
	logger.Debug().
		Str(log.FieldOperation, op).
		Str(log.FieldEvent, "api.validation_failed").
		Msg(msg)
	writeBadRequest(w, msg)
}

// respond runs fetch and writes either the payload or the upstream envelope.
// There is no retry here; the client decides whether to ask again.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, op string, fetch func() (json.RawMessage, error)) {
	body, err := fetch()
	if err != nil {
		metrics.RecordGatewayError(op, "upstream")
		logger := log.WithContext(r.Context(), s.logger)
		logger.Error().
			Err(err).
			Str(log.FieldOperation, op).
			Str("kind", provider.Kind(err)).
			Str(log.FieldEvent, "api.upstream_failed").
			Msg("API Error")
		writeUpstreamError(w, err)
		return
	}
	writeRaw(w, body)
}
