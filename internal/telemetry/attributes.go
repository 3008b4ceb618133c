// SPDX-License-Identifier: MIT

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Common attribute keys for consistent tracing across the application.
const (
	// Provider attributes
	ProviderOperationKey = "provider.operation"
	ProviderStatusKey    = "provider.status_code"
	ProviderCacheKey     = "provider.cache"

	// Catalog attributes
	CatalogBookIDKey   = "catalog.book_id"
	CatalogQueryKey    = "catalog.query"
	CatalogClassifyKey = "catalog.classify"
	CatalogPageKey     = "catalog.page"

	// Error attributes
	ErrorKey     = "error"
	ErrorTypeKey = "error.type"
)

// CatalogAttributes creates catalog request span attributes. Empty values are skipped.
func CatalogAttributes(bookID, query, classify string, page int) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 4)
	if bookID != "" {
		attrs = append(attrs, attribute.String(CatalogBookIDKey, bookID))
	}
	if query != "" {
		attrs = append(attrs, attribute.String(CatalogQueryKey, query))
	}
	if classify != "" {
		attrs = append(attrs, attribute.String(CatalogClassifyKey, classify))
	}
	if page > 0 {
		attrs = append(attrs, attribute.Int(CatalogPageKey, page))
	}
	return attrs
}

// ErrorAttributes creates error-related span attributes.
func ErrorAttributes(errorType string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool(ErrorKey, true),
		attribute.String(ErrorTypeKey, errorType),
	}
}
