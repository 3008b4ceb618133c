// SPDX-License-Identifier: MIT

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID = "request_id"
	FieldBookID    = "book_id"
	FieldQuery     = "query"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"
	FieldOperation = "operation"
	FieldSection   = "section"

	// State fields
	FieldOldState = "old_state"
	FieldNewState = "new_state"

	// HTTP fields
	FieldMethod   = "method"
	FieldPath     = "path"
	FieldStatus   = "status"
	FieldDuration = "duration_ms"
	FieldBaseURL  = "base_url"
)
