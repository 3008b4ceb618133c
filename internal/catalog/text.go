// SPDX-License-Identifier: MIT

package catalog

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Text is a provider field that may arrive as a string, a number, a boolean or
// null. It always decodes; unexpected shapes (objects, arrays) become empty,
// and so do the falsy literals false and numeric zero. A quoted "0" is kept.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
	case '{', '[':
		*t = ""
	default:
		// numbers and booleans keep their literal spelling unless falsy
		*t = Text(b)
		if falsyLiteral(b) {
			*t = ""
		}
	}
	return nil
}

func falsyLiteral(b []byte) bool {
	if bytes.Equal(b, []byte("false")) {
		return true
	}
	f, err := strconv.ParseFloat(string(b), 64)
	return err == nil && f == 0
}

func (t Text) String() string { return string(t) }

// Empty reports whether t carries no usable value.
func (t Text) Empty() bool {
	return strings.TrimSpace(string(t)) == ""
}

// Int parses t as an integer.
func (t Text) Int() (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(string(t)))
	if err != nil {
		f, ferr := strconv.ParseFloat(strings.TrimSpace(string(t)), 64)
		if ferr != nil {
			return 0, false
		}
		return int(f), true
	}
	return n, true
}

// truthy mirrors how the web client treated values in fallback chains: only
// an empty value falls through to the next candidate. Falsy numbers and
// booleans are already empty after decoding.
func (t Text) truthy() bool {
	return t != ""
}

// first returns the first truthy candidate, or fallback.
func first(fallback string, candidates ...Text) string {
	for _, c := range candidates {
		if c.truthy() {
			return string(c)
		}
	}
	return fallback
}
