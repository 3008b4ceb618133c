// SPDX-License-Identifier: MIT

// Package classify maps the public dub classification tokens onto the
// provider's numeric classification codes.
package classify

import (
	"errors"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// Code is the provider's numeric classification code.
type Code int

const (
	Popular Code = 1 // terpopuler
	Newest  Code = 2 // terbaru
)

// Public tokens accepted on the wire.
const (
	TokenPopular = "terpopuler"
	TokenNewest  = "terbaru"
)

var (
	// ErrMissing is returned when no classification was supplied.
	ErrMissing = errors.New("classify: missing classification")
	// ErrUnknown is returned for tokens outside the table.
	ErrUnknown = errors.New("classify: unknown classification")
)

// table is closed: new classifications are added here, never inferred.
var table = map[string]Code{
	TokenPopular: Popular,
	TokenNewest:  Newest,
}

// Parse resolves a token case-insensitively, ignoring surrounding space.
func Parse(token string) (Code, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, ErrMissing
	}
	// Casers carry state and are not shared between goroutines.
	code, ok := table[cases.Fold().String(token)]
	if !ok {
		return 0, ErrUnknown
	}
	return code, nil
}

// Token returns the canonical wire token for c, or "" for unknown codes.
func (c Code) Token() string {
	for token, code := range table {
		if code == c {
			return token
		}
	}
	return ""
}

func (c Code) String() string {
	if t := c.Token(); t != "" {
		return t
	}
	return "classify(" + strconv.Itoa(int(c)) + ")"
}

// ParsePage reads the leading integer of raw the way a lenient form parser
// would ("3abc" is 3). Absent, non-numeric and non-positive input yields 1.
func ParsePage(raw string) int {
	s := strings.TrimSpace(raw)
	end := 0
	for end < len(s) {
		c := s[end]
		if c >= '0' && c <= '9' || end == 0 && (c == '+' || c == '-') {
			end++
			continue
		}
		break
	}
	page, err := strconv.Atoi(s[:end])
	if err != nil || page < 1 {
		return 1
	}
	return page
}
