// SPDX-License-Identifier: MIT

package validate

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"https", "https://upstream.example/api", false},
		{"http with port", "http://127.0.0.1:8080", false},
		{"empty", "", true},
		{"no host", "/relative/path", true},
		{"bad scheme", "ftp://upstream.example", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.URL("BaseURL", tt.value, []string{"http", "https"})
			assert.Equal(t, tt.wantErr, !v.IsValid(), v.Errors())
		})
	}
}

func TestListenAddr(t *testing.T) {
	tests := []struct {
		addr    string
		wantErr bool
	}{
		{":4343", false},
		{"127.0.0.1:8080", false},
		{"[::1]:9000", false},
		{"4343", true},
		{":http", true},
		{":70000", true},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			v := New()
			v.ListenAddr("ListenAddr", tt.addr)
			assert.Equal(t, tt.wantErr, !v.IsValid(), v.Errors())
		})
	}
}

func TestNumericChecks(t *testing.T) {
	v := New()
	v.Positive("Burst", 0)
	v.Range("Threshold", 11, 1, 10)
	v.Duration("Timeout", 0)
	v.OneOf("Level", "loud", LogLevels)
	v.NotEmpty("Endpoint", "  ")

	require.Len(t, v.Errors(), 5)
	fields := make([]string, 0, 5)
	for _, e := range v.Errors() {
		fields = append(fields, e.Field)
	}
	assert.Equal(t, []string{"Burst", "Threshold", "Timeout", "Level", "Endpoint"}, fields)

	ok := New()
	ok.Positive("Burst", 1)
	ok.OneOf("Level", "warn", LogLevels)
	ok.Duration("Timeout", time.Second)
	assert.NoError(t, ok.Err())
}

func TestValidationErrorAggregates(t *testing.T) {
	v := New()
	v.AddError("A", "first", 1)
	v.AddError("B", "second", 2)

	err := v.Err()
	require.Error(t, err)
	assert.Equal(t, "validation failed for A: first; validation failed for B: second", err.Error())

	var verr ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Errors(), 2)
}
