// SPDX-License-Identifier: MIT

package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNewProvider_Disabled(t *testing.T) {
	provider, err := NewProvider(context.Background(), Config{ServiceName: "test-service"})
	require.NoError(t, err)
	assert.Nil(t, provider.tp)

	_, span := otel.Tracer("test").Start(context.Background(), "noop-check")
	assert.False(t, span.IsRecording())
	span.End()

	assert.NoError(t, provider.Shutdown(context.Background()))
}

func TestNewProvider_EnabledWithoutEndpoint(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{Enabled: true, ServiceName: "test-service"})
	assert.Error(t, err)
}

func TestSampler(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), sampler(1.5).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), sampler(0).Description())
	assert.Equal(t, sdktrace.TraceIDRatioBased(0.25).Description(), sampler(0.25).Description())
}

func TestCatalogAttributes(t *testing.T) {
	tests := []struct {
		name     string
		bookID   string
		query    string
		classify string
		page     int
		want     []attribute.KeyValue
	}{
		{
			name:   "detail",
			bookID: "41000100",
			want:   []attribute.KeyValue{attribute.String(CatalogBookIDKey, "41000100")},
		},
		{
			name:     "dubbed",
			classify: "terpopuler",
			page:     2,
			want: []attribute.KeyValue{
				attribute.String(CatalogClassifyKey, "terpopuler"),
				attribute.Int(CatalogPageKey, 2),
			},
		},
		{
			name: "none",
			want: []attribute.KeyValue{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CatalogAttributes(tt.bookID, tt.query, tt.classify, tt.page))
		})
	}
}
