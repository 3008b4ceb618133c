// SPDX-License-Identifier: MIT

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestSetCircuitBreakerStateIsExclusive(t *testing.T) {
	SetCircuitBreakerState("test-provider", "open")

	assert.Equal(t, 1.0, testutil.ToFloat64(circuitBreakerState.WithLabelValues("test-provider", "open")))
	assert.Equal(t, 0.0, testutil.ToFloat64(circuitBreakerState.WithLabelValues("test-provider", "closed")))
	assert.Equal(t, 0.0, testutil.ToFloat64(circuitBreakerState.WithLabelValues("test-provider", "half-open")))

	SetCircuitBreakerState("test-provider", "closed")
	assert.Equal(t, 0.0, testutil.ToFloat64(circuitBreakerState.WithLabelValues("test-provider", "open")))
	assert.Equal(t, 1.0, testutil.ToFloat64(circuitBreakerState.WithLabelValues("test-provider", "closed")))
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(providerRequests.WithLabelValues("trending", "ok"))
	ObserveProviderCall("trending", "ok", 20*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(providerRequests.WithLabelValues("trending", "ok")))

	before = testutil.ToFloat64(gatewayErrors.WithLabelValues("search", "validation"))
	RecordGatewayError("search", "validation")
	assert.Equal(t, before+1, testutil.ToFloat64(gatewayErrors.WithLabelValues("search", "validation")))

	before = testutil.ToFloat64(sectionLoads.WithLabelValues("vip", "failed"))
	RecordSectionLoad("vip", "failed")
	assert.Equal(t, before+1, testutil.ToFloat64(sectionLoads.WithLabelValues("vip", "failed")))
}
