// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func errorsIs(err, target error) bool { return errors.Is(err, target) }

func TestParseHelpers(t *testing.T) {
	t.Setenv("DRAMAHUB_TEST_INT", "42")
	t.Setenv("DRAMAHUB_TEST_BAD_INT", "forty-two")
	t.Setenv("DRAMAHUB_TEST_EMPTY", "")
	t.Setenv("DRAMAHUB_TEST_DUR", "90s")
	t.Setenv("DRAMAHUB_TEST_BOOL", "YES")
	t.Setenv("DRAMAHUB_TEST_BAD_BOOL", "maybe")
	t.Setenv("DRAMAHUB_TEST_FLOAT", "2.5")

	assert.Equal(t, 42, ParseInt("DRAMAHUB_TEST_INT", 1))
	assert.Equal(t, 1, ParseInt("DRAMAHUB_TEST_BAD_INT", 1))
	assert.Equal(t, 7, ParseInt("DRAMAHUB_TEST_EMPTY", 7))
	assert.Equal(t, 7, ParseInt("DRAMAHUB_TEST_UNSET", 7))
	assert.Equal(t, 90*time.Second, ParseDuration("DRAMAHUB_TEST_DUR", time.Second))
	assert.True(t, ParseBool("DRAMAHUB_TEST_BOOL", false))
	assert.True(t, ParseBool("DRAMAHUB_TEST_BAD_BOOL", true))
	assert.InDelta(t, 2.5, ParseFloat("DRAMAHUB_TEST_FLOAT", 0), 0.0001)
	assert.Equal(t, "fallback", ParseString("DRAMAHUB_TEST_EMPTY", "fallback"))
}

func TestIsSensitive(t *testing.T) {
	assert.True(t, isSensitive(EnvRedisPassword))
	assert.False(t, isSensitive(EnvRedisAddr))
}
