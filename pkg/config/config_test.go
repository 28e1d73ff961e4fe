package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCSV(t *testing.T) {
	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"a:9092", "b:9092"}, CSV(" a:9092, ,b:9092 "))
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("FOODHUB_TEST_INT", "42")
	t.Setenv("FOODHUB_TEST_BAD_INT", "x")
	t.Setenv("FOODHUB_TEST_BOOL", "true")
	t.Setenv("FOODHUB_TEST_DUR", "250ms")

	assert.Equal(t, 42, EnvIntDefault("FOODHUB_TEST_INT", 1))
	assert.Equal(t, 1, EnvIntDefault("FOODHUB_TEST_BAD_INT", 1))
	assert.True(t, EnvBoolDefault("FOODHUB_TEST_BOOL", false))
	assert.False(t, EnvBoolDefault("FOODHUB_TEST_MISSING", false))
	assert.Equal(t, 250*time.Millisecond, EnvDurationDefault("FOODHUB_TEST_DUR", time.Second))
	assert.Equal(t, "def", EnvDefault("FOODHUB_TEST_MISSING", "def"))
}

func TestCheckRequired(t *testing.T) {
	assert.NoError(t, CheckRequired(Required{Env: "A", Value: "x"}))

	err := CheckRequired(Required{Env: "JWT_SECRET"}, Required{Env: "B", Value: "y"}, Required{Env: "C"})
	assert.ErrorContains(t, err, "JWT_SECRET")
	assert.ErrorContains(t, err, "C")
}
