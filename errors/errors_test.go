package errors

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderDefaults(t *testing.T) {
	err := New(fmt.Errorf("boom")).Build()

	assert.Equal(t, "boom", err.Error())
	assert.Equal(t, ComponentUnknown, err.Component)
	assert.Equal(t, CategoryGeneric, err.Category)
	assert.False(t, err.Timestamp.IsZero())
}

func TestBuilderContextAndCategory(t *testing.T) {
	base := NewStd("bad pattern")
	err := New(base).
		Component("conf").
		Category(CategoryConfiguration).
		Context("key", "identification_pattern").
		Build()

	assert.True(t, Is(err, base))
	assert.True(t, HasCategory(err, CategoryConfiguration))
	assert.False(t, HasCategory(err, CategoryParse))
	assert.Equal(t, CategoryConfiguration, CategoryOf(fmt.Errorf("wrapped: %w", err)))

	ctx := err.GetContext()
	require.NotNil(t, ctx)
	ctx["key"] = "mutated"
	assert.Equal(t, "identification_pattern", err.GetContext()["key"])
}

func TestWrappedStdlibSentinel(t *testing.T) {
	err := Newf("stage loops: %w", context.Canceled).Category(CategoryCancellation).Build()

	assert.True(t, Is(err, context.Canceled))
	assert.Equal(t, ErrorCategory(""), CategoryOf(context.Canceled))
}
