package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutcome_Present(t *testing.T) {
	o := PresentOutcome("value")

	v, ok := o.Get()
	assert.True(t, ok)
	assert.Equal(t, "value", v)
	assert.True(t, o.Present())
	assert.Equal(t, StatusOK, o.Status())
	assert.NoError(t, o.Cause())
	assert.Equal(t, "value", o.OrElse("fallback"))
}

func TestOutcome_Absent(t *testing.T) {
	cause := errors.New("boom")
	o := AbsentOutcome[string](cause)

	v, ok := o.Get()
	assert.False(t, ok)
	assert.Empty(t, v)
	assert.False(t, o.Present())
	assert.Equal(t, StatusFailed, o.Status())
	assert.Equal(t, cause, o.Cause())
	assert.Equal(t, "fallback", o.OrElse("fallback"))
}

func TestOutcome_Skipped(t *testing.T) {
	o := SkippedOutcome[int]()

	assert.False(t, o.Present())
	assert.Equal(t, StatusSkipped, o.Status())
	assert.NoError(t, o.Cause())
	assert.Equal(t, 42, o.OrElse(42))
}
