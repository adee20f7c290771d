package unwrapped

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct{}

type sampleUw struct{ Name string }

type sampleW struct{}

func (sample) UnwrappedCounterpart() sampleUw { return sampleUw{} }

func (sample) WrappedCounterpart() sampleW { return sampleW{} }

func TestErrorMessage(t *testing.T) {
	err := Error{FieldName: "field2"}
	assert.Equal(t, "Failed to unwrap an Option for field 'field2', found None", err.Error())
}

func TestErrorMatching(t *testing.T) {
	wrapped := fmt.Errorf("convert profile: %w", Error{FieldName: "Email"})

	assert.True(t, errors.Is(wrapped, Error{FieldName: "Email"}))
	assert.True(t, errors.Is(wrapped, Error{}))
	assert.False(t, errors.Is(wrapped, Error{FieldName: "Name"}))

	var target Error
	require.True(t, errors.As(wrapped, &target))
	assert.Equal(t, "Email", target.FieldName)

	name, ok := FieldOf(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "Email", name)

	_, ok = FieldOf(errors.New("other"))
	assert.False(t, ok)
}

func TestCounterpartMarkers(t *testing.T) {
	var _ Unwrapped[sampleUw] = sample{}
	var _ Wrapped[sampleW] = sample{}

	assert.Equal(t, sampleUw{}, UnwrappedOf[sampleUw](sample{}))
	assert.Equal(t, sampleW{}, WrappedOf[sampleW](sample{}))
}
