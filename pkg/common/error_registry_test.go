package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorRegistryMapsKnownPattern(t *testing.T) {
	r := NewErrorRegistry()
	stdErr := r.Map(errors.New("module not found: ping"))
	require.Equal(t, ErrCodeModuleNotFound, stdErr.Code)
}

func TestErrorRegistryDefaultsToUnknown(t *testing.T) {
	r := NewErrorRegistry()
	stdErr := r.Map(errors.New("something totally unclassified"))
	require.Equal(t, ErrCodeUnknown, stdErr.Code)
}

func TestErrorRegistryMapWithCode(t *testing.T) {
	r := NewErrorRegistry()
	stdErr := r.MapWithCode(errors.New("boom"), ErrCodeBadRequest)
	require.Equal(t, ErrCodeBadRequest, stdErr.Code)
	require.ErrorIs(t, stdErr, stdErr.InternalError)
}

func TestErrorRegistryMapNilReturnsNil(t *testing.T) {
	r := NewErrorRegistry()
	require.Nil(t, r.Map(nil))
}

func TestGlobalErrorRegistryHelpers(t *testing.T) {
	stdErr := MapError(errors.New("type mismatch on lookup"))
	require.Equal(t, ErrCodeTypeMismatch, stdErr.Code)

	stdErr2 := MapErrorWithCode(errors.New("x"), ErrCodeDeadlineMissed)
	require.Equal(t, ErrCodeDeadlineMissed, stdErr2.Code)
}
