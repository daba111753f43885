package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ErrLibNotFound, "library not found")
	assert.Equal(t, ErrLibNotFound, err.Code)
	assert.Equal(t, "[LIB_NOT_FOUND] library not found", err.Error())
}

func TestWrap(t *testing.T) {
	inner := fmt.Errorf("permission denied")
	err := Wrap(inner, ErrCopyFailed, "could not deploy libc++.so.1")

	require.NotNil(t, err)
	assert.Equal(t, ErrCopyFailed, err.Code)
	assert.Contains(t, err.Error(), "permission denied")
	assert.True(t, errors.Is(err, inner))
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCopyFailed, "nothing happened"))
	assert.Nil(t, Wrapf(nil, ErrCopyFailed, "nothing %s", "happened"))
}

func TestIsErrorCode(t *testing.T) {
	err := Newf(ErrToolTimeout, "readelf timed out after %ds", 10)

	assert.True(t, IsErrorCode(err, ErrToolTimeout))
	assert.False(t, IsErrorCode(err, ErrToolFailure))
	assert.False(t, IsErrorCode(fmt.Errorf("plain"), ErrToolTimeout))
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, ErrToolUnavailable, GetErrorCode(New(ErrToolUnavailable, "otool not found")))
	assert.Equal(t, ErrUnknown, GetErrorCode(fmt.Errorf("plain")))

	// Wrapped DeployErrors are still visible through fmt wrapping
	wrapped := fmt.Errorf("context: %w", New(ErrFixupFailed, "codesign failed"))
	assert.Equal(t, ErrFixupFailed, GetErrorCode(wrapped))
}

func TestWithDetail(t *testing.T) {
	err := New(ErrLibNotFound, "not in toolchain").
		WithDetail("library", "libc++.so.1").
		WithDetail("searched", 4)

	assert.Equal(t, "libc++.so.1", err.Details["library"])
	assert.Equal(t, 4, err.Details["searched"])
}

func TestErrorIs(t *testing.T) {
	a := New(ErrToolFailure, "objdump exited 1")
	b := New(ErrToolFailure, "different message, same code")

	assert.True(t, errors.Is(a, b))
	assert.False(t, errors.Is(a, New(ErrToolTimeout, "other code")))
}
