package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitrig/bitrig-xenocara/internal/trace"
)

func TestReplayError_Error(t *testing.T) {
	err := &ReplayError{
		Code:    ErrCodeUnknownMethod,
		Message: `"pipe_context" has no method frobnicate`,
		CallNo:  42,
		Class:   "pipe_context",
		Method:  "frobnicate",
	}
	assert.Equal(t,
		`UNKNOWN_METHOD: "pipe_context" has no method frobnicate (call 42 pipe_context::frobnicate)`,
		err.Error())
}

func TestReplayError_WrapsCause(t *testing.T) {
	cause := errors.New("out of memory")
	err := backendFailure("resource_create", cause)

	assert.True(t, IsBackendFailure(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "BACKEND_FAILURE: resource_create: out of memory", err.Error())
}

func TestBackendFailure_NilStaysNil(t *testing.T) {
	assert.NoError(t, backendFailure("flush", nil))
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		code ReplayErrorCode
		is   func(error) bool
	}{
		{ErrCodeUnknownObject, IsUnknownObject},
		{ErrCodeUnknownConstant, IsUnknownConstant},
		{ErrCodeUnknownMember, IsUnknownMember},
		{ErrCodeArityMismatch, IsArityMismatch},
		{ErrCodeUnknownMethod, IsUnknownMethod},
		{ErrCodeBadArgument, IsBadArgument},
		{ErrCodeBackendFailure, IsBackendFailure},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := fmt.Errorf("wrapped: %w", newError(tt.code, "x"))
			assert.True(t, tt.is(err))
			assert.False(t, tt.is(errors.New("plain")))

			code, ok := CodeOf(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestWithCall(t *testing.T) {
	call := trace.Call{No: 7, Class: "pipe_context", Method: "draw_vbo"}

	t.Run("annotates a copy", func(t *testing.T) {
		orig := badArgument("info is NULL")
		err := withCall(orig, call)

		var re *ReplayError
		require.True(t, errors.As(err, &re))
		assert.Equal(t, uint64(7), re.CallNo)
		assert.Equal(t, "draw_vbo", re.Method)
		assert.Zero(t, orig.CallNo, "original error is not mutated")
	})

	t.Run("keeps existing call context", func(t *testing.T) {
		inner := &ReplayError{Code: ErrCodeBadArgument, CallNo: 3, Class: "pipe_screen", Method: "destroy"}
		err := withCall(inner, call)

		var re *ReplayError
		require.True(t, errors.As(err, &re))
		assert.Equal(t, uint64(3), re.CallNo)
	})

	t.Run("plain errors become backend failures", func(t *testing.T) {
		err := withCall(errors.New("boom"), call)
		assert.True(t, IsBackendFailure(err))
		assert.Contains(t, err.Error(), "call 7 pipe_context::draw_vbo")
	})
}
