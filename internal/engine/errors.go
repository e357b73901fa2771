package engine

import (
	"errors"
	"fmt"

	"github.com/bitrig/bitrig-xenocara/internal/trace"
)

// ReplayError represents a fatal error detected while interpreting a call.
//
// Every ReplayError aborts the replay: object table state and backend state
// are entangled across calls, so there is no safe way to skip a call.
//
// CallNo, Class and Method are filled in by the dispatcher; errors built by
// the translator or a wrapper carry only Code, Message and Err.
type ReplayError struct {
	// Code identifies the error category.
	Code ReplayErrorCode

	// Message is a human-readable description.
	Message string

	// CallNo is the number of the call being interpreted (0 if unknown).
	CallNo uint64

	// Class and Method identify the call target.
	Class  string
	Method string

	// Err is the underlying cause, if any.
	Err error
}

// ReplayErrorCode categorizes replay errors.
type ReplayErrorCode string

const (
	// ErrCodeUnknownObject indicates a pointer to an address never registered.
	ErrCodeUnknownObject ReplayErrorCode = "UNKNOWN_OBJECT"

	// ErrCodeUnknownConstant indicates a named constant missing from the
	// backend constant table.
	ErrCodeUnknownConstant ReplayErrorCode = "UNKNOWN_CONSTANT"

	// ErrCodeUnknownMember indicates a member a typed structure lacks.
	ErrCodeUnknownMember ReplayErrorCode = "UNKNOWN_MEMBER"

	// ErrCodeArityMismatch indicates an array longer than the fixed backend
	// array it is converted to.
	ErrCodeArityMismatch ReplayErrorCode = "ARITY_MISMATCH"

	// ErrCodeUnknownMethod indicates a method the target does not implement.
	ErrCodeUnknownMethod ReplayErrorCode = "UNKNOWN_METHOD"

	// ErrCodeBadArgument indicates a missing or wrongly typed argument.
	ErrCodeBadArgument ReplayErrorCode = "BAD_ARGUMENT"

	// ErrCodeBackendFailure indicates the backend rejected an operation.
	ErrCodeBackendFailure ReplayErrorCode = "BACKEND_FAILURE"

	// ErrCodeOutOfOrder indicates a call number that does not increase.
	ErrCodeOutOfOrder ReplayErrorCode = "OUT_OF_ORDER"
)

// Error implements the error interface.
func (e *ReplayError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.CallNo != 0 {
		c := trace.Call{Class: e.Class, Method: e.Method}
		msg += fmt.Sprintf(" (call %d %s)", e.CallNo, c.QualifiedName())
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ReplayError) Unwrap() error {
	return e.Err
}

// CodeOf returns the code of the first ReplayError in err's chain.
func CodeOf(err error) (ReplayErrorCode, bool) {
	var re *ReplayError
	if errors.As(err, &re) {
		return re.Code, true
	}
	return "", false
}

func hasCode(err error, code ReplayErrorCode) bool {
	c, ok := CodeOf(err)
	return ok && c == code
}

// IsUnknownObject returns true if err is an unknown object error.
// Uses errors.As to handle wrapped errors.
func IsUnknownObject(err error) bool { return hasCode(err, ErrCodeUnknownObject) }

// IsUnknownConstant returns true if err is an unknown constant error.
func IsUnknownConstant(err error) bool { return hasCode(err, ErrCodeUnknownConstant) }

// IsUnknownMember returns true if err is an unknown member error.
func IsUnknownMember(err error) bool { return hasCode(err, ErrCodeUnknownMember) }

// IsArityMismatch returns true if err is an arity mismatch error.
func IsArityMismatch(err error) bool { return hasCode(err, ErrCodeArityMismatch) }

// IsUnknownMethod returns true if err is an unknown method error.
func IsUnknownMethod(err error) bool { return hasCode(err, ErrCodeUnknownMethod) }

// IsBadArgument returns true if err is a bad argument error.
func IsBadArgument(err error) bool { return hasCode(err, ErrCodeBadArgument) }

// IsBackendFailure returns true if err is a backend failure.
func IsBackendFailure(err error) bool { return hasCode(err, ErrCodeBackendFailure) }

// NewUnknownObjectError creates a ReplayError for an unregistered address.
func NewUnknownObjectError(addr uint64) *ReplayError {
	return &ReplayError{
		Code:    ErrCodeUnknownObject,
		Message: fmt.Sprintf("no object registered at %s", trace.FormatAddress(addr)),
	}
}

func newError(code ReplayErrorCode, format string, args ...any) *ReplayError {
	return &ReplayError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func badArgument(format string, args ...any) *ReplayError {
	return newError(ErrCodeBadArgument, format, args...)
}

// backendFailure wraps an error returned by the backend. A nil err stays nil.
func backendFailure(op string, err error) error {
	if err == nil {
		return nil
	}
	return &ReplayError{Code: ErrCodeBackendFailure, Message: op, Err: err}
}

// withCall attaches call context to err. Errors that are not ReplayErrors
// become backend failures.
func withCall(err error, call trace.Call) error {
	var re *ReplayError
	if !errors.As(err, &re) {
		re = &ReplayError{Code: ErrCodeBackendFailure, Message: "call failed", Err: err}
	} else {
		cp := *re
		re = &cp
	}
	if re.CallNo == 0 {
		re.CallNo = call.No
		re.Class = call.Class
		re.Method = call.Method
	}
	return re
}
