// Package errors provides the error taxonomy shared by the buffer, greeting and cmd packages.
// Allocation failures are the only recoverable condition; everything else is a contract
// violation raised by a caller that used a buffer incorrectly.
package errors

import (
	"errors"
	"fmt"
)

// AllocationError reports that a memory source could not satisfy a request.
type AllocationError struct {
	Size  int
	cause error
}

// Error implements the error interface.
func (e *AllocationError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("allocation of %d bytes failed: %v", e.Size, e.cause)
	}
	return fmt.Sprintf("allocation of %d bytes failed", e.Size)
}

// Unwrap returns the underlying cause error for error unwrapping.
func (e *AllocationError) Unwrap() error {
	return e.cause
}

// Is checks if the target error is an AllocationError.
func (e *AllocationError) Is(target error) bool {
	_, ok := target.(*AllocationError)
	return ok
}

// NewAllocationError creates a new allocation error for a request of size bytes with an optional cause.
func NewAllocationError(size int, cause error) error {
	return &AllocationError{
		Size:  size,
		cause: cause,
	}
}

// IsAllocationFailure checks if an error is an allocation failure.
func IsAllocationFailure(err error) bool {
	if err == nil {
		return false
	}
	var allocErr *AllocationError
	return errors.As(err, &allocErr)
}

// ContractError represents misuse of a buffer by its owner: writing past its capacity,
// calling operations out of order or touching it after release.
type ContractError struct {
	message string
	cause   error
}

// Error implements the error interface.
func (e *ContractError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying cause error for error unwrapping.
func (e *ContractError) Unwrap() error {
	return e.cause
}

// Is matches contract errors by message so that wrapped instances compare equal
// to the sentinels below.
func (e *ContractError) Is(target error) bool {
	t, ok := target.(*ContractError)
	if !ok {
		return false
	}
	return t.message == e.message
}

// NewContractError creates a new contract violation with a message and optional cause.
func NewContractError(message string, cause error) error {
	return &ContractError{
		message: message,
		cause:   cause,
	}
}

// WrapContract attaches detail to one of the contract sentinels while keeping it matchable with errors.Is.
func WrapContract(sentinel error, format string, args ...any) error {
	var ce *ContractError
	if !errors.As(sentinel, &ce) {
		return fmt.Errorf(format+": %w", append(args, sentinel)...)
	}
	return &ContractError{
		message: ce.message,
		cause:   fmt.Errorf(format, args...),
	}
}

// IsContractViolation checks if an error is a contract violation.
func IsContractViolation(err error) bool {
	if err == nil {
		return false
	}
	var contractErr *ContractError
	return errors.As(err, &contractErr)
}

// Sentinel errors.
var (
	// ErrAllocationFailure matches any AllocationError through errors.Is.
	ErrAllocationFailure = &AllocationError{}

	// ErrBufferOverflow indicates a write that does not fit in the buffer capacity.
	ErrBufferOverflow = &ContractError{
		message: "buffer overflow",
	}

	// ErrInvalidState indicates an operation called out of lifecycle order.
	ErrInvalidState = &ContractError{
		message: "invalid buffer state",
	}

	// ErrUseAfterRelease indicates access to a buffer that was already released.
	ErrUseAfterRelease = &ContractError{
		message: "buffer used after release",
	}

	// ErrInvalidFree indicates a free of memory the allocator did not hand out.
	ErrInvalidFree = &ContractError{
		message: "free of unknown allocation",
	}
)
