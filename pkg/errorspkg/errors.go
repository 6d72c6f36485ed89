// Package errorspkg provides common app errors.
package errorspkg

import "errors"

var (
	// ErrInternal indicates an unexpected storage or infrastructure error. It is
	// the catch-all surfaced to callers when no domain error applies.
	ErrInternal = errors.New("internal")
	// ErrLockTimeout indicates that a bounded wait for a row lock expired.
	// It is a storage failure, never a business-rule failure.
	ErrLockTimeout = errors.New("lock wait timeout")
)
