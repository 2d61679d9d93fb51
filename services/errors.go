// File: /services/errors.go
package services

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by the engagement services. Controllers map these
// to HTTP codes; everything else wraps the store error and is treated as
// ErrStoreUnavailable territory by callers.
var (
	// ErrInvalidOperation marks a structurally impossible request, such as
	// following yourself.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrValidation marks malformed input, such as an empty folder name.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a missing referenced entity (post, profile,
	// conversation).
	ErrNotFound = errors.New("not found")

	// ErrStoreUnavailable marks a transient store failure. Callers must not
	// assume partial success.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrForbidden marks an actor touching an entity it does not own or
	// participate in.
	ErrForbidden = errors.New("forbidden")
)

// storeErr classifies a raw store error as ErrStoreUnavailable, keeping
// the original in the chain. Nil and already-classified errors pass
// through so call sites can wrap unconditionally at the return.
func storeErr(err error) error {
	if err == nil || errors.Is(err, ErrStoreUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}
