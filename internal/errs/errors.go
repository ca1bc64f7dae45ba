package errs

import "errors"

// Common sentinel errors for cross-layer signaling.
var (
	ErrNotFound = errors.New("not_found")
	ErrConflict = errors.New("conflict")
	ErrInvalid  = errors.New("invalid")
	// ErrUnauthorized signals a credential mismatch (HTTP 401)
	ErrUnauthorized = errors.New("unauthorized")
	// ErrStorage wraps failures of the underlying store (connectivity, driver errors).
	// It is never conflated with ErrNotFound.
	ErrStorage = errors.New("storage")
)

// Storage wraps err so that errors.Is(err, ErrStorage) holds while the cause stays reachable.
func Storage(err error) error {
	if err == nil {
		return nil
	}
	return &storageError{err: err}
}

type storageError struct{ err error }

func (e *storageError) Error() string { return "storage: " + e.err.Error() }

func (e *storageError) Unwrap() []error { return []error{ErrStorage, e.err} }
