package errs

import "errors"

// Boundary-level sentinel errors shared by usecases and handlers.
// Component-specific errors live next to their owners (scantoken, loyalty).
var (
	// Authorization errors
	ErrForbidden = errors.New("forbidden")

	// Identity errors
	ErrCustomerIdentityRequired = errors.New("customer identity required")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
