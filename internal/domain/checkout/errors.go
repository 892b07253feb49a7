// internal/domain/checkout/errors.go
package checkout

import "errors"

var (
	ErrAttemptNotFound  = errors.New("payment attempt not found")
	ErrAttemptCancelled = errors.New("payment attempt was cancelled")
	ErrAttemptFulfilled = errors.New("payment attempt is already fulfilled")
	ErrSessionMismatch  = errors.New("payment attempt belongs to another session")
	ErrInvalidToken     = errors.New("invalid payment attempt token")
	ErrInvalidSignature = errors.New("payment signature verification failed")
)
