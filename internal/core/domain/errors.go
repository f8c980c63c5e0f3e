package domain

import "errors"

var (
	// ErrNoSession marks a request with no resolvable session behind it.
	ErrNoSession = errors.New("no active session")
	// ErrInvalidToken marks a bearer token that failed to decode.
	ErrInvalidToken = errors.New("invalid token")

	// ErrCarUnavailable blocks renting a car whose availability flag is off.
	ErrCarUnavailable = errors.New("car is not available")
	// ErrRentalNotFound is returned when a rental id matches nothing in the
	// caller's history.
	ErrRentalNotFound = errors.New("rental not found")
	// ErrInvalidPaymentMethod blocks a payment with an unknown method id.
	ErrInvalidPaymentMethod = errors.New("invalid payment method")

	// ErrStagingNotFound marks an expired or unknown upload staging area.
	ErrStagingNotFound = errors.New("upload staging not found")
	// ErrMissingCarID blocks an upload submission with no car identifier.
	ErrMissingCarID = errors.New("car id is required")
	// ErrNoStagedFiles blocks an upload submission with zero staged files.
	ErrNoStagedFiles = errors.New("no files staged for upload")
)
