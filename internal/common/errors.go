// Package common holds the error taxonomy shared by repositories, services,
// and the transport layer. Every failure a caller can act on maps to exactly
// one of these sentinels; callers check with errors.Is.
package common

import "errors"

var (
	// ErrNotFound: the target entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict: a uniqueness constraint was violated, including the
	// losing side of a concurrent duplicate create.
	ErrConflict = errors.New("already exists")

	// ErrNotAuthorized: the credential does not own the target package.
	// Deliberately a single generic signal, it does not distinguish
	// "name taken" from "forbidden".
	ErrNotAuthorized = errors.New("not authorized")

	// ErrInvalid: malformed input, e.g. a name whose canonical key is empty.
	ErrInvalid = errors.New("invalid input")

	// ErrUnavailable: the store could not be reached or the request was
	// aborted mid-flight. Never reported as ErrNotFound.
	ErrUnavailable = errors.New("storage unavailable")
)
