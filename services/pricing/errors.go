package pricing

import "errors"

var (
	// ErrInternal is returned on client-side request failures.
	ErrInternal = errors.New("pricing client: internal error")

	// ErrInvalidResponse is returned when the service replies with an
	// unexpected status or an undecodable body.
	ErrInvalidResponse = errors.New("pricing client: invalid response")

	// ErrUnavailable is returned when the pricing service cannot be
	// reached; callers degrade to the last-known or estimated price.
	ErrUnavailable = errors.New("pricing service unavailable")
)
