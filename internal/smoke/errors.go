package smoke

import "errors"

var (
	// ErrUnhealthy is returned when the service health check fails.
	ErrUnhealthy = errors.New("service unhealthy")
	// ErrVerification is returned when a response breaks an expected property.
	ErrVerification = errors.New("verification failed")
	// ErrUnexpectedStatus is returned for an HTTP status the step does not accept.
	ErrUnexpectedStatus = errors.New("unexpected status")
)
