package stylist

import (
	"errors"
	"fmt"
)

// Sentinel kinds for stylist errors. Every failure of a generative call is
// reported as ErrGenerationFailed except a missing credential.
var (
	ErrGenerationFailed  = errors.New("generation failed")
	ErrCredentialMissing = errors.New("upstream credential missing")
	ErrInvalidImage      = errors.New("invalid image")

	errEmptyTags = errors.New("garment tags are empty")
)

// Failure reasons used for metrics labels and logs.
const (
	reasonCredential = "credential"
	reasonImage      = "bad_image"
	reasonUpstream   = "upstream"
	reasonNoJSON     = "no_json"
	reasonBadJSON    = "invalid_json"
	reasonSchema     = "schema"
	reasonIncomplete = "incomplete"
)

// generationError is an ErrGenerationFailed with a reason attached.
type generationError struct {
	reason string
	cause  error
}

func (e *generationError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrGenerationFailed, e.reason, e.cause)
}

func (e *generationError) Unwrap() []error { return []error{ErrGenerationFailed, e.cause} }

func failed(reason string, cause error) error {
	return &generationError{reason: reason, cause: cause}
}

// reasonOf returns the failure reason for metrics.
func reasonOf(err error) string {
	var ge *generationError
	switch {
	case errors.As(err, &ge):
		return ge.reason
	case errors.Is(err, ErrCredentialMissing):
		return reasonCredential
	default:
		return reasonUpstream
	}
}
