package jsonx

import "errors"

var (
	// ErrNoObject is returned when the text contains no opening brace.
	ErrNoObject = errors.New("jsonx: no json object in text")
	// ErrUnbalanced is returned when an object is opened but never closed.
	ErrUnbalanced = errors.New("jsonx: unbalanced json object")
)
