package model

import "errors"

// Sentinel kinds for model validation.
var (
	ErrIncompletePlan = errors.New("incomplete plan")
)
