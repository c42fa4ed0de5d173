package domain

import "errors"

// ErrValidation wraps every field validation failure
var ErrValidation = errors.New("validation failed")
