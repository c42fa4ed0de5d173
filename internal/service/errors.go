package service

import "errors"

// ErrInvalidTransition alert lifecycle step not allowed from the current status
var ErrInvalidTransition = errors.New("invalid status transition")
