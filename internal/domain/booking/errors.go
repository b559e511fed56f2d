package booking

import "errors"

var (
	ErrValidation              = errors.New("validation error")
	ErrSlotUnavailable         = errors.New("capacity exhausted for the requested window")
	ErrCheckInWindowClosed     = errors.New("check-in window is closed")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrForbidden               = errors.New("forbidden")
	ErrNotFound                = errors.New("booking not found")
)
