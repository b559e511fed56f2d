package waitlist

import "errors"

var (
	ErrNotFound          = errors.New("waitlist entry not found")
	ErrAlreadyWaitlisted = errors.New("customer already waitlisted for this slot")
	ErrForbidden         = errors.New("waitlist entry belongs to another customer")
	ErrValidation        = errors.New("invalid waitlist request")
)
