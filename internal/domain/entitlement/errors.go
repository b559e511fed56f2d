package entitlement

import "errors"

// Expected business outcomes. Handlers translate these into the structured
// 4xx codes; none of them is ever a 5xx.
var (
	ErrNoActiveSubscription = errors.New("no active subscription")
	ErrWeeklyLimitReached   = errors.New("weekly booking limit reached")
	ErrBlockTooLong         = errors.New("requested block exceeds membership maximum")
	ErrPassExhausted        = errors.New("punch pass has no punches remaining")
	ErrPassExpired          = errors.New("punch pass expired")
	ErrWalkInNotAllowed     = errors.New("membership does not include walk-ins")
	ErrAdvanceWindow        = errors.New("session is outside the advance booking window")
	ErrRefInvalid           = errors.New("exactly one entitlement reference is required")
	ErrNotFound             = errors.New("entitlement not found")

	// Malformed benefits blobs deny access; they never default open.
	ErrBenefitsInvalid = errors.New("membership benefits are missing or malformed")
)
