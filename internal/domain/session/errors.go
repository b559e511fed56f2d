package session

import "errors"

var (
	ErrNotFound   = errors.New("session not found")
	ErrValidation = errors.New("validation error")
)
