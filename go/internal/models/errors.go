package models

import "errors"

// Provider lookups wrap these so callers can tell a miss from a failure
var (
	ErrMatchNotFound = errors.New("match not found")
	ErrUserNotFound  = errors.New("user not found")
)
