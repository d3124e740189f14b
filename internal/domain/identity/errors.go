package identity

import "errors"

// Session invariant violations
var (
	ErrSessionMissingUser = errors.New("session has no user id")
	ErrSessionInvalidRole = errors.New("session has an invalid role")
)
