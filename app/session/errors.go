package session

import "errors"

var (
	// ErrSessionNotFound indicates an unknown or expired session id.
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidOutingDate indicates the outing date text could not be read.
	ErrInvalidOutingDate = errors.New("could not recognize outing date")
)
