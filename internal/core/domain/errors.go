package domain

import "errors"

var (
	ErrValidation       = errors.New("invalid input")
	ErrPositionNotFound = errors.New("position not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrCandidateIndex   = errors.New("candidate index out of range")
	ErrAlreadyVoted     = errors.New("user has already voted on this position")
	ErrConflict         = errors.New("concurrent update conflict")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrEmailTaken       = errors.New("email already in use")
)
