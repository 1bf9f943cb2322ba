package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("already exists")
	ErrConcurrencyConflict = errors.New("concurrency conflict")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrAlreadyMember       = errors.New("already a member")
	ErrInvalidInviteCode   = errors.New("invalid invite code")
	ErrLastMember          = errors.New("cannot remove or downgrade the last member in the workspace")
	ErrMixedWorkspaces     = errors.New("all records must belong to the same workspace")
	ErrInvalidTime         = errors.New("invalid time")
	ErrInvalidDateRange    = errors.New("end date precedes start date")
)
