package domain

import "errors"

var (
	// ErrInvalidCredentials is returned when the auth service rejects a login.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrServiceUnavailable is returned when a collaborator backend cannot be reached
	// or answers with a non-success status that is not a credential problem.
	ErrServiceUnavailable = errors.New("service unavailable")
	// ErrUnauthorized is returned when the session lacks the permission or role an
	// operation requires.
	ErrUnauthorized = errors.New("action not permitted")
	// ErrInvalidTransition is returned for any status change the transition table
	// does not define.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrMissingField is returned when a transition payload lacks a required field.
	ErrMissingField = errors.New("required field missing")
	// ErrInvalidArgument is returned for contractually invalid calculator input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrStaleSession is returned when no live session exists for a handle, either
	// because it was never issued, was logged out, or its token expired.
	ErrStaleSession = errors.New("no active session")
	// ErrPetitionNotFound is returned when the petition store has no record for a
	// radicado number.
	ErrPetitionNotFound = errors.New("petition not found")
)
