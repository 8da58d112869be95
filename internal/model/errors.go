package model

import "errors"

var (
	// Archive related errors
	ErrArchiveEntryNotFound = errors.New("archive entry not found")
	ErrInvalidEntityType    = errors.New("invalid entity type")
	ErrInvalidSettings      = errors.New("invalid archive settings")

	// Collaborator errors
	ErrBackendUnavailable = errors.New("clinic backend unavailable")

	// Permission/Access related errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
