package services

import "errors"

// Common service errors
var (
	ErrNotFound         = errors.New("record not found")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidState     = errors.New("invalid state transition")
	ErrDuplicate        = errors.New("duplicate record")
	ErrUnitNotAvailable = errors.New("unit is not available")
	ErrInvalidScheme    = errors.New("invalid payment scheme")
)
