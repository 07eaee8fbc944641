package domain

import "errors"

// DVD validation errors
var (
	ErrTitleRequired   = errors.New("title is required")
	ErrInvalidYear     = errors.New("year is out of range")
	ErrInvalidDuration = errors.New("duration must be at least one minute")
)

// Auth validation errors
var (
	ErrInvalidEmail     = errors.New("invalid email format")
	ErrPasswordTooShort = errors.New("password is too short")
)
