package model

import "errors"

var (
	ErrValidation          = errors.New("validation failed")
	ErrDuplicateReview     = errors.New("user already reviewed this movie")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("already exists")
	ErrInvalidNativeID     = errors.New("invalid native id")
	ErrUpstreamTransient   = errors.New("external catalog temporarily unreachable")
	ErrUpstreamUnavailable = errors.New("external catalog unavailable")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
)
