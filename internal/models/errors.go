package models

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrNoActiveEvent        = errors.New("no active event")
	ErrNoArtifacts          = errors.New("no artifacts to generate")
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrPayloadTooLarge      = errors.New("payload too large for qr symbol")
	ErrIO                   = errors.New("io failure")
	ErrInvalidField         = errors.New("invalid field value")
	ErrDuplicateID          = errors.New("duplicate id")
	ErrUnsupportedVersion   = errors.New("unsupported document version")
)
