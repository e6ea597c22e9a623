package services

import "errors"

var (
	ErrInvalidOrder       = errors.New("invalid order column")
	ErrInvalidDirection   = errors.New("invalid order direction")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPasswordMismatch   = errors.New("current password does not match")
)
