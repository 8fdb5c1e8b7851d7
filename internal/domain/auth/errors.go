package auth

import "errors"

// Auth domain errors
var (
	ErrInvalidToken           = errors.New("invalid or missing token")
	ErrAdminPrivilegeRequired = errors.New("admin privilege required")
	ErrMissingClaim           = errors.New("required claim missing from token")
)
