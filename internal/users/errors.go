package users

import "errors"

// Service errors.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUserNameExists   = errors.New("username already in use")
	ErrUserNameRequired = errors.New("username is required")
	ErrFullNameRequired = errors.New("full name is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrInvalidRole      = errors.New("role must be ADMIN, OPERATOR or CUSTOMER")
)
