package addresses

import "errors"

// Service errors.
var (
	ErrAddressNotFound  = errors.New("address not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrNoDefaultAddress = errors.New("no default address for user")
	ErrStreetRequired   = errors.New("street is required")
	ErrCityRequired     = errors.New("city is required")
	ErrZipCodeRequired  = errors.New("zip code is required")
	ErrUserIDRequired   = errors.New("user id is required")
	ErrStateLength      = errors.New("state must have exactly 2 characters")
)
