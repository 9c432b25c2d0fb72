package profile

import "errors"

var (
	// ErrInvalidProfile is returned when a loading profile fails validation.
	ErrInvalidProfile = errors.New("invalid loading profile")
)
