package user

import "errors"

var (
	// -- Resource State --
	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("email already registered")

	// -- Validation & Input --
	ErrNameRequired     = errors.New("name cannot be empty")
	ErrEmailRequired    = errors.New("email cannot be empty")
	ErrInvalidRole      = errors.New("role must be buyer, seller or admin")
	ErrReputationRange  = errors.New("reputation must be between 0 and 100")
	ErrPasswordRequired = errors.New("password cannot be empty")
	ErrNoUpdateFields   = errors.New("no fields to update")

	// -- Authentication --
	ErrInvalidCredentials = errors.New("invalid email or password")

	// -- Constants (External Systems) --
	PgUniqueViolation = "23505"
)
