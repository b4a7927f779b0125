package auth

import "errors"

// Sign-in failures. An unknown email and a wrong password both yield ErrInvalidCredentials.
var (
	ErrCredentialsRequired = errors.New("Email and password are required")
	ErrInvalidCredentials  = errors.New("Invalid email or password")
	ErrNotAdmin            = errors.New("Account has no admin access")
)
