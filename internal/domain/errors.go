package domain

import "errors"

var (
	// OTP errors
	ErrOTPNotFound        = errors.New("no OTP found for this email")
	ErrOTPExpired         = errors.New("OTP expired")
	ErrOTPMismatch        = errors.New("invalid OTP")
	ErrOTPTooManyAttempts = errors.New("too many failed attempts")

	// User errors
	ErrUserNotFound = errors.New("user does not exist")

	// Identity provider errors
	ErrIdentityUnavailable = errors.New("identity provider is not configured")

	// Validation errors
	ErrEmailRequired    = errors.New("email is required")
	ErrCodeRequired     = errors.New("OTP code is required")
	ErrPasswordRequired = errors.New("new password is required")
)
