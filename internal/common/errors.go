package common

import "errors"

// Business logic errors
var (
	// General errors
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("forbidden")
	ErrConflict  = errors.New("conflict")

	// Validation errors
	ErrValidation   = errors.New("invalid input")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")

	// Auth errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrUserNotFound = errors.New("user not found")

	// Group errors
	ErrGroupNotFound = errors.New("group not found")
	// ErrNotMember is swallowed by the delivery layer: a non-member post is
	// dropped without a reply so room existence is not leaked.
	ErrNotMember = errors.New("not a group member")

	// Social graph errors
	ErrSelfReference  = errors.New("cannot target yourself")
	ErrAlreadyFriends = errors.New("already friends")
	ErrAlreadyPending = errors.New("request already pending")

	// Moderation errors
	// ErrMessageBlocked is never surfaced to the sender; the matched term
	// stays server-side so the filter cannot be probed.
	ErrMessageBlocked = errors.New("message blocked by moderation")

	// Workflow errors
	ErrRequestResolved  = errors.New("request already resolved")
	ErrTooManyPending   = errors.New("too many pending requests")
	ErrAccountSuspended = errors.New("account suspended")
	ErrAccountDeleted   = errors.New("account deleted")
)
