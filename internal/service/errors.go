// Package service provides the OAuth login flow and account setup business logic.
package service

import (
	"errors"

	"jobportal/internal/models"
)

var (
	// ErrAuthenticationFailed wraps any storage failure while resolving an OAuth login.
	ErrAuthenticationFailed = errors.New("authentication failed")
	// ErrPromotionFailed wraps any failure inside the employer promotion transaction.
	ErrPromotionFailed = errors.New("employer promotion failed")
	// ErrEmailNotVerified is returned when an unverified provider email would
	// link to or create an account.
	ErrEmailNotVerified = errors.New("provider email is not verified")
	// ErrSlugExhausted is returned when no free company slug was found.
	ErrSlugExhausted = errors.New("could not allocate a unique company slug")
)

var (
	ErrPasswordAlreadySet   = models.NewConflictError("Password is already set")
	ErrNotOAuthAccount      = models.NewConflictError("Account is not an OAuth account")
	ErrPasswordSkipDisabled = models.NewForbiddenError("Skipping password setup is not enabled")
	ErrProviderNotLinked    = models.NewConflictError("Account is not linked to Google")
)
