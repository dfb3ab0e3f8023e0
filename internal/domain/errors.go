package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error a service returns wraps exactly one of these.
var (
	// ErrNotAuthorized covers both "does not exist" and "exists but forbidden"
	// so that callers cannot discover resources on other boards.
	ErrNotAuthorized    = errors.New("not authorized or not found")
	ErrValidation       = errors.New("validation failed")
	ErrConflict         = errors.New("conflict")
	ErrStoreUnavailable = errors.New("temporary failure, please retry")
)

// Validation errors
var (
	ErrEmptyTitle         = fmt.Errorf("%w: title is required", ErrValidation)
	ErrColumnNotInBoard   = fmt.Errorf("%w: column does not belong to this board", ErrValidation)
	ErrAssigneeNotMember  = fmt.Errorf("%w: assignee is not a member of this board", ErrValidation)
	ErrInvalidOrder       = fmt.Errorf("%w: order must not be negative", ErrValidation)
	ErrInvalidWarningDays = fmt.Errorf("%w: warning days must not be negative", ErrValidation)
	ErrInvalidEmail       = fmt.Errorf("%w: invalid email address", ErrValidation)
	ErrDuplicateInvite    = fmt.Errorf("%w: a pending invite already exists for this email", ErrValidation)
	ErrAlreadyMember      = fmt.Errorf("%w: user is already a member of this board", ErrValidation)
	ErrRateLimited        = fmt.Errorf("%w: daily limit reached, try again later", ErrValidation)
	ErrInviteExpired      = fmt.Errorf("%w: invite has expired", ErrValidation)
	ErrInvalidVerifyCode  = fmt.Errorf("%w: verification code is invalid or expired", ErrValidation)
	ErrLastOwner          = fmt.Errorf("%w: a board must keep at least one owner", ErrValidation)
	ErrWeakPassword       = fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrValidation)
	ErrMessageRequired    = fmt.Errorf("%w: message is required", ErrValidation)
	ErrInvalidInviteToken = fmt.Errorf("%w: invite token is invalid", ErrValidation)
	ErrNameRequired       = fmt.Errorf("%w: full name is required", ErrValidation)
)

// Conflict errors
var (
	ErrInviteAlreadyUsed     = fmt.Errorf("%w: invite has already been used", ErrConflict)
	ErrVerifyCodeAlreadyUsed = fmt.Errorf("%w: verification code has already been used", ErrConflict)
	ErrEmailExists           = fmt.Errorf("%w: email is already registered", ErrConflict)
)

// Kind returns the kind sentinel err belongs to, or nil when err is not a
// domain error.
func Kind(err error) error {
	for _, k := range []error{ErrNotAuthorized, ErrValidation, ErrConflict, ErrStoreUnavailable} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// IsDomainError reports whether err is safe to show to a client as-is.
func IsDomainError(err error) bool {
	return Kind(err) != nil
}
