package service

import (
	"errors"
	"fmt"
)

var (
	// Rejections: recovered locally and returned to the player with a reason.
	ErrValidation        = errors.New("invalid wager request")
	ErrShapeRejected     = errors.New("wager shape rejected")
	ErrTypeMismatch      = errors.New("declared wager type does not match selection")
	ErrInsufficientFunds = errors.New("insufficient balance")
	ErrDailyLimit        = errors.New("daily stake limit reached")

	// Failures.
	ErrConcurrencyConflict = errors.New("concurrent ledger update")
	ErrServiceBusy         = errors.New("service busy, try again")
	ErrEntropyFailure      = errors.New("random source failure")
	ErrAccountNotFound     = errors.New("account not found")
)

// RejectionError is a user-facing refusal of a spin request
type RejectionError struct {
	Err    error
	Reason string
	// WagerIndex is the offending wager's position in the request, or -1
	WagerIndex int
}

func (e *RejectionError) Error() string {
	if e.WagerIndex >= 0 {
		return fmt.Sprintf("wager %d: %s", e.WagerIndex+1, e.Reason)
	}
	return e.Reason
}

func (e *RejectionError) Unwrap() error {
	return e.Err
}

func reject(sentinel error, wagerIndex int, format string, args ...any) error {
	return &RejectionError{
		Err:        sentinel,
		Reason:     fmt.Sprintf(format, args...),
		WagerIndex: wagerIndex,
	}
}

// IsRejection reports whether err is a recoverable rejection rather than a failure
func IsRejection(err error) bool {
	var rej *RejectionError
	return errors.As(err, &rej)
}
