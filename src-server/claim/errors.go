package claim

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
)

var (
	// ErrValidation is returned before any store call when the scanned
	// payload can't possibly be a code.
	ErrValidation = errors.New("invalid scan payload")
	// ErrNotFound means no attendee carries the scanned code.
	ErrNotFound = errors.New("attendee not found")
	// ErrTransient means the registry could not be reached or did not confirm
	// the write. The same request is safe to issue again.
	ErrTransient = errors.New("registry unavailable")
)

type Reason string

const (
	REASON_NOT_FOUND     = Reason("not_found")
	REASON_NOT_ENTERED   = Reason("not_entered")
	REASON_ALREADY_TAKEN = Reason("already_taken")
)

// DeniedError is a definitive "no" from a claim. It is not a failure and must
// not be retried.
type DeniedError struct {
	Reason Reason
}

func (e *DeniedError) Error() string {
	return "claim denied: " + string(e.Reason)
}

// Is lets a not_found denial match ErrNotFound.
func (e *DeniedError) Is(target error) bool {
	return target == ErrNotFound && e.Reason == REASON_NOT_FOUND
}

// DeniedReason reports the denial reason carried by err, if any.
func DeniedReason(err error) (Reason, bool) {
	var denied *DeniedError
	if errors.As(err, &denied) {
		return denied.Reason, true
	}
	return "", false
}

func deny(reason Reason) error {
	return &DeniedError{Reason: reason}
}

// storeError maps a raw store error to the caller-facing taxonomy. The raw
// error is logged here and goes no further.
func storeError(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		slog.Warn("store call abandoned", "op", op, "error", err)
	default:
		slog.Error("store call failed", "op", op, "error", err)
	}
	return fmt.Errorf("%s: %w", op, ErrTransient)
}
