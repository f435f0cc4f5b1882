// Package claim implements the check-in workflow on top of the attendee
// registry: code lookup, entry and gift claims, registration and the
// de-duplicated dashboard listings.
//
// Every operation is a stateless request/response against the store.
// Concurrency safety comes from the store's conditional updates, never from
// locks held in this process or from previously read snapshots.
package claim

import (
	"context"
	"errors"
	"huddygate/src-server/model"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/uptrace/bun"
)

const (
	KIND_ENTRY = "entry"
	KIND_GIFT  = "gift"

	OUTCOME_SUCCESS   = "success"
	OUTCOME_INVALID   = "invalid"
	OUTCOME_TRANSIENT = "transient"

	defaultStoreTimeout = 5 * time.Second
	maxCodeLength       = 256
)

// Observer receives timings and outcomes for instrumentation.
type Observer interface {
	ObserveStoreOp(op string, d time.Duration)
	ObserveClaim(kind, outcome string)
}

// Notifier delivers the ticket reference to a freshly registered attendee.
type Notifier interface {
	SendTicket(ctx context.Context, attendee model.Attendee) error
}

type Options struct {
	// StoreTimeout bounds every single store round-trip.
	StoreTimeout  time.Duration
	TicketBaseURL string
	Observer      Observer
	Notifier      Notifier
}

type Service struct {
	db            bun.IDB
	storeTimeout  time.Duration
	ticketBaseURL string
	observer      Observer
	notifier      Notifier

	now     func() time.Time
	newCode func(time.Time) string
}

func NewService(db bun.IDB, opts Options) *Service {
	s := &Service{
		db:            db,
		storeTimeout:  opts.StoreTimeout,
		ticketBaseURL: strings.TrimRight(opts.TicketBaseURL, "/"),
		observer:      opts.Observer,
		notifier:      opts.Notifier,
		now:           func() time.Time { return time.Now().UTC() },
		newCode:       NewUniqueCode,
	}
	if s.storeTimeout <= 0 {
		s.storeTimeout = defaultStoreTimeout
	}
	if s.observer == nil {
		s.observer = nopObserver{}
	}
	return s
}

// storeOp runs one store round-trip under its own timeout.
func (s *Service) storeOp(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	start := time.Now()
	err := fn(ctx)
	s.observer.ObserveStoreOp(op, time.Since(start))
	return err
}

// validateCode rejects payloads that can't be a stored code.
func validateCode(code string) (string, error) {
	code = strings.TrimSpace(code)
	switch {
	case code == "":
		return "", ErrValidation
	case len(code) > maxCodeLength:
		return "", ErrValidation
	case !utf8.ValidString(code):
		return "", ErrValidation
	}
	return code, nil
}

func outcomeOf(err error) string {
	if err == nil {
		return OUTCOME_SUCCESS
	}
	if reason, ok := DeniedReason(err); ok {
		return string(reason)
	}
	if errors.Is(err, ErrValidation) {
		return OUTCOME_INVALID
	}
	return OUTCOME_TRANSIENT
}

type nopObserver struct{}

func (nopObserver) ObserveStoreOp(string, time.Duration) {}
func (nopObserver) ObserveClaim(string, string)          {}
