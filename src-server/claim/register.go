package claim

import (
	"context"
	"fmt"
	"huddygate/src-server/model"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const codeAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

type Registration struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	// optional; generated when blank. Re-submitting an existing code updates
	// that registration instead of creating a new one.
	UniqueCode string `json:"uniqueCode,omitempty"`
}

// NewUniqueCode returns USER-<unix millis>-<9 random base36 chars>.
func NewUniqueCode(now time.Time) string {
	id := uuid.New()
	suffix := make([]byte, 0, 9)
	// bytes 6 and 8 carry the uuid version and variant bits
	for _, b := range append(id[0:6:6], id[7], id[9], id[10]) {
		suffix = append(suffix, codeAlphabet[int(b)%len(codeAlphabet)])
	}
	return fmt.Sprintf("USER-%d-%s", now.UnixMilli(), suffix)
}

// Register stores (or refreshes) a registration and sends the ticket
// reference to the attendee when a notifier is configured.
func (s *Service) Register(ctx context.Context, reg Registration) (*model.Attendee, error) {
	name := model.CleanupName(reg.Name)
	email := model.NormalizeEmail(reg.Email)
	switch {
	case name == "":
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	case email == "":
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	case !emailRegex.MatchString(email):
		return nil, fmt.Errorf("%w: email %q is not valid", ErrValidation, email)
	}

	now := s.now()
	code := strings.TrimSpace(reg.UniqueCode)
	if code == "" {
		code = s.newCode(now)
	} else if _, err := validateCode(code); err != nil {
		return nil, fmt.Errorf("%w: unique code is not valid", ErrValidation)
	}

	attendee := &model.Attendee{
		Name:       name,
		Email:      email,
		UniqueCode: code,
		CreatedAt:  now,
	}
	if s.ticketBaseURL != "" {
		attendee.TicketURL = s.ticketBaseURL + "/" + code + ".png"
	}

	if err := s.storeOp(ctx, "upsert_attendee", func(ctx context.Context) error {
		return attendee.Upsert(ctx, s.db)
	}); err != nil {
		return nil, storeError("upsert_attendee", err)
	}

	if s.notifier != nil {
		if err := s.notifier.SendTicket(ctx, *attendee); err != nil {
			slog.Warn("can't send ticket", "code", attendee.UniqueCode, "email", attendee.Email, "error", err)
		}
	}
	return attendee, nil
}
