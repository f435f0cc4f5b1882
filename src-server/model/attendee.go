package model

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

type Attendee struct {
	bun.BaseModel `bun:"table:attendees,alias:attendee"`

	ID         int64     `bun:"id,pk,autoincrement" json:"id"`
	Name       string    `bun:"name,notnull" json:"name"`                      // required
	Email      string    `bun:"email,notnull" json:"email"`                    // required, normalized, NOT unique
	UniqueCode string    `bun:"unique_code,notnull,unique" json:"uniqueCode"`  // required, encoded in the QR
	IsEntered  bool      `bun:"is_entered,notnull,default:false" json:"isEntered"`
	IsGifted   bool      `bun:"is_gifted,notnull,default:false" json:"isGifted"`
	TicketURL  string    `bun:"ticket_url" json:"ticketUrl,omitempty"`
	CreatedAt  time.Time `bun:"created_at,notnull" json:"createdAt"`
}

// Upsert inserts the attendee or, when the unique code is already taken,
// refreshes its name, email and ticket URL. Claim flags and created_at are
// never touched by a re-registration.
func (a *Attendee) Upsert(ctx context.Context, db bun.IDB) error {
	a.Email = NormalizeEmail(a.Email)
	switch {
	case strings.TrimSpace(a.UniqueCode) == "":
		return fmt.Errorf("(*Attendee).Upsert: unique code is blank")
	case strings.TrimSpace(a.Name) == "":
		return fmt.Errorf("(*Attendee).Upsert: name is blank")
	case strings.TrimSpace(a.Email) == "":
		return fmt.Errorf("(*Attendee).Upsert: email is blank")
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	if _, err := db.NewInsert().
		Model(a).
		Column("name", "email", "unique_code", "is_entered", "is_gifted", "ticket_url", "created_at").
		On("CONFLICT (unique_code) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("email = EXCLUDED.email").
		Set("ticket_url = EXCLUDED.ticket_url").
		Returning("*").
		Exec(ctx); err != nil {
		return fmt.Errorf("(*Attendee).Upsert: %w", err)
	}

	return nil
}

func FindAttendeeByCode(ctx context.Context, db bun.IDB, code string) (*Attendee, error) {
	attendee := new(Attendee)
	if err := db.NewSelect().
		Model(attendee).
		Where("unique_code = ?", code).
		Limit(1).
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("FindAttendeeByCode: %w", err)
	}
	return attendee, nil
}

func FindAttendeesByEmail(ctx context.Context, db bun.IDB, email string) ([]Attendee, error) {
	attendees := make([]Attendee, 0)
	if err := db.NewSelect().
		Model(&attendees).
		Where("email = ?", email).
		Order("id ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("FindAttendeesByEmail: %w", err)
	}
	return attendees, nil
}

// MarkEnteredByEmail flags every row of the email group as entered in a single
// statement and returns the rows it touched.
func MarkEnteredByEmail(ctx context.Context, db bun.IDB, email string) ([]Attendee, error) {
	updated := make([]Attendee, 0)
	if _, err := db.NewUpdate().
		Model((*Attendee)(nil)).
		Set("is_entered = ?", true).
		Where("email = ?", email).
		Returning("*").
		Exec(ctx, &updated); err != nil {
		return nil, fmt.Errorf("MarkEnteredByEmail: %w", err)
	}
	return updated, nil
}

// MarkGiftedByEmail is the conditional update behind a gift claim. The
// predicate and the mutation run as one statement, so of two racing callers
// only one can see is_gifted = false; the other gets zero rows back.
func MarkGiftedByEmail(ctx context.Context, db bun.IDB, email string) ([]Attendee, error) {
	updated := make([]Attendee, 0)
	if _, err := db.NewUpdate().
		Model((*Attendee)(nil)).
		Set("is_gifted = ?", true).
		Where("email = ?", email).
		Where("is_entered = ?", true).
		Where("is_gifted = ?", false).
		Returning("*").
		Exec(ctx, &updated); err != nil {
		return nil, fmt.Errorf("MarkGiftedByEmail: %w", err)
	}
	return updated, nil
}

func CountAttendees(ctx context.Context, db bun.IDB) (int, error) {
	count, err := db.NewSelect().
		Model((*Attendee)(nil)).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("CountAttendees: %w", err)
	}
	return count, nil
}
