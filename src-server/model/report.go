package model

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// Flag selects which claim column a report is built on.
type Flag string

const (
	FLAG_ENTERED = Flag("is_entered")
	FLAG_GIFTED  = Flag("is_gifted")
)

// SortKey is a column the dashboard may order representative rows by.
type SortKey string

const (
	SORT_BY_NAME        = SortKey("name")
	SORT_BY_EMAIL       = SortKey("email")
	SORT_BY_UNIQUE_CODE = SortKey("unique_code")
	SORT_BY_CREATED_AT  = SortKey("created_at")
)

func (k SortKey) Valid() bool {
	switch k {
	case SORT_BY_NAME, SORT_BY_EMAIL, SORT_BY_UNIQUE_CODE, SORT_BY_CREATED_AT:
		return true
	}
	return false
}

func (f Flag) valid() bool {
	return f == FLAG_ENTERED || f == FLAG_GIFTED
}

// DistinctEmails pages over the set of distinct emails having the flag set,
// newest registration first.
func DistinctEmails(ctx context.Context, db bun.IDB, flag Flag, offset, limit int) ([]string, error) {
	if !flag.valid() {
		return nil, fmt.Errorf("DistinctEmails: unknown flag %q", flag)
	}
	emails := make([]string, 0)
	if err := db.NewSelect().
		Model((*Attendee)(nil)).
		ColumnExpr("email").
		Where("? = ?", bun.Ident(string(flag)), true).
		Group("email").
		OrderExpr("MAX(created_at) DESC, email ASC").
		Offset(offset).
		Limit(limit).
		Scan(ctx, &emails); err != nil {
		return nil, fmt.Errorf("DistinctEmails: %w", err)
	}
	return emails, nil
}

func CountDistinctEmails(ctx context.Context, db bun.IDB, flag Flag) (int, error) {
	if !flag.valid() {
		return 0, fmt.Errorf("CountDistinctEmails: unknown flag %q", flag)
	}
	var count int
	if err := db.NewSelect().
		Model((*Attendee)(nil)).
		ColumnExpr("COUNT(DISTINCT email)").
		Where("? = ?", bun.Ident(string(flag)), true).
		Scan(ctx, &count); err != nil {
		return 0, fmt.Errorf("CountDistinctEmails: %w", err)
	}
	return count, nil
}

// AttendeesByEmails fetches every flagged row for the given emails in the
// requested order. Callers keep the first row per email.
func AttendeesByEmails(ctx context.Context, db bun.IDB, flag Flag, emails []string, sortBy SortKey, asc bool) ([]Attendee, error) {
	switch {
	case !flag.valid():
		return nil, fmt.Errorf("AttendeesByEmails: unknown flag %q", flag)
	case !sortBy.Valid():
		return nil, fmt.Errorf("AttendeesByEmails: unknown sort key %q", sortBy)
	}
	attendees := make([]Attendee, 0)
	if len(emails) == 0 {
		return attendees, nil
	}
	direction := "DESC"
	if asc {
		direction = "ASC"
	}
	if err := db.NewSelect().
		Model(&attendees).
		Where("? = ?", bun.Ident(string(flag)), true).
		Where("email IN (?)", bun.In(emails)).
		OrderExpr("? "+direction, bun.Ident(string(sortBy))).
		OrderExpr("id ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("AttendeesByEmails: %w", err)
	}
	return attendees, nil
}
