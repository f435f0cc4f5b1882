package claim

import (
	"context"
	"errors"
	"huddygate/src-server/model"
	"log/slog"
)

type Result struct {
	Email        string           `json:"email"`
	Name         string           `json:"name"`
	UpdatedCount int              `json:"updatedCount"`
	Updated      []model.Attendee `json:"updatedRecords"`
}

// ClaimEntry marks every record sharing the scanned code's email as entered.
//
// It is idempotent: a repeat claim succeeds again and reports the same rows,
// so a scanner that lost the response can simply re-send the code.
func (s *Service) ClaimEntry(ctx context.Context, code string) (res *Result, err error) {
	defer func() { s.observer.ObserveClaim(KIND_ENTRY, outcomeOf(err)) }()

	code, err = validateCode(code)
	if err != nil {
		return nil, err
	}

	seed, err := s.lookup(ctx, code)
	switch {
	case errors.Is(err, ErrNotFound):
		return nil, deny(REASON_NOT_FOUND)
	case err != nil:
		return nil, err
	}

	var updated []model.Attendee
	if err := s.storeOp(ctx, "mark_entered", func(ctx context.Context) error {
		var err error
		updated, err = model.MarkEnteredByEmail(ctx, s.db, seed.Email)
		return err
	}); err != nil {
		return nil, storeError("mark_entered", err)
	}

	slog.Debug("entry claimed", "code", code, "email", seed.Email, "updated", len(updated))
	return &Result{
		Email:        seed.Email,
		Name:         seed.Name,
		UpdatedCount: len(updated),
		Updated:      updated,
	}, nil
}
