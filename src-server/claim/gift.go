package claim

import (
	"context"
	"errors"
	"huddygate/src-server/model"
	"log/slog"
)

// ClaimGift hands out the gift at most once per email group.
//
// Denials come in priority order: not_found, not_entered, already_taken. The
// not_entered check reads the group, but the decisive step is the conditional
// update: whichever concurrent caller flips is_gifted first wins, any other
// caller sees zero rows and is told already_taken.
func (s *Service) ClaimGift(ctx context.Context, code string) (res *Result, err error) {
	defer func() { s.observer.ObserveClaim(KIND_GIFT, outcomeOf(err)) }()

	code, err = validateCode(code)
	if err != nil {
		return nil, err
	}

	g, err := s.resolveGroup(ctx, code)
	switch {
	case errors.Is(err, ErrNotFound):
		return nil, deny(REASON_NOT_FOUND)
	case err != nil:
		return nil, err
	}
	if len(g.members) == 0 {
		return nil, deny(REASON_NOT_FOUND)
	}
	if !g.anyEntered() {
		return nil, deny(REASON_NOT_ENTERED)
	}

	var updated []model.Attendee
	if err := s.storeOp(ctx, "mark_gifted", func(ctx context.Context) error {
		var err error
		updated, err = model.MarkGiftedByEmail(ctx, s.db, g.seed.Email)
		return err
	}); err != nil {
		return nil, storeError("mark_gifted", err)
	}
	if len(updated) == 0 {
		return nil, deny(REASON_ALREADY_TAKEN)
	}

	slog.Debug("gift claimed", "code", code, "email", g.seed.Email, "updated", len(updated))
	return &Result{
		Email:        g.seed.Email,
		Name:         g.seed.Name,
		UpdatedCount: len(updated),
		Updated:      updated,
	}, nil
}
