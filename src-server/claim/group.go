package claim

import (
	"context"
	"huddygate/src-server/model"
)

// group is everyone registered under the same email as a scanned code.
type group struct {
	seed    *model.Attendee
	members []model.Attendee
}

func (g *group) anyEntered() bool {
	for _, m := range g.members {
		if m.IsEntered {
			return true
		}
	}
	return false
}

// resolveGroup goes code -> email -> sibling records. Both claim kinds go
// through here so duplicate registrations are treated the same way.
func (s *Service) resolveGroup(ctx context.Context, code string) (*group, error) {
	seed, err := s.lookup(ctx, code)
	if err != nil {
		return nil, err
	}

	var members []model.Attendee
	if err := s.storeOp(ctx, "find_by_email", func(ctx context.Context) error {
		var err error
		members, err = model.FindAttendeesByEmail(ctx, s.db, seed.Email)
		return err
	}); err != nil {
		return nil, storeError("find_by_email", err)
	}

	return &group{seed: seed, members: members}, nil
}

func (s *Service) lookup(ctx context.Context, code string) (*model.Attendee, error) {
	var attendee *model.Attendee
	if err := s.storeOp(ctx, "find_by_code", func(ctx context.Context) error {
		var err error
		attendee, err = model.FindAttendeeByCode(ctx, s.db, code)
		return err
	}); err != nil {
		return nil, storeError("find_by_code", err)
	}
	return attendee, nil
}

// Lookup resolves a scanned code to its attendee record without side effects.
func (s *Service) Lookup(ctx context.Context, code string) (*model.Attendee, error) {
	code, err := validateCode(code)
	if err != nil {
		return nil, err
	}
	return s.lookup(ctx, code)
}
