package claim

import (
	"context"
	"fmt"
	"huddygate/src-server/model"
	"strings"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type ListOptions struct {
	Page     int
	PageSize int
	SortBy   model.SortKey
	// "asc" or "desc"
	Order string
}

type Page struct {
	Records    []model.Attendee `json:"records"`
	TotalCount int              `json:"totalCount"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
}

type Stats struct {
	Registered int `json:"registered"`
	Entered    int `json:"entered"`
	Gifted     int `json:"gifted"`
}

func (o ListOptions) normalize() (ListOptions, error) {
	if o.Page == 0 {
		o.Page = 1
	}
	if o.PageSize == 0 {
		o.PageSize = DefaultPageSize
	}
	if o.SortBy == "" {
		o.SortBy = model.SORT_BY_CREATED_AT
	}
	o.Order = strings.ToLower(strings.TrimSpace(o.Order))
	if o.Order == "" {
		o.Order = "desc"
	}

	switch {
	case o.Page < 1:
		return o, fmt.Errorf("%w: page must be at least 1", ErrValidation)
	case o.PageSize < 1 || o.PageSize > MaxPageSize:
		return o, fmt.Errorf("%w: page size must be between 1 and %d", ErrValidation, MaxPageSize)
	case !o.SortBy.Valid():
		return o, fmt.Errorf("%w: can't sort by %q", ErrValidation, o.SortBy)
	case o.Order != "asc" && o.Order != "desc":
		return o, fmt.Errorf("%w: order must be asc or desc", ErrValidation)
	}
	return o, nil
}

// ListEntered lists one representative record per distinct entered email.
func (s *Service) ListEntered(ctx context.Context, opts ListOptions) (*Page, error) {
	return s.list(ctx, model.FLAG_ENTERED, opts)
}

// ListGifted lists one representative record per distinct gifted email.
func (s *Service) ListGifted(ctx context.Context, opts ListOptions) (*Page, error) {
	return s.list(ctx, model.FLAG_GIFTED, opts)
}

// list paginates over distinct emails, not rows, so a person with duplicate
// registrations is listed and counted once. Sorting only applies to the
// representative rows of the current page.
func (s *Service) list(ctx context.Context, flag model.Flag, opts ListOptions) (*Page, error) {
	opts, err := opts.normalize()
	if err != nil {
		return nil, err
	}
	page := &Page{
		Records:  make([]model.Attendee, 0),
		Page:     opts.Page,
		PageSize: opts.PageSize,
	}

	if err := s.storeOp(ctx, "count_distinct_emails", func(ctx context.Context) error {
		var err error
		page.TotalCount, err = model.CountDistinctEmails(ctx, s.db, flag)
		return err
	}); err != nil {
		return nil, storeError("count_distinct_emails", err)
	}
	if page.TotalCount == 0 {
		return page, nil
	}

	var emails []string
	if err := s.storeOp(ctx, "distinct_emails", func(ctx context.Context) error {
		var err error
		emails, err = model.DistinctEmails(ctx, s.db, flag, (opts.Page-1)*opts.PageSize, opts.PageSize)
		return err
	}); err != nil {
		return nil, storeError("distinct_emails", err)
	}
	if len(emails) == 0 {
		return page, nil
	}

	var rows []model.Attendee
	if err := s.storeOp(ctx, "attendees_by_emails", func(ctx context.Context) error {
		var err error
		rows, err = model.AttendeesByEmails(ctx, s.db, flag, emails, opts.SortBy, opts.Order == "asc")
		return err
	}); err != nil {
		return nil, storeError("attendees_by_emails", err)
	}

	seen := make(map[string]struct{}, len(emails))
	for _, row := range rows {
		if _, ok := seen[row.Email]; ok {
			continue
		}
		seen[row.Email] = struct{}{}
		page.Records = append(page.Records, row)
	}
	return page, nil
}

// Stats returns the registered row count and the distinct entered/gifted
// email counts.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	stats := new(Stats)
	if err := s.storeOp(ctx, "stats", func(ctx context.Context) error {
		var err error
		if stats.Registered, err = model.CountAttendees(ctx, s.db); err != nil {
			return err
		}
		if stats.Entered, err = model.CountDistinctEmails(ctx, s.db, model.FLAG_ENTERED); err != nil {
			return err
		}
		stats.Gifted, err = model.CountDistinctEmails(ctx, s.db, model.FLAG_GIFTED)
		return err
	}); err != nil {
		return nil, storeError("stats", err)
	}
	return stats, nil
}
