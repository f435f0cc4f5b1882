// Package notify delivers ticket references to attendees.
package notify

import (
	"context"
	"fmt"
	"html"
	"huddygate/src-server/model"
	"net/mail"
	"strings"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// sender is the part of *sendgrid.Client we use.
type sender interface {
	SendWithContext(ctx context.Context, email *sgmail.SGMailV3) (*rest.Response, error)
}

type Sendgrid struct {
	client  sender
	from    *sgmail.Email
	subject string
}

// NewSendgrid parses from as an RFC 5322 address ("Name <addr>").
func NewSendgrid(apiKey, from, subject string) (*Sendgrid, error) {
	addr, err := mail.ParseAddress(from)
	if err != nil {
		return nil, fmt.Errorf("NewSendgrid: invalid from address: %w", err)
	}
	return &Sendgrid{
		client:  sendgrid.NewSendClient(apiKey),
		from:    sgmail.NewEmail(addr.Name, addr.Address),
		subject: subject,
	}, nil
}

func (s *Sendgrid) SendTicket(ctx context.Context, attendee model.Attendee) error {
	to := sgmail.NewEmail(attendee.Name, attendee.Email)
	plain, rich := ticketBody(attendee)
	resp, err := s.client.SendWithContext(ctx, sgmail.NewSingleEmail(s.from, s.subject, to, plain, rich))
	if err != nil {
		return fmt.Errorf("(*Sendgrid).SendTicket: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("(*Sendgrid).SendTicket: unexpected status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

func ticketBody(a model.Attendee) (string, string) {
	var plain strings.Builder
	fmt.Fprintf(&plain, "Hi %s,\n\nyou're registered. Show this code at the entrance:\n\n    %s\n", a.Name, a.UniqueCode)
	if a.TicketURL != "" {
		fmt.Fprintf(&plain, "\nYour ticket: %s\n", a.TicketURL)
	}

	var rich strings.Builder
	fmt.Fprintf(&rich, "<p>Hi %s,</p><p>you're registered. Show this code at the entrance:</p><p><strong>%s</strong></p>",
		html.EscapeString(a.Name), html.EscapeString(a.UniqueCode))
	if a.TicketURL != "" {
		fmt.Fprintf(&rich, `<p><a href="%s">Open your ticket</a></p><img src="%s" alt="ticket" width="300">`,
			html.EscapeString(a.TicketURL), html.EscapeString(a.TicketURL))
	}
	return plain.String(), rich.String()
}
