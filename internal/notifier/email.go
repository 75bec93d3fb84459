package notifier

import (
	"context"
	"fmt"
	"html"
	"log"
	"strings"

	"github.com/gdg-garage/outing-api/internal/models"
	"github.com/resend/resend-go/v2"
)

type emailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// EmailNotifier mails the participant through Resend. Users without an address are skipped.
type EmailNotifier struct {
	emails emailSender
	from   string
}

func NewEmailNotifier(apiKey, from string) *EmailNotifier {
	return &EmailNotifier{
		emails: resend.NewClient(apiKey).Emails,
		from:   from,
	}
}

func subject(p models.Participation) string {
	return fmt.Sprintf("Your participation in event %d is %s", p.EventID, strings.ToLower(string(p.Status)))
}

func (n *EmailNotifier) NotifyParticipation(ctx context.Context, user models.User, p models.Participation) error {
	if user.Email == "" {
		return nil
	}

	body := html.EscapeString(summary("Participation update", user, p))
	params := &resend.SendEmailRequest{
		From:    n.from,
		To:      []string{user.Email},
		Subject: subject(p),
		Html:    "<p>" + strings.ReplaceAll(body, "\n", "<br>") + "</p>",
	}

	sent, err := n.emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("resend send failed: %w", err)
	}
	log.Printf("Participation e-mail %s sent to user %d", sent.Id, user.ID)
	return nil
}
