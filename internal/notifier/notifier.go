package notifier

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gdg-garage/outing-api/internal/models"
)

type Notifier interface {
	NotifyParticipation(ctx context.Context, user models.User, p models.Participation) error
}

// Multi fans a notification out to every notifier. Failures are logged and joined;
// one failing channel never stops the others.
type Multi []Notifier

func (m Multi) NotifyParticipation(ctx context.Context, user models.User, p models.Participation) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.NotifyParticipation(ctx, user, p); err != nil {
			log.Printf("Notification for participation %d failed: %v", p.ID, err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func statusLine(status models.ParticipationStatus) string {
	switch status {
	case models.StatusPending:
		return "registered, waiting for confirmation"
	case models.StatusConfirmed:
		return "confirmed 🎉"
	case models.StatusWaitlisted:
		return "on the waiting list"
	case models.StatusCancelled:
		return "cancelled 😢"
	default:
		return strings.ToLower(string(status))
	}
}

// summary is the message body shared by the notifiers, headed by title.
func summary(title string, user models.User, p models.Participation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\nUser: %s\nEvent: %d\nStatus: %s\nParty: %d adult(s), %d child(ren)\nAmount: %s %s",
		title,
		user.Username,
		p.EventID,
		statusLine(p.Status),
		p.AdultCount,
		p.ChildCount,
		p.ComputedAmount.StringFixed(2),
		p.Currency,
	)
	if p.BadgeCode != nil {
		fmt.Fprintf(&b, "\nBadge: %s", *p.BadgeCode)
	}
	if p.Comment != "" {
		fmt.Fprintf(&b, "\nNote: %s", p.Comment)
	}
	return b.String()
}
