package services

import (
	"fmt"

	"AnyCademyAPI/internal/fee"
	"AnyCademyAPI/internal/model"
)

// Mailer is satisfied by external/mailer.SMTPMailer.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// MailNotifier emails instructors when a payout changes state.
type MailNotifier struct {
	mailer Mailer
}

func NewMailNotifier(m Mailer) *MailNotifier {
	return &MailNotifier{mailer: m}
}

func (n *MailNotifier) PayoutStatusChanged(email, fullName string, p *model.PayoutRequest) error {
	var subject, line string
	switch p.Status {
	case model.PayoutProcessing:
		subject = "Your payout is being processed"
		line = "Your payout request has been approved and is being processed."
	case model.PayoutCompleted:
		subject = "Your payout is complete"
		line = "Your payout has been transferred to your bank account."
	case model.PayoutCancelled:
		subject = "Your payout was cancelled"
		line = "Your payout request was cancelled."
		if p.Notes != nil && *p.Notes != "" {
			line += " Reason: " + *p.Notes
		}
	default:
		return nil
	}

	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>%s</p>
		<p>Amount: <strong>%s</strong></p>
	`, fullName, line, fee.FormatIDR(p.Amount))

	return n.mailer.Send(email, subject, body)
}
