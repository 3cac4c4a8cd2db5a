package email

import (
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
	"github.com/refiline/refi-service/internal/config"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// SendRefinanceAlert notifies a subscriber that refinancing their mortgage at
// the current market rate would break even within their threshold.
func (s *Sender) SendRefinanceAlert(to, username, mortgageName string, marketRate, monthlySavings float64, breakEvenMonths int) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = fmt.Sprintf("Refinance opportunity for %s", mortgageName)

	body := fmt.Sprintf(
		"Dear %s,\n\n", username,
	)
	body += fmt.Sprintf(
		"The current market rate of %.2f%% would lower your monthly payment on %s by $%.2f.\n"+
			"At that rate you would recover your closing costs in about %d months.\n"+
			"Log in to review the full break-even analysis before it moves.\n",
		marketRate*100, mortgageName, monthlySavings, breakEvenMonths,
	)
	body += "\nBest regards,\nRefiline"
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	err := e.Send(addr, auth)
	if err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}
