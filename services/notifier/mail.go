package notifier

import (
	"time"

	"gopkg.in/gomail.v2"

	"sartech/sarscope/internal/models"
	"sartech/sarscope/internal/scraper"
	"sartech/sarscope/logger"
	"sartech/sarscope/pkg/errors"
)

// MailNotifier delivers alerts and reports over SMTP
type MailNotifier struct {
	dialer *gomail.Dialer
	from   string
	to     string
	log    *logger.Logger
}

// NewMailNotifier creates an SMTP notifier
func NewMailNotifier(host string, port int, user, pass, to string, log *logger.Logger) *MailNotifier {
	return &MailNotifier{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   user,
		to:     to,
		log:    log,
	}
}

// SendAlert notifies about a single pricing opportunity
func (n *MailNotifier) SendAlert(op models.PricingOpportunity) error {
	message := gomail.NewMessage()
	message.SetHeader("From", n.from)
	message.SetHeader("To", n.to)
	message.SetHeader("Subject", alertSubject(op))
	message.SetBody("text/plain", alertBody(op))

	if err := n.dialer.DialAndSend(message); err != nil {
		return errors.NewNotification(n.to, "failed to send price alert", err)
	}

	n.log.Info().Str("to", n.to).Str("product", op.ProductName).Msg("Price alert sent")
	return nil
}

// SendTrendReport sends the daily best-seller digest as HTML
func (n *MailNotifier) SendTrendReport(report map[string][]scraper.Listing) error {
	now := time.Now()

	message := gomail.NewMessage()
	message.SetHeader("From", n.from)
	message.SetHeader("To", n.to)
	message.SetHeader("Subject", reportSubject(now))
	message.SetBody("text/html", reportHTML(report, now))

	if err := n.dialer.DialAndSend(message); err != nil {
		return errors.NewNotification(n.to, "failed to send trend report", err)
	}

	n.log.Info().Str("to", n.to).Int("categories", len(report)).Msg("Trend report sent")
	return nil
}
