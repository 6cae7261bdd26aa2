package notifier

import (
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"sartech/sarscope/internal/models"
	"sartech/sarscope/internal/scraper"
	"sartech/sarscope/logger"
	"sartech/sarscope/pkg/errors"
)

// TelegramNotifier delivers alerts and reports to a Telegram chat
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	log    *logger.Logger
}

// NewTelegramNotifier creates a Telegram notifier for the given chat
func NewTelegramNotifier(token string, chatID int64, log *logger.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, errors.NewNotification("telegram", "failed to create bot", err)
	}

	log.Info().Str("bot", bot.Self.UserName).Msg("Telegram notifier ready")
	return &TelegramNotifier{
		bot:    bot,
		chatID: chatID,
		log:    log,
	}, nil
}

// SendAlert notifies about a single pricing opportunity
func (n *TelegramNotifier) SendAlert(op models.PricingOpportunity) error {
	message := tgbotapi.NewMessage(n.chatID, alertSubject(op)+"\n\n"+alertBody(op))
	if _, err := n.bot.Send(message); err != nil {
		return errors.NewNotification("telegram", "failed to send price alert", err)
	}

	n.log.Info().Int64("chat_id", n.chatID).Str("product", op.ProductName).Msg("Price alert sent")
	return nil
}

// SendTrendReport sends the daily best-seller digest as plain text
func (n *TelegramNotifier) SendTrendReport(report map[string][]scraper.Listing) error {
	message := tgbotapi.NewMessage(n.chatID, reportText(report, time.Now()))
	if _, err := n.bot.Send(message); err != nil {
		return errors.NewNotification("telegram", "failed to send trend report", err)
	}

	n.log.Info().Int64("chat_id", n.chatID).Int("categories", len(report)).Msg("Trend report sent")
	return nil
}
