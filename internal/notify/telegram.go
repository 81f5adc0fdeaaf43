// Package notify sends operator notifications over Telegram: run status,
// bet confirmations, goal-reached and error reports, with optional
// screenshot attachments.
package notify

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier sends messages and photos to a single operator chat.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramNotifier creates a notifier and verifies the bot token by
// calling getMe once.
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	bot.Debug = false

	if _, err := bot.GetMe(); err != nil {
		return nil, fmt.Errorf("failed to get bot info: %w", err)
	}

	slog.Info("Telegram notifier initialized", "chat_id", chatID)
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

// SendMessage sends an HTML-formatted text message.
func (n *TelegramNotifier) SendMessage(message string) error {
	msg := tgbotapi.NewMessage(n.chatID, message)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	slog.Info("Message sent to Telegram")
	return nil
}

// SendPhoto sends an image file with an optional caption.
func (n *TelegramNotifier) SendPhoto(photoPath, caption string) error {
	if _, err := os.Stat(photoPath); err != nil {
		return fmt.Errorf("photo file not found: %s", photoPath)
	}
	photo := tgbotapi.NewPhoto(n.chatID, tgbotapi.FilePath(photoPath))
	photo.Caption = caption
	if _, err := n.bot.Send(photo); err != nil {
		return fmt.Errorf("failed to send telegram photo: %w", err)
	}
	slog.Info("Photo sent to Telegram", "path", photoPath)
	return nil
}

// SendSuccessNotification reports that the balance goal was reached and the
// recurring trigger is being disabled.
func (n *TelegramNotifier) SendSuccessNotification(balance float64) error {
	message := "🎉 SUCCESS: Bot Goal Achieved! 🎉\n\n"
	message += fmt.Sprintf("Current Balance: $%.2f\n", balance)
	message += "Goal: $10.00 ✓\n\n"
	message += fmt.Sprintf("Time: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))
	message += "The bot has been successfully terminated and will not run again until manually re-enabled."
	return n.SendMessage(message)
}

// SendBetConfirmation reports a placed bet with its slip screenshot.
func (n *TelegramNotifier) SendBetConfirmation(wagerAmount, potentialPayout float64, screenshotPath string) error {
	message := "🎯 BET PLACED SUCCESSFULLY! 🎯\n\n"
	message += fmt.Sprintf("Wager Amount: $%.2f\n", wagerAmount)
	message += fmt.Sprintf("Potential Payout: $%.2f\n\n", potentialPayout)
	message += fmt.Sprintf("Time: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))
	message += "Bet slip screenshot attached below:"

	if err := n.SendMessage(message); err != nil {
		return err
	}
	return n.SendPhoto(screenshotPath, "Bet slip confirmation")
}

// SendErrorNotification reports a failed run, attaching the error screenshot
// when one was captured.
func (n *TelegramNotifier) SendErrorNotification(errorMessage, screenshotPath string) error {
	message := "❌ ERROR: Bot Encountered an Issue ❌\n\n"
	message += fmt.Sprintf("Error: %s\n\n", errorMessage)
	message += fmt.Sprintf("Time: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))
	message += "Please check the logs and screenshot for debugging information."

	if err := n.SendMessage(message); err != nil {
		return err
	}
	if screenshotPath != "" {
		return n.SendPhoto(screenshotPath, "Error screenshot")
	}
	return nil
}

// SendStatusUpdate sends a timestamped operational status message.
func (n *TelegramNotifier) SendStatusUpdate(message string) error {
	full := fmt.Sprintf("📊 STATUS UPDATE: %s\n\n%s", time.Now().Format("2006-01-02 15:04:05"), message)
	return n.SendMessage(full)
}
