package notify

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier delivers revision reminders to users who linked a
// Telegram chat in their profile
type TelegramNotifier struct {
	api *tgbotapi.BotAPI
}

// NewTelegramNotifier creates the notifier from a bot token
func NewTelegramNotifier(token string) (*TelegramNotifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot API: %v", err)
	}
	log.Printf("Reminder bot authorized as %s", api.Self.UserName)
	return &TelegramNotifier{api: api}, nil
}

// SendReminder tells the user how many bookmarked questions await revision
func (n *TelegramNotifier) SendReminder(chatID int64, bookmarked int) error {
	noun := "questions"
	if bookmarked == 1 {
		noun = "question"
	}

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf(
		"You have %d bookmarked %s waiting for revision. Open the app and start a revision session!",
		bookmarked, noun))
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send reminder to chat %d: %v", chatID, err)
	}
	return nil
}
