package notifier

import (
	"context"
	"strings"

	"SignalSentinel/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// CommandHandler is called when a user command is received.
type CommandHandler func(command string) string

// StartPolling begins long-polling for Telegram commands. Blocks until ctx is
// cancelled. Messages from chats other than the configured one are ignored.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := t.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			t.bot.StopReceivingUpdates()
			logger.Info("telegram polling stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			msg := update.Message
			if msg == nil || msg.Text == "" || msg.Chat == nil || msg.Chat.ID != t.chatID {
				continue
			}
			text := strings.TrimSpace(msg.Text)
			if msg.IsCommand() {
				text = "/" + msg.Command()
			}
			logger.Info("received command: %s", text)
			reply := handler(text)
			if reply == "" {
				continue
			}
			if _, err := t.bot.Send(tgbotapi.NewMessage(t.chatID, reply)); err != nil {
				logger.Error("send reply: %v", err)
			}
		}
	}
}
